package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// Scenario win-probability factors applied to the odds-implied
// probability of each unresolved selection. Base is exactly the implied
// probability, so a base projection of one selection is credit-neutral.
var scenarioFactors = map[models.Scenario]float64{
	models.ScenarioConservative: 0.75,
	models.ScenarioBase:         1.0,
	models.ScenarioAggressive:   1.25,
}

// LeaderboardOptions selects the scoring mode and the entry whose rank
// range should be derived.
type LeaderboardOptions struct {
	UserID int64
	Mode   models.Mode
}

// scoreBounds is the per-entry triple the ranking sort works over
type scoreBounds struct {
	standing   *models.EntryStanding
	current    int64
	min        int64
	max        int64
	unresolved int
}

// selectionBounds returns the current/min/max contribution of a single
// selection under the given mode. Under credits mode contributions are
// absolute credits; under net-by-sport they are profit deltas and
// selections of other sports contribute nothing.
func selectionBounds(sel models.StandingSelection, mode models.Mode) (current, min, max int64, unresolved bool) {
	if slug, ok := mode.SportSlug(); ok && sel.SportSlug != slug {
		return 0, 0, 0, false
	}

	winPayout := int64(math.Floor(float64(sel.Stake) * sel.Odds))

	var resolvedPayout int64
	switch sel.Result {
	case models.PickResultWin:
		resolvedPayout = winPayout
	case models.PickResultLose:
		resolvedPayout = 0
	case models.PickResultVoid:
		resolvedPayout = sel.Stake
	default:
		// Still uncertain: neutral at face value now, a loss at worst,
		// a full win at best.
		if mode.Kind() == models.ModeKindNetBySport {
			return 0, -sel.Stake, winPayout - sel.Stake, true
		}
		return sel.Stake, 0, winPayout, true
	}

	if mode.Kind() == models.ModeKindNetBySport {
		net := resolvedPayout - sel.Stake
		return net, net, net, false
	}
	return resolvedPayout, resolvedPayout, resolvedPayout, false
}

func computeBounds(standing *models.EntryStanding, mode models.Mode) scoreBounds {
	b := scoreBounds{standing: standing}

	var base int64
	if mode.Kind() == models.ModeKindCredits {
		// Unspent credits carry through every outcome.
		base = standing.CreditsStart
		for _, sel := range standing.Selections {
			base -= sel.Stake
		}
	}

	b.current, b.min, b.max = base, base, base
	for _, sel := range standing.Selections {
		cur, lo, hi, open := selectionBounds(sel, mode)
		b.current += cur
		b.min += lo
		b.max += hi
		if open {
			b.unresolved++
		}
	}
	return b
}

// scenarioScore projects the entry's score with every unresolved
// selection weighted by its scenario-adjusted win probability. The
// output depends only on the inputs, never on the clock or randomness.
func scenarioScore(standing *models.EntryStanding, mode models.Mode, scenario models.Scenario) int64 {
	factor := scenarioFactors[scenario]

	var score int64
	if mode.Kind() == models.ModeKindCredits {
		score = standing.CreditsStart
		for _, sel := range standing.Selections {
			score -= sel.Stake
		}
	}

	for _, sel := range standing.Selections {
		cur, _, _, open := selectionBounds(sel, mode)
		if !open {
			score += cur
			continue
		}
		if slug, ok := mode.SportSlug(); ok && sel.SportSlug != slug {
			continue
		}
		// Win probability implied by the odds (1/odds) scaled by the
		// scenario factor; the expected payout stake*odds*p collapses
		// to stake*min(factor, odds) once p is capped at 1.
		effective := factor
		if effective > sel.Odds {
			effective = sel.Odds
		}
		expected := int64(math.Floor(float64(sel.Stake) * effective))
		if mode.Kind() == models.ModeKindNetBySport {
			score += expected - sel.Stake
		} else {
			score += expected
		}
	}
	return score
}

// sortRanked orders entries by score descending with a total order:
// ties break on earliest lock time (never-locked entries last), then on
// entry identity. Bit-identical output for identical input.
func sortRanked(bounds []scoreBounds, scoreOf func(scoreBounds) int64) []scoreBounds {
	ranked := make([]scoreBounds, len(bounds))
	copy(ranked, bounds)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scoreOf(ranked[i]), scoreOf(ranked[j])
		if si != sj {
			return si > sj
		}
		li, lj := ranked[i].standing.LockedAt, ranked[j].standing.LockedAt
		switch {
		case li != nil && lj != nil && !li.Equal(*lj):
			return li.Before(*lj)
		case li != nil && lj == nil:
			return true
		case li == nil && lj != nil:
			return false
		}
		return ranked[i].standing.EntryID < ranked[j].standing.EntryID
	})
	return ranked
}

func rankOf(ranked []scoreBounds, entryID int64) int {
	for i, b := range ranked {
		if b.standing.EntryID == entryID {
			return i + 1
		}
	}
	return 0
}

// ComputeLiveLeaderboard ranks every entry by its current score and,
// for the requesting user, derives the best and worst final positions
// still reachable: best assumes the user wins every open selection
// while everyone else loses theirs, worst assumes the inverse.
func ComputeLiveLeaderboard(standings []*models.EntryStanding, opts LeaderboardOptions) *models.Leaderboard {
	bounds := make([]scoreBounds, 0, len(standings))
	for _, s := range standings {
		bounds = append(bounds, computeBounds(s, opts.Mode))
	}

	ranked := sortRanked(bounds, func(b scoreBounds) int64 { return b.current })

	board := &models.Leaderboard{
		Rows: make([]*models.LeaderboardRow, 0, len(ranked)),
		Mode: opts.Mode,
	}
	var myEntryID int64
	for i, b := range ranked {
		board.Rows = append(board.Rows, &models.LeaderboardRow{
			Rank:         i + 1,
			EntryID:      b.standing.EntryID,
			UserID:       b.standing.UserID,
			Username:     b.standing.Username,
			CurrentScore: b.current,
			MinScore:     b.min,
			MaxScore:     b.max,
			Unresolved:   b.unresolved,
		})
		if opts.UserID != 0 && b.standing.UserID == opts.UserID {
			myEntryID = b.standing.EntryID
		}
	}

	if myEntryID != 0 {
		bestCase := sortRanked(bounds, func(b scoreBounds) int64 {
			if b.standing.EntryID == myEntryID {
				return b.max
			}
			return b.min
		})
		worstCase := sortRanked(bounds, func(b scoreBounds) int64 {
			if b.standing.EntryID == myEntryID {
				return b.min
			}
			return b.max
		})
		board.MyRange = &models.RankRange{
			CurrentRank: rankOf(ranked, myEntryID),
			BestRank:    rankOf(bestCase, myEntryID),
			WorstRank:   rankOf(worstCase, myEntryID),
		}
	}

	return board
}

// ProjectEntryRange computes the scenario-weighted score for one entry
// alongside its hard best/worst bounds under credits scoring.
func ProjectEntryRange(standing *models.EntryStanding, scenario models.Scenario) (*models.EntryProjection, error) {
	if !scenario.IsValid() {
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}
	mode := models.CreditsMode()
	b := computeBounds(standing, mode)
	return &models.EntryProjection{
		EntryID:       standing.EntryID,
		Scenario:      scenario,
		CurrentScore:  b.current,
		MinScore:      b.min,
		MaxScore:      b.max,
		ScenarioScore: scenarioScore(standing, mode, scenario),
	}, nil
}

// neighborhoodRadius bounds how many adjacent rows surround the target
// entry in a rank projection.
const neighborhoodRadius = 2

// ComputeProjectedRankRange ranks the round under a named scenario and
// returns the target user's projected position, the true best/worst
// bounds, and the scenario rows immediately around them.
func ComputeProjectedRankRange(standings []*models.EntryStanding, userID int64, scenario models.Scenario) (*models.ProjectedRank, error) {
	if !scenario.IsValid() {
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}

	mode := models.CreditsMode()
	bounds := make([]scoreBounds, 0, len(standings))
	scores := make(map[int64]int64, len(standings))
	var target *models.EntryStanding
	for _, s := range standings {
		bounds = append(bounds, computeBounds(s, mode))
		scores[s.EntryID] = scenarioScore(s, mode, scenario)
		if s.UserID == userID && target == nil {
			target = s
		}
	}
	if target == nil {
		return nil, fmt.Errorf("user %d has no entry in this round", userID)
	}

	ranked := sortRanked(bounds, func(b scoreBounds) int64 { return scores[b.standing.EntryID] })
	scenarioRank := rankOf(ranked, target.EntryID)

	bestCase := sortRanked(bounds, func(b scoreBounds) int64 {
		if b.standing.EntryID == target.EntryID {
			return b.max
		}
		return b.min
	})
	worstCase := sortRanked(bounds, func(b scoreBounds) int64 {
		if b.standing.EntryID == target.EntryID {
			return b.min
		}
		return b.max
	})

	lo := scenarioRank - 1 - neighborhoodRadius
	if lo < 0 {
		lo = 0
	}
	hi := scenarioRank + neighborhoodRadius
	if hi > len(ranked) {
		hi = len(ranked)
	}
	neighborhood := make([]*models.LeaderboardRow, 0, hi-lo)
	for i := lo; i < hi; i++ {
		b := ranked[i]
		neighborhood = append(neighborhood, &models.LeaderboardRow{
			Rank:         i + 1,
			EntryID:      b.standing.EntryID,
			UserID:       b.standing.UserID,
			Username:     b.standing.Username,
			CurrentScore: scores[b.standing.EntryID],
			MinScore:     b.min,
			MaxScore:     b.max,
			Unresolved:   b.unresolved,
		})
	}

	return &models.ProjectedRank{
		EntryID:       target.EntryID,
		Scenario:      scenario,
		ScenarioRank:  scenarioRank,
		ScenarioScore: scores[target.EntryID],
		BestRank:      rankOf(bestCase, target.EntryID),
		WorstRank:     rankOf(worstCase, target.EntryID),
		Neighborhood:  neighborhood,
	}, nil
}
