package models

import (
	"encoding/json"
	"time"
)

// ModeKind discriminates the leaderboard scoring interpretation
type ModeKind string

const (
	ModeKindCredits    ModeKind = "credits"
	ModeKindNetBySport ModeKind = "net_by_sport"
)

// Mode is a tagged scoring mode. Credits mode ranks entries by projected
// end-of-round credits; net-by-sport ranks by net profit over the
// selections of a single sport. The sport slug is only meaningful for
// the net variant, so callers cannot mix the two by accident.
type Mode struct {
	kind      ModeKind
	sportSlug string
}

// CreditsMode returns the live, credits-based scoring mode
func CreditsMode() Mode {
	return Mode{kind: ModeKindCredits}
}

// NetBySportMode returns the net-P&L scoring mode filtered to one sport
func NetBySportMode(sportSlug string) Mode {
	return Mode{kind: ModeKindNetBySport, sportSlug: sportSlug}
}

// Kind returns the mode discriminator
func (m Mode) Kind() ModeKind {
	if m.kind == "" {
		return ModeKindCredits
	}
	return m.kind
}

// SportSlug returns the sport filter and whether one applies
func (m Mode) SportSlug() (string, bool) {
	return m.sportSlug, m.Kind() == ModeKindNetBySport
}

// String renders the mode for cache keys and logs
func (m Mode) String() string {
	if m.Kind() == ModeKindNetBySport {
		return string(ModeKindNetBySport) + ":" + m.sportSlug
	}
	return string(ModeKindCredits)
}

type modeJSON struct {
	Kind      ModeKind `json:"kind"`
	SportSlug string   `json:"sportSlug,omitempty"`
}

// MarshalJSON keeps the variant intact across cache round-trips
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeJSON{Kind: m.Kind(), SportSlug: m.sportSlug})
}

// UnmarshalJSON restores a mode serialized by MarshalJSON
func (m *Mode) UnmarshalJSON(data []byte) error {
	var raw modeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.kind = raw.Kind
	m.sportSlug = raw.SportSlug
	return nil
}

// Scenario names a deterministic projection stance for unresolved picks
type Scenario string

const (
	ScenarioConservative Scenario = "conservative"
	ScenarioBase         Scenario = "base"
	ScenarioAggressive   Scenario = "aggressive"
)

// IsValid checks the scenario against the known set
func (s Scenario) IsValid() bool {
	switch s {
	case ScenarioConservative, ScenarioBase, ScenarioAggressive:
		return true
	}
	return false
}

// StandingSelection is the slice of selection state the ranking engine
// needs: the stake, the fixed odds, the current result, and the sport
// for filtered modes.
type StandingSelection struct {
	Stake     int64
	Odds      float64
	Result    PickResult
	SportSlug string
}

// EntryStanding is a full snapshot of one entry for ranking purposes.
// The service layer assembles these from store records; the engine
// never reads the store itself.
type EntryStanding struct {
	EntryID      int64
	UserID       int64
	Username     string
	CreditsStart int64
	LockedAt     *time.Time
	Selections   []StandingSelection
}

// LeaderboardRow is one ranked entry with its attainable score range
type LeaderboardRow struct {
	Rank         int
	EntryID      int64
	UserID       int64
	Username     string
	CurrentScore int64
	MinScore     int64
	MaxScore     int64
	Unresolved   int
}

// RankRange is the span of leaderboard positions an entry could still
// finish in given its unresolved selections.
type RankRange struct {
	CurrentRank int
	BestRank    int
	WorstRank   int
}

// Leaderboard is the ranked view of all entries in a round
type Leaderboard struct {
	Rows    []*LeaderboardRow
	MyRange *RankRange
	Mode    Mode
}

// EntryProjection is the score outlook for a single entry under a
// named scenario, alongside the hard best/worst bounds.
type EntryProjection struct {
	EntryID       int64
	Scenario      Scenario
	CurrentScore  int64
	MinScore      int64
	MaxScore      int64
	ScenarioScore int64
}

// ProjectedRank is a scenario-weighted rank projection with the rows
// ranked immediately around the target entry for context.
type ProjectedRank struct {
	EntryID       int64
	Scenario      Scenario
	ScenarioRank  int
	ScenarioScore int64
	BestRank      int
	WorstRank     int
	Neighborhood  []*LeaderboardRow
}
