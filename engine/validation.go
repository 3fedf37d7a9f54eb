package engine

import (
	"fmt"
	"time"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// Code identifies one machine-checkable validation rule
type Code string

const (
	CodeRoundNotOpen           Code = "ROUND_NOT_OPEN"
	CodeRoundClosed            Code = "ROUND_CLOSED"
	CodeInvalidPick            Code = "INVALID_PICK"
	CodeInvalidOption          Code = "INVALID_OPTION"
	CodeDuplicatePickSelection Code = "DUPLICATE_PICK_SELECTION"
	CodeInvalidStake           Code = "INVALID_STAKE"
	CodeStakeOutOfRange        Code = "STAKE_OUT_OF_RANGE"
	CodeStakeStepInvalid       Code = "STAKE_STEP_INVALID"
	CodeTotalStakeExceeded     Code = "TOTAL_STAKE_EXCEEDED"
	CodeFullBudgetRequired     Code = "FULL_BUDGET_REQUIRED"
	CodePickStartTimeMissing   Code = "PICK_START_TIME_MISSING"
	CodePickAlreadyStarted     Code = "PICK_ALREADY_STARTED"
)

// ValidationError is one violated rule with a user-presentable message
type ValidationError struct {
	Code    Code
	Message string
}

// ValidationResult accumulates every violation found in one pass so the
// caller can surface all problems at once. It is advisory at read time
// and authoritative only when recomputed inside the guarded write.
type ValidationResult struct {
	OK               bool
	Errors           []ValidationError
	TotalStake       int64
	RemainingCredits int64
}

// HasCode checks whether a specific rule was violated
func (r *ValidationResult) HasCode(code Code) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (r *ValidationResult) add(code Code, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// ValidateSelection validates one proposed selection upsert against the
// round configuration, the round's picks, and the entry's other current
// selections. All violations are accumulated; nothing short-circuits.
func ValidateSelection(
	round *models.Round,
	picks []*models.PickDetail,
	existing []*models.EntrySelection,
	proposed *models.EntrySelection,
	creditsStart int64,
	now time.Time,
) *ValidationResult {
	result := &ValidationResult{}

	checkRoundWindow(result, round, now)

	pick := findPick(picks, proposed.PickID)
	if pick == nil {
		result.add(CodeInvalidPick, "pick %d does not belong to round %d", proposed.PickID, round.ID)
	} else {
		if pick.OptionByID(proposed.OptionID) == nil {
			result.add(CodeInvalidOption, "option %d does not belong to pick %d", proposed.OptionID, proposed.PickID)
		}
		// An event that has started freezes its pick regardless of
		// round state.
		if pick.Pick.Metadata.StartTime == nil {
			result.add(CodePickStartTimeMissing, "pick %d has no event start time", proposed.PickID)
		} else if pick.Pick.HasStarted(now) {
			result.add(CodePickAlreadyStarted, "event for pick %d started at %s", proposed.PickID, pick.Pick.Metadata.StartTime.UTC().Format(time.RFC3339))
		}
	}

	checkStake(result, round, proposed.Stake)

	// Recompute the total as if the proposal were applied: all other
	// selections plus the proposed stake, replacing any prior stake on
	// the same pick.
	var total int64
	for _, sel := range existing {
		if sel.PickID == proposed.PickID {
			continue
		}
		total += sel.Stake
	}
	total += proposed.Stake

	if total > creditsStart {
		result.add(CodeTotalStakeExceeded, "total stake %d exceeds starting credits %d", total, creditsStart)
	}

	result.TotalStake = total
	result.RemainingCredits = creditsStart - total
	result.OK = len(result.Errors) == 0
	return result
}

// ValidateEntry validates a full selection set before the entry locks.
// A lock is a budget and consistency check, not a freshness check, so
// per-pick event start times are deliberately not re-examined here;
// only the upsert path enforces event freezing.
func ValidateEntry(
	round *models.Round,
	picks []*models.PickDetail,
	selections []*models.EntrySelection,
	creditsStart int64,
	now time.Time,
) *ValidationResult {
	result := &ValidationResult{}

	checkRoundWindow(result, round, now)

	seen := make(map[int64]bool, len(selections))
	var total int64
	for _, sel := range selections {
		if seen[sel.PickID] {
			result.add(CodeDuplicatePickSelection, "pick %d is selected more than once", sel.PickID)
		}
		seen[sel.PickID] = true

		pick := findPick(picks, sel.PickID)
		if pick == nil {
			result.add(CodeInvalidPick, "pick %d does not belong to round %d", sel.PickID, round.ID)
		} else if pick.OptionByID(sel.OptionID) == nil {
			result.add(CodeInvalidOption, "option %d does not belong to pick %d", sel.OptionID, sel.PickID)
		}

		checkStake(result, round, sel.Stake)
		total += sel.Stake
	}

	if total > creditsStart {
		result.add(CodeTotalStakeExceeded, "total stake %d exceeds starting credits %d", total, creditsStart)
	}
	if round.EnforceFullBudget && total != creditsStart {
		result.add(CodeFullBudgetRequired, "round requires the full budget staked: have %d of %d", total, creditsStart)
	}

	result.TotalStake = total
	result.RemainingCredits = creditsStart - total
	result.OK = len(result.Errors) == 0
	return result
}

func checkRoundWindow(result *ValidationResult, round *models.Round, now time.Time) {
	if round.Status != models.RoundStatusOpen {
		result.add(CodeRoundNotOpen, "round %d is %s, not open", round.ID, round.Status)
	}
	if round.IsClosed(now) {
		result.add(CodeRoundClosed, "round %d closed at %s", round.ID, round.ClosesAt.UTC().Format(time.RFC3339))
	}
}

func checkStake(result *ValidationResult, round *models.Round, stake int64) {
	if stake <= 0 {
		result.add(CodeInvalidStake, "stake must be a positive integer, got %d", stake)
		return
	}
	if stake < round.MinStake || stake > round.MaxStake {
		result.add(CodeStakeOutOfRange, "stake %d outside [%d, %d]", stake, round.MinStake, round.MaxStake)
	}
	if round.StakeStep > 0 && stake%round.StakeStep != 0 {
		result.add(CodeStakeStepInvalid, "stake %d is not a multiple of %d", stake, round.StakeStep)
	}
}

func findPick(picks []*models.PickDetail, pickID int64) *models.PickDetail {
	for _, pd := range picks {
		if pd.Pick.ID == pickID {
			return pd
		}
	}
	return nil
}
