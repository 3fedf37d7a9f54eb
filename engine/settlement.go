package engine

import (
	"fmt"
	"math"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// IntegrityError marks structurally impossible input: a selection
// referencing an option outside the provided set, or a result that
// should have been resolved before settlement ran. It is a defect in
// the caller's snapshot, not a user-facing validation failure.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "integrity: " + e.Reason
}

// SelectionPayout is the computed payout for one selection
type SelectionPayout struct {
	SelectionID int64
	OptionID    int64
	Payout      int64
}

// SettlementResult is the outcome of settling one entry
type SettlementResult struct {
	Selections []SelectionPayout
	TotalStake int64
	CreditsEnd int64
}

// PayoutFor computes the payout for one resolved selection: a win pays
// floor(stake*odds), a loss pays nothing, a void returns the stake.
func PayoutFor(stake int64, odds float64, result models.PickResult) (int64, error) {
	switch result {
	case models.PickResultWin:
		return int64(math.Floor(float64(stake) * odds)), nil
	case models.PickResultLose:
		return 0, nil
	case models.PickResultVoid:
		return stake, nil
	default:
		return 0, &IntegrityError{Reason: fmt.Sprintf("unresolved result %q reached settlement", result)}
	}
}

// SettleEntry converts an entry's resolved selections into payouts and
// a final credit balance. Settlement runs only after every option in
// the round is resolved; a still-pending option in the snapshot is an
// integrity error, never a silent loss.
//
// CreditsEnd = creditsStart - sum(stakes) + sum(payouts): unspent
// credits carry over untouched and spent credits are replaced by their
// payouts. No clamping is applied, so a payout defect is visible in the
// balance rather than hidden.
func SettleEntry(
	creditsStart int64,
	selections []*models.EntrySelection,
	options map[int64]*models.PickOption,
) (*SettlementResult, error) {
	result := &SettlementResult{
		Selections: make([]SelectionPayout, 0, len(selections)),
	}

	var totalPayout int64
	for _, sel := range selections {
		opt, ok := options[sel.OptionID]
		if !ok {
			return nil, &IntegrityError{Reason: fmt.Sprintf("selection %d references unknown option %d", sel.ID, sel.OptionID)}
		}
		payout, err := PayoutFor(sel.Stake, opt.Odds, opt.Result)
		if err != nil {
			return nil, err
		}
		result.Selections = append(result.Selections, SelectionPayout{
			SelectionID: sel.ID,
			OptionID:    sel.OptionID,
			Payout:      payout,
		})
		result.TotalStake += sel.Stake
		totalPayout += payout
	}

	result.CreditsEnd = creditsStart - result.TotalStake + totalPayout
	return result, nil
}
