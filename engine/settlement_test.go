package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/Danimr96/SportsRank-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResolvedOption(id int64, odds float64, result models.PickResult) *models.PickOption {
	return &models.PickOption{ID: id, Odds: odds, Result: result}
}

func TestSettleEntry(t *testing.T) {
	t.Run("win lose void mix", func(t *testing.T) {
		selections := []*models.EntrySelection{
			{ID: 1, OptionID: 100, Stake: 200},
			{ID: 2, OptionID: 101, Stake: 300},
			{ID: 3, OptionID: 102, Stake: 100},
		}
		options := map[int64]*models.PickOption{
			100: createResolvedOption(100, 2.0, models.PickResultWin),
			101: createResolvedOption(101, 1.5, models.PickResultLose),
			102: createResolvedOption(102, 3.0, models.PickResultVoid),
		}

		result, err := SettleEntry(1000, selections, options)

		require.NoError(t, err)
		require.Len(t, result.Selections, 3)
		assert.Equal(t, int64(400), result.Selections[0].Payout)
		assert.Equal(t, int64(0), result.Selections[1].Payout)
		assert.Equal(t, int64(100), result.Selections[2].Payout)
		assert.Equal(t, int64(600), result.TotalStake)
		assert.Equal(t, int64(900), result.CreditsEnd)
	})

	t.Run("win payout floors fractional credits", func(t *testing.T) {
		selections := []*models.EntrySelection{{ID: 1, OptionID: 100, Stake: 100}}
		options := map[int64]*models.PickOption{
			100: createResolvedOption(100, 1.333, models.PickResultWin),
		}

		result, err := SettleEntry(500, selections, options)

		require.NoError(t, err)
		assert.Equal(t, int64(133), result.Selections[0].Payout)
		assert.Equal(t, int64(533), result.CreditsEnd)
	})

	t.Run("no selections leaves credits untouched", func(t *testing.T) {
		result, err := SettleEntry(1000, nil, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Selections)
		assert.Equal(t, int64(1000), result.CreditsEnd)
	})

	t.Run("pending option is an integrity error", func(t *testing.T) {
		selections := []*models.EntrySelection{{ID: 1, OptionID: 100, Stake: 200}}
		options := map[int64]*models.PickOption{
			100: createResolvedOption(100, 2.0, models.PickResultPending),
		}

		result, err := SettleEntry(1000, selections, options)

		require.Error(t, err)
		assert.Nil(t, result)
		var integrity *IntegrityError
		assert.True(t, errors.As(err, &integrity))
	})

	t.Run("unknown option is an integrity error", func(t *testing.T) {
		selections := []*models.EntrySelection{{ID: 1, OptionID: 999, Stake: 200}}

		result, err := SettleEntry(1000, selections, map[int64]*models.PickOption{})

		require.Error(t, err)
		assert.Nil(t, result)
		var integrity *IntegrityError
		assert.True(t, errors.As(err, &integrity))
	})

	t.Run("budget conservation holds for every result combination", func(t *testing.T) {
		results := []models.PickResult{models.PickResultWin, models.PickResultLose, models.PickResultVoid}
		stakes := []int64{200, 300, 100}
		odds := []float64{2.0, 1.5, 3.7}
		creditsStart := int64(1000)

		for _, r1 := range results {
			for _, r2 := range results {
				for _, r3 := range results {
					combo := []models.PickResult{r1, r2, r3}
					selections := make([]*models.EntrySelection, 3)
					options := make(map[int64]*models.PickOption, 3)
					var wantStake, wantPayout int64
					for i := range combo {
						optionID := int64(100 + i)
						selections[i] = &models.EntrySelection{ID: int64(i + 1), OptionID: optionID, Stake: stakes[i]}
						options[optionID] = createResolvedOption(optionID, odds[i], combo[i])
						wantStake += stakes[i]
						switch combo[i] {
						case models.PickResultWin:
							wantPayout += int64(math.Floor(float64(stakes[i]) * odds[i]))
						case models.PickResultVoid:
							wantPayout += stakes[i]
						}
					}

					result, err := SettleEntry(creditsStart, selections, options)

					require.NoError(t, err)
					assert.Equalf(t, creditsStart-wantStake+wantPayout, result.CreditsEnd, "combo %v", combo)
				}
			}
		}
	})
}
