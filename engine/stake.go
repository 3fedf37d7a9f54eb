// Package engine holds the pure domain computations of the prediction
// pool: stake quantization, selection and lock validation, settlement,
// ranking projection and historical aggregation. Every function takes a
// complete snapshot of the records it needs and returns a new value;
// nothing in this package reads the clock, the store, or shared state.
package engine

const (
	// Default band derived from the stake step: one step at the low end,
	// ten steps at the high end.
	defaultMinStakeSteps = 1
	defaultMaxStakeSteps = 10
)

// DeriveStakeRange produces the suggested min/max stake band for a
// round from its starting budget and stake step. Both bounds stay
// within the budget and on the step grid.
func DeriveStakeRange(startingCredits, stakeStep int64) (minStake, maxStake int64) {
	if stakeStep <= 0 || startingCredits <= 0 {
		return 0, 0
	}

	minStake = stakeStep * defaultMinStakeSteps
	maxStake = stakeStep * defaultMaxStakeSteps

	if maxStake > startingCredits {
		// Largest step multiple that still fits the budget.
		maxStake = (startingCredits / stakeStep) * stakeStep
	}
	if minStake > maxStake {
		minStake = maxStake
	}
	return minStake, maxStake
}

// SanitizeStakeStep returns candidate when it is a usable step,
// otherwise fallback.
func SanitizeStakeStep(candidate, fallback int64) int64 {
	if candidate > 0 {
		return candidate
	}
	return fallback
}

// NormalizeStakeToStep clamps candidate into [floor, ceiling] and
// rounds it to the nearest multiple of stakeStep without exceeding the
// ceiling. A non-positive step disables quantization and only the
// clamp applies.
func NormalizeStakeToStep(candidate, floor, ceiling, stakeStep int64) int64 {
	if ceiling < floor {
		ceiling = floor
	}
	stake := candidate
	if stake < floor {
		stake = floor
	}
	if stake > ceiling {
		stake = ceiling
	}
	if stakeStep <= 0 {
		return stake
	}

	// Round to the nearest step, half away from zero.
	rounded := ((stake + stakeStep/2) / stakeStep) * stakeStep
	if rounded > ceiling {
		rounded -= stakeStep
	}
	if rounded < floor {
		rounded += stakeStep
	}
	if rounded > ceiling {
		// Degenerate band narrower than one step: fall back to the
		// largest multiple under the ceiling.
		rounded = (ceiling / stakeStep) * stakeStep
	}
	return rounded
}
