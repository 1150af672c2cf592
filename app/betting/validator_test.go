package betting

import (
	"testing"

	"github.com/oddslip/oddslip/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBet_SingleValid(t *testing.T) {
	sels := testSelections(1)
	stakes := map[string]float64{"ev1-1X2": 50}

	result := ValidateBet(models.BetTypeSingle, sels, stakes, "", 1000, DefaultLimits())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.InDelta(t, 50, result.Calculations.TotalStake, 1e-9)
	assert.InDelta(t, 105, result.Calculations.PotentialWin, 1e-9)
	assert.Equal(t, float64(1000), result.Limits.UserBalance)
	assert.Equal(t, float64(1), result.Limits.MinStake)
	assert.Equal(t, float64(10000), result.Limits.MaxStake)
	assert.Equal(t, float64(100000), result.Limits.MaxPayout)
}

func TestValidateBet_AccumulatesAllErrors(t *testing.T) {
	sels := []Selection{
		{EventID: "", EventName: "x", Market: "", Selection: "", Odds: 0.5},
	}
	result := ValidateBet(models.BetType("exotic"), sels, map[string]float64{}, "", 0, DefaultLimits())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Invalid bet type")
	assert.Contains(t, result.Errors, "Selection 1: Missing required data")
	assert.Contains(t, result.Errors, "Selection 1: Odds must be between 1.01 and 1000")
}

func TestValidateBet_SingleStakeMessages(t *testing.T) {
	sels := testSelections(1)

	below := ValidateBet(models.BetTypeSingle, sels, map[string]float64{"ev1-1X2": 0.5}, "", 1000, DefaultLimits())
	assert.Contains(t, below.Errors, "Arsenal: Minimum stake is $1")

	above := ValidateBet(models.BetTypeSingle, sels, map[string]float64{"ev1-1X2": 20000}, "", 100000, DefaultLimits())
	assert.Contains(t, above.Errors, "Arsenal: Maximum stake is $10000")
}

func TestValidateBet_InsufficientBalance(t *testing.T) {
	sels := testSelections(1)
	result := ValidateBet(models.BetTypeSingle, sels, map[string]float64{"ev1-1X2": 50}, "", 10, DefaultLimits())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Insufficient balance. Required: $50.00, Available: $10.00")
}

func TestValidateBet_AccumulatorRules(t *testing.T) {
	t.Run("minimum legs", func(t *testing.T) {
		result := ValidateBet(models.BetTypeAccumulator, testSelections(1), map[string]float64{StakeKeyAccumulator: 10}, "", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "Accumulator requires at least 2 selections")
	})

	t.Run("stake limits", func(t *testing.T) {
		result := ValidateBet(models.BetTypeAccumulator, testSelections(2), map[string]float64{StakeKeyAccumulator: 0.5}, "", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "Minimum stake is $1")

		result = ValidateBet(models.BetTypeAccumulator, testSelections(2), map[string]float64{StakeKeyAccumulator: 20000}, "", 1e9, DefaultLimits())
		assert.Contains(t, result.Errors, "Maximum stake is $10000")
	})

	t.Run("combined odds warning", func(t *testing.T) {
		sels := []Selection{
			{EventID: "e1", EventName: "a", Market: "m", Selection: "s1", Odds: 50},
			{EventID: "e2", EventName: "b", Market: "m", Selection: "s2", Odds: 50},
		}
		result := ValidateBet(models.BetTypeAccumulator, sels, map[string]float64{StakeKeyAccumulator: 1}, "", 1e9, DefaultLimits())
		assert.Contains(t, result.Warnings, "Very high combined odds (2500.00)")
	})
}

func TestValidateBet_SystemRules(t *testing.T) {
	sels := testSelections(3)

	t.Run("valid", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSystem, sels, map[string]float64{StakeKeySystem: 5}, "2/3", 1000, DefaultLimits())
		assert.True(t, result.IsValid, "errors: %v", result.Errors)
		assert.Equal(t, 3, result.Calculations.Combinations)
		assert.InDelta(t, 15, result.Calculations.TotalStake, 1e-9)
	})

	t.Run("missing type", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSystem, sels, map[string]float64{StakeKeySystem: 5}, "", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "System type is required")
	})

	t.Run("type mismatch", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSystem, sels, map[string]float64{StakeKeySystem: 5}, "2/4", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "System type doesn't match number of selections")
	})

	t.Run("k not below n", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSystem, sels, map[string]float64{StakeKeySystem: 5}, "3/3", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "Invalid system type")
	})

	t.Run("per combination minimum", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSystem, sels, map[string]float64{StakeKeySystem: 0.5}, "2/3", 1000, DefaultLimits())
		assert.Contains(t, result.Errors, "Minimum stake per combination is $1")
	})

	t.Run("total cap", func(t *testing.T) {
		many := make([]Selection, 10)
		for i := range many {
			many[i] = Selection{EventID: "e", EventName: "n", Market: "m", Selection: "s", Odds: 1.5}
		}
		// C(10,5) = 252 combinations at $500 each is over the cap.
		result := ValidateBet(models.BetTypeSystem, many, map[string]float64{StakeKeySystem: 500}, "5/10", 1e9, DefaultLimits())
		assert.Contains(t, result.Errors, "Total system stake too high")
	})
}

func TestValidateBet_PayoutCap(t *testing.T) {
	sels := []Selection{{EventID: "e", EventName: "n", Market: "m", Selection: "s", Odds: 500}}
	result := ValidateBet(models.BetTypeSingle, sels, map[string]float64{"e-m": 1000}, "", 1e9, DefaultLimits())

	assert.Contains(t, result.Errors, "Potential win exceeds maximum payout limit of $100000")
}

func TestValidateBet_Warnings(t *testing.T) {
	t.Run("high single odds", func(t *testing.T) {
		sels := []Selection{{EventID: "e", EventName: "n", Market: "m", Selection: "s", Odds: 150}}
		result := ValidateBet(models.BetTypeSingle, sels, map[string]float64{"e-m": 1}, "", 1000, DefaultLimits())
		assert.Contains(t, result.Warnings, "Selection 1: Very high odds (150)")
	})

	t.Run("half the balance", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSingle, testSelections(1), map[string]float64{"ev1-1X2": 60}, "", 100, DefaultLimits())
		require.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, "This bet uses more than 50% of your balance")
	})

	t.Run("large stake", func(t *testing.T) {
		result := ValidateBet(models.BetTypeSingle, testSelections(1), map[string]float64{"ev1-1X2": 1500}, "", 100000, DefaultLimits())
		assert.Contains(t, result.Warnings, "Large stake amount")
	})
}
