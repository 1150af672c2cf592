package betting

import (
	"fmt"
	"strconv"

	"github.com/oddslip/oddslip/models"
)

// Calculations holds the totals derived while validating a ticket.
type Calculations struct {
	TotalStake   float64 `json:"totalStake"`
	PotentialWin float64 `json:"potentialWin"`
	Combinations int     `json:"combinations"`
	MaxPayout    float64 `json:"maxPayout"`
}

// ValidationLimits echoes the limits a ticket was validated against.
type ValidationLimits struct {
	MinStake    float64 `json:"minStake"`
	MaxStake    float64 `json:"maxStake"`
	MaxPayout   float64 `json:"maxPayout"`
	UserBalance float64 `json:"userBalance"`
}

// ValidationResult is the full verdict on a proposed ticket. Every rule runs;
// errors accumulate rather than short-circuiting so one call reports all
// violations at once.
type ValidationResult struct {
	IsValid      bool             `json:"isValid"`
	Errors       []string         `json:"errors"`
	Warnings     []string         `json:"warnings"`
	Calculations Calculations     `json:"calculations"`
	Limits       ValidationLimits `json:"limits"`
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ValidateBet checks a proposed ticket against the staking rules and the
// bettor's balance. It performs no mutation and is safe to call repeatedly.
func ValidateBet(betType models.BetType, selections []Selection, stakes map[string]float64, systemType string, balance float64, limits Limits) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Limits: ValidationLimits{
			MinStake:    limits.MinStake,
			MaxStake:    limits.MaxStake,
			MaxPayout:   limits.MaxPayout,
			UserBalance: balance,
		},
	}

	if len(selections) == 0 {
		result.addError("At least one selection is required")
	}

	switch betType {
	case models.BetTypeSingle, models.BetTypeAccumulator, models.BetTypeSystem:
	default:
		result.addError("Invalid bet type")
	}

	for i, sel := range selections {
		if sel.EventID == "" || sel.Market == "" || sel.Selection == "" {
			result.addError(fmt.Sprintf("Selection %d: Missing required data", i+1))
		}
		if sel.Odds < 1.01 || sel.Odds > 1000 {
			result.addError(fmt.Sprintf("Selection %d: Odds must be between 1.01 and 1000", i+1))
		}
		if sel.Odds > 100 {
			result.addWarning(fmt.Sprintf("Selection %d: Very high odds (%s)", i+1, formatNumber(sel.Odds)))
		}
	}

	switch betType {
	case models.BetTypeSingle:
		validateSingleStakes(result, selections, stakes)
	case models.BetTypeAccumulator:
		validateAccumulatorStakes(result, selections, stakes)
	case models.BetTypeSystem:
		validateSystemStakes(result, selections, stakes, systemType)
	}

	if result.Calculations.TotalStake > balance {
		result.addError(fmt.Sprintf("Insufficient balance. Required: $%.2f, Available: $%.2f",
			result.Calculations.TotalStake, balance))
	}

	if result.Calculations.PotentialWin > limits.MaxPayout {
		result.addError(fmt.Sprintf("Potential win exceeds maximum payout limit of $%s", formatNumber(limits.MaxPayout)))
	}

	if result.Calculations.TotalStake > balance*0.5 {
		result.addWarning("This bet uses more than 50% of your balance")
	}
	if result.Calculations.TotalStake > 1000 {
		result.addWarning("Large stake amount")
	}

	return result
}

func validateSingleStakes(result *ValidationResult, selections []Selection, stakes map[string]float64) {
	for _, sel := range selections {
		stake := stakes[sel.StakeKey()]

		if stake < result.Limits.MinStake {
			result.addError(fmt.Sprintf("%s: Minimum stake is $%s", sel.Selection, formatNumber(result.Limits.MinStake)))
		}
		if stake > result.Limits.MaxStake {
			result.addError(fmt.Sprintf("%s: Maximum stake is $%s", sel.Selection, formatNumber(result.Limits.MaxStake)))
		}

		result.Calculations.TotalStake += stake
		result.Calculations.PotentialWin += stake * sel.Odds
	}
}

func validateAccumulatorStakes(result *ValidationResult, selections []Selection, stakes map[string]float64) {
	if len(selections) < 2 {
		result.addError("Accumulator requires at least 2 selections")
	}

	stake := stakes[StakeKeyAccumulator]
	result.Calculations.TotalStake = stake

	if stake < result.Limits.MinStake {
		result.addError(fmt.Sprintf("Minimum stake is $%s", formatNumber(result.Limits.MinStake)))
	}
	if stake > result.Limits.MaxStake {
		result.addError(fmt.Sprintf("Maximum stake is $%s", formatNumber(result.Limits.MaxStake)))
	}

	combinedOdds := 1.0
	for _, sel := range selections {
		combinedOdds *= sel.Odds
	}
	result.Calculations.PotentialWin = stake * combinedOdds

	if combinedOdds > 1000 {
		result.addWarning(fmt.Sprintf("Very high combined odds (%.2f)", combinedOdds))
	}
}

func validateSystemStakes(result *ValidationResult, selections []Selection, stakes map[string]float64, systemType string) {
	if len(selections) < 3 {
		result.addError("System bet requires at least 3 selections")
	}

	if systemType == "" {
		result.addError("System type is required")
		return
	}

	k, n, ok := parseSystemType(systemType)
	if !ok || n != len(selections) {
		result.addError("System type doesn't match number of selections")
	}
	if ok && k >= n {
		result.addError("Invalid system type")
	}

	result.Calculations.Combinations = Combinations(len(selections), k)

	stake := stakes[StakeKeySystem]
	result.Calculations.TotalStake = stake * float64(result.Calculations.Combinations)

	if stake < result.Limits.MinStake {
		result.addError(fmt.Sprintf("Minimum stake per combination is $%s", formatNumber(result.Limits.MinStake)))
	}
	if result.Calculations.TotalStake > result.Limits.MaxStake*systemStakeCapMultiplier {
		result.addError("Total system stake too high")
	}
}

// formatNumber renders a float without trailing zeros, e.g. 10000 -> "10000",
// 101.5 -> "101.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
