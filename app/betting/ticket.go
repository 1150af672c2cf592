package betting

import (
	"strconv"
	"strings"

	"github.com/oddslip/oddslip/models"
	"github.com/shopspring/decimal"
)

// Stake map keys for the aggregate bet types. Single bets are keyed per
// selection by Selection.StakeKey.
const (
	StakeKeyAccumulator = "accumulator"
	StakeKeySystem      = "system"
)

// Selection is one leg of a proposed ticket.
type Selection struct {
	EventID   string  `json:"eventId"`
	EventName string  `json:"eventName"`
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
	Sport     string  `json:"sport"`
	League    string  `json:"league"`
}

// StakeKey returns the stakes-map key for a single bet on this selection.
func (s Selection) StakeKey() string {
	return s.EventID + "-" + s.Market
}

// TicketError is a rejected-ticket error. It is always safe to show the
// message to the caller and never indicates a server fault.
type TicketError string

func (e TicketError) Error() string { return string(e) }

// Ticket is the typed form of a bet request. Each variant carries only the
// fields that matter for its type; Drafts materializes the bet records and
// their ledger descriptions.
type Ticket interface {
	Type() models.BetType
	TotalStake() float64
	Drafts() []BetDraft
}

// BetDraft pairs an unsaved bet record with the description for its debit
// ledger entry.
type BetDraft struct {
	Bet         *models.Bet
	Description string
}

// SingleLeg is one independently staked selection of a single-bet ticket.
type SingleLeg struct {
	Selection Selection
	Stake     float64
}

// SingleTicket holds one or more independently staked single bets.
type SingleTicket struct {
	Legs []SingleLeg
}

func (t *SingleTicket) Type() models.BetType { return models.BetTypeSingle }

func (t *SingleTicket) TotalStake() float64 {
	var total float64
	for _, leg := range t.Legs {
		total += leg.Stake
	}
	return total
}

func (t *SingleTicket) Drafts() []BetDraft {
	drafts := make([]BetDraft, len(t.Legs))
	for i, leg := range t.Legs {
		sel := leg.Selection
		drafts[i] = BetDraft{
			Bet: &models.Bet{
				BetType:      models.BetTypeSingle,
				Event:        sel.EventName,
				Selection:    sel.Selection,
				Odds:         decimal.NewFromFloat(sel.Odds),
				Stake:        decimal.NewFromFloat(leg.Stake),
				PotentialWin: decimal.NewFromFloat(leg.Stake * sel.Odds),
				Sport:        sel.Sport,
				League:       sel.League,
				Status:       models.BetStatusPending,
			},
			Description: "Bet: " + sel.EventName + " - " + sel.Selection,
		}
	}
	return drafts
}

// AccumulatorTicket combines all selections into one parlay with one stake.
type AccumulatorTicket struct {
	Selections []Selection
	Stake      float64
}

func (t *AccumulatorTicket) Type() models.BetType { return models.BetTypeAccumulator }

func (t *AccumulatorTicket) TotalStake() float64 { return t.Stake }

// CombinedOdds is the product of all leg odds.
func (t *AccumulatorTicket) CombinedOdds() float64 {
	odds := 1.0
	for _, sel := range t.Selections {
		odds *= sel.Odds
	}
	return odds
}

// PotentialWin is stake multiplied by the combined odds.
func (t *AccumulatorTicket) PotentialWin() float64 {
	return t.Stake * t.CombinedOdds()
}

func (t *AccumulatorTicket) Drafts() []BetDraft {
	eventNames := make([]string, len(t.Selections))
	selectionNames := make([]string, len(t.Selections))
	for i, sel := range t.Selections {
		eventNames[i] = sel.EventName
		selectionNames[i] = sel.Selection
	}

	return []BetDraft{{
		Bet: &models.Bet{
			BetType:      models.BetTypeAccumulator,
			Event:        "Accumulator: " + strings.Join(eventNames, " + "),
			Selection:    strings.Join(selectionNames, " + "),
			Odds:         decimal.NewFromFloat(t.CombinedOdds()),
			Stake:        decimal.NewFromFloat(t.Stake),
			PotentialWin: decimal.NewFromFloat(t.PotentialWin()),
			Sport:        "Multiple",
			League:       "Multiple",
			Status:       models.BetStatusPending,
			Selections:   toModelSelections(t.Selections),
		},
		Description: "Accumulator Bet: " + strconv.Itoa(len(t.Selections)) + " selections",
	}}
}

// SystemTicket stakes every k-of-n combination of its selections. Odds and
// potential win are left at zero; the eventual payout depends on which legs
// win and is supplied at settlement time.
type SystemTicket struct {
	Selections          []Selection
	K                   int
	N                   int
	StakePerCombination float64
}

func (t *SystemTicket) Type() models.BetType { return models.BetTypeSystem }

// Combinations is the number of staked k-of-n combinations.
func (t *SystemTicket) Combinations() int {
	return Combinations(t.N, t.K)
}

func (t *SystemTicket) TotalStake() float64 {
	return t.StakePerCombination * float64(t.Combinations())
}

// SystemType renders the k/n descriptor, e.g. "2/3".
func (t *SystemTicket) SystemType() string {
	return strconv.Itoa(t.K) + "/" + strconv.Itoa(t.N)
}

func (t *SystemTicket) Drafts() []BetDraft {
	eventNames := make([]string, len(t.Selections))
	selectionNames := make([]string, len(t.Selections))
	for i, sel := range t.Selections {
		eventNames[i] = sel.EventName
		selectionNames[i] = sel.Selection
	}

	return []BetDraft{{
		Bet: &models.Bet{
			BetType:      models.BetTypeSystem,
			Event:        "System " + t.SystemType() + ": " + strings.Join(eventNames, " + "),
			Selection:    strings.Join(selectionNames, " + "),
			Odds:         decimal.Zero,
			Stake:        decimal.NewFromFloat(t.TotalStake()),
			PotentialWin: decimal.Zero,
			Sport:        "Multiple",
			League:       "Multiple",
			SystemType:   t.SystemType(),
			Status:       models.BetStatusPending,
			Selections:   toModelSelections(t.Selections),
		},
		Description: "System " + t.SystemType() + " Bet: " + strconv.Itoa(len(t.Selections)) + " selections",
	}}
}

// BuildTicket decodes a raw bet request into its typed variant, rejecting
// malformed tickets. The checks mirror the validator so the placement path
// does not have to trust an earlier pre-flight call.
func BuildTicket(betType models.BetType, selections []Selection, stakes map[string]float64, systemType string) (Ticket, error) {
	if len(selections) == 0 {
		return nil, TicketError("At least one selection is required")
	}
	if len(stakes) == 0 {
		return nil, TicketError("Stakes are required")
	}

	for _, sel := range selections {
		if sel.EventID == "" || sel.Market == "" || sel.Selection == "" || sel.EventName == "" || sel.Odds == 0 {
			return nil, TicketError("Invalid selection data")
		}
		if sel.Odds < 1.01 || sel.Odds > 1000 {
			return nil, TicketError("Invalid odds range")
		}
	}

	switch betType {
	case models.BetTypeSingle:
		return buildSingleTicket(selections, stakes)
	case models.BetTypeAccumulator:
		return buildAccumulatorTicket(selections, stakes)
	case models.BetTypeSystem:
		return buildSystemTicket(selections, stakes, systemType)
	default:
		return nil, TicketError("Invalid bet type")
	}
}

func buildSingleTicket(selections []Selection, stakes map[string]float64) (Ticket, error) {
	legs := make([]SingleLeg, len(selections))
	for i, sel := range selections {
		stake := stakes[sel.StakeKey()]
		if stake <= 0 {
			return nil, TicketError("Invalid stake for " + sel.Selection)
		}
		if stake < 1 || stake > 10000 {
			return nil, TicketError("Stake must be between $1 and $10,000")
		}
		legs[i] = SingleLeg{Selection: sel, Stake: stake}
	}
	return &SingleTicket{Legs: legs}, nil
}

func buildAccumulatorTicket(selections []Selection, stakes map[string]float64) (Ticket, error) {
	stake := stakes[StakeKeyAccumulator]
	if stake <= 0 {
		return nil, TicketError("Invalid accumulator stake")
	}
	if stake < 1 || stake > 10000 {
		return nil, TicketError("Stake must be between $1 and $10,000")
	}
	if len(selections) < 2 {
		return nil, TicketError("Accumulator requires at least 2 selections")
	}
	return &AccumulatorTicket{Selections: selections, Stake: stake}, nil
}

func buildSystemTicket(selections []Selection, stakes map[string]float64, systemType string) (Ticket, error) {
	if systemType == "" {
		return nil, TicketError("System type is required for system bets")
	}

	stake := stakes[StakeKeySystem]
	if stake <= 0 {
		return nil, TicketError("Invalid system stake")
	}
	if len(selections) < 3 {
		return nil, TicketError("System bet requires at least 3 selections")
	}

	k, n, ok := parseSystemType(systemType)
	if !ok || n != len(selections) {
		return nil, TicketError("System type doesn't match number of selections")
	}
	// k >= n leaves zero qualifying combinations and a stake-0 bet.
	if k >= n {
		return nil, TicketError("Invalid system type")
	}

	return &SystemTicket{
		Selections:          selections,
		K:                   k,
		N:                   n,
		StakePerCombination: stake,
	}, nil
}

// parseSystemType splits a "k/n" descriptor into its two integers.
func parseSystemType(s string) (k, n int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	k, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	n, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return k, n, true
}

func toModelSelections(selections []Selection) models.BetSelections {
	out := make(models.BetSelections, len(selections))
	for i, sel := range selections {
		out[i] = models.BetSelection{
			EventID:   sel.EventID,
			EventName: sel.EventName,
			Market:    sel.Market,
			Selection: sel.Selection,
			Odds:      decimal.NewFromFloat(sel.Odds),
			Sport:     sel.Sport,
			League:    sel.League,
		}
	}
	return out
}
