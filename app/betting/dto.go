package betting

import (
	"time"

	"github.com/google/uuid"
	"github.com/oddslip/oddslip/models"
	"github.com/shopspring/decimal"
)

// PlaceBetRequest represents a raw bet slip submission. Stakes is keyed per
// selection for single bets (Selection.StakeKey) and by "accumulator" or
// "system" for the aggregate types. Slips are capped at 20 selections; field
// presence is checked by the ticket builder so malformed slips get precise
// error messages.
type PlaceBetRequest struct {
	Selections []Selection        `json:"selections" validate:"max=20"`
	BetType    models.BetType     `json:"betType"`
	Stakes     map[string]float64 `json:"stakes" validate:"max=20"`
	SystemType string             `json:"systemType,omitempty"`
}

// ValidateBetRequest is the pre-flight check request, same shape as placement.
type ValidateBetRequest struct {
	Selections []Selection        `json:"selections" validate:"max=20"`
	BetType    models.BetType     `json:"betType"`
	Stakes     map[string]float64 `json:"stakes" validate:"max=20"`
	SystemType string             `json:"systemType,omitempty"`
}

// SettleBetRequest resolves a pending bet. ActualOdds overrides the recorded
// potential win for winning bets; system bets have no recorded potential win
// and rely on it entirely.
type SettleBetRequest struct {
	BetID      uuid.UUID `json:"betId"`
	Result     string    `json:"result"`
	ActualOdds *float64  `json:"actualOdds,omitempty"`
}

// CashOutRequest closes a pending bet early at the offered value
type CashOutRequest struct {
	CashOutValue float64 `json:"cashOutValue" binding:"required,gt=0"`
}

// BetResponse represents a bet in API responses
type BetResponse struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"userId"`
	BetType      models.BetType       `json:"betType"`
	Event        string               `json:"event"`
	Selection    string               `json:"selection"`
	Odds         decimal.Decimal      `json:"odds"`
	Stake        decimal.Decimal      `json:"stake"`
	PotentialWin decimal.Decimal      `json:"potentialWin"`
	Sport        string               `json:"sport"`
	League       string               `json:"league"`
	SystemType   string               `json:"systemType,omitempty"`
	Selections   models.BetSelections `json:"selections,omitempty"`
	Status       models.BetStatus     `json:"status"`
	WinAmount    *decimal.Decimal     `json:"winAmount,omitempty"`
	CashOutValue *decimal.Decimal     `json:"cashOutValue,omitempty"`
	SettledAt    *time.Time           `json:"settledAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID            uuid.UUID                `json:"id"`
	Type          models.TransactionType   `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	BalanceBefore decimal.Decimal          `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal          `json:"balanceAfter"`
	Status        models.TransactionStatus `json:"status"`
	Reference     string                   `json:"reference"`
	Description   string                   `json:"description"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// PlaceBetResponse is the result of a successful placement
type PlaceBetResponse struct {
	Bets         []BetResponse         `json:"bets"`
	Transactions []TransactionResponse `json:"transactions"`
	TotalStake   float64               `json:"totalStake"`
	NewBalance   decimal.Decimal       `json:"newBalance"`
}

// Settlement summarizes the money movement of one settlement
type Settlement struct {
	Result    string  `json:"result"`
	WinAmount float64 `json:"winAmount"`
	Profit    float64 `json:"profit"`
}

// SettleBetResponse is the result of settling a bet
type SettleBetResponse struct {
	Bet        *BetResponse `json:"bet"`
	Settlement Settlement   `json:"settlement"`
}

// CashOutResponse is the result of cashing out a bet
type CashOutResponse struct {
	Bet *BetResponse `json:"bet"`
}

// BetListResponse pages through a bettor's history
type BetListResponse struct {
	Bets  []BetResponse `json:"bets"`
	Total int64         `json:"total"`
}

// ToBetResponse converts a models.Bet to BetResponse
func ToBetResponse(bet *models.Bet) *BetResponse {
	return &BetResponse{
		ID:           bet.ID,
		UserID:       bet.UserID,
		BetType:      bet.BetType,
		Event:        bet.Event,
		Selection:    bet.Selection,
		Odds:         bet.Odds,
		Stake:        bet.Stake,
		PotentialWin: bet.PotentialWin,
		Sport:        bet.Sport,
		League:       bet.League,
		SystemType:   bet.SystemType,
		Selections:   bet.Selections,
		Status:       bet.Status,
		WinAmount:    bet.WinAmount,
		CashOutValue: bet.CashOutValue,
		SettledAt:    bet.SettledAt,
		CreatedAt:    bet.CreatedAt,
	}
}

// ToTransactionResponse converts a models.Transaction to TransactionResponse
func ToTransactionResponse(transaction *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            transaction.ID,
		Type:          transaction.Type,
		Amount:        transaction.Amount,
		BalanceBefore: transaction.BalanceBefore,
		BalanceAfter:  transaction.BalanceAfter,
		Status:        transaction.Status,
		Reference:     transaction.Reference,
		Description:   transaction.Description,
		CreatedAt:     transaction.CreatedAt,
	}
}
