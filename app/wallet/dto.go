package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/models"
)

// DepositRequest funds the account through a payment method
type DepositRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// WithdrawRequest moves funds out of the account. Withdrawals stay pending
// until the provider settles them.
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// ProviderEvent is the payload the payment provider posts to the webhook.
// IntentID correlates the event to the ledger entry that recorded the intent.
type ProviderEvent struct {
	IntentID string `json:"intentId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// AddPaymentMethodRequest registers a payment instrument. Only the masked
// last four digits ever reach the server.
type AddPaymentMethodRequest struct {
	Type     models.PaymentMethodType `json:"type" binding:"required"`
	Provider string                   `json:"provider" binding:"required"`
	Last4    string                   `json:"last4" binding:"omitempty,len=4"`
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
	Provider      string                   `json:"provider,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// DepositResponse reports the outcome of a deposit attempt. Completed is
// false when the payment provider declined the charge.
type DepositResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Completed   bool                 `json:"success"`
	NewBalance  decimal.Decimal      `json:"newBalance"`
}

// WithdrawResponse reports a submitted withdrawal
type WithdrawResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	NewBalance  decimal.Decimal      `json:"newBalance"`
}

// BalanceResponse is the wallet summary
type BalanceResponse struct {
	Balance                decimal.Decimal `json:"balance"`
	BonusBalance           decimal.Decimal `json:"bonusBalance"`
	PendingWithdrawals     decimal.Decimal `json:"pendingWithdrawals"`
	TotalDeposited         decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn         decimal.Decimal `json:"totalWithdrawn"`
	AvailableForWithdrawal decimal.Decimal `json:"availableForWithdrawal"`
}

// TransactionListResponse pages through the account's ledger
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

// PaymentMethodResponse represents a stored payment instrument
type PaymentMethodResponse struct {
	ID        uuid.UUID                `json:"id"`
	Type      models.PaymentMethodType `json:"type"`
	Provider  string                   `json:"provider"`
	Last4     string                   `json:"last4"`
	IsDefault bool                     `json:"isDefault"`
	CreatedAt time.Time                `json:"createdAt"`
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
		Provider:      transaction.Provider,
		CreatedAt:     transaction.CreatedAt,
	}
}

// ToPaymentMethodResponse converts a models.PaymentMethod to PaymentMethodResponse
func ToPaymentMethodResponse(method *models.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:        method.ID,
		Type:      method.Type,
		Provider:  method.Provider,
		Last4:     method.Last4,
		IsDefault: method.IsDefault,
		CreatedAt: method.CreatedAt,
	}
}
