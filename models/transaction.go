package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of ledger entry
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBet        TransactionType = "bet"
	TransactionTypeWin        TransactionType = "win"
	TransactionTypeBonus      TransactionType = "bonus"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// TransactionStatus represents the processing state of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Reference prefixes, one per ledger entry origin
const (
	ReferencePrefixBet        = "BET"
	ReferencePrefixWin        = "WIN"
	ReferencePrefixVoid       = "VOID"
	ReferencePrefixCashOut    = "CASH"
	ReferencePrefixDeposit    = "DEP"
	ReferencePrefixWithdrawal = "WTH"
	ReferencePrefixBonus      = "BON"
)

// Transaction represents an immutable ledger entry. Debits carry a negative
// Amount, credits a positive one; BalanceBefore + Amount must equal
// BalanceAfter.
type Transaction struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_transactions_user" json:"user_id"`
	Type          TransactionType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount        decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"balance_after"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	Reference     string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"reference"`
	Description   string            `gorm:"type:text" json:"description"`
	BetID         *uuid.UUID        `gorm:"type:uuid;index" json:"bet_id"`
	Provider      string            `gorm:"type:varchar(50)" json:"provider,omitempty"`
	ProviderRef   string            `gorm:"type:varchar(100);index" json:"provider_ref,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime;index:idx_transactions_created_at" json:"created_at"`

	// Associations (ledger entries are append-only, no updates besides status)
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bet  *Bet  `gorm:"foreignKey:BetID" json:"bet,omitempty"`
}

// TableName specifies the table name for Transaction model
func (*Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate sets up the model before creation
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsCredit checks if this is a credit entry (positive amount)
func (t *Transaction) IsCredit() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// IsDebit checks if this is a debit entry (negative amount)
func (t *Transaction) IsDebit() bool {
	return t.Amount.LessThan(decimal.Zero)
}

// IsBalanceConsistent checks that before + amount == after
func (t *Transaction) IsBalanceConsistent() bool {
	return t.BalanceBefore.Add(t.Amount).Equal(t.BalanceAfter)
}

// Validate performs validation on the transaction model
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	switch t.Type {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeBet,
		TransactionTypeWin, TransactionTypeBonus, TransactionTypeTransfer:
	default:
		return ErrInvalidTransactionType
	}
	switch t.Status {
	case TransactionStatusCompleted, TransactionStatusPending,
		TransactionStatusFailed, TransactionStatusCancelled:
	default:
		return ErrInvalidTransactionStatus
	}
	if t.Amount.IsZero() {
		return ErrInvalidTransactionAmount
	}
	if !t.IsBalanceConsistent() {
		return ErrInvalidTransactionAmount
	}
	if t.BalanceAfter.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// NewReference builds a unique human-readable ledger reference, e.g. DEP-1A2B3C4D5E6F
func NewReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:12])
}

// BetReference builds the ledger reference correlating an entry to a bet,
// e.g. BET-<bet id>, WIN-<bet id>
func BetReference(prefix string, betID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", prefix, betID)
}

// NewBetTransaction builds the debit entry for a bet placement
func NewBetTransaction(userID uuid.UUID, betID uuid.UUID, stake, balanceBefore decimal.Decimal, description string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeBet,
		Amount:        stake.Neg(),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Sub(stake),
		Status:        TransactionStatusCompleted,
		Reference:     BetReference(ReferencePrefixBet, betID),
		Description:   description,
		BetID:         &betID,
	}
}

// NewWinTransaction builds the credit entry for a winning or cashed-out bet
func NewWinTransaction(userID uuid.UUID, betID uuid.UUID, amount, balanceBefore decimal.Decimal, prefix, description string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeWin,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(amount),
		Status:        TransactionStatusCompleted,
		Reference:     BetReference(prefix, betID),
		Description:   description,
		BetID:         &betID,
	}
}

// NewVoidTransaction builds the stake-return entry for a voided bet
func NewVoidTransaction(userID uuid.UUID, betID uuid.UUID, stake, balanceBefore decimal.Decimal, description string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeTransfer,
		Amount:        stake,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(stake),
		Status:        TransactionStatusCompleted,
		Reference:     BetReference(ReferencePrefixVoid, betID),
		Description:   description,
		BetID:         &betID,
	}
}

// NewDepositTransaction builds the credit entry for a wallet deposit
func NewDepositTransaction(userID uuid.UUID, amount, balanceBefore decimal.Decimal, provider, providerRef string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeDeposit,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(amount),
		Status:        TransactionStatusCompleted,
		Reference:     NewReference(ReferencePrefixDeposit),
		Description:   "Deposit",
		Provider:      provider,
		ProviderRef:   providerRef,
	}
}

// NewBonusTransaction builds the credit entry for a bonus grant. The balance
// columns track the bonus balance, which moves separately from cash.
func NewBonusTransaction(userID uuid.UUID, amount, bonusBalanceBefore decimal.Decimal, description string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeBonus,
		Amount:        amount,
		BalanceBefore: bonusBalanceBefore,
		BalanceAfter:  bonusBalanceBefore.Add(amount),
		Status:        TransactionStatusCompleted,
		Reference:     NewReference(ReferencePrefixBonus),
		Description:   description,
	}
}

// NewWithdrawalTransaction builds the debit entry for a wallet withdrawal
func NewWithdrawalTransaction(userID uuid.UUID, amount, balanceBefore decimal.Decimal, provider string) *Transaction {
	return &Transaction{
		UserID:        userID,
		Type:          TransactionTypeWithdrawal,
		Amount:        amount.Neg(),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Sub(amount),
		Status:        TransactionStatusPending,
		Reference:     NewReference(ReferencePrefixWithdrawal),
		Description:   "Withdrawal",
		Provider:      provider,
	}
}
