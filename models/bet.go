package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BetType represents the kind of bet ticket
type BetType string

const (
	BetTypeSingle      BetType = "single"
	BetTypeAccumulator BetType = "accumulator"
	BetTypeSystem      BetType = "system"
)

// BetStatus represents the lifecycle status of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusVoid      BetStatus = "void"
	BetStatusCashedOut BetStatus = "cashed_out"
)

// BetOutcome is a settlement verdict for a pending bet
type BetOutcome string

const (
	BetOutcomeWon  BetOutcome = "won"
	BetOutcomeLost BetOutcome = "lost"
	BetOutcomeVoid BetOutcome = "void"
)

// BetSelection is a single event pick inside a multi-leg bet
type BetSelection struct {
	EventID   string          `json:"event_id"`
	EventName string          `json:"event_name"`
	Market    string          `json:"market"`
	Selection string          `json:"selection"`
	Odds      decimal.Decimal `json:"odds"`
	Sport     string          `json:"sport,omitempty"`
	League    string          `json:"league,omitempty"`
}

// BetSelections stores the legs of a multi-leg bet as JSONB
type BetSelections []BetSelection

// Value implements driver.Valuer interface
func (s BetSelections) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface
func (s *BetSelections) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return nil
}

// Bet represents a placed bet ticket. Single bets carry their one leg in the
// top-level Event/Selection/Odds columns; accumulator and system bets keep a
// summary label there and the individual legs in Selections.
type Bet struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_bets_user" json:"user_id"`
	BetType      BetType          `gorm:"type:varchar(20);not null;default:'single'" json:"bet_type"`
	Event        string           `gorm:"type:varchar(255);not null" json:"event"`
	Selection    string           `gorm:"type:varchar(255);not null" json:"selection"`
	Odds         decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"odds"`
	Stake        decimal.Decimal  `gorm:"type:decimal(20,2);not null;check:stake > 0" json:"stake"`
	PotentialWin decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"potential_win"`
	Sport        string           `gorm:"type:varchar(100)" json:"sport"`
	League       string           `gorm:"type:varchar(100)" json:"league"`
	SystemType   string           `gorm:"type:varchar(10)" json:"system_type,omitempty"`
	Selections   BetSelections    `gorm:"type:jsonb;default:'[]'" json:"selections,omitempty"`
	Status       BetStatus        `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	WinAmount    *decimal.Decimal `gorm:"type:decimal(20,2)" json:"win_amount"`
	CashOutValue *decimal.Decimal `gorm:"type:decimal(20,2)" json:"cash_out_value"`
	SettledAt    *time.Time       `gorm:"type:timestamptz" json:"settled_at"`
	CreatedAt    time.Time        `gorm:"autoCreateTime;index:idx_bets_created_at" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Bet model
func (*Bet) TableName() string {
	return "bets"
}

// BeforeCreate sets up the model before creation
func (b *Bet) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the bet can still be settled or cashed out
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// IsSettled checks if the bet has reached a terminal state
func (b *Bet) IsSettled() bool {
	return !b.IsPending()
}

// Settle resolves a pending bet with the given outcome. For a winning bet the
// payout is stake multiplied by actualOdds when provided, otherwise the
// potential win recorded at placement. Void bets return the stake.
func (b *Bet) Settle(outcome BetOutcome, actualOdds *decimal.Decimal) error {
	if !b.IsPending() {
		return ErrBetAlreadySettled
	}

	now := time.Now()
	b.SettledAt = &now

	switch outcome {
	case BetOutcomeWon:
		b.Status = BetStatusWon
		win := b.PotentialWin
		if actualOdds != nil {
			win = b.Stake.Mul(*actualOdds)
		}
		b.WinAmount = &win
	case BetOutcomeLost:
		b.Status = BetStatusLost
		zero := decimal.Zero
		b.WinAmount = &zero
	case BetOutcomeVoid:
		b.Status = BetStatusVoid
		refund := b.Stake
		b.WinAmount = &refund
	default:
		b.SettledAt = nil
		return ErrInvalidBetStatus
	}

	return nil
}

// CashOut closes a pending bet early for the given value
func (b *Bet) CashOut(value decimal.Decimal) error {
	if !b.IsPending() {
		return ErrBetAlreadySettled
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}

	now := time.Now()
	b.Status = BetStatusCashedOut
	b.CashOutValue = &value
	b.WinAmount = &value
	b.SettledAt = &now
	return nil
}

// Payout returns the amount credited back to the user for this bet,
// zero while the bet is still pending
func (b *Bet) Payout() decimal.Decimal {
	if b.WinAmount == nil {
		return decimal.Zero
	}
	return *b.WinAmount
}

// Profit returns payout minus stake for a settled bet
func (b *Bet) Profit() decimal.Decimal {
	if !b.IsSettled() {
		return decimal.Zero
	}
	return b.Payout().Sub(b.Stake)
}

// IsMultiLeg checks if the bet carries more than one selection
func (b *Bet) IsMultiLeg() bool {
	return b.BetType == BetTypeAccumulator || b.BetType == BetTypeSystem
}

// Validate performs validation on the bet model
func (b *Bet) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	switch b.BetType {
	case BetTypeSingle, BetTypeAccumulator, BetTypeSystem:
	default:
		return ErrInvalidBetType
	}
	if b.Stake.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBetAmount
	}
	if b.BetType != BetTypeSystem && b.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidOdds
	}
	if b.BetType == BetTypeSystem && b.SystemType == "" {
		return ErrInvalidSystemType
	}
	if b.IsMultiLeg() && len(b.Selections) < 2 {
		return ErrInvalidBetType
	}
	return nil
}
