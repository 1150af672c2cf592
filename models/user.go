package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents a betting account holder. Balance is the wagerable cash
// balance; BonusBalance is promotional credit that can never be staked.
type User struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email           string          `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	EmailVerifiedAt *time.Time      `gorm:"type:timestamptz" json:"email_verified_at"`
	PasswordHash    string          `gorm:"type:varchar(255);not null" json:"-"` // Never expose password
	FirstName       string          `gorm:"type:varchar(100)" json:"first_name"`
	LastName        string          `gorm:"type:varchar(100)" json:"last_name"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	Balance         decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	BonusBalance    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"bonus_balance"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	LastLoginAt     *time.Time      `gorm:"type:timestamptz" json:"last_login_at"`
	IsActive        *bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Bets           []Bet           `gorm:"foreignKey:UserID" json:"-"`
	Transactions   []Transaction   `gorm:"foreignKey:UserID" json:"-"`
	PaymentMethods []PaymentMethod `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (*User) TableName() string {
	return "users"
}

// BeforeCreate sets up the model before creation
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// SetPassword hashes and sets the user password
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// IsEmailVerified checks if the user's email is verified
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// CanBet checks if the user is allowed to place bets
func (u *User) CanBet() bool {
	return u.IsActive != nil && *u.IsActive
}

// CanDebit checks whether the wagerable balance covers the given amount.
// Bonus balance is deliberately excluded.
func (u *User) CanDebit(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero) && u.Balance.GreaterThanOrEqual(amount)
}

// Debit removes amount from the wagerable balance
func (u *User) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	if !u.CanDebit(amount) {
		return ErrInsufficientBalance
	}
	u.Balance = u.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the wagerable balance
func (u *User) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	u.Balance = u.Balance.Add(amount)
	return nil
}

// CreditBonus adds amount to the bonus balance
func (u *User) CreditBonus(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	u.BonusBalance = u.BonusBalance.Add(amount)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate performs validation on the user model
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if u.Balance.LessThan(decimal.Zero) || u.BonusBalance.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address for storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
