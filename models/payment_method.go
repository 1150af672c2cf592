package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethodType represents the kind of payment instrument
type PaymentMethodType string

const (
	PaymentMethodTypeCard PaymentMethodType = "card"
	PaymentMethodTypeBank PaymentMethodType = "bank_account"
)

// PaymentMethod represents a stored payment instrument. Only a masked
// identifier and provider token are kept, never raw card or account numbers.
type PaymentMethod struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          PaymentMethodType `gorm:"type:varchar(20);not null" json:"type"`
	Provider      string            `gorm:"type:varchar(50);not null" json:"provider"`
	ProviderToken string            `gorm:"type:varchar(255);not null" json:"-"`
	Last4         string            `gorm:"type:varchar(4)" json:"last4"`
	IsDefault     bool              `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for PaymentMethod model
func (*PaymentMethod) TableName() string {
	return "payment_methods"
}

// BeforeCreate sets up the model before creation
func (p *PaymentMethod) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the payment method model
func (p *PaymentMethod) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	switch p.Type {
	case PaymentMethodTypeCard, PaymentMethodTypeBank:
	default:
		return ErrInvalidPaymentMethodType
	}
	return nil
}
