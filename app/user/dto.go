package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/oddslip/oddslip/internal/sanitizer"
	"github.com/oddslip/oddslip/internal/validator"
	"github.com/oddslip/oddslip/models"
	"github.com/shopspring/decimal"
)

// RegisterUserRequest represents the request to create an account.
type RegisterUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

func (r *RegisterUserRequest) Sanitize(s sanitizer.HTMLStripperer) {
	r.FirstName = s.StripHTML(r.FirstName)
	r.LastName = s.StripHTML(r.LastName)
}

func (r *RegisterUserRequest) Validate(v *validator.Validator) bool {
	v.Check(r.FirstName != "", "firstName", "first name is required")
	v.Check(r.LastName != "", "lastName", "last name is required")
	v.Check(validator.MaxRunes(r.FirstName, 100), "firstName", "first name must be at most 100 characters")
	v.Check(validator.MaxRunes(r.LastName, 100), "lastName", "last name must be at most 100 characters")
	v.Check(validator.IsEmail(r.Email), "email", "email is invalid")
	v.Check(validator.MinRunes(r.Password, 8), "password", "password must be at least 8 characters")
	if r.Phone != "" {
		v.Check(validator.IsPhone(r.Phone, "US"), "phone", "phone number is invalid")
	}
	return v.Valid()
}

// LoginRequest represents the request to log in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the request to update profile fields.
// Nil pointers leave the current value untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (r *UpdateProfileRequest) Sanitize(s sanitizer.HTMLStripperer) {
	if r.FirstName != nil {
		clean := s.StripHTML(*r.FirstName)
		r.FirstName = &clean
	}
	if r.LastName != nil {
		clean := s.StripHTML(*r.LastName)
		r.LastName = &clean
	}
}

func (r *UpdateProfileRequest) Validate(v *validator.Validator) bool {
	if r.FirstName != nil {
		v.Check(*r.FirstName != "", "firstName", "first name cannot be blank")
		v.Check(validator.MaxRunes(*r.FirstName, 100), "firstName", "first name must be at most 100 characters")
	}
	if r.LastName != nil {
		v.Check(*r.LastName != "", "lastName", "last name cannot be blank")
		v.Check(validator.MaxRunes(*r.LastName, 100), "lastName", "last name must be at most 100 characters")
	}
	if r.Phone != nil && *r.Phone != "" {
		v.Check(validator.IsPhone(*r.Phone, "US"), "phone", "phone number is invalid")
	}
	return v.Valid()
}

// Response represents an account in API responses.
type Response struct {
	ID           uuid.UUID       `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	BonusBalance decimal.Decimal `json:"bonusBalance"`
	Currency     string          `json:"currency"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// LoginResponse represents the response for a successful login or signup.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	User        Response `json:"user"`
}

// ToUserResponse converts a models.User to Response
func ToUserResponse(user *models.User) *Response {
	return &Response{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Phone:        user.Phone,
		Balance:      user.Balance,
		BonusBalance: user.BonusBalance,
		Currency:     user.Currency,
		CreatedAt:    user.CreatedAt,
	}
}
