package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/oddslip/oddslip/internal/security"
	"github.com/oddslip/oddslip/models"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	HasPendingBets(ctx context.Context, userID uuid.UUID) (bool, error)
	DeleteAccountData(ctx context.Context, userID uuid.UUID) error

	WithTx(tx *gorm.DB) Repository
}

type Service interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*LoginResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, payload *security.Payload) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Response, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
