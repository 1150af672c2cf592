package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/oddslip/oddslip/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) HasPendingBets(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("user_id = ? AND status = ?", userID, models.BetStatusPending).
		Count(&count).Error
	return count > 0, err
}

// DeleteAccountData removes the user together with all dependent rows. Callers
// wrap it in a transaction with the pending-bet and balance checks.
func (r *repository) DeleteAccountData(ctx context.Context, userID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.Bet{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.PaymentMethod{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", userID).Delete(&models.User{}).Error
}
