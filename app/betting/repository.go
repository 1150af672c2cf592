package betting

import (
	"context"

	"github.com/google/uuid"
	"github.com/oddslip/oddslip/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetUserBets(ctx context.Context, userID uuid.UUID, status models.BetStatus, limit, offset int) ([]models.Bet, int64, error)
	GetAllUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error)
	CreateBet(ctx context.Context, bet *models.Bet) error
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	// AdjustBalance applies a signed delta to the user's balance in one
	// statement, guarded so the balance can never go below zero. A debit that
	// would overdraw returns models.ErrInsufficientBalance.
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error

	// SettleBet persists the settlement fields of an already-settled bet,
	// conditional on the row still being pending. A bet settled by a
	// concurrent request returns models.ErrBetAlreadySettled.
	SettleBet(ctx context.Context, bet *models.Bet) error

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bet).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *repository) GetUserBets(ctx context.Context, userID uuid.UUID, status models.BetStatus, limit, offset int) ([]models.Bet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bet{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bets []models.Bet
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bets).Error
	return bets, total, err
}

func (r *repository) GetAllUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bets).Error
	return bets, err
}

func (r *repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	if err := bet.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(bet).Error
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND balance + ? >= 0", userID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInsufficientBalance
	}
	return nil
}

func (r *repository) SettleBet(ctx context.Context, bet *models.Bet) error {
	result := r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("id = ? AND status = ?", bet.ID, models.BetStatusPending).
		Updates(map[string]interface{}{
			"status":         bet.Status,
			"win_amount":     bet.WinAmount,
			"cash_out_value": bet.CashOutValue,
			"settled_at":     bet.SettledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrBetAlreadySettled
	}
	return nil
}
