package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddslip/oddslip/models"
)

// BalanceTotals carries the aggregated ledger figures for the balance summary.
type BalanceTotals struct {
	PendingWithdrawals decimal.Decimal `gorm:"column:pending_withdrawals"`
	TotalDeposited     decimal.Decimal `gorm:"column:total_deposited"`
	TotalWithdrawn     decimal.Decimal `gorm:"column:total_withdrawn"`
}

type Repository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByProviderRef(ctx context.Context, providerRef string) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) ([]models.Transaction, int64, error)
	SettlePendingTransaction(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error
	GetBalanceTotals(ctx context.Context, userID uuid.UUID) (*BalanceTotals, error)
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error

	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	GetUserPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id, userID uuid.UUID) error
	ClearDefaultPaymentMethod(ctx context.Context, userID uuid.UUID) error
	MarkDefaultPaymentMethod(ctx context.Context, id, userID uuid.UUID) error

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

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) GetTransactionByProviderRef(ctx context.Context, providerRef string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).Where("provider_ref = ?", providerRef).First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *repository) GetUserTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.Transaction
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error
	return transactions, total, err
}

// SettlePendingTransaction flips a pending ledger entry to a terminal status.
// The status check in the WHERE clause makes replayed provider events no-ops.
func (r *repository) SettlePendingTransaction(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.TransactionStatusPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrTransactionNotPending
	}
	return nil
}

func (r *repository) GetBalanceTotals(ctx context.Context, userID uuid.UUID) (*BalanceTotals, error) {
	var totals BalanceTotals
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN type = 'withdrawal' AND status = 'pending' THEN -amount ELSE 0 END), 0) AS pending_withdrawals,
			COALESCE(SUM(CASE WHEN type = 'deposit' AND status = 'completed' THEN amount ELSE 0 END), 0) AS total_deposited,
			COALESCE(SUM(CASE WHEN type = 'withdrawal' AND status = 'completed' THEN -amount ELSE 0 END), 0) AS total_withdrawn`).
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// AdjustBalance applies a signed delta to the user's cash balance. The guard
// in the WHERE clause rejects any debit that would take the balance negative.
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

func (r *repository) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *repository) GetUserPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&methods).Error
	return methods, err
}

func (r *repository) DeletePaymentMethod(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.PaymentMethod{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ClearDefaultPaymentMethod(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (r *repository) MarkDefaultPaymentMethod(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_default", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
