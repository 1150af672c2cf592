package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddslip/oddslip/models"
)

const (
	defaultTransactionLimit = 20
	maxTransactionLimit     = 100
)

// ErrInvalidPayment flags a deposit or withdrawal request with a missing
// method or non-positive amount.
var ErrInvalidPayment = errors.New("invalid amount or payment method")

type Service interface {
	Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*DepositResponse, error)
	Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*WithdrawResponse, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) (*TransactionListResponse, error)
	HandleProviderEvent(ctx context.Context, event *ProviderEvent) error

	AddPaymentMethod(ctx context.Context, userID uuid.UUID, req *AddPaymentMethodRequest) (*PaymentMethodResponse, error)
	GetPaymentMethods(ctx context.Context, userID uuid.UUID) ([]PaymentMethodResponse, error)
	DeletePaymentMethod(ctx context.Context, userID, id uuid.UUID) error
	SetDefaultPaymentMethod(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo      Repository
	processor PaymentProcessor
	db        *gorm.DB
}

func NewService(repo Repository, processor PaymentProcessor, db *gorm.DB) Service {
	return &service{
		repo:      repo,
		processor: processor,
		db:        db,
	}
}

func (s *service) Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*DepositResponse, error) {
	if req.Amount <= 0 || req.Method == "" {
		return nil, ErrInvalidPayment
	}
	amount := decimal.NewFromFloat(req.Amount)

	intent, err := s.processor.CreatePaymentIntent(ctx, userID.String(), amount, req.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	// The provider round trip happens before any database transaction is
	// opened; a slow charge must not hold row locks.
	confirmed, err := s.processor.ConfirmPaymentIntent(ctx, intent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment intent: %w", err)
	}

	var resp *DepositResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		user, err := txRepo.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		// The outcome is already known, so the entry is written in its
		// terminal status.
		entry := models.NewDepositTransaction(userID, amount, user.Balance, req.Method, intent.ID)
		entry.Description = fmt.Sprintf("%s Deposit", req.Method)
		resp = &DepositResponse{NewBalance: user.Balance}

		if confirmed.Status == IntentStatusSucceeded {
			if err := txRepo.CreateTransaction(ctx, entry); err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			if err := txRepo.AdjustBalance(ctx, userID, amount); err != nil {
				return err
			}
			resp.Completed = true
			resp.NewBalance = user.Balance.Add(amount)
		} else {
			// The declined charge stays on the ledger as failed; the
			// balance is untouched.
			entry.Status = models.TransactionStatusFailed
			if err := txRepo.CreateTransaction(ctx, entry); err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
		}

		resp.Transaction = ToTransactionResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *service) Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*WithdrawResponse, error) {
	if req.Amount <= 0 || req.Method == "" {
		return nil, ErrInvalidPayment
	}
	amount := decimal.NewFromFloat(req.Amount)

	var resp *WithdrawResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		user, err := txRepo.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if !user.CanDebit(amount) {
			return models.ErrInsufficientBalance
		}

		// Funds leave the balance immediately; the entry stays pending
		// until the provider settles the payout.
		entry := models.NewWithdrawalTransaction(userID, amount, user.Balance, req.Method)
		entry.Description = fmt.Sprintf("%s Withdrawal", req.Method)
		if err := txRepo.CreateTransaction(ctx, entry); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if err := txRepo.AdjustBalance(ctx, userID, amount.Neg()); err != nil {
			return err
		}

		resp = &WithdrawResponse{
			Transaction: ToTransactionResponse(entry),
			NewBalance:  user.Balance.Sub(amount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	totals, err := s.repo.GetBalanceTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance totals: %w", err)
	}

	return &BalanceResponse{
		Balance:                user.Balance,
		BonusBalance:           user.BonusBalance,
		PendingWithdrawals:     totals.PendingWithdrawals,
		TotalDeposited:         totals.TotalDeposited,
		TotalWithdrawn:         totals.TotalWithdrawn,
		AvailableForWithdrawal: user.Balance,
	}, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uuid.UUID, txType string, limit, offset int) (*TransactionListResponse, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, total, err := s.repo.GetUserTransactions(ctx, userID, txType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	resp := &TransactionListResponse{
		Transactions: make([]TransactionResponse, len(transactions)),
		Total:        total,
	}
	for i := range transactions {
		resp.Transactions[i] = *ToTransactionResponse(&transactions[i])
	}
	return resp, nil
}

// HandleProviderEvent settles the pending ledger entry the event refers to.
// Replayed events find the entry already terminal and change nothing.
func (s *service) HandleProviderEvent(ctx context.Context, event *ProviderEvent) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		entry, err := txRepo.GetTransactionByProviderRef(ctx, event.IntentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get transaction: %w", err)
		}

		if entry.Status != models.TransactionStatusPending {
			return nil
		}

		switch IntentStatus(event.Status) {
		case IntentStatusSucceeded:
			if err := txRepo.SettlePendingTransaction(ctx, entry.ID, models.TransactionStatusCompleted); err != nil {
				// A concurrent delivery settled it first.
				if errors.Is(err, models.ErrTransactionNotPending) {
					return nil
				}
				return err
			}
			if entry.Type == models.TransactionTypeDeposit {
				return txRepo.AdjustBalance(ctx, entry.UserID, entry.Amount)
			}
			return nil
		case IntentStatusFailed:
			if err := txRepo.SettlePendingTransaction(ctx, entry.ID, models.TransactionStatusFailed); err != nil {
				if errors.Is(err, models.ErrTransactionNotPending) {
					return nil
				}
				return err
			}
			if entry.Type == models.TransactionTypeWithdrawal {
				// The payout never happened, put the funds back.
				return txRepo.AdjustBalance(ctx, entry.UserID, entry.Amount.Neg())
			}
			return nil
		default:
			return ErrInvalidPayment
		}
	})
}

func (s *service) AddPaymentMethod(ctx context.Context, userID uuid.UUID, req *AddPaymentMethodRequest) (*PaymentMethodResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.processor.CreateCustomer(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider customer: %w", err)
	}

	existing, err := s.repo.GetUserPaymentMethods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}

	method := &models.PaymentMethod{
		UserID:        userID,
		Type:          req.Type,
		Provider:      req.Provider,
		ProviderToken: token,
		Last4:         req.Last4,
		IsDefault:     len(existing) == 0,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		return nil, err
	}

	return ToPaymentMethodResponse(method), nil
}

func (s *service) GetPaymentMethods(ctx context.Context, userID uuid.UUID) ([]PaymentMethodResponse, error) {
	methods, err := s.repo.GetUserPaymentMethods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}

	responses := make([]PaymentMethodResponse, len(methods))
	for i := range methods {
		responses[i] = *ToPaymentMethodResponse(&methods[i])
	}
	return responses, nil
}

func (s *service) DeletePaymentMethod(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeletePaymentMethod(ctx, id, userID)
}

func (s *service) SetDefaultPaymentMethod(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.ClearDefaultPaymentMethod(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear default payment method: %w", err)
		}
		return txRepo.MarkDefaultPaymentMethod(ctx, id, userID)
	})
}
