package betting

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oddslip/oddslip/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	ValidateBet(ctx context.Context, userID uuid.UUID, req *ValidateBetRequest) (*ValidationResult, error)
	PlaceBet(ctx context.Context, userID uuid.UUID, req *PlaceBetRequest) (*PlaceBetResponse, error)
	SettleBet(ctx context.Context, req *SettleBetRequest) (*SettleBetResponse, error)
	CashOut(ctx context.Context, userID, betID uuid.UUID, req *CashOutRequest) (*CashOutResponse, error)

	GetUserBets(ctx context.Context, userID uuid.UUID, status models.BetStatus, limit, offset int) (*BetListResponse, error)
	GetBetStats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

type service struct {
	repo      Repository
	db        *gorm.DB
	limits    Limits
	validator *validator.Validate
}

func NewService(repo Repository, db *gorm.DB) Service {
	return &service{
		repo:      repo,
		db:        db,
		limits:    DefaultLimits(),
		validator: validator.New(),
	}
}

func (s *service) ValidateBet(ctx context.Context, userID uuid.UUID, req *ValidateBetRequest) (*ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, TicketError("Maximum 20 selections allowed")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	balance, _ := user.Balance.Float64()
	return ValidateBet(req.BetType, req.Selections, req.Stakes, req.SystemType, balance, s.limits), nil
}

func (s *service) PlaceBet(ctx context.Context, userID uuid.UUID, req *PlaceBetRequest) (*PlaceBetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, TicketError("Maximum 20 selections allowed")
	}

	ticket, err := BuildTicket(req.BetType, req.Selections, req.Stakes, req.SystemType)
	if err != nil {
		return nil, err
	}

	totalStake := decimal.NewFromFloat(ticket.TotalStake())

	var resp *PlaceBetResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		user, err := txRepo.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if !user.CanDebit(totalStake) {
			return models.ErrInsufficientBalance
		}

		resp = &PlaceBetResponse{TotalStake: ticket.TotalStake()}

		// One debit transaction per bet record, balances chained so the
		// ledger reads as a consistent sequence.
		balance := user.Balance
		for _, draft := range ticket.Drafts() {
			bet := draft.Bet
			bet.UserID = userID

			if err := txRepo.CreateBet(ctx, bet); err != nil {
				return fmt.Errorf("failed to create bet: %w", err)
			}

			transaction := models.NewBetTransaction(userID, bet.ID, bet.Stake, balance, draft.Description)
			if err := txRepo.CreateTransaction(ctx, transaction); err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			balance = transaction.BalanceAfter

			resp.Bets = append(resp.Bets, *ToBetResponse(bet))
			resp.Transactions = append(resp.Transactions, *ToTransactionResponse(transaction))
		}

		// The guarded single-statement update is the authoritative balance
		// check; the CanDebit above only fails fast.
		if err := txRepo.AdjustBalance(ctx, userID, totalStake.Neg()); err != nil {
			return err
		}

		resp.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *service) SettleBet(ctx context.Context, req *SettleBetRequest) (*SettleBetResponse, error) {
	outcome := models.BetOutcome(req.Result)
	switch outcome {
	case models.BetOutcomeWon, models.BetOutcomeLost, models.BetOutcomeVoid:
	default:
		return nil, TicketError("Invalid settlement data")
	}
	if req.BetID == uuid.Nil {
		return nil, TicketError("Invalid settlement data")
	}

	var actualOdds *decimal.Decimal
	if req.ActualOdds != nil {
		odds := decimal.NewFromFloat(*req.ActualOdds)
		actualOdds = &odds
	}

	var resp *SettleBetResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		bet, err := txRepo.GetBetByID(ctx, req.BetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get bet: %w", err)
		}

		if err := bet.Settle(outcome, actualOdds); err != nil {
			return err
		}
		if err := txRepo.SettleBet(ctx, bet); err != nil {
			return err
		}

		payout := bet.Payout()
		if payout.IsPositive() {
			if err := s.creditPayout(ctx, txRepo, bet, outcome, payout); err != nil {
				return err
			}
		}

		winAmount, _ := payout.Float64()
		profit, _ := bet.Profit().Float64()
		resp = &SettleBetResponse{
			Bet: ToBetResponse(bet),
			Settlement: Settlement{
				Result:    req.Result,
				WinAmount: winAmount,
				Profit:    profit,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *service) creditPayout(ctx context.Context, txRepo Repository, bet *models.Bet, outcome models.BetOutcome, payout decimal.Decimal) error {
	user, err := txRepo.GetUserByID(ctx, bet.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	var transaction *models.Transaction
	if outcome == models.BetOutcomeVoid {
		transaction = models.NewVoidTransaction(bet.UserID, bet.ID, payout, user.Balance, "Void: "+bet.Event)
	} else {
		transaction = models.NewWinTransaction(bet.UserID, bet.ID, payout, user.Balance, models.ReferencePrefixWin, "Win: "+bet.Event)
	}

	if err := txRepo.CreateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return txRepo.AdjustBalance(ctx, bet.UserID, payout)
}

func (s *service) CashOut(ctx context.Context, userID, betID uuid.UUID, req *CashOutRequest) (*CashOutResponse, error) {
	value := decimal.NewFromFloat(req.CashOutValue)

	var resp *CashOutResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		bet, err := txRepo.GetBetByID(ctx, betID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get bet: %w", err)
		}
		// A bet belonging to someone else looks exactly like a missing bet.
		if bet.UserID != userID {
			return models.ErrRecordNotFound
		}

		if err := bet.CashOut(value); err != nil {
			return err
		}
		if err := txRepo.SettleBet(ctx, bet); err != nil {
			return err
		}

		user, err := txRepo.GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		transaction := models.NewWinTransaction(userID, bet.ID, value, user.Balance, models.ReferencePrefixCashOut, "Cash Out: "+bet.Event)
		if err := txRepo.CreateTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		if err := txRepo.AdjustBalance(ctx, userID, value); err != nil {
			return err
		}

		resp = &CashOutResponse{Bet: ToBetResponse(bet)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *service) GetUserBets(ctx context.Context, userID uuid.UUID, status models.BetStatus, limit, offset int) (*BetListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	bets, total, err := s.repo.GetUserBets(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bets: %w", err)
	}

	responses := make([]BetResponse, len(bets))
	for i := range bets {
		responses[i] = *ToBetResponse(&bets[i])
	}

	return &BetListResponse{Bets: responses, Total: total}, nil
}

func (s *service) GetBetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	bets, err := s.repo.GetAllUserBets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bets: %w", err)
	}
	return ComputeStats(bets), nil
}
