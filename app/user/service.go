package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddslip/oddslip/internal/cache"
	"github.com/oddslip/oddslip/internal/security"
	"github.com/oddslip/oddslip/models"
)

const (
	defaultAccessTokenDuration = 24 * time.Hour

	// Promotional credit granted on signup. It lands on the bonus balance
	// and cannot be staked.
	welcomeBonus = 50
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotEmpty = errors.New("account has remaining balance")
var ErrAccountHasPendingBets = errors.New("account has pending bets")

type service struct {
	repo          Repository
	tokenMaker    security.Maker
	blacklist     cache.Cache[string]
	db            *gorm.DB
	tokenDuration time.Duration
}

// NewService creates a new user service. A non-positive tokenDuration falls
// back to the 24 hour default.
func NewService(repo Repository, tokenMaker security.Maker, blacklist cache.Cache[string], db *gorm.DB, tokenDuration time.Duration) Service {
	if tokenDuration <= 0 {
		tokenDuration = defaultAccessTokenDuration
	}
	return &service{
		repo:          repo,
		tokenMaker:    tokenMaker,
		blacklist:     blacklist,
		db:            db,
		tokenDuration: tokenDuration,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterUserRequest) (*LoginResponse, error) {
	hashedPassword, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Balance:      decimal.Zero,
		BonusBalance: decimal.NewFromInt(welcomeBonus),
		Currency:     "USD",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		bonus := models.NewBonusTransaction(user.ID, decimal.NewFromInt(welcomeBonus), decimal.Zero, "Welcome Bonus")
		if err := txRepo.CreateTransaction(ctx, bonus); err != nil {
			return fmt.Errorf("failed to create bonus transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loginResponse(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return s.loginResponse(user)
}

func (s *service) loginResponse(user *models.User) (*LoginResponse, error) {
	version := user.UpdatedAt.UnixNano()
	if user.UpdatedAt.IsZero() {
		version = 0
	}

	accessToken, _, err := s.tokenMaker.CreateToken(user.ID, s.tokenDuration, version, security.TokenScopeAccess)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: accessToken,
		User:        *ToUserResponse(user),
	}, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *service) Logout(ctx context.Context, payload *security.Payload) error {
	ttl := time.Until(payload.ExpiredAt)
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.Set(ctx, blacklistKey(payload.ID), "revoked", ttl)
}

// IsTokenRevoked reports whether a token was blacklisted by Logout.
func IsTokenRevoked(ctx context.Context, blacklist cache.Cache[string], tokenID uuid.UUID) bool {
	_, err := blacklist.Get(ctx, blacklistKey(tokenID))
	return err == nil
}

func blacklistKey(tokenID uuid.UUID) string {
	return "token_blacklist:" + tokenID.String()
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return ToUserResponse(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Response, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return ToUserResponse(user), nil
}

// DeleteAccount removes a user and all dependent data. It refuses while bets
// are still pending or any balance remains.
func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		user, err := txRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		pending, err := txRepo.HasPendingBets(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check pending bets: %w", err)
		}
		if pending {
			return ErrAccountHasPendingBets
		}

		if user.Balance.IsPositive() || user.BonusBalance.IsPositive() {
			return ErrAccountNotEmpty
		}

		return txRepo.DeleteAccountData(ctx, userID)
	})
}
