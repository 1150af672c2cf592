package betting

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oddslip/oddslip/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(_ *gorm.DB) Repository {
	return m
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*models.Bet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetUserBets(ctx context.Context, userID uuid.UUID, status models.BetStatus, limit, offset int) ([]models.Bet, int64, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if b := args.Get(0); b != nil {
		return b.([]models.Bet), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockRepository) GetAllUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.([]models.Bet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) CreateBet(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockRepository) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockRepository) SettleBet(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

type ServiceTestSuite struct {
	suite.Suite
	service Service
	repo    *MockRepository
	sqlMock sqlmock.Sqlmock
	userID  uuid.UUID
}

func (suite *ServiceTestSuite) SetupTest() {
	sqlDB, sqlMock, err := sqlmock.New()
	suite.Require().NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	suite.Require().NoError(err)

	suite.sqlMock = sqlMock
	suite.repo = &MockRepository{}
	suite.service = NewService(suite.repo, db)
	suite.userID = uuid.New()
}

func TestBettingService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) expectTransaction(commit bool) {
	suite.sqlMock.ExpectBegin()
	if commit {
		suite.sqlMock.ExpectCommit()
	} else {
		suite.sqlMock.ExpectRollback()
	}
}

func (suite *ServiceTestSuite) testUser(balance int64) *models.User {
	return &models.User{
		ID:      suite.userID,
		Email:   "bettor@example.com",
		Balance: decimal.NewFromInt(balance),
	}
}

func (suite *ServiceTestSuite) TestValidateBet() {
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(1000), nil)

	result, err := suite.service.ValidateBet(context.Background(), suite.userID, &ValidateBetRequest{
		BetType:    models.BetTypeSingle,
		Selections: testSelections(1),
		Stakes:     map[string]float64{"ev1-1X2": 50},
	})

	suite.NoError(err)
	suite.True(result.IsValid)
	suite.Equal(float64(1000), result.Limits.UserBalance)
}

func (suite *ServiceTestSuite) TestValidateBet_UserNotFound() {
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(nil, gorm.ErrRecordNotFound)

	result, err := suite.service.ValidateBet(context.Background(), suite.userID, &ValidateBetRequest{})

	suite.Nil(result)
	suite.ErrorIs(err, models.ErrRecordNotFound)
}

func (suite *ServiceTestSuite) TestPlaceBet_Singles() {
	suite.expectTransaction(true)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(1000), nil)
	suite.repo.On("CreateBet", mock.Anything, mock.AnythingOfType("*models.Bet")).Run(func(args mock.Arguments) {
		bet := args.Get(1).(*models.Bet)
		bet.ID = uuid.New()
	}).Return(nil)
	suite.repo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.repo.On("AdjustBalance", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(-70))
	})).Return(nil)

	result, err := suite.service.PlaceBet(context.Background(), suite.userID, &PlaceBetRequest{
		BetType:    models.BetTypeSingle,
		Selections: testSelections(2),
		Stakes:     map[string]float64{"ev1-1X2": 50, "ev2-Moneyline": 20},
	})

	suite.NoError(err)
	suite.Require().NotNil(result)
	suite.Len(result.Bets, 2)
	suite.Len(result.Transactions, 2)
	suite.InDelta(70, result.TotalStake, 1e-9)

	// Ledger balances chain from the starting balance.
	suite.True(decimal.NewFromInt(1000).Equal(result.Transactions[0].BalanceBefore))
	suite.True(decimal.NewFromInt(950).Equal(result.Transactions[0].BalanceAfter))
	suite.True(decimal.NewFromInt(950).Equal(result.Transactions[1].BalanceBefore))
	suite.True(decimal.NewFromInt(930).Equal(result.Transactions[1].BalanceAfter))
	suite.True(decimal.NewFromInt(930).Equal(result.NewBalance))

	suite.Equal("Bet: Arsenal vs Chelsea - Arsenal", result.Transactions[0].Description)
	suite.repo.AssertExpectations(suite.T())
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ServiceTestSuite) TestPlaceBet_TooManySelections() {
	sels := make([]Selection, 21)
	stakes := make(map[string]float64, len(sels))
	for i := range sels {
		id := "ev" + strconv.Itoa(i)
		sels[i] = Selection{
			EventID:   id,
			EventName: "Event " + id,
			Market:    "1X2",
			Selection: "Home",
			Odds:      1.5,
			Sport:     "Football",
			League:    "Premier League",
		}
		stakes[id+"-1X2"] = 10
	}

	result, err := suite.service.PlaceBet(context.Background(), suite.userID, &PlaceBetRequest{
		BetType:    models.BetTypeSingle,
		Selections: sels,
		Stakes:     stakes,
	})

	suite.Nil(result)
	suite.EqualError(err, "Maximum 20 selections allowed")

	var ticketErr TicketError
	suite.ErrorAs(err, &ticketErr)
	suite.repo.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ServiceTestSuite) TestPlaceBet_TicketErrorSkipsDatabase() {
	result, err := suite.service.PlaceBet(context.Background(), suite.userID, &PlaceBetRequest{
		BetType: models.BetTypeSingle,
	})

	suite.Nil(result)
	suite.EqualError(err, "At least one selection is required")

	var ticketErr TicketError
	suite.ErrorAs(err, &ticketErr)
	suite.repo.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
}

func (suite *ServiceTestSuite) TestPlaceBet_InsufficientBalance() {
	suite.expectTransaction(false)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(10), nil)

	result, err := suite.service.PlaceBet(context.Background(), suite.userID, &PlaceBetRequest{
		BetType:    models.BetTypeSingle,
		Selections: testSelections(1),
		Stakes:     map[string]float64{"ev1-1X2": 50},
	})

	suite.Nil(result)
	suite.ErrorIs(err, models.ErrInsufficientBalance)
	suite.repo.AssertNotCalled(suite.T(), "CreateBet", mock.Anything, mock.Anything)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ServiceTestSuite) pendingBet(stake, potentialWin int64) *models.Bet {
	return &models.Bet{
		ID:           uuid.New(),
		UserID:       suite.userID,
		BetType:      models.BetTypeSingle,
		Event:        "Arsenal vs Chelsea",
		Selection:    "Arsenal",
		Odds:         decimal.NewFromFloat(2.5),
		Stake:        decimal.NewFromInt(stake),
		PotentialWin: decimal.NewFromInt(potentialWin),
		Status:       models.BetStatusPending,
	}
}

func (suite *ServiceTestSuite) TestSettleBet_Won() {
	bet := suite.pendingBet(10, 25)

	suite.expectTransaction(true)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)
	suite.repo.On("SettleBet", mock.Anything, bet).Return(nil)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(100), nil)
	suite.repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeWin &&
			tx.Reference == "WIN-"+bet.ID.String() &&
			tx.Description == "Win: Arsenal vs Chelsea" &&
			tx.Amount.Equal(decimal.NewFromInt(25))
	})).Return(nil)
	suite.repo.On("AdjustBalance", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(25))
	})).Return(nil)

	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:  bet.ID,
		Result: "won",
	})

	suite.NoError(err)
	suite.Equal(models.BetStatusWon, result.Bet.Status)
	suite.InDelta(25, result.Settlement.WinAmount, 1e-9)
	suite.InDelta(15, result.Settlement.Profit, 1e-9)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestSettleBet_WonWithActualOdds() {
	bet := suite.pendingBet(10, 25)
	actualOdds := 3.0

	suite.expectTransaction(true)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)
	suite.repo.On("SettleBet", mock.Anything, bet).Return(nil)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(100), nil)
	suite.repo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.repo.On("AdjustBalance", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(30))
	})).Return(nil)

	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:      bet.ID,
		Result:     "won",
		ActualOdds: &actualOdds,
	})

	suite.NoError(err)
	suite.InDelta(30, result.Settlement.WinAmount, 1e-9)
	suite.InDelta(20, result.Settlement.Profit, 1e-9)
}

func (suite *ServiceTestSuite) TestSettleBet_LostCreditsNothing() {
	bet := suite.pendingBet(10, 25)

	suite.expectTransaction(true)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)
	suite.repo.On("SettleBet", mock.Anything, bet).Return(nil)

	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:  bet.ID,
		Result: "lost",
	})

	suite.NoError(err)
	suite.Equal(models.BetStatusLost, result.Bet.Status)
	suite.InDelta(0, result.Settlement.WinAmount, 1e-9)
	suite.InDelta(-10, result.Settlement.Profit, 1e-9)
	suite.repo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ServiceTestSuite) TestSettleBet_VoidRefundsStake() {
	bet := suite.pendingBet(10, 25)

	suite.expectTransaction(true)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)
	suite.repo.On("SettleBet", mock.Anything, bet).Return(nil)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(100), nil)
	suite.repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeTransfer &&
			tx.Reference == "VOID-"+bet.ID.String() &&
			tx.Description == "Void: Arsenal vs Chelsea"
	})).Return(nil)
	suite.repo.On("AdjustBalance", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(10))
	})).Return(nil)

	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:  bet.ID,
		Result: "void",
	})

	suite.NoError(err)
	suite.InDelta(10, result.Settlement.WinAmount, 1e-9)
	suite.InDelta(0, result.Settlement.Profit, 1e-9)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestSettleBet_AlreadySettled() {
	bet := suite.pendingBet(10, 25)
	bet.Status = models.BetStatusWon

	suite.expectTransaction(false)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)

	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:  bet.ID,
		Result: "lost",
	})

	suite.Nil(result)
	suite.ErrorIs(err, models.ErrBetAlreadySettled)
	suite.repo.AssertNotCalled(suite.T(), "SettleBet", mock.Anything, mock.Anything)
}

func (suite *ServiceTestSuite) TestSettleBet_InvalidResult() {
	result, err := suite.service.SettleBet(context.Background(), &SettleBetRequest{
		BetID:  uuid.New(),
		Result: "draw",
	})

	suite.Nil(result)
	suite.EqualError(err, "Invalid settlement data")
}

func (suite *ServiceTestSuite) TestCashOut() {
	bet := suite.pendingBet(10, 25)

	suite.expectTransaction(true)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)
	suite.repo.On("SettleBet", mock.Anything, bet).Return(nil)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID).Return(suite.testUser(100), nil)
	suite.repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeWin &&
			tx.Reference == "CASH-"+bet.ID.String() &&
			tx.Description == "Cash Out: Arsenal vs Chelsea"
	})).Return(nil)
	suite.repo.On("AdjustBalance", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromFloat(18.5))
	})).Return(nil)

	result, err := suite.service.CashOut(context.Background(), suite.userID, bet.ID, &CashOutRequest{CashOutValue: 18.5})

	suite.NoError(err)
	suite.Equal(models.BetStatusCashedOut, result.Bet.Status)
	suite.Require().NotNil(result.Bet.CashOutValue)
	suite.True(decimal.NewFromFloat(18.5).Equal(*result.Bet.CashOutValue))
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestCashOut_OtherUsersBetLooksMissing() {
	bet := suite.pendingBet(10, 25)
	bet.UserID = uuid.New()

	suite.expectTransaction(false)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)

	result, err := suite.service.CashOut(context.Background(), suite.userID, bet.ID, &CashOutRequest{CashOutValue: 5})

	suite.Nil(result)
	suite.ErrorIs(err, models.ErrRecordNotFound)
}

func (suite *ServiceTestSuite) TestCashOut_NotPending() {
	bet := suite.pendingBet(10, 25)
	bet.Status = models.BetStatusLost

	suite.expectTransaction(false)
	suite.repo.On("GetBetByID", mock.Anything, bet.ID).Return(bet, nil)

	result, err := suite.service.CashOut(context.Background(), suite.userID, bet.ID, &CashOutRequest{CashOutValue: 5})

	suite.Nil(result)
	suite.ErrorIs(err, models.ErrBetAlreadySettled)
}

func (suite *ServiceTestSuite) TestGetUserBets_ClampsLimit() {
	suite.repo.On("GetUserBets", mock.Anything, suite.userID, models.BetStatus(""), 100, 0).
		Return([]models.Bet{}, int64(0), nil)

	result, err := suite.service.GetUserBets(context.Background(), suite.userID, "", 500, 0)

	suite.NoError(err)
	suite.Empty(result.Bets)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestGetBetStats() {
	now := time.Now()
	win := decimal.NewFromInt(25)
	suite.repo.On("GetAllUserBets", mock.Anything, suite.userID).Return([]models.Bet{
		{
			BetType:      models.BetTypeSingle,
			Sport:        "Football",
			Stake:        decimal.NewFromInt(10),
			PotentialWin: decimal.NewFromInt(25),
			Status:       models.BetStatusWon,
			WinAmount:    &win,
			SettledAt:    &now,
			CreatedAt:    now,
		},
	}, nil)

	stats, err := suite.service.GetBetStats(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Equal(1, stats.TotalBets)
	suite.Equal(float64(100), stats.WinRate)
	suite.Equal(1, stats.CurrentStreak)
}
