package betting

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oddslip/oddslip/app/api"
	"github.com/oddslip/oddslip/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// authUserID returns the authenticated user set by the auth middleware.
func authUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("userID").(uuid.UUID)
}

// ValidateBet godoc
// @Summary Validate a bet slip
// @Description Run all staking rules against a proposed bet without placing it
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ValidateBetRequest true "Bet slip to validate"
// @Success 200 {object} api.Response{data=ValidationResult}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets/validate [post]
func (h *Handler) ValidateBet(c *gin.Context) {
	var req ValidateBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.ValidateBet(c.Request.Context(), authUserID(c), &req)
	if err != nil {
		var ticketErr TicketError
		switch {
		case errors.As(err, &ticketErr):
			api.BadRequestResponse(c, ticketErr.Error())
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			api.InternalErrorResponse(c, "Failed to validate bet")
		}
		return
	}

	api.SuccessResponse(c, 200, "Bet validated", result)
}

// PlaceBet godoc
// @Summary Place a bet
// @Description Place single, accumulator or system bets and debit the stake
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceBetRequest true "Bet slip"
// @Success 201 {object} api.Response{data=PlaceBetResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets/place [post]
func (h *Handler) PlaceBet(c *gin.Context) {
	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.PlaceBet(c.Request.Context(), authUserID(c), &req)
	if err != nil {
		var ticketErr TicketError
		switch {
		case errors.As(err, &ticketErr):
			api.BadRequestResponse(c, ticketErr.Error())
		case errors.Is(err, models.ErrInsufficientBalance):
			api.BadRequestResponse(c, "Insufficient balance")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			api.InternalErrorResponse(c, "Failed to place bet")
		}
		return
	}

	api.CreatedResponse(c, "Bet placed successfully", result)
}

// SettleBet godoc
// @Summary Settle a bet
// @Description Resolve a pending bet as won, lost or void and credit any payout
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettleBetRequest true "Settlement request"
// @Success 200 {object} api.Response{data=SettleBetResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets/settle [post]
func (h *Handler) SettleBet(c *gin.Context) {
	var req SettleBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid settlement data")
		return
	}

	result, err := h.service.SettleBet(c.Request.Context(), &req)
	if err != nil {
		var ticketErr TicketError
		switch {
		case errors.As(err, &ticketErr):
			api.BadRequestResponse(c, ticketErr.Error())
		case errors.Is(err, models.ErrBetAlreadySettled):
			api.BadRequestResponse(c, "Bet is already settled")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "Bet")
		default:
			api.InternalErrorResponse(c, "Failed to settle bet")
		}
		return
	}

	api.SuccessResponse(c, 200, "Bet "+result.Settlement.Result+" successfully", result)
}

// CashOut godoc
// @Summary Cash out a bet
// @Description Close a pending bet early at the offered cash-out value
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bet ID"
// @Param request body CashOutRequest true "Cash out request"
// @Success 200 {object} api.Response{data=CashOutResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets/{id}/cash-out [post]
func (h *Handler) CashOut(c *gin.Context) {
	betID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid bet ID format")
		return
	}

	var req CashOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.CashOut(c.Request.Context(), authUserID(c), betID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBetAlreadySettled):
			api.BadRequestResponse(c, "Bet cannot be cashed out")
		case errors.Is(err, models.ErrInvalidTransactionAmount):
			api.BadRequestResponse(c, "Invalid cash out value")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "Bet")
		default:
			api.InternalErrorResponse(c, "Failed to cash out bet")
		}
		return
	}

	api.SuccessResponse(c, 200, "Bet cashed out successfully", result)
}

// GetUserBets godoc
// @Summary List bets
// @Description Get the authenticated user's bet history, newest first
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param limit query int false "Limit (default: 20, max: 100)"
// @Param offset query int false "Offset (default: 0)"
// @Success 200 {object} api.Response{data=BetListResponse}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets [get]
func (h *Handler) GetUserBets(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}

	status := models.BetStatus(c.Query("status"))

	result, err := h.service.GetUserBets(c.Request.Context(), authUserID(c), status, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get bets")
		return
	}

	api.SuccessResponse(c, 200, "Bets retrieved successfully", result)
}

// GetBetStats godoc
// @Summary Get betting statistics
// @Description Aggregate the authenticated user's betting history
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=Stats}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/bets/stats [get]
func (h *Handler) GetBetStats(c *gin.Context) {
	stats, err := h.service.GetBetStats(c.Request.Context(), authUserID(c))
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get bet statistics")
		return
	}

	api.SuccessResponse(c, 200, "Bet statistics retrieved successfully", stats)
}
