package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oddslip/oddslip/app/api"
	"github.com/oddslip/oddslip/internal/logger"
	"github.com/oddslip/oddslip/models"
)

type Handler struct {
	service Service
	logger  logger.Logger
}

func NewHandler(service Service, logger logger.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// authUserID returns the authenticated user set by the auth middleware.
func authUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("userID").(uuid.UUID)
}

// Deposit godoc
// @Summary Deposit funds
// @Description Charge a payment method and credit the balance on success
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} api.Response{data=DepositResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/deposit [post]
func (h *Handler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid amount or payment method")
		return
	}

	result, err := h.service.Deposit(c.Request.Context(), authUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayment):
			api.BadRequestResponse(c, "Invalid amount or payment method")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			h.logger.Error(err, logger.Fields{"user_id": authUserID(c)})
			api.InternalErrorResponse(c, "Failed to process deposit")
		}
		return
	}

	if !result.Completed {
		api.ErrorResponse(c, http.StatusBadRequest, "PAYMENT_FAILED", "Deposit failed", result)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Deposit successful", result)
}

// Withdraw godoc
// @Summary Withdraw funds
// @Description Debit the balance and submit a withdrawal for settlement
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 200 {object} api.Response{data=WithdrawResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/withdraw [post]
func (h *Handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid amount or payment method")
		return
	}

	result, err := h.service.Withdraw(c.Request.Context(), authUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayment):
			api.BadRequestResponse(c, "Invalid amount or payment method")
		case errors.Is(err, models.ErrInsufficientBalance):
			api.BadRequestResponse(c, "Insufficient balance")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			h.logger.Error(err, logger.Fields{"user_id": authUserID(c)})
			api.InternalErrorResponse(c, "Failed to process withdrawal")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Withdrawal request submitted", result)
}

// GetBalance godoc
// @Summary Get wallet balance
// @Description Return balances plus deposit and withdrawal totals
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=BalanceResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	result, err := h.service.GetBalance(c.Request.Context(), authUserID(c))
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		api.InternalErrorResponse(c, "Failed to get balance")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Balance retrieved successfully", result)
}

// GetTransactions godoc
// @Summary List transactions
// @Description Page through the account's ledger, newest first
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} api.Response{data=TransactionListResponse}
// @Router /api/v1/wallet/transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	txType := c.Query("type")

	result, err := h.service.GetTransactions(c.Request.Context(), authUserID(c), txType, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get transactions")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", result)
}

// HandleWebhook godoc
// @Summary Payment provider webhook
// @Description Settle a pending deposit or withdrawal from a provider event
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body ProviderEvent true "Provider event"
// @Success 200 {object} api.Response
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/payments/webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	var event ProviderEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.service.HandleProviderEvent(c.Request.Context(), &event); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayment):
			api.BadRequestResponse(c, "Unknown event status")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "Transaction")
		default:
			h.logger.Error(err, logger.Fields{"intent_id": event.IntentID})
			api.InternalErrorResponse(c, "Failed to process event")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Event processed", nil)
}

// AddPaymentMethod godoc
// @Summary Add a payment method
// @Description Register a payment instrument; the first one becomes the default
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddPaymentMethodRequest true "Payment method details"
// @Success 201 {object} api.Response{data=PaymentMethodResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/payment-methods [post]
func (h *Handler) AddPaymentMethod(c *gin.Context) {
	var req AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "All fields are required")
		return
	}

	result, err := h.service.AddPaymentMethod(c.Request.Context(), authUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidPaymentMethodType):
			api.BadRequestResponse(c, err.Error())
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			h.logger.Error(err, logger.Fields{"user_id": authUserID(c)})
			api.InternalErrorResponse(c, "Failed to add payment method")
		}
		return
	}

	api.CreatedResponse(c, "Payment method added", result)
}

// GetPaymentMethods godoc
// @Summary List payment methods
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]PaymentMethodResponse}
// @Router /api/v1/wallet/payment-methods [get]
func (h *Handler) GetPaymentMethods(c *gin.Context) {
	result, err := h.service.GetPaymentMethods(c.Request.Context(), authUserID(c))
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get payment methods")
		return
	}

	api.ListResponse(c, "Payment methods retrieved successfully", result, len(result))
}

// DeletePaymentMethod godoc
// @Summary Delete a payment method
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Success 200 {object} api.Response
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/payment-methods/{id} [delete]
func (h *Handler) DeletePaymentMethod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid payment method ID")
		return
	}

	if err := h.service.DeletePaymentMethod(c.Request.Context(), authUserID(c), id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Payment method")
			return
		}
		api.InternalErrorResponse(c, "Failed to delete payment method")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Payment method deleted", nil)
}

// SetDefaultPaymentMethod godoc
// @Summary Set the default payment method
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Success 200 {object} api.Response
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallet/payment-methods/{id}/set-default [post]
func (h *Handler) SetDefaultPaymentMethod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid payment method ID")
		return
	}

	if err := h.service.SetDefaultPaymentMethod(c.Request.Context(), authUserID(c), id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Payment method")
			return
		}
		api.InternalErrorResponse(c, "Failed to update default payment method")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Default payment method updated", nil)
}
