package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oddslip/oddslip/app/api"
	"github.com/oddslip/oddslip/internal/logger"
	"github.com/oddslip/oddslip/internal/sanitizer"
	"github.com/oddslip/oddslip/internal/validator"
	"github.com/oddslip/oddslip/models"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new user handler
func NewHandler(service Service, sanitizer sanitizer.HTMLStripperer, logger logger.Logger) *Handler {
	return &Handler{service: service, sanitizer: sanitizer, logger: logger}
}

// Register godoc
// @Summary      Register a new account
// @Description  Create an account and grant the welcome bonus
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterUserRequest  true  "Registration details"
// @Success      201      {object}  api.Response{data=LoginResponse}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      409      {object}  api.Response{error=api.ErrorInfo}
// @Failure      500      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	req.Sanitize(h.sanitizer)

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			api.ConflictResponse(c, "User already exists")
			return
		}
		h.logger.Error(err, logger.Fields{"email": req.Email})
		api.InternalErrorResponse(c, "Failed to register user")
		return
	}

	api.CreatedResponse(c, "Registration successful", resp)
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate with email and password and return an access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  api.Response{data=LoginResponse}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      401      {object}  api.Response{error=api.ErrorInfo}
// @Failure      500      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.UnauthorizedResponse(c)
			return
		}
		h.logger.Error(err, logger.Fields{"email": req.Email})
		api.InternalErrorResponse(c, "Failed to log in")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the presented access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response
// @Failure      401  {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), ContextGetToken(c)); err != nil {
		h.logger.Error(err, nil)
		api.InternalErrorResponse(c, "Failed to log out")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile godoc
// @Summary      Get the authenticated account
// @Description  Return the account profile and balances
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response{data=Response}
// @Failure      401  {object}  api.Response{error=api.ErrorInfo}
// @Failure      404  {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/me [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), ContextGetUserID(c))
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		api.InternalErrorResponse(c, "Failed to get profile")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile godoc
// @Summary      Update the authenticated account
// @Description  Change name or phone number
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UpdateProfileRequest  true  "Fields to update"
// @Success      200      {object}  api.Response{data=Response}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      404      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	req.Sanitize(h.sanitizer)

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), ContextGetUserID(c), &req)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		api.InternalErrorResponse(c, "Failed to update profile")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

// DeleteAccount godoc
// @Summary      Delete the authenticated account
// @Description  Permanently remove the account once it holds no funds or pending bets
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response
// @Failure      400  {object}  api.Response{error=api.ErrorInfo}
// @Failure      404  {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/me [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	err := h.service.DeleteAccount(c.Request.Context(), ContextGetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountHasPendingBets):
			api.BadRequestResponse(c, "Cannot delete account with pending bets. Please wait for all bets to be settled.")
		case errors.Is(err, ErrAccountNotEmpty):
			api.BadRequestResponse(c, "Cannot delete account with remaining balance. Please withdraw all funds first.")
		case errors.Is(err, models.ErrRecordNotFound):
			api.NotFoundResponse(c, "User")
		default:
			api.InternalErrorResponse(c, "Failed to delete account")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Account successfully deleted", nil)
}
