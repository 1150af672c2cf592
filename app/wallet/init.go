package wallet

import (
	"github.com/gin-gonic/gin"
	"github.com/oddslip/oddslip/internal/deps"
)

const (
	RepoKey    = "wallet_repository"
	ServiceKey = "wallet_service"

	// simulatedApproveRate matches the share of charges the stand-in
	// processor approves.
	simulatedApproveRate = 0.9
)

// MountPublic mounts the payment provider webhook
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.POST("/payments/webhook", handler.HandleWebhook)
}

// MountAuthenticated mounts wallet routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	walletGroup := r.Group("/wallet")
	walletGroup.GET("/balance", handler.GetBalance)
	walletGroup.GET("/transactions", handler.GetTransactions)
	walletGroup.POST("/deposit", handler.Deposit)
	walletGroup.POST("/withdraw", handler.Withdraw)

	methodGroup := walletGroup.Group("/payment-methods")
	methodGroup.GET("", handler.GetPaymentMethods)
	methodGroup.POST("", handler.AddPaymentMethod)
	methodGroup.DELETE("/:id", handler.DeletePaymentMethod)
	methodGroup.POST("/:id/set-default", handler.SetDefaultPaymentMethod)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, NewSimulatedProcessor(simulatedApproveRate), container.DB)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a wallet handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv, container.Logger)
}
