package betting

import (
	"github.com/gin-gonic/gin"
	"github.com/oddslip/oddslip/internal/deps"
)

const (
	RepoKey    = "betting_repository"
	ServiceKey = "betting_service"
)

// MountAuthenticated mounts authenticated betting routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	betsGroup := r.Group("/bets")
	betsGroup.GET("", handler.GetUserBets)
	betsGroup.GET("/stats", handler.GetBetStats)
	betsGroup.POST("/validate", handler.ValidateBet)
	betsGroup.POST("/place", handler.PlaceBet)
	betsGroup.POST("/settle", handler.SettleBet)
	betsGroup.POST("/:id/cash-out", handler.CashOut)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, container.DB)
	container.RegisterService(ServiceKey, srv)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
