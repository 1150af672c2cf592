package user

import (
	"github.com/gin-gonic/gin"
	"github.com/oddslip/oddslip/internal/deps"
)

const (
	RepoKey    = "user_repository"
	ServiceKey = "user_service"
)

// MountPublic mounts public user routes (registration, login)
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.POST("/register", handler.Register)
	userGroup.POST("/login", handler.Login)
}

// MountAuthenticated mounts authenticated account routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.POST("/logout", handler.Logout)
	userGroup.GET("/me", handler.GetProfile)
	userGroup.PATCH("/me", handler.UpdateProfile)
	userGroup.DELETE("/me", handler.DeleteAccount)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, container.TokenMaker, container.Cache, container.DB, container.TokenDuration)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a user handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv, container.Sanitizer, container.Logger)
}
