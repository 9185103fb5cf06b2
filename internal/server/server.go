// Package server exposes the accounts engine over HTTP. Routes live under
// /api/v1: the auth group is public, the admin group requires a bearer token
// belonging to a gestor.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vigidengue/accounts"
	"github.com/vigidengue/accounts/internal/logging"
)

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	engine *accounts.Engine
	store  accounts.Store
	log    logging.Logger
}

// New builds a Server over the given engine and user store.
func New(engine *accounts.Engine, store accounts.Store, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop{}
	}
	return &Server{engine: engine, store: store, log: log}
}

// Router assembles the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/confirm", s.handleConfirm)
		auth.POST("/login", s.handleLogin)
		auth.POST("/two-factor/verify", s.handleTwoFactorVerify)
		auth.POST("/forgot-password", s.handleForgotPassword)
		auth.POST("/reset-password", s.handleResetPassword)
	}

	admin := v1.Group("/admin")
	admin.Use(s.requireGestor)
	{
		admin.GET("/users", s.handleListUsers)
		admin.GET("/users/:id", s.handleGetUser)
		admin.PUT("/users/:id/role", s.handleUpdateRole)
		admin.POST("/users/:id/toggle-2fa", s.handleToggle2FA)
		admin.DELETE("/users/:id", s.handleDeleteUser)
	}

	return router
}

// userOut is the admin-facing view of a user. Credential and token material
// never leaves the service.
type userOut struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Active           bool   `json:"active"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	CreatedAt        string `json:"created_at"`
}

func toUserOut(user *accounts.User) userOut {
	return userOut{
		ID:               user.ID,
		Email:            user.Email,
		Role:             string(user.Role),
		Active:           user.Active,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
