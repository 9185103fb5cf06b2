package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vigidengue/accounts"
)

const identityKey = "identity"

// requireGestor authenticates the bearer token and aborts unless the caller
// holds the gestor role.
func (s *Server) requireGestor(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Não autenticado"})
		return
	}

	identity, err := s.engine.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Não autenticado"})
		return
	}
	if identity.Role != accounts.RoleGestor {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Acesso negado"})
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.List(c.Request.Context())
	if err != nil {
		s.internalError(c, "list users", err)
		return
	}
	out := make([]userOut, 0, len(users))
	for _, user := range users {
		out = append(out, toUserOut(user))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuário não encontrado"})
			return
		}
		s.internalError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, toUserOut(user))
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) handleUpdateRole(c *gin.Context) {
	var body updateRoleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Função inválida"})
		return
	}
	role := accounts.Role(body.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Função inválida"})
		return
	}

	ctx := c.Request.Context()
	user, err := s.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuário não encontrado"})
			return
		}
		s.internalError(c, "update role", err)
		return
	}

	user.Role = role
	if err := s.store.Update(ctx, user); err != nil {
		s.internalError(c, "update role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("Função atualizada para %s", role)})
}

type toggle2FARequest struct {
	TwoFactorEnabled *bool `json:"two_factor_enabled" binding:"required"`
}

func (s *Server) handleToggle2FA(c *gin.Context) {
	var body toggle2FARequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Dados inválidos"})
		return
	}

	ctx := c.Request.Context()
	user, err := s.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuário não encontrado"})
			return
		}
		s.internalError(c, "toggle 2fa", err)
		return
	}

	user.TwoFactorEnabled = *body.TwoFactorEnabled
	if err := s.store.Update(ctx, user); err != nil {
		s.internalError(c, "toggle 2fa", err)
		return
	}

	state := "desativado"
	if user.TwoFactorEnabled {
		state = "ativado"
	}
	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("2FA %s para %s", state, user.Email)})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuário não encontrado"})
			return
		}
		s.internalError(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Usuário excluído"})
}
