package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vigidengue/accounts"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Dados inválidos"})
		return
	}

	err := s.engine.Register(c.Request.Context(), body.Email, body.Password, accounts.Role(body.Role))
	if err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "E-mail já cadastrado"})
			return
		}
		s.internalError(c, "register", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Usuário criado. Verifique seu e-mail."})
}

type confirmRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) handleConfirm(c *gin.Context) {
	var body confirmRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Dados inválidos"})
		return
	}

	if err := s.engine.ConfirmAccount(c.Request.Context(), body.Token); err != nil {
		if errors.Is(err, accounts.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Token inválido"})
			return
		}
		s.internalError(c, "confirm", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Conta confirmada"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciais inválidas"})
		return
	}

	result, err := s.engine.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciais inválidas"})
		case errors.Is(err, accounts.ErrAccountNotActive):
			c.JSON(http.StatusForbidden, gin.H{"detail": "Confirme seu e-mail"})
		default:
			s.internalError(c, "login", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   result.TokenType,
	})
}

type twoFactorVerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (s *Server) handleTwoFactorVerify(c *gin.Context) {
	var body twoFactorVerifyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Código inválido ou expirado"})
		return
	}

	result, err := s.engine.VerifyTwoFactor(c.Request.Context(), body.Email, body.Code)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Código inválido ou expirado"})
		case errors.Is(err, accounts.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuário não encontrado"})
		default:
			s.internalError(c, "two-factor verify", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   result.TokenType,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) handleForgotPassword(c *gin.Context) {
	var body forgotPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Dados inválidos"})
		return
	}

	if err := s.engine.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
		s.internalError(c, "forgot password", err)
		return
	}
	// Same body whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"msg": "Se existir, enviaremos instruções de recuperação"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Dados inválidos"})
		return
	}

	if err := s.engine.ConfirmPasswordReset(c.Request.Context(), body.Token, body.NewPassword); err != nil {
		if errors.Is(err, accounts.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Token inválido"})
			return
		}
		s.internalError(c, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Senha redefinida"})
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	s.log.Error(c.Request.Context(), "request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Erro interno"})
}
