package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/logger"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/auth"
)

// AuthHandler exposes registration and login
type AuthHandler struct {
	Auth *auth.AuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{Auth: authService}
}

type registerReq struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Name        string `json:"name" binding:"max=64"`
	Password    string `json:"password" binding:"required"`
}

// Register creates a new account with a zero balance
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), auth.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			Fail(c, http.StatusConflict, CodeConflict, "phone number already registered")
			return
		}
		Fail(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
		return
	}

	logger.Info("user registered", logger.Fields{"user_id": user.ID.String()})

	Success(c, gin.H{
		"user": userJSON(user),
	})
}

type loginReq struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	user, token, err := h.Auth.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}

func userJSON(user *domain.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"phone_number": user.PhoneNumber,
		"name":         user.Name,
		"role":         user.Role,
		"balance":      user.Balance.StringFixed(2),
	}
}
