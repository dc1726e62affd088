package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
)

// Business codes carried alongside the HTTP status
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes the uniform success envelope
func Success(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Fail writes the uniform error envelope
func Fail(c *gin.Context, httpStatus, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// FailFromError maps a domain error to the right status and envelope.
// Unrecognized errors become a generic 500 so internals never leak.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid amount")
	case errors.Is(err, domain.ErrInsufficientFunds):
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "insufficient balance")
	case errors.Is(err, domain.ErrInsufficientInvestmentFunds):
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "insufficient investment value")
	case errors.Is(err, domain.ErrNotFound):
		Fail(c, http.StatusNotFound, CodeNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		Fail(c, http.StatusConflict, CodeConflict, "already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		Fail(c, http.StatusUnauthorized, CodeAuth, "invalid credentials")
	case errors.Is(err, domain.ErrTransactionFailed):
		Fail(c, http.StatusConflict, CodeConflict, "operation conflicted, please retry")
	default:
		Fail(c, http.StatusInternalServerError, CodeServerErr, "internal error")
	}
}
