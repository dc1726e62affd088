package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/wallet"
	"github.com/shopspring/decimal"
)

// AccountHandler exposes the cash balance operations
type AccountHandler struct {
	Wallet *wallet.WalletService
}

// NewAccountHandler creates a new AccountHandler instance
func NewAccountHandler(walletService *wallet.WalletService) *AccountHandler {
	return &AccountHandler{Wallet: walletService}
}

// Me returns the authenticated user's profile and balance
func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	Success(c, gin.H{"user": userJSON(user)})
}

type amountReq struct {
	Amount string `json:"amount" binding:"required"`
}

func (r amountReq) parse() (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// Deposit adds cash to the balance
func (h *AccountHandler) Deposit(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	var req amountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	amount, ok := req.parse()
	if !ok {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid amount")
		return
	}

	result, err := h.Wallet.Deposit(c.Request.Context(), user.ID, amount)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"balance": result.NewBalance.StringFixed(2),
		"entry":   entryJSON(result.Entry),
	})
}

// Withdraw removes cash from the balance
func (h *AccountHandler) Withdraw(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	var req amountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	amount, ok := req.parse()
	if !ok {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid amount")
		return
	}

	result, err := h.Wallet.WithdrawCash(c.Request.Context(), user.ID, amount)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"balance": result.NewBalance.StringFixed(2),
		"entry":   entryJSON(result.Entry),
	})
}

func entryJSON(entry *domain.LedgerEntry) gin.H {
	out := gin.H{
		"id":          entry.ID,
		"kind":        entry.Kind,
		"amount":      entry.Amount.StringFixed(2),
		"description": entry.Description,
		"status":      entry.Status,
		"created_at":  entry.CreatedAt,
	}
	if entry.InvestmentID != nil {
		out["investment_id"] = *entry.InvestmentID
	}
	return out
}
