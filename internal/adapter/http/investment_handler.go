package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/portfolio"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/wallet"
	"github.com/shopspring/decimal"
)

// InvestmentHandler exposes the plan catalog and investment operations
type InvestmentHandler struct {
	Wallet    *wallet.WalletService
	Portfolio *portfolio.PortfolioService
	PlanRepo  domain.PlanRepository
}

// NewInvestmentHandler creates a new InvestmentHandler instance
func NewInvestmentHandler(walletService *wallet.WalletService, portfolioService *portfolio.PortfolioService, planRepo domain.PlanRepository) *InvestmentHandler {
	return &InvestmentHandler{
		Wallet:    walletService,
		Portfolio: portfolioService,
		PlanRepo:  planRepo,
	}
}

// ListPlans returns the investment plan catalog
func (h *InvestmentHandler) ListPlans(c *gin.Context) {
	plans, err := h.PlanRepo.List(c.Request.Context())
	if err != nil {
		FailFromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		out = append(out, gin.H{
			"code":                plan.Code,
			"name":                plan.Name,
			"description":         plan.Description,
			"annual_rate_percent": plan.AnnualRatePercent.String(),
			"min_amount":          plan.MinAmount.StringFixed(2),
			"max_amount":          plan.MaxAmount.StringFixed(2),
			"lock_in_months":      plan.LockInMonths,
			"risk":                plan.Risk,
			"tax_benefit":         plan.TaxBenefit,
		})
	}

	Success(c, gin.H{"plans": out})
}

type investReq struct {
	Amount            string `json:"amount" binding:"required"`
	PlanCode          string `json:"plan_code"`
	AnnualRatePercent string `json:"annual_rate_percent"`
	LockInMonths      int    `json:"lock_in_months"`
}

// Create opens a new investment funded from the cash balance
func (h *InvestmentHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	var req investReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid amount")
		return
	}

	rate := decimal.Zero
	if req.AnnualRatePercent != "" {
		if rate, err = decimal.NewFromString(req.AnnualRatePercent); err != nil {
			Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid annual rate")
			return
		}
	}

	if req.PlanCode == "" && req.AnnualRatePercent == "" {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "either plan_code or annual_rate_percent is required")
		return
	}

	result, err := h.Wallet.Invest(c.Request.Context(), user.ID, wallet.InvestInput{
		Amount:            amount,
		PlanCode:          req.PlanCode,
		AnnualRatePercent: rate,
		LockInMonths:      req.LockInMonths,
	})
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"investment": investmentJSON(result.Investment),
		"entry":      entryJSON(result.Entry),
		"balance":    result.NewBalance.StringFixed(2),
	})
}

// List returns the user's investments valued as of now
func (h *InvestmentHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	investments, err := h.Portfolio.Investments(c.Request.Context(), user.ID)
	if err != nil {
		FailFromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(investments))
	for _, investment := range investments {
		out = append(out, investmentJSON(investment))
	}

	Success(c, gin.H{"investments": out})
}

type investmentWithdrawReq struct {
	Amount string `json:"amount" binding:"required"`
}

// Withdraw returns value from an investment to the cash balance
func (h *InvestmentHandler) Withdraw(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid investment id")
		return
	}

	var req investmentWithdrawReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid amount")
		return
	}

	result, err := h.Wallet.WithdrawFromInvestment(c.Request.Context(), user.ID, investmentID, amount)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"investment": investmentJSON(result.Investment),
		"entry":      entryJSON(result.Entry),
		"balance":    result.NewBalance.StringFixed(2),
	})
}

// Summary returns the portfolio rollup
func (h *InvestmentHandler) Summary(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	summary, err := h.Portfolio.Summary(c.Request.Context(), user.ID)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"total_invested":      summary.TotalInvested.StringFixed(2),
		"total_current_value": summary.TotalCurrentValue.StringFixed(2),
		"total_gain":          summary.TotalGain.StringFixed(2),
		"gain_percent":        summary.GainPercent.String(),
		"count":               summary.Count,
	})
}

func investmentJSON(investment *domain.Investment) gin.H {
	return gin.H{
		"id":                  investment.ID,
		"plan_code":           investment.PlanCode,
		"principal":           investment.Principal.StringFixed(2),
		"current_value":       investment.CurrentValue.StringFixed(2),
		"annual_rate_percent": investment.AnnualRatePercent.String(),
		"lock_in_months":      investment.LockInMonths,
		"opened_at":           investment.OpenedAt,
		"status":              investment.Status,
	}
}
