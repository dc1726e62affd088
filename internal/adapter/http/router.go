// Package httpapi is the HTTP transport: gin handlers over the usecase
// services, with a uniform JSON envelope and bearer-token auth.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/auth"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/education"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/portfolio"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/wallet"
)

// Services bundles everything the router wires handlers to
type Services struct {
	Auth      *auth.AuthService
	Wallet    *wallet.WalletService
	Portfolio *portfolio.PortfolioService
	Education *education.EducationService

	PlanRepo   domain.PlanRepository
	LedgerRepo domain.LedgerRepository

	PageSize int
	GinMode  string
}

// SetupRouter configures the gin engine with all API routes
func SetupRouter(s Services) *gin.Engine {
	if s.GinMode != "" {
		gin.SetMode(s.GinMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	authHandler := NewAuthHandler(s.Auth)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(AuthMiddleware(s.Auth))

	accountHandler := NewAccountHandler(s.Wallet)
	protected.GET("/me", accountHandler.Me)
	protected.POST("/account/deposit", accountHandler.Deposit)
	protected.POST("/account/withdraw", accountHandler.Withdraw)

	investmentHandler := NewInvestmentHandler(s.Wallet, s.Portfolio, s.PlanRepo)
	protected.GET("/plans", investmentHandler.ListPlans)
	protected.GET("/investments", investmentHandler.List)
	protected.POST("/investments", investmentHandler.Create)
	protected.POST("/investments/:id/withdraw", investmentHandler.Withdraw)
	protected.GET("/portfolio/summary", investmentHandler.Summary)

	educationHandler := NewEducationHandler(s.Education)
	protected.GET("/lessons", educationHandler.ListLessons)
	protected.GET("/lessons/progress", educationHandler.Progress)
	protected.POST("/lessons/:id/view", educationHandler.View)
	protected.POST("/lessons/:id/complete", educationHandler.Complete)

	statementHandler := NewStatementHandler(s.LedgerRepo, s.PageSize)
	protected.GET("/statement", statementHandler.List)
	protected.GET("/statement/export/csv", statementHandler.ExportCSV)
	protected.GET("/statement/export/xlsx", statementHandler.ExportXLSX)

	return r
}
