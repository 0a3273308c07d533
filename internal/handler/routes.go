package handler

import (
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, identity *middleware.IdentityMiddleware, rateLimiter *middleware.RateLimiter, overviewHandler *OverviewHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, potHandler *PotHandler, billHandler *BillHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(identity.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Overview routes
	api.GET("/overview", overviewHandler.GetSummary)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Pot routes
	pots := api.Group("/pots")
	pots.POST("", potHandler.CreatePot)
	pots.GET("", potHandler.GetPots)
	pots.PUT("/:id", potHandler.UpdatePot)
	pots.DELETE("/:id", potHandler.DeletePot)
	pots.POST("/:id/deposit", potHandler.Deposit)
	pots.POST("/:id/withdraw", potHandler.Withdraw)

	// Recurring bill routes
	bills := api.Group("/recurring-bills")
	bills.POST("", billHandler.CreateBill)
	bills.GET("", billHandler.GetBills)
	bills.POST("/:id/pay", billHandler.PayBill)

	// WebSocket after identity so the user is resolved before the upgrade
	ws := e.Group("/ws")
	ws.Use(identity.Authenticate())
	ws.GET("", wsHandler.HandleWS)
}
