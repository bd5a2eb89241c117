package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/expense-tracker-service/internal/idempotency"
	"github.com/PratikDhanave/expense-tracker-service/internal/models"
	"github.com/PratikDhanave/expense-tracker-service/internal/validation"
)

// ExpenseRepository is the persistence dependency of the expense endpoints.
// CreateExpense must be atomic: once it returns without error the expense is
// durably stored with its server-assigned id and timestamp.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, ne models.NewExpense) (models.Expense, error)
	ListExpenses(ctx context.Context, category string, ascending bool) ([]models.Expense, error)
}

// RegisterExpenseRoutes registers the expense endpoints.
//
// POST /expenses
//   - optional Idempotency-Key header; retries bearing the same key replay
//     the first response instead of creating a duplicate record
//   - 201 {success:true,data:<Expense>} on success
//   - 400 {success:false,error:<first rule>,errors:[...]} on invalid payloads
//
// GET /expenses?category=<optional>&sort=date_asc|date_desc
//   - 200 {success:true,count,data:[...]}, default sort newest-first
func RegisterExpenseRoutes(r gin.IRoutes, repo ExpenseRepository, keys idempotency.Store) {
	r.POST("/expenses", idempotency.Middleware(keys), func(c *gin.Context) {
		var req models.CreateExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON payload"})
			return
		}

		ne, violations := validation.ValidateCreate(req, time.Now().UTC())
		if len(violations) > 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:  violations[0],
				Errors: violations,
			})
			return
		}

		exp, err := repo.CreateExpense(c.Request.Context(), ne)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "Expense create failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
			return
		}

		c.JSON(http.StatusCreated, models.CreateExpenseResponse{Success: true, Data: exp})
	})

	r.GET("/expenses", func(c *gin.Context) {
		category := strings.TrimSpace(c.Query("category"))
		// Any value other than date_asc, including absence, sorts newest-first.
		ascending := c.Query("sort") == "date_asc"

		items, err := repo.ListExpenses(c.Request.Context(), category, ascending)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "Expense list failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
			return
		}
		if items == nil {
			items = []models.Expense{}
		}

		c.JSON(http.StatusOK, models.ListExpensesResponse{
			Success: true,
			Count:   len(items),
			Data:    items,
		})
	})
}

// RegisterCategoryRoutes exposes the closed category set so clients do not
// hardcode it.
func RegisterCategoryRoutes(r gin.IRoutes) {
	r.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": models.Categories})
	})
}
