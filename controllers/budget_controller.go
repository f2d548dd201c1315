package controllers

import (
	"net/http"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BudgetController struct {
	Svc *services.BudgetService
}

func NewBudgetController(svc *services.BudgetService) *BudgetController {
	return &BudgetController{Svc: svc}
}

func (h *BudgetController) Get(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	budget, err := h.Svc.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              budget.ID,
		"monthlyLimit":    budget.MonthlyLimit,
		"categoryBudgets": budget.CategoryBudgets,
	})
}

func (h *BudgetController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		MonthlyLimit    *float64           `json:"monthlyLimit" binding:"omitempty,gte=0"`
		CategoryBudgets map[string]float64 `json:"categoryBudgets"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.BudgetUpdate{CategoryBudgets: input.CategoryBudgets}
	if input.MonthlyLimit != nil {
		limit := decimal.NewFromFloat(*input.MonthlyLimit)
		update.MonthlyLimit = &limit
	}

	budget, err := h.Svc.Update(c.Request.Context(), userID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              budget.ID,
		"monthlyLimit":    budget.MonthlyLimit,
		"categoryBudgets": budget.CategoryBudgets,
	})
}

func (h *BudgetController) Status(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.Svc.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}
