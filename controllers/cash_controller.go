package controllers

import (
	"net/http"
	"strconv"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CashController struct {
	Svc *services.CashService
}

func NewCashController(svc *services.CashService) *CashController {
	return &CashController{Svc: svc}
}

func (h *CashController) Overview(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	overview, err := h.Svc.Overview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *CashController) Withdraw(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
		Note   string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, txn, err := h.Svc.AddWithdrawal(c.Request.Context(), userID, decimal.NewFromFloat(input.Amount), input.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet, "transaction": txn})
}

func (h *CashController) AddExpense(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		Category    string  `json:"category" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, txn, expense, err := h.Svc.AddExpense(c.Request.Context(), userID, services.CashExpenseInput{
		Amount:      decimal.NewFromFloat(input.Amount),
		Category:    input.Category,
		Description: input.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"wallet":          wallet,
		"cashTransaction": txn,
		"expense":         expense,
	})
}

func (h *CashController) Adjust(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Amount float64 `json:"amount" binding:"required"`
		Note   string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, txn, err := h.Svc.Adjust(c.Request.Context(), userID, decimal.NewFromFloat(input.Amount), input.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "transaction": txn})
}

func (h *CashController) Transactions(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	txType := c.Query("type")
	switch txType {
	case "", "withdrawal", "expense", "adjustment":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	txns, err := h.Svc.Transactions(c.Request.Context(), userID, txType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

func (h *CashController) ResolveAlert(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	resolved, err := h.Svc.ResolveAlert(c.Request.Context(), userID, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !resolved {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "alert resolved"})
}

func (h *CashController) Reconciliation(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.Svc.WeeklyReconciliation(c.Request.Context(), userID, 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
