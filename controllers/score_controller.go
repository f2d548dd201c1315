// controllers/score_controller.go
package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/services"

	"github.com/gin-gonic/gin"
)

type ScoreController struct {
	Svc *services.ScoreService
	Hub *services.RealtimeHub
}

func NewScoreController(svc *services.ScoreService, hub *services.RealtimeHub) *ScoreController {
	return &ScoreController{Svc: svc, Hub: hub}
}

// GetScore serves today's snapshot, computing and persisting it first when
// none exists yet.
func (h *ScoreController) GetScore(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	breakdown, err := h.Svc.GetScore(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[getScore] user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate score"})
		return
	}

	c.JSON(http.StatusOK, scoreResponse(breakdown))
}

func (h *ScoreController) GetHistory(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	if days < 7 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	history, err := h.Svc.History(c.Request.Context(), userID, days)
	if err != nil {
		log.Printf("[getHistory] user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch score history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Recalculate forces a fresh compute-and-persist, used right after the user
// logs a new expense.
func (h *ScoreController) Recalculate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	breakdown, err := h.Svc.Recalculate(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[recalculateScore] user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recalculate score"})
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastScore(userID, breakdown)
	}

	c.JSON(http.StatusOK, scoreResponse(breakdown))
}

func scoreResponse(b *services.ScoreBreakdown) gin.H {
	resp := gin.H{
		"score":          b,
		"levels":         services.Levels,
		"progressToNext": services.ProgressToNext(b.TotalScore),
		"nextLevel":      nil,
		"nextLevelEmoji": nil,
	}
	if next := services.NextLevel(b.TotalScore); next != nil {
		resp["nextLevel"] = next.Name
		resp["nextLevelEmoji"] = next.Emoji
	}
	return resp
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}
