package handlers

import (
  "fmt"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
  "github.com/studentpulse/retention-backend/internal/services"
)

const defaultTrendWindowDays = 30

type TrendHandler struct {
  trendService services.TrendService
  windowDays   int
}

// NewTrendHandler takes the window applied when the request carries no days
// parameter; non-positive values fall back to the built-in default.
func NewTrendHandler(trendService services.TrendService, windowDays int) *TrendHandler {
  if windowDays <= 0 {
    windowDays = defaultTrendWindowDays
  }
  return &TrendHandler{trendService: trendService, windowDays: windowDays}
}

func (h *TrendHandler) GetTrend(c *gin.Context) {
  windowDays := h.windowDays
  if raw := c.Query("days"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("%w: days must be an integer", pkgerrors.ErrInvalidArgument))
      return
    }
    windowDays = parsed
  }
  points, err := h.trendService.Trend(c.Request.Context(), windowDays)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"trend": points})
}
