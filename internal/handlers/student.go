package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/studentpulse/retention-backend/internal/services"
)

type StudentHandler struct {
  scoringService services.ScoringService
  trendService   services.TrendService
}

func NewStudentHandler(scoringService services.ScoringService, trendService services.TrendService) *StudentHandler {
  return &StudentHandler{scoringService: scoringService, trendService: trendService}
}

// GetRisk returns the student's stored risk state plus the display indicator
// the dashboard uses when the model has not scored them yet.
func (h *StudentHandler) GetRisk(c *gin.Context) {
  studentID, err := parseStudentID(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
    return
  }
  result, err := h.scoringService.GetStudentRisk(c.Request.Context(), studentID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *StudentHandler) GetSnapshots(c *gin.Context) {
  studentID, err := parseStudentID(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
    return
  }
  snapshots, err := h.trendService.StudentHistory(c.Request.Context(), studentID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"snapshots": snapshots})
}
