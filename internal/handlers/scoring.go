package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
  "github.com/studentpulse/retention-backend/internal/services"
)

type ScoringHandler struct {
  scoringService services.ScoringService
}

func NewScoringHandler(scoringService services.ScoringService) *ScoringHandler {
  return &ScoringHandler{scoringService: scoringService}
}

func (h *ScoringHandler) RecomputeStudent(c *gin.Context) {
  studentID, err := parseStudentID(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
    return
  }
  student, err := h.scoringService.RecomputeStudent(c.Request.Context(), studentID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"student": student})
}

func (h *ScoringHandler) RecomputeAll(c *gin.Context) {
  result, err := h.scoringService.RecomputeAll(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func parseStudentID(c *gin.Context) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    return uuid.Nil, fmt.Errorf("%w: student id must be a uuid", pkgerrors.ErrInvalidArgument)
  }
  return id, nil
}
