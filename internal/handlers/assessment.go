package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"

  pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
  "github.com/studentpulse/retention-backend/internal/risk"
  "github.com/studentpulse/retention-backend/internal/services"
)

type AssessmentHandler struct {
  assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
  return &AssessmentHandler{assessmentService: assessmentService}
}

type assessmentRequest struct {
  CGPA              *float64  `json:"cgpa"`
  AttendancePercent *float64  `json:"attendance_percent"`
  Fees              string    `json:"fees"`
  Behavior          string    `json:"behavior"`
  Motivation        string    `json:"motivation"`
}

func (h *AssessmentHandler) Assess(c *gin.Context) {
  studentID, err := parseStudentID(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
    return
  }
  var req assessmentRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err))
    return
  }
  input, err := req.toInput()
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
    return
  }
  result, err := h.assessmentService.Assess(c.Request.Context(), studentID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (r assessmentRequest) toInput() (risk.AssessmentInput, error) {
  fees, err := risk.ParseFeesCategory(r.Fees)
  if err != nil {
    return risk.AssessmentInput{}, err
  }
  behavior, err := risk.ParseBehaviorCategory(r.Behavior)
  if err != nil {
    return risk.AssessmentInput{}, err
  }
  motivation, err := risk.ParseMotivationLevel(r.Motivation)
  if err != nil {
    return risk.AssessmentInput{}, err
  }
  return risk.AssessmentInput{
    CGPA:              r.CGPA,
    AttendancePercent: r.AttendancePercent,
    Fees:              fees,
    Behavior:          behavior,
    Motivation:        motivation,
  }, nil
}
