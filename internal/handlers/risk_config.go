package handlers

import (
  "fmt"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
  "github.com/studentpulse/retention-backend/internal/risk"
  "github.com/studentpulse/retention-backend/internal/services"
)

type RiskConfigHandler struct {
  configService services.RiskConfigService
}

func NewRiskConfigHandler(configService services.RiskConfigService) *RiskConfigHandler {
  return &RiskConfigHandler{configService: configService}
}

type saveConfigRequest struct {
  Weights     risk.Weights     `json:"weights"`
  Thresholds  risk.Thresholds  `json:"thresholds"`
}

func (h *RiskConfigHandler) GetActive(c *gin.Context) {
  cfg, err := h.configService.GetActive(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"config": cfg})
}

func (h *RiskConfigHandler) Save(c *gin.Context) {
  var req saveConfigRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err))
    return
  }
  result, err := h.configService.Save(c.Request.Context(), req.Weights, req.Thresholds)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *RiskConfigHandler) GetVersion(c *gin.Context) {
  version, err := strconv.Atoi(c.Param("version"))
  if err != nil || version < 1 {
    RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("%w: version must be a positive integer", pkgerrors.ErrInvalidArgument))
    return
  }
  cfg, err := h.configService.GetVersion(c.Request.Context(), version)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"config": cfg})
}
