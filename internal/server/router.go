package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/studentpulse/retention-backend/internal/handlers"
  "github.com/studentpulse/retention-backend/internal/middleware"
)

const (
  RoleAdmin  = "admin"
  RoleMentor = "mentor"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  RiskConfigHandler *handlers.RiskConfigHandler
  ScoringHandler    *handlers.ScoringHandler
  AssessmentHandler *handlers.AssessmentHandler
  StudentHandler    *handlers.StudentHandler
  TrendHandler      *handlers.TrendHandler
  AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))
  router.Use(otelgin.Middleware("retention-backend"))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api/risk")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  // Mentor or admin
  staff := api.Group("/")
  staff.Use(cfg.AuthMiddleware.RequireRole(RoleAdmin, RoleMentor))
  staff.GET("/config", cfg.RiskConfigHandler.GetActive)
  staff.POST("/students/:id/recompute", cfg.ScoringHandler.RecomputeStudent)
  staff.POST("/students/:id/assessment", cfg.AssessmentHandler.Assess)
  staff.GET("/students/:id", cfg.StudentHandler.GetRisk)
  staff.GET("/students/:id/snapshots", cfg.StudentHandler.GetSnapshots)
  staff.GET("/trend", cfg.TrendHandler.GetTrend)

  // Admin only
  admin := api.Group("/")
  admin.Use(cfg.AuthMiddleware.RequireRole(RoleAdmin))
  admin.PUT("/config", cfg.RiskConfigHandler.Save)
  admin.GET("/config/versions/:version", cfg.RiskConfigHandler.GetVersion)
  admin.POST("/recompute", cfg.ScoringHandler.RecomputeAll)

  return router
}
