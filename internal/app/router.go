package app

import (
	"github.com/gin-gonic/gin"
	"github.com/studentpulse/retention-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:    middleware.Auth,
		RiskConfigHandler: handlers.RiskConfig,
		ScoringHandler:    handlers.Scoring,
		AssessmentHandler: handlers.Assessment,
		StudentHandler:    handlers.Student,
		TrendHandler:      handlers.Trend,
		AllowOrigins:      cfg.AllowOrigins,
	})
}
