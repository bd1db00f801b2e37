package app

import (
	"github.com/studentpulse/retention-backend/internal/handlers"
	"github.com/studentpulse/retention-backend/internal/logger"
)

type Handlers struct {
	RiskConfig *handlers.RiskConfigHandler
	Scoring    *handlers.ScoringHandler
	Assessment *handlers.AssessmentHandler
	Student    *handlers.StudentHandler
	Trend      *handlers.TrendHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		RiskConfig: handlers.NewRiskConfigHandler(services.RiskConfig),
		Scoring:    handlers.NewScoringHandler(services.Scoring),
		Assessment: handlers.NewAssessmentHandler(services.Assessment),
		Student:    handlers.NewStudentHandler(services.Scoring, services.Trend),
		Trend:      handlers.NewTrendHandler(services.Trend, cfg.TrendWindowDays),
	}
}
