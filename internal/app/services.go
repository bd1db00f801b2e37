package app

import (
	"gorm.io/gorm"

	redisclient "github.com/studentpulse/retention-backend/internal/clients/redis"
	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/services"
)

type Services struct {
	RiskConfig services.RiskConfigService
	Scoring    services.ScoringService
	Assessment services.AssessmentService
	Trend      services.TrendService

	// TrendCache is retained so Close can release the redis connection;
	// nil when caching is disabled.
	TrendCache redisclient.TrendCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// Trend caching is optional: without REDIS_ADDR the service computes
	// every request from the snapshot history.
	var trendCache redisclient.TrendCache
	if cache, err := redisclient.NewTrendCache(log); err != nil {
		log.Warn("trend cache disabled", "error", err)
	} else {
		trendCache = cache
	}

	riskConfig := services.NewRiskConfigService(db, log, reposet.RiskConfig)
	scoring := services.NewScoringService(db, log, reposet.Student, reposet.RiskSnapshot, riskConfig)
	assessment := services.NewAssessmentService(db, log, reposet.Student, reposet.RiskSnapshot, riskConfig)
	trend := services.NewTrendService(db, log, reposet.RiskSnapshot, reposet.Student, trendCache)

	return Services{
		RiskConfig: riskConfig,
		Scoring:    scoring,
		Assessment: assessment,
		Trend:      trend,
		TrendCache: trendCache,
	}
}
