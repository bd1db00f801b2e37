package app

import (
	"strings"

	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	Port            string
	AllowOrigins    []string
	Environment     string
	Version         string
	TrendWindowDays int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	trendWindowDays := utils.GetEnvAsInt("TREND_DEFAULT_WINDOW_DAYS", 30, log)

	var origins []string
	raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		Port:            port,
		AllowOrigins:    origins,
		Environment:     environment,
		Version:         version,
		TrendWindowDays: trendWindowDays,
	}
}
