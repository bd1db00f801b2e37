package app

import (
	"gorm.io/gorm"
	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/repos"
)

type Repos struct {
	Student      repos.StudentRepo
	RiskConfig   repos.RiskConfigRepo
	RiskSnapshot repos.RiskSnapshotRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Student:      repos.NewStudentRepo(db, log),
		RiskConfig:   repos.NewRiskConfigRepo(db, log),
		RiskSnapshot: repos.NewRiskSnapshotRepo(db, log),
	}
}
