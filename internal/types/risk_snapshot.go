package types

import (
	"time"
	"github.com/google/uuid"
)

const (
	SnapshotSourceModel      = "model"
	SnapshotSourceAssessment = "assessment"
)

// RiskSnapshot is one append-only point in a student's risk history. The
// thresholds in effect at capture are recorded alongside the tier so trend
// aggregation stays historically accurate after the model changes.
type RiskSnapshot struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student         *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Score           float64   `gorm:"column:score;not null" json:"score"`
	Tier            string    `gorm:"column:tier;not null" json:"tier"`
	ConfigVersion   int       `gorm:"column:config_version;not null" json:"config_version"`
	ThresholdHigh   float64   `gorm:"column:threshold_high;not null" json:"threshold_high"`
	ThresholdMedium float64   `gorm:"column:threshold_medium;not null" json:"threshold_medium"`
	Source          string    `gorm:"column:source;not null" json:"source"`
	CapturedAt      time.Time `gorm:"column:captured_at;not null;index" json:"captured_at"`
}

func (RiskSnapshot) TableName() string { return "risk_snapshot" }
