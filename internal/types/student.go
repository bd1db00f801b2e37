package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student carries the raw signals scoring consumes plus the derived risk
// state. RiskScore stays nil until the first computation; RiskTier is always
// derivable from RiskScore under the thresholds active at computation time.
type Student struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FullName             string         `gorm:"not null;column:full_name" json:"full_name"`
	Email                string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	AttendancePercent    float64        `gorm:"column:attendance_percent;not null;default:0" json:"attendance_percent"`
	CGPA                 float64        `gorm:"column:cgpa;not null;default:0" json:"cgpa"`
	AssignmentsCompleted int            `gorm:"column:assignments_completed;not null;default:0" json:"assignments_completed"`
	AssignmentsTotal     int            `gorm:"column:assignments_total;not null;default:0" json:"assignments_total"`
	MentorNotesFlag      float64        `gorm:"column:mentor_notes_flag;not null;default:0" json:"mentor_notes_flag"`
	RiskScore            *float64       `gorm:"column:risk_score" json:"risk_score"`
	RiskTier             string         `gorm:"column:risk_tier;not null;default:'unknown'" json:"risk_tier"`
	LastRiskUpdated      *time.Time     `gorm:"column:last_risk_updated" json:"last_risk_updated"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "student" }
