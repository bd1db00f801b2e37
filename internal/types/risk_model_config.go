package types

import (
	"encoding/json"
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RiskModelConfig is one version of the weight/threshold model. Rows are
// append-only: saving a new config inserts version = previous + 1 and flips
// Active on exactly one row. Historical versions are never mutated.
type RiskModelConfig struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Version         int               `gorm:"column:version;uniqueIndex;not null" json:"version"`
	Weights         datatypes.JSONMap `gorm:"type:jsonb;column:weights;not null" json:"weights"`
	ThresholdHigh   float64           `gorm:"column:threshold_high;not null" json:"threshold_high"`
	ThresholdMedium float64           `gorm:"column:threshold_medium;not null" json:"threshold_medium"`
	Active          bool              `gorm:"column:active;not null;default:false;index" json:"active"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (RiskModelConfig) TableName() string { return "risk_model_config" }

// WeightMap unpacks the JSONB column into a plain float map. Values are
// float64 when the struct was built in memory but json.Number after a
// database read, so both are handled.
func (c *RiskModelConfig) WeightMap() map[string]float64 {
	out := make(map[string]float64, len(c.Weights))
	for k, v := range c.Weights {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case json.Number:
			if f, err := n.Float64(); err == nil {
				out[k] = f
			}
		}
	}
	return out
}
