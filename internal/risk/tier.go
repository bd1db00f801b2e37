// Package risk holds the pure scoring computations: tier classification,
// weighted score calculation, mentor assessment mapping, trend aggregation
// and the degraded-mode fallback normalizer. Nothing in this package touches
// the database or the clock.
package risk

import (
	"fmt"
	"strings"

	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
)

type Tier string

const (
	TierHigh    Tier = "high"
	TierMedium  Tier = "medium"
	TierLow     Tier = "low"
	TierUnknown Tier = "unknown"
)

// Thresholds are ascending score cutoffs on the [0,1] risk scale.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.7, Medium: 0.4}
}

// Validate enforces 0 <= medium < high <= 1. The configuration store calls
// this before activating a config; Classify itself never validates.
func (t Thresholds) Validate() error {
	if t.Medium < 0 || t.High > 1 {
		return fmt.Errorf("%w: thresholds must lie within [0,1], got medium=%v high=%v", pkgerrors.ErrInvalidArgument, t.Medium, t.High)
	}
	if t.Medium >= t.High {
		return fmt.Errorf("%w: threshold medium (%v) must be below high (%v)", pkgerrors.ErrInvalidArgument, t.Medium, t.High)
	}
	return nil
}

// Classify maps a score to its tier. A nil score means the student has never
// been scored and classifies as unknown.
func Classify(score *float64, th Thresholds) Tier {
	switch {
	case score == nil:
		return TierUnknown
	case *score >= th.High:
		return TierHigh
	case *score >= th.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

func TierFromString(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierHigh):
		return TierHigh
	case string(TierMedium):
		return TierMedium
	case string(TierLow):
		return TierLow
	default:
		return TierUnknown
	}
}
