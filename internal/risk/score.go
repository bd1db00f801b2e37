package risk

import (
	"fmt"
	"math"

	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
)

// Canonical factor names used as weight keys.
const (
	FactorAttendance  = "attendance"
	FactorGPA         = "gpa"
	FactorAssignments = "assignments"
	FactorNotes       = "notes"
)

type Weights map[string]float64

func DefaultWeights() Weights {
	return Weights{
		FactorAttendance:  0.3,
		FactorGPA:         0.4,
		FactorAssignments: 0.2,
		FactorNotes:       0.1,
	}
}

func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate rejects negative weights. The sum is deliberately not enforced:
// scores are clamped after summation, so non-normalized weights stay
// mathematically tolerable and the UI only gets an advisory warning.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: at least one weight is required", pkgerrors.ErrInvalidArgument)
	}
	for name, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: weight %q must be non-negative, got %v", pkgerrors.ErrInvalidArgument, name, v)
		}
	}
	return nil
}

// Factors are the normalized per-student signals, each in [0,1]. Attendance,
// GPA and assignments are goodness signals (higher = better standing) and get
// inverted into risk contributions; Notes is already a risk signal. A nil
// factor carries no risk signal and contributes 0, it is never an error.
type Factors struct {
	Attendance  *float64
	GPA         *float64
	Assignments *float64
	Notes       *float64
}

// ComputeScore combines the factors under the given weights and clamps the
// result to [0,1].
func ComputeScore(f Factors, w Weights) float64 {
	score := 0.0
	if f.Attendance != nil {
		score += w[FactorAttendance] * (1 - *f.Attendance)
	}
	if f.GPA != nil {
		score += w[FactorGPA] * (1 - *f.GPA)
	}
	if f.Assignments != nil {
		score += w[FactorAssignments] * (1 - *f.Assignments)
	}
	if f.Notes != nil {
		score += w[FactorNotes] * *f.Notes
	}
	return clamp01(score)
}

// HasAny reports whether at least one factor carries a signal.
func (f Factors) HasAny() bool {
	return f.Attendance != nil || f.GPA != nil || f.Assignments != nil || f.Notes != nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
