package risk

import (
	"fmt"
	"strings"

	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
)

type FeesCategory string

const (
	FeesPaid   FeesCategory = "paid"
	FeesUnpaid FeesCategory = "unpaid"
)

type BehaviorCategory string

const (
	BehaviorFriendly   BehaviorCategory = "friendly"
	BehaviorIntrovert  BehaviorCategory = "introvert"
	BehaviorExtrovert  BehaviorCategory = "extrovert"
	BehaviorAggressive BehaviorCategory = "aggressive"
	BehaviorWithdrawn  BehaviorCategory = "withdrawn"
	BehaviorOther      BehaviorCategory = "other"
)

type MotivationLevel string

const (
	MotivationLow    MotivationLevel = "low"
	MotivationMedium MotivationLevel = "medium"
	MotivationHigh   MotivationLevel = "high"
)

// Sub-score tables on a 0-10 risk scale (higher = riskier). These are the
// single owned mapping tables for the assessment path; no other layer
// duplicates them.
var feesSubScore = map[FeesCategory]float64{
	FeesPaid:   1,
	FeesUnpaid: 8,
}

var behaviorSubScore = map[BehaviorCategory]float64{
	BehaviorFriendly:   2,
	BehaviorExtrovert:  3,
	BehaviorIntrovert:  5,
	BehaviorOther:      5,
	BehaviorAggressive: 8,
	BehaviorWithdrawn:  9,
}

var motivationSubScore = map[MotivationLevel]float64{
	MotivationHigh:   1,
	MotivationMedium: 5,
	MotivationLow:    9,
}

func ParseFeesCategory(s string) (FeesCategory, error) {
	c := FeesCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := feesSubScore[c]; !ok {
		return "", fmt.Errorf("%w: unknown fees category %q", pkgerrors.ErrInvalidArgument, s)
	}
	return c, nil
}

func ParseBehaviorCategory(s string) (BehaviorCategory, error) {
	c := BehaviorCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := behaviorSubScore[c]; !ok {
		return "", fmt.Errorf("%w: unknown behavior category %q", pkgerrors.ErrInvalidArgument, s)
	}
	return c, nil
}

func ParseMotivationLevel(s string) (MotivationLevel, error) {
	l := MotivationLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := motivationSubScore[l]; !ok {
		return "", fmt.Errorf("%w: unknown motivation level %q", pkgerrors.ErrInvalidArgument, s)
	}
	return l, nil
}

// AssessmentInput is the mentor-supplied evaluation. It is consumed once and
// never persisted; only the resulting risk state and snapshot survive.
type AssessmentInput struct {
	CGPA              *float64
	AttendancePercent *float64
	Fees              FeesCategory
	Behavior          BehaviorCategory
	Motivation        MotivationLevel
}

// Validate checks ranges before any state is touched. CGPA is on the 0-10
// scale; attendance is a percentage.
func (in AssessmentInput) Validate() error {
	if in.CGPA != nil && (*in.CGPA < 0 || *in.CGPA > 10) {
		return fmt.Errorf("%w: cgpa must lie within [0,10], got %v", pkgerrors.ErrInvalidArgument, *in.CGPA)
	}
	if in.AttendancePercent != nil && (*in.AttendancePercent < 0 || *in.AttendancePercent > 100) {
		return fmt.Errorf("%w: attendance percent must lie within [0,100], got %v", pkgerrors.ErrInvalidArgument, *in.AttendancePercent)
	}
	if _, ok := feesSubScore[in.Fees]; !ok {
		return fmt.Errorf("%w: unknown fees category %q", pkgerrors.ErrInvalidArgument, in.Fees)
	}
	if _, ok := behaviorSubScore[in.Behavior]; !ok {
		return fmt.Errorf("%w: unknown behavior category %q", pkgerrors.ErrInvalidArgument, in.Behavior)
	}
	if _, ok := motivationSubScore[in.Motivation]; !ok {
		return fmt.Errorf("%w: unknown motivation level %q", pkgerrors.ErrInvalidArgument, in.Motivation)
	}
	return nil
}

// SubScores are the mapped qualitative signals on the 0-10 scale.
type SubScores struct {
	Fees       float64
	Behavior   float64
	Motivation float64
}

func (in AssessmentInput) SubScores() SubScores {
	return SubScores{
		Fees:       feesSubScore[in.Fees],
		Behavior:   behaviorSubScore[in.Behavior],
		Motivation: motivationSubScore[in.Motivation],
	}
}

// QualitativeRisk collapses the sub-scores to the [0,1] risk scale.
func (s SubScores) QualitativeRisk() float64 {
	return clamp01((s.Fees + s.Behavior + s.Motivation) / 30)
}

// BlendAssessment combines the qualitative risk with the weighted-calculator
// score over whatever quantitative factors are available. When no
// quantitative signal exists for the student the qualitative risk stands
// alone rather than being diluted by an empty score.
func BlendAssessment(qualitative float64, quant Factors, w Weights) float64 {
	if !quant.HasAny() {
		return clamp01(qualitative)
	}
	return clamp01(0.5*qualitative + 0.5*ComputeScore(quant, w))
}
