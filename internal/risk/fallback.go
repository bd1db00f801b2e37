package risk

import "math"

// FallbackMetrics are the raw display metrics a client already has on hand
// before any backend score exists. GPA here is on the 4.0 display scale used
// by the dashboard cards, unlike the 0-10 CGPA the scoring path stores.
type FallbackMetrics struct {
	AttendancePercent           *float64
	GPA                         *float64
	AssignmentCompletionPercent *float64
}

// Indicator is what a dashboard renders: a tier plus a 0-100 display score.
// Score is nil only when nothing is known about the student.
type Indicator struct {
	Level Tier `json:"level"`
	Score *int `json:"score"`
}

// Normalize is the degraded-mode calculator: it prefers the backend score,
// falls back to a coarse heuristic over raw metrics, and only reports
// unknown when it has nothing at all. Pure function, no I/O.
func Normalize(backendScore *float64, backendTier Tier, m *FallbackMetrics) Indicator {
	if backendScore != nil {
		level := backendTier
		if level != TierHigh && level != TierMedium && level != TierLow {
			level = Classify(backendScore, DefaultThresholds())
		}
		display := int(math.Round(clamp01(*backendScore) * 100))
		return Indicator{Level: level, Score: &display}
	}
	if m != nil {
		points := heuristicPoints(m)
		level := TierLow
		switch {
		case points >= 80:
			level = TierHigh
		case points >= 40:
			level = TierMedium
		}
		return Indicator{Level: level, Score: &points}
	}
	return Indicator{Level: TierUnknown}
}

func heuristicPoints(m *FallbackMetrics) int {
	points := 0
	if m.AttendancePercent != nil {
		switch {
		case *m.AttendancePercent < 60:
			points += 40
		case *m.AttendancePercent < 75:
			points += 25
		}
	}
	if m.GPA != nil {
		switch {
		case *m.GPA < 2.0:
			points += 40
		case *m.GPA < 2.5:
			points += 25
		}
	}
	if m.AssignmentCompletionPercent != nil {
		switch {
		case *m.AssignmentCompletionPercent < 50:
			points += 30
		case *m.AssignmentCompletionPercent < 70:
			points += 15
		}
	}
	if points > 100 {
		points = 100
	}
	return points
}
