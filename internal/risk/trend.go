package risk

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SnapshotPoint is the slice of a stored snapshot the trend computation
// needs. Tier is the tier recorded at capture time, classified under the
// thresholds then in effect, so historical points stay accurate after the
// model changes.
type SnapshotPoint struct {
	StudentID  uuid.UUID
	Score      float64
	Tier       Tier
	CapturedAt time.Time
}

// TrendPoint is one calendar day of the aggregate series.
type TrendPoint struct {
	Date        time.Time `json:"date"`
	AvgScore    *float64  `json:"avg_score"`
	HighCount   int       `json:"high_count"`
	MediumCount int       `json:"medium_count"`
	LowCount    int       `json:"low_count"`
}

// TrendSeries computes one point per calendar UTC day over the window ending
// at now, oldest first. For each day every student is represented by their
// latest snapshot on or before that day (last known value carried forward);
// students with no snapshot yet are absent. AvgScore is nil on days where no
// student has any snapshot. Deterministic: no clock reads, no randomness.
func TrendSeries(snapshots []SnapshotPoint, windowDays int, now time.Time) []TrendPoint {
	if windowDays <= 0 {
		return nil
	}

	perStudent := make(map[uuid.UUID][]SnapshotPoint)
	for _, s := range snapshots {
		perStudent[s.StudentID] = append(perStudent[s.StudentID], s)
	}
	for id := range perStudent {
		series := perStudent[id]
		sort.Slice(series, func(i, j int) bool {
			return series[i].CapturedAt.Before(series[j].CapturedAt)
		})
		perStudent[id] = series
	}

	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(windowDays - 1))

	out := make([]TrendPoint, 0, windowDays)
	for d := 0; d < windowDays; d++ {
		day := start.AddDate(0, 0, d)
		dayEnd := day.AddDate(0, 0, 1)

		point := TrendPoint{Date: day}
		sum := 0.0
		counted := 0
		for _, series := range perStudent {
			latest, ok := latestBefore(series, dayEnd)
			if !ok {
				continue
			}
			counted++
			sum += latest.Score
			switch latest.Tier {
			case TierHigh:
				point.HighCount++
			case TierMedium:
				point.MediumCount++
			case TierLow:
				point.LowCount++
			}
		}
		if counted > 0 {
			avg := sum / float64(counted)
			point.AvgScore = &avg
		}
		out = append(out, point)
	}
	return out
}

// latestBefore returns the last snapshot captured strictly before cutoff.
// series must be sorted ascending by CapturedAt.
func latestBefore(series []SnapshotPoint, cutoff time.Time) (SnapshotPoint, bool) {
	idx := sort.Search(len(series), func(i int) bool {
		return !series[i].CapturedAt.Before(cutoff)
	})
	if idx == 0 {
		return SnapshotPoint{}, false
	}
	return series[idx-1], true
}
