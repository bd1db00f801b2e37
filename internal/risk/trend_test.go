package risk

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return ts
}

// A student with snapshots only on day 1 and day 5 must still be counted on
// every later day of the window via carry-forward.
func TestTrendSeriesCarryForward(t *testing.T) {
	student := uuid.New()
	now := day(t, "2026-03-07T12:00:00Z")
	snaps := []SnapshotPoint{
		{StudentID: student, Score: 0.8, Tier: TierHigh, CapturedAt: day(t, "2026-03-01T09:00:00Z")},
		{StudentID: student, Score: 0.3, Tier: TierLow, CapturedAt: day(t, "2026-03-05T09:00:00Z")},
	}

	series := TrendSeries(snaps, 7, now)
	if len(series) != 7 {
		t.Fatalf("got %d points, want 7", len(series))
	}

	for i, point := range series {
		dayNum := i + 1 // window covers March 1..7
		wantHigh, wantLow := 0, 1
		if dayNum < 5 {
			wantHigh, wantLow = 1, 0
		}
		if point.HighCount != wantHigh || point.LowCount != wantLow || point.MediumCount != 0 {
			t.Fatalf("day %d: counts high=%d med=%d low=%d, want high=%d low=%d",
				dayNum, point.HighCount, point.MediumCount, point.LowCount, wantHigh, wantLow)
		}
		if point.AvgScore == nil {
			t.Fatalf("day %d: avg score missing", dayNum)
		}
	}

	if *series[0].AvgScore != 0.8 {
		t.Fatalf("day 1 avg=%v, want 0.8", *series[0].AvgScore)
	}
	if *series[6].AvgScore != 0.3 {
		t.Fatalf("day 7 avg=%v, want 0.3", *series[6].AvgScore)
	}
}

func TestTrendSeriesEmptyDaysHaveNilAverage(t *testing.T) {
	student := uuid.New()
	now := day(t, "2026-03-07T00:30:00Z")
	snaps := []SnapshotPoint{
		{StudentID: student, Score: 0.5, Tier: TierMedium, CapturedAt: day(t, "2026-03-04T10:00:00Z")},
	}

	series := TrendSeries(snaps, 7, now)
	for i := 0; i < 3; i++ {
		if series[i].AvgScore != nil {
			t.Fatalf("day %d before first snapshot: avg=%v, want nil", i+1, *series[i].AvgScore)
		}
		if series[i].HighCount+series[i].MediumCount+series[i].LowCount != 0 {
			t.Fatalf("day %d before first snapshot has tier counts", i+1)
		}
	}
	for i := 3; i < 7; i++ {
		if series[i].MediumCount != 1 {
			t.Fatalf("day %d: medium=%d, want 1", i+1, series[i].MediumCount)
		}
	}
}

func TestTrendSeriesAveragesAcrossStudents(t *testing.T) {
	now := day(t, "2026-03-02T23:00:00Z")
	snaps := []SnapshotPoint{
		{StudentID: uuid.New(), Score: 0.9, Tier: TierHigh, CapturedAt: day(t, "2026-03-01T08:00:00Z")},
		{StudentID: uuid.New(), Score: 0.1, Tier: TierLow, CapturedAt: day(t, "2026-03-01T16:00:00Z")},
	}

	series := TrendSeries(snaps, 2, now)
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2", len(series))
	}
	last := series[1]
	if last.HighCount != 1 || last.LowCount != 1 {
		t.Fatalf("counts high=%d low=%d, want 1/1", last.HighCount, last.LowCount)
	}
	if last.AvgScore == nil || *last.AvgScore != 0.5 {
		t.Fatalf("avg=%v, want 0.5", last.AvgScore)
	}
}

// The recorded tier is used as-is: a snapshot classified under old
// thresholds keeps its historical tier even if current thresholds differ.
func TestTrendSeriesUsesRecordedTier(t *testing.T) {
	student := uuid.New()
	now := day(t, "2026-03-01T20:00:00Z")
	// 0.5 would be medium under the defaults, but the snapshot was captured
	// when high was 0.45.
	snaps := []SnapshotPoint{
		{StudentID: student, Score: 0.5, Tier: TierHigh, CapturedAt: day(t, "2026-03-01T08:00:00Z")},
	}

	series := TrendSeries(snaps, 1, now)
	if series[0].HighCount != 1 || series[0].MediumCount != 0 {
		t.Fatalf("counts high=%d med=%d, want the recorded high tier", series[0].HighCount, series[0].MediumCount)
	}
}

func TestTrendSeriesDeterministic(t *testing.T) {
	now := day(t, "2026-03-07T12:00:00Z")
	snaps := []SnapshotPoint{
		{StudentID: uuid.New(), Score: 0.6, Tier: TierMedium, CapturedAt: day(t, "2026-03-02T08:00:00Z")},
		{StudentID: uuid.New(), Score: 0.2, Tier: TierLow, CapturedAt: day(t, "2026-03-03T08:00:00Z")},
	}

	first := TrendSeries(snaps, 7, now)
	second := TrendSeries(snaps, 7, now)
	for i := range first {
		if first[i].HighCount != second[i].HighCount ||
			first[i].MediumCount != second[i].MediumCount ||
			first[i].LowCount != second[i].LowCount {
			t.Fatalf("run mismatch at point %d", i)
		}
	}
}
