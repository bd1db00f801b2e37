package risk

import "testing"

func TestNormalizeWithBackendScore(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		tier      Tier
		wantLevel Tier
		wantScore int
	}{
		{name: "backend_tier_trusted", score: 0.2, tier: TierMedium, wantLevel: TierMedium, wantScore: 20},
		{name: "unknown_tier_rederived", score: 0.85, tier: TierUnknown, wantLevel: TierHigh, wantScore: 85},
		{name: "empty_tier_rederived", score: 0.3, tier: "", wantLevel: TierLow, wantScore: 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(fptr(tc.score), tc.tier, nil)
			if got.Level != tc.wantLevel {
				t.Fatalf("level=%v, want %v", got.Level, tc.wantLevel)
			}
			if got.Score == nil || *got.Score != tc.wantScore {
				t.Fatalf("score=%v, want %d", got.Score, tc.wantScore)
			}
		})
	}
}

func TestNormalizeHeuristic(t *testing.T) {
	cases := []struct {
		name      string
		metrics   FallbackMetrics
		wantLevel Tier
		wantScore int
	}{
		{
			name:      "everything_bad_caps_at_100",
			metrics:   FallbackMetrics{AttendancePercent: fptr(40), GPA: fptr(1.5), AssignmentCompletionPercent: fptr(30)},
			wantLevel: TierHigh,
			wantScore: 100,
		},
		{
			name:      "borderline_medium",
			metrics:   FallbackMetrics{AttendancePercent: fptr(70), GPA: fptr(2.3)},
			wantLevel: TierMedium,
			wantScore: 50,
		},
		{
			name:      "healthy_student_low",
			metrics:   FallbackMetrics{AttendancePercent: fptr(95), GPA: fptr(3.6), AssignmentCompletionPercent: fptr(90)},
			wantLevel: TierLow,
			wantScore: 0,
		},
		{
			name:      "assignments_only",
			metrics:   FallbackMetrics{AssignmentCompletionPercent: fptr(65)},
			wantLevel: TierLow,
			wantScore: 15,
		},
		{
			name:      "high_boundary",
			metrics:   FallbackMetrics{AttendancePercent: fptr(50), GPA: fptr(1.0)},
			wantLevel: TierHigh,
			wantScore: 80,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(nil, TierUnknown, &tc.metrics)
			if got.Level != tc.wantLevel {
				t.Fatalf("level=%v, want %v", got.Level, tc.wantLevel)
			}
			if got.Score == nil || *got.Score != tc.wantScore {
				t.Fatalf("score=%v, want %d", got.Score, tc.wantScore)
			}
		})
	}
}

func TestNormalizeNothingKnown(t *testing.T) {
	got := Normalize(nil, "", nil)
	if got.Level != TierUnknown {
		t.Fatalf("level=%v, want unknown", got.Level)
	}
	if got.Score != nil {
		t.Fatalf("score=%v, want nil", got.Score)
	}
}
