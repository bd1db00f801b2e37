package risk

import (
	"errors"
	"reflect"
	"testing"

	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
)

func TestAssessmentInputValidate(t *testing.T) {
	valid := AssessmentInput{Fees: FeesPaid, Behavior: BehaviorFriendly, Motivation: MotivationHigh}

	cases := []struct {
		name    string
		mutate  func(in *AssessmentInput)
		wantErr bool
	}{
		{name: "minimal_valid", mutate: func(in *AssessmentInput) {}, wantErr: false},
		{name: "with_metrics", mutate: func(in *AssessmentInput) {
			in.CGPA = fptr(7.2)
			in.AttendancePercent = fptr(88)
		}, wantErr: false},
		{name: "negative_cgpa", mutate: func(in *AssessmentInput) { in.CGPA = fptr(-1) }, wantErr: true},
		{name: "cgpa_above_scale", mutate: func(in *AssessmentInput) { in.CGPA = fptr(10.5) }, wantErr: true},
		{name: "attendance_above_100", mutate: func(in *AssessmentInput) { in.AttendancePercent = fptr(101) }, wantErr: true},
		{name: "negative_attendance", mutate: func(in *AssessmentInput) { in.AttendancePercent = fptr(-5) }, wantErr: true},
		{name: "unknown_fees", mutate: func(in *AssessmentInput) { in.Fees = "overdue" }, wantErr: true},
		{name: "unknown_behavior", mutate: func(in *AssessmentInput) { in.Behavior = "quiet" }, wantErr: true},
		{name: "unknown_motivation", mutate: func(in *AssessmentInput) { in.Motivation = "none" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := in.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate err=%v, wantErr=%v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("validation error should wrap ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestParseCategories(t *testing.T) {
	if c, err := ParseFeesCategory(" Unpaid "); err != nil || c != FeesUnpaid {
		t.Fatalf("ParseFeesCategory: got %v, %v", c, err)
	}
	if _, err := ParseFeesCategory("waived"); err == nil {
		t.Fatalf("unknown fees category should fail")
	}
	if c, err := ParseBehaviorCategory("WITHDRAWN"); err != nil || c != BehaviorWithdrawn {
		t.Fatalf("ParseBehaviorCategory: got %v, %v", c, err)
	}
	if l, err := ParseMotivationLevel("medium"); err != nil || l != MotivationMedium {
		t.Fatalf("ParseMotivationLevel: got %v, %v", l, err)
	}
}

// All three sub-signals at their worst must land in the high tier on their
// own, with no quantitative data to dilute them.
func TestWorstCaseQualitativeIsHigh(t *testing.T) {
	in := AssessmentInput{Fees: FeesUnpaid, Behavior: BehaviorWithdrawn, Motivation: MotivationLow}
	qual := in.SubScores().QualitativeRisk()
	score := BlendAssessment(qual, Factors{}, DefaultWeights())
	if tier := Classify(&score, DefaultThresholds()); tier != TierHigh {
		t.Fatalf("worst-case qualitative score %v classified %v, want high", score, tier)
	}
}

func TestBlendAssessment(t *testing.T) {
	w := DefaultWeights()
	qual := 0.8

	t.Run("no_quant_signal_keeps_qualitative", func(t *testing.T) {
		if got := BlendAssessment(qual, Factors{}, w); got != qual {
			t.Fatalf("BlendAssessment=%v, want %v", got, qual)
		}
	})

	t.Run("quant_signal_blends_evenly", func(t *testing.T) {
		quant := Factors{Attendance: fptr(0.5), GPA: fptr(0.5)}
		want := 0.5*qual + 0.5*ComputeScore(quant, w)
		if got := BlendAssessment(qual, quant, w); got != want {
			t.Fatalf("BlendAssessment=%v, want %v", got, want)
		}
	})
}

func TestCounselDeterministicAndBounded(t *testing.T) {
	cc := CounselingContext{
		Sub:               AssessmentInput{Fees: FeesUnpaid, Behavior: BehaviorWithdrawn, Motivation: MotivationLow}.SubScores(),
		AttendancePercent: fptr(40),
		CGPA:              fptr(3.1),
	}

	first := Counsel(cc)
	second := Counsel(cc)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Counsel is not deterministic: %v vs %v", first, second)
	}
	if len(first) < 1 || len(first) > 4 {
		t.Fatalf("Counsel returned %d suggestions, want 1..4", len(first))
	}
}

func TestCounselFallsBackToDefault(t *testing.T) {
	cc := CounselingContext{
		Sub: AssessmentInput{Fees: FeesPaid, Behavior: BehaviorFriendly, Motivation: MotivationHigh}.SubScores(),
	}
	got := Counsel(cc)
	if len(got) != 1 {
		t.Fatalf("healthy student should get exactly the default suggestion, got %v", got)
	}
}
