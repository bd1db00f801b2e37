package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
	"github.com/studentpulse/retention-backend/internal/repos"
	"github.com/studentpulse/retention-backend/internal/risk"
	"github.com/studentpulse/retention-backend/internal/types"
)

// AssessmentResult is what the mentor UI receives back.
type AssessmentResult struct {
	Score      float64   `json:"score"`
	Tier       risk.Tier `json:"tier"`
	Counseling []string  `json:"counseling"`
}

type AssessmentService interface {
	// Assess runs the mentor-driven scoring path: validates the input,
	// blends the qualitative sub-scores with whatever quantitative signals
	// are supplied or retained, persists the new risk state plus a
	// snapshot, and returns counseling suggestions. Nothing is mutated on
	// validation failure.
	Assess(ctx context.Context, studentID uuid.UUID, input risk.AssessmentInput) (*AssessmentResult, error)
}

type assessmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	studentRepo  repos.StudentRepo
	snapshotRepo repos.RiskSnapshotRepo
	configSvc    RiskConfigService
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studentRepo repos.StudentRepo,
	snapshotRepo repos.RiskSnapshotRepo,
	configSvc RiskConfigService,
) AssessmentService {
	return &assessmentService{
		db:           db,
		log:          baseLog.With("service", "AssessmentService"),
		studentRepo:  studentRepo,
		snapshotRepo: snapshotRepo,
		configSvc:    configSvc,
	}
}

func (s *assessmentService) Assess(ctx context.Context, studentID uuid.UUID, input risk.AssessmentInput) (*AssessmentResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", pkgerrors.ErrNotFound, studentID)
	}

	// Config is read once here; the whole assessment scores under it even
	// if an administrator saves a new version mid-call.
	model, err := s.configSvc.ActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	attendance, cgpa := s.effectiveMetrics(student, input)
	quant := assessmentFactors(student, attendance, cgpa)

	sub := input.SubScores()
	score := risk.BlendAssessment(sub.QualitativeRisk(), quant, model.Weights)
	tier := risk.Classify(&score, model.Thresholds)
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := s.studentRepo.UpdateRiskState(ctx, tx, student.ID, score, string(tier), now); txErr != nil {
			return txErr
		}
		return s.snapshotRepo.Append(ctx, tx, &types.RiskSnapshot{
			StudentID:       student.ID,
			Score:           score,
			Tier:            string(tier),
			ConfigVersion:   model.Version,
			ThresholdHigh:   model.Thresholds.High,
			ThresholdMedium: model.Thresholds.Medium,
			Source:          types.SnapshotSourceAssessment,
			CapturedAt:      now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("persist assessment: %w", err)
	}

	counseling := risk.Counsel(risk.CounselingContext{
		Sub:               sub,
		AttendancePercent: attendance,
		CGPA:              cgpa,
	})

	s.log.Info("Mentor assessment recorded",
		"student_id", student.ID,
		"tier", tier,
		"config_version", model.Version,
		"suggestions", len(counseling),
	)
	return &AssessmentResult{Score: score, Tier: tier, Counseling: counseling}, nil
}

// effectiveMetrics prefers mentor-supplied values and falls back to the
// student's last known ones. Zero stored values mean not recorded.
func (s *assessmentService) effectiveMetrics(student *types.Student, input risk.AssessmentInput) (attendance, cgpa *float64) {
	attendance = input.AttendancePercent
	if attendance == nil && student.AttendancePercent > 0 {
		v := student.AttendancePercent
		attendance = &v
	}
	cgpa = input.CGPA
	if cgpa == nil && student.CGPA > 0 {
		v := student.CGPA
		cgpa = &v
	}
	return attendance, cgpa
}

// assessmentFactors builds the quantitative side of the blend from the
// resolved metrics plus the student's stored assignment and notes signals.
func assessmentFactors(student *types.Student, attendance, cgpa *float64) risk.Factors {
	var f risk.Factors
	if attendance != nil {
		v := clampRatio(*attendance / 100)
		f.Attendance = &v
	}
	if cgpa != nil {
		v := clampRatio(*cgpa / 10)
		f.GPA = &v
	}
	if student.AssignmentsTotal > 0 {
		v := clampRatio(float64(student.AssignmentsCompleted) / float64(student.AssignmentsTotal))
		f.Assignments = &v
	}
	if student.MentorNotesFlag > 0 {
		v := clampRatio(student.MentorNotesFlag)
		f.Notes = &v
	}
	return f
}
