package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
	"github.com/studentpulse/retention-backend/internal/repos"
	"github.com/studentpulse/retention-backend/internal/risk"
	"github.com/studentpulse/retention-backend/internal/types"
)

// recomputeWorkers bounds the bulk-recompute fan-out.
const recomputeWorkers = 8

// StudentRisk is the dashboard read model: the stored risk state plus a
// display indicator that falls back to the raw-metric heuristic when no
// backend score exists yet.
type StudentRisk struct {
	Student   *types.Student `json:"student"`
	Indicator risk.Indicator `json:"indicator"`
}

// BulkRecomputeResult reports a RecomputeAll pass.
type BulkRecomputeResult struct {
	Recomputed int `json:"recomputed"`
	Failed     int `json:"failed"`
}

type ScoringService interface {
	// RecomputeStudent rescores one student against the active config and
	// persists the new risk state plus a history snapshot.
	RecomputeStudent(ctx context.Context, studentID uuid.UUID) (*types.Student, error)
	// RecomputeAll rescores every student. The active config is read once
	// before fanning out so the whole pass scores under one model version.
	RecomputeAll(ctx context.Context) (*BulkRecomputeResult, error)
	GetStudentRisk(ctx context.Context, studentID uuid.UUID) (*StudentRisk, error)
}

type scoringService struct {
	db           *gorm.DB
	log          *logger.Logger
	studentRepo  repos.StudentRepo
	snapshotRepo repos.RiskSnapshotRepo
	configSvc    RiskConfigService
}

func NewScoringService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studentRepo repos.StudentRepo,
	snapshotRepo repos.RiskSnapshotRepo,
	configSvc RiskConfigService,
) ScoringService {
	return &scoringService{
		db:           db,
		log:          baseLog.With("service", "ScoringService"),
		studentRepo:  studentRepo,
		snapshotRepo: snapshotRepo,
		configSvc:    configSvc,
	}
}

func (s *scoringService) RecomputeStudent(ctx context.Context, studentID uuid.UUID) (*types.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", pkgerrors.ErrNotFound, studentID)
	}
	model, err := s.configSvc.ActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeWithModel(ctx, student, model); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *scoringService) RecomputeAll(ctx context.Context) (*BulkRecomputeResult, error) {
	students, err := s.studentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	model, err := s.configSvc.ActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	failures := make([]bool, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeWorkers)
	for i, student := range students {
		g.Go(func() error {
			if err := s.recomputeWithModel(gctx, student, model); err != nil {
				s.log.Error("Bulk recompute failed for student", "student_id", student.ID, "error", err)
				failures[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BulkRecomputeResult{}
	for _, failed := range failures {
		if failed {
			result.Failed++
		} else {
			result.Recomputed++
		}
	}
	s.log.Info("Bulk recompute finished", "recomputed", result.Recomputed, "failed", result.Failed, "config_version", model.Version)
	return result, nil
}

func (s *scoringService) GetStudentRisk(ctx context.Context, studentID uuid.UUID) (*StudentRisk, error) {
	student, err := s.studentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", pkgerrors.ErrNotFound, studentID)
	}
	return &StudentRisk{
		Student:   student,
		Indicator: risk.Normalize(student.RiskScore, risk.TierFromString(student.RiskTier), fallbackMetrics(student)),
	}, nil
}

// recomputeWithModel scores one student under an already-resolved model and
// persists state plus snapshot in one transaction.
func (s *scoringService) recomputeWithModel(ctx context.Context, student *types.Student, model *ActiveModel) error {
	factors := studentFactors(student)
	score := risk.ComputeScore(factors, model.Weights)
	tier := risk.Classify(&score, model.Thresholds)
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
			Source:          types.SnapshotSourceModel,
			CapturedAt:      now,
		})
	})
	if err != nil {
		return fmt.Errorf("persist risk state: %w", err)
	}

	student.RiskScore = &score
	student.RiskTier = string(tier)
	student.LastRiskUpdated = &now
	return nil
}

// studentFactors normalizes the stored raw signals to [0,1]. Zero-valued raw
// metrics mean "not recorded yet" in the source data and map to a missing
// factor, which contributes no risk signal.
func studentFactors(student *types.Student) risk.Factors {
	var f risk.Factors
	if student.AttendancePercent > 0 {
		v := clampRatio(student.AttendancePercent / 100)
		f.Attendance = &v
	}
	if student.CGPA > 0 {
		v := clampRatio(student.CGPA / 10)
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

// fallbackMetrics converts stored raw signals to the display scales the
// degraded-mode heuristic expects (4.0 GPA, completion percent).
func fallbackMetrics(student *types.Student) *risk.FallbackMetrics {
	m := &risk.FallbackMetrics{}
	known := false
	if student.AttendancePercent > 0 {
		v := student.AttendancePercent
		m.AttendancePercent = &v
		known = true
	}
	if student.CGPA > 0 {
		v := student.CGPA / 10 * 4
		m.GPA = &v
		known = true
	}
	if student.AssignmentsTotal > 0 {
		v := float64(student.AssignmentsCompleted) / float64(student.AssignmentsTotal) * 100
		m.AssignmentCompletionPercent = &v
		known = true
	}
	if !known {
		return nil
	}
	return m
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
