package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/studentpulse/retention-backend/internal/clients/redis"
	"github.com/studentpulse/retention-backend/internal/logger"
	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
	"github.com/studentpulse/retention-backend/internal/repos"
	"github.com/studentpulse/retention-backend/internal/risk"
	"github.com/studentpulse/retention-backend/internal/types"
)

const (
	maxTrendWindowDays = 365
	trendCacheTTL      = 5 * time.Minute
)

type TrendService interface {
	// Trend returns one aggregate point per calendar day over the window,
	// oldest first.
	Trend(ctx context.Context, windowDays int) ([]risk.TrendPoint, error)
	// StudentHistory returns the raw snapshot series behind a student's
	// trend chart, oldest first.
	StudentHistory(ctx context.Context, studentID uuid.UUID) ([]*types.RiskSnapshot, error)
}

type trendService struct {
	db           *gorm.DB
	log          *logger.Logger
	snapshotRepo repos.RiskSnapshotRepo
	studentRepo  repos.StudentRepo
	cache        redisclient.TrendCache
}

// NewTrendService accepts a nil cache; the service then always computes
// directly from the snapshot history.
func NewTrendService(
	db *gorm.DB,
	baseLog *logger.Logger,
	snapshotRepo repos.RiskSnapshotRepo,
	studentRepo repos.StudentRepo,
	cache redisclient.TrendCache,
) TrendService {
	return &trendService{
		db:           db,
		log:          baseLog.With("service", "TrendService"),
		snapshotRepo: snapshotRepo,
		studentRepo:  studentRepo,
		cache:        cache,
	}
}

func (s *trendService) Trend(ctx context.Context, windowDays int) ([]risk.TrendPoint, error) {
	if windowDays < 1 || windowDays > maxTrendWindowDays {
		return nil, fmt.Errorf("%w: window days must lie within [1,%d], got %d", pkgerrors.ErrInvalidArgument, maxTrendWindowDays, windowDays)
	}

	now := time.Now().UTC()
	cacheKey := fmt.Sprintf("risk:trend:%d:%s", windowDays, now.Format("2006-01-02"))
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	snapshots, err := s.snapshotRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load snapshot history: %w", err)
	}
	points := make([]risk.SnapshotPoint, 0, len(snapshots))
	for _, snap := range snapshots {
		points = append(points, risk.SnapshotPoint{
			StudentID:  snap.StudentID,
			Score:      snap.Score,
			Tier:       risk.TierFromString(snap.Tier),
			CapturedAt: snap.CapturedAt,
		})
	}

	series := risk.TrendSeries(points, windowDays, now)
	s.cacheSet(ctx, cacheKey, series)
	return series, nil
}

func (s *trendService) StudentHistory(ctx context.Context, studentID uuid.UUID) ([]*types.RiskSnapshot, error) {
	student, err := s.studentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", pkgerrors.ErrNotFound, studentID)
	}
	return s.snapshotRepo.ListByStudent(ctx, nil, studentID)
}

// Cache failures never fail the request; the series is just recomputed.
func (s *trendService) cacheGet(ctx context.Context, key string) []risk.TrendPoint {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Trend cache read failed", "key", key, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var series []risk.TrendPoint
	if err := json.Unmarshal(raw, &series); err != nil {
		s.log.Warn("Trend cache entry unreadable", "key", key, "error", err)
		return nil
	}
	return series
}

func (s *trendService) cacheSet(ctx context.Context, key string, series []risk.TrendPoint) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(series)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, trendCacheTTL); err != nil {
		s.log.Warn("Trend cache write failed", "key", key, "error", err)
	}
}
