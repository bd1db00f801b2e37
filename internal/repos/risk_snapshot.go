package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/types"
)

// RiskSnapshotRepo is append-only: snapshots are never updated or deleted,
// they form the trend history.
type RiskSnapshotRepo interface {
	Append(ctx context.Context, tx *gorm.DB, snap *types.RiskSnapshot) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.RiskSnapshot, error)
	// ListAll returns every snapshot ordered by capture time. Trend
	// aggregation needs pre-window points for carry-forward, and the stated
	// scale (hundreds of students) makes the full scan acceptable.
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.RiskSnapshot, error)
}

type riskSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) RiskSnapshotRepo {
	return &riskSnapshotRepo{
		db:  db,
		log: baseLog.With("repo", "RiskSnapshotRepo"),
	}
}

func (r *riskSnapshotRepo) Append(ctx context.Context, tx *gorm.DB, snap *types.RiskSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(snap).Error
}

func (r *riskSnapshotRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.RiskSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.RiskSnapshot
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("captured_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *riskSnapshotRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.RiskSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.RiskSnapshot
	err := transaction.WithContext(ctx).
		Order("captured_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
