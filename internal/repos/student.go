package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/types"
)

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, student *types.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Student, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
	UpdateRiskState(ctx context.Context, tx *gorm.DB, id uuid.UUID, score float64, tier string, at time.Time) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{
		db:  db,
		log: baseLog.With("repo", "StudentRepo"),
	}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, student *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Student
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *studentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.Student
	err := transaction.WithContext(ctx).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentRepo) UpdateRiskState(ctx context.Context, tx *gorm.DB, id uuid.UUID, score float64, tier string, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"risk_score":        score,
			"risk_tier":         tier,
			"last_risk_updated": at,
			"updated_at":        at,
		}).Error
}
