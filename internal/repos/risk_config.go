package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/types"
)

type RiskConfigRepo interface {
	// GetActive returns the single active config, or nil when none exists.
	GetActive(ctx context.Context, tx *gorm.DB) (*types.RiskModelConfig, error)
	GetByVersion(ctx context.Context, tx *gorm.DB, version int) (*types.RiskModelConfig, error)
	MaxVersion(ctx context.Context, tx *gorm.DB) (int, error)
	// Deactivate flips active off on the given row only if it is still
	// active, and reports how many rows changed. Zero rows means another
	// writer already replaced it.
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	Insert(ctx context.Context, tx *gorm.DB, cfg *types.RiskModelConfig) error
}

type riskConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskConfigRepo(db *gorm.DB, baseLog *logger.Logger) RiskConfigRepo {
	return &riskConfigRepo{
		db:  db,
		log: baseLog.With("repo", "RiskConfigRepo"),
	}
}

func (r *riskConfigRepo) GetActive(ctx context.Context, tx *gorm.DB) (*types.RiskModelConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.RiskModelConfig
	err := transaction.WithContext(ctx).
		Where("active = ?", true).
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

func (r *riskConfigRepo) GetByVersion(ctx context.Context, tx *gorm.DB, version int) (*types.RiskModelConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.RiskModelConfig
	err := transaction.WithContext(ctx).
		Where("version = ?", version).
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

func (r *riskConfigRepo) MaxVersion(ctx context.Context, tx *gorm.DB) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max int64
	err := transaction.WithContext(ctx).
		Model(&types.RiskModelConfig{}).
		Select("coalesce(max(version), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max), nil
}

func (r *riskConfigRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.RiskModelConfig{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (r *riskConfigRepo) Insert(ctx context.Context, tx *gorm.DB, cfg *types.RiskModelConfig) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(cfg).Error
}
