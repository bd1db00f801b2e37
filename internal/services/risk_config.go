package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studentpulse/retention-backend/internal/logger"
	pkgerrors "github.com/studentpulse/retention-backend/internal/pkg/errors"
	"github.com/studentpulse/retention-backend/internal/repos"
	"github.com/studentpulse/retention-backend/internal/risk"
	"github.com/studentpulse/retention-backend/internal/types"
)

// weightSumTolerance bounds how far the weight sum may drift from 1.0 before
// the save response carries an advisory warning. The sum is never enforced.
const weightSumTolerance = 0.01

// SaveConfigResult is what an administrator save returns: the newly active
// config plus the advisory weight-sum flag.
type SaveConfigResult struct {
	Config           *types.RiskModelConfig `json:"config"`
	WeightSumWarning bool                   `json:"weight_sum_warning"`
}

// ActiveModel is a consistent snapshot of the active configuration, read
// once at the start of a scoring call and used for its whole duration.
type ActiveModel struct {
	Version    int
	Weights    risk.Weights
	Thresholds risk.Thresholds
}

type RiskConfigService interface {
	// GetActive returns the active config, creating the default version 1
	// when the store is empty. Idempotent.
	GetActive(ctx context.Context) (*types.RiskModelConfig, error)
	// Save validates and activates a new config version atomically. A lost
	// race against a concurrent save surfaces as ErrConflict with no
	// partial version bump.
	Save(ctx context.Context, weights risk.Weights, thresholds risk.Thresholds) (*SaveConfigResult, error)
	GetVersion(ctx context.Context, version int) (*types.RiskModelConfig, error)
	// ActiveSnapshot resolves the active config into the plain weight and
	// threshold values the scorers consume.
	ActiveSnapshot(ctx context.Context) (*ActiveModel, error)
}

type riskConfigService struct {
	db         *gorm.DB
	log        *logger.Logger
	configRepo repos.RiskConfigRepo
}

func NewRiskConfigService(db *gorm.DB, baseLog *logger.Logger, configRepo repos.RiskConfigRepo) RiskConfigService {
	return &riskConfigService{
		db:         db,
		log:        baseLog.With("service", "RiskConfigService"),
		configRepo: configRepo,
	}
}

func (s *riskConfigService) GetActive(ctx context.Context) (*types.RiskModelConfig, error) {
	active, err := s.configRepo.GetActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load active risk config: %w", err)
	}
	if active != nil {
		return active, nil
	}

	// First use: seed the default model. The re-read inside the transaction
	// keeps concurrent first calls from inserting twice.
	var created *types.RiskModelConfig
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, txErr := s.configRepo.GetActive(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if existing != nil {
			created = existing
			return nil
		}
		cfg := defaultConfig()
		if txErr := s.configRepo.Insert(ctx, tx, cfg); txErr != nil {
			return txErr
		}
		created = cfg
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed default risk config: %w", err)
	}
	s.log.Info("Seeded default risk model config", "version", created.Version)
	return created, nil
}

func (s *riskConfigService) Save(ctx context.Context, weights risk.Weights, thresholds risk.Thresholds) (*SaveConfigResult, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	var saved *types.RiskModelConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, txErr := s.configRepo.GetActive(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if current != nil {
			rows, txErr := s.configRepo.Deactivate(ctx, tx, current.ID)
			if txErr != nil {
				return txErr
			}
			if rows == 0 {
				return fmt.Errorf("%w: active risk config was replaced concurrently", pkgerrors.ErrConflict)
			}
		}
		maxVersion, txErr := s.configRepo.MaxVersion(ctx, tx)
		if txErr != nil {
			return txErr
		}
		now := time.Now().UTC()
		cfg := &types.RiskModelConfig{
			Version:         maxVersion + 1,
			Weights:         weightsToJSON(weights),
			ThresholdHigh:   thresholds.High,
			ThresholdMedium: thresholds.Medium,
			Active:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if txErr := s.configRepo.Insert(ctx, tx, cfg); txErr != nil {
			return mapConfigInsertError(txErr, cfg.Version)
		}
		saved = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	warning := math.Abs(weights.Sum()-1.0) > weightSumTolerance
	if warning {
		s.log.Warn("Saved risk config with non-normalized weights", "version", saved.Version, "weight_sum", weights.Sum())
	} else {
		s.log.Info("Saved risk config", "version", saved.Version)
	}
	return &SaveConfigResult{Config: saved, WeightSumWarning: warning}, nil
}

func (s *riskConfigService) GetVersion(ctx context.Context, version int) (*types.RiskModelConfig, error) {
	cfg, err := s.configRepo.GetByVersion(ctx, nil, version)
	if err != nil {
		return nil, fmt.Errorf("load risk config version %d: %w", version, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: risk config version %d", pkgerrors.ErrNotFound, version)
	}
	return cfg, nil
}

func (s *riskConfigService) ActiveSnapshot(ctx context.Context) (*ActiveModel, error) {
	cfg, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return &ActiveModel{
		Version:    cfg.Version,
		Weights:    risk.Weights(cfg.WeightMap()),
		Thresholds: risk.Thresholds{High: cfg.ThresholdHigh, Medium: cfg.ThresholdMedium},
	}, nil
}

func defaultConfig() *types.RiskModelConfig {
	now := time.Now().UTC()
	defaults := risk.DefaultThresholds()
	return &types.RiskModelConfig{
		Version:         1,
		Weights:         weightsToJSON(risk.DefaultWeights()),
		ThresholdHigh:   defaults.High,
		ThresholdMedium: defaults.Medium,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// mapConfigInsertError turns a duplicate-version insert into ErrConflict.
// Two first saves on an empty store never reach the deactivate guard, so the
// loser only surfaces at the unique version index.
func mapConfigInsertError(err error, version int) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: risk config version %d was saved concurrently", pkgerrors.ErrConflict, version)
	}
	return err
}

func weightsToJSON(w risk.Weights) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
