package repos

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studentpulse/retention-backend/internal/logger"
	"github.com/studentpulse/retention-backend/internal/types"
)

var testDBSeq int64

func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Student{}, &types.RiskModelConfig{}, &types.RiskSnapshot{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return db, log
}

func TestRiskConfigGuardedDeactivate(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewRiskConfigRepo(db, log)
	ctx := context.Background()

	cfg := &types.RiskModelConfig{
		Version:         1,
		Weights:         map[string]interface{}{"attendance": 1.0},
		ThresholdHigh:   0.7,
		ThresholdMedium: 0.4,
		Active:          true,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := repo.Insert(ctx, nil, cfg); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := repo.Deactivate(ctx, nil, cfg.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first deactivate rows=%d, want 1", rows)
	}

	// The guard makes the second writer lose cleanly.
	rows, err = repo.Deactivate(ctx, nil, cfg.ID)
	if err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second deactivate rows=%d, want 0", rows)
	}

	active, err := repo.GetActive(ctx, nil)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active != nil {
		t.Fatalf("config still active after deactivate")
	}
}

func TestRiskConfigDuplicateVersionRejected(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewRiskConfigRepo(db, log)
	ctx := context.Background()

	base := types.RiskModelConfig{
		Version:         1,
		Weights:         map[string]interface{}{"attendance": 1.0},
		ThresholdHigh:   0.7,
		ThresholdMedium: 0.4,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	first := base
	if err := repo.Insert(ctx, nil, &first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := base
	err := repo.Insert(ctx, nil, &second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err=%v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestRiskConfigMaxVersionEmpty(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewRiskConfigRepo(db, log)

	max, err := repo.MaxVersion(context.Background(), nil)
	if err != nil {
		t.Fatalf("max version: %v", err)
	}
	if max != 0 {
		t.Fatalf("max=%d on empty table, want 0", max)
	}
}

func TestSnapshotAppendOrdering(t *testing.T) {
	db, log := newTestDB(t)
	students := NewStudentRepo(db, log)
	snapshots := NewRiskSnapshotRepo(db, log)
	ctx := context.Background()

	student := &types.Student{FullName: "A", Email: "a@school.test", RiskTier: "unknown"}
	if err := students.Create(ctx, nil, student); err != nil {
		t.Fatalf("create student: %v", err)
	}

	base := time.Now().UTC().Add(-48 * time.Hour)
	for i, score := range []float64{0.2, 0.5, 0.9} {
		err := snapshots.Append(ctx, nil, &types.RiskSnapshot{
			StudentID:       student.ID,
			Score:           score,
			Tier:            "low",
			ConfigVersion:   1,
			ThresholdHigh:   0.7,
			ThresholdMedium: 0.4,
			Source:          types.SnapshotSourceModel,
			CapturedAt:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	rows, err := snapshots.ListByStudent(ctx, nil, student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len=%d, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CapturedAt.Before(rows[i-1].CapturedAt) {
			t.Fatalf("snapshots out of order at %d", i)
		}
	}
	if rows[0].Score != 0.2 || rows[2].Score != 0.9 {
		t.Fatalf("unexpected ordering: first=%v last=%v", rows[0].Score, rows[2].Score)
	}
}

func TestStudentUpdateRiskState(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewStudentRepo(db, log)
	ctx := context.Background()

	student := &types.Student{FullName: "B", Email: "b@school.test", RiskTier: "unknown"}
	if err := repo.Create(ctx, nil, student); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Now().UTC()
	if err := repo.UpdateRiskState(ctx, nil, student.ID, 0.42, "medium", at); err != nil {
		t.Fatalf("update risk state: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, nil, student.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.RiskScore == nil || *reloaded.RiskScore != 0.42 || reloaded.RiskTier != "medium" {
		t.Fatalf("risk state not persisted: %+v", reloaded)
	}
	if reloaded.LastRiskUpdated == nil {
		t.Fatalf("last risk updated not set")
	}

	if missing, err := repo.GetByID(ctx, nil, uuid.New()); err != nil || missing != nil {
		t.Fatalf("missing student should be nil,nil; got %v,%v", missing, err)
	}
}
