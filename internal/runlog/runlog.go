// Package runlog persists simulation runs and their fall events to SQLite.
package runlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Run modes.
const (
	ModeViewer   = "viewer"
	ModeHeadless = "headless"
)

// Run is one simulation from build to exit or reset.
type Run struct {
	ID         uint      `gorm:"primaryKey"`
	Mode       string    `gorm:"index"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt *time.Time
	Bodies     int
	Frames     int
	Fallen     int
	Falls      []FallRecord `gorm:"constraint:OnDelete:CASCADE"`
}

// Duration is the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FallRecord is one body toppling during a run.
type FallRecord struct {
	ID        uint `gorm:"primaryKey"`
	RunID     uint `gorm:"index:idx_run_frame"`
	Frame     int  `gorm:"index:idx_run_frame"`
	BodyIndex int
	Placement int
	Kind      string
	Branch    string
	Segment   string
	X, Y, Z   float32
}

// Store wraps the run database.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create run log dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}, &FallRecord{}); err != nil {
		return nil, fmt.Errorf("migrate run log: %w", err)
	}

	log.Info("run log opened", zap.String("path", path))
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun creates a run record.
func (s *Store) StartRun(mode string, bodies int) (*Run, error) {
	run := &Run{Mode: mode, StartedAt: s.now(), Bodies: bodies}
	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	s.log.Debug("run started", zap.Uint("run", run.ID), zap.String("mode", mode), zap.Int("bodies", bodies))
	return run, nil
}

// FinishRun stamps the run with its final counters.
func (s *Store) FinishRun(run *Run, frames, fallen int) error {
	finished := s.now()
	err := s.db.Model(run).Updates(map[string]any{
		"finished_at": finished,
		"frames":      frames,
		"fallen":      fallen,
	}).Error
	if err != nil {
		return fmt.Errorf("finish run %d: %w", run.ID, err)
	}
	run.FinishedAt = &finished
	run.Frames = frames
	run.Fallen = fallen
	s.log.Info("run finished",
		zap.Uint("run", run.ID),
		zap.Int("frames", frames),
		zap.Int("fallen", fallen),
		zap.Int("bodies", run.Bodies),
	)
	return nil
}

// AddFalls stores fall events of a run in one transaction.
func (s *Store) AddFalls(runID uint, events []sim.FallEvent) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]FallRecord, len(events))
	for i, ev := range events {
		records[i] = FallRecord{
			RunID:     runID,
			Frame:     ev.Frame,
			BodyIndex: ev.Index,
			Placement: ev.Placement,
			Kind:      ev.Kind.String(),
			Branch:    ev.Branch.String(),
			Segment:   ev.Segment.String(),
			X:         ev.Position.X,
			Y:         ev.Position.Y,
			Z:         ev.Position.Z,
		}
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return fmt.Errorf("store %d falls for run %d: %w", len(events), runID, err)
	}
	return nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(limit int) ([]Run, error) {
	var runs []Run
	q := s.db.Order("started_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ErrRunNotFound is returned for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Run loads a run with its falls in frame order.
func (s *Store) Run(id uint) (*Run, error) {
	var run Run
	err := s.db.Preload("Falls", func(db *gorm.DB) *gorm.DB {
		return db.Order("frame asc, id asc")
	}).First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", id, err)
	}
	return &run, nil
}

// BranchCounts returns how many bodies fell per branch in a run.
func (s *Store) BranchCounts(runID uint) (map[string]int, error) {
	var rows []struct {
		Branch string
		Count  int
	}
	err := s.db.Model(&FallRecord{}).
		Select("branch, count(*) as count").
		Where("run_id = ?", runID).
		Group("branch").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count falls for run %d: %w", runID, err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Branch] = r.Count
	}
	return out, nil
}
