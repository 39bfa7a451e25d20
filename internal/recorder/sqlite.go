package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run is being recorded.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("path", dbPath).Info("SQLite run recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			started_at     INTEGER NOT NULL,
			completed_at   INTEGER NOT NULL,
			panel_rows     INTEGER,
			horizon        INTEGER,
			current_price  REAL,
			ensemble_mean  REAL,
			ensemble_min   REAL,
			ensemble_max   REAL,
			order_qty_tons REAL,
			timing_action  TEXT,
			best_supplier  TEXT,
			hedge_strategy TEXT,
			model_failures INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_run_id ON analysis_runs(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_runs
		(run_id, started_at, completed_at, panel_rows, horizon, current_price,
		 ensemble_mean, ensemble_min, ensemble_max,
		 order_qty_tons, timing_action, best_supplier, hedge_strategy, model_failures)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.StartedAt.Unix(), rec.CompletedAt.Unix(),
		rec.PanelRows, rec.Horizon, rec.CurrentPrice,
		rec.EnsembleMean, rec.EnsembleMin, rec.EnsembleMax,
		rec.OrderQtyTons, rec.TimingAction, rec.BestSupplier, rec.HedgeStrategy,
		rec.ModelFailures,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("Closing SQLite run recorder")
	return r.db.Close()
}
