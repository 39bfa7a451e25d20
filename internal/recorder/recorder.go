package recorder

import "time"

// RunRecord is the persisted summary of one completed analysis run.
type RunRecord struct {
	RunID         string
	StartedAt     time.Time
	CompletedAt   time.Time
	PanelRows     int
	Horizon       int
	CurrentPrice  float64
	EnsembleMean  float64
	EnsembleMin   float64
	EnsembleMax   float64
	OrderQtyTons  float64
	TimingAction  string
	BestSupplier  string
	HedgeStrategy string
	ModelFailures int
}

// Recorder persists analysis run history for later review.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
