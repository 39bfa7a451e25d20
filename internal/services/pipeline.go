package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/config"
	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/internal/recorder"
)

// ErrRunInProgress is returned when a second analysis run is requested while
// one is still executing.
var ErrRunInProgress = errors.New("an analysis run is already in progress")

// AnalysisRequest carries everything one run needs. Zero-valued optional
// fields fall back to the configured defaults.
type AnalysisRequest struct {
	Rows      []models.RawRow
	Horizon   int
	Params    models.BusinessParameters
	Suppliers []models.SupplierProfile
}

// AnalysisPipeline owns the stage sequence from raw rows to decision
// dashboard. All run state lives in the request and the stage results, so
// concurrent sessions never share intermediate state; only one run may
// execute at a time.
type AnalysisPipeline struct {
	logger   *logrus.Logger
	cfg      *config.Config
	recorder recorder.Recorder

	preparer    *PanelPreparer
	diagnostics *DiagnosticsService
	causal      *CausalModelService
	synthesizer *ForecastSynthesizer
	eoq         *EOQService
	timing      *TimingService
	supplier    *SupplierService
	hedging     *HedgingService
	dashboard   *DashboardService

	runMu sync.Mutex

	mu   sync.RWMutex
	last *models.DecisionDashboard
}

func NewAnalysisPipeline(logger *logrus.Logger, cfg *config.Config, rec recorder.Recorder) *AnalysisPipeline {
	return &AnalysisPipeline{
		logger:      logger,
		cfg:         cfg,
		recorder:    rec,
		preparer:    NewPanelPreparer(logger, cfg.Pipeline.MinPanelRows),
		diagnostics: NewDiagnosticsService(logger),
		causal:      NewCausalModelService(logger, cfg.Pipeline.MaxCovariates, cfg.Pipeline.MaxLag),
		synthesizer: NewForecastSynthesizer(logger),
		eoq:         NewEOQService(logger, cfg.Costs),
		timing:      NewTimingService(logger, cfg.Costs),
		supplier:    NewSupplierService(logger, cfg.Costs),
		hedging:     NewHedgingService(logger),
		dashboard:   NewDashboardService(logger),
	}
}

// Run executes the full pipeline for one request. Returns ErrRunInProgress
// when another run holds the pipeline; model-fit failures degrade the result
// rather than failing the run.
func (p *AnalysisPipeline) Run(ctx context.Context, req *AnalysisRequest) (*models.DecisionDashboard, error) {
	if !p.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runMu.Unlock()

	startedAt := time.Now().UTC()
	runID := uuid.New().String()
	log := p.logger.WithField("run_id", runID)

	horizon := req.Horizon
	if horizon == 0 {
		horizon = p.cfg.Pipeline.DefaultHorizonDays
	}
	if horizon < 1 || horizon > 365 {
		return nil, fmt.Errorf("horizon must be between 1 and 365 days, got %d", horizon)
	}

	params := req.Params
	if params == (models.BusinessParameters{}) {
		params = p.cfg.BusinessParameters()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid business parameters: %w", err)
	}

	suppliers := req.Suppliers
	if suppliers == nil {
		suppliers = p.cfg.Suppliers
	}
	for _, s := range suppliers {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid supplier: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"rows":    len(req.Rows),
		"horizon": horizon,
	}).Info("Analysis run started")

	panel, err := p.preparer.Prepare(req.Rows)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diagnostics := p.diagnostics.Run(panel)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fit := p.causal.Fit(panel)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle, audit := p.synthesizer.Synthesize(panel, fit, horizon)
	for _, d := range diagnostics {
		if d.StationarityError != "" {
			audit["adf:"+d.Series] = d.StationarityError
		}
		if d.CointegrationError != "" {
			audit["cointegration:"+d.Series] = d.CointegrationError
		}
	}
	for _, f := range fit.Findings {
		if f.Err != "" {
			audit["causality:"+f.Covariate] = f.Err
		}
	}

	eoqResult, err := p.eoq.Optimize(params, bundle.CurrentPrice)
	if err != nil {
		return nil, err
	}

	timingResult := p.timing.Decide(bundle, eoqResult.OptimalQuantityTons)
	supplierResult := p.supplier.Evaluate(suppliers, bundle.CurrentPrice, eoqResult.OptimalQuantityTons)
	hedgeResult := p.hedging.Recommend(bundle, eoqResult.OptimalQuantityTons)

	dashboard := p.dashboard.Build(runID, panel, bundle, fit.Findings, params,
		eoqResult, timingResult, supplierResult, hedgeResult, audit)

	p.mu.Lock()
	p.last = dashboard
	p.mu.Unlock()

	p.record(runID, startedAt, panel, bundle, dashboard, len(audit))

	log.WithField("duration", time.Since(startedAt)).Info("Analysis run completed")
	return dashboard, nil
}

// Dashboard returns the most recent dashboard, or nil when no run has
// completed yet.
func (p *AnalysisPipeline) Dashboard() *models.DecisionDashboard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func (p *AnalysisPipeline) record(runID string, startedAt time.Time, panel *models.PricePanel, bundle *models.ForecastBundle, dashboard *models.DecisionDashboard, failures int) {
	min, max := bundle.Ensemble[0], bundle.Ensemble[0]
	for _, v := range bundle.Ensemble {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rec := &recorder.RunRecord{
		RunID:         runID,
		StartedAt:     startedAt,
		CompletedAt:   time.Now().UTC(),
		PanelRows:     panel.Rows(),
		Horizon:       bundle.Horizon,
		CurrentPrice:  bundle.CurrentPrice,
		EnsembleMean:  meanFloat64(bundle.Ensemble),
		EnsembleMin:   min,
		EnsembleMax:   max,
		OrderQtyTons:  dashboard.EOQ.OptimalQuantityTons,
		TimingAction:  string(dashboard.Timing.Action),
		BestSupplier:  dashboard.Suppliers.Recommended,
		HedgeStrategy: string(dashboard.Hedging.Strategy),
		ModelFailures: failures,
	}
	if err := p.recorder.RecordRun(rec); err != nil {
		p.logger.WithError(err).WithField("run_id", runID).Warn("Failed to record analysis run")
	}
}
