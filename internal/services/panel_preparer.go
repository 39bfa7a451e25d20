package services

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

// PanelPreparer turns raw uploaded rows into a clean PricePanel the
// statistical stages can run on.
type PanelPreparer struct {
	logger  *logrus.Logger
	minRows int
}

func NewPanelPreparer(logger *logrus.Logger, minRows int) *PanelPreparer {
	return &PanelPreparer{
		logger:  logger,
		minRows: minRows,
	}
}

// Prepare cleans the raw rows: sorts by date, drops duplicate dates and rows
// with unusable target prices, gap-fills covariates forward then backward,
// and drops covariate columns with no observations at all. Returns
// InsufficientDataError when fewer than the configured minimum rows survive.
func (p *PanelPreparer) Prepare(rows []models.RawRow) (*models.PricePanel, error) {
	if len(rows) == 0 {
		return nil, &models.InsufficientDataError{Rows: 0, MinRows: p.minRows}
	}

	sorted := make([]models.RawRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var duplicates, badTarget int
	kept := make([]models.RawRow, 0, len(sorted))
	for i, row := range sorted {
		if i > 0 && row.Date.Equal(sorted[i-1].Date) {
			duplicates++
			continue
		}
		if math.IsNaN(row.Target) || math.IsInf(row.Target, 0) || row.Target <= 0 {
			badTarget++
			continue
		}
		kept = append(kept, row)
	}

	names := covariateNames(kept)
	columns := make([][]float64, len(names))
	for i, name := range names {
		col := make([]float64, len(kept))
		for r, row := range kept {
			v, ok := row.Covariates[name]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				v = math.NaN()
			}
			col[r] = v
		}
		columns[i] = col
	}

	keptNames := make([]string, 0, len(names))
	keptColumns := make([][]float64, 0, len(names))
	var droppedColumns []string
	for i, col := range columns {
		if !fillGaps(col) {
			droppedColumns = append(droppedColumns, names[i])
			continue
		}
		keptNames = append(keptNames, names[i])
		keptColumns = append(keptColumns, col)
	}

	if duplicates > 0 || badTarget > 0 || len(droppedColumns) > 0 {
		p.logger.WithFields(logrus.Fields{
			"duplicate_dates": duplicates,
			"bad_target_rows": badTarget,
			"dropped_columns": droppedColumns,
		}).Warn("Dropped unusable observations while preparing price panel")
	}

	if len(kept) < p.minRows {
		return nil, &models.InsufficientDataError{Rows: len(kept), MinRows: p.minRows}
	}

	panel := &models.PricePanel{
		Dates:          make([]time.Time, len(kept)),
		Target:         make([]float64, len(kept)),
		CovariateNames: keptNames,
		Covariates:     keptColumns,
	}
	for i, row := range kept {
		panel.Dates[i] = row.Date
		panel.Target[i] = row.Target
	}

	p.logger.WithFields(logrus.Fields{
		"rows":       panel.Rows(),
		"covariates": len(panel.CovariateNames),
		"last_date":  panel.LastDate().Format("2006-01-02"),
	}).Info("Price panel prepared")

	return panel, nil
}

// covariateNames collects the union of covariate columns across all rows in
// deterministic alphabetical order. A column named "target" would shadow the
// target series downstream and is ignored.
func covariateNames(rows []models.RawRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for name := range row.Covariates {
			if name == "target" {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fillGaps forward-fills then backward-fills NaN entries in place. Returns
// false when the column has no finite observation to fill from.
func fillGaps(col []float64) bool {
	last := math.NaN()
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = last
		} else {
			last = v
		}
	}
	if math.IsNaN(last) {
		return false
	}
	next := math.NaN()
	for i := len(col) - 1; i >= 0; i-- {
		if math.IsNaN(col[i]) {
			col[i] = next
		} else {
			next = col[i]
		}
	}
	return true
}
