package seeder

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/metrics"
)

// Stats counts the row outcomes of one parsed sheet.
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Add accumulates the other counters into this one.
func (s *Stats) Add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
}

// SheetParser imports one named worksheet inside a transaction.
type SheetParser interface {
	Name() string
	Parse(ctx context.Context, tx *gorm.DB, sheet *Sheet) (Stats, error)
}

// RunReport summarizes a full workbook import.
type RunReport struct {
	Sheets  map[string]Stats `json:"sheets"`
	Totals  Stats            `json:"totals"`
	Missing []string         `json:"missing,omitempty"`
}

// TxBeginner runs a function inside a database transaction.
type TxBeginner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Runner drives an ordered list of sheet parsers over a workbook. Each sheet
// commits in its own transaction: a parser failure aborts the run but leaves
// earlier sheets committed.
type Runner struct {
	db      TxBeginner
	log     *logger.Logger
	metrics *metrics.SeederMetrics
}

// NewRunner wires the seeder runner.
func NewRunner(db TxBeginner, log *logger.Logger, m *metrics.SeederMetrics) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Runner{db: db, log: log, metrics: m}, nil
}

// Run executes the parsers in order against the workbook.
func (r *Runner) Run(ctx context.Context, wb *Workbook, parsers []SheetParser) (*RunReport, error) {
	if wb == nil {
		return nil, fmt.Errorf("workbook is required")
	}

	report := &RunReport{Sheets: make(map[string]Stats, len(parsers))}
	for _, parser := range parsers {
		name := parser.Name()
		sheetCtx := r.log.WithSheet(ctx, name)

		sheet, ok := wb.Sheet(name)
		if !ok {
			r.log.Warn(sheetCtx, "sheet missing from workbook, skipping")
			report.Missing = append(report.Missing, name)
			continue
		}

		var stats Stats
		err := r.db.WithTx(sheetCtx, func(tx *gorm.DB) error {
			var parseErr error
			stats, parseErr = parser.Parse(sheetCtx, tx, sheet)
			return parseErr
		})
		if err != nil {
			r.log.Error(sheetCtx, "sheet import failed", err)
			return report, fmt.Errorf("importing sheet %q: %w", name, err)
		}

		report.Sheets[name] = stats
		report.Totals.Add(stats)
		r.metrics.ObserveSheet(name, stats.Created, stats.Updated, stats.Skipped)
		r.log.Info(r.log.WithFields(sheetCtx, map[string]any{
			"created": stats.Created,
			"updated": stats.Updated,
			"skipped": stats.Skipped,
		}), "sheet imported")
	}
	return report, nil
}
