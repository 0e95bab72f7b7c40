// Package seedruns ties a workbook source, the sheet parser sets and the
// seeder runner into a single entry point shared by the API and the CLI.
package seedruns

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bat"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bpm"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// Workbook kinds accepted by Run.
const (
	KindBAT = "bat"
	KindBPM = "bpm"
)

// Service executes a full workbook import by kind and object name.
type Service interface {
	Run(ctx context.Context, kind, object string) (*seeder.RunReport, error)
}

// Params wire the seed run service.
type Params struct {
	Log    *logger.Logger
	Source seeder.Source
	Runner *seeder.Runner
	BAT    *bat.Dependencies
	BPM    *bpm.Dependencies
}

type service struct {
	log    *logger.Logger
	source seeder.Source
	runner *seeder.Runner
	bat    []seeder.SheetParser
	bpm    []seeder.SheetParser
}

// NewService validates the dependencies and resolves both parser sets up
// front so a misconfigured set fails at startup, not per request.
func NewService(params Params) (Service, error) {
	if params.Log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("workbook source is required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("seeder runner is required")
	}
	batParsers, batErr := bat.Parsers(params.BAT)
	if batErr != nil {
		batErr = fmt.Errorf("building fleet parsers: %w", batErr)
	}
	bpmParsers, bpmErr := bpm.Parsers(params.BPM)
	if bpmErr != nil {
		bpmErr = fmt.Errorf("building workflow parsers: %w", bpmErr)
	}
	if err := multierr.Combine(batErr, bpmErr); err != nil {
		return nil, err
	}
	return &service{
		log:    params.Log,
		source: params.Source,
		runner: params.Runner,
		bat:    batParsers,
		bpm:    bpmParsers,
	}, nil
}

func (s *service) Run(ctx context.Context, kind, object string) (*seeder.RunReport, error) {
	var parsers []seeder.SheetParser
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindBAT:
		parsers = s.bat
	case KindBPM:
		parsers = s.bpm
	default:
		return nil, fmt.Errorf("unknown workbook kind %q", kind)
	}

	reader, err := s.source.Fetch(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("fetching workbook %q: %w", object, err)
	}
	defer reader.Close()

	wb, err := seeder.OpenWorkbook(reader)
	if err != nil {
		return nil, err
	}

	runCtx := s.log.WithFields(ctx, map[string]any{"kind": kind, "object": object})
	s.log.Info(runCtx, "seed run starting")
	report, err := s.runner.Run(runCtx, wb, parsers)
	if err != nil {
		return report, err
	}
	s.log.Info(s.log.WithFields(runCtx, map[string]any{
		"created": report.Totals.Created,
		"updated": report.Totals.Updated,
		"skipped": report.Totals.Skipped,
	}), "seed run complete")
	return report, nil
}
