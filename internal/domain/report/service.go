package report

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bottledays/internal/domain/companies"
	"bottledays/internal/domain/events"
	"bottledays/pkg/logger"
)

// Service loads the event snapshot and the company directory and runs the
// engine over them.
type Service struct {
	events    events.Repository
	companies companies.Repository
	engine    *Engine
}

func NewService(ev events.Repository, co companies.Repository, engine *Engine) *Service {
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &Service{events: ev, companies: co, engine: engine}
}

// Generate produces a report for the filter. The company substring and, for
// bounded modes, the window upper bound are pushed down to the store; the
// lower bound is not, because carry-forward needs the pair history that
// precedes the window.
func (s *Service) Generate(ctx context.Context, f Filter) (*Report, error) {
	tracer := otel.Tracer("bottledays/report")
	ctx, span := tracer.Start(ctx, "report.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.mode", string(f.Mode)),
		attribute.String("report.company_contains", f.CompanyContains),
	)

	if err := f.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	q := events.Query{CompanyContains: f.CompanyContains}
	switch f.Mode {
	case ModeSingleMonth:
		end := f.Month.End()
		q.To = &end
	case ModeDateRange:
		to := f.To
		q.To = &to
	}

	started := time.Now()
	list, err := s.events.List(ctx, q)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.companies != nil {
		entries, err := s.companies.List(ctx)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		companies.NewDirectory(entries).Backfill(list)
	}

	rep, err := s.engine.Generate(list, f)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("report.events", len(list)))
	logger.Info(ctx, "report generated",
		"mode", string(f.Mode),
		"events", len(list),
		"segments", len(rep.Segments),
		"advisories", len(rep.Advisories),
		"took", time.Since(started),
	)
	return rep, nil
}
