package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bottledays/internal/core/apperror"
	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

// Engine generates reports from event snapshots. It performs no I/O; the
// clock is injected so results are reproducible.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using the given clock, or time.Now when nil.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Generate runs the full pipeline over the snapshot: company filtering,
// carry-forward gap filling, deduplication, interval annotation, month
// segmentation and aggregation. Events whose issue date could not be parsed
// are kept in the raw table, flagged, and excluded from every computation.
//
// Returns a CodeNoDataInRange error when nothing matches the filter; its
// details carry the date range the snapshot actually covers.
func (e *Engine) Generate(input []events.Event, f Filter) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	generatedAt := e.now()
	evalInstant := dates.Day(generatedAt)

	rep := &Report{GeneratedAt: generatedAt, Filter: f}

	matched := filterCompany(input, f.CompanyContains)
	valid, invalid := splitValid(matched)
	if len(invalid) > 0 {
		raws := make([]string, 0, len(invalid))
		for _, ev := range invalid {
			raws = append(raws, ev.RawDate)
		}
		rep.Advisories = append(rep.Advisories, Advisory{
			Code:    AdvisoryUnparseableDate,
			Message: fmt.Sprintf("%d events with unparseable issue dates were excluded from the computation", len(invalid)),
			Details: map[string]any{"raw_dates": raws},
		})
	}
	if len(valid) == 0 {
		return nil, apperror.NewNoData(time.Time{}, time.Time{})
	}

	availMin, availMax := valid[0].IssueDate, valid[0].IssueDate
	for _, ev := range valid {
		if ev.IssueDate.Before(availMin) {
			availMin = ev.IssueDate
		}
		if ev.IssueDate.After(availMax) {
			availMax = ev.IssueDate
		}
	}

	windowStart, windowEnd := f.window(evalInstant)

	full := fillGaps(valid, windowEnd)
	before := len(full)
	full = events.Dedup(full)
	if dropped := before - len(full); dropped > 0 {
		rep.Advisories = append(rep.Advisories, Advisory{
			Code:    AdvisoryDuplicatesMerged,
			Message: fmt.Sprintf("%d duplicate events were merged, keeping the first occurrence", dropped),
		})
	}
	events.SortChronological(full)

	annotatedAll := annotate(full, evalInstant)
	clamped := 0
	for _, a := range annotatedAll {
		if a.SpanClamped {
			clamped++
		}
	}
	if clamped > 0 {
		rep.Advisories = append(rep.Advisories, Advisory{
			Code:    AdvisoryNegativeSpan,
			Message: fmt.Sprintf("%d events are dated after the evaluation instant; their day spans were clamped to zero", clamped),
		})
	}

	taxOf, multi := taxIDIndex(full)
	for _, company := range multi {
		rep.Advisories = append(rep.Advisories, Advisory{
			Code:    AdvisoryMultipleTaxIDs,
			Message: "company appears with more than one tax id; the first seen is used",
			Details: map[string]any{"company": company},
		})
	}
	currentStock := latestStock(full)

	var windowed []events.Event
	var windowedAnnotated []annotated
	for _, a := range annotatedAll {
		if !windowStart.IsZero() && a.IssueDate.Before(windowStart) {
			continue
		}
		if a.IssueDate.After(windowEnd) {
			// In ALL mode the window ends at the evaluation instant, so a
			// future-dated event has nowhere else to show up. Keep it in the
			// raw table with its clamped zero span; segmentation still skips it.
			if f.Mode == ModeAll || f.Mode == "" {
				windowedAnnotated = append(windowedAnnotated, a)
			}
			continue
		}
		windowed = append(windowed, a.Event)
		windowedAnnotated = append(windowedAnnotated, a)
	}
	if len(windowed) == 0 {
		return nil, apperror.NewNoData(availMin, availMax)
	}

	segments := buildSegments(windowed, windowEnd)
	returns := returnSums(windowed)

	rep.Raw = rawTable(windowedAnnotated, invalid)
	rep.Segments = segments
	rep.MonthlySummary = monthlySummary(segments, returns, taxOf)
	rep.SegmentDetail = segmentDetail(segments, returns, taxOf, currentStock)
	rep.Daily = dailyBreakdown(segments, windowed, returns, taxOf, currentStock)
	rep.Rotation = rotationSummary(segments, rep.MonthlySummary)
	return rep, nil
}

func filterCompany(list []events.Event, contains string) []events.Event {
	if contains == "" {
		return list
	}
	needle := strings.ToLower(contains)
	out := make([]events.Event, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Company), needle) {
			out = append(out, e)
		}
	}
	return out
}

func splitValid(list []events.Event) (valid, invalid []events.Event) {
	for _, e := range list {
		if e.DateValid {
			valid = append(valid, e)
		} else {
			invalid = append(invalid, e)
		}
	}
	return valid, invalid
}

// taxIDIndex maps each company to its first non-empty tax id in chronological
// order; companies carrying more than one distinct id are reported.
func taxIDIndex(sorted []events.Event) (map[string]string, []string) {
	taxOf := make(map[string]string)
	distinct := make(map[string]map[string]bool)
	for _, e := range sorted {
		if e.TaxID == "" {
			continue
		}
		if _, ok := taxOf[e.Company]; !ok {
			taxOf[e.Company] = e.TaxID
		}
		if distinct[e.Company] == nil {
			distinct[e.Company] = make(map[string]bool)
		}
		distinct[e.Company][e.TaxID] = true
	}
	var multi []string
	for company, ids := range distinct {
		if len(ids) > 1 {
			multi = append(multi, company)
		}
	}
	sort.Strings(multi)
	return taxOf, multi
}

// latestStock records each pair's most recent post-exchange stock across the
// whole snapshot, independent of the report window.
func latestStock(sorted []events.Event) map[events.PairKey]types.Quantity {
	out := make(map[events.PairKey]types.Quantity)
	for _, e := range sorted {
		out[e.Pair()] = e.StockAfter
	}
	return out
}

func rawTable(windowed []annotated, invalid []events.Event) []RawRow {
	out := make([]RawRow, 0, len(windowed)+len(invalid))
	for _, a := range windowed {
		out = append(out, RawRow{
			Company:        a.Company,
			TaxID:          a.TaxID,
			Product:        a.Product,
			DocumentNumber: a.DocumentNumber,
			IssueDate:      a.IssueDate,
			QtyDelivered:   a.QtyDelivered,
			QtyReturned:    a.QtyReturned,
			StockBefore:    a.StockBefore,
			StockAfter:     a.StockAfter,
			Month:          a.Month(),
			DaySpan:        a.DaySpan,
			FirstOfMonth:   a.FirstOfMonth,
			RawMetric:      a.RawMetric,
			SpanClamped:    a.SpanClamped,
			Synthetic:      a.Synthetic,
		})
	}
	for _, e := range invalid {
		out = append(out, RawRow{
			Company:        e.Company,
			TaxID:          e.TaxID,
			Product:        e.Product,
			DocumentNumber: e.DocumentNumber,
			QtyDelivered:   e.QtyDelivered,
			QtyReturned:    e.QtyReturned,
			StockBefore:    e.StockBefore,
			StockAfter:     e.StockAfter,
			DateInvalid:    true,
			RawDate:        e.RawDate,
		})
	}
	return out
}
