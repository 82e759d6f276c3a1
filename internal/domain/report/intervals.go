package report

import (
	"time"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

// annotated is an event enriched with its interval to the next event of the
// same company/product pair.
type annotated struct {
	events.Event
	DaySpan      int
	FirstOfMonth bool
	RawMetric    types.Quantity
	SpanClamped  bool // true when the raw span was negative before clamping
}

// annotate computes, per company/product pair in chronological order, the day
// span from each event to the next (the last event spans to evalInstant),
// flags the first event of each month, and derives the raw day-weighted
// metric: pre-exchange stock for a month's first event, post-exchange stock
// otherwise, times the span. Negative spans, which only arise from
// future-dated events, are clamped to zero.
//
// The input must be sorted with events.SortChronological and contain only
// valid-date events. Annotation runs over the whole snapshot, before any
// window filtering: an event keeps its month context even when the report
// range starts mid-month and drops the events preceding it.
func annotate(sorted []events.Event, evalInstant time.Time) []annotated {
	out := make([]annotated, 0, len(sorted))
	type monthSeen struct {
		pair  events.PairKey
		month dates.MonthKey
	}
	seen := make(map[monthSeen]bool)

	for i, e := range sorted {
		next := evalInstant
		if i+1 < len(sorted) && sorted[i+1].Pair() == e.Pair() {
			next = sorted[i+1].IssueDate
		}
		span := dates.DaysBetween(e.IssueDate, next)
		clamped := span < 0
		if clamped {
			span = 0
		}

		ms := monthSeen{e.Pair(), e.Month()}
		first := !seen[ms]
		seen[ms] = true

		stock := e.StockAfter
		if first {
			stock = e.StockBefore
		}

		out = append(out, annotated{
			Event:        e,
			DaySpan:      span,
			FirstOfMonth: first,
			RawMetric:    stock.Mul(types.NewQuantity(int64(span))),
			SpanClamped:  clamped,
		})
	}
	return out
}
