package report

import (
	"time"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

// buildSegments splits every company/product month into contiguous day-count
// segments. Segment boundaries are half-open: the month start, each event
// date, and the day after the month end (clamped to the day after horizonEnd
// for the month in progress). A segment carries the pre-exchange stock and
// document number of the event that opens it; the lead-in before the first
// event of the month borrows that first event's pre-exchange stock, so an
// exchange only becomes visible in the metric from the next boundary on.
// Zero-length spans, such as the lead-in of a month whose first event falls
// on day one, are dropped.
//
// Reported SegmentStart and SegmentEnd are both inclusive, and for any fully
// covered month the day counts sum to the month's calendar length.
//
// The input must be sorted with events.SortChronological and contain only
// valid-date events.
func buildSegments(sorted []events.Event, horizonEnd time.Time) []SegmentRow {
	var out []SegmentRow
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) &&
			sorted[end].Pair() == sorted[start].Pair() &&
			sorted[end].Month() == sorted[start].Month() {
			end++
		}
		out = append(out, monthSegments(sorted[start:end], horizonEnd)...)
		start = end
	}
	return out
}

// monthSegments handles one company/product month. group is non-empty,
// chronological, and entirely within one month.
func monthSegments(group []events.Event, horizonEnd time.Time) []SegmentRow {
	month := group[0].Month()
	closeBoundary := month.Next().Start()
	if h := horizonEnd.AddDate(0, 0, 1); h.Before(closeBoundary) {
		closeBoundary = h
	}

	segs := make([]SegmentRow, 0, len(group)+1)
	emit := func(from, to time.Time, opening events.Event) {
		days := dates.DaysBetween(from, to)
		if days <= 0 {
			return
		}
		stock := opening.StockBefore
		segs = append(segs, SegmentRow{
			Company:        opening.Company,
			Product:        opening.Product,
			DocumentNumber: opening.DocumentNumber,
			SegmentStart:   from,
			SegmentEnd:     to.AddDate(0, 0, -1),
			DayCount:       days,
			StockValue:     stock,
			WeightedMetric: stock.Mul(types.NewQuantity(int64(days))),
			Month:          month,
		})
	}

	emit(month.Start(), group[0].IssueDate, group[0])
	for i := 0; i < len(group)-1; i++ {
		emit(group[i].IssueDate, group[i+1].IssueDate, group[i])
	}
	last := group[len(group)-1]
	emit(last.IssueDate, closeBoundary, last)
	return segs
}
