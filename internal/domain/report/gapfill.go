package report

import (
	"time"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

// fillGaps inserts one synthetic month-start event into every calendar month
// that a company/product pair is known in but has no recorded exchange,
// carrying forward the last observed post-exchange stock. Knowledge runs from
// the pair's first valid event through horizonEnd. Months that already have a
// real event are left alone, so the operation is idempotent.
//
// Only valid-date events participate; the input is returned with the
// synthetic rows appended, unsorted.
func fillGaps(list []events.Event, horizonEnd time.Time) []events.Event {
	groups, keys := events.GroupByPair(list)

	out := list
	lastMonth := dates.Key(horizonEnd)
	for _, k := range keys {
		group := validOnly(groups[k])
		if len(group) == 0 {
			continue
		}
		events.SortChronological(group)

		months := dates.MonthsBetween(group[0].IssueDate, lastMonth.Start())
		present := make(map[dates.MonthKey]bool, len(group))
		for _, e := range group {
			present[e.Month()] = true
		}

		idx := 0 // index of the first event at or after the month under inspection
		for _, m := range months {
			for idx < len(group) && group[idx].IssueDate.Before(m.Start()) {
				idx++
			}
			if present[m] || idx == 0 {
				continue
			}
			prior := group[idx-1]
			out = append(out, events.Event{
				Company:        prior.Company,
				TaxID:          prior.TaxID,
				Product:        prior.Product,
				DocumentNumber: prior.DocumentNumber,
				IssueDate:      m.Start(),
				DateValid:      true,
				QtyDelivered:   types.Zero(),
				QtyReturned:    types.Zero(),
				StockBefore:    prior.StockAfter,
				StockAfter:     prior.StockAfter,
				Synthetic:      true,
			})
		}
	}
	return out
}

func validOnly(group []events.Event) []events.Event {
	valid := make([]events.Event, 0, len(group))
	for _, e := range group {
		if e.DateValid {
			valid = append(valid, e)
		}
	}
	return valid
}
