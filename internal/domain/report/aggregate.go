package report

import (
	"sort"
	"time"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

type pairMonth struct {
	Pair  events.PairKey
	Month dates.MonthKey
}

func (pm pairMonth) less(o pairMonth) bool {
	if pm.Pair.Company != o.Pair.Company {
		return pm.Pair.Company < o.Pair.Company
	}
	if pm.Pair.Product != o.Pair.Product {
		return pm.Pair.Product < o.Pair.Product
	}
	return pm.Month < o.Month
}

// returnSums totals returned quantities of real (non-synthetic) events per
// company/product/month.
func returnSums(windowed []events.Event) map[pairMonth]types.Quantity {
	sums := make(map[pairMonth]types.Quantity)
	for _, e := range windowed {
		if e.Synthetic {
			continue
		}
		k := pairMonth{e.Pair(), e.Month()}
		sums[k] = sums[k].Add(e.QtyReturned)
	}
	return sums
}

// monthlySummary aggregates segments into company/product/month totals.
// Negative segment metrics are clamped to zero before summing, so single bad
// readings cannot drag a month below zero. Months that have returns but no
// segments still get a row.
func monthlySummary(segments []SegmentRow, returns map[pairMonth]types.Quantity, taxOf map[string]string) []MonthlySummaryRow {
	metric := make(map[pairMonth]types.Quantity)
	for _, s := range segments {
		k := pairMonth{events.PairKey{Company: s.Company, Product: s.Product}, s.Month}
		metric[k] = metric[k].Add(types.MaxZero(s.WeightedMetric))
	}

	keys := make([]pairMonth, 0, len(metric))
	for k := range metric {
		keys = append(keys, k)
	}
	for k := range returns {
		if _, ok := metric[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]MonthlySummaryRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthlySummaryRow{
			Company:           k.Pair.Company,
			TaxID:             taxOf[k.Pair.Company],
			Product:           k.Pair.Product,
			Month:             k.Month,
			WeightedMetricSum: metric[k],
			ReturnedQtySum:    returns[k],
		})
	}
	return out
}

// segmentDetail denormalizes each segment with the company tax id, the
// month's returned total and the pair's latest known stock.
func segmentDetail(segments []SegmentRow, returns map[pairMonth]types.Quantity, taxOf map[string]string, currentStock map[events.PairKey]types.Quantity) []SegmentDetailRow {
	out := make([]SegmentDetailRow, 0, len(segments))
	for _, s := range segments {
		pair := events.PairKey{Company: s.Company, Product: s.Product}
		out = append(out, SegmentDetailRow{
			Company:        s.Company,
			TaxID:          taxOf[s.Company],
			Product:        s.Product,
			DocumentNumber: s.DocumentNumber,
			SegmentStart:   s.SegmentStart,
			SegmentEnd:     s.SegmentEnd,
			DayCount:       s.DayCount,
			StockValue:     s.StockValue,
			WeightedMetric: s.WeightedMetric,
			ReturnedQtySum: returns[pairMonth{pair, s.Month}],
			CurrentStock:   currentStock[pair],
			Month:          s.Month,
		})
	}
	return out
}

// dailyBreakdown expands segments into one row per covered calendar day.
// The stock on a day is the value of the segment covering it; returns land on
// their exact event date.
func dailyBreakdown(segments []SegmentRow, windowed []events.Event, returns map[pairMonth]types.Quantity, taxOf map[string]string, currentStock map[events.PairKey]types.Quantity) []DailyRow {
	bySeg := make(map[pairMonth][]SegmentRow)
	var keys []pairMonth
	for _, s := range segments {
		k := pairMonth{events.PairKey{Company: s.Company, Product: s.Product}, s.Month}
		if _, ok := bySeg[k]; !ok {
			keys = append(keys, k)
		}
		bySeg[k] = append(bySeg[k], s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	dayReturns := make(map[events.PairKey]map[time.Time]types.Quantity)
	for _, e := range windowed {
		if e.Synthetic || e.QtyReturned.IsZero() {
			continue
		}
		m, ok := dayReturns[e.Pair()]
		if !ok {
			m = make(map[time.Time]types.Quantity)
			dayReturns[e.Pair()] = m
		}
		m[e.IssueDate] = m[e.IssueDate].Add(e.QtyReturned)
	}

	var out []DailyRow
	for _, k := range keys {
		segs := bySeg[k]
		lastCovered := segs[0].SegmentEnd
		for _, s := range segs {
			if s.SegmentEnd.After(lastCovered) {
				lastCovered = s.SegmentEnd
			}
		}
		for day := k.Month.Start(); !day.After(lastCovered); day = day.AddDate(0, 0, 1) {
			var stock *types.Quantity
			metric := types.Zero()
			for _, s := range segs {
				if !day.Before(s.SegmentStart) && !day.After(s.SegmentEnd) {
					v := s.StockValue
					stock = &v
					metric = v
					break
				}
			}
			out = append(out, DailyRow{
				Company:              k.Pair.Company,
				TaxID:                taxOf[k.Pair.Company],
				Product:              k.Pair.Product,
				Date:                 day,
				StockValue:           stock,
				WeightedMetricForDay: metric,
				ReturnedQtyForDay:    dayReturns[k.Pair][day],
				MonthlyReturnedTotal: returns[k],
				CurrentStock:         currentStock[k.Pair],
			})
		}
	}
	return out
}

// rotationSummary reports, per company/product/month, the stock of the
// latest-ending segment alongside the monthly sums.
func rotationSummary(segments []SegmentRow, summary []MonthlySummaryRow) []RotationRow {
	closing := make(map[pairMonth]SegmentRow)
	for _, s := range segments {
		k := pairMonth{events.PairKey{Company: s.Company, Product: s.Product}, s.Month}
		if cur, ok := closing[k]; !ok || s.SegmentEnd.After(cur.SegmentEnd) {
			closing[k] = s
		}
	}

	out := make([]RotationRow, 0, len(summary))
	for _, row := range summary {
		k := pairMonth{events.PairKey{Company: row.Company, Product: row.Product}, row.Month}
		out = append(out, RotationRow{
			Company:           row.Company,
			TaxID:             row.TaxID,
			Product:           row.Product,
			Month:             row.Month,
			MonthEndStock:     closing[k].StockValue,
			WeightedMetricSum: row.WeightedMetricSum,
			ReturnedQtySum:    row.ReturnedQtySum,
		})
	}
	return out
}
