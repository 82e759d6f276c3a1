// Package events defines the inventory-exchange event model: one record per
// delivery/return visit for a company+product pair, as produced by the event
// store. Real events are immutable; the report engine only ever appends
// synthetic carry-forward events of its own.
package events

import (
	"sort"
	"time"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
)

// Event is one recorded inventory exchange.
type Event struct {
	Company        string
	TaxID          string // digits-only, empty when unknown
	Product        string
	DocumentNumber string

	// IssueDate is valid only when DateValid is true. RawDate preserves the
	// source value for diagnostics when parsing failed.
	IssueDate time.Time
	RawDate   string
	DateValid bool

	QtyDelivered types.Quantity
	QtyReturned  types.Quantity
	StockBefore  types.Quantity
	StockAfter   types.Quantity

	// Synthetic marks carry-forward events inserted by the gap filler.
	// They are never persisted.
	Synthetic bool
}

// Month returns the calendar month of the event.
func (e Event) Month() dates.MonthKey {
	return dates.Key(e.IssueDate)
}

// PairKey identifies a (company, product) series.
type PairKey struct {
	Company string
	Product string
}

// Pair returns the event's series key.
func (e Event) Pair() PairKey {
	return PairKey{Company: e.Company, Product: e.Product}
}

// NaturalKey identifies an event record for deduplication. Two records with
// identical natural keys are the same physical delivery note row, typically
// loaded twice from overlapping sources.
type NaturalKey struct {
	Company        string
	TaxID          string
	Product        string
	Date           string
	DocumentNumber string
	QtyDelivered   string
	QtyReturned    string
	StockBefore    string
	StockAfter     string
}

// Key returns the event's natural key. Quantities participate as canonical
// decimal strings so 12 and 12.0 collide.
func (e Event) Key() NaturalKey {
	date := e.RawDate
	if e.DateValid {
		date = e.IssueDate.Format("2006-01-02")
	}
	return NaturalKey{
		Company:        e.Company,
		TaxID:          e.TaxID,
		Product:        e.Product,
		Date:           date,
		DocumentNumber: e.DocumentNumber,
		QtyDelivered:   e.QtyDelivered.String(),
		QtyReturned:    e.QtyReturned.String(),
		StockBefore:    e.StockBefore.String(),
		StockAfter:     e.StockAfter.String(),
	}
}

// Dedup collapses events with identical natural keys, first occurrence wins.
// Input order is otherwise preserved.
func Dedup(list []Event) []Event {
	seen := make(map[NaturalKey]bool, len(list))
	out := make([]Event, 0, len(list))
	for _, e := range list {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// SortChronological orders events by company, product, date, then document
// number, keeping insertion order for full ties. Every computation in the
// report engine depends on this ordering being deterministic.
func SortChronological(list []Event) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		if !a.IssueDate.Equal(b.IssueDate) {
			return a.IssueDate.Before(b.IssueDate)
		}
		return a.DocumentNumber < b.DocumentNumber
	})
}

// GroupByPair splits events into per-(company, product) series, preserving
// relative order, and returns the keys in deterministic order.
func GroupByPair(list []Event) (map[PairKey][]Event, []PairKey) {
	groups := make(map[PairKey][]Event)
	var keys []PairKey
	for _, e := range list {
		k := e.Pair()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Company != keys[j].Company {
			return keys[i].Company < keys[j].Company
		}
		return keys[i].Product < keys[j].Product
	})
	return groups, keys
}
