package events

import (
	"testing"
	"time"

	"bottledays/internal/core/types"
)

func mkEvent(company, product, date, doc string, delivered, returned, before, after string) Event {
	d, _ := time.Parse("2006-01-02", date)
	return Event{
		Company:        company,
		Product:        product,
		DocumentNumber: doc,
		IssueDate:      d,
		DateValid:      true,
		QtyDelivered:   types.MustQuantity(delivered),
		QtyReturned:    types.MustQuantity(returned),
		StockBefore:    types.MustQuantity(before),
		StockAfter:     types.MustQuantity(after),
	}
}

func TestDedup_NaturalKey(t *testing.T) {
	a := mkEvent("Firma A", "Butla 19L", "2026-01-01", "FV/1", "5", "0", "10", "15")
	sameAsA := mkEvent("Firma A", "Butla 19L", "2026-01-01", "FV/1", "5.0", "0", "10", "15")
	differentQty := mkEvent("Firma A", "Butla 19L", "2026-01-01", "FV/1", "6", "0", "10", "16")

	out := Dedup([]Event{a, sameAsA, differentQty})
	if len(out) != 2 {
		t.Fatalf("Dedup kept %d events, want 2", len(out))
	}
	// First occurrence wins.
	if !out[0].QtyDelivered.Equal(types.MustQuantity("5")) {
		t.Errorf("first kept event delivered = %s, want 5", out[0].QtyDelivered)
	}
}

func TestDedup_UnparseableDateUsesRawValue(t *testing.T) {
	bad1 := Event{Company: "A", Product: "P", RawDate: "??.??.2026"}
	bad2 := Event{Company: "A", Product: "P", RawDate: "??.??.2026"}
	bad3 := Event{Company: "A", Product: "P", RawDate: "inne"}

	out := Dedup([]Event{bad1, bad2, bad3})
	if len(out) != 2 {
		t.Fatalf("Dedup kept %d events, want 2", len(out))
	}
}

func TestSortChronological_Deterministic(t *testing.T) {
	e1 := mkEvent("B", "P", "2026-01-05", "FV/2", "0", "0", "1", "1")
	e2 := mkEvent("A", "P", "2026-01-09", "FV/3", "0", "0", "1", "1")
	e3 := mkEvent("A", "P", "2026-01-05", "FV/1", "0", "0", "1", "1")
	e4 := mkEvent("A", "O", "2026-01-20", "FV/4", "0", "0", "1", "1")

	for _, input := range [][]Event{
		{e1, e2, e3, e4},
		{e4, e3, e2, e1},
		{e2, e4, e1, e3},
	} {
		list := append([]Event(nil), input...)
		SortChronological(list)
		got := []string{list[0].DocumentNumber, list[1].DocumentNumber, list[2].DocumentNumber, list[3].DocumentNumber}
		want := []string{"FV/4", "FV/1", "FV/3", "FV/2"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	}
}

func TestGroupByPair(t *testing.T) {
	list := []Event{
		mkEvent("B", "P", "2026-01-01", "1", "0", "0", "0", "0"),
		mkEvent("A", "P", "2026-01-02", "2", "0", "0", "0", "0"),
		mkEvent("B", "P", "2026-01-03", "3", "0", "0", "0", "0"),
	}
	groups, keys := GroupByPair(list)

	if len(keys) != 2 {
		t.Fatalf("got %d pairs, want 2", len(keys))
	}
	if keys[0].Company != "A" || keys[1].Company != "B" {
		t.Errorf("keys not sorted: %v", keys)
	}
	if len(groups[PairKey{Company: "B", Product: "P"}]) != 2 {
		t.Errorf("pair B/P should hold 2 events")
	}
}
