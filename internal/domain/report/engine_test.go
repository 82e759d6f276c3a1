package report

import (
	"testing"
	"time"

	"bottledays/internal/core/apperror"
	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func mkEvent(company, product, date, doc string, delivered, returned, before, after string) events.Event {
	return events.Event{
		Company:        company,
		Product:        product,
		DocumentNumber: doc,
		IssueDate:      day(date),
		DateValid:      true,
		QtyDelivered:   types.MustQuantity(delivered),
		QtyReturned:    types.MustQuantity(returned),
		StockBefore:    types.MustQuantity(before),
		StockAfter:     types.MustQuantity(after),
	}
}

func fixedClock(s string) func() time.Time {
	return func() time.Time { return day(s) }
}

// Two January visits: a delivery on the 1st raising stock 10->15 and a return
// of 3 on the 16th dropping it 15->12.
func januaryVisits() []events.Event {
	return []events.Event{
		mkEvent("Firma Alfa", "Butla 11kg", "2025-01-01", "FVS/1/2025", "5", "0", "10", "15"),
		mkEvent("Firma Alfa", "Butla 11kg", "2025-01-16", "FVS/9/2025", "0", "3", "15", "12"),
	}
}

func TestGenerate_SingleMonthSegments(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(januaryVisits(), Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		start, end string
		days       int
		stock      string
		metric     string
	}{
		{"2025-01-01", "2025-01-15", 15, "10", "150"},
		{"2025-01-16", "2025-01-31", 16, "15", "240"},
	}
	if len(rep.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(rep.Segments), len(want), rep.Segments)
	}
	for i, w := range want {
		s := rep.Segments[i]
		if !s.SegmentStart.Equal(day(w.start)) || !s.SegmentEnd.Equal(day(w.end)) {
			t.Errorf("segment %d spans %s..%s, want %s..%s", i,
				s.SegmentStart.Format("2006-01-02"), s.SegmentEnd.Format("2006-01-02"), w.start, w.end)
		}
		if s.DayCount != w.days {
			t.Errorf("segment %d day count = %d, want %d", i, s.DayCount, w.days)
		}
		if !s.StockValue.Equal(types.MustQuantity(w.stock)) {
			t.Errorf("segment %d stock = %s, want %s", i, s.StockValue, w.stock)
		}
		if !s.WeightedMetric.Equal(types.MustQuantity(w.metric)) {
			t.Errorf("segment %d metric = %s, want %s", i, s.WeightedMetric, w.metric)
		}
	}

	if len(rep.MonthlySummary) != 1 {
		t.Fatalf("got %d summary rows, want 1", len(rep.MonthlySummary))
	}
	sum := rep.MonthlySummary[0]
	if !sum.WeightedMetricSum.Equal(types.MustQuantity("390")) {
		t.Errorf("monthly metric = %s, want 390", sum.WeightedMetricSum)
	}
	if !sum.ReturnedQtySum.Equal(types.MustQuantity("3")) {
		t.Errorf("monthly returns = %s, want 3", sum.ReturnedQtySum)
	}

	if len(rep.Rotation) != 1 {
		t.Fatalf("got %d rotation rows, want 1", len(rep.Rotation))
	}
	if got := rep.Rotation[0].MonthEndStock; !got.Equal(types.MustQuantity("15")) {
		t.Errorf("month-end stock = %s, want 15", got)
	}
}

func TestGenerate_CarryForwardMonth(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(januaryVisits(), Filter{Mode: ModeSingleMonth, Month: "2025-02"})
	if err != nil {
		t.Fatal(err)
	}

	if len(rep.Segments) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(rep.Segments), rep.Segments)
	}
	s := rep.Segments[0]
	if s.DayCount != 28 {
		t.Errorf("day count = %d, want 28", s.DayCount)
	}
	if !s.StockValue.Equal(types.MustQuantity("12")) {
		t.Errorf("carried stock = %s, want 12", s.StockValue)
	}
	if !s.WeightedMetric.Equal(types.MustQuantity("336")) {
		t.Errorf("metric = %s, want 336", s.WeightedMetric)
	}

	sum := rep.MonthlySummary[0]
	if !sum.ReturnedQtySum.IsZero() {
		t.Errorf("synthetic month returns = %s, want 0", sum.ReturnedQtySum)
	}

	// The synthetic event is visible, and flagged, in the raw table.
	if len(rep.Raw) != 1 || !rep.Raw[0].Synthetic {
		t.Fatalf("raw table = %+v, want one synthetic row", rep.Raw)
	}
}

func TestGenerate_NoDataInRange(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	_, err := eng.Generate(januaryVisits(), Filter{Mode: ModeSingleMonth, Month: "2024-06"})
	if err == nil {
		t.Fatal("expected an error for an empty month")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeNoDataInRange {
		t.Fatalf("got %v, want code %s", err, apperror.CodeNoDataInRange)
	}
	if appErr.Details["available_from"] != "2025-01-01" || appErr.Details["available_to"] != "2025-01-16" {
		t.Errorf("available range details = %v", appErr.Details)
	}
}

func TestGenerate_UnparseableDateRetained(t *testing.T) {
	bad := events.Event{
		Company:        "Firma Alfa",
		Product:        "Butla 11kg",
		DocumentNumber: "FVS/2/2025",
		RawDate:        "sometime in January",
		QtyDelivered:   types.MustQuantity("2"),
		QtyReturned:    types.Zero(),
		StockBefore:    types.MustQuantity("15"),
		StockAfter:     types.MustQuantity("17"),
	}
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(append(januaryVisits(), bad), Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}

	var flagged int
	for _, r := range rep.Raw {
		if r.DateInvalid {
			flagged++
			if r.RawDate != "sometime in January" {
				t.Errorf("raw date = %q", r.RawDate)
			}
		}
	}
	if flagged != 1 {
		t.Fatalf("flagged %d raw rows, want 1", flagged)
	}

	// The bad row must not disturb the computation.
	if got := rep.MonthlySummary[0].WeightedMetricSum; !got.Equal(types.MustQuantity("390")) {
		t.Errorf("metric with bad row present = %s, want 390", got)
	}

	found := false
	for _, a := range rep.Advisories {
		if a.Code == AdvisoryUnparseableDate {
			found = true
		}
	}
	if !found {
		t.Error("missing unparseable-date advisory")
	}
}

func TestGenerate_DayCountsCoverMonth(t *testing.T) {
	list := []events.Event{
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-03", "FVS/3/2025", "4", "0", "0", "4"),
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-11", "FVS/4/2025", "2", "1", "4", "5"),
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-27", "FVS/5/2025", "0", "2", "5", "3"),
	}
	eng := NewEngine(fixedClock("2025-04-10"))
	rep, err := eng.Generate(list, Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, s := range rep.Segments {
		if s.DayCount <= 0 {
			t.Errorf("non-positive segment: %+v", s)
		}
		total += s.DayCount
	}
	if total != 31 {
		t.Errorf("day counts sum to %d, want 31", total)
	}
}

func TestGenerate_SameDayVisitsCollapse(t *testing.T) {
	list := []events.Event{
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-10", "FVS/6/2025", "4", "0", "2", "6"),
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-10", "FVS/7/2025", "0", "1", "6", "5"),
	}
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(list, Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, s := range rep.Segments {
		total += s.DayCount
	}
	if total != 31 {
		t.Errorf("day counts sum to %d, want 31", total)
	}
	for _, s := range rep.Segments {
		if s.DayCount == 0 {
			t.Errorf("zero-length segment survived: %+v", s)
		}
	}
}

func TestGenerate_AllModeRunsToEvaluationInstant(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(januaryVisits(), Filter{Mode: ModeAll})
	if err != nil {
		t.Fatal(err)
	}

	months := map[dates.MonthKey]bool{}
	for _, s := range rep.Segments {
		months[s.Month] = true
	}
	for _, m := range []dates.MonthKey{"2025-01", "2025-02", "2025-03"} {
		if !months[m] {
			t.Errorf("month %s missing from segments", m)
		}
	}

	// March is in progress: one day covered, carried stock 12.
	for _, s := range rep.Segments {
		if s.Month == "2025-03" {
			if s.DayCount != 1 || !s.StockValue.Equal(types.MustQuantity("12")) {
				t.Errorf("march segment = %+v", s)
			}
		}
	}
}

func TestGenerate_FutureEventClamped(t *testing.T) {
	list := append(januaryVisits(),
		mkEvent("Firma Alfa", "Butla 11kg", "2025-06-01", "FVS/99/2025", "1", "0", "12", "13"))
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(list, Filter{Mode: ModeAll})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, a := range rep.Advisories {
		if a.Code == AdvisoryNegativeSpan {
			found = true
		}
	}
	if !found {
		t.Error("missing negative-span advisory for future-dated event")
	}

	// The future row stays visible in the raw table, flagged, with its span
	// clamped to zero; no other table picks it up.
	var future *RawRow
	for i, r := range rep.Raw {
		if r.DaySpan < 0 {
			t.Errorf("negative day span leaked: %+v", r)
		}
		if r.DocumentNumber == "FVS/99/2025" {
			future = &rep.Raw[i]
		}
	}
	if future == nil {
		t.Fatalf("future-dated event missing from the raw table: %+v", rep.Raw)
	}
	if !future.SpanClamped || future.DaySpan != 0 {
		t.Errorf("future row = %+v, want clamped zero span", future)
	}
	for _, s := range rep.Segments {
		if s.SegmentStart.After(day("2025-03-01")) {
			t.Errorf("segment past the evaluation instant: %+v", s)
		}
	}
}

func TestGenerate_CompanyFilter(t *testing.T) {
	list := append(januaryVisits(),
		mkEvent("Firma Gamma", "Butla 11kg", "2025-01-05", "FVS/8/2025", "3", "0", "0", "3"))
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(list, Filter{Mode: ModeSingleMonth, Month: "2025-01", CompanyContains: "gamma"})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range rep.Segments {
		if s.Company != "Firma Gamma" {
			t.Errorf("unexpected company %q in segments", s.Company)
		}
	}
	if len(rep.MonthlySummary) != 1 || rep.MonthlySummary[0].Company != "Firma Gamma" {
		t.Errorf("summary = %+v", rep.MonthlySummary)
	}
}

func TestGenerate_MultipleTaxIDsAdvisory(t *testing.T) {
	list := januaryVisits()
	list[0].TaxID = "1234567819"
	list[1].TaxID = "9999999999"

	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(list, Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}

	var adv *Advisory
	for i, a := range rep.Advisories {
		if a.Code == AdvisoryMultipleTaxIDs {
			adv = &rep.Advisories[i]
		}
	}
	if adv == nil {
		t.Fatalf("missing multiple-tax-ids advisory: %+v", rep.Advisories)
	}
	if adv.Details["company"] != "Firma Alfa" {
		t.Errorf("advisory details = %v, want company Firma Alfa", adv.Details)
	}

	// The chronologically first id wins everywhere the tax id is joined in.
	if len(rep.MonthlySummary) != 1 || rep.MonthlySummary[0].TaxID != "1234567819" {
		t.Errorf("summary = %+v, want tax id 1234567819", rep.MonthlySummary)
	}
	for _, r := range rep.Daily {
		if r.TaxID != "1234567819" {
			t.Errorf("daily row carries tax id %q, want 1234567819", r.TaxID)
			break
		}
	}
}

func TestGenerate_OrderIndependence(t *testing.T) {
	a := []events.Event{
		mkEvent("Firma Alfa", "Butla 11kg", "2025-01-01", "FVS/1/2025", "5", "0", "10", "15"),
		mkEvent("Firma Alfa", "Butla 11kg", "2025-01-16", "FVS/9/2025", "0", "3", "15", "12"),
		mkEvent("Firma Beta", "Butla 33kg", "2025-01-03", "FVS/3/2025", "4", "0", "0", "4"),
	}
	b := []events.Event{a[2], a[1], a[0]}

	eng := NewEngine(fixedClock("2025-03-01"))
	repA, err := eng.Generate(a, Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}
	repB, err := eng.Generate(b, Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}
	if len(repA.Segments) != len(repB.Segments) {
		t.Fatalf("segment counts differ: %d vs %d", len(repA.Segments), len(repB.Segments))
	}
	for i := range repA.Segments {
		sa, sb := repA.Segments[i], repB.Segments[i]
		same := sa.Company == sb.Company &&
			sa.Product == sb.Product &&
			sa.SegmentStart.Equal(sb.SegmentStart) &&
			sa.SegmentEnd.Equal(sb.SegmentEnd) &&
			sa.DayCount == sb.DayCount &&
			sa.StockValue.Equal(sb.StockValue)
		if !same {
			t.Errorf("segment %d differs:\n%+v\n%+v", i, sa, sb)
		}
	}
}

func TestGenerate_MidMonthRangeKeepsMonthContext(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(januaryVisits(), Filter{
		Mode: ModeDateRange,
		From: day("2025-01-10"),
		To:   day("2025-01-31"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Only the Jan 16 visit falls inside the range, but the Jan 1 visit was
	// already seen during annotation, so the retained row is not the first of
	// its month and its raw metric uses the post-exchange stock.
	var row *RawRow
	for i, r := range rep.Raw {
		if r.DocumentNumber == "FVS/9/2025" {
			row = &rep.Raw[i]
		}
	}
	if row == nil {
		t.Fatalf("raw table = %+v, want the FVS/9/2025 row", rep.Raw)
	}
	if row.FirstOfMonth {
		t.Error("mid-month row flagged as first of month")
	}
	want := row.StockAfter.Mul(types.NewQuantity(int64(row.DaySpan)))
	if !row.RawMetric.Equal(want) {
		t.Errorf("raw metric = %s, want %s (post-exchange stock times span)", row.RawMetric, want)
	}
}

func TestGenerate_DailyBreakdown(t *testing.T) {
	eng := NewEngine(fixedClock("2025-03-01"))
	rep, err := eng.Generate(januaryVisits(), Filter{Mode: ModeSingleMonth, Month: "2025-01"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Daily) != 31 {
		t.Fatalf("got %d daily rows, want 31", len(rep.Daily))
	}

	byDate := map[string]DailyRow{}
	for _, r := range rep.Daily {
		byDate[r.Date.Format("2006-01-02")] = r
	}
	if r := byDate["2025-01-15"]; r.StockValue == nil || !r.StockValue.Equal(types.MustQuantity("10")) {
		t.Errorf("jan 15 stock = %v, want 10", r.StockValue)
	}
	if r := byDate["2025-01-16"]; r.StockValue == nil || !r.StockValue.Equal(types.MustQuantity("15")) {
		t.Errorf("jan 16 stock = %v, want 15", r.StockValue)
	}
	if r := byDate["2025-01-16"]; !r.ReturnedQtyForDay.Equal(types.MustQuantity("3")) {
		t.Errorf("jan 16 returns = %s, want 3", r.ReturnedQtyForDay)
	}
	if r := byDate["2025-01-15"]; !r.ReturnedQtyForDay.IsZero() {
		t.Errorf("jan 15 returns = %s, want 0", r.ReturnedQtyForDay)
	}
	for _, r := range rep.Daily {
		if !r.MonthlyReturnedTotal.Equal(types.MustQuantity("3")) {
			t.Errorf("%s monthly returned total = %s, want 3", r.Date.Format("2006-01-02"), r.MonthlyReturnedTotal)
			break
		}
		if !r.CurrentStock.Equal(types.MustQuantity("12")) {
			t.Errorf("current stock = %s, want 12", r.CurrentStock)
			break
		}
	}
}

func TestFillGaps_Idempotent(t *testing.T) {
	horizon := day("2025-04-30")
	once := fillGaps(januaryVisits(), horizon)
	twice := fillGaps(once, horizon)
	if len(twice) != len(once) {
		t.Errorf("second pass added %d events", len(twice)-len(once))
	}

	synthetic := 0
	for _, e := range once {
		if e.Synthetic {
			synthetic++
			if !e.StockAfter.Equal(types.MustQuantity("12")) {
				t.Errorf("synthetic event carries %s, want 12", e.StockAfter)
			}
			if e.IssueDate.Day() != 1 {
				t.Errorf("synthetic event not on month start: %s", e.IssueDate)
			}
		}
	}
	// February, March, April.
	if synthetic != 3 {
		t.Errorf("got %d synthetic events, want 3", synthetic)
	}
}

func TestFilter_Validate(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		ok     bool
	}{
		{"all", Filter{Mode: ModeAll}, true},
		{"empty mode", Filter{}, true},
		{"month present", Filter{Mode: ModeSingleMonth, Month: "2025-01"}, true},
		{"month missing", Filter{Mode: ModeSingleMonth}, false},
		{"range present", Filter{Mode: ModeDateRange, From: day("2025-01-01"), To: day("2025-02-01")}, true},
		{"range missing to", Filter{Mode: ModeDateRange, From: day("2025-01-01")}, false},
		{"range inverted", Filter{Mode: ModeDateRange, From: day("2025-02-01"), To: day("2025-01-01")}, false},
		{"unknown mode", Filter{Mode: "WEEKLY"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filter.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
