// Package report implements the bottle-days reconciliation engine: it turns
// sparse exchange events into gap-filled, month-segmented, day-weighted
// occupancy tables. The engine is a pure batch computation over an immutable
// event snapshot; all I/O stays with the callers.
package report

import (
	"time"

	"bottledays/internal/core/apperror"
	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
)

// FilterMode selects how the report window is bounded.
type FilterMode string

const (
	ModeAll         FilterMode = "ALL"
	ModeSingleMonth FilterMode = "SINGLE_MONTH"
	ModeDateRange   FilterMode = "DATE_RANGE"
)

// Filter narrows the report to a month or date range and optionally to
// companies whose name contains a substring (case-insensitive).
type Filter struct {
	Mode            FilterMode
	Month           dates.MonthKey // required for ModeSingleMonth
	From            time.Time      // required for ModeDateRange
	To              time.Time      // required for ModeDateRange
	CompanyContains string
}

// Validate checks mode-specific required fields.
func (f Filter) Validate() error {
	switch f.Mode {
	case ModeAll, "":
		return nil
	case ModeSingleMonth:
		if f.Month == "" {
			return apperror.NewValidation("month is required for SINGLE_MONTH mode")
		}
		return nil
	case ModeDateRange:
		if f.From.IsZero() || f.To.IsZero() {
			return apperror.NewValidation("from_date and to_date are required for DATE_RANGE mode")
		}
		if f.To.Before(f.From) {
			return apperror.NewValidation("to_date must not precede from_date")
		}
		return nil
	default:
		return apperror.NewValidation("unknown filter mode").WithDetail("mode", string(f.Mode))
	}
}

// window returns the inclusive report window. A zero start means unbounded;
// the end falls back to the evaluation instant.
func (f Filter) window(evalInstant time.Time) (start, end time.Time) {
	switch f.Mode {
	case ModeSingleMonth:
		return f.Month.Start(), f.Month.End()
	case ModeDateRange:
		return dates.Day(f.From), dates.Day(f.To)
	default:
		return time.Time{}, evalInstant
	}
}

// Advisory codes. Advisories record recoverable irregularities; they never
// abort the computation.
const (
	AdvisoryNegativeSpan    = "NEGATIVE_SPAN"
	AdvisoryUnparseableDate = "UNPARSEABLE_DATE"
	AdvisoryMultipleTaxIDs  = "MULTIPLE_TAX_IDS"
	AdvisoryDuplicatesMerged = "DUPLICATES_MERGED"
)

// Advisory is a non-fatal data-quality finding attached to the result.
type Advisory struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RawRow is one row of the raw/detail table: the event as loaded, plus the
// interval annotations. Rows with DateInvalid are retained here and excluded
// everywhere else.
type RawRow struct {
	Company        string
	TaxID          string
	Product        string
	DocumentNumber string
	IssueDate      time.Time
	QtyDelivered   types.Quantity
	QtyReturned    types.Quantity
	StockBefore    types.Quantity
	StockAfter     types.Quantity
	Month          dates.MonthKey

	// Interval annotations (zero for invalid-date rows).
	DaySpan      int
	FirstOfMonth bool
	RawMetric    types.Quantity
	SpanClamped  bool // the event is dated after the evaluation instant

	Synthetic   bool
	DateInvalid bool
	RawDate     string // original value when DateInvalid
}

// SegmentRow is one contiguous day-count segment within a month. Start and
// End are both inclusive; DayCount = End − Start + 1.
type SegmentRow struct {
	Company        string
	Product        string
	DocumentNumber string
	SegmentStart   time.Time
	SegmentEnd     time.Time
	DayCount       int
	StockValue     types.Quantity
	WeightedMetric types.Quantity
	Month          dates.MonthKey
}

// MonthlySummaryRow aggregates segments per company/product/month.
type MonthlySummaryRow struct {
	Company           string
	TaxID             string
	Product           string
	Month             dates.MonthKey
	WeightedMetricSum types.Quantity
	ReturnedQtySum    types.Quantity
}

// SegmentDetailRow is the segment table denormalized with the tax id, the
// month's returned total and the pair's latest known stock.
type SegmentDetailRow struct {
	Company        string
	TaxID          string
	Product        string
	DocumentNumber string
	SegmentStart   time.Time
	SegmentEnd     time.Time
	DayCount       int
	StockValue     types.Quantity
	WeightedMetric types.Quantity
	ReturnedQtySum types.Quantity
	CurrentStock   types.Quantity
	Month          dates.MonthKey
}

// DailyRow is one calendar day of one company/product/month.
type DailyRow struct {
	Company              string
	TaxID                string
	Product              string
	Date                 time.Time
	StockValue           *types.Quantity // nil when no segment covers the day
	WeightedMetricForDay types.Quantity
	ReturnedQtyForDay    types.Quantity
	MonthlyReturnedTotal types.Quantity
	CurrentStock         types.Quantity
}

// RotationRow combines the month-end stock with the monthly sums.
type RotationRow struct {
	Company           string
	TaxID             string
	Product           string
	Month             dates.MonthKey
	MonthEndStock     types.Quantity
	WeightedMetricSum types.Quantity
	ReturnedQtySum    types.Quantity
}

// Report carries every output table of one engine invocation.
type Report struct {
	GeneratedAt time.Time
	Filter      Filter

	Raw            []RawRow
	Segments       []SegmentRow
	MonthlySummary []MonthlySummaryRow
	SegmentDetail  []SegmentDetailRow
	Daily          []DailyRow
	Rotation       []RotationRow

	Advisories []Advisory
}
