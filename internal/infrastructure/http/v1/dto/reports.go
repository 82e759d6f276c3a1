package dto

import (
	"time"

	"bottledays/internal/core/apperror"
	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/report"
)

const dateLayout = "2006-01-02"

// ReportQuery holds the report filter query parameters. When mode is empty it
// is inferred: month implies SINGLE_MONTH, from/to imply DATE_RANGE.
type ReportQuery struct {
	Mode    string `form:"mode"`
	Month   string `form:"month"`
	From    string `form:"from"`
	To      string `form:"to"`
	Company string `form:"company"`
}

// ToFilter converts the query into a domain filter.
func (q ReportQuery) ToFilter() (report.Filter, error) {
	f := report.Filter{
		Mode:            report.FilterMode(q.Mode),
		CompanyContains: q.Company,
	}
	if f.Mode == "" {
		switch {
		case q.Month != "":
			f.Mode = report.ModeSingleMonth
		case q.From != "" || q.To != "":
			f.Mode = report.ModeDateRange
		default:
			f.Mode = report.ModeAll
		}
	}

	if q.Month != "" {
		month, err := dates.ParseKey(q.Month)
		if err != nil {
			return report.Filter{}, apperror.NewValidation(err.Error()).WithDetail("field", "month")
		}
		f.Month = month
	}
	if q.From != "" {
		from, err := dates.Parse(q.From)
		if err != nil {
			return report.Filter{}, apperror.NewValidation(err.Error()).WithDetail("field", "from")
		}
		f.From = from
	}
	if q.To != "" {
		to, err := dates.Parse(q.To)
		if err != nil {
			return report.Filter{}, apperror.NewValidation(err.Error()).WithDetail("field", "to")
		}
		f.To = to
	}
	return f, nil
}

// --- Response DTOs ---

// RawRowResponse is one raw-table row.
type RawRowResponse struct {
	Company        string         `json:"company"`
	TaxID          string         `json:"taxId"`
	Product        string         `json:"product"`
	DocumentNumber string         `json:"documentNumber"`
	IssueDate      string         `json:"issueDate,omitempty"`
	RawDate        string         `json:"rawDate,omitempty"`
	QtyDelivered   types.Quantity `json:"qtyDelivered"`
	QtyReturned    types.Quantity `json:"qtyReturned"`
	StockBefore    types.Quantity `json:"stockBefore"`
	StockAfter     types.Quantity `json:"stockAfter"`
	Month          string         `json:"month,omitempty"`
	DaySpan        int            `json:"daySpan"`
	FirstOfMonth   bool           `json:"firstOfMonth"`
	RawMetric      types.Quantity `json:"rawMetric"`
	SpanClamped    bool           `json:"spanClamped,omitempty"`
	Synthetic      bool           `json:"synthetic,omitempty"`
	DateInvalid    bool           `json:"dateInvalid,omitempty"`
}

// SegmentRowResponse is one segment-table row.
type SegmentRowResponse struct {
	Company        string         `json:"company"`
	Product        string         `json:"product"`
	DocumentNumber string         `json:"documentNumber"`
	SegmentStart   string         `json:"segmentStart"`
	SegmentEnd     string         `json:"segmentEnd"`
	DayCount       int            `json:"dayCount"`
	StockValue     types.Quantity `json:"stockValue"`
	WeightedMetric types.Quantity `json:"weightedMetric"`
	Month          string         `json:"month"`
}

// MonthlySummaryRowResponse is one monthly summary row.
type MonthlySummaryRowResponse struct {
	Company           string         `json:"company"`
	TaxID             string         `json:"taxId"`
	Product           string         `json:"product"`
	Month             string         `json:"month"`
	WeightedMetricSum types.Quantity `json:"weightedMetricSum"`
	ReturnedQtySum    types.Quantity `json:"returnedQtySum"`
}

// SegmentDetailRowResponse is one denormalized segment row.
type SegmentDetailRowResponse struct {
	Company        string         `json:"company"`
	TaxID          string         `json:"taxId"`
	Product        string         `json:"product"`
	DocumentNumber string         `json:"documentNumber"`
	SegmentStart   string         `json:"segmentStart"`
	SegmentEnd     string         `json:"segmentEnd"`
	DayCount       int            `json:"dayCount"`
	StockValue     types.Quantity `json:"stockValue"`
	WeightedMetric types.Quantity `json:"weightedMetric"`
	ReturnedQtySum types.Quantity `json:"returnedQtySum"`
	CurrentStock   types.Quantity `json:"currentStock"`
	Month          string         `json:"month"`
}

// DailyRowResponse is one daily-breakdown row.
type DailyRowResponse struct {
	Company              string          `json:"company"`
	TaxID                string          `json:"taxId"`
	Product              string          `json:"product"`
	Date                 string          `json:"date"`
	StockValue           *types.Quantity `json:"stockValue"`
	WeightedMetricForDay types.Quantity  `json:"weightedMetricForDay"`
	ReturnedQtyForDay    types.Quantity  `json:"returnedQtyForDay"`
	MonthlyReturnedTotal types.Quantity  `json:"monthlyReturnedTotal"`
	CurrentStock         types.Quantity  `json:"currentStock"`
}

// RotationRowResponse is one rotation-summary row.
type RotationRowResponse struct {
	Company           string         `json:"company"`
	TaxID             string         `json:"taxId"`
	Product           string         `json:"product"`
	Month             string         `json:"month"`
	MonthEndStock     types.Quantity `json:"monthEndStock"`
	WeightedMetricSum types.Quantity `json:"weightedMetricSum"`
	ReturnedQtySum    types.Quantity `json:"returnedQtySum"`
}

// AdvisoryResponse is one data-quality advisory.
type AdvisoryResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ReportResponse is the full report payload.
type ReportResponse struct {
	GeneratedAt    time.Time                   `json:"generatedAt"`
	Raw            []RawRowResponse            `json:"raw"`
	Segments       []SegmentRowResponse        `json:"segments"`
	MonthlySummary []MonthlySummaryRowResponse `json:"monthlySummary"`
	SegmentDetail  []SegmentDetailRowResponse  `json:"segmentDetail"`
	Daily          []DailyRowResponse          `json:"daily"`
	Rotation       []RotationRowResponse       `json:"rotation"`
	Advisories     []AdvisoryResponse          `json:"advisories"`
}

// FromReport converts a domain report.
func FromReport(r *report.Report) ReportResponse {
	out := ReportResponse{
		GeneratedAt:    r.GeneratedAt,
		Raw:            make([]RawRowResponse, 0, len(r.Raw)),
		Segments:       make([]SegmentRowResponse, 0, len(r.Segments)),
		MonthlySummary: make([]MonthlySummaryRowResponse, 0, len(r.MonthlySummary)),
		SegmentDetail:  make([]SegmentDetailRowResponse, 0, len(r.SegmentDetail)),
		Daily:          make([]DailyRowResponse, 0, len(r.Daily)),
		Rotation:       make([]RotationRowResponse, 0, len(r.Rotation)),
		Advisories:     make([]AdvisoryResponse, 0, len(r.Advisories)),
	}

	for _, row := range r.Raw {
		resp := RawRowResponse{
			Company:        row.Company,
			TaxID:          row.TaxID,
			Product:        row.Product,
			DocumentNumber: row.DocumentNumber,
			RawDate:        row.RawDate,
			QtyDelivered:   row.QtyDelivered,
			QtyReturned:    row.QtyReturned,
			StockBefore:    row.StockBefore,
			StockAfter:     row.StockAfter,
			DaySpan:        row.DaySpan,
			FirstOfMonth:   row.FirstOfMonth,
			RawMetric:      row.RawMetric,
			SpanClamped:    row.SpanClamped,
			Synthetic:      row.Synthetic,
			DateInvalid:    row.DateInvalid,
		}
		if !row.DateInvalid {
			resp.IssueDate = row.IssueDate.Format(dateLayout)
			resp.Month = string(row.Month)
		}
		out.Raw = append(out.Raw, resp)
	}
	for _, row := range r.Segments {
		out.Segments = append(out.Segments, SegmentRowResponse{
			Company:        row.Company,
			Product:        row.Product,
			DocumentNumber: row.DocumentNumber,
			SegmentStart:   row.SegmentStart.Format(dateLayout),
			SegmentEnd:     row.SegmentEnd.Format(dateLayout),
			DayCount:       row.DayCount,
			StockValue:     row.StockValue,
			WeightedMetric: row.WeightedMetric,
			Month:          string(row.Month),
		})
	}
	for _, row := range r.MonthlySummary {
		out.MonthlySummary = append(out.MonthlySummary, MonthlySummaryRowResponse{
			Company:           row.Company,
			TaxID:             row.TaxID,
			Product:           row.Product,
			Month:             string(row.Month),
			WeightedMetricSum: row.WeightedMetricSum,
			ReturnedQtySum:    row.ReturnedQtySum,
		})
	}
	for _, row := range r.SegmentDetail {
		out.SegmentDetail = append(out.SegmentDetail, SegmentDetailRowResponse{
			Company:        row.Company,
			TaxID:          row.TaxID,
			Product:        row.Product,
			DocumentNumber: row.DocumentNumber,
			SegmentStart:   row.SegmentStart.Format(dateLayout),
			SegmentEnd:     row.SegmentEnd.Format(dateLayout),
			DayCount:       row.DayCount,
			StockValue:     row.StockValue,
			WeightedMetric: row.WeightedMetric,
			ReturnedQtySum: row.ReturnedQtySum,
			CurrentStock:   row.CurrentStock,
			Month:          string(row.Month),
		})
	}
	for _, row := range r.Daily {
		out.Daily = append(out.Daily, DailyRowResponse{
			Company:              row.Company,
			TaxID:                row.TaxID,
			Product:              row.Product,
			Date:                 row.Date.Format(dateLayout),
			StockValue:           row.StockValue,
			WeightedMetricForDay: row.WeightedMetricForDay,
			ReturnedQtyForDay:    row.ReturnedQtyForDay,
			MonthlyReturnedTotal: row.MonthlyReturnedTotal,
			CurrentStock:         row.CurrentStock,
		})
	}
	for _, row := range r.Rotation {
		out.Rotation = append(out.Rotation, RotationRowResponse{
			Company:           row.Company,
			TaxID:             row.TaxID,
			Product:           row.Product,
			Month:             string(row.Month),
			MonthEndStock:     row.MonthEndStock,
			WeightedMetricSum: row.WeightedMetricSum,
			ReturnedQtySum:    row.ReturnedQtySum,
		})
	}
	for _, a := range r.Advisories {
		out.Advisories = append(out.Advisories, AdvisoryResponse{
			Code:    a.Code,
			Message: a.Message,
			Details: a.Details,
		})
	}
	return out
}
