package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"bottledays/internal/core/apperror"
	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/events"
)

const eventsTable = "exchange_events"

// eventRow is the table image of one exchange event. A NULL issue_date marks
// a row whose source date never parsed; raw_date keeps the original value.
type eventRow struct {
	ID             int64          `db:"id"`
	Company        string         `db:"company"`
	TaxID          string         `db:"tax_id"`
	Product        string         `db:"product"`
	DocumentNumber string         `db:"document_number"`
	IssueDate      *time.Time     `db:"issue_date"`
	RawDate        string         `db:"raw_date"`
	QtyDelivered   types.Quantity `db:"qty_delivered"`
	QtyReturned    types.Quantity `db:"qty_returned"`
	StockBefore    types.Quantity `db:"stock_before"`
	StockAfter     types.Quantity `db:"stock_after"`
}

func (r eventRow) toDomain() events.Event {
	e := events.Event{
		Company:        r.Company,
		TaxID:          r.TaxID,
		Product:        r.Product,
		DocumentNumber: r.DocumentNumber,
		RawDate:        r.RawDate,
		QtyDelivered:   r.QtyDelivered,
		QtyReturned:    r.QtyReturned,
		StockBefore:    r.StockBefore,
		StockAfter:     r.StockAfter,
	}
	if r.IssueDate != nil {
		e.IssueDate = dates.Day(*r.IssueDate)
		e.DateValid = true
	}
	return e
}

// EventRepo implements events.Repository on PostgreSQL.
type EventRepo struct {
	pool    *Pool
	builder squirrel.StatementBuilderType
}

// NewEventRepo creates a new event repository.
func NewEventRepo(pool *Pool) *EventRepo {
	return &EventRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns events matching the query in (company, product, date) order.
// Rows with a NULL issue date are always included; the engine decides what to
// do with them.
func (r *EventRepo) List(ctx context.Context, q events.Query) ([]events.Event, error) {
	ctx, span := otel.Tracer("bottledays/storage").Start(ctx, "events.List")
	defer span.End()

	sb := r.builder.
		Select("id", "company", "tax_id", "product", "document_number",
			"issue_date", "raw_date",
			"qty_delivered", "qty_returned", "stock_before", "stock_after").
		From(eventsTable).
		OrderBy("company", "product", "issue_date NULLS LAST", "document_number", "id")

	if q.CompanyContains != "" {
		sb = sb.Where(squirrel.ILike{"company": "%" + q.CompanyContains + "%"})
	}
	if q.From != nil {
		sb = sb.Where(squirrel.Or{
			squirrel.Eq{"issue_date": nil},
			squirrel.GtOrEq{"issue_date": *q.From},
		})
	}
	if q.To != nil {
		sb = sb.Where(squirrel.Or{
			squirrel.Eq{"issue_date": nil},
			squirrel.LtOrEq{"issue_date": *q.To},
		})
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var rows []eventRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	out := make([]events.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	span.SetAttributes(attribute.Int("events.count", len(out)))
	return out, nil
}

// Insert stores new real events and returns the number written. Synthetic
// events are skipped; they exist only inside a report computation.
func (r *EventRepo) Insert(ctx context.Context, list []events.Event) (int, error) {
	sb := r.builder.
		Insert(eventsTable).
		Columns("company", "tax_id", "product", "document_number",
			"issue_date", "raw_date",
			"qty_delivered", "qty_returned", "stock_before", "stock_after")

	n := 0
	for _, e := range list {
		if e.Synthetic {
			continue
		}
		var issueDate *time.Time
		if e.DateValid {
			d := e.IssueDate
			issueDate = &d
		}
		sb = sb.Values(e.Company, e.TaxID, e.Product, e.DocumentNumber,
			issueDate, e.RawDate,
			e.QtyDelivered, e.QtyReturned, e.StockBefore, e.StockAfter)
		n++
	}
	if n == 0 {
		return 0, nil
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(err)
	}
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return 0, apperror.NewDatabase(err)
	}
	return n, nil
}
