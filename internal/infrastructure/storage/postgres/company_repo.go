package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"bottledays/internal/core/apperror"
	"bottledays/internal/domain/companies"
)

const companiesTable = "companies"

var companyColumns = []string{"id", "name", "tax_id", "created_at", "updated_at"}

// CompanyRepo implements companies.Repository on PostgreSQL.
type CompanyRepo struct {
	pool    *Pool
	builder squirrel.StatementBuilderType
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(pool *Pool) *CompanyRepo {
	return &CompanyRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CompanyRepo) List(ctx context.Context) ([]companies.Company, error) {
	sql, args, err := r.builder.
		Select(companyColumns...).
		From(companiesTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var out []companies.Company
	if err := pgxscan.Select(ctx, r.pool, &out, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return out, nil
}

func (r *CompanyRepo) Get(ctx context.Context, id uuid.UUID) (*companies.Company, error) {
	sql, args, err := r.builder.
		Select(companyColumns...).
		From(companiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var c companies.Company
	if err := pgxscan.Get(ctx, r.pool, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", id)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &c, nil
}

func (r *CompanyRepo) FindByName(ctx context.Context, normalizedName string) (*companies.Company, error) {
	sql, args, err := r.builder.
		Select(companyColumns...).
		From(companiesTable).
		Where(normalizedNameExpr+" = ?", normalizedName).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var c companies.Company
	if err := pgxscan.Get(ctx, r.pool, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", normalizedName)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &c, nil
}

func (r *CompanyRepo) Create(ctx context.Context, c *companies.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	sql, args, err := r.builder.
		Insert(companiesTable).
		Columns(companyColumns...).
		Values(c.ID, c.Name, c.TaxID, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *companies.Company) error {
	c.UpdatedAt = time.Now().UTC()

	sql, args, err := r.builder.
		Update(companiesTable).
		Set("name", c.Name).
		Set("tax_id", c.TaxID).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("company", c.ID)
	}
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.builder.
		Delete(companiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("company", id)
	}
	return nil
}
