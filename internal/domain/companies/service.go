package companies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bottledays/internal/core/apperror"
	"bottledays/internal/domain/events"
)

// Service provides business logic for the company directory.
type Service struct {
	repo Repository
}

// NewService creates a new company directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all directory entries.
func (s *Service) List(ctx context.Context) ([]Company, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return list, nil
}

// Get returns one directory entry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.Get(ctx, id)
}

// Directory loads the whole directory as a lookup table.
func (s *Service) Directory(ctx context.Context) (*Directory, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load company directory: %w", err)
	}
	return NewDirectory(list), nil
}

// Create validates and stores a new entry. Names are unique under
// normalization; the tax id must normalize to ten digits.
func (s *Service) Create(ctx context.Context, name, taxID string) (*Company, error) {
	name, taxID, err := s.validate(name, taxID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, events.NormalizeCompanyName(name))
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("company", "name", name)
	}

	now := time.Now().UTC()
	c := &Company{
		ID:        uuid.New(),
		Name:      name,
		TaxID:     taxID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// Update changes name and/or tax id of an existing entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, taxID string) (*Company, error) {
	name, taxID, err := s.validate(name, taxID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.TaxID = taxID
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(name, taxID string) (string, string, error) {
	name = strings.TrimSpace(name)
	if events.NormalizeCompanyName(name) == "" {
		return "", "", apperror.NewValidation("company name is required")
	}
	normalized := events.NormalizeTaxID(taxID)
	if len(normalized) != 10 {
		return "", "", apperror.NewValidation("tax id must contain exactly 10 digits").
			WithDetail("tax_id", taxID)
	}
	return name, normalized, nil
}
