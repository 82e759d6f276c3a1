package dto

import (
	"time"

	"bottledays/internal/domain/companies"
)

// CompanyResponse is one directory entry.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCompany converts a domain company.
func FromCompany(c *companies.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromCompanies converts a list of domain companies.
func FromCompanies(list []companies.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(list))
	for i := range list {
		out = append(out, FromCompany(&list[i]))
	}
	return out
}

// CreateCompanyRequest for adding a directory entry.
type CreateCompanyRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"taxId" binding:"required"`
}

// UpdateCompanyRequest for changing a directory entry.
type UpdateCompanyRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"taxId" binding:"required"`
}
