// Package companies maintains the company directory used to backfill tax
// identifiers on report rows.
package companies

import (
	"time"

	"github.com/google/uuid"

	"bottledays/internal/domain/events"
)

// Company is a directory entry.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TaxID     string    `db:"tax_id" json:"taxId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Directory is an in-memory lookup from normalized company name to tax id,
// built once per report invocation.
type Directory struct {
	byName map[string]string
}

// NewDirectory builds a Directory from directory entries. Entries without a
// valid tax id are skipped; on normalized-name collisions the first entry
// wins, matching the report join policy.
func NewDirectory(list []Company) *Directory {
	byName := make(map[string]string, len(list))
	for _, c := range list {
		taxID := events.NormalizeTaxID(c.TaxID)
		name := events.NormalizeCompanyName(c.Name)
		if name == "" || taxID == "" {
			continue
		}
		if _, ok := byName[name]; !ok {
			byName[name] = taxID
		}
	}
	return &Directory{byName: byName}
}

// Resolve returns the tax id registered for a company name, or empty.
func (d *Directory) Resolve(name string) string {
	if d == nil {
		return ""
	}
	return d.byName[events.NormalizeCompanyName(name)]
}

// Backfill fills missing tax ids on events from the directory. Events that
// already carry a tax id are left alone.
func (d *Directory) Backfill(list []events.Event) {
	if d == nil {
		return
	}
	for i := range list {
		if events.NormalizeTaxID(list[i].TaxID) != "" {
			continue
		}
		if taxID := d.Resolve(list[i].Company); taxID != "" {
			list[i].TaxID = taxID
		}
	}
}
