package postgres

import (
	"strings"
	"testing"
)

// The company name uniqueness index and FindByName must agree on the
// normalization, or a name with doubled inner spaces becomes unfindable.
func TestSchema_NameIndexUsesLookupExpression(t *testing.T) {
	found := false
	for _, stmt := range schema {
		if !strings.Contains(stmt, "CREATE UNIQUE INDEX") {
			continue
		}
		if strings.Contains(stmt, "companies_norm_name_key") {
			found = true
			if !strings.Contains(stmt, normalizedNameExpr) {
				t.Errorf("name index does not use the lookup expression:\n%s", stmt)
			}
		}
		if strings.Contains(stmt, "(lower(name))") {
			t.Errorf("index on bare lower(name) left in the schema:\n%s", stmt)
		}
	}
	if !found {
		t.Error("companies name index missing from the schema")
	}
}
