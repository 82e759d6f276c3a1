package events

import (
	"regexp"
	"strings"
)

// Tax identifiers arrive embedded in free-text company headers, either
// dash-formatted or as a bare 10-digit run.
var (
	taxIDFormatted1 = regexp.MustCompile(`(\d{3})-(\d{2})-(\d{2})-(\d{3})`)
	taxIDFormatted2 = regexp.MustCompile(`(\d{3})-(\d{3})-(\d{2})-(\d{2})`)
	taxIDBare       = regexp.MustCompile(`(?:^|\s|[^\d])(\d{10})(?:\s|$|[^\d])`)
)

// ExtractTaxID pulls a 10-digit tax identifier out of free text.
// Returns the digits without separators, or empty when none is found.
func ExtractTaxID(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	if m := taxIDFormatted1.FindStringSubmatch(s); m != nil {
		return m[1] + m[2] + m[3] + m[4]
	}
	if m := taxIDFormatted2.FindStringSubmatch(s); m != nil {
		return m[1] + m[2] + m[3] + m[4]
	}
	// Bare run must be isolated: 10 digits inside a longer sequence are
	// something else (an account number, a barcode).
	if m := taxIDBare.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// NormalizeTaxID strips everything but digits.
func NormalizeTaxID(value string) string {
	var b strings.Builder
	for _, ch := range value {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// NormalizeDocumentNumber trims the number and fixes the recurring OCR
// misread of the FVS invoice prefix as FUS.
func NormalizeDocumentNumber(number string) string {
	trimmed := strings.TrimSpace(number)
	if len(trimmed) >= 3 && strings.EqualFold(trimmed[len(trimmed)-3:], "FUS") {
		return trimmed[:len(trimmed)-3] + "FVS"
	}
	return trimmed
}

// NormalizeCompanyName lowercases and collapses whitespace, the matching key
// used by the company directory.
func NormalizeCompanyName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}
