package db

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	// OtherCompanyNorm is the normalized key every blank, self-employed or
	// unknown company collapses to.
	OtherCompanyNorm = "other_unknown"
	// OtherCompanyName is the display name of that company when no raw name was given.
	OtherCompanyName = "Other_Unknown"
)

// otherCompanyMarkers are matched as substrings of the normalized name.
var otherCompanyMarkers = []string{"self", "freelance", "independent", "unknown", "n/a"}

// foldSpace trims, case-folds and collapses whitespace runs into single spaces.
func foldSpace(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// NormalizeCompany returns the grouping key for a company name.
//
//	"  Acme   Inc " -> "acme inc"
//	"Self-employed" -> OtherCompanyNorm
//	""              -> OtherCompanyNorm
func NormalizeCompany(name string) string {
	n := foldSpace(name)
	if n == "" {
		return OtherCompanyNorm
	}
	for _, marker := range otherCompanyMarkers {
		if strings.Contains(n, marker) {
			return OtherCompanyNorm
		}
	}
	return n
}

// NormalizePosition returns the grouping key for a job title. Blank input
// yields the empty string.
func NormalizePosition(name string) string {
	return foldSpace(name)
}
