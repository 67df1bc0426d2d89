package importer

import "strings"

// positionSeparators mark a position text as a list of titles.
var positionSeparators = []string{"/", ";", "|", "&", ","}

var separatorsToComma = strings.NewReplacer("/", ",", ";", ",", "|", ",", "&", ",")

// SplitPositions turns a raw position text into the titles a person is linked to.
//
// Text containing any separator has every separator rewritten to "," and is
// split on ","; each part is trimmed:
//
//	"Engineer, Manager" -> ["Engineer", "Manager"]
//	"Founder & CEO"     -> ["Founder", "CEO"]
//	"Manager/Lead"      -> ["Manager", "Lead"]
//	"Engineer"          -> ["Engineer"]
//
// Parts may be blank; the store never creates a position for blank text.
func SplitPositions(position string) []string {
	if !containsAny(position, positionSeparators) {
		return []string{position}
	}

	parts := strings.Split(separatorsToComma.Replace(position), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
