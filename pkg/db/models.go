package db

// Company groups people by employer. NameNorm is the uniqueness key;
// NameOriginal keeps the first spelling seen for that key.
type Company struct {
	ID           int64  `json:"id"`
	NameOriginal string `json:"name"`
	NameNorm     string `json:"name_norm"`
}

// Position is a normalized job title a person can be linked to.
type Position struct {
	ID           int64  `json:"id"`
	NameOriginal string `json:"name"`
	NameNorm     string `json:"name_norm"`
}

// Person is a stored contact joined with the display name of its company.
type Person struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	URL         string `json:"url"`
	Email       string `json:"email"`
	CompanyID   int64  `json:"company_id"`
	Company     string `json:"company"`
	PositionRaw string `json:"position"`
	Visited     bool   `json:"visited"`
}

// NewPerson holds the fields of a person about to be inserted.
type NewPerson struct {
	FirstName   string
	LastName    string
	URL         string
	Email       string
	CompanyID   int64
	PositionRaw string
}

// CompanyCount is a company with the number of people stored for it.
type CompanyCount struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	People int    `json:"people"`
}

// VisitedStats counts visited people against all people.
type VisitedStats struct {
	Visited int `json:"visited"`
	Total   int `json:"total"`
}

// Setting is one row of the key/value settings table.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
