package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names of a connections export.
const (
	ColFirstName   = "First Name"
	ColLastName    = "Last Name"
	ColURL         = "URL"
	ColEmail       = "Email Address"
	ColCompany     = "Company"
	ColPosition    = "Position"
	ColConnectedOn = "Connected On"
)

// RequiredColumns must all appear in a row for it to be taken as the header.
var RequiredColumns = []string{
	ColFirstName, ColLastName, ColURL, ColEmail, ColCompany, ColPosition, ColConnectedOn,
}

// ParseError reports an export file that could not be opened or parsed.
// Nothing has been written to the store when it is returned.
type ParseError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Record is one data row of the export mapped by column name.
// Values are as found in the file; Row is the 1-based position of the row
// among the parsed rows.
type Record struct {
	Row         int
	FirstName   string
	LastName    string
	URL         string
	Email       string
	Company     string
	Position    string
	ConnectedOn string
}

// ReadRows parses the CSV file at path into rows of cells, in file order.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := ParseRows(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return rows, nil
}

// ParseRows parses CSV text. A leading UTF-8 byte order mark is dropped and
// rows may have differing numbers of cells. Stray quotes are errors.
func ParseRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		line := 0
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			line = csvErr.Line
		}
		return nil, &ParseError{Line: line, Err: err}
	}
	return rows, nil
}

// FindHeaderRow returns the index of the first row containing every required
// column (cells compared after trimming). Exports often start with a few
// lines of notes; when no row qualifies the first row is used.
func FindHeaderRow(rows [][]string) int {
	for i, row := range rows {
		cells := make(map[string]bool, len(row))
		for _, c := range row {
			cells[strings.TrimSpace(c)] = true
		}
		found := true
		for _, col := range RequiredColumns {
			if !cells[col] {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return 0
}

// MapRecords zips every row after the header with the header's column names
// and returns typed records. Rows whose cells are all blank are dropped.
// Missing cells read as empty strings; extra columns are ignored.
func MapRecords(rows [][]string, headerIdx int) []Record {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}

	index := make(map[string]int, len(rows[headerIdx]))
	for i, name := range rows[headerIdx] {
		index[strings.TrimSpace(name)] = i
	}

	var out []Record
	for i, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		field := func(col string) string {
			pos, ok := index[col]
			if !ok || pos >= len(row) {
				return ""
			}
			return row[pos]
		}
		out = append(out, Record{
			Row:         headerIdx + i + 2,
			FirstName:   field(ColFirstName),
			LastName:    field(ColLastName),
			URL:         field(ColURL),
			Email:       field(ColEmail),
			Company:     field(ColCompany),
			Position:    field(ColPosition),
			ConnectedOn: field(ColConnectedOn),
		})
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
