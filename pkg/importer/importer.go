// Package importer loads a downloaded connections export (CSV) into the
// contact store, skipping people that are already stored.
package importer

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/japaniel/connections/pkg/db"
)

// noName labels a duplicate whose first and last names are both empty.
const noName = "(no name)"

// Report summarizes one import run.
type Report struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
	// Records is the number of non-blank data rows found after the header.
	Records int `json:"records"`
	Added   int `json:"added"`
	// Unnamed counts rows skipped because both name cells were empty.
	Unnamed int `json:"unnamed"`
	// Duplicates holds "First Last" for every row matching a stored person,
	// in file order.
	Duplicates []string `json:"duplicates"`
}

// Importer turns export rows into people, companies and positions.
type Importer struct {
	store *db.Store
	// Logger receives progress messages. nil means no logging.
	Logger *slog.Logger
}

// NewImporter creates an importer writing to store.
func NewImporter(store *db.Store) *Importer {
	return &Importer{store: store}
}

// ImportFile imports the export at path and returns the identities skipped
// as duplicates.
func ImportFile(path string, store *db.Store) ([]string, error) {
	rep, err := NewImporter(store).ImportFile(path)
	if err != nil {
		return nil, err
	}
	return rep.Duplicates, nil
}

// ImportFile parses the whole file before writing anything, so a malformed
// file leaves the store untouched. Each row then commits in its own
// transaction: when a storage error stops the run, rows already imported stay.
func (im *Importer) ImportFile(path string) (*Report, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	records := MapRecords(rows, FindHeaderRow(rows))

	rep, err := im.ImportRecords(records)
	if rep != nil {
		rep.Path = path
	}
	return rep, err
}

// ImportRecords stores records in order. On error the partial report is
// returned alongside it.
func (im *Importer) ImportRecords(records []Record) (*Report, error) {
	rep := &Report{ID: uuid.NewString(), Records: len(records), Duplicates: []string{}}
	logger := im.logger().With("import_id", rep.ID)
	logger.Info("import started", "records", len(records))

	for _, rec := range records {
		added, err := im.importRecord(rec, rep, logger)
		if err != nil {
			logger.Error("import aborted", "row", rec.Row, "error", err)
			return rep, err
		}
		if added {
			rep.Added++
		}
	}

	logger.Info("import completed",
		"added", rep.Added,
		"duplicates", len(rep.Duplicates),
		"unnamed", rep.Unnamed,
	)
	return rep, nil
}

// importRecord stores one record. It returns false for skipped rows.
func (im *Importer) importRecord(rec Record, rep *Report, logger *slog.Logger) (bool, error) {
	first := strings.TrimSpace(rec.FirstName)
	last := strings.TrimSpace(rec.LastName)
	if first == "" && last == "" {
		rep.Unnamed++
		return false, nil
	}
	url := strings.TrimSpace(rec.URL)
	email := strings.TrimSpace(rec.Email)
	company := strings.TrimSpace(rec.Company)
	position := strings.TrimSpace(rec.Position)

	var duplicate bool
	err := im.store.WithTx(func(tx *db.Store) error {
		companyID, err := tx.GetOrCreateCompany(company)
		if err != nil {
			return err
		}

		exists, err := tx.PersonExists(first, last, companyID, url)
		if err != nil {
			return err
		}
		if exists {
			duplicate = true
			return nil
		}

		personID, err := tx.AddPerson(db.NewPerson{
			FirstName:   first,
			LastName:    last,
			URL:         url,
			Email:       email,
			CompanyID:   companyID,
			PositionRaw: position,
		})
		if err != nil {
			return err
		}
		return tx.LinkPositions(personID, SplitPositions(position))
	})
	if err != nil {
		return false, err
	}

	if duplicate {
		rep.Duplicates = append(rep.Duplicates, identity(first, last))
		logger.Debug("duplicate skipped", "row", rec.Row, "name", identity(first, last))
		return false, nil
	}
	return true, nil
}

func identity(first, last string) string {
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return noName
}

func (im *Importer) logger() *slog.Logger {
	if im.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return im.Logger
}
