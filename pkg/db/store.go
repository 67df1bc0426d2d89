package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// maxIDsPerStatement bounds the number of bound parameters in one IN (...) list.
const maxIDsPerStatement = 500

// GetOrCreateCompany returns the id of the company whose normalized name
// matches rawName, inserting it when absent. The stored original name is the
// one given on first sight; blank names map to the Other/Unknown company.
func (s *Store) GetOrCreateCompany(rawName string) (int64, error) {
	original := rawName
	if strings.TrimSpace(rawName) == "" {
		original = OtherCompanyName
	}
	id, err := s.getOrCreateNamed("companies", original, NormalizeCompany(rawName))
	if err != nil {
		return 0, persistErr("get or create company", err)
	}
	return id, nil
}

// GetOrCreatePosition returns the id of the position whose normalized name
// matches rawName, inserting it when absent.
func (s *Store) GetOrCreatePosition(rawName string) (int64, error) {
	norm := NormalizePosition(rawName)
	if norm == "" {
		return 0, ErrBlankPosition
	}
	id, err := s.getOrCreateNamed("positions", rawName, norm)
	if err != nil {
		return 0, persistErr("get or create position", err)
	}
	return id, nil
}

// getOrCreateNamed resolves a (name_original, name_norm) row of table.
// The UNIQUE constraint on name_norm makes the insert race-free: a losing
// insert is ignored and the winner's row is selected again.
func (s *Store) getOrCreateNamed(table, original, norm string) (int64, error) {
	selectQ := fmt.Sprintf(`SELECT id FROM %s WHERE name_norm = ?`, table)

	const maxRetries = 3
	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.exec.QueryRow(selectQ, norm).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}

		res, err := s.exec.Exec(
			fmt.Sprintf(`INSERT INTO %s (name_original, name_norm) VALUES (?, ?)`, table),
			original, norm,
		)
		if err != nil {
			// Another writer inserted the same norm between our SELECT and INSERT.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}
	return 0, fmt.Errorf("could not get or create %s row %q after %d retries", table, norm, maxRetries)
}

// PersonExists reports whether a person with the same URL (when url is
// non-empty) or the same exact first name, last name and company is stored.
func (s *Store) PersonExists(first, last string, companyID int64, url string) (bool, error) {
	var one int
	if url != "" {
		err := s.exec.QueryRow(`SELECT 1 FROM people WHERE url = ? LIMIT 1`, url).Scan(&one)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, persistErr("check person by url", err)
		}
	}

	err := s.exec.QueryRow(
		`SELECT 1 FROM people WHERE first_name = ? AND last_name = ? AND company_id = ? LIMIT 1`,
		first, last, companyID,
	).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, persistErr("check person by name", err)
}

// AddPerson inserts p unconditionally as an unvisited person and returns its id.
// Callers deduplicate with PersonExists first.
func (s *Store) AddPerson(p NewPerson) (int64, error) {
	res, err := s.exec.Exec(
		`INSERT INTO people (first_name, last_name, url, email, company_id, position_raw)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.FirstName, p.LastName, p.URL, p.Email, p.CompanyID, p.PositionRaw,
	)
	if err != nil {
		return 0, persistErr("add person", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistErr("add person", err)
	}
	return id, nil
}

// LinkPositions links personID to the position of every non-blank text.
// Linking an already linked pair is a no-op.
func (s *Store) LinkPositions(personID int64, positions []string) error {
	return s.WithTx(func(tx *Store) error {
		for _, p := range positions {
			if strings.TrimSpace(p) == "" {
				continue
			}
			positionID, err := tx.GetOrCreatePosition(p)
			if err != nil {
				return err
			}
			if _, err := tx.exec.Exec(
				`INSERT OR IGNORE INTO person_positions (person_id, position_id) VALUES (?, ?)`,
				personID, positionID,
			); err != nil {
				return persistErr("link position", err)
			}
		}
		return nil
	})
}

// MarkVisited flags the given people as visited. Unknown ids are ignored.
func (s *Store) MarkVisited(ids []int64) error {
	return s.setVisited(ids, true)
}

// UnmarkVisited clears the visited flag of the given people.
func (s *Store) UnmarkVisited(ids []int64) error {
	return s.setVisited(ids, false)
}

func (s *Store) setVisited(ids []int64, visited bool) error {
	if len(ids) == 0 {
		return nil
	}
	return s.WithTx(func(tx *Store) error {
		for _, chunk := range chunkIDs(ids) {
			q := `UPDATE people SET visited = ? WHERE id IN (` + placeholders(len(chunk)) + `)`
			args := append([]interface{}{visited}, idArgs(chunk)...)
			if _, err := tx.exec.Exec(q, args...); err != nil {
				return persistErr("update visited", err)
			}
		}
		return nil
	})
}

// DeletePeople removes the given people and their position links in one
// transaction. Unknown ids are ignored.
func (s *Store) DeletePeople(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.WithTx(func(tx *Store) error {
		for _, chunk := range chunkIDs(ids) {
			in := placeholders(len(chunk))
			args := idArgs(chunk)
			if _, err := tx.exec.Exec(`DELETE FROM person_positions WHERE person_id IN (`+in+`)`, args...); err != nil {
				return persistErr("delete position links", err)
			}
			if _, err := tx.exec.Exec(`DELETE FROM people WHERE id IN (`+in+`)`, args...); err != nil {
				return persistErr("delete people", err)
			}
		}
		return nil
	})
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func chunkIDs(ids []int64) [][]int64 {
	var chunks [][]int64
	for len(ids) > maxIDsPerStatement {
		chunks = append(chunks, ids[:maxIDsPerStatement])
		ids = ids[maxIDsPerStatement:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
