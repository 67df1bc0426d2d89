package db

import (
	"database/sql"
	"errors"
	"strconv"
)

const selectPeople = `SELECT p.id, p.first_name, p.last_name, p.url, p.email,
       p.company_id, IFNULL(c.name_original, ''), p.position_raw, p.visited
FROM people p
LEFT JOIN companies c ON c.id = p.company_id`

const orderPeople = ` ORDER BY p.last_name COLLATE NOCASE, p.first_name COLLATE NOCASE, p.id`

// GetAllPeople returns every person ordered by last name then first name,
// case-insensitively.
func (s *Store) GetAllPeople() ([]Person, error) {
	return s.queryPeople("get all people", selectPeople+orderPeople)
}

// GetUnvisitedPeople returns people not yet visited, optionally restricted to
// the given companies. No ids means no company filter.
func (s *Store) GetUnvisitedPeople(companyIDs ...int64) ([]Person, error) {
	if len(companyIDs) == 0 {
		return s.queryPeople("get unvisited people", selectPeople+` WHERE p.visited = 0`+orderPeople)
	}
	q := selectPeople + ` WHERE p.visited = 0 AND p.company_id IN (` + placeholders(len(companyIDs)) + `)` + orderPeople
	return s.queryPeople("get unvisited people", q, idArgs(companyIDs)...)
}

// GetPeopleFiltered returns people working at any of the given companies.
// No ids returns everyone.
func (s *Store) GetPeopleFiltered(companyIDs ...int64) ([]Person, error) {
	if len(companyIDs) == 0 {
		return s.GetAllPeople()
	}
	q := selectPeople + ` WHERE p.company_id IN (` + placeholders(len(companyIDs)) + `)` + orderPeople
	return s.queryPeople("get people by company", q, idArgs(companyIDs)...)
}

// GetPerson returns one person. The boolean is false when id is unknown.
func (s *Store) GetPerson(id int64) (Person, bool, error) {
	var p Person
	err := s.exec.QueryRow(selectPeople+` WHERE p.id = ?`, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.URL, &p.Email,
		&p.CompanyID, &p.Company, &p.PositionRaw, &p.Visited,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, false, nil
	}
	if err != nil {
		return Person{}, false, persistErr("get person", err)
	}
	return p, true, nil
}

// PeopleURLs returns the non-empty profile URLs of the given people in
// display order.
func (s *Store) PeopleURLs(ids []int64) ([]string, error) {
	var urls []string
	for _, chunk := range chunkIDs(ids) {
		people, err := s.queryPeople("get people urls",
			selectPeople+` WHERE p.id IN (`+placeholders(len(chunk))+`) AND p.url <> ''`+orderPeople,
			idArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		for _, p := range people {
			urls = append(urls, p.URL)
		}
	}
	return urls, nil
}

// PositionsFor returns the normalized positions linked to a person, by name.
func (s *Store) PositionsFor(personID int64) ([]Position, error) {
	rows, err := s.exec.Query(
		`SELECT pos.id, pos.name_original, pos.name_norm
		 FROM positions pos
		 JOIN person_positions pp ON pp.position_id = pos.id
		 WHERE pp.person_id = ?
		 ORDER BY pos.name_norm`, personID)
	if err != nil {
		return nil, persistErr("get positions", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.NameOriginal, &p.NameNorm); err != nil {
			return nil, persistErr("get positions", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("get positions", err)
	}
	return out, nil
}

// CompaniesAboveThreshold returns companies with at least
// EmployeeThreshold people, ordered by name case-insensitively.
func (s *Store) CompaniesAboveThreshold() ([]CompanyCount, error) {
	threshold, err := s.EmployeeThreshold()
	if err != nil {
		return nil, err
	}
	return s.CompaniesWithAtLeast(threshold)
}

// CompaniesWithAtLeast returns companies with at least min people.
func (s *Store) CompaniesWithAtLeast(min int) ([]CompanyCount, error) {
	rows, err := s.exec.Query(
		`SELECT c.id, c.name_original, COUNT(p.id) AS num
		 FROM companies c
		 JOIN people p ON p.company_id = c.id
		 GROUP BY c.id
		 HAVING COUNT(p.id) >= ?
		 ORDER BY c.name_original COLLATE NOCASE`, min)
	if err != nil {
		return nil, persistErr("get companies", err)
	}
	defer rows.Close()

	var out []CompanyCount
	for rows.Next() {
		var c CompanyCount
		if err := rows.Scan(&c.ID, &c.Name, &c.People); err != nil {
			return nil, persistErr("get companies", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("get companies", err)
	}
	return out, nil
}

// VisitedStats counts visited and total people.
func (s *Store) VisitedStats() (VisitedStats, error) {
	var st VisitedStats
	err := s.exec.QueryRow(
		`SELECT IFNULL(SUM(CASE WHEN visited = 1 THEN 1 ELSE 0 END), 0), COUNT(*) FROM people`,
	).Scan(&st.Visited, &st.Total)
	if err != nil {
		return VisitedStats{}, persistErr("get visited stats", err)
	}
	return st, nil
}

// EmployeeThreshold returns the minimum company size shown in company
// listings. Missing or unparsable values fall back to DefaultEmployeeThreshold.
func (s *Store) EmployeeThreshold() (int, error) {
	v, ok, err := s.GetSetting(SettingEmployeeThreshold)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultEmployeeThreshold, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return DefaultEmployeeThreshold, nil
	}
	return n, nil
}

func (s *Store) queryPeople(op, query string, args ...interface{}) ([]Person, error) {
	rows, err := s.exec.Query(query, args...)
	if err != nil {
		return nil, persistErr(op, err)
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.URL, &p.Email,
			&p.CompanyID, &p.Company, &p.PositionRaw, &p.Visited,
		); err != nil {
			return nil, persistErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op, err)
	}
	return out, nil
}
