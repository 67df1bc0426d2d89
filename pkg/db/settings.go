package db

import (
	"database/sql"
	"errors"
)

// Known setting keys
const (
	SettingEmployeeThreshold = "employee_threshold"
	SettingConnectionNote    = "connection_note"
)

// DefaultEmployeeThreshold is seeded on first open and used whenever the
// stored threshold is missing or invalid.
const DefaultEmployeeThreshold = 10

// GetSetting returns the value stored under key. The boolean is false when
// the key has never been set.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.exec.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, persistErr("get setting", err)
	}
	return value, true, nil
}

// SetSetting inserts or overwrites the value stored under key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.exec.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return persistErr("set setting", err)
}

// Settings returns every stored setting ordered by key.
func (s *Store) Settings() ([]Setting, error) {
	rows, err := s.exec.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, persistErr("list settings", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, persistErr("list settings", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list settings", err)
	}
	return out, nil
}
