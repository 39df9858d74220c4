package store

import (
	"database/sql"
	"errors"
	"strings"
)

const selectedTypesKey = "selected_activity_types"

// GetSelectedTypes returns the persisted activity-type selection as raw
// keys. An empty slice means no selection has been saved yet.
func (db *DB) GetSelectedTypes() ([]string, error) {
	row := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, selectedTypesKey)

	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return strings.Split(value, ","), nil
}

// SetSelectedTypes persists the activity-type selection
func (db *DB) SetSelectedTypes(raw []string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, selectedTypesKey, strings.Join(raw, ","))
	return err
}
