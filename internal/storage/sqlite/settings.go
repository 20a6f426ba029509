package sqlite

import (
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
)

func (s *Store) readKV(table string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM " + table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		data[key] = value
	}
	return data, rows.Err()
}

func (s *Store) writeKV(table string, data map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO " + table + " (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range data {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetSettings() (models.Settings, error) {
	data, err := s.readKV("settings")
	if err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, storage.ErrSettingsNotFound
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.writeKV("settings", models.SettingsToMap(settings))
}

func (s *Store) GetPreferences() (models.Preferences, error) {
	data, err := s.readKV("preferences")
	if err != nil {
		return models.Preferences{}, err
	}
	return models.MapToPreferences(data)
}

func (s *Store) SavePreferences(prefs models.Preferences) error {
	prefs.Clamp()
	return s.writeKV("preferences", models.PreferencesToMap(prefs))
}
