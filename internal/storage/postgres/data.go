package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

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

	stmt, err := tx.Prepare(`
		INSERT INTO ` + table + ` (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
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

const shiftColumns = "id, name, start_time, end_time, rest"

func scanShift(row interface{ Scan(...any) error }) (models.Shift, error) {
	var sh models.Shift
	if err := row.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.Rest); err != nil {
		return models.Shift{}, err
	}
	return sh, nil
}

func (s *Store) AddShift(shift models.Shift) error {
	shift, err := storage.PrepareShift(shift)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO shifts (`+shiftColumns+`, position)
		VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(position), 0) + 1 FROM shifts))`,
		shift.ID, shift.Name, shift.StartTime, shift.EndTime, shift.Rest,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateShift, shift.ID)
	}
	return err
}

func (s *Store) GetShift(id string) (models.Shift, error) {
	shift, err := scanShift(s.db.QueryRow("SELECT "+shiftColumns+" FROM shifts WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Shift{}, fmt.Errorf("%w: %s", models.ErrShiftNotFound, id)
	}
	return shift, err
}

func (s *Store) GetAllShifts() ([]models.Shift, error) {
	rows, err := s.db.Query("SELECT " + shiftColumns + " FROM shifts ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (s *Store) UpdateShift(shift models.Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	shifts, err := s.GetAllShifts()
	if err != nil {
		return err
	}
	settings, err := s.GetSettings()
	if err != nil {
		return err
	}
	if err := models.CheckShiftUpdate(shifts, shift, settings.RestPolicy()); err != nil {
		return fmt.Errorf("cannot update shift %s: %w", shift.ID, err)
	}

	res, err := s.db.Exec(`
		UPDATE shifts SET name = $1, start_time = $2, end_time = $3, rest = $4
		WHERE id = $5`,
		shift.Name, shift.StartTime, shift.EndTime, shift.Rest, shift.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", models.ErrShiftNotFound, shift.ID)
	}
	return nil
}

func (s *Store) DeleteShift(id string) error {
	shifts, err := s.GetAllShifts()
	if err != nil {
		return err
	}
	settings, err := s.GetSettings()
	if err != nil {
		return err
	}
	if err := models.CheckShiftDeletion(shifts, id, settings.RestPolicy()); err != nil {
		return fmt.Errorf("cannot delete shift %s: %w", id, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE week_plan SET shift_id = NULL WHERE shift_id = $1", id); err != nil {
		return fmt.Errorf("failed to clear plan days: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM shifts WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetWeekPlan() (models.WeekPlan, error) {
	var plan models.WeekPlan
	rows, err := s.db.Query("SELECT day_index, shift_id FROM week_plan ORDER BY day_index")
	if err != nil {
		return plan, err
	}
	defer rows.Close()

	for rows.Next() {
		var day int
		var id sql.NullString
		if err := rows.Scan(&day, &id); err != nil {
			return models.WeekPlan{}, err
		}
		if id.Valid {
			if err := plan.Assign(day, &id.String); err != nil {
				return models.WeekPlan{}, err
			}
		}
	}
	return plan, rows.Err()
}

func (s *Store) SetDayShift(day int, shiftID *string) error {
	plan, err := s.GetWeekPlan()
	if err != nil {
		return err
	}
	if err := plan.Assign(day, shiftID); err != nil {
		return err
	}
	return s.SaveWeekPlan(plan)
}

func (s *Store) SaveWeekPlan(plan models.WeekPlan) error {
	shifts, err := s.GetAllShifts()
	if err != nil {
		return err
	}
	if err := plan.CheckReferences(shifts); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO week_plan (day_index, shift_id) VALUES ($1, $2)
		ON CONFLICT (day_index) DO UPDATE SET shift_id = EXCLUDED.shift_id
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for day, id := range plan {
		var v sql.NullString
		if id != nil {
			v = sql.NullString{String: *id, Valid: true}
		}
		if _, err := stmt.Exec(day, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) WasNotified(day, checkpoint string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM notification_log WHERE day = $1 AND checkpoint = $2)",
		day, checkpoint,
	).Scan(&exists)
	return exists, err
}

func (s *Store) RecordNotification(day, checkpoint string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO notification_log (day, checkpoint, sent_at) VALUES ($1, $2, $3)
		ON CONFLICT (day, checkpoint) DO UPDATE SET sent_at = EXCLUDED.sent_at`,
		day, checkpoint, at.UTC(),
	)
	return err
}
