package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
)

const shiftColumns = "id, name, start_time, end_time, rest"

func scanShift(row interface{ Scan(...any) error }) (models.Shift, error) {
	var s models.Shift
	var rest int
	if err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &rest); err != nil {
		return models.Shift{}, err
	}
	s.Rest = rest != 0
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) AddShift(shift models.Shift) error {
	shift, err := storage.PrepareShift(shift)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO shifts (`+shiftColumns+`, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM shifts))`,
		shift.ID, shift.Name, shift.StartTime, shift.EndTime, boolToInt(shift.Rest),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", storage.ErrDuplicateShift, shift.ID)
		}
		return err
	}
	return nil
}

func (s *Store) GetShift(id string) (models.Shift, error) {
	row := s.db.QueryRow("SELECT "+shiftColumns+" FROM shifts WHERE id = ?", id)
	shift, err := scanShift(row)
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
		UPDATE shifts SET name = ?, start_time = ?, end_time = ?, rest = ?
		WHERE id = ?`,
		shift.Name, shift.StartTime, shift.EndTime, boolToInt(shift.Rest), shift.ID,
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

	if _, err := tx.Exec("UPDATE week_plan SET shift_id = NULL WHERE shift_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear plan days: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM shifts WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
