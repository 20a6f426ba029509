package sqlite

import (
	"database/sql"
	"time"

	"github.com/julianstephens/shiftwake/internal/models"
)

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
		if !id.Valid {
			continue
		}
		if err := plan.Assign(day, &id.String); err != nil {
			return models.WeekPlan{}, err
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

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO week_plan (day_index, shift_id) VALUES (?, ?)")
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
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notification_log WHERE day = ? AND checkpoint = ?", day, checkpoint).Scan(&n)
	return n > 0, err
}

func (s *Store) RecordNotification(day, checkpoint string, at time.Time) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO notification_log (day, checkpoint, sent_at) VALUES (?, ?, ?)",
		day, checkpoint, at.UTC().Format(time.RFC3339),
	)
	return err
}
