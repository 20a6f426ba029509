package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/reminder"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/upcoming"
)

// resolve reads the meal, at and day query parameters shared by the timeline
// and reminder endpoints.
func (s *Server) resolve(r *http.Request) (upcoming.Result, error) {
	q := r.URL.Query()
	now := s.now()
	if at := q.Get("at"); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return upcoming.Result{}, badRequest(fmt.Errorf("at must be RFC3339: %w", err))
		}
		now = t
	}

	opts := upcoming.Options{Meal: q.Get("meal")}
	switch q.Get("day") {
	case "", "relevant":
	case "tomorrow":
		opts.Tomorrow = true
	default:
		return upcoming.Result{}, badRequest(fmt.Errorf("day must be relevant or tomorrow"))
	}
	if _, err := models.ParseMealSelection(opts.Meal); err != nil {
		return upcoming.Result{}, badRequest(err)
	}

	return upcoming.Resolve(s.store, s.calc, now, opts)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	res, err := s.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("compact") == "true" {
		prefs, err := s.store.GetPreferences()
		if err != nil {
			writeError(w, err)
			return
		}
		compact, err := s.calc.CalculateCompact(res.Shift, prefs.Compact(res.Meal))
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]interface{}{
			"selection":   res.Selection,
			"shift":       res.Shift,
			"meal":        res.Meal,
			"times":       compact,
			"checkpoints": compact.Checkpoints(),
		})
		return
	}

	writeSuccess(w, http.StatusOK, "", res)
}

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	key := models.CheckpointEarliestAlarm
	if raw := r.URL.Query().Get("checkpoint"); raw != "" {
		k, ok := models.ParseCheckpointKey(raw)
		if !ok {
			writeError(w, badRequest(fmt.Errorf("unknown checkpoint %q", raw)))
			return
		}
		key = k
	}

	res, err := s.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Times.Rest {
		writeError(w, badRequest(fmt.Errorf("%s is a rest day", res.Selection.DayName())))
		return
	}

	at, _ := res.Times.Get(key)
	data, err := reminder.ExportReminder(at, res.Shift.Name, res.Now)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(headerContentType, mimeCalendar)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reminder.Filename(at)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.store.GetAllShifts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", shifts)
}

func (s *Server) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var shift models.Shift
	if err := decodeBody(r, &shift); err != nil {
		writeError(w, err)
		return
	}
	shift, err := storage.PrepareShift(shift)
	if err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := s.store.AddShift(shift); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "shift created", shift)
}

func (s *Server) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	var shift models.Shift
	if err := decodeBody(r, &shift); err != nil {
		writeError(w, err)
		return
	}
	shift.ID = chi.URLParam(r, "id")
	if err := shift.Validate(); err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := s.store.UpdateShift(shift); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "shift updated", shift)
}

func (s *Server) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteShift(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "shift deleted", nil)
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	plan, err := s.store.GetWeekPlan()
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", plan.Days())
}

func (s *Server) handleSetDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || !models.ValidDayIndex(day) {
		writeError(w, models.ErrInvalidDayIndex)
		return
	}

	var body struct {
		ShiftID *string `json:"shiftId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.SetDayShift(day, body.ShiftID); err != nil {
		if errors.Is(err, models.ErrShiftNotFound) {
			err = badRequest(err)
		}
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "day updated", models.DayAssignment{DayIndex: day, ShiftID: body.ShiftID})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.GetPreferences()
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", prefs)
}

// handlePatchPreferences accepts a map of preference keys to minutes (or the
// cutoff hour). Keys may be the stored snake_case names or the JSON field
// names returned by GET. Negative values are clamped, unknown keys are rejected.
func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	var patch map[string]int
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	prefs, err := s.store.GetPreferences()
	if err != nil {
		writeError(w, err)
		return
	}
	for key, value := range patch {
		if err := prefs.Set(key, value); err != nil {
			writeError(w, badRequest(err))
			return
		}
	}
	if err := s.store.SavePreferences(prefs); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "preferences updated", prefs)
}
