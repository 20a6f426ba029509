package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateShiftName ConflictType = "duplicate_shift_name"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictMissingRestShift   ConflictType = "missing_rest_shift"
	ConflictNoWorkingShift     ConflictType = "no_working_shift"
	ConflictDanglingReference  ConflictType = "dangling_plan_reference"
	ConflictShortTurnaround    ConflictType = "short_turnaround"
)

// Conflict represents a detected problem in the catalog or the week plan
type Conflict struct {
	Type        ConflictType
	Description string
	Day         int      // Monday-based day index, -1 if not applicable
	Items       []string // shift names involved
	ShiftIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks a shift catalog and week plan for problems
type Validator struct {
	calc *timeline.Calculator
}

func New(calc *timeline.Calculator) *Validator {
	if calc == nil {
		calc = timeline.New()
	}
	return &Validator{calc: calc}
}

// ValidateCatalog checks shift names, times and the presence of a rest shift
// and at least one working shift.
func (v *Validator) ValidateCatalog(shifts []models.Shift) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	policy := v.calc.RestPolicy()

	nameCount := make(map[string][]string)
	for _, s := range shifts {
		if s.Name == "" {
			continue
		}
		nameCount[s.Name] = append(nameCount[s.Name], s.ID)
	}
	names := make([]string, 0, len(nameCount))
	for name := range nameCount {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameCount[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateShiftName,
				Description: fmt.Sprintf("Duplicate shift name: \"%s\" (IDs: %v)", name, ids),
				Day:         -1,
				Items:       []string{name},
				ShiftIDs:    ids,
			})
		}
	}

	hasRest, hasWork := false, false
	for _, s := range shifts {
		if policy.IsRest(s) {
			hasRest = true
			continue
		}
		hasWork = true
		for field, value := range map[string]string{"start": s.StartTime, "end": s.EndTime} {
			if _, err := utils.TimeToMinutes(value); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidTime,
					Description: fmt.Sprintf("Shift \"%s\" has invalid %s time: %s", s.Name, field, value),
					Day:         -1,
					Items:       []string{s.Name},
					ShiftIDs:    []string{s.ID},
				})
			}
		}
	}

	if !hasRest {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictMissingRestShift,
			Description: "Catalog has no rest shift; empty plan days will use a built-in one",
			Day:         -1,
		})
	}
	if !hasWork {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNoWorkingShift,
			Description: "Catalog has no working shift",
			Day:         -1,
		})
	}
	return result
}

// ValidatePlan checks that every plan day references a known shift and that
// no alarm rings before the previous day's shift has ended.
func (v *Validator) ValidatePlan(plan models.WeekPlan, shifts []models.Shift, prefs models.Preferences, meal models.MealSelection) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for day, id := range plan {
		if id == nil {
			continue
		}
		if _, ok := models.FindShift(shifts, *id); !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDanglingReference,
				Description: fmt.Sprintf("%s uses unknown shift %q", models.DayName(day), *id),
				Day:         day,
				ShiftIDs:    []string{*id},
			})
		}
	}

	for day := range plan {
		next := (day + 1) % len(plan)
		prev, ok := v.workingShift(plan[day], shifts)
		if !ok {
			continue
		}
		upcoming, ok := v.workingShift(plan[next], shifts)
		if !ok {
			continue
		}

		start, err := utils.TimeToMinutes(prev.StartTime)
		if err != nil {
			continue
		}
		length, err := prev.DurationMin()
		if err != nil {
			continue
		}
		times, err := v.calc.Calculate(upcoming, prefs, meal)
		if err != nil {
			continue
		}

		// Both values are minutes from midnight of day.
		end := start + length
		alarm := 1440 + times.Raw.EarliestAlarm
		if alarm < end {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictShortTurnaround,
				Description: fmt.Sprintf("%s alarm %s rings before %s's %s shift ends at %s",
					models.DayName(next), times.EarliestAlarm, models.DayName(day), prev.Name, prev.EndTime),
				Day:      next,
				Items:    []string{prev.Name, upcoming.Name},
				ShiftIDs: []string{prev.ID, upcoming.ID},
			})
		}
	}
	return result
}

// Validate runs the catalog and plan checks together.
func (v *Validator) Validate(plan models.WeekPlan, shifts []models.Shift, prefs models.Preferences, meal models.MealSelection) ValidationResult {
	result := v.ValidateCatalog(shifts)
	result.Conflicts = append(result.Conflicts, v.ValidatePlan(plan, shifts, prefs, meal).Conflicts...)
	return result
}

func (v *Validator) workingShift(id *string, shifts []models.Shift) (models.Shift, bool) {
	if id == nil {
		return models.Shift{}, false
	}
	s, ok := models.FindShift(shifts, *id)
	if !ok || v.calc.IsRest(s) {
		return models.Shift{}, false
	}
	return s, true
}

// AutoFixDanglingReferences moves plan days that reference unknown shifts to
// rest. Returns a slice of FixActions describing what was fixed.
func AutoFixDanglingReferences(conflicts []Conflict, setDay func(day int, shiftID *string) error) []FixAction {
	actions := []FixAction{}
	for _, conflict := range conflicts {
		if conflict.Type != ConflictDanglingReference {
			continue
		}
		if err := setDay(conflict.Day, nil); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to reset %s: %v", models.DayName(conflict.Day), err),
				SourceConflict: conflict,
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Reset %s to rest (was %v)", models.DayName(conflict.Day), conflict.ShiftIDs),
			SourceConflict: conflict,
		})
	}
	return actions
}
