package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/utils"
)

func validateMinutes(s string) error {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a whole number of minutes")
	}
	if i < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateHHMM(s string) error {
	if _, err := utils.TimeToMinutes(s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

func newPrefsFormModel(p models.Preferences) *PrefsFormModel {
	return &PrefsFormModel{
		Snooze:       strconv.Itoa(p.Snooze),
		WashUp:       strconv.Itoa(p.WashUp),
		Breakfast:    strconv.Itoa(p.Breakfast),
		Lunch:        strconv.Itoa(p.Lunch),
		Commute:      strconv.Itoa(p.Commute),
		EarlyArrival: strconv.Itoa(p.EarlyArrival),
		CutoffHour:   strconv.Itoa(p.CutoffHour),
	}
}

// apply writes the form values into p. Values were validated by the form;
// anything unparsable is left unchanged.
func (fm *PrefsFormModel) apply(p *models.Preferences) {
	fields := map[string]string{
		constants.PrefSnooze:       fm.Snooze,
		constants.PrefWashUp:       fm.WashUp,
		constants.PrefBreakfast:    fm.Breakfast,
		constants.PrefLunch:        fm.Lunch,
		constants.PrefCommute:      fm.Commute,
		constants.PrefEarlyArrival: fm.EarlyArrival,
		constants.PrefCutoffHour:   fm.CutoffHour,
	}
	for key, raw := range fields {
		if v, err := strconv.Atoi(raw); err == nil {
			_ = p.Set(key, v)
		}
	}
}

func NewPrefsForm(fm *PrefsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Snooze (minutes)").Value(&fm.Snooze).Validate(validateMinutes),
			huh.NewInput().Title("Wash-up (minutes)").Value(&fm.WashUp).Validate(validateMinutes),
			huh.NewInput().Title("Breakfast on site (minutes)").Value(&fm.Breakfast).Validate(validateMinutes),
			huh.NewInput().Title("Lunch on site (minutes)").Value(&fm.Lunch).Validate(validateMinutes),
			huh.NewInput().Title("Commute (minutes)").Value(&fm.Commute).Validate(validateMinutes),
			huh.NewInput().Title("Early arrival (minutes)").Value(&fm.EarlyArrival).Validate(validateMinutes),
			huh.NewInput().
				Title("Cutoff hour (0-23)").
				Description("Before this hour the timeline shows today, after it tomorrow").
				Value(&fm.CutoffHour).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil || i < 0 || i > 23 {
						return fmt.Errorf("must be between 0 and 23")
					}
					return nil
				}),
		),
	)
}

func NewShiftForm(fm *ShiftFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("Start (HH:MM)").Value(&fm.StartTime).Validate(validateHHMM),
			huh.NewInput().
				Title("End (HH:MM)").
				Description("An end before the start means the shift runs overnight").
				Value(&fm.EndTime).
				Validate(validateHHMM),
		),
	)
}
