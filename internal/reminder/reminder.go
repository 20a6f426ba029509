// Package reminder renders a checkpoint as an iCalendar event with a display
// alarm so it can be imported into a phone or desktop calendar.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/utils"
)

const icsStampLayout = "20060102T150405Z"

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// NextOccurrence returns the next wall-clock occurrence of an HH:MM time in
// now's location. A time strictly earlier than now moves to the next day.
func NextOccurrence(at string, now time.Time) (time.Time, error) {
	mins, err := utils.TimeToMinutes(at)
	if err != nil {
		return time.Time{}, err
	}
	event := time.Date(now.Year(), now.Month(), now.Day(), mins/60, mins%60, 0, 0, now.Location())
	if event.Before(now) {
		event = event.AddDate(0, 0, 1)
	}
	return event, nil
}

// ExportReminder builds the .ics document for a single alarm at the given
// HH:MM time. The rest-day sentinel is rejected.
func ExportReminder(at, title string, now time.Time) ([]byte, error) {
	if at == constants.EmptyTime {
		return nil, fmt.Errorf("no alarm on a rest day")
	}
	start, err := NextOccurrence(at, now)
	if err != nil {
		return nil, err
	}
	end := start.Add(constants.ReminderEventDuration)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + constants.ReminderProdID,
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString() + "@" + constants.AppName,
		"DTSTAMP:" + now.UTC().Format(icsStampLayout),
		"DTSTART:" + start.UTC().Format(icsStampLayout),
		"DTEND:" + end.UTC().Format(icsStampLayout),
		"SUMMARY:" + textEscaper.Replace("Wake-up alarm: "+title),
		"DESCRIPTION:Generated by " + constants.AppName,
		"BEGIN:VALARM",
		"TRIGGER:-PT0M",
		"ACTION:DISPLAY",
		"DESCRIPTION:Time to get up!",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n"), nil
}

// Filename returns the download name for an alarm, e.g. alarm_0640.ics.
func Filename(at string) string {
	return constants.ReminderFilenamePrefix + strings.ReplaceAll(at, ":", "") + constants.ReminderFileSuffix
}
