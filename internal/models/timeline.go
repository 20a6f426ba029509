package models

import "github.com/julianstephens/shiftwake/internal/constants"

// CheckpointKey identifies one derived time in a timeline.
type CheckpointKey string

const (
	CheckpointEarliestAlarm CheckpointKey = "earliest_alarm"
	CheckpointLatestWakeup  CheckpointKey = "latest_wakeup"
	CheckpointDeparture     CheckpointKey = "departure"
	CheckpointArrivalArea   CheckpointKey = "arrival_area"
	CheckpointMeeting       CheckpointKey = "meeting"
	CheckpointWorkStart     CheckpointKey = "work_start"
)

var checkpointLabels = map[CheckpointKey]string{
	CheckpointEarliestAlarm: "Earliest alarm",
	CheckpointLatestWakeup:  "Latest wake-up",
	CheckpointDeparture:     "Leave home",
	CheckpointArrivalArea:   "Arrive on site",
	CheckpointMeeting:       "Morning meeting",
	CheckpointWorkStart:     "Work starts",
}

// Label returns the display label of a checkpoint key.
func (k CheckpointKey) Label() string {
	if l, ok := checkpointLabels[k]; ok {
		return l
	}
	return string(k)
}

// ParseCheckpointKey accepts any known checkpoint key.
func ParseCheckpointKey(s string) (CheckpointKey, bool) {
	k := CheckpointKey(s)
	_, ok := checkpointLabels[k]
	return k, ok
}

// Checkpoint is one labelled time in a timeline.
type Checkpoint struct {
	Key   CheckpointKey `json:"key"`
	Label string        `json:"label"`
	Time  string        `json:"time"` // HH:MM or --:--
}

// RawMinutes holds the unwrapped minute values, relative to the shift's start
// day. They may be negative when a checkpoint falls on the previous day.
type RawMinutes struct {
	EarliestAlarm int `json:"earliestAlarm"`
	LatestWakeup  int `json:"latestWakeup"`
	Departure     int `json:"departure"`
	ArrivalArea   int `json:"arrivalArea"`
	Meeting       int `json:"meeting"`
	Start         int `json:"start"`
}

// Get returns the unwrapped minute value of one checkpoint.
func (r RawMinutes) Get(key CheckpointKey) (int, bool) {
	switch key {
	case CheckpointEarliestAlarm:
		return r.EarliestAlarm, true
	case CheckpointLatestWakeup:
		return r.LatestWakeup, true
	case CheckpointDeparture:
		return r.Departure, true
	case CheckpointArrivalArea:
		return r.ArrivalArea, true
	case CheckpointMeeting:
		return r.Meeting, true
	case CheckpointWorkStart:
		return r.Start, true
	}
	return 0, false
}

// CalculatedTimes is the derived timeline for one shift.
type CalculatedTimes struct {
	EarliestAlarm   string     `json:"earliestAlarm"`
	LatestWakeup    string     `json:"latestWakeup"`
	DepartureTime   string     `json:"departureTime"`
	ArrivalAreaTime string     `json:"arrivalAreaTime"`
	MeetingTime     string     `json:"meetingTime"`
	WorkStartTime   string     `json:"workStartTime"`
	Rest            bool       `json:"rest"`
	Raw             RawMinutes `json:"-"`
}

// RestTimes is the all-sentinel result for a rest day.
func RestTimes() CalculatedTimes {
	return CalculatedTimes{
		EarliestAlarm:   constants.EmptyTime,
		LatestWakeup:    constants.EmptyTime,
		DepartureTime:   constants.EmptyTime,
		ArrivalAreaTime: constants.EmptyTime,
		MeetingTime:     constants.EmptyTime,
		WorkStartTime:   constants.EmptyTime,
		Rest:            true,
	}
}

// Checkpoints returns the timeline in chronological order.
func (c CalculatedTimes) Checkpoints() []Checkpoint {
	return []Checkpoint{
		{Key: CheckpointEarliestAlarm, Label: CheckpointEarliestAlarm.Label(), Time: c.EarliestAlarm},
		{Key: CheckpointLatestWakeup, Label: CheckpointLatestWakeup.Label(), Time: c.LatestWakeup},
		{Key: CheckpointDeparture, Label: CheckpointDeparture.Label(), Time: c.DepartureTime},
		{Key: CheckpointArrivalArea, Label: CheckpointArrivalArea.Label(), Time: c.ArrivalAreaTime},
		{Key: CheckpointMeeting, Label: CheckpointMeeting.Label(), Time: c.MeetingTime},
		{Key: CheckpointWorkStart, Label: CheckpointWorkStart.Label(), Time: c.WorkStartTime},
	}
}

// Get returns the time of one checkpoint.
func (c CalculatedTimes) Get(key CheckpointKey) (string, bool) {
	for _, cp := range c.Checkpoints() {
		if cp.Key == key {
			return cp.Time, true
		}
	}
	return "", false
}

// CompactTimes is the three-checkpoint timeline of the reduced configuration.
type CompactTimes struct {
	AlarmTime     string `json:"alarmTime"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	WorkStartTime string `json:"workStartTime"`
	Rest          bool   `json:"rest"`
}

func (c CompactTimes) Checkpoints() []Checkpoint {
	return []Checkpoint{
		{Key: CheckpointEarliestAlarm, Label: "Alarm", Time: c.AlarmTime},
		{Key: CheckpointDeparture, Label: CheckpointDeparture.Label(), Time: c.DepartureTime},
		{Key: CheckpointArrivalArea, Label: "Arrive on time", Time: c.ArrivalTime},
		{Key: CheckpointWorkStart, Label: CheckpointWorkStart.Label(), Time: c.WorkStartTime},
	}
}
