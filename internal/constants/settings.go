package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingNotifyCheckpoint     = "notify_checkpoint"
	SettingDefaultMeal          = "default_meal"
	SettingLegacyRestNames      = "legacy_rest_names"
	SettingAPIAddr              = "api_addr"

	// Preference keys
	PrefSnooze       = "snooze"
	PrefWashUp       = "wash_up"
	PrefBreakfast    = "breakfast"
	PrefLunch        = "lunch"
	PrefCommute      = "commute"
	PrefEarlyArrival = "early_arrival"
	PrefCutoffHour   = "cutoff_hour"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultNotifyCheckpoint     = "earliest_alarm"
	DefaultMeal                 = "none"
	DefaultLegacyRestNames      = false
	DefaultAPIAddr              = "127.0.0.1:7420"

	// Default Preference Values (minutes, cutoff in hours)
	DefaultSnooze       = 10
	DefaultWashUp       = 20
	DefaultBreakfast    = 15
	DefaultLunch        = 30
	DefaultCommute      = 40
	DefaultEarlyArrival = 10
	DefaultCutoffHour   = 4
)
