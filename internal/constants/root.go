package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "shiftwake"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/shiftwake/shiftwake.db"
	Version            = "v0.3.0"

	// EnvConfig and EnvDBConnection are read by kong and the postgres loader
	EnvConfig       = "SHIFTWAKE_CONFIG"
	EnvDBConnection = "SHIFTWAKE_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay is the wrap-around modulus for minute-of-day values
	MinutesPerDay = 1440

	// EmptyTime is shown for every checkpoint on a rest day
	EmptyTime = "--:--"

	// DaysPerWeek is the fixed length of a weekly plan (Monday=0 .. Sunday=6)
	DaysPerWeek = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "shiftwake-"
	BackupFileSuffix = ".db"
	BackupTimeLayout = "20060102-150405"

	// Notify constants
	NotifierLockfileName   = "shiftwake-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.shiftwake"
	TrayAppExecutable      = "shiftwake-tray"

	// Reminder export constants
	ReminderProdID         = "-//shiftwake//NONSGML v1.0//EN"
	ReminderEventDuration  = 5 * time.Minute
	ReminderFilenamePrefix = "alarm_"
	ReminderFileSuffix     = ".ics"

	// Watcher
	WatchCronSpec   = "* * * * *"
	WatchFireWindow = 10 * time.Minute

	// API
	APIPrefix         = "/api/v1"
	APIRequestsPerSec = 20
)

// Session States
const (
	StateHome SessionState = iota
	StateWeek
	StateShifts
	StatePrefs
	StateEditPrefs
	StateEditShift
	StateConfirmDelete
)

// WeekDays holds display names indexed Monday=0.
var WeekDays = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
