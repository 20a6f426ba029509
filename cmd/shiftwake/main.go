package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/cli/backups"
	"github.com/julianstephens/shiftwake/internal/cli/schedule"
	"github.com/julianstephens/shiftwake/internal/cli/settings"
	"github.com/julianstephens/shiftwake/internal/cli/shifts"
	"github.com/julianstephens/shiftwake/internal/cli/system"
	"github.com/julianstephens/shiftwake/internal/constants"
	apperrors "github.com/julianstephens/shiftwake/internal/errors"
	"github.com/julianstephens/shiftwake/internal/keyring"
	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/storage/postgres"
	"github.com/julianstephens/shiftwake/internal/storage/sqlite"
	"github.com/julianstephens/shiftwake/internal/timeline"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path, JSON export or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or OS keyring instead." type:"string" default:"${default_config}" env:"SHIFTWAKE_CONFIG"`
	Debug   bool   `help:"Write debug logs to stderr as well as the log file."`

	Init     system.InitCmd     `cmd:"" help:"Initialize shiftwake storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Next     schedule.NextCmd   `cmd:"" help:"Show the alarm timeline for the upcoming shift."`
	Export   schedule.ExportCmd `cmd:"" help:"Export a checkpoint as an iCalendar reminder."`
	Validate system.ValidateCmd `cmd:"" help:"Validate shifts and the week plan for conflicts."`
	Week     struct {
		Show schedule.WeekShowCmd `cmd:"" help:"Show the weekly plan." default:"1"`
		Set  schedule.WeekSetCmd  `cmd:"" help:"Assign a shift to a day."`
	} `cmd:"" help:"Manage the weekly plan."`
	Shift struct {
		Add    shifts.ShiftAddCmd    `cmd:"" help:"Add a new shift."`
		Edit   shifts.ShiftEditCmd   `cmd:"" help:"Edit an existing shift."`
		Delete shifts.ShiftDeleteCmd `cmd:"" help:"Delete a shift."`
		List   shifts.ShiftListCmd   `cmd:"" help:"List all shifts." default:"1"`
	} `cmd:"" help:"Manage the shift catalog."`
	Prefs    settings.PrefsCmd    `cmd:"" help:"Show or change buffer preferences."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Watch    system.WatchCmd  `cmd:"" help:"Run in the foreground and notify when an alarm checkpoint is reached."`
	Serve    system.ServeCmd  `cmd:"" help:"Serve the local JSON API."`
	DebugCmd system.DebugCmd  `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd `cmd:"" hidden:"" help:"Send a notification if a checkpoint is due (used by schedulers)."`
}

// storeless commands never touch the configured store.
var storeless = map[string]bool{
	"init":    true,
	"keyring": true,
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Wake-up timeline calculator for shift workers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version, "default_config": constants.DefaultConfigPath},
	)

	configPath := CLI.Config
	if !postgres.IsConnString(configPath) {
		expanded, err := cli.ExpandPath(configPath)
		if err != nil {
			apperrors.Fatal(err)
		}
		configPath = expanded
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(configPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := openStore(configPath)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{Store: store}

	// Init handles its own loading
	if !storeless[rootCommand(ctx)] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		settings, err := store.GetSettings()
		if err != nil {
			apperrors.Fatal(fmt.Errorf("failed to load settings: %w", err))
		}
		appCtx.Calculator = timeline.NewWithPolicy(settings.RestPolicy())
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func rootCommand(ctx *kong.Context) string {
	fields := strings.Fields(ctx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// openStore selects the backend from the --config value.
func openStore(configPath string) (storage.Provider, error) {
	if postgres.IsConnString(configPath) {
		connStr, source := keyring.ResolveConnectionString(configPath)
		if source == keyring.SourceFlag {
			if _, err := postgres.ValidateConnString(connStr); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w: store it with 'shiftwake keyring set', export %s or use .pgpass", err, constants.EnvDBConnection)
				}
				return nil, err
			}
		}
		logger.Debug("Using PostgreSQL store", "source", source, "conn", keyring.MaskPassword(connStr))
		return postgres.New(connStr), nil
	}

	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		logger.Debug("Using JSON store", "path", configPath)
		return storage.NewJSONStore(configPath), nil
	}
	logger.Debug("Using SQLite store", "path", configPath)
	return sqlite.NewStore(configPath), nil
}
