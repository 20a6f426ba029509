package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/shiftwake/internal/backup"
	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/notifier"
	"github.com/julianstephens/shiftwake/internal/storage/sqlite"
	"github.com/julianstephens/shiftwake/internal/utils"
	"github.com/julianstephens/shiftwake/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var doctorChecks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Shift catalog", run: checkShiftCatalog, needsDB: true},
	{name: "Week plan", run: checkWeekPlan, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Tray app", run: checkTrayApp, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !status.UpToDate() {
		return fmt.Errorf("schema at version %d, %d migration(s) pending (run 'shiftwake migrate')", status.Current, len(status.Pending))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if errors.Is(err, backup.ErrUnsupportedBackend) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'shiftwake backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if _, ok := models.ParseCheckpointKey(settings.NotifyCheckpoint); !ok {
		return fmt.Errorf("unknown notify_checkpoint %q", settings.NotifyCheckpoint)
	}
	if _, err := ctx.Store.GetPreferences(); err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	return nil
}

func checkShiftCatalog(ctx *cli.Context) error {
	shifts, err := ctx.Store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to get shifts: %w", err)
	}
	result := validation.New(ctx.Calc()).ValidateCatalog(shifts)
	if result.HasConflicts() {
		return fmt.Errorf("%d catalog conflict(s), run 'shiftwake validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkWeekPlan(ctx *cli.Context) error {
	plan, err := ctx.Store.GetWeekPlan()
	if err != nil {
		return fmt.Errorf("failed to get week plan: %w", err)
	}
	shifts, err := ctx.Store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to get shifts: %w", err)
	}
	if err := plan.CheckReferences(shifts); err != nil {
		return fmt.Errorf("%w (run 'shiftwake validate --fix')", err)
	}
	return nil
}

func checkClockTimezone(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTrayApp(*cli.Context) error {
	if err := notifier.Status(); err != nil {
		return fmt.Errorf("notifications will not be delivered: %w", err)
	}
	return nil
}
