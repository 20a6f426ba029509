package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/storage/postgres"
	"github.com/julianstephens/shiftwake/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path, JSON export or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if postgres.IsConnString(dbPath) {
			return errors.New("--force is not supported for PostgreSQL; drop the schema manually")
		}
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized shiftwake storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// openSource picks a store implementation the same way --config does.
func openSource(sourcePath string) (storage.Provider, error) {
	if postgres.IsConnString(sourcePath) {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(sourcePath), nil
	}
	path, err := cli.ExpandPath(sourcePath)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	sourceStore, err := openSource(sourcePath)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating preferences...")
	prefs, err := sourceStore.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences from source: %w", err)
	}
	if err := ctx.Store.SavePreferences(prefs); err != nil {
		return fmt.Errorf("failed to save preferences to destination: %w", err)
	}

	fmt.Println("  Migrating shifts...")
	shifts, err := sourceStore.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to get shifts from source: %w", err)
	}
	added := 0
	for _, shift := range shifts {
		err := ctx.Store.AddShift(shift)
		if errors.Is(err, storage.ErrDuplicateShift) {
			err = ctx.Store.UpdateShift(shift)
		} else if err == nil {
			added++
		}
		if err != nil {
			return fmt.Errorf("failed to copy shift %s: %w", shift.ID, err)
		}
	}
	fmt.Printf("    Migrated %d shifts (%d new)\n", len(shifts), added)

	fmt.Println("  Migrating week plan...")
	plan, err := sourceStore.GetWeekPlan()
	if err != nil {
		return fmt.Errorf("failed to get week plan from source: %w", err)
	}
	if err := ctx.Store.SaveWeekPlan(plan); err != nil {
		return fmt.Errorf("failed to save week plan to destination: %w", err)
	}

	return nil
}
