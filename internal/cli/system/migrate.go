package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/migration"
)

// migrator is implemented by the SQL stores.
type migrator interface {
	Migrate() (int, error)
	MigrationStatus() (migration.Status, error)
}

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errors.New("migrate command only supports SQLite and PostgreSQL storage")
	}

	if c.Status {
		status, err := m.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		fmt.Printf("Schema version: %d (latest %d)\n", status.Current, status.Latest)
		for _, p := range status.Pending {
			fmt.Printf("  pending: %03d_%s\n", p.Version, p.Name)
		}
		if status.UpToDate() {
			fmt.Println("Database is up to date.")
		}
		return nil
	}

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
