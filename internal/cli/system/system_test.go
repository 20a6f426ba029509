package system

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/notifier"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/storage/sqlite"
	"github.com/julianstephens/shiftwake/internal/timeline"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store, Calculator: timeline.New()}, dbPath
}

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	ctx, _ := setupTestInitDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	shifts, err := ctx.Store.GetAllShifts()
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != len(models.DefaultShifts()) {
		t.Errorf("expected the default catalog, got %d shifts", len(shifts))
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := ctx.Store.AddShift(models.Shift{ID: "late", Name: "Late", StartTime: "16:00", EndTime: "00:30"}); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}
	if _, err := ctx.Store.GetShift("late"); !errors.Is(err, models.ErrShiftNotFound) {
		t.Errorf("expected custom shift to be gone after --force, got %v", err)
	}
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "same") {
		t.Errorf("expected same source error, got %v", err)
	}
}

func TestInitCmd_MigratesBrowserExport(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	src := filepath.Join(t.TempDir(), "export.json")
	export := `{
  "shifts": [
    {"id": "1", "name": "Early", "startTime": "06:00", "endTime": "14:00"},
    {"id": "4", "name": "Rest", "startTime": "00:00", "endTime": "00:00"}
  ],
  "prefs": {"snooze": 5, "washUp": 25, "breakfast": 15, "lunch": 30, "commute": 35, "earlyArrival": 10},
  "weeklyPlan": [
    {"dayIndex": 0, "shiftId": "1"}, {"dayIndex": 1, "shiftId": "1"},
    {"dayIndex": 2, "shiftId": "1"}, {"dayIndex": 3, "shiftId": "4"},
    {"dayIndex": 4, "shiftId": "1"}, {"dayIndex": 5, "shiftId": "4"},
    {"dayIndex": 6, "shiftId": null}
  ]
}`
	if err := os.WriteFile(src, []byte(export), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Source: src}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Snooze != 5 || prefs.Commute != 35 {
		t.Errorf("preferences not migrated: %+v", prefs)
	}

	plan, err := ctx.Store.GetWeekPlan()
	if err != nil {
		t.Fatal(err)
	}
	if plan[0] == nil || *plan[0] != "1" || plan[6] != nil {
		t.Errorf("week plan not migrated: %v", plan.Days())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if !settings.LegacyRestNames {
		t.Error("expected legacy rest names to carry over from the browser export")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("migrate on an up to date database failed: %v", err)
	}
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Errorf("migrate --status failed: %v", err)
	}
}

func TestMigrateCmd_JSONStoreUnsupported(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "shiftwake.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := (&MigrateCmd{}).Run(&cli.Context{Store: store}); err == nil {
		t.Error("expected migrate to reject the JSON store")
	}
}

func TestDoctorCmd_HealthyDatabase(t *testing.T) {
	ctx := setupTestDB(t)

	// Missing backups and a missing tray app are warnings only.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a fresh database: %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database does not exist")
	}
}

func TestValidateCmd_FixesDanglingReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shiftwake.json")
	doc := `{
  "version": 1,
  "settings": {"timezone": "UTC", "notifications_enabled": true, "notify_checkpoint": "earliest_alarm", "default_meal": "none"},
  "shifts": [
    {"id": "morning", "name": "Morning", "startTime": "08:00", "endTime": "17:00"},
    {"id": "off", "name": "Rest", "startTime": "00:00", "endTime": "00:00", "rest": true}
  ],
  "prefs": {"snooze": 10, "washUp": 20, "breakfast": 15, "lunch": 30, "commute": 40, "earlyArrival": 10, "cutoffHour": 4},
  "weeklyPlan": [
    {"dayIndex": 0, "shiftId": "morning"}, {"dayIndex": 1, "shiftId": "gone"},
    {"dayIndex": 2, "shiftId": "morning"}, {"dayIndex": 3, "shiftId": "morning"},
    {"dayIndex": 4, "shiftId": "morning"}, {"dayIndex": 5, "shiftId": "off"},
    {"dayIndex": 6, "shiftId": "off"}
  ]
}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}
	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	ctx := &cli.Context{Store: store, Calculator: timeline.New()}

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	plan, _ := store.GetWeekPlan()
	if plan[1] == nil {
		t.Fatal("validate without --fix must not change the plan")
	}

	if err := (&ValidateCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("validate --fix failed: %v", err)
	}
	plan, _ = store.GetWeekPlan()
	if plan[1] != nil {
		t.Errorf("expected Tuesday reset to rest, got %q", *plan[1])
	}
}

type recordingSender struct {
	messages []string
}

func (r *recordingSender) Notify(_ context.Context, text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func TestNotifyCmd_DisabledSendsNothing(t *testing.T) {
	ctx := setupTestDB(t)

	settings, _ := ctx.Store.GetSettings()
	settings.NotificationsEnabled = false
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	rec := &recordingSender{}
	old := newSender
	newSender = func() notifier.Sender { return rec }
	defer func() { newSender = old }()

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(rec.messages) != 0 {
		t.Errorf("expected no notifications, got %v", rec.messages)
	}
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Errorf("notify --dry-run failed: %v", err)
	}
}

func TestDebugCmds(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path failed: %v", err)
	}
	if err := (&DebugDumpShiftCmd{ID: "morning"}).Run(ctx); err != nil {
		t.Errorf("debug dump-shift failed: %v", err)
	}
	if err := (&DebugDumpWeekCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump-week failed: %v", err)
	}
	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump-settings failed: %v", err)
	}

	err := (&DebugDumpShiftCmd{ID: "nonexistent"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected 'not found' error, got: %v", err)
	}
}
