package shifts

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage/sqlite"
	"github.com/julianstephens/shiftwake/internal/timeline"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store, Calculator: timeline.New()}
}

func TestShiftAddCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&ShiftAddCmd{ID: "late", Name: "Late", Start: "16:00", End: "00:30"}).Run(ctx); err != nil {
		t.Fatalf("shift add failed: %v", err)
	}
	got, err := ctx.Store.GetShift("late")
	if err != nil {
		t.Fatal(err)
	}
	if got.StartTime != "16:00" || !got.IsOvernight() {
		t.Errorf("unexpected shift %+v", got)
	}

	if err := (&ShiftAddCmd{Name: "Generated", Start: "09:00", End: "18:00"}).Run(ctx); err != nil {
		t.Fatalf("shift add without id failed: %v", err)
	}

	if err := (&ShiftAddCmd{Name: "Broken", Start: "9am", End: "18:00"}).Run(ctx); err == nil {
		t.Error("expected an invalid start time to be rejected")
	}
}

func TestShiftEditCmd(t *testing.T) {
	ctx := setupTestDB(t)

	start := "07:30"
	if err := (&ShiftEditCmd{ID: "morning", Start: &start}).Run(ctx); err != nil {
		t.Fatalf("shift edit failed: %v", err)
	}
	got, _ := ctx.Store.GetShift("morning")
	if got.StartTime != "07:30" || got.Name != "Morning" {
		t.Errorf("unexpected shift after edit %+v", got)
	}

	bad := "25:00"
	if err := (&ShiftEditCmd{ID: "morning", End: &bad}).Run(ctx); err == nil {
		t.Error("expected an invalid end time to be rejected")
	}
	if err := (&ShiftEditCmd{ID: "missing"}).Run(ctx); !errors.Is(err, models.ErrShiftNotFound) {
		t.Errorf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestShiftEditCmd_KeepsWorkingShift(t *testing.T) {
	ctx := setupTestDB(t)

	for _, id := range []string{"middle", "night"} {
		if err := ctx.Store.DeleteShift(id); err != nil {
			t.Fatal(err)
		}
	}
	rest := true
	if err := (&ShiftEditCmd{ID: "morning", Rest: &rest}).Run(ctx); !errors.Is(err, models.ErrLastShift) {
		t.Errorf("shift edit --rest on last working shift = %v, want ErrLastShift", err)
	}
	got, _ := ctx.Store.GetShift("morning")
	if got.Rest {
		t.Error("last working shift was turned into a rest shift")
	}
}

func TestShiftDeleteCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&ShiftDeleteCmd{ID: "morning"}).Run(ctx); err != nil {
		t.Fatalf("shift delete failed: %v", err)
	}
	plan, _ := ctx.Store.GetWeekPlan()
	for day := 0; day < 5; day++ {
		if plan[day] != nil {
			t.Errorf("%s still references %q", models.DayName(day), *plan[day])
		}
	}

	if err := (&ShiftDeleteCmd{ID: models.RestShiftID}).Run(ctx); !errors.Is(err, models.ErrRestShiftProtected) {
		t.Errorf("expected ErrRestShiftProtected, got %v", err)
	}

	if err := (&ShiftDeleteCmd{ID: "middle"}).Run(ctx); err != nil {
		t.Fatalf("delete middle failed: %v", err)
	}
	if err := (&ShiftDeleteCmd{ID: "night"}).Run(ctx); !errors.Is(err, models.ErrLastShift) {
		t.Errorf("expected ErrLastShift, got %v", err)
	}
}

func TestShiftListCmd(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&ShiftListCmd{}).Run(ctx); err != nil {
		t.Errorf("shift list failed: %v", err)
	}
}
