package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/shiftwake/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "shiftwake.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE shifts (id TEXT PRIMARY KEY, name TEXT, start_time TEXT)`,
		`INSERT INTO shifts VALUES ('morning', 'Morning', '08:00')`,
		`INSERT INTO shifts VALUES ('night', 'Night', '19:00')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	return dbPath
}

// fixedClock makes each call to now advance by one minute.
func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2025, 1, 15, 6, 0, 0, 0, time.Local)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	t.Cleanup(func() { now = time.Now })
}

func countShifts(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM shifts").Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func TestCreateBackup(t *testing.T) {
	fixedClock(t)
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(backupPath), mgr.GetBackupDir())
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, ".db") {
		t.Errorf("unexpected backup name %s", name)
	}
	if n := countShifts(t, backupPath); n != 2 {
		t.Errorf("backup has %d shifts, want 2", n)
	}
}

func TestBackupRotation(t *testing.T) {
	fixedClock(t)
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Fatal("backups not sorted newest first")
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	now = func() time.Time { return time.Date(2025, 1, 15, 6, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = time.Now })

	mgr := NewManager(setupTestDB(t))
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatal(err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, _ := mgr.ListBackups()
	if len(backups) != 3 {
		t.Errorf("ListBackups() found %d, want 3", len(backups))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "shiftwake-garbage.db", "other-20250101-000000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("ListBackups() = %v, want none", backups)
	}
}

func TestRestoreBackup(t *testing.T) {
	fixedClock(t)
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM shifts"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if safety == "" {
		t.Error("expected a pre-restore backup")
	}
	if n := countShifts(t, dbPath); n != 2 {
		t.Errorf("restored database has %d shifts, want 2", n)
	}
	if n := countShifts(t, safety); n != 0 {
		t.Errorf("pre-restore backup has %d shifts, want 0", n)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	bad := filepath.Join(t.TempDir(), "broken.db")
	if err := os.WriteFile(bad, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Error("RestoreBackup accepted a corrupt file")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("RestoreBackup accepted a missing file")
	}
}

func TestJSONStoreBackup(t *testing.T) {
	fixedClock(t)
	path := filepath.Join(t.TempDir(), "shiftwake.json")
	if err := os.WriteFile(path, []byte(`{"shifts":[]}`), 0600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(path)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if !strings.HasSuffix(backupPath, ".json") {
		t.Errorf("backup %s should keep the .json suffix", backupPath)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup accepted an invalid JSON store")
	}
	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{"shifts":[]}` {
		t.Errorf("restored content = %s", data)
	}
}

func TestBackupUnsupportedBackend(t *testing.T) {
	if _, err := NewManager("postgresql").CreateBackup(); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("CreateBackup(postgres) = %v", err)
	}
	if _, err := NewManager(filepath.Join(t.TempDir(), "missing.db")).CreateBackup(); err == nil {
		t.Error("CreateBackup on a missing database should fail")
	}
}
