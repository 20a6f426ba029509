package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/shiftwake/internal/constants"
)

type mockProcess struct {
	pid        int
	ppid       int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return m.ppid }
func (m *mockProcess) Executable() string { return m.executable }

func TestGetTrayAppConfigDir(t *testing.T) {
	old := userConfigDirFunc
	defer func() { userConfigDirFunc = old }()

	base := t.TempDir()
	userConfigDirFunc = func() (string, error) { return base, nil }

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("GetTrayAppConfigDir failed: %v", err)
	}
	want := filepath.Join(base, constants.TrayAppIdentifier)
	if dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}

	custom := filepath.Join(base, "custom")
	if err := os.MkdirAll(want, 0o755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings":{"lockfile_dir":"` + filepath.ToSlash(custom) + `"}}`
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("GetTrayAppConfigDir failed: %v", err)
	}
	if dir != filepath.ToSlash(custom) {
		t.Errorf("expected %s, got %s", custom, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	old := findProcessFunc
	defer func() { findProcessFunc = old }()

	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, err := findAndValidateTrayProcess(lockfile); err != ErrTrayNotRunning {
		t.Errorf("missing lockfile: expected ErrTrayNotRunning, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayAppExecutable}, nil
	}

	bad := []struct {
		name    string
		content string
		want    string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfile, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := findAndValidateTrayProcess(lockfile)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(int) (ps.Process, error) { return nil, nil }
	if _, err := findAndValidateTrayProcess(lockfile); err != ErrTrayNotRunning {
		t.Errorf("missing process: expected ErrTrayNotRunning, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayAppExecutable}, nil
	}
	ep, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.port != 8080 || ep.secret != "s3cret" {
		t.Errorf("unexpected endpoint %+v", ep)
	}
}

func newTrayServer(t *testing.T, got *WebhookPayload) (*httptest.Server, int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Shiftwake-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if got != nil {
			*got = payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	parts := strings.Split(srv.URL, ":")
	port, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		t.Fatal(err)
	}
	return srv, port
}

func TestSend(t *testing.T) {
	_, port := newTrayServer(t, nil)
	n := New()
	ctx := context.Background()

	if err := n.send(ctx, endpoint{port, "test-secret"}, WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(ctx, endpoint{port, ""}, WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.send(ctx, endpoint{port, "wrong"}, WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.send(ctx, endpoint{port, "test-secret"}, WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestNotifyEndToEnd(t *testing.T) {
	oldDir, oldFind := userConfigDirFunc, findProcessFunc
	defer func() { userConfigDirFunc, findProcessFunc = oldDir, oldFind }()

	var got WebhookPayload
	_, port := newTrayServer(t, &got)

	base := t.TempDir()
	userConfigDirFunc = func() (string, error) { return base, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayAppExecutable}, nil
	}

	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := strconv.Itoa(port) + "|4242|test-secret"
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Status(); err != nil {
		t.Fatalf("Status failed with a valid lockfile: %v", err)
	}
	if err := New().Notify(context.Background(), "Alarm 06:40"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.Text != "Alarm 06:40" {
		t.Errorf("expected text to be forwarded, got %q", got.Text)
	}
	if got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("expected duration %d, got %d", constants.NotificationDurationMs, got.DurationMs)
	}
}

func TestStatusWithoutTrayApp(t *testing.T) {
	old := userConfigDirFunc
	defer func() { userConfigDirFunc = old }()

	base := t.TempDir()
	userConfigDirFunc = func() (string, error) { return base, nil }

	if err := Status(); err != ErrTrayNotRunning {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
}
