package cli

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/server"
	"github.com/sandeepkv93/studytime/internal/storage"
)

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func seedFileStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	now := time.Now()
	tasks := []model.Task{
		{ID: "aaaa1111", Title: "Essay draft", Priority: model.PriorityHigh, Due: model.FormatDate(now.AddDate(0, 0, 2)), CreatedAt: now, UpdatedAt: now},
		{ID: "bbbb2222", Title: "Flashcards", Completed: true, DurationMinutes: 15, CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
		{ID: "cccc3333", Title: "Lab notes", Priority: model.PriorityMedium, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now},
	}
	if err := storage.NewFileStore(path, nil).Save(tasks); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestListAppliesFilters(t *testing.T) {
	cfg := writeConfig(t, "storage:", "  path: "+seedFileStore(t))

	out, err := run(t, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Essay draft", "Flashcards", "Lab notes", "3 of 3 tasks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	out, err = run(t, "--config", cfg, "list", "--status", "active", "--sort", "priority-desc")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if strings.Contains(out, "Flashcards") || !strings.Contains(out, "2 of 3 tasks") {
		t.Fatalf("unexpected active list: %q", out)
	}
	if strings.Index(out, "Essay draft") > strings.Index(out, "Lab notes") {
		t.Fatalf("expected high priority first: %q", out)
	}

	out, err = run(t, "--config", cfg, "list", "-q", "nothing-like-this")
	if err != nil || !strings.Contains(out, "no tasks match (3 total)") {
		t.Fatalf("unexpected empty search: %q %v", out, err)
	}

	if _, err := run(t, "--config", cfg, "list", "--status", "later"); err == nil {
		t.Fatal("expected invalid status error")
	}
}

func TestListSQLiteBackend(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tasks.db")
	kv, err := storage.OpenSQLiteKV(db, nil)
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	now := time.Now()
	if err := kv.Save([]model.Task{{ID: "k1", Title: "From sqlite", CreatedAt: now, UpdatedAt: now}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = kv.Close()

	cfg := writeConfig(t, "storage:", "  backend: sqlite", "  path: "+db)
	out, err := run(t, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "From sqlite") {
		t.Fatalf("expected sqlite task in %q", out)
	}
}

func TestListRemoteMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	n := 0
	srv := server.New(repo, server.Options{NewID: func() string {
		n++
		return fmt.Sprintf("srv-%d", n)
	}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	now := time.Now()
	if err := repo.CreateTask(t.Context(), model.Task{ID: "r1", Title: "Remote reading", Priority: model.PriorityLow, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("seed remote: %v", err)
	}

	cfg := writeConfig(t, "mode: remote", "remote:", "  url: "+ts.URL)
	out, err := run(t, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Remote reading") {
		t.Fatalf("expected remote task in %q", out)
	}
}

func TestStats(t *testing.T) {
	cfg := writeConfig(t, "storage:", "  path: "+seedFileStore(t))
	out, err := run(t, "--config", cfg, "stats", "--window", "30")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"last 30d", "3 total, 1 completed, 2 active", "small wins:  1/1", "suggestions:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if _, err := run(t, "--config", cfg, "stats", "--window", "12"); err == nil {
		t.Fatal("expected invalid window error")
	}
}

func TestExportICS(t *testing.T) {
	cfg := writeConfig(t, "storage:", "  path: "+seedFileStore(t))

	out, err := run(t, "--config", cfg, "export-ics")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Count(out, "BEGIN:VEVENT") != 1 || !strings.Contains(out, "SUMMARY:Essay draft") {
		t.Fatalf("unexpected ics: %q", out)
	}

	dest := filepath.Join(t.TempDir(), "tasks.ics")
	out, err = run(t, "--config", cfg, "export-ics", "--out", dest)
	if err != nil {
		t.Fatalf("export to file: %v", err)
	}
	if !strings.Contains(out, "exported 1 event(s)") {
		t.Fatalf("unexpected export message: %q", out)
	}
	raw, err := os.ReadFile(dest)
	if err != nil || !bytes.Contains(raw, []byte("END:VCALENDAR")) {
		t.Fatalf("unexpected ics file: %v %q", err, raw)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	out, err := run(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected init to refuse overwrite")
	}
	if _, err := run(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}

	secret := writeConfig(t, "mode: remote", "remote:", "  url: http://127.0.0.1:9", "  token: hunter2")
	out, err = run(t, "--config", secret, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "hunter2") || !strings.Contains(out, "mode: remote") {
		t.Fatalf("unexpected show output: %q", out)
	}
}

func TestUnknownConfigFileFails(t *testing.T) {
	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list"); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
