package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/todor/pkg/backend/gcal"
	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/schedule"
)

func TestBuildOrder(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "todoist.json")
	os.WriteFile(tokenFile, []byte(`{"token":"abc"}`), 0o600)

	cfg := &config.Config{
		Journals: []config.JournalConfig{{Name: "notes", Path: filepath.Join(dir, "journal")}},
		Tasks:    []config.TasksConfig{{Name: "work", Path: filepath.Join(dir, "tasks.db")}},
		Todoist:  []config.TodoistConfig{{Name: "Home", Project: "Home", TokenFile: tokenFile}},
	}
	r, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer r.Close()

	ids := schedule.IDs(r.Backends)
	want := []string{"journal:notes", "tasks:work", "todoist:Home"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	if len(r.Journals) != 1 {
		t.Fatalf("expected the journal kept for watching, got %d", len(r.Journals))
	}

	def, err := r.DefaultBackend("")
	if err != nil || def != "journal:notes" {
		t.Fatalf("expected first backend as default, got %q %v", def, err)
	}
	if _, err := r.DefaultBackend("todoist:Nope"); err == nil {
		t.Fatalf("expected unknown default to fail")
	}
}

func TestBuildFailureIsStartupError(t *testing.T) {
	cfg := &config.Config{
		Todoist: []config.TodoistConfig{{Name: "Home", TokenFile: filepath.Join(t.TempDir(), "missing.json")}},
	}
	_, err := Build(context.Background(), cfg)
	var startup *schedule.StartupError
	if !errors.As(err, &startup) || startup.Backend != "todoist:Home" {
		t.Fatalf("expected StartupError for todoist:Home, got %v", err)
	}
}

func TestDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Journals: []config.JournalConfig{
			{Name: "notes", Path: filepath.Join(dir, "a")},
			{Name: "notes", Path: filepath.Join(dir, "b")},
		},
	}
	_, err := Build(context.Background(), cfg)
	var startup *schedule.StartupError
	if !errors.As(err, &startup) || startup.Backend != "journal:notes" {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNoBackends(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{})
	var startup *schedule.StartupError
	if !errors.As(err, &startup) {
		t.Fatalf("expected StartupError, got %v", err)
	}
}

func TestGoogleWithoutTokenFails(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "creds.json")
	os.WriteFile(creds, []byte(`{"installed":{"client_id":"id","client_secret":"s","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`), 0o600)
	cfg := &config.Config{
		GoogleCal: []config.GoogleCalConfig{{Name: "work", Credentials: creds, Token: filepath.Join(dir, "token.json")}},
	}
	_, err := Build(context.Background(), cfg)
	var startup *schedule.StartupError
	if !errors.As(err, &startup) || startup.Backend != "gcal:work" {
		t.Fatalf("expected StartupError for gcal:work, got %v", err)
	}
	if !errors.Is(err, gcal.ErrNoToken) {
		t.Fatalf("expected the missing token reported, got %v", err)
	}
}
