package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading an uninitialized store")
	}
}

func TestUseBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "x.db"))
	if _, _, err := store.GetItem(context.Background(), "k"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store, _ := setupTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	if _, found, err := store.GetItem(ctx, "reminder-1"); err != nil || found {
		t.Fatalf("expected absent item, got found=%v err=%v", found, err)
	}

	if err := store.SetItem(ctx, "reminder-1", `{"text":"first"}`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := store.SetItem(ctx, "reminder-1", `{"text":"second"}`); err != nil {
		t.Fatalf("SetItem overwrite failed: %v", err)
	}

	value, found, err := store.GetItem(ctx, "reminder-1")
	if err != nil || !found {
		t.Fatalf("GetItem failed: found=%v err=%v", found, err)
	}
	if value != `{"text":"second"}` {
		t.Errorf("expected overwritten value, got %q", value)
	}

	if err := store.SetItem(ctx, "reminder-2", "x"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetItem(ctx, "reminder_3", "x"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetItem(ctx, "users", "{}"); err != nil {
		t.Fatal(err)
	}

	keys, err := store.ListKeys(ctx, "reminder-")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "reminder-1" || keys[1] != "reminder-2" {
		t.Errorf("unexpected keys: %v", keys)
	}

	if err := store.RemoveItem(ctx, "reminder-1"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if _, found, _ := store.GetItem(ctx, "reminder-1"); found {
		t.Error("expected item to be removed")
	}
	// Removing a missing key is not an error
	if err := store.RemoveItem(ctx, "reminder-1"); err != nil {
		t.Errorf("RemoveItem of missing key failed: %v", err)
	}
}

func TestItemsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	store, dbPath := setupTestStore(t)

	if err := store.SetItem(ctx, "userLoggedIn", "true"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened := NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.GetItem(ctx, "userLoggedIn")
	if err != nil || !found || value != "true" {
		t.Errorf("expected persisted item, got %q found=%v err=%v", value, found, err)
	}
}

func TestAlarms(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	past := models.Alarm{ID: "a1", Title: "Habit reminder", Body: "Drink water", Sound: true, FireAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}
	future := models.Alarm{ID: "a2", Title: "Habit reminder", Body: "Read", FireAt: now.Add(time.Hour), CreatedAt: now}

	for _, a := range []models.Alarm{past, future} {
		if err := store.AddAlarm(ctx, a); err != nil {
			t.Fatalf("AddAlarm failed: %v", err)
		}
	}

	got, err := store.GetAlarm(ctx, "a1")
	if err != nil {
		t.Fatalf("GetAlarm failed: %v", err)
	}
	if !got.Sound || got.Body != "Drink water" || !got.FireAt.Equal(past.FireAt) {
		t.Errorf("unexpected alarm: %+v", got)
	}

	due, err := store.GetDueAlarms(ctx, now)
	if err != nil {
		t.Fatalf("GetDueAlarms failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != "a1" {
		t.Fatalf("expected only a1 due, got %+v", due)
	}

	if err := store.MarkAlarmFired(ctx, "a1", now); err != nil {
		t.Fatalf("MarkAlarmFired failed: %v", err)
	}
	if err := store.MarkAlarmFired(ctx, "a1", now); !errors.Is(err, storage.ErrAlarmNotFound) {
		t.Errorf("expected ErrAlarmNotFound marking a fired alarm, got %v", err)
	}

	if err := store.CancelAlarm(ctx, "a2", now); err != nil {
		t.Fatalf("CancelAlarm failed: %v", err)
	}
	pending, err := store.GetPendingAlarms(ctx)
	if err != nil {
		t.Fatalf("GetPendingAlarms failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending alarms, got %+v", pending)
	}

	canceled, err := store.GetAlarm(ctx, "a2")
	if err != nil {
		t.Fatal(err)
	}
	if canceled.CanceledAt == nil {
		t.Error("expected canceled_at to be set")
	}

	if _, err := store.GetAlarm(ctx, "nope"); !errors.Is(err, storage.ErrAlarmNotFound) {
		t.Errorf("expected ErrAlarmNotFound, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	settings, err := storage.GetSettings(ctx, store)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("expected defaults on a fresh store, got %+v", settings)
	}

	settings.Timezone = "Europe/Kyiv"
	settings.SoundEnabled = false
	if err := storage.SaveSettings(ctx, store, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reloaded, err := storage.GetSettings(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded != settings {
		t.Errorf("settings mismatch: got %+v want %+v", reloaded, settings)
	}
}
