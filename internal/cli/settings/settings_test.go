package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
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
	return &cli.Context{Store: store}
}

func TestSettingsCmd_List(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx := setupTestDB(t)

	tz := "Europe/Berlin"
	sound := false
	interval := 5
	cmd := &SettingsCmd{Timezone: &tz, Sound: &sound, PollInterval: &interval}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Timezone != tz || settings.SoundEnabled || settings.PollIntervalSec != interval {
		t.Errorf("settings not updated: %+v", settings)
	}
	if settings.Channel != constants.DefaultChannel {
		t.Errorf("untouched field changed: %q", settings.Channel)
	}
}

func TestSettingsCmd_RejectsInvalid(t *testing.T) {
	ctx := setupTestDB(t)

	tz := "Not/AZone"
	if err := (&SettingsCmd{Timezone: &tz}).Run(ctx); err == nil {
		t.Error("expected invalid timezone to be rejected")
	}

	channel := "telegram"
	if err := (&SettingsCmd{Channel: &channel}).Run(ctx); err == nil {
		t.Error("expected telegram without chat id to be rejected")
	}

	settings, err := ctx.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Timezone != constants.DefaultTimezone || settings.Channel != constants.DefaultChannel {
		t.Errorf("rejected update was saved: %+v", settings)
	}
}
