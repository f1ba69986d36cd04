package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/alarm"
	"github.com/julianstephens/habitual/internal/auth"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/channel"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/feedback"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/memory"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// MemoryConfig selects the in-memory backend. Nothing survives the process.
const MemoryConfig = "memory://"

// Context is shared by every command. Session is resolved once at startup
// and is the zero value when nobody is logged in.
type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Session models.Session

	// Remote overrides the habit source from settings. Tests set it.
	Remote habits.Source

	catalog *habits.Catalog
}

// OpenStore picks the backend for config: a PostgreSQL connection string,
// the in-memory backend, or a SQLite file path. When config is the default
// path and the keyring holds a connection string, that database is used.
func OpenStore(config string) (storage.Provider, error) {
	if config == MemoryConfig {
		return memory.New(), nil
	}

	if config == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			logger.Debug("using connection string from keyring")
			config = connStr
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("keyring lookup failed", "error", err)
		}
	}

	if postgres.IsConnString(config) {
		if valid, err := postgres.ValidateConnString(config); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'habitual keyring set' or use .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Background returns the command's context.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// RequireSession fails with auth.ErrNotLoggedIn unless a user is logged in.
func (c *Context) RequireSession() (models.Session, error) {
	if !c.Session.Valid() {
		return models.Session{}, auth.ErrNotLoggedIn
	}
	return c.Session, nil
}

func (c *Context) Auth() *auth.Service {
	return auth.NewService(c.Store)
}

func (c *Context) Settings() (models.Settings, error) {
	return storage.GetSettings(c.Background(), c.Store)
}

// Catalog returns the habit catalog, created on first use so the remote
// list is fetched at most once per process.
func (c *Context) Catalog() (*habits.Catalog, error) {
	if c.catalog != nil {
		return c.catalog, nil
	}
	remote := c.Remote
	if remote == nil {
		settings, err := c.Settings()
		if err != nil {
			return nil, err
		}
		if settings.HabitsURL != "" {
			remote = habits.NewRemoteSource(settings.HabitsURL)
		}
	}
	c.catalog = habits.NewCatalog(c.Store, remote)
	return c.catalog, nil
}

// Channel opens the notification channel named in settings.
func (c *Context) Channel() (channel.Channel, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return channel.Open(settings, c.Store)
}

// Scheduler wires the reminder scheduler to the configured channel and the
// alarm registry in the store.
func (c *Context) Scheduler(haptics reminder.Haptics) (*reminder.Scheduler, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}
	ch, err := channel.Open(settings, c.Store)
	if err != nil {
		return nil, err
	}
	if haptics == nil {
		haptics = feedback.NewTerminal("Reminder saved", settings.SoundEnabled)
	}
	return reminder.NewScheduler(reminder.Config{
		Store:       reminder.NewStore(c.Store),
		Permissions: ch,
		Dispatcher:  reminder.NewAlarmDispatcher(alarm.NewRegistry(c.Store)),
		Haptics:     haptics,
		Location:    loc,
		Sound:       settings.SoundEnabled,
	}), nil
}

// PerformAutomaticBackup snapshots a SQLite database. Failures are logged
// and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatTrigger renders a reminder instant in loc for display.
func FormatTrigger(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon Jan 2 15:04 MST")
}
