package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/auth"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/account"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/push"
	"github.com/julianstephens/habitual/internal/cli/reminders"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path, PostgreSQL connection string, or memory:// for a throwaway store. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass." type:"string" default:"${config}" env:"HABITUAL_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr." env:"HABITUAL_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitual storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Browse habits interactively." default:"1"`
	Daemon  system.DaemonCmd  `cmd:"" help:"Deliver reminders when they come due."`
	Notify  system.NotifyCmd  `cmd:"" help:"Send a test notification through the configured channel."`

	Signup  account.SignupCmd  `cmd:"" help:"Create an account."`
	Login   account.LoginCmd   `cmd:"" help:"Log in."`
	Logout  account.LogoutCmd  `cmd:"" help:"Log out."`
	Profile account.ProfileCmd `cmd:"" help:"Show the logged-in account."`

	Habit struct {
		List   habits.ListCmd   `cmd:"" help:"List all habits." default:"1"`
		Search habits.SearchCmd `cmd:"" help:"Search habits by name."`
		Add    habits.AddCmd    `cmd:"" help:"Add a habit."`
		Show   habits.ShowCmd   `cmd:"" help:"Show a habit and its reminder."`
	} `cmd:"" help:"Browse and add habits."`
	Reminder struct {
		Set    reminders.SetCmd    `cmd:"" help:"Set or replace a habit's reminder."`
		Show   reminders.ShowCmd   `cmd:"" help:"Show a habit's reminder."`
		Cancel reminders.CancelCmd `cmd:"" help:"Cancel a habit's reminder."`
		List   reminders.ListCmd   `cmd:"" help:"List all reminders." default:"1"`
	} `cmd:"" help:"Manage habit reminders."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Push struct {
		Keygen      push.KeygenCmd      `cmd:"" help:"Generate VAPID keys."`
		Key         push.KeyCmd         `cmd:"" help:"Print the VAPID public key."`
		Subscribe   push.SubscribeCmd   `cmd:"" help:"Register a browser push subscription."`
		Unsubscribe push.UnsubscribeCmd `cmd:"" help:"Remove the push subscription."`
	} `cmd:"" help:"Configure Web Push delivery."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// commands that create or replace the database themselves
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with one-shot reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configDir := logDir(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	bg, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:   bg,
		Store: store,
	}

	if ctx.Selected() == nil || !skipLoad[ctx.Selected().Name] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		session, err := auth.NewService(store).Current(bg)
		if err != nil && !errors.Is(err, auth.ErrNotLoggedIn) {
			apperrors.Fatal(err)
		}
		appCtx.Session = session
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// logDir keeps logs next to a SQLite database and in the user config
// directory otherwise.
func logDir(config string) string {
	if config != cli.MemoryConfig && filepath.Ext(config) == ".db" {
		if path, err := cli.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(dir, constants.AppName)
}
