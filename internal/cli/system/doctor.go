package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Reminder integrity", run: checkReminderIntegrity, needsDB: true},
	{name: "Notification permission", run: checkPermission, needsDB: true, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func schemaVersion(ctx *cli.Context) (current, latest int, ok bool, err error) {
	v, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err = v.SchemaVersion()
	return current, latest, true, err
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// checkReminderIntegrity verifies every reminder still has its alarm and
// no pending alarm is left without a reminder.
func checkReminderIntegrity(ctx *cli.Context) error {
	bg := ctx.Background()
	reminders, err := reminder.NewStore(ctx.Store).List(bg)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}

	referenced := make(map[string]bool, len(reminders))
	for _, r := range reminders {
		if r.AlarmID == "" {
			continue
		}
		referenced[r.AlarmID] = true
		if _, err := ctx.Store.GetAlarm(bg, r.AlarmID); err != nil {
			if errors.Is(err, storage.ErrAlarmNotFound) {
				return fmt.Errorf("reminder for habit %d references missing alarm %s", r.HabitID, r.AlarmID)
			}
			return err
		}
	}

	pending, err := ctx.Store.GetPendingAlarms(bg)
	if err != nil {
		return fmt.Errorf("failed to list alarms: %w", err)
	}
	orphaned := 0
	for _, a := range pending {
		if !referenced[a.ID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d pending alarms with no reminder", orphaned)
	}
	return nil
}

func checkPermission(ctx *cli.Context) error {
	ch, err := ctx.Channel()
	if err != nil {
		return err
	}
	status, err := ch.Status(ctx.Background())
	if err != nil {
		return err
	}
	if status != reminder.StatusGranted {
		return fmt.Errorf("notification permission is %s; reminders will ask again when saved", status)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	settings, err := ctx.Settings()
	if err != nil {
		// reported by the settings check
		return nil
	}
	if _, err := settings.Location(); err != nil {
		return err
	}
	return nil
}
