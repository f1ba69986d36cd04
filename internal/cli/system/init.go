package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			for _, suffix := range []string{"-wal", "-shm"} {
				os.Remove(dbPath + suffix)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return err
		}
		if err := copyData(ctx, source, ctx.Store); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// copyData copies every item and every pending alarm. Alarms that already
// fired or were canceled are history and stay behind.
func copyData(ctx *cli.Context, source, dest storage.Provider) error {
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	bg := ctx.Background()

	fmt.Println("  Copying items...")
	keys, err := source.ListKeys(bg, "")
	if err != nil {
		return fmt.Errorf("failed to list source items: %w", err)
	}
	for _, key := range keys {
		value, found, err := source.GetItem(bg, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !found {
			continue
		}
		if err := dest.SetItem(bg, key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	fmt.Printf("    Copied %d items\n", len(keys))

	fmt.Println("  Copying pending alarms...")
	alarms, err := source.GetPendingAlarms(bg)
	if err != nil {
		return fmt.Errorf("failed to get alarms from source: %w", err)
	}
	for _, a := range alarms {
		if err := dest.AddAlarm(bg, a); err != nil {
			return fmt.Errorf("failed to add alarm %s: %w", a.ID, err)
		}
	}
	fmt.Printf("    Copied %d alarms\n", len(alarms))

	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if v, ok := ctx.Store.(storage.Versioned); ok {
		current, _, err := v.SchemaVersion()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Schema is at version %d\n", current)
		return nil
	}
	fmt.Println("✓ Nothing to migrate")
	return nil
}
