package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone       *string `help:"IANA timezone reminders are set in, or Local."`
	Sound          *bool   `help:"Play a sound with reminders." negatable:""`
	Channel        *string `help:"Notification channel: console, tray, push or telegram."`
	PollInterval   *int    `help:"Seconds between alarm daemon checks."`
	HabitsURL      *string `name:"habits-url" help:"Remote habit listing URL. Empty disables it."`
	TelegramChatID *int64  `name:"telegram-chat-id" help:"Telegram chat that receives reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:         %s\n", settings.Timezone)
		fmt.Printf("  Sound:            %v\n", settings.SoundEnabled)
		fmt.Printf("  Channel:          %s\n", settings.Channel)
		fmt.Printf("  Poll Interval:    %d s\n", settings.PollIntervalSec)
		fmt.Printf("  Habits URL:       %s\n", settings.HabitsURL)
		if settings.TelegramChatID != 0 {
			fmt.Printf("  Telegram Chat ID: %d\n", settings.TelegramChatID)
		}
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.Sound != nil {
		settings.SoundEnabled = *c.Sound
		updated = true
	}
	if c.Channel != nil {
		settings.Channel = *c.Channel
		updated = true
	}
	if c.PollInterval != nil {
		settings.PollIntervalSec = *c.PollInterval
		updated = true
	}
	if c.HabitsURL != nil {
		settings.HabitsURL = *c.HabitsURL
		updated = true
	}
	if c.TelegramChatID != nil {
		settings.TelegramChatID = *c.TelegramChatID
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := storage.SaveSettings(ctx.Background(), ctx.Store, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
