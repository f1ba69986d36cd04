package system

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
)

// NotifyCmd sends a notification straight through the configured channel,
// asking for permission first if needed.
type NotifyCmd struct {
	Message string `arg:"" optional:"" default:"Notifications are working." help:"Text to send."`
	Title   string `help:"Notification title."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	ch, err := ctx.Channel()
	if err != nil {
		return err
	}

	if err := reminder.NewGate(ch).Ensure(ctx.Background()); err != nil {
		return err
	}

	title := c.Title
	if title == "" {
		title = constants.ReminderTitle
	}
	now := time.Now().UTC()
	err = ch.Send(ctx.Background(), models.Alarm{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      c.Message,
		Sound:     settings.SoundEnabled,
		FireAt:    now,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Printf("✓ Sent test notification via %s\n", settings.Channel)
	return nil
}
