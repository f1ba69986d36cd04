// Package channel selects the notification channel reminders are delivered
// through.
package channel

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/alarm"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/push"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/telegram"
)

// Channel both delivers alarms and answers permission checks.
type Channel interface {
	alarm.Sender
	reminder.Permissions
}

// Open returns the channel named in settings.
func Open(settings models.Settings, kv storage.KV) (Channel, error) {
	switch settings.Channel {
	case constants.ChannelConsole, "":
		return NewConsole(os.Stdout), nil
	case constants.ChannelTray:
		return notifier.New(), nil
	case constants.ChannelPush:
		return push.NewService(kv), nil
	case constants.ChannelTelegram:
		token, err := keyring.Get(keyring.TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("telegram token: %w (run 'habitual keyring set telegram')", err)
		}
		return telegram.New(token, settings.TelegramChatID)
	default:
		return nil, fmt.Errorf("unknown notification channel %q", settings.Channel)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Console prints alarms to a writer. It is always permitted.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Send(_ context.Context, a models.Alarm) error {
	bell := ""
	if a.Sound {
		bell = "\a"
	}
	_, err := fmt.Fprintf(c.out, "%s %s %s%s\n",
		timeStyle.Render(a.FireAt.Local().Format(time.DateTime)),
		titleStyle.Render(a.Title),
		a.Body,
		bell)
	return err
}

func (c *Console) Status(context.Context) (reminder.Status, error) {
	return reminder.StatusGranted, nil
}

func (c *Console) Request(ctx context.Context) (reminder.Status, error) {
	return c.Status(ctx)
}
