// Package telegram delivers reminders as messages to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
)

var ErrNoChat = errors.New("telegram chat id is not configured")

type Sender struct {
	b      *bot.Bot
	chatID int64
}

// New creates a sender for chatID. The token is not verified until the
// first message is sent.
func New(token string, chatID int64, opts ...bot.Option) (*Sender, error) {
	if chatID == 0 {
		return nil, ErrNoChat
	}
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Sender{b: b, chatID: chatID}, nil
}

func (s *Sender) Send(ctx context.Context, a models.Alarm) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:              s.chatID,
		Text:                fmt.Sprintf("%s\n%s", a.Title, a.Body),
		DisableNotification: !a.Sound,
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Status is always granted: the chat opted in by talking to the bot.
func (s *Sender) Status(context.Context) (reminder.Status, error) {
	return reminder.StatusGranted, nil
}

func (s *Sender) Request(ctx context.Context) (reminder.Status, error) {
	return s.Status(ctx)
}
