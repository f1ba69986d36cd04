package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone        string `json:"timezone"`          // IANA timezone name, or "Local" for the system timezone
	SoundEnabled    bool   `json:"sound_enabled"`     // whether reminder notifications play a sound
	Channel         string `json:"channel"`           // console, tray, push or telegram
	PollIntervalSec int    `json:"poll_interval_sec"` // how often the alarm daemon checks for due alarms
	HabitsURL       string `json:"habits_url"`        // remote seed habit listing
	TelegramChatID  int64  `json:"telegram_chat_id,omitempty"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Timezone:        constants.DefaultTimezone,
		SoundEnabled:    constants.DefaultSoundEnabled,
		Channel:         constants.DefaultChannel,
		PollIntervalSec: constants.DefaultPollIntervalSec,
		HabitsURL:       constants.DefaultHabitsURL,
	}
}

func (s Settings) Validate() error {
	if _, err := s.Location(); err != nil {
		return err
	}
	switch s.Channel {
	case constants.ChannelConsole, constants.ChannelTray, constants.ChannelPush:
	case constants.ChannelTelegram:
		if s.TelegramChatID == 0 {
			return fmt.Errorf("telegram channel requires a chat id")
		}
	default:
		return fmt.Errorf("unknown notification channel %q", s.Channel)
	}
	if s.PollIntervalSec < 1 {
		return fmt.Errorf("poll interval must be at least 1 second")
	}
	return nil
}

// Location loads the configured timezone. "Local" or empty means the system timezone.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
