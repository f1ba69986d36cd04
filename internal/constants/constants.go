package constants

import "time"

const (
	AppName             = "habitual"
	Version             = "v0.2.0"
	DefaultConfigPath   = "~/.config/habitual/habitual.db"
	DefaultKeyringUser  = "database-connection"
	VAPIDKeyringUser    = "vapid-private-key"
	TelegramKeyringUser = "telegram-token"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the short time-of-day format (HH:MM)
	TimeFormat = "15:04"

	// TimeFormatSeconds is the full time-of-day format (HH:MM:SS)
	TimeFormatSeconds = "15:04:05"

	// Key-value store keys
	KeyUsers             = "users"
	KeyUserLoggedIn      = "userLoggedIn"
	KeyLastLoggedInEmail = "lastLoggedInEmail"
	KeyHabits            = "habits"
	KeySettings          = "settings"
	KeyPushSubscription  = "push-subscription"
	KeyVAPIDPublicKey    = "vapid-public-key"
	ReminderKeyPrefix    = "reminder-"

	// Remote habit source
	DefaultHabitsURL = "https://my-json-server.typicode.com/V-Frost/tracking-habits/habits"

	// Notification channels
	ChannelConsole  = "console"
	ChannelTray     = "tray"
	ChannelPush     = "push"
	ChannelTelegram = "telegram"

	// Tray notifier constants
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayExecutablePrefix   = "habitual-tray"
	TraySecretHeader       = "X-Habitual-Secret"

	// Web push
	PushSubscriber = "mailto:reminders@habitual.app"
	PushTTLSeconds = 86400

	// Reminder notification defaults
	ReminderTitle = "Habit reminder"

	// Alarm daemon
	DefaultPollIntervalSec = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Default settings values
	DefaultTimezone     = "Local" // Use system local timezone by default
	DefaultSoundEnabled = true
	DefaultChannel      = ChannelConsole
)

// Haptic fallback timings
var (
	VibrationPattern = []time.Duration{0, 250 * time.Millisecond, 100 * time.Millisecond, 250 * time.Millisecond}
	PulseDuration    = 400 * time.Millisecond
)
