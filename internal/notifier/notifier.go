// Package notifier delivers reminders to the habitual-tray desktop app over
// its local webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var ErrTrayNotRunning = errors.New("habitual-tray is not running")

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
	Sound      bool   `json:"sound"`
}

type permissionResponse struct {
	Status reminder.Status `json:"status"`
}

func New() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send shows the alarm as a tray notification.
func (n *Notifier) Send(ctx context.Context, a models.Alarm) error {
	port, secret, err := n.locate()
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       fmt.Sprintf("%s: %s", a.Title, a.Body),
		DurationMs: constants.NotificationDurationMs,
		Sound:      a.Sound,
	}
	return n.sendNotification(ctx, port, secret, payload)
}

// Status asks the tray whether desktop notifications are allowed. A tray
// that is not running reports undetermined.
func (n *Notifier) Status(ctx context.Context) (reminder.Status, error) {
	port, secret, err := n.locate()
	if err != nil {
		return reminder.StatusUndetermined, nil
	}
	return n.permission(ctx, http.MethodGet, port, secret)
}

// Request asks the tray to prompt the user for notification permission.
func (n *Notifier) Request(ctx context.Context) (reminder.Status, error) {
	port, secret, err := n.locate()
	if err != nil {
		return reminder.StatusDenied, err
	}
	return n.permission(ctx, http.MethodPost, port, secret)
}

func (n *Notifier) locate() (string, string, error) {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return "", "", err
	}
	return findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may point the lockfile somewhere else
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads a port|pid|secret lockfile and checks
// that the pid belongs to a live tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) do(ctx context.Context, method, url, secret string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(constants.TraySecretHeader, secret)
	return n.client.Do(req)
}

func (n *Notifier) sendNotification(ctx context.Context, port, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	res, err := n.do(ctx, http.MethodPost, fmt.Sprintf("http://127.0.0.1:%s", port), secret, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

func (n *Notifier) permission(ctx context.Context, method, port, secret string) (reminder.Status, error) {
	res, err := n.do(ctx, method, fmt.Sprintf("http://127.0.0.1:%s/permission", port), secret, nil)
	if err != nil {
		return reminder.StatusUndetermined, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return reminder.StatusUndetermined, fmt.Errorf("permission check failed with status %d: %s", res.StatusCode, string(body))
	}

	var pr permissionResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return reminder.StatusUndetermined, fmt.Errorf("invalid permission response: %w", err)
	}
	switch pr.Status {
	case reminder.StatusGranted, reminder.StatusDenied, reminder.StatusUndetermined:
		return pr.Status, nil
	default:
		return reminder.StatusUndetermined, fmt.Errorf("unknown permission status %q", pr.Status)
	}
}
