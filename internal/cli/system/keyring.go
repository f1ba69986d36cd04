package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

// secretNames maps the names accepted on the command line to keyring entries.
var secretNames = map[string]keyring.Secret{
	"connection-string": keyring.ConnectionString,
	"telegram":          keyring.TelegramToken,
}

func lookupSecret(name string) (keyring.Secret, error) {
	secret, ok := secretNames[name]
	if !ok {
		return "", fmt.Errorf("unknown secret %q (expected connection-string or telegram)", name)
	}
	return secret, nil
}

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Name  string `arg:"" enum:"connection-string,telegram" help:"Which secret to store (connection-string, telegram)."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := lookupSecret(cmd.Name)
	if err != nil {
		return err
	}

	if secret == keyring.ConnectionString {
		if !postgres.IsConnString(cmd.Value) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", cmd.Name, err)
	}

	fmt.Printf("✓ %s stored successfully in OS keyring\n", cmd.Name)
	if secret == keyring.ConnectionString {
		fmt.Println("  You can now use habitual without the --config flag")
	}
	return nil
}

// KeyringGetCmd prints a stored secret with any password masked
type KeyringGetCmd struct {
	Name string `arg:"" enum:"connection-string,telegram" help:"Which secret to show."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := lookupSecret(cmd.Name)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'habitual keyring set %s' to store one", cmd.Name, cmd.Name)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", cmd.Name, err)
	}

	if secret == keyring.ConnectionString {
		fmt.Println(maskPassword(value))
	} else {
		fmt.Println(maskToken(value))
	}
	return nil
}

type KeyringDeleteCmd struct {
	Name string `arg:"" enum:"connection-string,telegram" help:"Which secret to delete."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := lookupSecret(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", cmd.Name)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", cmd.Name, err)
	}

	fmt.Printf("✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")
	for _, name := range []string{"connection-string", "telegram"} {
		_, err := keyring.Get(secretNames[name])
		switch {
		case err == nil:
			fmt.Printf("✓ %s is stored in keyring\n", name)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ No %s stored in keyring\n", name)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// the last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}

// maskToken keeps the bot id prefix of a Telegram token and hides the rest.
func maskToken(token string) string {
	if idx := strings.Index(token, ":"); idx != -1 {
		return token[:idx+1] + "****"
	}
	return "****"
}
