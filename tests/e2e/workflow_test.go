package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

const (
	testEmail    = "e2e@example.com"
	testPassword = "correct horse battery staple"
)

var habitIDPattern = regexp.MustCompile(`\(id (\d+)\)`)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("HABITUAL_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "habitual")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with: go build -o bin/habitual ./cmd/habitual", cliPath)
	}

	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "XDG_CONFIG_HOME=") && !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "HABITUAL_") {
			env = append(env, e)
		}
	}
	env = append(env,
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("HABITUAL_CONFIG=%s", filepath.Join(tempDir, "habitual", "habitual.db")),
	)
	authEnv := append(env, "HABITUAL_PASSWORD="+testPassword)

	// 2. Initialize storage and point the catalog away from the network
	t.Log("Initializing CLI...")
	runCmd(t, cliPath, env, "init")
	runCmd(t, cliPath, env, "settings", "--habits-url=", "--channel", "console", "--timezone", "UTC")

	// 3. Habit list is gated on login
	if out, err := tryCmd(cliPath, env, "habit", "list"); err == nil {
		t.Fatalf("habit list succeeded without a session: %s", out)
	}

	// 4. Account flow
	t.Log("Signing up and logging in...")
	runCmd(t, cliPath, authEnv, "signup", "--email", testEmail)
	if out, err := tryCmd(cliPath, authEnv, "signup", "--email", testEmail); err == nil {
		t.Fatalf("duplicate signup succeeded: %s", out)
	}
	runCmd(t, cliPath, authEnv, "login", "--email", testEmail)
	if out := runCmd(t, cliPath, env, "profile"); !strings.Contains(out, testEmail) {
		t.Errorf("profile output missing email: %s", out)
	}

	// 5. Habits
	out := runCmd(t, cliPath, env, "habit", "add", "Read", "Twenty pages before bed")
	m := habitIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("could not find habit id in output: %s", out)
	}
	habitID := m[1]
	if out := runCmd(t, cliPath, env, "habit", "search", "rEa"); !strings.Contains(out, "Read") {
		t.Errorf("search did not find habit: %s", out)
	}

	// 6. Reminders: setting twice leaves a single pending alarm
	at := time.Now().UTC().Add(2 * time.Hour).Format("15:04")
	t.Logf("Setting reminder for %s", at)
	runCmd(t, cliPath, env, "reminder", "set", habitID, at, "-t", "first")
	runCmd(t, cliPath, env, "reminder", "set", habitID, at, "-t", "second")

	out = runCmd(t, cliPath, env, "reminder", "show", habitID)
	if !strings.Contains(out, "second") || !strings.Contains(out, "pending") {
		t.Errorf("unexpected reminder: %s", out)
	}
	if out := runCmd(t, cliPath, env, "reminder", "list"); strings.Count(out, "pending") != 1 {
		t.Errorf("expected exactly one pending reminder: %s", out)
	}

	// 7. Delivery path
	if out := runCmd(t, cliPath, env, "notify", "hello from e2e"); !strings.Contains(out, "hello from e2e") {
		t.Errorf("console channel did not print the notification: %s", out)
	}
	runCmd(t, cliPath, env, "daemon", "--once")
	runCmd(t, cliPath, env, "doctor")

	// 8. Cancel and logout
	runCmd(t, cliPath, env, "reminder", "cancel", habitID)
	if out := runCmd(t, cliPath, env, "reminder", "show", habitID); !strings.Contains(out, "No reminder") {
		t.Errorf("reminder still present after cancel: %s", out)
	}
	runCmd(t, cliPath, env, "logout")
	if out, err := tryCmd(cliPath, env, "profile"); err == nil {
		t.Fatalf("profile succeeded after logout: %s", out)
	}
}

func tryCmd(path string, env []string, args ...string) (string, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	out, err := tryCmd(path, env, args...)
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return out
}
