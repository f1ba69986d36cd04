package feedback

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(tty, sound bool) (*Terminal, *bytes.Buffer, *[]time.Duration) {
	var buf bytes.Buffer
	var slept []time.Duration
	return &Terminal{
		out:     &buf,
		tty:     tty,
		sound:   sound,
		message: "Reminder set",
		sleep:   func(d time.Duration) { slept = append(slept, d) },
	}, &buf, &slept
}

func TestSuccess(t *testing.T) {
	term, buf, _ := newTestTerminal(true, true)
	require.NoError(t, term.Success())
	assert.Contains(t, buf.String(), "Reminder set")
	assert.True(t, strings.HasSuffix(buf.String(), "\a\n"))

	term, _, _ = newTestTerminal(false, true)
	assert.ErrorIs(t, term.Success(), ErrNotTerminal)
}

func TestVibrate(t *testing.T) {
	term, buf, slept := newTestTerminal(true, true)
	pattern := []time.Duration{0, 250 * time.Millisecond, 100 * time.Millisecond, 250 * time.Millisecond}

	require.NoError(t, term.Vibrate(pattern))
	assert.Equal(t, 2, strings.Count(buf.String(), "\a"))
	assert.Equal(t, pattern, *slept)

	term, _, _ = newTestTerminal(true, false)
	assert.ErrorIs(t, term.Vibrate(pattern), ErrMuted)
}

func TestPulseAlwaysWrites(t *testing.T) {
	term, buf, _ := newTestTerminal(false, false)
	require.NoError(t, term.Pulse(time.Second))
	assert.Equal(t, "Reminder set\n", buf.String())
}
