package reminder

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Haptics acknowledges a successful save.
type Haptics interface {
	Success() error
	Vibrate(pattern []time.Duration) error
	Pulse(d time.Duration) error
}

// acknowledge tries the success primitive, then a vibration pattern, then a
// single pulse, each only if the previous failed. Failures are logged only.
func acknowledge(h Haptics) {
	if h == nil {
		return
	}
	err := h.Success()
	if err == nil {
		return
	}
	logger.Debug("success feedback failed, falling back to vibration", "error", err)

	if err = h.Vibrate(constants.VibrationPattern); err == nil {
		return
	}
	logger.Debug("vibration failed, falling back to pulse", "error", err)

	if err = h.Pulse(constants.PulseDuration); err != nil {
		logger.Warn("feedback unavailable", "error", err)
	}
}
