package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/alarm"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
)

// DaemonCmd delivers reminders when they come due. It runs until
// interrupted.
type DaemonCmd struct {
	Once     bool          `help:"Fire alarms that are due now and exit."`
	Interval time.Duration `help:"Poll interval. Defaults to the poll_interval_sec setting."`
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	ch, err := ctx.Channel()
	if err != nil {
		return err
	}

	interval := c.Interval
	if interval <= 0 {
		interval = time.Duration(settings.PollIntervalSec) * time.Second
	}
	runner := alarm.NewRunner(ctx.Store, ch, interval)

	if c.Once {
		fired, err := runner.FireDue(ctx.Background())
		fmt.Printf("Delivered %d reminder(s)\n", fired)
		return err
	}

	logger.Info("alarm daemon started", "channel", settings.Channel, "interval", interval)
	fmt.Printf("Delivering reminders through %s every %s. Press Ctrl+C to stop.\n", settings.Channel, interval)

	runner.Start(ctx.Background())
	<-ctx.Background().Done()
	runner.Stop()

	logger.Info("alarm daemon stopped")
	return nil
}
