package reminders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/alarm"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui"
)

func findHabit(ctx *cli.Context, id int64) (models.Habit, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return models.Habit{}, err
	}
	return catalog.Find(ctx.Background(), id)
}

type SetCmd struct {
	HabitID int64  `arg:"" help:"Habit id."`
	Time    string `arg:"" optional:"" help:"Time of day (HH:MM). Prompted for when omitted."`
	Text    string `short:"t" help:"Reminder text. Prompted for when omitted."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	habit, err := findHabit(ctx, c.HabitID)
	if err != nil {
		return err
	}

	sched, err := ctx.Scheduler(nil)
	if err != nil {
		return err
	}

	if c.Time == "" || strings.TrimSpace(c.Text) == "" {
		fm := &tui.ReminderFormModel{Text: c.Text, Time: c.Time}
		prefill(ctx, sched, habit.ID, fm)
		if err := tui.NewReminderForm(habit.Name, fm).Run(); err != nil {
			return err
		}
		c.Text, c.Time = fm.Text, fm.Time
	}

	at, err := reminder.ParseTimeOfDay(c.Time)
	if err != nil {
		return err
	}
	r, err := sched.Save(ctx.Background(), reminder.SaveRequest{Habit: habit, Text: c.Text, Time: at})
	if err != nil {
		return err
	}
	fmt.Printf("Reminder for %q fires %s\n", habit.Name, cli.FormatTrigger(r.TriggerTime, sched.Location()))
	return nil
}

type ShowCmd struct {
	HabitID int64 `arg:"" help:"Habit id."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	sched, err := ctx.Scheduler(nil)
	if err != nil {
		return err
	}
	r, found, err := sched.Load(ctx.Background(), c.HabitID)
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("No reminder set for habit %d.\n", c.HabitID)
		return nil
	}
	fmt.Printf("Text:  %s\n", r.Text)
	fmt.Printf("Fires: %s\n", cli.FormatTrigger(r.TriggerTime, sched.Location()))
	fmt.Printf("State: %s\n", alarmState(ctx, r))
	return nil
}

// prefill copies the stored reminder into the blank form fields. A record
// that cannot be read leaves the form as is.
func prefill(ctx *cli.Context, sched *reminder.Scheduler, habitID int64, fm *tui.ReminderFormModel) {
	prev, found, err := sched.Load(ctx.Background(), habitID)
	if err != nil {
		logger.Warn("could not load reminder to pre-fill form", "habit", habitID, "error", err)
		return
	}
	if !found {
		return
	}
	if fm.Text == "" {
		fm.Text = prev.Text
	}
	if fm.Time == "" {
		fm.Time = prev.TriggerTime.In(sched.Location()).Format("15:04")
	}
}

func alarmState(ctx *cli.Context, r models.Reminder) string {
	if r.AlarmID == "" {
		return "no alarm"
	}
	a, err := alarm.NewRegistry(ctx.Store).Get(ctx.Background(), r.AlarmID)
	switch {
	case errors.Is(err, storage.ErrAlarmNotFound):
		return "alarm missing"
	case err != nil:
		return "unknown (" + err.Error() + ")"
	case a.FiredAt != nil:
		return "delivered"
	case a.CanceledAt != nil:
		return "canceled"
	default:
		return "pending"
	}
}

type CancelCmd struct {
	HabitID int64 `arg:"" help:"Habit id."`
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	sched, err := ctx.Scheduler(nil)
	if err != nil {
		return err
	}
	canceled, err := sched.Cancel(ctx.Background(), c.HabitID)
	if err != nil {
		return err
	}
	if !canceled {
		fmt.Printf("No reminder set for habit %d.\n", c.HabitID)
		return nil
	}
	fmt.Printf("✓ Reminder for habit %d canceled\n", c.HabitID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	list, err := reminder.NewStore(ctx.Store).List(ctx.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No reminders set.")
		return nil
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := settings.Location()
	if err != nil {
		return err
	}

	names := map[int64]string{}
	if catalog, err := ctx.Catalog(); err == nil {
		all, err := catalog.List(ctx.Background())
		if err != nil && !errors.Is(err, habits.ErrFetchFailed) {
			return err
		}
		for _, h := range all {
			names[h.ID] = h.Name
		}
	}

	for _, r := range list {
		name := names[r.HabitID]
		if name == "" {
			name = fmt.Sprintf("habit %d", r.HabitID)
		}
		fmt.Printf("%-24s %-28s %s (%s)\n", name, cli.FormatTrigger(r.TriggerTime, loc), r.Text, alarmState(ctx, r))
	}
	return nil
}
