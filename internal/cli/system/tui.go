package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/feedback"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	session, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	catalog, err := ctx.Catalog()
	if err != nil {
		return err
	}
	// the terminal belongs to the program, so success is shown in the status line
	sched, err := ctx.Scheduler(feedback.Nop{})
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.Config{
		Ctx:       ctx.Background(),
		Session:   session,
		Auth:      ctx.Auth(),
		Catalog:   catalog,
		Reminders: reminder.NewStore(ctx.Store),
		Scheduler: sched,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Background())).Run()
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.LoggedOut() {
		fmt.Printf("Logged out %s\n", session.Email)
	}
	return nil
}
