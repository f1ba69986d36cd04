package habits

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
)

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	idStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printHabits(list []models.Habit) {
	if len(list) == 0 {
		fmt.Println("No habits found.")
		return
	}
	for _, h := range list {
		fmt.Printf("%s  %s\n", idStyle.Render(fmt.Sprintf("%14d", h.ID)), nameStyle.Render(h.Name))
		fmt.Printf("%16s%s\n", "", h.Description)
	}
}

// catalogList returns what the catalog could load. A failed remote fetch
// only produces a warning when local habits are still available.
func catalogList(ctx *cli.Context, list func(*habits.Catalog) ([]models.Habit, error)) ([]models.Habit, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, err
	}
	result, err := list(catalog)
	if errors.Is(err, habits.ErrFetchFailed) {
		fmt.Fprintf(os.Stderr, "⚠ %v (showing local habits only)\n", err)
		return result, nil
	}
	return result, err
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	list, err := catalogList(ctx, func(cat *habits.Catalog) ([]models.Habit, error) {
		return cat.List(ctx.Background())
	})
	if err != nil {
		return err
	}
	printHabits(list)
	return nil
}

type SearchCmd struct {
	Query string `arg:"" help:"Case-insensitive text to look for in habit names."`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	list, err := catalogList(ctx, func(cat *habits.Catalog) ([]models.Habit, error) {
		return cat.Search(ctx.Background(), c.Query)
	})
	if err != nil {
		return err
	}
	printHabits(list)
	return nil
}

type AddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `arg:"" help:"What the habit involves."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	catalog, err := ctx.Catalog()
	if err != nil {
		return err
	}
	habit, err := catalog.Add(ctx.Background(), c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	fmt.Printf("✓ Added habit %q (id %d)\n", habit.Name, habit.ID)
	return nil
}

type ShowCmd struct {
	ID int64 `arg:"" help:"Habit id."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	catalog, err := ctx.Catalog()
	if err != nil {
		return err
	}
	habit, err := catalog.Find(ctx.Background(), c.ID)
	if err != nil {
		return err
	}

	fmt.Println(nameStyle.Render(habit.Name))
	fmt.Println(habit.Description)

	r, found, err := reminder.NewStore(ctx.Store).Load(ctx.Background(), habit.ID)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := settings.Location()
	if err != nil {
		return err
	}
	fmt.Println()
	if !found {
		fmt.Printf("No reminder set. Use 'habitual reminder set %d' to add one.\n", habit.ID)
		return nil
	}
	fmt.Printf("Reminder: %s at %s\n", r.Text, cli.FormatTrigger(r.TriggerTime, loc))
	return nil
}
