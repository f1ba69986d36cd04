// Package habits merges the remote seed habits with habits added locally.
package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	ErrEmptyName        = errors.New("habit name is required")
	ErrEmptyDescription = errors.New("habit description is required")
	ErrDuplicateID      = errors.New("habit id already exists")
	ErrNotFound         = errors.New("habit not found")
	ErrFetchFailed      = errors.New("failed to fetch habits")
)

// Catalog is the merged habit list: remote habits first, then local ones
// in the order they were added. The remote list is fetched once.
type Catalog struct {
	kv     storage.KV
	remote Source
	ids    *IDSource

	mu        sync.Mutex
	fetched   bool
	remoteErr error
	seed      []models.Habit
}

func NewCatalog(kv storage.KV, remote Source) *Catalog {
	return &Catalog{
		kv:     kv,
		remote: remote,
		ids:    NewIDSource(),
	}
}

func (c *Catalog) seedHabits(ctx context.Context) ([]models.Habit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetched && c.remote != nil {
		c.seed, c.remoteErr = c.remote.Fetch(ctx)
		c.fetched = true
	}
	return c.seed, c.remoteErr
}

// Local returns the habits added on this machine.
func (c *Catalog) Local(ctx context.Context) ([]models.Habit, error) {
	var local []models.Habit
	if _, err := storage.GetJSON(ctx, c.kv, constants.KeyHabits, &local); err != nil {
		return nil, fmt.Errorf("failed to read local habits: %w", err)
	}
	return local, nil
}

// List returns every habit. If the remote source fails the local habits
// are still returned together with an error wrapping ErrFetchFailed.
func (c *Catalog) List(ctx context.Context) ([]models.Habit, error) {
	local, err := c.Local(ctx)
	if err != nil {
		return nil, err
	}
	seed, fetchErr := c.seedHabits(ctx)

	seen := make(map[int64]bool, len(seed)+len(local))
	all := make([]models.Habit, 0, len(seed)+len(local))
	for _, h := range append(append([]models.Habit(nil), seed...), local...) {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		all = append(all, h)
	}

	if fetchErr != nil {
		if !errors.Is(fetchErr, ErrFetchFailed) {
			fetchErr = fmt.Errorf("%w: %v", ErrFetchFailed, fetchErr)
		}
		return all, fetchErr
	}
	return all, nil
}

// Search returns habits whose name contains query, ignoring case. An
// empty query matches everything.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Habit, error) {
	all, err := c.List(ctx)
	if all == nil {
		return nil, err
	}
	var out []models.Habit
	for _, h := range all {
		if h.Matches(query) {
			out = append(out, h)
		}
	}
	return out, err
}

func (c *Catalog) Find(ctx context.Context, id int64) (models.Habit, error) {
	all, err := c.List(ctx)
	for _, h := range all {
		if h.ID == id {
			return h, nil
		}
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("%w: %d (%v)", ErrNotFound, id, err)
	}
	return models.Habit{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Add creates a local habit. Both fields are required.
func (c *Catalog) Add(ctx context.Context, name, description string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return models.Habit{}, ErrEmptyName
	}
	if description == "" {
		return models.Habit{}, ErrEmptyDescription
	}

	all, listErr := c.List(ctx)
	if all == nil && listErr != nil {
		return models.Habit{}, listErr
	}
	var maxID int64
	for _, h := range all {
		if h.ID > maxID {
			maxID = h.ID
		}
	}

	habit, err := models.NewHabit(c.ids.Next(maxID), name, description)
	if err != nil {
		return models.Habit{}, err
	}

	local, err := c.Local(ctx)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range local {
		if h.ID == habit.ID {
			return models.Habit{}, ErrDuplicateID
		}
	}
	local = append(local, habit)
	if err := storage.SetJSON(ctx, c.kv, constants.KeyHabits, local); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}
	return habit, nil
}
