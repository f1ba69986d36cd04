package habits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Source lists seed habits.
type Source interface {
	Fetch(ctx context.Context) ([]models.Habit, error)
}

// RemoteSource reads the seed habit listing from an HTTP JSON endpoint.
type RemoteSource struct {
	url    string
	client *http.Client
}

func NewRemoteSource(url string) *RemoteSource {
	return &RemoteSource{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *RemoteSource) Fetch(ctx context.Context) ([]models.Habit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, res.StatusCode, string(body))
	}

	var habits []models.Habit
	if err := json.NewDecoder(res.Body).Decode(&habits); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrFetchFailed, err)
	}
	return habits, nil
}

// StaticSource serves a fixed list, used offline and in tests.
type StaticSource []models.Habit

func (s StaticSource) Fetch(context.Context) ([]models.Habit, error) {
	return append([]models.Habit(nil), s...), nil
}
