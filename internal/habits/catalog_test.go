package habits

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/memory"
)

var seed = StaticSource{
	{ID: 1, Name: "Drink water", Description: "Eight glasses a day"},
	{ID: 2, Name: "Morning run", Description: "5k before work"},
}

type failingSource struct{ calls int }

func (f *failingSource) Fetch(context.Context) ([]models.Habit, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

type countingSource struct {
	StaticSource
	calls int
}

func (c *countingSource) Fetch(ctx context.Context) ([]models.Habit, error) {
	c.calls++
	return c.StaticSource.Fetch(ctx)
}

func TestListMergesRemoteThenLocal(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{StaticSource: seed}
	c := NewCatalog(memory.New(), src)

	added, err := c.Add(ctx, "Read", "Ten pages")
	require.NoError(t, err)

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Drink water", all[0].Name)
	assert.Equal(t, "Morning run", all[1].Name)
	assert.Equal(t, added, all[2])

	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "remote habits are fetched once")
}

func TestListKeepsLocalWhenFetchFails(t *testing.T) {
	ctx := context.Background()
	src := &failingSource{}
	c := NewCatalog(memory.New(), src)

	_, err := c.Add(ctx, "Read", "Ten pages")
	require.NoError(t, err)

	all, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrFetchFailed)
	require.Len(t, all, 1)
	assert.Equal(t, "Read", all[0].Name)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(memory.New(), seed)

	_, err := c.Add(ctx, "  ", "desc")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = c.Add(ctx, "Name", "")
	assert.ErrorIs(t, err, ErrEmptyDescription)

	local, err := c.Local(ctx)
	require.NoError(t, err)
	assert.Empty(t, local)
}

func TestAddPersistsAcrossCatalogs(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	h, err := NewCatalog(kv, seed).Add(ctx, "Meditate", "Ten minutes")
	require.NoError(t, err)

	found, err := NewCatalog(kv, seed).Find(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h, found)
}

func TestAddIssuesIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(memory.New(), seed)
	fixed := time.UnixMilli(1_700_000_000_000)
	c.ids.now = func() time.Time { return fixed }

	a, err := c.Add(ctx, "A", "a")
	require.NoError(t, err)
	b, err := c.Add(ctx, "B", "b")
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), a.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(memory.New(), seed)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Drink water", "Morning run"}},
		{"WATER", []string{"Drink water"}},
		{"run", []string{"Morning run"}},
		{"r", []string{"Drink water", "Morning run"}},
		{"yoga", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.Search(ctx, tt.query)
			require.NoError(t, err)
			var names []string
			for _, h := range got {
				names = append(names, h.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindMissing(t *testing.T) {
	c := NewCatalog(memory.New(), seed)
	_, err := c.Find(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIDSourceFloor(t *testing.T) {
	s := NewIDSource()
	s.now = func() time.Time { return time.UnixMilli(100) }

	assert.Equal(t, int64(100), s.Next(0))
	assert.Equal(t, int64(101), s.Next(0))
	assert.Equal(t, int64(501), s.Next(500))
	assert.Equal(t, int64(502), s.Next(0))
}

func TestRemoteSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/habits":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"habitName":"Drink water","description":"Eight glasses"},{"id":2,"habitName":"Stretch","description":"Every morning"}]`))
		case "/broken":
			w.Write([]byte(`{"not":"a list"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	ctx := context.Background()

	habits, err := NewRemoteSource(server.URL + "/habits").Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, models.Habit{ID: 2, Name: "Stretch", Description: "Every morning"}, habits[1])

	_, err = NewRemoteSource(server.URL + "/missing").Fetch(ctx)
	assert.ErrorIs(t, err, ErrFetchFailed)

	_, err = NewRemoteSource(server.URL + "/broken").Fetch(ctx)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
