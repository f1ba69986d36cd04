package reminder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
)

func TestStoreRecordFormat(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	store := NewStore(kv)

	r := models.Reminder{HabitID: 3, Text: "Read", TriggerTime: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save(ctx, r))

	raw, found, err := kv.GetItem(ctx, "reminder-3")
	require.NoError(t, err)
	require.True(t, found)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, map[string]any{"text": "Read", "time": "2024-01-02T09:00:00Z"}, doc)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	store := NewStore(kv)
	trigger := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, models.Reminder{HabitID: 2, Text: "b", TriggerTime: trigger}))
	require.NoError(t, store.Save(ctx, models.Reminder{HabitID: 1, Text: "a", TriggerTime: trigger}))
	require.NoError(t, kv.SetItem(ctx, "reminder-oops", "{}"))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].HabitID)
	assert.Equal(t, int64(2), list[1].HabitID)

	require.NoError(t, store.Delete(ctx, 1))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
