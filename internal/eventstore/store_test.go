package eventstore

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/calpad/internal/db"
	"github.com/mithrel/calpad/pkg/api"
)

// failingKV wraps a Mem and fails writes on demand.
type failingKV struct {
	*db.Mem
	failSet bool
	sets    int
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.Mem.Set(ctx, key, value)
}

func sampleEvents() []api.Event {
	base := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	return []api.Event{
		{ID: "a", Title: "Standup", Start: base, End: base.Add(time.Hour), Color: api.StringPtr("#FF6B6B")},
		{ID: "b", Title: "Lunch", Start: base.Add(3*time.Hour + 123*time.Millisecond), End: base.Add(4 * time.Hour), Notes: api.StringPtr("the usual")},
		{ID: "c", Title: "Review", Start: base.Add(24 * time.Hour), End: base.Add(26 * time.Hour), Color: api.StringPtr("#AA96DA"), Notes: api.StringPtr("")},
	}
}

func newTestStore(kv db.KV, buf *bytes.Buffer) *Store {
	return New(kv, WithLogger(log.New(buf, "", 0)), WithLocation(time.UTC))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMem()
	var buf bytes.Buffer
	s := newTestStore(kv, &buf)

	want := sampleEvents()
	s.SaveAll(ctx, want)
	require.True(t, kv.Has(DefaultKey))

	got := newTestStore(kv, &buf).LoadAll(ctx)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.True(t, want[i].Start.Truncate(time.Millisecond).Equal(got[i].Start))
		assert.True(t, want[i].End.Truncate(time.Millisecond).Equal(got[i].End))
		assert.Equal(t, want[i].Color, got[i].Color)
		assert.Equal(t, want[i].Notes, got[i].Notes)
	}
	assert.Empty(t, buf.String())
}

func TestSerializedShape(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMem()
	s := New(kv)
	start := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	s.SaveAll(ctx, []api.Event{{ID: "a", Title: "T", Start: start, End: start.Add(time.Hour)}})

	raw, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","start":"2030-05-01T09:00:00.000Z","end":"2030-05-01T10:00:00.000Z","title":"T"}]`, raw)
}

func TestLoadsForeignTimestamps(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMem()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[{"id":"x","start":"2030-01-02T03:04:05+02:00","end":"2030-01-02T04:04:05.5+02:00","title":"Offset"}]`))

	got := New(kv, WithLocation(time.UTC)).LoadAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2030, 1, 2, 1, 4, 5, 0, time.UTC), got[0].Start)
	assert.Nil(t, got[0].Color)
}

func TestSaveEmptyRemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMem()
	s := New(kv)
	s.SaveAll(ctx, sampleEvents())
	require.True(t, kv.Has(DefaultKey))

	s.SaveAll(ctx, nil)
	assert.False(t, kv.Has(DefaultKey))
	assert.Empty(t, New(kv).LoadAll(ctx))
}

func TestLoadMissingKey(t *testing.T) {
	got := New(db.NewMem()).LoadAll(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadCorruptedDiscards(t *testing.T) {
	tests := map[string]string{
		"invalid json":   `[{"id":`,
		"wrong shape":    `{"id":"a"}`,
		"bad start time": `[{"id":"a","start":"yesterday","end":"2030-01-01T00:00:00Z","title":"x"}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := db.NewMem()
			require.NoError(t, kv.Set(ctx, DefaultKey, raw))
			var buf bytes.Buffer

			got := newTestStore(kv, &buf).LoadAll(ctx)
			assert.Empty(t, got)
			assert.False(t, kv.Has(DefaultKey))
			assert.Contains(t, buf.String(), "discarding corrupted events")
		})
	}
}

func TestLoadCollapsesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMem()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[
{"id":"a","start":"2030-01-01T10:00:00.000Z","end":"2030-01-01T11:00:00.000Z","title":"first"},
{"id":"a","start":"2030-01-02T10:00:00.000Z","end":"2030-01-02T11:00:00.000Z","title":"second"}]`))
	got := New(kv).LoadAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Title)
}

func TestWriteFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Mem: db.NewMem(), failSet: true}
	var buf bytes.Buffer
	s := newTestStore(kv, &buf)

	require.NoError(t, s.Add(sampleEvents()[0]))
	s.Persist(ctx)

	assert.Contains(t, buf.String(), "warn: write events")
	assert.Equal(t, 1, s.Len(), "in-memory list stays authoritative")
	assert.False(t, kv.Has(DefaultKey))

	kv.failSet = false
	s.Persist(ctx)
	assert.True(t, kv.Has(DefaultKey))
}

func TestUnchangedListSkipsWrite(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Mem: db.NewMem()}
	s := New(kv)
	s.SaveAll(ctx, sampleEvents())
	s.SaveAll(ctx, sampleEvents())
	assert.Equal(t, 1, kv.sets)

	evs := sampleEvents()
	evs[0].Title = "Changed"
	s.SaveAll(ctx, evs)
	assert.Equal(t, 2, kv.sets)
}

func TestAddUpdateRemove(t *testing.T) {
	s := New(db.NewMem())
	for _, e := range sampleEvents() {
		require.NoError(t, s.Add(e))
	}
	assert.ErrorIs(t, s.Add(api.Event{ID: "a"}), ErrDuplicateID)
	assert.Equal(t, 3, s.Len())

	t.Run("update patches listed fields only", func(t *testing.T) {
		newStart := time.Date(2031, 1, 1, 8, 0, 0, 0, time.UTC)
		newEnd := newStart.Add(time.Hour)
		require.True(t, s.Update("a", Patch{Start: &newStart, End: &newEnd}))
		got, ok := s.Get("a")
		require.True(t, ok)
		assert.Equal(t, newStart, got.Start)
		assert.Equal(t, newEnd, got.End)
		assert.Equal(t, "Standup", got.Title)
		assert.Equal(t, "#FF6B6B", *got.Color)
	})

	t.Run("empty optional clears", func(t *testing.T) {
		empty := ""
		require.True(t, s.Update("b", Patch{Notes: &empty}))
		got, _ := s.Get("b")
		assert.Nil(t, got.Notes)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		title := "x"
		before := s.List()
		assert.False(t, s.Update("zzz", Patch{Title: &title}))
		assert.Equal(t, before, s.List())
	})

	t.Run("remove twice is idempotent", func(t *testing.T) {
		assert.True(t, s.Remove("c"))
		after := s.List()
		assert.False(t, s.Remove("c"))
		assert.Equal(t, after, s.List())
		assert.False(t, s.Remove("never"))
		assert.Equal(t, after, s.List())
	})
}

func TestListReturnsCopies(t *testing.T) {
	s := New(db.NewMem())
	require.NoError(t, s.Add(sampleEvents()[0]))
	list := s.List()
	list[0].Title = "mutated"
	*list[0].Color = "#000000"

	got, _ := s.Get("a")
	assert.Equal(t, "Standup", got.Title)
	assert.Equal(t, "#FF6B6B", *got.Color)
}
