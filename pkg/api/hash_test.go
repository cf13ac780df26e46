package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Hash(t *testing.T) {
	start := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)

	baseEvent := Event{
		ID:    "ev-1",
		Title: "Standup",
		Start: start,
		End:   start.Add(time.Hour),
		Color: StringPtr("#3B86FF"),
		Notes: StringPtr("bring coffee"),
	}

	t.Run("identical events produce identical hashes", func(t *testing.T) {
		e1 := baseEvent.Clone()
		e2 := baseEvent.Clone()
		assert.Equal(t, e1.Hash(), e2.Hash())
	})

	t.Run("id does not participate", func(t *testing.T) {
		e2 := baseEvent.Clone()
		e2.ID = "ev-2"
		assert.Equal(t, baseEvent.Hash(), e2.Hash())
	})

	t.Run("different content produces different hashes", func(t *testing.T) {
		e2 := baseEvent.Clone()
		e2.Title = "Retro"

		e3 := baseEvent.Clone()
		e3.End = e3.End.Add(time.Minute)

		assert.NotEqual(t, baseEvent.Hash(), e2.Hash())
		assert.NotEqual(t, baseEvent.Hash(), e3.Hash())
	})

	t.Run("absent notes differ from empty notes", func(t *testing.T) {
		e1 := baseEvent.Clone()
		e1.Notes = nil

		e2 := baseEvent.Clone()
		empty := ""
		e2.Notes = &empty

		assert.NotEqual(t, e1.Hash(), e2.Hash())
	})

	t.Run("timezone independence", func(t *testing.T) {
		loc, _ := time.LoadLocation("America/New_York")

		e1 := baseEvent.Clone()
		e1.Start = start.In(loc)
		e1.End = start.Add(time.Hour).In(loc)

		assert.Equal(t, e1.Hash(), baseEvent.Hash(), "Hash should be independent of timezone for the same instant")
	})
}
