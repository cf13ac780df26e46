package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/calpad/pkg/api"
)

func sampleEvents() []api.Event {
	start := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	return []api.Event{
		{ID: "a", Title: "Standup", Start: start, End: start.Add(30 * time.Minute), Color: api.StringPtr("#FF6B6B")},
		{ID: "b", Title: "Planning", Start: start.Add(24 * time.Hour), End: start.Add(26 * time.Hour), Notes: api.StringPtr("bring the roadmap")},
	}
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Export(&buf, sampleEvents(), stamp))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "UID:a")
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "DTSTART:20300501T090000Z")
	assert.Contains(t, out, "COLOR:#FF6B6B")
	assert.Contains(t, out, "DESCRIPTION:bring the roadmap")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestExportThenParse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleEvents(), time.Now()))

	res, err := Parse(&buf, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	for i, want := range sampleEvents() {
		got := res.Events[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.True(t, want.Start.Equal(got.Start))
		assert.True(t, want.End.Equal(got.End))
		assert.Equal(t, want.Hash(), got.Hash())
	}
}

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:long@test\r\n" +
	"DTSTAMP:20300101T000000Z\r\n" +
	"DTSTART:20300601T100000Z\r\n" +
	"SUMMARY:An extremely long meeting title that keeps going\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"DTSTAMP:20300101T000000Z\r\n" +
	"DTSTART:20300602T080000Z\r\n" +
	"DTEND:20300602T083000Z\r\n" +
	"RRULE:FREQ=WEEKLY\r\n" +
	"SUMMARY:Weekly sync\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nosummary@test\r\n" +
	"DTSTAMP:20300101T000000Z\r\n" +
	"DTSTART:20300603T080000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseFeed(t *testing.T) {
	res, err := Parse(strings.NewReader(feed), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Recurring)
	require.Len(t, res.Events, 2)

	long := res.Events[0]
	assert.Equal(t, api.MaxTitleLen, len([]rune(long.Title)))
	assert.Equal(t, time.Hour, long.Duration(), "missing DTEND defaults to one hour")

	weekly := res.Events[1]
	assert.Equal(t, "weekly@test", weekly.ID)
	assert.Equal(t, 30*time.Minute, weekly.Duration())
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:x\r\nEND:VCALENDAR\r\n"), time.UTC)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestMerge(t *testing.T) {
	existing := sampleEvents()
	start := time.Date(2030, 7, 1, 9, 0, 0, 0, time.UTC)

	dup := existing[0]
	dup.ID = "other-id"
	collide := api.Event{ID: "a", Title: "New thing", Start: start, End: start.Add(time.Hour)}
	fresh := api.Event{ID: "z", Title: "Fresh", Start: start, End: start.Add(time.Hour)}
	noID := api.Event{Title: "No id", Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)}

	added, dups := Merge(existing, []api.Event{dup, collide, fresh, noID, fresh})
	assert.Equal(t, 2, dups)
	require.Len(t, added, 3)
	assert.NotEqual(t, "a", added[0].ID)
	assert.Equal(t, "New thing", added[0].Title)
	assert.Equal(t, "z", added[1].ID)
	assert.NotEmpty(t, added[2].ID)
}
