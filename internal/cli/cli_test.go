package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/pkg/api"
)

// writeConfigTOML isolates a test in its own config and SQLite file.
func writeConfigTOML(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"

[calendar]
week_start = "monday"
`
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfg string, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err, out)
	return out
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	parts := strings.Split(lines[len(lines)-1], "\t")
	require.Len(t, parts, 2, "unexpected add output: %q", out)
	require.NotEmpty(t, parts[0])
	return parts[0]
}

func listJSON(t *testing.T, cfg string, args ...string) []api.Event {
	t.Helper()
	out := mustRun(t, cfg, append([]string{"event", "list", "--output", "json"}, args...)...)
	var events []api.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events), out)
	return events
}

func localTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	require.NoError(t, err)
	return tm
}

func TestEventAddShowDelete(t *testing.T) {
	cfg := writeConfigTOML(t)

	id := addedID(t, mustRun(t, cfg, "event", "add", "Dentist", "--at", "2099-06-01 09:30", "--notes", "bring card", "--color", "#ff6b6b"))

	out := mustRun(t, cfg, "event", "show", id, "--output", "json")
	var ev api.Event
	require.NoError(t, json.Unmarshal([]byte(out), &ev), out)
	assert.Equal(t, id, ev.ID)
	assert.Equal(t, "Dentist", ev.Title)
	assert.True(t, localTime(t, "2099-06-01 09:30").Equal(ev.Start))
	assert.Equal(t, time.Hour, ev.Duration())
	assert.Equal(t, "#FF6B6B", ev.ColorOr(""))
	assert.Equal(t, "bring card", ev.NotesText())

	// Prefixes resolve when unambiguous.
	mustRun(t, cfg, "event", "delete", id[:8], "--yes")
	_, err := run(t, cfg, "event", "show", id)
	assert.Error(t, err)
	assert.Empty(t, listJSON(t, cfg))
}

func TestEventAddRejections(t *testing.T) {
	cfg := writeConfigTOML(t)

	_, err := run(t, cfg, "event", "add", "Too late", "--at", "2001-01-01 10:00")
	assert.EqualError(t, err, calendar.MsgPastSlot)

	_, err = run(t, cfg, "event", "add", strings.Repeat("x", api.MaxTitleLen+1), "--at", "2099-01-01 10:00")
	assert.EqualError(t, err, calendar.MsgInvalidForm)

	_, err = run(t, cfg, "event", "add", "Colour", "--at", "2099-01-01 10:00", "--color", "#000000")
	assert.ErrorContains(t, err, "unknown color")

	_, err = run(t, cfg, "event", "add")
	assert.EqualError(t, err, "empty title")

	assert.Empty(t, listJSON(t, cfg))
}

func TestEventEditKeepsDuration(t *testing.T) {
	cfg := writeConfigTOML(t)
	id := addedID(t, mustRun(t, cfg, "event", "add", "Review", "--at", "2099-06-01 09:00"))
	mustRun(t, cfg, "event", "move", id, "--duration", "90m")

	mustRun(t, cfg, "event", "edit", id, "--title", "Design review", "--at", "2099-06-02 14:00")
	events := listJSON(t, cfg)
	require.Len(t, events, 1)
	assert.Equal(t, "Design review", events[0].Title)
	assert.True(t, localTime(t, "2099-06-02 14:00").Equal(events[0].Start))
	assert.Equal(t, 90*time.Minute, events[0].Duration())

	_, err := run(t, cfg, "event", "edit", id, "--at", "2001-01-01 10:00")
	assert.EqualError(t, err, calendar.MsgPastSave)

	_, err = run(t, cfg, "event", "edit", id)
	assert.ErrorContains(t, err, "nothing to change")
}

func TestEventEditWithEditor(t *testing.T) {
	cfg := writeConfigTOML(t)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i -e s/Original/Renamed/ -e s/old/new/")

	id := addedID(t, mustRun(t, cfg, "event", "add", "Original", "--at", "2099-06-01 09:00", "--notes", "old notes"))
	mustRun(t, cfg, "event", "edit", id, "--editor")

	events := listJSON(t, cfg)
	require.Len(t, events, 1)
	assert.Equal(t, "Renamed", events[0].Title)
	assert.Equal(t, "new notes", events[0].NotesText())
	assert.True(t, localTime(t, "2099-06-01 09:00").Equal(events[0].Start))
}

func TestEventMove(t *testing.T) {
	cfg := writeConfigTOML(t)
	id := addedID(t, mustRun(t, cfg, "event", "add", "Gym", "--at", "2099-06-01 18:00"))

	mustRun(t, cfg, "event", "move", id, "--by", "+1d")
	ev := listJSON(t, cfg)[0]
	assert.True(t, localTime(t, "2099-06-02 18:00").Equal(ev.Start))
	assert.Equal(t, time.Hour, ev.Duration())

	mustRun(t, cfg, "event", "move", id, "--at", "2099-07-01 07:15")
	ev = listJSON(t, cfg)[0]
	assert.True(t, localTime(t, "2099-07-01 07:15").Equal(ev.Start))

	_, err := run(t, cfg, "event", "move", id, "--at", "2001-01-01 07:15")
	assert.EqualError(t, err, calendar.MsgPastMove)

	_, err = run(t, cfg, "event", "move", id, "--duration", "-1h")
	assert.EqualError(t, err, calendar.MsgEndBefore)

	_, err = run(t, cfg, "event", "move", id, "--at", "2099-07-01", "--by", "1d")
	assert.Error(t, err)
}

func TestEventListRangeAndFind(t *testing.T) {
	cfg := writeConfigTOML(t)
	mustRun(t, cfg, "event", "add", "Standup", "--at", "2099-06-01 09:00")
	mustRun(t, cfg, "event", "add", "Sprint review", "--at", "2099-06-03 15:00")
	mustRun(t, cfg, "event", "add", "Lunch", "--at", "2099-07-01 12:00")

	all := listJSON(t, cfg)
	require.Len(t, all, 3)
	assert.Equal(t, "Standup", all[0].Title, "sorted by start")

	june := listJSON(t, cfg, "--from", "2099-06-01", "--days", "30")
	assert.Len(t, june, 2)

	assert.Len(t, listJSON(t, cfg, "--from", "2099-06-02", "--to", "2099-06-30"), 1)

	plain := mustRun(t, cfg, "event", "list", "--no-headers")
	assert.NotContains(t, plain, "title")
	assert.Contains(t, plain, "Sprint review")

	out := mustRun(t, cfg, "event", "find", "srv", "--output", "json")
	var hits []api.Event
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "Sprint review", hits[0].Title)

	_, err := run(t, cfg, "event", "find", "zzzz")
	assert.Error(t, err)

	_, err = run(t, cfg, "event", "list", "--output", "tui")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestViewCommandPersists(t *testing.T) {
	cfg := writeConfigTOML(t)

	out := mustRun(t, cfg, "view")
	assert.True(t, strings.HasPrefix(out, "month\t"), out)

	out = mustRun(t, cfg, "view", "week")
	assert.True(t, strings.HasPrefix(out, "week\t"), out)

	out = mustRun(t, cfg, "view")
	assert.True(t, strings.HasPrefix(out, "week\t"), "choice survives restarts: %s", out)

	_, err := run(t, cfg, "view", "year")
	assert.ErrorContains(t, err, "unknown view")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := writeConfigTOML(t)
	mustRun(t, src, "event", "add", "Standup", "--at", "2099-06-01 09:00", "--notes", "daily")
	mustRun(t, src, "event", "add", "Planning", "--at", "2099-06-02 10:00")

	ics := filepath.Join(t.TempDir(), "cal.ics")
	mustRun(t, src, "export", "--file", ics)
	data, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "BEGIN:VEVENT"))

	dst := writeConfigTOML(t)
	out := mustRun(t, dst, "import", ics)
	assert.Contains(t, out, "Imported 2 events (0 duplicates, 0 skipped).")

	events := listJSON(t, dst)
	require.Len(t, events, 2)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "daily", events[0].NotesText())

	out = mustRun(t, dst, "import", "--file", ics)
	assert.Contains(t, out, "Imported 0 events (2 duplicates, 0 skipped).")
	assert.Len(t, listJSON(t, dst), 2)

	_, err = run(t, writeConfigTOML(t), "export")
	assert.ErrorContains(t, err, "no events")
}

func TestExportFileReportsWriteErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	start := time.Date(2099, 6, 1, 9, 0, 0, 0, time.UTC)
	events := []api.Event{{ID: "a", Title: "Standup", Start: start, End: start.Add(time.Hour)}}

	assert.Error(t, exportFile("/dev/full", events))
	assert.Error(t, exportFile(filepath.Join(t.TempDir(), "missing", "cal.ics"), events))

	ok := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, exportFile(ok, events))
	data, err := os.ReadFile(ok)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Standup")
}

func TestConfigGenerateAndShow(t *testing.T) {
	cfg := writeConfigTOML(t)
	out := filepath.Join(t.TempDir(), "calpad", "config.toml")

	mustRun(t, cfg, "config", "generate", "--output", out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[popover]")

	_, err = run(t, cfg, "config", "generate", "--output", out)
	assert.ErrorContains(t, err, "already exists")

	shown := mustRun(t, cfg, "config", "show")
	assert.Contains(t, shown, "calendar.week_start: monday")
	assert.Contains(t, shown, "storage (resolved): sqlite://")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := writeConfigTOML(t)
	_, err := run(t, cfg, "--week-start", "someday", "view")
	assert.ErrorContains(t, err, "week_start")
}

func TestStorageFlagOverride(t *testing.T) {
	cfg := writeConfigTOML(t)
	mustRun(t, cfg, "--storage", "mem://", "event", "add", "Ephemeral", "--at", "2099-06-01 09:00")
	assert.Empty(t, listJSON(t, cfg), "mem storage does not outlive the command")
}
