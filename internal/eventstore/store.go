// Package eventstore owns the persisted event list and its serialized form
// in the key-value store.
package eventstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/zeebo/blake3"

	"github.com/mithrel/calpad/internal/db"
	"github.com/mithrel/calpad/pkg/api"
)

// DefaultKey is the key the event list is stored under.
const DefaultKey = "events"

// wireTime is ISO-8601 in UTC with millisecond precision.
const wireTime = "2006-01-02T15:04:05.000Z07:00"

var ErrDuplicateID = errors.New("duplicate event id")

// storedEvent is the serialized shape of one event.
type storedEvent struct {
	ID    string  `json:"id"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Title string  `json:"title"`
	Color *string `json:"color,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Patch lists the fields Update overwrites. Nil leaves a field unchanged;
// an empty Color or Notes clears it.
type Patch struct {
	Title *string
	Start *time.Time
	End   *time.Time
	Color *string
	Notes *string
}

// Store is the authoritative in-memory event list, mirrored to a KV.
type Store struct {
	kv     db.KV
	key    string
	log    *log.Logger
	loc    *time.Location
	events []api.Event
	digest string
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger warnings are written to.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocation sets the zone loaded instants are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func New(kv db.KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		key: DefaultKey,
		log: log.New(io.Discard, "", 0),
		loc: time.Local,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// LoadAll replaces the in-memory list with the stored one and returns a copy.
// A missing key yields an empty list. A value that cannot be decoded is
// deleted from storage and also yields an empty list; the error is logged,
// not returned.
func (s *Store) LoadAll(ctx context.Context) []api.Event {
	s.events = nil
	s.digest = ""
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.log.Printf("warn: load events key=%s err=%v", s.key, err)
		}
		return s.List()
	}
	events, err := s.decode(raw)
	if err != nil {
		s.log.Printf("warn: discarding corrupted events key=%s err=%v", s.key, err)
		if derr := s.kv.Delete(ctx, s.key); derr != nil {
			s.log.Printf("warn: clear corrupted events key=%s err=%v", s.key, derr)
		}
		return s.List()
	}
	s.events = events
	s.digest = digest([]byte(raw))
	return s.List()
}

func (s *Store) decode(raw string) ([]api.Event, error) {
	var stored []storedEvent
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	out := make([]api.Event, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, se := range stored {
		start, err := time.Parse(time.RFC3339Nano, se.Start)
		if err != nil {
			return nil, fmt.Errorf("event %d start: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339Nano, se.End)
		if err != nil {
			return nil, fmt.Errorf("event %d end: %w", i, err)
		}
		if _, dup := seen[se.ID]; dup {
			s.log.Printf("warn: dropping duplicate event id=%s", se.ID)
			continue
		}
		seen[se.ID] = struct{}{}
		out = append(out, api.Event{
			ID:    se.ID,
			Title: se.Title,
			Start: start.In(s.loc),
			End:   end.In(s.loc),
			Color: se.Color,
			Notes: se.Notes,
		})
	}
	return out, nil
}

// SaveAll writes events to storage. An empty list removes the key. Failures
// are logged and swallowed: the in-memory list stays authoritative.
func (s *Store) SaveAll(ctx context.Context, events []api.Event) {
	if len(events) == 0 {
		if err := s.kv.Delete(ctx, s.key); err != nil {
			s.log.Printf("warn: clear events key=%s err=%v", s.key, err)
			return
		}
		s.digest = ""
		return
	}
	payload, err := encode(events)
	if err != nil {
		s.log.Printf("warn: encode events err=%v", err)
		return
	}
	sum := digest(payload)
	if sum == s.digest {
		return
	}
	if err := s.kv.Set(ctx, s.key, string(payload)); err != nil {
		s.log.Printf("warn: write events key=%s count=%d err=%v", s.key, len(events), err)
		return
	}
	s.digest = sum
}

// Persist writes the current in-memory list.
func (s *Store) Persist(ctx context.Context) { s.SaveAll(ctx, s.events) }

func encode(events []api.Event) ([]byte, error) {
	stored := make([]storedEvent, 0, len(events))
	for _, e := range events {
		stored = append(stored, storedEvent{
			ID:    e.ID,
			Start: e.Start.UTC().Format(wireTime),
			End:   e.End.UTC().Format(wireTime),
			Title: e.Title,
			Color: e.Color,
			Notes: e.Notes,
		})
	}
	return json.Marshal(stored)
}

func digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Add appends a copy of e. It fails only when the id is already taken.
func (s *Store) Add(e api.Event) error {
	if s.index(e.ID) >= 0 {
		return ErrDuplicateID
	}
	s.events = append(s.events, e.Clone())
	return nil
}

// Update applies p to the event with the given id. Unknown ids are ignored.
func (s *Store) Update(id string, p Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	e := s.events[i].Clone()
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Color != nil {
		e.Color = api.StringPtr(*p.Color)
	}
	if p.Notes != nil {
		e.Notes = api.StringPtr(*p.Notes)
	}
	s.events[i] = e
	return true
}

// Remove deletes the event with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i:i], s.events[i+1:]...)
	return true
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (api.Event, bool) {
	i := s.index(id)
	if i < 0 {
		return api.Event{}, false
	}
	return s.events[i].Clone(), true
}

// List returns copies of every event in insertion order.
func (s *Store) List() []api.Event {
	out := make([]api.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Clone())
	}
	return out
}

// Len is the number of stored events.
func (s *Store) Len() int { return len(s.events) }

func (s *Store) index(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
