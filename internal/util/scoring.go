package util

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/calpad/pkg/api"
)

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// titleSource adapts an event slice to fuzzy.Source.
type titleSource []api.Event

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// RankEvents orders events by fuzzy title match, best first, dropping
// non-matches. An empty query keeps the input order.
func RankEvents(query string, events []api.Event) []api.Event {
	query = strings.TrimSpace(query)
	if query == "" {
		return events
	}
	matches := fuzzy.FindFrom(query, titleSource(events))
	out := make([]api.Event, 0, len(matches))
	for _, mt := range matches {
		out = append(out, events[mt.Index])
	}
	return out
}
