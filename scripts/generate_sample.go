package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"time"

	"github.com/mithrel/calpad/internal/eventform"
	"github.com/mithrel/calpad/internal/ics"
	"github.com/mithrel/calpad/pkg/api"
)

var titles = []string{
	"Standup", "Planning", "Design review", "1:1", "Lunch", "Dentist",
	"Gym", "Retro", "Focus block", "Call with vendor", "Interview", "Demo",
}

// Writes a reproducible .ics with sample events for `calpad import`.
func main() {
	total := flag.Int("n", 200, "number of events")
	days := flag.Int("days", 60, "spread events over this many days from tomorrow")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	now := time.Now()
	base := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.Local)
	out := make([]api.Event, 0, *total)
	for i := 0; i < *total; i++ {
		day := base.AddDate(0, 0, mr.Intn(*days))
		start := day.Add(time.Duration(8+mr.Intn(10))*time.Hour + time.Duration(15*mr.Intn(4))*time.Minute)
		// 30 minutes to 2 hours
		dur := time.Duration(30*(1+mr.Intn(4))) * time.Minute
		ev := api.Event{
			ID:    fmt.Sprintf("sample-%04d", i+1),
			Title: titles[mr.Intn(len(titles))],
			Start: start,
			End:   start.Add(dur),
			Color: api.StringPtr(eventform.Palette[mr.Intn(len(eventform.Palette))]),
		}
		if mr.Float64() < 0.3 {
			ev.Notes = api.StringPtr(fmt.Sprintf("Sample notes for event %d.", i+1))
		}
		out = append(out, ev)
	}

	if err := ics.Export(os.Stdout, out, now); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}
