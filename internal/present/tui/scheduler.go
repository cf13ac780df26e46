package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/calpad/internal/calendar"
)

// runFuncMsg carries a timer callback into the Bubble Tea event loop.
type runFuncMsg struct{ f func() }

// Scheduler fires controller timers on the program goroutine so the view
// re-renders after each callback. Until a program is attached it behaves
// like calendar.RealScheduler.
type Scheduler struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewScheduler() *Scheduler { return &Scheduler{} }

// Attach routes subsequent callbacks through p. A nil p detaches.
func (s *Scheduler) Attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) calendar.Timer {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		p := s.p
		s.mu.Unlock()
		if p == nil {
			f()
			return
		}
		p.Send(runFuncMsg{f: f})
	})
}
