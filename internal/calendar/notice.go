package calendar

import "time"

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Callers other than tests use RealScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules with time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Notice is a short-lived message shown to the user.
type Notice struct {
	Text    string
	Expires time.Time
}

// notify replaces the live notice and reschedules its clear. Must hold c.mu.
func (c *Controller) notify(text string) {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	c.noticeSeq++
	c.notice = &Notice{Text: text, Expires: c.now().Add(c.opts.NoticeTTL)}
	if c.closed {
		return
	}
	seq := c.noticeSeq
	c.noticeTimer = c.opts.Scheduler.AfterFunc(c.opts.NoticeTTL, func() { c.clearNotice(seq) })
	c.log.Printf("notice text=%q", text)
}

// clearNotice drops the notice only if it is still the one scheduled as seq.
func (c *Controller) clearNotice(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.noticeSeq {
		return
	}
	c.notice = nil
	c.noticeTimer = nil
}
