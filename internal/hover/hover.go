// Package hover delays phrase resolution until the pointer has rested on a
// position. Each new request supersedes the pending one, so only the latest
// resting position is ever resolved.
package hover

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Target is a hovered position inside a block of text.
type Target struct {
	Text   string
	Offset int
}

// DueMsg is delivered once a scheduled target has rested for the delay.
type DueMsg struct {
	Seq    uint64
	Target Target
}

// Debouncer schedules hover resolution as bubbletea commands. The zero value
// fires immediately.
type Debouncer struct {
	Delay time.Duration
	seq   atomic.Uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Schedule supersedes every earlier request and returns the command that
// delivers target after the delay.
func (d *Debouncer) Schedule(target Target) tea.Cmd {
	seq := d.seq.Add(1)
	if d.Delay <= 0 {
		return func() tea.Msg {
			return DueMsg{Seq: seq, Target: target}
		}
	}
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return DueMsg{Seq: seq, Target: target}
	})
}

// Due reports whether msg belongs to the latest request. Stale messages must
// be dropped without touching any state.
func (d *Debouncer) Due(msg DueMsg) bool {
	return msg.Seq == d.seq.Load()
}

// Cancel invalidates the pending request, if any.
func (d *Debouncer) Cancel() {
	d.seq.Add(1)
}

// Timer runs a function once calls to Schedule stop arriving for the delay.
// It is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending *time.Timer
	seq     uint64
}

func NewTimer(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Schedule stops the pending call and arranges for fn to run after the
// delay.
func (t *Timer) Schedule(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.pending.Stop()
	}
	t.seq++
	seq := t.seq
	t.pending = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if seq != t.seq {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()
		fn()
	})
}

// Stop cancels the pending call. It reports whether a call was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	if t.pending == nil {
		return false
	}
	stopped := t.pending.Stop()
	t.pending = nil
	return stopped
}
