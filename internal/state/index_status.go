package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	indexsvc "github.com/Paintersrp/hoverlink/internal/services/index"
)

// RootStatus holds the status line shared by views.
type RootStatus struct {
	mu   sync.RWMutex
	line string
}

func (r *RootStatus) Set(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.line = line
}

func (r *RootStatus) Value() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.line
}

// IndexStatsMsg notifies subscribers that the root status line was refreshed
// using the latest index statistics.
type IndexStatsMsg struct {
	Line string
}

// IndexHeartbeatCmd refreshes the shared status line from the index service
// and returns a message consumers can use to trigger rerenders.
func (s *State) IndexHeartbeatCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		line := ""
		if s.Index != nil {
			line = FormatIndexStatus(s.Index.Stats())
		}
		if s.RootStatus != nil {
			s.RootStatus.Set(line)
		}
		return IndexStatsMsg{Line: line}
	}
}

// FormatIndexStatus renders index statistics as a one-line summary.
func FormatIndexStatus(stats indexsvc.Stats) string {
	if stats.LastRebuild.IsZero() {
		return "Idx: not built"
	}

	parts := []string{
		fmt.Sprintf("Idx: %d notes", stats.Documents),
		fmt.Sprintf("%d keys", totalKeys(stats)),
		fmt.Sprintf("rebuilt %s", formatRebuildTime(stats.LastRebuild)),
	}
	return strings.Join(parts, " · ")
}

func totalKeys(stats indexsvc.Stats) int {
	n := 0
	for _, keys := range stats.Index.Keys {
		n += keys
	}
	return n
}

func formatRebuildTime(t time.Time) string {
	return t.Local().Format("15:04")
}
