// Package hover is the interactive view for discovering links in a note: the
// cursor rests on a word, and once it settles the longest linked phrase around
// it is highlighted with a popup of the entities it names.
package hover

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	debounce "github.com/Paintersrp/hoverlink/internal/hover"
	"github.com/Paintersrp/hoverlink/internal/match"
	"github.com/Paintersrp/hoverlink/internal/render"
	indexsvc "github.com/Paintersrp/hoverlink/internal/services/index"
	"github.com/Paintersrp/hoverlink/internal/state"
	"github.com/Paintersrp/hoverlink/internal/tokenize"
)

var writeClipboard = clipboard.WriteAll

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})
	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)

// Options configures a hover view.
type Options struct {
	Service     *indexsvc.Service
	Highlighter *render.Highlighter
	Debouncer   *debounce.Debouncer
	Watcher     *state.VaultWatcher
	// DocumentID is the vault-relative id of the note shown, used to reload it
	// when the watcher reports a change.
	DocumentID string
	Path       string
	Content    string
	// Heartbeat, when set, refreshes the index summary shown in the status
	// line after the vault changes.
	Heartbeat func() tea.Cmd
}

type Model struct {
	svc       *indexsvc.Service
	hl        *render.Highlighter
	debouncer *debounce.Debouncer
	watcher   *state.VaultWatcher
	heartbeat func() tea.Cmd
	keys      *keyMap
	help      help.Model

	docID string
	path  string
	lines []string

	row, col int
	top      int
	width    int
	height   int

	active    match.Match
	activeRow int
	hasActive bool
	popup     indexsvc.Popup
	status    string
	indexLine string
}

func NewModel(opts Options) Model {
	d := opts.Debouncer
	if d == nil {
		d = debounce.NewDebouncer(0)
	}
	return Model{
		svc:       opts.Service,
		hl:        opts.Highlighter,
		debouncer: d,
		watcher:   opts.Watcher,
		heartbeat: opts.Heartbeat,
		keys:      newKeyMap(),
		help:      help.New(),
		docID:     opts.DocumentID,
		path:      opts.Path,
		lines:     splitLines(opts.Content),
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.schedule(), m.watcher.Start(), m.refreshIndexLine())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case debounce.DueMsg:
		if !m.debouncer.Due(msg) {
			return m, nil
		}
		m.resolve(msg.Target)
		return m, nil

	case state.VaultNoteChangedMsg:
		m.status = fmt.Sprintf("%s %s", msg.Event.Path, msg.Event.Kind)
		if msg.Event.Path == m.docID {
			m.reload(msg.Event.Kind)
		}
		return m, tea.Batch(m.schedule(), m.watcher.Start(), m.refreshIndexLine())

	case state.IndexStatsMsg:
		m.indexLine = msg.Line
		return m, nil

	case state.VaultWatcherErrMsg:
		m.status = fmt.Sprintf("watch error: %v", msg.Err)
		return m, m.watcher.Start()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.debouncer.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.toggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.copyLink):
			m.copyLink()
			return m, nil
		case key.Matches(msg, m.keys.up):
			m.moveRow(-1)
		case key.Matches(msg, m.keys.down):
			m.moveRow(1)
		case key.Matches(msg, m.keys.left):
			m.moveRune(-1)
		case key.Matches(msg, m.keys.right):
			m.moveRune(1)
		case key.Matches(msg, m.keys.nextWord):
			m.moveWord(1)
		case key.Matches(msg, m.keys.prevWord):
			m.moveWord(-1)
		default:
			return m, nil
		}
		m.clearPopup()
		m.scroll()
		return m, m.schedule()
	}

	return m, nil
}

func (m Model) refreshIndexLine() tea.Cmd {
	if m.heartbeat == nil {
		return nil
	}
	return m.heartbeat()
}

// schedule requests resolution of the word under the cursor once it rests.
func (m Model) schedule() tea.Cmd {
	return m.debouncer.Schedule(debounce.Target{Text: m.line(m.row), Offset: m.col})
}

func (m *Model) resolve(target debounce.Target) {
	if m.svc == nil || target.Text != m.line(m.row) {
		return
	}

	found, ok, err := m.svc.Resolve(target.Text, target.Offset)
	if err != nil {
		m.status = err.Error()
		return
	}
	if !ok {
		m.clearPopup()
		return
	}

	popup, err := m.svc.Popup(found.Phrase, 0)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.active, m.activeRow, m.hasActive = found, m.row, true
	m.popup = popup
}

func (m *Model) clearPopup() {
	m.hasActive = false
	m.active = match.Match{}
	m.popup = indexsvc.Popup{}
}

func (m *Model) copyLink() {
	record, ok := m.popup.First()
	if !ok {
		m.status = "nothing to copy"
		return
	}
	if err := writeClipboard(record.Link()); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "copied " + record.Link()
}

func (m *Model) reload(kind state.EventKind) {
	if kind == state.DocumentDeleted {
		m.status = m.docID + " was deleted"
		return
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.lines = splitLines(string(data))
	m.row = min(m.row, len(m.lines)-1)
	m.col = min(m.col, len(m.line(m.row)))
	m.clearPopup()
}

func (m *Model) moveRow(delta int) {
	m.row = max(0, min(len(m.lines)-1, m.row+delta))
	m.col = min(m.col, len(m.line(m.row)))
	m.col = runeStart(m.line(m.row), m.col)
}

func (m *Model) moveRune(delta int) {
	line := m.line(m.row)
	switch {
	case delta < 0 && m.col > 0:
		_, size := utf8.DecodeLastRuneInString(line[:m.col])
		m.col -= size
	case delta > 0 && m.col < len(line):
		_, size := utf8.DecodeRuneInString(line[m.col:])
		m.col += size
	}
}

// moveWord jumps to the start of the next or previous word, crossing lines.
func (m *Model) moveWord(delta int) {
	for row := m.row; row >= 0 && row < len(m.lines); row += delta {
		tokens := tokenize.Tokenize(m.line(row))
		if delta > 0 {
			for _, tok := range tokens {
				if row > m.row || tok.Start > m.col {
					m.row, m.col = row, tok.Start
					return
				}
			}
			continue
		}
		for i := len(tokens) - 1; i >= 0; i-- {
			if row < m.row || tokens[i].Start < m.col {
				m.row, m.col = row, tokens[i].Start
				return
			}
		}
	}
}

func (m *Model) scroll() {
	visible := m.visibleLines()
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+visible {
		m.top = m.row - visible + 1
	}
}

func (m Model) visibleLines() int {
	return max(1, m.height-lipgloss.Height(m.popupView())-4)
}

func (m Model) line(row int) string {
	if row < 0 || row >= len(m.lines) {
		return ""
	}
	return m.lines[row]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.docID))
	b.WriteString("\n")

	end := min(len(m.lines), m.top+m.visibleLines())
	for row := m.top; row < end; row++ {
		gutter := "  "
		if row == m.row {
			gutter = gutterStyle.Render("› ")
		}
		b.WriteString(gutter)
		b.WriteString(m.renderLine(row))
		b.WriteString("\n")
	}

	if popup := m.popupView(); popup != "" {
		b.WriteString(popup)
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderLine(row int) string {
	line := m.line(row)
	if m.svc == nil || m.hl == nil {
		return line
	}

	spans, err := m.svc.SelectSpans(line)
	if err != nil {
		return line
	}
	if !m.hasActive || row != m.activeRow {
		return m.hl.Highlight(line, spans)
	}

	merged := make([]match.Span, 0, len(spans)+1)
	for _, span := range spans {
		if span.End <= m.active.Start || span.Start >= m.active.End {
			merged = append(merged, span)
		}
	}
	merged = append(merged, match.Span{
		Phrase:   m.active.Phrase,
		Category: m.active.Category,
		Start:    m.active.Start,
		End:      m.active.End,
		Words:    m.active.Words,
	})
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	return m.hl.HighlightActive(line, merged, m.active.Start, m.active.End)
}

func (m Model) popupView() string {
	if !m.hasActive || m.hl == nil {
		return ""
	}
	return m.hl.Popup(m.popup)
}

func (m Model) statusLine() string {
	parts := []string{fmt.Sprintf("Ln %d, Col %d", m.row+1, m.col+1)}
	switch {
	case m.indexLine != "":
		parts = append(parts, m.indexLine)
	case m.svc != nil:
		parts = append(parts, state.FormatIndexStatus(m.svc.Stats()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func runeStart(s string, offset int) int {
	for offset > 0 && offset < len(s) && !utf8.RuneStart(s[offset]) {
		offset--
	}
	return offset
}

// Run opens the hover view full screen.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
