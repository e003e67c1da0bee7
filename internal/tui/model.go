// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuitale/internal/keyboard"
	"github.com/verte-zerg/tuitale/internal/model"
	progressfile "github.com/verte-zerg/tuitale/internal/progress"
	"github.com/verte-zerg/tuitale/internal/session"
	"github.com/verte-zerg/tuitale/internal/store"
	"github.com/verte-zerg/tuitale/internal/text"
)

// autoSaveEvery is the keystroke interval between progress-file
// auto-saves. A crash loses at most this many keystrokes.
const autoSaveEvery = 100

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	correctedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#30C030")).Bold(true)
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	cfg          model.Config
	txt          *text.Text
	sess         *session.Session
	store        *store.Store
	progressPath string

	words  []wordRange
	layout *keyboard.Layout
	show   bool
	bar    progress.Model

	width  int
	height int

	keysSinceSave int
	recorded      bool
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, txt *text.Text, sess *session.Session, st *store.Store) *Model {
	layout := keyboard.ByName(cfg.Layout)
	if layout == nil {
		layout = &keyboard.QWERTY
	}
	return &Model{
		cfg:          cfg,
		txt:          txt,
		sess:         sess,
		store:        st,
		progressPath: cfg.ProgressPath,
		words:        findWords(txt.Runes()),
		layout:       layout,
		show:         cfg.ShowKeyboard,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		recorded:     sess.IsComplete(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = minInt(40, maxInt(10, m.width/3))
		return m, nil
	case tea.FocusMsg:
		m.sess.Resume()
		return m, nil
	case tea.BlurMsg:
		m.sess.Pause()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlH:
			m.show = !m.show
			return m, nil
		case tea.KeyCtrlN:
			m.nextLayout()
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			if m.sess.HandleBackspace() != session.OutcomeIgnored {
				m.noteKeystroke()
			}
			return m, nil
		case tea.KeyEnter:
			m.handleRunes([]rune{text.NewlineMark})
			return m, nil
		case tea.KeyTab:
			m.handleRunes([]rune{'\t'})
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.txt.Len() == 0 {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}

	footer := m.renderFooter()
	footerHeight := 1
	keyboardView := ""
	keyboardHeight := 0
	if m.show {
		next, ok := m.sess.CurrentChar()
		keyboardView = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, renderKeyboard(m.layout, next, ok))
		keyboardHeight = lipgloss.Height(keyboardView)
	}
	bodyHeight := m.height - footerHeight - keyboardHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	start, end := m.window(contentWidth, bodyHeight)
	styledRunes := buildStyledRunes(m.txt.Runes(), m.sess, m.words, start, end)
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)

	parts := []string{body}
	if m.show {
		parts = append(parts, keyboardView)
	}
	parts = append(parts, lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, footer))
	return strings.Join(parts, "\n")
}

// Session returns the engine driven by this model. The exit path uses
// it for the final progress save.
func (m *Model) Session() *session.Session {
	return m.sess
}

func (m *Model) nextLayout() {
	layouts := keyboard.Layouts()
	for i, layout := range layouts {
		if layout == m.layout {
			m.layout = layouts[(i+1)%len(layouts)]
			return
		}
	}
	m.layout = layouts[0]
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		out := m.sess.HandleKey(r)
		if out == session.OutcomeIgnored {
			continue
		}
		m.noteKeystroke()
		if m.sess.IsComplete() {
			m.finishSession()
		}
	}
}

func (m *Model) noteKeystroke() {
	m.keysSinceSave++
	if m.keysSinceSave < autoSaveEvery {
		return
	}
	m.keysSinceSave = 0
	if err := progressfile.Save(m.progressPath, m.sess, m.txt.Fingerprint()); err != nil {
		logErrf("failed to auto-save progress: %v\n", err)
	}
}

func (m *Model) finishSession() {
	if m.recorded {
		return
	}
	m.recorded = true
	snap := m.sess.Stats()
	startedAt := m.sess.StartedAt()
	endedAt := time.Now()
	stats := model.SessionStats{
		Fingerprint: m.txt.Fingerprint(),
		StoryPath:   m.txt.Path(),
		StartedAt:   startedAt,
		EndedAt:     endedAt,
		Chars:       snap.Typed,
		Errors:      snap.Attempts,
		DurationMs:  snap.Elapsed.Milliseconds(),
	}
	if _, err := m.store.InsertSession(context.Background(), stats); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

// window picks the target slice to display, keeping the cursor roughly
// a third into the visible text.
func (m *Model) window(contentWidth, bodyHeight int) (start, end int) {
	capacity := contentWidth * bodyHeight
	if capacity <= 0 || capacity >= m.txt.Len() {
		return 0, m.txt.Len()
	}
	start = m.sess.Cursor() - capacity/3
	if start < 0 {
		start = 0
	}
	end = start + capacity
	if end > m.txt.Len() {
		end = m.txt.Len()
		start = end - capacity
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func (m *Model) renderFooter() string {
	percent := 0.0
	if m.txt.Len() > 0 {
		percent = float64(m.sess.Cursor()) / float64(m.txt.Len())
	}
	snap := m.sess.Stats()

	segments := []string{m.bar.ViewAs(percent)}
	segments = append(segments, footerStyle.Render(fmt.Sprintf("%d/%d", m.sess.Cursor(), m.txt.Len())))
	segments = append(segments, footerStyle.Render(fmt.Sprintf("Acc %.1f%%", snap.Accuracy*100)))
	if snap.SpeedValid {
		segments = append(segments, footerStyle.Render(fmt.Sprintf("%.0f CPM · %.1f WPM", snap.CPM, snap.CPM/5)))
	}
	segments = append(segments, footerStyle.Render(formatElapsed(snap.Elapsed)))
	if m.sess.IsComplete() {
		segments = append(segments, doneStyle.Render("Complete!"))
	}
	segments = append(segments, footerStyle.Render("esc: quit"))
	return strings.Join(segments, "  ")
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
