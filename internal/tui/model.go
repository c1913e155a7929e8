// Package tui implements the interactive terminal to-do list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todo/internal/celebrate"
	"todo/internal/intent"
	"todo/internal/taskstore"
)

const (
	defaultWidth   = 60
	confettiHeight = 8
	barWidth       = 30
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// confettiMsg drives the celebration animation.
type confettiMsg time.Time

// Option configures a Model.
type Option func(*Model)

// WithCelebrate toggles the confetti animation.
func WithCelebrate(enabled bool) Option {
	return func(m *Model) { m.celebrate = enabled }
}

// WithRand sets the random source used by the animation.
func WithRand(rnd *rand.Rand) Option {
	return func(m *Model) { m.rnd = rnd }
}

// WithClock sets the time source used by the animation.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the root bubbletea model.
type Model struct {
	dispatcher *intent.Dispatcher
	keys       KeyMap
	input      textinput.Model
	bar        progress.Model
	focus      focusArea
	cursor     int
	width      int
	status     string

	celebrate bool
	schedule  *celebrate.Schedule
	field     *celebrate.Field
	rnd       *rand.Rand
	now       func() time.Time
	logger    *log.Logger
}

// New creates the model for store.
//
// The completion watcher starts from "not complete", so opening a list that
// is already fully done celebrates once.
func New(store *taskstore.Store, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.Width = defaultWidth - 8
	ti.Focus()

	m := Model{
		keys:      DefaultKeyMap(),
		input:     ti,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		width:     defaultWidth,
		celebrate: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewSource(m.now().UnixNano()))
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.field = celebrate.NewField(m.width, confettiHeight, m.rnd)

	watcher := celebrate.NewWatcher(false)
	m.dispatcher = intent.NewDispatcher(store, watcher)
	if watcher.Observe(store.IsComplete()) {
		m.startConfetti()
	}
	return m
}

// Init starts the cursor blink and any pending celebration.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.schedule != nil {
		cmds = append(cmds, confettiTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		m.bar.Width = min(barWidth, max(msg.Width-20, 10))
		m.field.Resize(msg.Width, confettiHeight)
		return m, nil

	case confettiMsg:
		return m.stepConfetti(time.Time(msg))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Focus) {
			m.switchFocus()
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) switchFocus() {
	if m.focus == focusInput {
		if m.store().Len() == 0 {
			return
		}
		m.focus = focusList
		m.input.Blur()
		m.clampCursor()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		res, cmd := m.dispatch(intent.Add{Text: text})
		if res.Changed {
			m.input.Reset()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.store().Tasks()
	if len(tasks) == 0 {
		m.switchFocus()
		return m, nil
	}
	m.clampCursor()
	task := tasks[m.cursor]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		_, cmd := m.dispatch(intent.Toggle{ID: task.ID, Completed: !task.Completed})
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		if task.Completed {
			m.status = "completed tasks cannot be edited"
			return m, nil
		}
		res, cmd := m.dispatch(intent.Edit{ID: task.ID})
		if res.Changed {
			m.input.SetValue(res.Staged)
			m.input.CursorEnd()
			m.focus = focusInput
			m.input.Focus()
			m.clampCursor()
		}
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		_, cmd := m.dispatch(intent.Delete{ID: task.ID})
		m.clampCursor()
		if m.store().Len() == 0 {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, cmd
	}
	return m, nil
}

// dispatch applies in and starts the celebration when it completes the list.
func (m *Model) dispatch(in intent.Intent) (intent.Outcome, tea.Cmd) {
	res, err := m.dispatcher.Dispatch(in)
	if err != nil {
		m.logger.Error("persist failed", "err", err)
		m.status = fmt.Sprintf("storage error: %v", err)
	} else {
		m.status = ""
	}
	if res.Celebrate && m.startConfetti() {
		return res, confettiTick()
	}
	return res, nil
}

// startConfetti begins a celebration. It returns false when celebrations are
// disabled or a tick chain is already running.
func (m *Model) startConfetti() bool {
	if !m.celebrate {
		return false
	}
	running := m.Celebrating()
	m.schedule = celebrate.NewSchedule(m.now(), m.rnd)
	return !running
}

func (m Model) stepConfetti(now time.Time) (tea.Model, tea.Cmd) {
	if m.schedule != nil {
		for _, b := range m.schedule.Bursts(now) {
			m.field.Emit(b)
		}
		if m.schedule.Done(now) {
			m.schedule = nil
		}
	}
	m.field.Step()

	if m.schedule == nil && m.field.Empty() {
		return m, nil
	}
	return m, confettiTick()
}

func confettiTick() tea.Cmd {
	return tea.Tick(celebrate.Interval, func(t time.Time) tea.Msg {
		return confettiMsg(t)
	})
}

func (m Model) store() *taskstore.Store {
	return m.dispatcher.Store()
}

func (m *Model) clampCursor() {
	n := m.store().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Celebrating reports whether confetti is on screen.
func (m Model) Celebrating() bool {
	return m.schedule != nil || !m.field.Empty()
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	if m.Celebrating() {
		b.WriteString(m.viewConfetti())
		b.WriteString("\n")
	}

	b.WriteString(HeaderStyle.Render("todo"))
	b.WriteString("\n")

	inputStyle := InputStyle
	if m.focus == focusInput {
		inputStyle = InputFocusedStyle
	}
	b.WriteString(inputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")

	tasks := m.store().Tasks()
	if len(tasks) == 0 {
		b.WriteString(EmptyStyle.Render("No tasks yet. Type one above and press enter."))
		b.WriteString("\n")
	}
	for i, task := range tasks {
		b.WriteString(m.viewTask(i, task))
		b.WriteString("\n")
	}

	p := intent.ProgressOf(m.store())
	b.WriteString("\n ")
	b.WriteString(m.bar.ViewAs(p.Ratio))
	b.WriteString("  ")
	b.WriteString(ProgressLabelStyle.Render(p.Label()))
	b.WriteString("\n")

	if m.schedule != nil {
		b.WriteString(CelebrateStyle.Render("All tasks complete!"))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StatusErrorStyle.Render(" " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) viewTask(i int, task taskstore.Task) string {
	cursor := "  "
	if m.focus == focusList && i == m.cursor {
		cursor = CursorStyle.Render("> ")
	}

	box, text := "[ ]", TaskStyle.Render(task.Text)
	if task.Completed {
		box, text = "[x]", TaskDoneStyle.Render(task.Text)
	}

	edit := ActionStyle.Render("edit")
	if task.Completed {
		edit = ActionDisabledStyle.Render("edit")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cursor, box, " ", text, "  ", edit, " ", ActionStyle.Render("delete"),
	)
}

func (m Model) viewConfetti() string {
	lines := make([]string, 0, confettiHeight)
	for _, row := range m.field.Grid() {
		var line strings.Builder
		for _, c := range row {
			if c.Glyph == 0 {
				line.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(confettiColors[c.Color%len(confettiColors)])
			line.WriteString(style.Render(string(c.Glyph)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	if m.focus == focusInput {
		bindings = []key.Binding{m.keys.Submit, m.keys.Focus}
	} else {
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Edit, m.keys.Delete, m.keys.Focus, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings)+1)
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	parts = append(parts, "ctrl+c quit")
	return strings.Join(parts, " · ")
}

// Run runs the interactive UI until the user quits or ctx is cancelled.
func Run(ctx context.Context, store *taskstore.Store, opts ...Option) error {
	p := tea.NewProgram(New(store, opts...), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
