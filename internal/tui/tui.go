// Package tui is the terminal chat assistant: a question box, style and
// model selectors, a conversation history panel and playback controls.
package tui

import (
	"context"
	"fmt"
	"strings"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/interactive"
	"explainer/internal/logger"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configure the TUI.
type Options struct {
	Explainers explain.Factory
	Mode       core.BackendMode
	Style      core.Style
	Memory     *interactive.Memory
	Speaker    interactive.Speaker // Optional
	Voice      core.VoiceConfig
	AutoSpeak  bool
}

// answerMsg carries a finished generation back to the update loop.
type answerMsg struct {
	question string
	style    core.Style
	result   explain.Result
}

// speechMsg reports a speech error.
type speechMsg struct {
	err error
}

// Model represents the state of the TUI application.
type Model struct {
	opts   Options
	memory *interactive.Memory

	input    textinput.Model
	history  viewport.Model
	spinner  spinner.Model
	ready    bool
	width    int
	height   int
	loading  bool
	quitting bool

	styleIdx int
	mode     core.BackendMode

	subheading string
	last       string
	notice     string
	failed     bool
}

// New returns the initial model.
func New(opts Options) Model {
	if opts.Memory == nil {
		opts.Memory = interactive.NewMemory()
	}
	if opts.Mode == "" {
		opts.Mode = core.ModeLocal
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styleIdx := 0
	for i, style := range core.Styles() {
		if style == opts.Style {
			styleIdx = i
		}
	}

	return Model{
		opts:     opts,
		memory:   opts.Memory,
		input:    ti,
		history:  viewport.New(80, 12),
		spinner:  sp,
		styleIdx: styleIdx,
		mode:     opts.Mode,
	}
}

// Style returns the selected explanation style.
func (m Model) Style() core.Style {
	return core.Styles()[m.styleIdx]
}

// Mode returns the selected backend mode.
func (m Model) Mode() core.BackendMode {
	return m.mode
}

// Init is the first command that will be run.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.Width = max(msg.Width-4, 20)
		m.history.Height = max(msg.Height-14, 5)
		m.input.Width = max(msg.Width-6, 10)
		m.ready = true
		m.refreshHistory()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case answerMsg:
		m.loading = false
		if !msg.result.OK() {
			m.failed = true
			m.notice = "⚠️ Something went wrong: " + msg.result.Display()
			return m, nil
		}
		m.failed = false
		m.notice = ""
		m.subheading = msg.result.Explanation.Subheading
		m.last = msg.result.Explanation.Text
		m.memory.Add(explain.BuildStylePrompt(msg.question, msg.style), m.last)
		m.refreshHistory()
		if m.opts.AutoSpeak && m.opts.Speaker != nil {
			return m, m.say(m.last)
		}
		return m, nil

	case speechMsg:
		if msg.err != nil {
			m.failed = true
			m.notice = "Speech failed: " + msg.err.Error()
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		if m.opts.Speaker != nil {
			_ = m.opts.Speaker.Stop()
		}
		return m, tea.Quit

	case "tab":
		m.styleIdx = (m.styleIdx + 1) % len(core.Styles())
		return m, nil

	case "ctrl+o":
		if m.mode == core.ModeRemote {
			m.mode = core.ModeLocal
		} else {
			m.mode = core.ModeRemote
		}
		return m, nil

	case "ctrl+p":
		if m.opts.Speaker == nil {
			m.notice = "Speech is not available."
			return m, nil
		}
		if m.last == "" {
			m.notice = "Nothing to play yet."
			return m, nil
		}
		return m, m.say(m.last)

	case "ctrl+s":
		if m.opts.Speaker == nil {
			return m, nil
		}
		if err := m.opts.Speaker.Stop(); err != nil {
			m.notice = "Stop failed: " + err.Error()
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.loading {
			return m, nil
		}
		m.input.Reset()
		m.loading = true
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, m.ask(question, m.Style(), m.mode))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one generation off the update loop. The history snapshot is taken
// before the command runs.
func (m Model) ask(question string, style core.Style, mode core.BackendMode) tea.Cmd {
	history := m.memory.Messages()
	factory := m.opts.Explainers
	return func() tea.Msg {
		ctx := context.Background()
		e, err := factory(ctx, mode)
		if err != nil {
			return answerMsg{question: question, style: style, result: explain.MissingConfig(err)}
		}
		result := e.ExplainStyle(ctx, core.ExplanationRequest{
			SourceText:  question,
			Style:       style,
			BackendMode: mode,
		}, history)
		return answerMsg{question: question, style: style, result: result}
	}
}

func (m Model) say(text string) tea.Cmd {
	speaker, voice := m.opts.Speaker, m.opts.Voice
	return func() tea.Msg {
		if _, err := speaker.Say(context.Background(), text, voice); err != nil {
			logger.Error("Speech failed", err)
			return speechMsg{err: err}
		}
		return speechMsg{}
	}
}

func (m *Model) refreshHistory() {
	m.history.SetContent(renderHistory(m.memory.Messages(), m.history.Width))
	m.history.GotoBottom()
}

func renderHistory(messages []core.ChatMessage, width int) string {
	if len(messages) == 0 {
		return helpStyle.Render("No conversation history yet.")
	}
	body := lipgloss.NewStyle().Width(max(width-2, 10))

	var b strings.Builder
	for _, msg := range messages {
		label := botLabelStyle.Render(interactive.RoleLabel(msg.Role))
		if msg.Role == core.RoleUser {
			label = userLabelStyle.Render(interactive.RoleLabel(msg.Role))
		}
		b.WriteString(label + "\n")
		b.WriteString(body.Render(msg.Content) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🧠 Like-a-10: Smart Explainer Bot 🤖") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		selectorStyle.Render("Style: "+m.Style().Label()),
		selectorStyle.Render("Model: "+m.mode.Label()),
	) + "\n")

	if m.subheading != "" && m.last != "" {
		b.WriteString(subheadStyle.Render(m.subheading) + "\n")
	}
	b.WriteString(historyPanelStyle.Render(m.history.View()) + "\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + statusStyle.Render(" Thinking...") + "\n")
	case m.notice != "" && m.failed:
		b.WriteString(errorStyle.Render(m.notice) + "\n")
	case m.notice != "":
		b.WriteString(statusStyle.Render(m.notice) + "\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render("[enter] Ask | [tab] Style | [ctrl+o] Online/Offline | [ctrl+p] Play | [ctrl+s] Stop | [esc] Quit"))
	return b.String()
}

// Run starts the Bubble Tea application.
func Run(opts Options) error {
	if opts.Explainers == nil {
		return fmt.Errorf("no explainer configured")
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
