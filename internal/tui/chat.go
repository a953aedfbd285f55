// Package tui provides the interactive chat interface over the booking agent.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/agent"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/transcript"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/util"
)

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, question string) (agent.Answer, error)
}

// Info is shown in the header.
type Info struct {
	Host   string
	Model  string
	Policy string
	TopK   int
	Debug  bool
}

type chatMessage struct {
	role   string
	text   string
	route  agent.Route
	cached bool
}

// model is the Bubble Tea model for the chat view.
type model struct {
	ctx              context.Context
	asker            Asker
	info             Info
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	history          []chatMessage
	entries          []transcript.Entry
	isLoading        bool
	err              error
	width, height    int
	requestStartTime time.Time
	lastDuration     time.Duration
}

// answerMsg carries a completed answer back to Update.
type answerMsg struct {
	answer   agent.Answer
	duration time.Duration
}

// answerErr is sent when Ask fails. The chat stays open.
type answerErr struct{ error }

// tickMsg refreshes the elapsed-time counter while waiting.
type tickMsg time.Time

func initialModel(ctx context.Context, asker Asker, info Info) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask about the booking policy..."
	ta.Focus()
	ta.Prompt = "Ask Anything: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return &model{
		ctx:      ctx,
		asker:    asker,
		info:     info,
		textArea: ta,
		viewport: viewport.New(100, 5),
		spinner:  s,
	}
}

func askCmd(ctx context.Context, asker Asker, question string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		answer, err := asker.Ask(ctx, question)
		if err != nil {
			return answerErr{error: err}
		}
		return answerMsg{answer: answer, duration: time.Since(start)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, window resizes and answers.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = util.Max(msg.Height-headerHeight-footerHeight, 1)

	case answerMsg:
		m.isLoading = false
		m.lastDuration = msg.duration
		m.history = append(m.history, chatMessage{
			role:   "assistant",
			text:   msg.answer.Text,
			route:  msg.answer.Route,
			cached: msg.answer.Cached,
		})
		m.entries = append(m.entries, transcript.Entry{Question: msg.answer.Question, Answer: msg.answer.Text})
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.err = msg.error
		m.textArea.Focus()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.isLoading {
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			question := strings.TrimSpace(m.textArea.Value())
			if question != "" {
				m.history = append(m.history, chatMessage{role: "user", text: question})
				m.textArea.Reset()
				m.isLoading = true
				m.err = nil
				m.requestStartTime = time.Now()
				cmds = append(cmds, m.spinner.Tick, askCmd(m.ctx, m.asker, question), tickCmd())
			}
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the header, the conversation and the input line.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var builder strings.Builder

	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1).MarginLeft(1)
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Config:"),
		headerStyle.Render(fmt.Sprintf("Host: %s", m.info.Host)),
		headerStyle.Render(fmt.Sprintf("Model: %s", m.info.Model)),
		headerStyle.Render(fmt.Sprintf("Policy: %s", m.info.Policy)),
		headerStyle.Render(fmt.Sprintf("TopK: %d", m.info.TopK)),
	)
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(" (esc to quit)")
	builder.WriteString(status + help + "\n\n")

	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	routeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	for _, msg := range m.history {
		var role string
		content := msg.text
		if msg.role == "assistant" {
			role = assistantStyle.Render("Assistant: ")
			badge := string(msg.route)
			if msg.cached {
				badge += ", cached"
			}
			content += " " + routeStyle.Render("["+badge+"]")
		} else {
			role = userStyle.Render("You: ")
		}
		width := util.Max(m.width-lipgloss.Width(role)-2, 10)
		wrapped := util.WrapToWidth(content, width)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrapped) + "\n")
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		builder.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Assistant is thinking... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	if m.info.Debug && m.lastDuration > 0 {
		metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		builder.WriteString("\n" + metaStyle.Render(fmt.Sprintf("  >>> [Last answer: %.1fs]", m.lastDuration.Seconds())))
	}

	return builder.String()
}

// Run starts the chat UI and blocks until the user quits. It returns the
// answered questions in order.
func Run(ctx context.Context, asker Asker, info Info) ([]transcript.Entry, error) {
	m := initialModel(ctx, asker, info)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return m.entries, fmt.Errorf("run chat: %w", err)
	}
	return m.entries, nil
}
