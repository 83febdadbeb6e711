package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faqbot/internal/domain"
)

// ChatPort is the TUI-facing subset of the FAQ service.
type ChatPort interface {
	Greeting() string
	Ask(query string) domain.Reply
}

// Turn is one line of the conversation scrollback.
type Turn struct {
	Sender string
	Text   string
}

// Model is the Bubble Tea model for the chat window.
type Model struct {
	service  ChatPort
	input    textinput.Model
	viewport viewport.Model
	turns    []Turn
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(service ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{service: service, input: ti, viewport: vp, status: "Ctrl+C to quit."}
	m.turns = append(m.turns, Turn{Sender: "Bot", Text: service.Greeting()})
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Turns returns the conversation so far.
func (m Model) Turns() []Turn { return m.turns }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input line
		vh := msg.Height - reserved - ch
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			reply := m.service.Ask(q)
			m.turns = append(m.turns, Turn{Sender: "You", Text: q}, Turn{Sender: "Bot", Text: reply.Text})
			if reply.Matched {
				m.status = fmt.Sprintf("Matched entry %d  score=%.3f", reply.Match.Index+1, reply.Match.Score)
			} else {
				m.status = fmt.Sprintf("No confident match  best score=%.3f", reply.Match.Score)
			}
			m.input.SetValue("")
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("FAQ Chatbot")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTurns(m.turns, m.viewport.Width))
	m.viewport.GotoBottom()
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func renderTurns(turns []Turn, width int) string {
	wrap := lipgloss.NewStyle()
	if width > 4 {
		wrap = wrap.Width(width - 4)
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		style := botStyle
		if t.Sender == "You" {
			style = userStyle
		}
		lines = append(lines, wrap.Render(style.Render(t.Sender+":")+" "+t.Text))
	}
	return strings.Join(lines, "\n")
}
