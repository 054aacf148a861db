// ABOUTME: Bubble Tea chat view for asking questions against a session
// ABOUTME: Shows the running transcript with citations under each answer
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/knowledge-agent/internal/models"
)

// QAPort is the TUI-facing subset of the pipeline service.
type QAPort interface {
	Answer(ctx context.Context, sessionID, question string, topK int) (*models.Answer, error)
	ListSources(sessionID string) ([]string, error)
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	sessionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the chat view.
type Model struct {
	service    QAPort
	sessionID  string
	topK       int
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	ready      bool
	busy       bool
}

// answerMsg carries the result of an asynchronous question.
type answerMsg struct {
	answer *models.Answer
	err    error
}

// New creates a new chat model bound to one session.
func New(service QAPort, sessionID string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		sessionID: sessionID,
		topK:      topK,
		input:     ti,
		viewport:  vp,
		status:    "Ready. Type a question to search the knowledge base.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 2 // header + session line, input frame, spacer + status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.appendQuestion(q)
				m.busy = true
				m.status = "Thinking..."
				m.input.SetValue("")
				m.viewport.SetContent(strings.Join(m.transcript, "\n"))
				m.viewport.GotoBottom()
				return m, m.askCmd(q)
			}
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "✗ " + msg.err.Error()
		} else {
			m.appendAnswer(msg.answer)
			m.status = statusLine(msg.answer)
		}
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		m.viewport.GotoBottom()
		return m, nil
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
	header := headerStyle.Render("Knowledge Agent")
	session := sessionStyle.Render("session: " + m.sessionID)
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "  " + session + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

// askCmd answers the question off the update loop so the view stays
// responsive while the embedding and chat round-trips run.
func (m Model) askCmd(q string) tea.Cmd {
	service, sessionID, topK := m.service, m.sessionID, m.topK
	return func() tea.Msg {
		answer, err := service.Answer(context.Background(), sessionID, q, topK)
		return answerMsg{answer: answer, err: err}
	}
}

func (m *Model) appendQuestion(q string) {
	if len(m.transcript) > 0 {
		m.transcript = append(m.transcript, "")
	}
	m.transcript = append(m.transcript, questionStyle.Render("You: ")+q)
}

func (m *Model) appendAnswer(answer *models.Answer) {
	m.transcript = append(m.transcript, "", answer.Text, "", citationStyle.Render("Sources:"))
	m.transcript = append(m.transcript, citationStyle.Render(answer.CitationBlock()))
}

func statusLine(answer *models.Answer) string {
	if len(answer.Citations) == 0 {
		return "No relevant chunks found."
	}
	return fmt.Sprintf("Answered with %d citation(s).", len(answer.Citations))
}

// Run starts the chat program and blocks until it exits.
func Run(service QAPort, sessionID string, topK int) error {
	p := tea.NewProgram(New(service, sessionID, topK), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
