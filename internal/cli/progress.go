package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/sportrium/assistant/internal/client"
)

// replyMsg carries the server's answer for the pending turn.
type replyMsg struct {
	reply *client.Reply
	err   error
}

// waitModel shows a spinner while one chat turn is in flight.
type waitModel struct {
	spinner spinner.Model
	send    tea.Cmd
	reply   *client.Reply
	err     error
}

func newWaitModel(send tea.Cmd) waitModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return waitModel{spinner: sp, send: send}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.send)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		m.reply, m.err = msg.reply, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m waitModel) renderContent() string {
	if m.reply != nil || m.err != nil {
		return ""
	}
	return waitingStyle().Render(m.spinner.View() + " thinking...")
}

func waitingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
}

// sendWithSpinner sends req on cv. When status is a terminal it shows a
// spinner there until the reply arrives.
func sendWithSpinner(ctx context.Context, cv *client.Conversation, req client.Request, status io.Writer) (*client.Reply, error) {
	send := func() tea.Msg {
		r, err := cv.Send(ctx, req)
		return replyMsg{reply: r, err: err}
	}
	if !isTerminal(status) {
		msg := send().(replyMsg)
		return msg.reply, msg.err
	}

	p := tea.NewProgram(newWaitModel(send), tea.WithInput(nil), tea.WithOutput(status))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("spinner UI error: %w", err)
	}
	m, ok := final.(waitModel)
	if !ok || (m.reply == nil && m.err == nil) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("interrupted before the reply arrived")
	}
	return m.reply, m.err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
