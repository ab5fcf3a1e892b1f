package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sportrium/assistant/internal/client"
	"github.com/sportrium/assistant/internal/models"
)

var (
	askSession string
	askServer  string
)

// Theme holds the colors of the ask output.
type Theme struct {
	Reply      lipgloss.Color
	Provenance lipgloss.Color
}

var defaultTheme = Theme{
	Reply:      lipgloss.Color("#00D787"), // green
	Provenance: lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) replyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Reply)
}

func (t Theme) provenanceStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Provenance).Italic(true)
}

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Run one message through the assistant",
	Long: `Run one chat turn locally with the same wiring as the server.

Without --server, session memory lives only for this process. With --server the
turn goes to a running server, so follow-ups in the same session keep their context.

Examples:
  sportrium ask "Lahore me kal basketball match hai?"
  sportrium ask "football drills"
  sportrium ask --server http://localhost:8080 --session demo "how far is it from Saddar"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "cli", "session id")
	askCmd.Flags().StringVar(&askServer, "server", "", "send the turn to a running server at this URL")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	message := strings.Join(args, " ")

	var reply, provenance string
	if askServer != "" {
		r, err := client.New(askServer).Chat(ctx, client.Request{Message: message, SessionID: askSession})
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		reply, provenance = r.Reply, r.Provenance
	} else {
		a := build(ctx, cfg, logger)
		reply, provenance = a.assistant.Reply(ctx, askSession, []models.Turn{{Role: models.RoleUser, Content: message}})
	}

	printReply(cmd.OutOrStdout(), reply, provenance)
	return nil
}

func printReply(out io.Writer, reply, provenance string) {
	fmt.Fprintln(out, defaultTheme.replyStyle().Render(reply))
	fmt.Fprintln(out, defaultTheme.provenanceStyle().Render("["+provenance+"]"))
}
