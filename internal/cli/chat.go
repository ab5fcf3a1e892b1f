package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sportrium/assistant/internal/client"
)

var chatServer string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a running server over a websocket",
	Long: `Open an interactive conversation with a running Sportrium server.
Each line is one turn; the connection keeps one session, so follow-ups like
"more" or "aur kal?" work. End with Ctrl-D or "exit".`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "", "server URL (default SPORTRIUM_SERVER_URL or http://localhost:8080)")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv, err := client.New(chatServer).Dial(ctx)
	if err != nil {
		return err
	}
	defer conv.Close()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := sendWithSpinner(ctx, conv, client.Request{Message: line}, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		printReply(out, reply.Reply, reply.Provenance)
	}
}
