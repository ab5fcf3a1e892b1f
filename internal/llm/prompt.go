package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sportrium/assistant/internal/language"
)

// DefaultSystemPrompt is used when the prompt file cannot be read.
const DefaultSystemPrompt = "You are Sportrium Assistant. Reply in short Roman Urdu (1–3 lines). " +
	"Primary tasks: find local matches (city/sport/date), tickets, reminders, how-to. " +
	"If logged out: reply only 'Chat use karne ke liye please login karein.' " +
	"Never repeat your previous reply; answer the current question. " +
	"If data fetch fails say it's a temporary issue and suggest trying another city/date."

// LoadSystemPrompt reads the system prompt from path, falling back to
// DefaultSystemPrompt when the file is missing, unreadable or empty.
func LoadSystemPrompt(path string, logger *slog.Logger) string {
	if path == "" {
		return DefaultSystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("system prompt unreadable, using default", "path", path, "error", err)
		return DefaultSystemPrompt
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return DefaultSystemPrompt
	}
	return prompt
}

// UserMessage builds the single user turn sent to the provider.
func UserMessage(userText, stateSummary string, lang language.Lang) string {
	reply := "Respond briefly in Roman Urdu."
	if lang == language.English {
		reply = "Respond briefly in English."
	}
	return fmt.Sprintf("User message: %s\nKnown state: %s\n%s If slots missing, ask for them. "+
		"If backend returns no data or times out, say it's a temporary issue and offer nearby city/date. "+
		"Do not reuse your previous wording.", userText, stateSummary, reply)
}
