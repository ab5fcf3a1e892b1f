// Package models defines the data structures shared by the assistant components.
package models

import (
	"strings"
	"unicode/utf8"
)

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
	// RoleAssistant turns are accepted from clients but never classified.
	RoleAssistant Role = "assistant"
)

// Transcript limits applied before a conversation reaches the assistant.
const (
	MaxTurns       = 14
	MaxTurnChars   = 2000
	truncateMarker = "…"
)

// Turn is a single message in a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NormalizeTranscript keeps the most recent MaxTurns turns, drops empty ones and
// truncates long contents. Unknown roles are treated as user turns.
func NormalizeTranscript(turns []Turn) []Turn {
	if len(turns) > MaxTurns {
		turns = turns[len(turns)-MaxTurns:]
	}
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		if utf8.RuneCountInString(content) > MaxTurnChars {
			content = string([]rune(content)[:MaxTurnChars]) + truncateMarker
		}
		role := Role(strings.ToLower(string(t.Role)))
		switch role {
		case RoleUser, RoleSystem, RoleAssistant:
		default:
			role = RoleUser
		}
		out = append(out, Turn{Role: role, Content: content})
	}
	return out
}

// LastUserText returns the content of the most recent user turn.
func LastUserText(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

// Truncate shortens s to max runes.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
