package llm

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportrium/assistant/internal/canned"
	"github.com/sportrium/assistant/internal/language"
)

func guard(f *fakeCompleter) *Guarded {
	return Guard(f, NewBreaker(3, time.Minute, nil))
}

func TestFallbackReply(t *testing.T) {
	failing := func(name string) *fakeCompleter { return &fakeCompleter{name: name, err: errors.New("boom")} }
	ok := func(name string) *fakeCompleter { return &fakeCompleter{name: name, reply: "Jee bilkul!"} }

	tests := []struct {
		name       string
		providers  []*fakeCompleter
		wantText   string
		wantSource string
	}{
		{"primary answers", []*fakeCompleter{ok("gemini"), ok("openai")}, "Jee bilkul!", "gemini"},
		{"secondary answers", []*fakeCompleter{failing("gemini"), ok("openai")}, "Jee bilkul!", "openai"},
		{"all fail", []*fakeCompleter{failing("gemini"), failing("openai")}, canned.ProviderUnavailable(language.Urdu), "openai"},
		{"no providers", nil, "Shukriya! (dev-mode) Aap ne kaha: kya haal hai", ProvenanceMock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chain []*Guarded
			for _, p := range tt.providers {
				chain = append(chain, guard(p))
			}
			f := NewFallback("system", time.Second, nil, chain...)

			text, source := f.Reply(context.Background(), "kya haal hai", "city=∅ | sport=∅ | date_label=today", language.Urdu)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestFallbackSendsSingleTurn(t *testing.T) {
	p := &fakeCompleter{name: "gemini", reply: "hi"}
	f := NewFallback("system", time.Second, nil, guard(p))
	_, _ = f.Reply(context.Background(), "what's up", "city=Lahore | sport=∅ | date_label=today", language.English)

	require.Len(t, p.seen, 1)
	msg := p.seen[0].Content
	assert.Contains(t, msg, "User message: what's up")
	assert.Contains(t, msg, "Known state: city=Lahore")
	assert.Contains(t, msg, "Respond briefly in English.")
	assert.Contains(t, msg, "Do not reuse your previous wording.")
}

func TestFallbackAllCircuitsOpenEchoes(t *testing.T) {
	p := &fakeCompleter{name: "openai", err: errors.New("boom")}
	g := Guard(p, NewBreaker(1, time.Hour, nil))
	f := NewFallback("system", time.Second, nil, g)

	_, source := f.Reply(context.Background(), "hello", "", language.English)
	assert.Equal(t, "openai", source, "first failure is reported")

	text, source := f.Reply(context.Background(), "hello", "", language.English)
	assert.Equal(t, ProvenanceMock, source)
	assert.Equal(t, "Shukriya! (dev-mode) Aap ne kaha: hello", text)
	assert.Equal(t, 1, p.calls)
}

func TestEchoTruncates(t *testing.T) {
	long := strings.Repeat("a", 400)
	assert.Equal(t, "Shukriya! (dev-mode) Aap ne kaha: "+strings.Repeat("a", 300), Echo(long))
}

func TestLoadSystemPrompt(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Be brief.\n"), 0o644))
	assert.Equal(t, "Be brief.", LoadSystemPrompt(path, logger))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Equal(t, DefaultSystemPrompt, LoadSystemPrompt(empty, logger))

	assert.Equal(t, DefaultSystemPrompt, LoadSystemPrompt(filepath.Join(dir, "missing.txt"), logger))
	assert.Equal(t, DefaultSystemPrompt, LoadSystemPrompt("", logger))
}
