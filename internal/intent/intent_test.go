package intent

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportrium/assistant/internal/models"
)

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		text  string
		label models.Intent
		conf  float64
	}{
		{"Lahore me kal basketball match hai?", models.IntentFindMatches, 0.9},
		{"show me the schedule", models.IntentFindMatches, 0.9},
		{"ticket price kya hai", models.IntentTicketPrice, 0.8},
		{"what is the price of entry", models.IntentTicketPrice, 0.8},
		{"stadium kitni door hai", models.IntentDistance, 0.8},
		{"send directions", models.IntentDistance, 0.8},
		{"remind me before kickoff", models.IntentReminder, 0.7},
		{"how to use this", models.IntentHowToUse, 0.7},
		{"app kaise chalate hain", models.IntentHowToUse, 0.7},
		{"ye website kis kaam ki hai", models.IntentPurpose, 0.7},
		{"cricket history", models.IntentHistory, 0.65},
		{"football drills", models.IntentTraining, 0.65},
		{"hello there", models.IntentChitchat, 0.6},
		{"Thanks", models.IntentChitchat, 0.6},
		{"asdf qwerty", models.IntentFallback, FallbackConfidence},
		{"any gamer here?", models.IntentFallback, FallbackConfidence},
		{"", models.IntentFallback, FallbackConfidence},
	}

	c := NewRuleClassifier(nil)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			label, conf := c.Classify(context.Background(), tt.text)
			assert.Equal(t, tt.label, label)
			assert.InDelta(t, tt.conf, conf, 1e-9)
		})
	}
}

func TestRuleOrderIsContract(t *testing.T) {
	// Fixture vocabulary outranks every later rule.
	label, _ := NewRuleClassifier(nil).Classify(context.Background(), "match ka ticket price aur distance")
	assert.Equal(t, models.IntentFindMatches, label)

	// Price outranks distance.
	label, _ = NewRuleClassifier(nil).Classify(context.Background(), "ticket price and map")
	assert.Equal(t, models.IntentTicketPrice, label)
}

func TestHasFixtureVocabulary(t *testing.T) {
	assert.True(t, HasFixtureVocabulary("koi Games?"))
	assert.True(t, HasFixtureVocabulary("fixtures please"))
	assert.False(t, HasFixtureVocabulary("hello"))
	assert.False(t, HasFixtureVocabulary("any gamer here?"))
	assert.False(t, HasFixtureVocabulary("matchbox cars"))
}

func TestMatchRule(t *testing.T) {
	label, ok := MatchRule("ticket price kya hai?")
	assert.True(t, ok)
	assert.Equal(t, models.IntentTicketPrice, label)

	label, ok = MatchRule("any gamer here?")
	assert.False(t, ok)
	assert.Equal(t, models.IntentFallback, label)
}

// keywordEmbedder embeds text onto axes keyed by keyword presence.
type keywordEmbedder struct {
	axes  []string
	err   error
	calls atomic.Int32
}

func (k *keywordEmbedder) vector(text string) []float32 {
	v := make([]float32, len(k.axes)+1)
	v[len(k.axes)] = 0.01
	s := strings.ToLower(text)
	for i, a := range k.axes {
		if strings.Contains(s, a) {
			v[i] = 1
		}
	}
	return v
}

func (k *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	k.calls.Add(1)
	if k.err != nil {
		return nil, k.err
	}
	return k.vector(text), nil
}

func (k *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	k.calls.Add(1)
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

func (k *keywordEmbedder) Model() string { return "keywords" }

func TestEmbeddingClassifier(t *testing.T) {
	e := &keywordEmbedder{axes: []string{"match", "ticket", "history", "door"}}
	c := NewEmbeddingClassifier(e, nil, nil)

	label, conf := c.Classify(context.Background(), "koi match?")
	assert.Equal(t, models.IntentFindMatches, label)
	assert.Greater(t, conf, 0.9)

	label, _ = c.Classify(context.Background(), "ticket?")
	assert.Equal(t, models.IntentTicketPrice, label)

	label, _ = c.Classify(context.Background(), "kitni door")
	assert.Equal(t, models.IntentDistance, label)

	// One batch for exemplars, then one call per query.
	assert.Equal(t, int32(4), e.calls.Load())
}

func TestEmbeddingClassifierFallsBackToRules(t *testing.T) {
	e := &keywordEmbedder{err: errors.New("model not loaded")}
	c := NewEmbeddingClassifier(e, nil, nil)

	label, conf := c.Classify(context.Background(), "football drills")
	assert.Equal(t, models.IntentTraining, label)
	assert.InDelta(t, 0.65, conf, 1e-9)

	// Exemplars are retried once the embedder recovers.
	e.err = nil
	e.axes = []string{"history"}
	label, _ = c.Classify(context.Background(), "cricket history")
	assert.Equal(t, models.IntentHistory, label)
}

func TestCosineAndConfidence(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))

	assert.Equal(t, 1.0, Confidence(1))
	assert.Equal(t, 0.0, Confidence(-1))
	assert.Equal(t, 0.5, Confidence(0))
	assert.Equal(t, 1.0, Confidence(1.2))
}

func TestNewSelectsImplementation(t *testing.T) {
	_, ok := New(nil, nil).(*RuleClassifier)
	assert.True(t, ok)

	_, ok = New(&keywordEmbedder{}, nil).(*EmbeddingClassifier)
	require.True(t, ok)
}

func TestExemplarsCoverEveryIntent(t *testing.T) {
	for _, label := range models.Intents {
		assert.NotEmpty(t, Exemplars[label], label)
	}
}
