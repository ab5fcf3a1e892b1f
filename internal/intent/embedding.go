package intent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/sportrium/assistant/internal/embedding"
	"github.com/sportrium/assistant/internal/models"
)

// Exemplars are the reference phrases per label, in English, Roman-Urdu and Urdu.
var Exemplars = map[models.Intent][]string{
	models.IntentFindMatches: {
		"Karachi mein aaj koi match hai?", "Lahore weekend par football matches?",
		"Islamabad cricket Sunday?", "show schedule", "fixtures near me",
		"aj match", "kal match", "is haftay matches", "upcoming games", "آج کوئی میچ ہے؟",
	},
	models.IntentTicketPrice: {
		"ticket price kya hai?", "entry fee kitni hai?", "how much is the ticket?",
		"ticket kitne ka", "price of entry",
	},
	models.IntentPurpose: {
		"ye website kis kaam ki hai?", "what is the point of this site?",
		"what does this website do?", "is website ka purpose kya hai",
	},
	models.IntentHowToUse: {
		"app ka istemal kaise karun?", "how to use this app?",
		"use kaise karna", "how does sportrium work",
	},
	models.IntentDistance: {
		"distance kitna hai?", "kitni door hai?", "directions bhej do",
		"map send karo", "how far is the stadium", "google maps link",
	},
	models.IntentReminder: {
		"reminder lagana", "kick-off se pehle remind karna", "notify me",
		"team follow karna hai", "follow this team", "alert bhejna",
	},
	models.IntentHistory: {
		"football ki history", "basketball history", "cricket history",
		"badminton history", "tennis history",
	},
	models.IntentTraining: {
		"training tips chahiye", "practice kaise karun", "skills improve kaise",
		"drills for football", "batting improve", "badminton footwork",
	},
	models.IntentChitchat: {
		"hi", "hello", "salam", "thanks", "shukriya", "how are you",
	},
	models.IntentFallback: {
		"?", "help", "samajh nahi aya",
	},
}

// EmbeddingClassifier picks the label whose closest exemplar is most similar
// to the input. Any embedding failure falls back to the rule cascade.
type EmbeddingClassifier struct {
	embedder embedding.Embedder
	fallback Classifier
	logger   *slog.Logger

	mu      sync.Mutex
	vectors map[models.Intent][][]float32
}

// NewEmbeddingClassifier creates a classifier. Exemplar vectors are computed
// on first use and retried on later calls if that fails.
func NewEmbeddingClassifier(e embedding.Embedder, fallback Classifier, logger *slog.Logger) *EmbeddingClassifier {
	if fallback == nil {
		fallback = NewRuleClassifier(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingClassifier{embedder: e, fallback: fallback, logger: logger}
}

// Classify implements Classifier.
func (c *EmbeddingClassifier) Classify(ctx context.Context, text string) (models.Intent, float64) {
	if strings.TrimSpace(text) == "" {
		return c.fallback.Classify(ctx, text)
	}

	vectors, err := c.exemplars(ctx)
	if err != nil {
		c.logger.Warn("exemplar embedding failed, using rules", "model", c.embedder.Model(), "error", err)
		return c.fallback.Classify(ctx, text)
	}

	query, err := c.embedder.Embed(ctx, text)
	if err != nil {
		c.logger.Warn("query embedding failed, using rules", "model", c.embedder.Model(), "error", err)
		return c.fallback.Classify(ctx, text)
	}

	bestLabel, best := models.IntentFallback, math.Inf(-1)
	for _, label := range models.Intents {
		for _, v := range vectors[label] {
			if s := Cosine(query, v); s > best {
				best, bestLabel = s, label
			}
		}
	}
	if math.IsInf(best, -1) {
		return c.fallback.Classify(ctx, text)
	}
	return bestLabel, Confidence(best)
}

func (c *EmbeddingClassifier) exemplars(ctx context.Context) (map[models.Intent][][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vectors != nil {
		return c.vectors, nil
	}

	var (
		texts  []string
		labels []models.Intent
	)
	for _, label := range models.Intents {
		for _, phrase := range Exemplars[label] {
			texts = append(texts, phrase)
			labels = append(labels, label)
		}
	}

	vecs, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("exemplar count mismatch: got %d, want %d", len(vecs), len(texts))
	}

	out := make(map[models.Intent][][]float32, len(models.Intents))
	for i, v := range vecs {
		out[labels[i]] = append(out[labels[i]], v)
	}
	c.vectors = out
	c.logger.Info("intent exemplars embedded", "model", c.embedder.Model(), "count", len(texts))
	return out, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is empty
// or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Confidence maps a cosine similarity in [-1,1] onto [0,1].
func Confidence(similarity float64) float64 {
	return min(1, max(0, (similarity+1)/2))
}

// New selects the classifier implementation: embedding-backed when e is
// non-nil, the rule cascade otherwise.
func New(e embedding.Embedder, logger *slog.Logger) Classifier {
	rules := NewRuleClassifier(nil)
	if e == nil {
		return rules
	}
	return NewEmbeddingClassifier(e, rules, logger)
}
