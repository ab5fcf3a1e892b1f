// Package intent classifies user utterances into the assistant's closed intent set.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/sportrium/assistant/internal/models"
)

// Classifier predicts an intent label and a confidence in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Intent, float64)
}

// Rule is one entry of the ordered regex cascade.
type Rule struct {
	Label      models.Intent
	Pattern    *regexp.Regexp
	Confidence float64
}

var fixtureWords = regexp.MustCompile(`(?i)\b(match|matches|fixture|fixtures|game|games|schedule)\b`)

// DefaultRules is the cascade used when no embedding model is available.
// Order is significant: the first matching rule wins.
var DefaultRules = []Rule{
	{models.IntentFindMatches, fixtureWords, 0.9},
	{models.IntentTicketPrice, regexp.MustCompile(`(?i)(ticket|entry).*(price|fee)|price.*(ticket|entry)`), 0.8},
	{models.IntentDistance, regexp.MustCompile(`(?i)(distance|kitni door|directions|map)`), 0.8},
	{models.IntentReminder, regexp.MustCompile(`(?i)(remind|reminder|follow|alert|notify)`), 0.7},
	{models.IntentHowToUse, regexp.MustCompile(`(?i)(how to|kaise.*use|app.*kaise)`), 0.7},
	{models.IntentPurpose, regexp.MustCompile(`(?i)(purpose|point|kis kaam|what.*website|ye website.*kya)`), 0.7},
	{models.IntentHistory, regexp.MustCompile(`(?i)(history)`), 0.65},
	{models.IntentTraining, regexp.MustCompile(`(?i)(training|practice|drills|tips)`), 0.65},
	{models.IntentChitchat, regexp.MustCompile(`(?i)^(hi|hello|salam|assalam|hey|thanks|shukriya)\b`), 0.6},
}

// FallbackConfidence is reported when no rule matches.
const FallbackConfidence = 0.35

// HasFixtureVocabulary reports whether text names fixtures directly.
// Such messages are acted on even when the classifier is unsure.
func HasFixtureVocabulary(text string) bool {
	return fixtureWords.MatchString(text)
}

// RuleClassifier walks an ordered rule table.
type RuleClassifier struct {
	rules []Rule
}

// NewRuleClassifier creates a classifier over rules, or DefaultRules when nil.
func NewRuleClassifier(rules []Rule) *RuleClassifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &RuleClassifier{rules: rules}
}

// Classify implements Classifier.
func (c *RuleClassifier) Classify(_ context.Context, text string) (models.Intent, float64) {
	if r, ok := firstMatch(c.rules, text); ok {
		return r.Label, r.Confidence
	}
	return models.IntentFallback, FallbackConfidence
}

// MatchRule returns the label of the first DefaultRules entry matching text.
func MatchRule(text string) (models.Intent, bool) {
	if r, ok := firstMatch(DefaultRules, text); ok {
		return r.Label, true
	}
	return models.IntentFallback, false
}

func firstMatch(rules []Rule, text string) (Rule, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if r.Pattern.MatchString(s) {
			return r, true
		}
	}
	return Rule{}, false
}
