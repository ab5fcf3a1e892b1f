package canned

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/session"
)

func TestGreeting(t *testing.T) {
	tests := []struct {
		text string
		ok   bool
		want string
	}{
		{"salam", true, "Wa alaikum salam"},
		{"Assalam o alaikum", true, "Wa alaikum salam"},
		{"AOA bhai!", true, "Wa alaikum salam"},
		{"assalamualaikum", true, "Wa alaikum salam"},
		{"hi", true, "Hi there"},
		{"Hello there!", true, "Hi there"},
		{"hey bhai", true, "Hello!"},
		{"shukriya", true, "Koi baat nahi"},
		{"thanks", true, "You're welcome"},
		{"hi, any match in Lahore?", false, ""},
		{"history", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Greeting(tt.text, language.Detect(tt.text))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Contains(t, got, tt.want)
			}
		})
	}
}

func TestGreetingAdvertisesCapabilities(t *testing.T) {
	got, ok := Greeting("hello", language.English)
	require.True(t, ok)
	assert.Contains(t, got, "tickets")
	assert.Contains(t, got, "drills")
}

func TestHealthGuardrail(t *testing.T) {
	assert.True(t, IsHealthQuestion("knee pain se kya karun"))
	assert.True(t, IsHealthQuestion("mera ghutna dard kar raha hai"))
	assert.True(t, IsHealthQuestion("which medicine for cramps?"))
	assert.False(t, IsHealthQuestion("Lahore me kal cricket match?"))

	reply := HealthReply("cricket", language.Urdu)
	assert.Contains(t, reply, "medical advice nahi")

	var bullets []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.HasPrefix(line, "• ") {
			bullets = append(bullets, strings.TrimPrefix(line, "• "))
		}
	}
	require.NotEmpty(t, bullets)
	assert.LessOrEqual(t, len(bullets), 3)
	for _, b := range bullets {
		assert.Contains(t, FirstPack("cricket"), b)
	}
}

func TestHealthReplyWithoutSport(t *testing.T) {
	reply := HealthReply("", language.English)
	assert.Contains(t, reply, "can't give medical advice")
	assert.NotContains(t, reply, "•")
}

func TestHistory(t *testing.T) {
	assert.Contains(t, History("basketball", language.English), "Naismith")
	assert.Contains(t, History("cricket", language.Urdu), "1877")
	assert.Equal(t, AskHistorySport(language.English), History("", language.English))
	assert.True(t, HasHistory("tennis"))
	assert.False(t, HasHistory("chess"))
}

func TestTrainingCyclesPacksWithWrap(t *testing.T) {
	n := PackCount("football")
	require.GreaterOrEqual(t, n, 2)

	reply, st := Training("football", false, session.Drills{}, language.English)
	assert.Equal(t, 0, st.Cursor["football"])
	assert.Contains(t, reply, FirstPack("football")[0])

	seen := []string{reply}
	for i := 1; i <= n; i++ {
		reply, st = Training("football", true, st, language.English)
		assert.Equal(t, i%n, st.Cursor["football"])
		assert.NotEqual(t, seen[len(seen)-1], reply, "consecutive packs must differ")
		seen = append(seen, reply)
	}
	assert.Equal(t, seen[0], seen[n], "wraps back to the first pack")
}

func TestTrainingFreshRequestKeepsCursor(t *testing.T) {
	_, st := Training("cricket", false, session.Drills{}, language.English)
	_, st = Training("cricket", true, st, language.English)
	require.Equal(t, 1, st.Cursor["cricket"])

	_, st = Training("cricket", false, st, language.English)
	assert.Equal(t, 1, st.Cursor["cricket"], "fresh request redisplays current pack")
}

func TestTrainingSportChangeStartsAtZero(t *testing.T) {
	_, st := Training("cricket", false, session.Drills{}, language.English)
	_, st = Training("cricket", true, st, language.English)

	reply, st := Training("tennis", true, st, language.English)
	assert.Equal(t, 0, st.Cursor["tennis"])
	assert.Equal(t, "tennis", st.Sport)
	assert.Contains(t, reply, FirstPack("tennis")[0])
}

func TestTrainingAlwaysHasDisclaimer(t *testing.T) {
	for _, lang := range []language.Lang{language.English, language.Urdu} {
		reply, _ := Training("badminton", false, session.Drills{}, lang)
		assert.True(t, strings.HasSuffix(reply, TrainingDisclaimer(lang)))
	}
}

func TestTrainingUnknownSportAsks(t *testing.T) {
	prev := session.Drills{Sport: "cricket", Cursor: map[string]int{"cricket": 2}}
	reply, st := Training("chess", false, prev, language.English)
	assert.Equal(t, AskTrainingSport(language.English), reply)
	assert.Equal(t, prev, st)
}

func TestPackBulletsDoNotOverlap(t *testing.T) {
	for sport, packs := range drillPacks {
		seen := map[string]bool{}
		for _, p := range packs {
			for _, b := range p {
				assert.False(t, seen[b], "%s repeats %q", sport, b)
				seen[b] = true
			}
		}
	}
}

func TestAsksForMore(t *testing.T) {
	assert.True(t, AsksForMore("more drills"))
	assert.True(t, AsksForMore("kuch aur batao"))
	assert.True(t, AsksForMore("another set please"))
	assert.False(t, AsksForMore("aur cricket?"))
	assert.False(t, AsksForMore("football drills"))
}
