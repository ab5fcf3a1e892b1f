package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
cities:
  Karachi: [karachi, khi, کراچی]
  Lahore: [lahore, lhr]
  Islamabad: [islamabad, isb]
sports:
  football: [football, soccer]
  cricket: [cricket, t20]
  basketball: [basketball, hoops]
  tennis: [tennis]
`

func writeCatalog(t *testing.T, dir, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, "entities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func testLoader(t *testing.T) *Loader {
	t.Helper()
	c, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	return NewStatic(c)
}

func TestParsePreservesOrder(t *testing.T) {
	c, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"Karachi", "Lahore", "Islamabad"}, c.CityNames())
	assert.Equal(t, []string{"football", "cricket", "basketball", "tennis"}, c.SportNames())
}

func TestParseAcceptsJSON(t *testing.T) {
	c, err := Parse([]byte(`{"cities": {"Multan": ["multan"]}, "sports": {"cricket": ["cricket"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Multan"}, c.CityNames())
}

func TestParseRejectsWrongShape(t *testing.T) {
	_, err := Parse([]byte("cities: [karachi, lahore]"))
	assert.Error(t, err)
}

func TestResolveCity(t *testing.T) {
	l := testLoader(t)

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"canonical", "Lahore me kal basketball match hai?", "Lahore", true},
		{"synonym", "any games in khi today", "Karachi", true},
		{"urdu script", "کراچی میں میچ", "Karachi", true},
		{"whole word only", "lahoremall", "", false},
		{"fuzzy misspelling", "karachii mein match", "Karachi", true},
		{"fuzzy one letter off", "islamabat cricket", "Islamabad", true},
		{"dissimilar", "hello there friend", "", false},
		{"empty", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.ResolveCity(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSport(t *testing.T) {
	l := testLoader(t)

	got, ok := l.ResolveSport("any SOCCER this weekend")
	require.True(t, ok)
	assert.Equal(t, "football", got)

	got, ok = l.ResolveSport("crickett")
	require.True(t, ok)
	assert.Equal(t, "cricket", got)

	_, ok = l.ResolveSport("swimming")
	assert.False(t, ok)
}

func TestResolveSports(t *testing.T) {
	l := testLoader(t)

	tests := []struct {
		text string
		want []string
	}{
		{"basketball and cricket in Lahore", []string{"basketball", "cricket"}},
		{"cricket aur football", []string{"cricket", "football"}},
		{"tennis/hoops", []string{"tennis", "basketball"}},
		{"football", []string{"football"}},
		{"tenniss", []string{"tennis"}},
		{"nothing here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, l.ResolveSports(tt.text))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("lahore", "lahore"), 1e-9)
	assert.GreaterOrEqual(t, Similarity("lahoree", "lahore"), FuzzyThreshold)
	assert.Less(t, Similarity("multan", "lahore"), FuzzyThreshold)
}

func TestLoaderHotReload(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Now().Add(-time.Hour)
	path := writeCatalog(t, dir, testYAML, t0)

	l := NewLoader(path, nil)
	_, ok := l.ResolveCity("multan")
	assert.False(t, ok)

	writeCatalog(t, dir, "cities:\n  Multan: [multan]\nsports:\n  cricket: [cricket]\n", t0.Add(time.Minute))

	got, ok := l.ResolveCity("multan me match")
	require.True(t, ok)
	assert.Equal(t, "Multan", got)
	assert.Equal(t, []string{"cricket"}, l.Load().SportNames())
}

func TestLoaderKeepsLastGoodCatalogOnParseError(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Now().Add(-time.Hour)
	path := writeCatalog(t, dir, testYAML, t0)
	l := NewLoader(path, nil)

	writeCatalog(t, dir, "cities: [broken", t0.Add(time.Minute))

	got, ok := l.ResolveCity("lahore")
	require.True(t, ok)
	assert.Equal(t, "Lahore", got)
}

func TestLoaderMissingFileServesEmptyCatalog(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	_, ok := l.ResolveCity("lahore")
	assert.False(t, ok)
	assert.Empty(t, l.ResolveSports("cricket"))
}

func TestLoaderConcurrentReads(t *testing.T) {
	t0 := time.Now().Add(-time.Hour)
	path := writeCatalog(t, t.TempDir(), testYAML, t0)
	l := NewLoader(path, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i == 0 && j%10 == 0 {
					ts := t0.Add(time.Duration(j+1) * time.Second)
					_ = os.Chtimes(path, ts, ts)
				}
				got, ok := l.ResolveCity("lahore")
				assert.True(t, ok)
				assert.Equal(t, "Lahore", got)
			}
		}(i)
	}
	wg.Wait()
}
