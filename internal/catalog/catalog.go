// Package catalog resolves free text to canonical city and sport tokens.
//
// The catalog is loaded from a YAML (or JSON) file mapping each canonical token to its
// surface forms. Entry order in the file is preserved and is the order in which entries
// are tested.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one canonical token and the surface forms that resolve to it.
type Entry struct {
	Canonical string
	Forms     []string
}

// Entries is an ordered list of catalog entries.
type Entries []Entry

// UnmarshalYAML decodes a mapping of canonical -> [forms] keeping file order.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("catalog section must be a mapping, got kind %d", node.Kind)
	}
	out := make(Entries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var forms []string
		if err := node.Content[i+1].Decode(&forms); err != nil {
			return fmt.Errorf("decode forms for %q: %w", node.Content[i].Value, err)
		}
		out = append(out, Entry{Canonical: node.Content[i].Value, Forms: forms})
	}
	*e = out
	return nil
}

// Catalog holds the canonical cities and sports.
type Catalog struct {
	Cities Entries `yaml:"cities"`
	Sports Entries `yaml:"sports"`
}

// Parse decodes catalog data. JSON input is accepted since it is valid YAML.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// CityNames returns the canonical city tokens in catalog order.
func (c Catalog) CityNames() []string { return names(c.Cities) }

// SportNames returns the canonical sport tokens in catalog order.
func (c Catalog) SportNames() []string { return names(c.Sports) }

func names(es Entries) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Canonical)
	}
	return out
}

// compiled is an entry with its surface forms compiled into one matcher.
type compiled struct {
	canonical string
	re        *regexp.Regexp
}

// index is an immutable, precompiled view of a Catalog. A new index is built on every
// reload and swapped in whole.
type index struct {
	catalog Catalog
	cities  []compiled
	sports  []compiled
}

func newIndex(c Catalog) *index {
	return &index{
		catalog: c,
		cities:  compileEntries(c.Cities),
		sports:  compileEntries(c.Sports),
	}
}

func compileEntries(es Entries) []compiled {
	out := make([]compiled, 0, len(es))
	for _, e := range es {
		forms := append([]string{e.Canonical}, e.Forms...)
		alts := make([]string, 0, len(forms))
		for _, f := range forms {
			f = strings.TrimSpace(strings.ToLower(f))
			if f != "" {
				alts = append(alts, regexp.QuoteMeta(f))
			}
		}
		if len(alts) == 0 {
			continue
		}
		// \b is ASCII-only in RE2, so word boundaries are spelled out to cover Urdu script.
		re := regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)(?:$|[^\p{L}\p{N}])`)
		out = append(out, compiled{canonical: e.Canonical, re: re})
	}
	return out
}
