// Package lexicon provides the skill, certification and exclusion dictionaries used for
// feature extraction. The default dictionaries are embedded at compile time and may be
// replaced by a YAML file of the same shape at startup.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// SkillGroup is a named list of skill terms
type SkillGroup struct {
	Group string   `yaml:"group"`
	Terms []string `yaml:"terms"`
}

// Lexicon is an immutable set of dictionaries
type Lexicon struct {
	SkillGroups       []SkillGroup `yaml:"skills"`
	Certifications    []string     `yaml:"certifications"`
	MastersExclusions []string     `yaml:"masters_exclusions"`
}

// cache stores the parsed embedded lexicon to avoid repeated YAML parsing
var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the embedded lexicon. It panics if the embedded file is malformed,
// which can only happen through a broken build.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultLexicon)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("failed to load embedded lexicon: %v", defaultErr))
	}
	return defaultLex
}

// Load reads a lexicon from path. An empty path returns the embedded default.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes and normalizes a YAML lexicon.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	if len(lex.SkillGroups) == 0 && len(lex.Certifications) == 0 {
		return nil, fmt.Errorf("lexicon has no skills or certifications")
	}

	for i := range lex.SkillGroups {
		lex.SkillGroups[i].Terms = trimTerms(lex.SkillGroups[i].Terms)
	}
	lex.Certifications = trimTerms(lex.Certifications)
	lex.MastersExclusions = trimTerms(lex.MastersExclusions)

	return &lex, nil
}

// SkillTerms returns every skill term in group order.
func (l *Lexicon) SkillTerms() []string {
	var terms []string
	for _, g := range l.SkillGroups {
		terms = append(terms, g.Terms...)
	}
	return terms
}

// trimTerms drops blank entries and surrounding whitespace
func trimTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
