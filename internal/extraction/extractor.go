// Package extraction derives structured candidate features from free CV text using
// dictionary lookups and pattern heuristics.
package extraction

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/cv-shortlister/internal/lexicon"
	"github.com/jonathan/cv-shortlister/internal/types"
)

// DefaultReferenceYear is the year that "present" and "current" resolve to in
// employment date ranges.
const DefaultReferenceYear = 2026

// Extractor turns document text into a Profile. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	lex           *lexicon.Lexicon
	referenceYear int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithReferenceYear overrides the year used for open-ended date ranges.
func WithReferenceYear(year int) Option {
	return func(e *Extractor) {
		if year > 0 {
			e.referenceYear = year
		}
	}
}

// New creates an Extractor over lex. A nil lexicon selects the embedded default.
func New(lex *lexicon.Lexicon, opts ...Option) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	e := &Extractor{
		lex:           lex,
		referenceYear: DefaultReferenceYear,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a profile from text. It never fails: blank input or a failing
// field extractor yields a PARTIAL profile with the affected fields left empty.
func (e *Extractor) Extract(text string) *types.Profile {
	p := &types.Profile{
		Skills:         []string{},
		EducationLevel: types.EducationUnknown,
		Certifications: []string{},
		RawText:        text,
		Status:         types.StatusSuccess,
		UpdatedAt:      time.Now().UTC(),
	}

	if strings.TrimSpace(text) == "" {
		p.Status = types.StatusPartial
		p.Error = "no text could be extracted from the document"
		return p
	}

	var problems []string
	guard := func(field string, fn func()) {
		defer func() {
			if r := recover(); r != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", field, r))
			}
		}()
		fn()
	}

	guard("skills", func() { p.Skills = e.ExtractSkills(text) })
	guard("experience", func() { p.YearsOfExperience = e.ExtractYearsOfExperience(text) })
	guard("education", func() { p.EducationLevel = e.ExtractEducationLevel(text) })
	guard("certifications", func() { p.Certifications = e.ExtractCertifications(text) })

	if len(problems) > 0 {
		p.Status = types.StatusPartial
		p.Error = strings.Join(problems, "; ")
	}
	return p
}
