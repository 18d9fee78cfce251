package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	skillsSectionPattern = regexp.MustCompile(`(?i)skills?\s*:?\s*([^\n]{10,200})`)
	certSectionPattern   = regexp.MustCompile(`(?i)certifications?\s*:?\s*([^\n]{10,300})`)
	listSeparatorPattern = regexp.MustCompile(`[,;|]`)
)

// shortTermLength is the longest dictionary term that must match as a whole token.
// Substring matching of terms like "go" or "r" hits almost every document.
const shortTermLength = 2

// ExtractSkills returns dictionary skills found in text followed by entries listed
// under a "Skills:" heading, deduplicated case-insensitively.
func (e *Extractor) ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	set := newOrderedSet()

	for _, term := range e.lex.SkillTerms() {
		if containsTerm(lower, strings.ToLower(term)) {
			set.add(term)
		}
	}

	for _, item := range sectionItems(skillsSectionPattern, text, 2, 50) {
		set.add(item)
	}

	return set.items()
}

// ExtractCertifications returns dictionary certifications found in text followed by
// entries listed under a "Certifications:" heading.
func (e *Extractor) ExtractCertifications(text string) []string {
	lower := strings.ToLower(text)
	set := newOrderedSet()

	for _, cert := range e.lex.Certifications {
		if containsTerm(lower, strings.ToLower(cert)) {
			set.add(cert)
		}
	}

	for _, item := range sectionItems(certSectionPattern, text, 3, 100) {
		set.add(item)
	}

	return set.items()
}

// sectionItems splits the first section line matched by pattern into items whose
// length lies strictly between minLen and maxLen.
func sectionItems(pattern *regexp.Regexp, text string, minLen, maxLen int) []string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var items []string
	for _, part := range listSeparatorPattern.Split(m[1], -1) {
		part = strings.TrimSpace(part)
		n := utf8.RuneCountInString(part)
		if n > minLen && n < maxLen {
			items = append(items, part)
		}
	}
	return items
}

// containsTerm reports whether term occurs in lower. Short terms must be
// delimited by non-alphanumeric characters on both sides.
func containsTerm(lower, term string) bool {
	if term == "" {
		return false
	}
	if utf8.RuneCountInString(term) > shortTermLength {
		return strings.Contains(lower, term)
	}

	offset := 0
	for {
		idx := strings.Index(lower[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(lower[:start])
		after, _ := utf8.DecodeRuneInString(lower[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		offset = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// orderedSet keeps first-seen order and casing, comparing case-insensitively
type orderedSet struct {
	seen  map[string]bool
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(item string) {
	key := strings.ToLower(item)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.order = append(s.order, item)
}

func (s *orderedSet) items() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
