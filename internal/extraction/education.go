package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/cv-shortlister/internal/types"
)

var (
	yearsStatedPattern = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:-\s*\d+\s*)?years?\s+(?:of\s+)?experience`)
	yearRangePattern   = regexp.MustCompile(`(?i)(\d{4})\s*[-–—]\s*(\d{4}|present|current)`)

	phdPattern       = regexp.MustCompile(`(?i)\b(ph\.?d|doctorate|doctor of philosophy)\b`)
	mastersPattern   = regexp.MustCompile(`(?i)\b(master(?:'s)?\s+(?:of|degree)|msc|m\.sc|mba|m\.a|m\.phil)\b`)
	bachelorsPattern = regexp.MustCompile(`(?i)\b(bachelor(?:'s)?|bsc|b\.sc|b\.a|ba|undergraduate|degree)\b`)

	diplomaTerms     = []string{"diploma", "hnd", "associate"}
	certificateTerms = []string{"certificate", "certification"}
)

// exclusionWindow is how many bytes around a masters match are checked for
// phrases like "scrum master".
const exclusionWindow = 10

// ExtractYearsOfExperience returns the first explicitly stated number of years,
// or the summed length of employment date ranges. Nil means not found.
func (e *Extractor) ExtractYearsOfExperience(text string) *int {
	if m := yearsStatedPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			return &years
		}
	}

	total := 0
	for _, m := range yearRangePattern.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := e.referenceYear
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		if end < start {
			continue
		}
		total += end - start
	}

	if total <= 0 {
		return nil
	}
	return &total
}

// ExtractEducationLevel returns the single highest level detected in text.
func (e *Extractor) ExtractEducationLevel(text string) types.EducationLevel {
	lower := strings.ToLower(text)

	switch {
	case phdPattern.MatchString(lower):
		return types.EducationPhD
	case e.hasMastersDegree(lower):
		return types.EducationMasters
	case bachelorsPattern.MatchString(lower):
		return types.EducationBachelors
	case containsAny(lower, diplomaTerms):
		return types.EducationDiploma
	case containsAny(lower, certificateTerms):
		return types.EducationCertificate
	default:
		return types.EducationUnknown
	}
}

// hasMastersDegree reports whether any masters match lies outside an exclusion phrase.
func (e *Extractor) hasMastersDegree(lower string) bool {
	for _, loc := range mastersPattern.FindAllStringIndex(lower, -1) {
		from := max(0, loc[0]-exclusionWindow)
		to := min(len(lower), loc[1]+exclusionWindow)
		if !containsAny(lower[from:to], e.lex.MastersExclusions) {
			return true
		}
	}
	return false
}

// job descriptions name several acceptable levels, so these patterns are looser
var jobEducationPatterns = []struct {
	level   types.EducationLevel
	pattern *regexp.Regexp
}{
	{types.EducationPhD, regexp.MustCompile(`(?i)\b(phd|ph\.d|doctorate)\b`)},
	{types.EducationMasters, regexp.MustCompile(`(?i)\b(masters?|msc|m\.sc|mba)\b`)},
	{types.EducationBachelors, regexp.MustCompile(`(?i)\b(bachelors?|bsc|b\.sc|undergraduate|degree)\b`)},
	{types.EducationDiploma, regexp.MustCompile(`(?i)\b(diploma|hnd)\b`)},
}

// DetectEducationLevels returns every level mentioned in job text, highest first.
func DetectEducationLevels(text string) []types.EducationLevel {
	levels := []types.EducationLevel{}
	for _, p := range jobEducationPatterns {
		if p.pattern.MatchString(text) {
			levels = append(levels, p.level)
		}
	}
	return levels
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
