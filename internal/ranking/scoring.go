// Package ranking scores candidate profiles against job criteria and orders the results.
package ranking

import (
	"strings"

	"github.com/jonathan/cv-shortlister/internal/types"
)

// Split of the skills sub-score between required and preferred skills
const (
	requiredSkillsShare  = 0.7
	preferredSkillsShare = 0.3
)

// Neutral sub-scores used when the candidate's value is unknown
const (
	unknownExperienceScore = 0.5
	unknownEducationScore  = 0.5
)

// experienceSaturation caps the experience ratio at twice the minimum
const experienceSaturation = 2.0

// Fallback scoring points
const (
	fallbackSkillsPoints = 50.0
	fallbackCVPoints     = 25.0
	fallbackLetterPoints = 25.0
)

// maxScore is the upper bound of every total score
const maxScore = 100.0

// skillSet lower-cases values into a set for exact membership tests
func skillSet(values ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range values {
		for _, v := range list {
			set[strings.ToLower(strings.TrimSpace(v))] = true
		}
	}
	return set
}

// computeSkillsScore blends the required and preferred match fractions.
// An empty list gives its full share; a candidate with no skills scores 0.
func computeSkillsScore(candidateSkills, required, preferred []string) float64 {
	if len(candidateSkills) == 0 {
		return 0.0
	}
	have := skillSet(candidateSkills)
	return requiredSkillsShare*matchFraction(have, required) +
		preferredSkillsShare*matchFraction(have, preferred)
}

// matchFraction returns the fraction of wanted present in have, 1.0 for an empty list
func matchFraction(have map[string]bool, wanted []string) float64 {
	if len(wanted) == 0 {
		return 1.0
	}
	matched := 0
	for _, w := range wanted {
		if have[strings.ToLower(strings.TrimSpace(w))] {
			matched++
		}
	}
	return float64(matched) / float64(len(wanted))
}

// matchedSkills lists the wanted skills present in have, in wanted order
func matchedSkills(have map[string]bool, wanted []string, limit int) []string {
	var matched []string
	for _, w := range wanted {
		if len(matched) == limit {
			break
		}
		if have[strings.ToLower(strings.TrimSpace(w))] {
			matched = append(matched, w)
		}
	}
	return matched
}

// computeExperienceScore rewards experience above the minimum up to saturation
// and gives linear partial credit below it.
func computeExperienceScore(years *int, minimum int) float64 {
	if years == nil {
		return unknownExperienceScore
	}
	if minimum <= 0 {
		return 1.0
	}

	ratio := float64(*years) / float64(minimum)
	if *years >= minimum {
		return min(min(ratio, experienceSaturation)/experienceSaturation, 1.0)
	}
	return max(ratio, 0.0)
}

// computeKeywordScore is the fraction of keywords found among the candidate's
// skills and certifications. Matching is exact after lower-casing.
func computeKeywordScore(profile *types.Profile, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1.0
	}
	return matchFraction(skillSet(profile.Skills, profile.Certifications), keywords)
}

// computeFallbackScore scores an application without usable CV features from the
// free-text skills summary and document completeness.
func computeFallbackScore(in FallbackInput) float64 {
	score := 0.0

	if len(in.JobSkills) > 0 && in.SkillsSummary != "" {
		summary := strings.ToLower(in.SkillsSummary)
		matched := 0
		for _, skill := range in.JobSkills {
			s := strings.ToLower(strings.TrimSpace(skill))
			if s != "" && strings.Contains(summary, s) {
				matched++
			}
		}
		score += fallbackSkillsPoints * float64(matched) / float64(len(in.JobSkills))
	}

	if in.HasCV {
		score += fallbackCVPoints
	}
	if in.HasCoverLetter {
		score += fallbackLetterPoints
	}

	return min(score, maxScore)
}
