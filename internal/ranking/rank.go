package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/cv-shortlister/internal/types"
)

// maxRationaleSkills caps the matched skills listed in a rationale
const maxRationaleSkills = 5

// Breakdown holds the four weighted sub-scores, each in [0,1]
type Breakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Keywords   float64 `json:"keywords"`
}

// FallbackInput carries the application facts used when no CV features exist.
type FallbackInput struct {
	SkillsSummary  string
	JobSkills      []string
	HasCV          bool
	HasCoverLetter bool
	// Reason is why CV features are unavailable, if known.
	Reason string
}

// Result is the outcome of scoring one application
type Result struct {
	Score        float64    `json:"score"`
	Rationale    string     `json:"rationale"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
	UsedFallback bool       `json:"used_fallback"`
}

// Score combines a profile with criteria into a 0-100 score and rationale.
// A nil profile, or one without skills, is scored from fb instead.
// Identical inputs always produce identical output.
func Score(profile *types.Profile, criteria *types.JobCriteria, fb FallbackInput) Result {
	if !profile.HasSkills() {
		score := computeFallbackScore(fb)
		if fb.Reason == "" && profile != nil {
			fb.Reason = profile.Error
		}
		return Result{
			Score:        score,
			Rationale:    fallbackRationale(score, fb.Reason),
			UsedFallback: true,
		}
	}

	b := Breakdown{
		Skills:     computeSkillsScore(profile.Skills, criteria.RequiredSkills, criteria.PreferredSkills),
		Experience: computeExperienceScore(profile.YearsOfExperience, criteria.MinimumYearsExperience),
		Education:  computeEducationScore(profile.EducationLevel, criteria.RequiredEducationLevels),
		Keywords:   computeKeywordScore(profile, criteria.Keywords),
	}

	w := criteria.Weights
	total := (b.Skills*w.Skills +
		b.Experience*w.Experience +
		b.Education*w.Education +
		b.Keywords*w.Keywords) * 100
	total = min(max(total, 0.0), maxScore)

	return Result{
		Score:     total,
		Rationale: profileRationale(total, profile, criteria),
		Breakdown: &b,
	}
}

func fallbackRationale(score float64, reason string) string {
	if reason != "" {
		return fmt.Sprintf("Score: %.1f/100. CV parsing unavailable (%s) - basic scoring used.", score, reason)
	}
	return fmt.Sprintf("Score: %.1f/100. CV parsing unavailable - basic scoring used.", score)
}

func profileRationale(score float64, profile *types.Profile, criteria *types.JobCriteria) string {
	parts := []string{fmt.Sprintf("Score: %.1f/100.", score)}

	matched := matchedSkills(skillSet(profile.Skills), criteria.RequiredSkills, maxRationaleSkills)
	if len(matched) > 0 {
		parts = append(parts, fmt.Sprintf("Matched: %s.", strings.Join(matched, ", ")))
	}

	if profile.YearsOfExperience != nil {
		parts = append(parts, fmt.Sprintf("%d years exp.", *profile.YearsOfExperience))
	}

	if profile.EducationLevel.Rank() > 0 {
		parts = append(parts, profile.EducationLevel.Label()+".")
	}

	if profile.Status == types.StatusPartial {
		parts = append(parts, fmt.Sprintf("Partial extraction: %s.", strings.TrimSuffix(profile.Error, ".")))
	}

	return strings.Join(parts, " ")
}

// RankResults orders results by score, highest first, keeping the input order for
// equal scores. Ranks are assigned from 1 and the first min(topN, len) entries are
// marked shortlisted; topN <= 0 marks none.
func RankResults(results []types.ShortlistResult, topN int) []types.ShortlistResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
		results[i].Shortlisted = i < topN
	}
	return results
}
