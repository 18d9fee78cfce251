package ranking

import "github.com/jonathan/cv-shortlister/internal/types"

// computeEducationScore gives full credit when the candidate meets any required
// level, otherwise the ratio of the candidate's rank to the highest required rank.
func computeEducationScore(candidate types.EducationLevel, required []types.EducationLevel) float64 {
	if candidate.Rank() == 0 {
		return unknownEducationScore
	}
	if len(required) == 0 {
		return 1.0
	}

	candRank := candidate.Rank()
	maxReqRank := 0
	for _, level := range required {
		reqRank := level.Rank()
		if candRank >= reqRank {
			return 1.0
		}
		maxReqRank = max(maxReqRank, reqRank)
	}

	return max(0.0, float64(candRank)/float64(maxReqRank))
}
