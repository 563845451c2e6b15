package scoring

import (
	"github.com/jonathan/profile-optimizer/internal/analysis"
	"github.com/jonathan/profile-optimizer/internal/config"
)

// Aggregate combines the section scores, structure completeness and readability score into
// the overall score: a weighted mean rounded to the nearest integer and clamped to [0,100].
// The weights are validated to sum to 1 when the policy is loaded.
func Aggregate(w config.AggregationWeights, sections SectionScores, completeness, readability int) int {
	total := w.Headline*float64(sections.Headline.Score) +
		w.Summary*float64(sections.Summary.Score) +
		w.Experience*float64(sections.Experience.Score) +
		w.Skills*float64(sections.Skills.Score) +
		w.Structure*float64(completeness) +
		w.Readability*float64(readability)
	return analysis.ClampScore(total)
}
