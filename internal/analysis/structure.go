// Package analysis provides the structure and readability analyzers of the scoring engine.
package analysis

import (
	"math"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// requiredSections is the number of presence flags in a StructureAnalysisResult.
const requiredSections = 5

// AnalyzeStructure checks which required profile sections are present.
// Headline and summary must be non-blank; experience, skills and education must be non-empty.
func AnalyzeStructure(profile *types.ProfileInput) types.StructureAnalysisResult {
	if profile == nil {
		return types.StructureAnalysisResult{}
	}

	result := types.StructureAnalysisResult{
		HasHeadline:   strings.TrimSpace(profile.Headline) != "",
		HasSummary:    strings.TrimSpace(profile.Summary) != "",
		HasExperience: len(profile.Experiences) > 0,
		HasSkills:     len(profile.Skills) > 0,
		HasEducation:  len(profile.Education) > 0,
	}
	result.CompletenessScore = CompletenessScore(result)
	return result
}

// CompletenessScore returns the percentage of present sections, rounded to the nearest integer.
func CompletenessScore(s types.StructureAnalysisResult) int {
	present := 0
	for _, flag := range []bool{s.HasHeadline, s.HasSummary, s.HasExperience, s.HasSkills, s.HasEducation} {
		if flag {
			present++
		}
	}
	return int(math.Round(float64(present) * 100 / requiredSections))
}

// MissingSections lists the absent sections in a fixed order.
func MissingSections(s types.StructureAnalysisResult) []string {
	missing := make([]string, 0, requiredSections)
	if !s.HasHeadline {
		missing = append(missing, "headline")
	}
	if !s.HasSummary {
		missing = append(missing, "summary")
	}
	if !s.HasExperience {
		missing = append(missing, "experience")
	}
	if !s.HasSkills {
		missing = append(missing, "skills")
	}
	if !s.HasEducation {
		missing = append(missing, "education")
	}
	return missing
}
