// Package suggestions turns analyzer findings into a prioritized list of actionable suggestions.
package suggestions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/analysis"
	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// exampleKeywords is the number of top corpus keywords used in generated examples.
const exampleKeywords = 3

// Findings are the outputs of every analyzer for one profile.
type Findings struct {
	Profile     *types.ProfileInput
	JobTitle    string
	Structure   types.StructureAnalysisResult
	Keywords    *keywords.Analysis
	Corpus      *keywords.Corpus
	Readability types.ReadabilityAnalysisResult
	Sections    scoring.SectionScores
}

// Generator applies the suggestion rules of a policy.
type Generator struct {
	policy *config.Policy
}

// NewGenerator creates a generator for the given policy.
func NewGenerator(policy *config.Policy) *Generator {
	return &Generator{policy: policy}
}

// finding is a suggestion with the key of the finding that produced it.
type finding struct {
	key string
	types.Suggestion
}

// Generate returns suggestions sorted high, medium, low. Within a priority the discovery order
// is kept: structure, then keyword, then readability, then section score findings.
// Each finding produces at most one suggestion.
func (g *Generator) Generate(f Findings) []types.Suggestion {
	if f.Profile == nil {
		f.Profile = &types.ProfileInput{}
	}

	var found []finding
	found = append(found, g.structureFindings(f)...)
	found = append(found, g.keywordFindings(f)...)
	found = append(found, g.readabilityFindings(f)...)
	found = append(found, g.sectionFindings(f)...)

	seen := make(map[string]bool, len(found))
	out := make([]types.Suggestion, 0, len(found))
	for _, fd := range found {
		if seen[fd.key] {
			continue
		}
		seen[fd.key] = true
		out = append(out, fd.Suggestion)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

func (g *Generator) structureFindings(f Findings) []finding {
	missing := analysis.MissingSections(f.Structure)
	out := make([]finding, 0, len(missing))
	for _, section := range missing {
		fd := finding{key: "structure:" + section}
		switch section {
		case "headline":
			fd.Suggestion = types.Suggestion{
				Type:       types.SuggestionHeadline,
				Priority:   types.PriorityHigh,
				Suggestion: "Add a headline that states your role and core expertise.",
				Example:    g.headlineExample(f),
			}
		case "summary":
			fd.Suggestion = types.Suggestion{
				Type:       types.SuggestionSummary,
				Priority:   types.PriorityHigh,
				Suggestion: "Add a summary of 40 to 300 words describing your experience, strengths and goals.",
			}
		case "experience":
			fd.Suggestion = types.Suggestion{
				Type:       types.SuggestionExperience,
				Priority:   types.PriorityHigh,
				Suggestion: "Add your work experience with title, company and a description of your results.",
			}
		case "skills":
			fd.Suggestion = types.Suggestion{
				Type:       types.SuggestionSkills,
				Priority:   types.PriorityHigh,
				Suggestion: "Add skills so recruiters and search filters can match your profile.",
				Example:    strings.Join(g.topKeywords(f, 5), ", "),
			}
		case "education":
			// Education has no section of its own and is filed under experience.
			fd.Suggestion = types.Suggestion{
				Type:       types.SuggestionExperience,
				Priority:   types.PriorityHigh,
				Suggestion: "Add your education, including degrees, certifications or relevant courses.",
			}
		default:
			continue
		}
		out = append(out, fd)
	}
	return out
}

func (g *Generator) keywordFindings(f Findings) []finding {
	ka := f.Keywords
	if ka == nil || ka.Total == 0 {
		return nil
	}
	maxListed := g.policy.Keywords.MaxListed
	var out []finding

	if missing := ka.Result.MissingKeywords; len(missing) > 0 {
		priority := types.PriorityMedium
		if ka.Coverage() < g.policy.Suggestions.LowKeywordCoverage {
			priority = types.PriorityHigh
		}
		out = append(out, finding{"keywords:missing", types.Suggestion{
			Type:       types.SuggestionSkills,
			Priority:   priority,
			Suggestion: fmt.Sprintf("Add missing keywords to your skills and experience: %s.", keywords.JoinLimited(missing, maxListed)),
			Example:    strings.Join(limit(missing, maxListed), ", "),
		}})
	}

	if underused := ka.Result.UnderusedKeywords; len(underused) > 0 {
		out = append(out, finding{"keywords:underused", types.Suggestion{
			Type:       types.SuggestionExperience,
			Priority:   types.PriorityMedium,
			Suggestion: fmt.Sprintf("Mention these key terms more often in your experience, with concrete results: %s.", keywords.JoinLimited(underused, maxListed)),
			Example:    fmt.Sprintf("Used %s to cut processing time by 30%%.", underused[0]),
		}})
	}

	if len(ka.MissingIndustry) > 0 && f.Corpus != nil && f.Corpus.Industry != "" {
		out = append(out, finding{"keywords:industry", types.Suggestion{
			Type:       types.SuggestionSkills,
			Priority:   types.PriorityLow,
			Suggestion: fmt.Sprintf("Include standard %s terms where they apply: %s.", f.Corpus.Industry, keywords.JoinLimited(ka.MissingIndustry, maxListed)),
		}})
	}

	if f.Structure.HasHeadline && f.Sections.Headline.KeywordMatches == 0 {
		out = append(out, finding{"keywords:headline", types.Suggestion{
			Type:       types.SuggestionHeadline,
			Priority:   types.PriorityMedium,
			Suggestion: "Include your most important target keywords in your headline.",
			Example:    g.headlineExample(f),
		}})
	}
	return out
}

func (g *Generator) readabilityFindings(f Findings) []finding {
	var out []finding
	r := f.Readability
	sp := g.policy.Suggestions

	if f.Structure.HasSummary && r.SentenceCount > 0 {
		if r.ReadabilityScore < sp.LowReadabilityScore {
			out = append(out, finding{"readability:score", types.Suggestion{
				Type:       types.SuggestionSummary,
				Priority:   types.PriorityLow,
				Suggestion: fmt.Sprintf("Make your summary easier to scan (readability %d/100): use short, direct sentences.", r.ReadabilityScore),
			}})
		}
		if r.AvgSentenceLength > g.policy.Readability.TargetSentenceLength {
			out = append(out, finding{"readability:length", types.Suggestion{
				Type:     types.SuggestionSummary,
				Priority: types.PriorityLow,
				Suggestion: fmt.Sprintf("Shorten your sentences: they average %.0f words, aim for %.0f or fewer.",
					r.AvgSentenceLength, g.policy.Readability.TargetSentenceLength),
			}})
		}
		if r.ActiveVerbCount == 0 {
			out = append(out, finding{"readability:verbs", types.Suggestion{
				Type:       types.SuggestionSummary,
				Priority:   types.PriorityLow,
				Suggestion: fmt.Sprintf("Use action verbs such as %s.", strings.Join(limit(g.policy.ActiveVerbs, 3), ", ")),
			}})
		}
		if r.MetricsCount == 0 {
			out = append(out, finding{"readability:metrics", types.Suggestion{
				Type:       types.SuggestionSummary,
				Priority:   types.PriorityLow,
				Suggestion: "Quantify your impact with numbers, percentages or amounts.",
				Example:    "Grew monthly active users by 35% in 6 months.",
			}})
		}
		if r.JargonScore >= sp.HighJargonScore && len(r.JargonTerms) > 0 {
			out = append(out, finding{"readability:jargon", types.Suggestion{
				Type:       types.SuggestionSummary,
				Priority:   types.PriorityLow,
				Suggestion: fmt.Sprintf("Replace buzzwords with concrete facts: %s.", keywords.JoinLimited(r.JargonTerms, g.policy.Keywords.MaxListed)),
			}})
		}
	}

	for i, exp := range f.Profile.Experiences {
		label := experienceLabel(exp, i)
		if strings.TrimSpace(exp.Description) == "" {
			out = append(out, finding{fmt.Sprintf("experience:%d:description", i), types.Suggestion{
				Type:       types.SuggestionExperience,
				Priority:   types.PriorityMedium,
				Suggestion: fmt.Sprintf("Add a description for %s covering your responsibilities and results.", label),
			}})
			continue
		}
		if len(parsing.Normalize(exp.Description).Metrics) == 0 {
			out = append(out, finding{fmt.Sprintf("experience:%d:metrics", i), types.Suggestion{
				Type:       types.SuggestionExperience,
				Priority:   types.PriorityLow,
				Suggestion: fmt.Sprintf("Add measurable results to %s.", label),
				Example:    "Reduced deployment time from 2 hours to 15 minutes.",
			}})
		}
	}
	return out
}

func (g *Generator) sectionFindings(f Findings) []finding {
	cutoff := g.policy.Suggestions.LowSectionScore
	sections := g.policy.Sections
	var out []finding

	if f.Structure.HasHeadline && f.Sections.Headline.Score < cutoff {
		out = append(out, finding{"section:headline", types.Suggestion{
			Type:     types.SuggestionHeadline,
			Priority: types.PriorityMedium,
			Suggestion: fmt.Sprintf("Strengthen your headline: use %d to %d words naming your role, specialty and key skills.",
				sections.Headline.Band.Min, sections.Headline.Band.Max),
			Example: g.headlineExample(f),
		}})
	}
	if f.Structure.HasSummary && f.Sections.Summary.Score < cutoff {
		out = append(out, finding{"section:summary", types.Suggestion{
			Type:     types.SuggestionSummary,
			Priority: types.PriorityMedium,
			Suggestion: fmt.Sprintf("Strengthen your summary: write %d to %d words highlighting your achievements and target keywords.",
				sections.Summary.Band.Min, sections.Summary.Band.Max),
		}})
	}
	if f.Structure.HasExperience && f.Sections.Experience.Score < cutoff {
		out = append(out, finding{"section:experience", types.Suggestion{
			Type:     types.SuggestionExperience,
			Priority: types.PriorityMedium,
			Suggestion: fmt.Sprintf("Strengthen your experience entries: give each a title, company and %d to %d words of results.",
				sections.Experience.Band.Min, sections.Experience.Band.Max),
		}})
	}
	if f.Structure.HasSkills && f.Sections.Skills.Score < cutoff {
		out = append(out, finding{"section:skills", types.Suggestion{
			Type:       types.SuggestionSkills,
			Priority:   types.PriorityMedium,
			Suggestion: fmt.Sprintf("Strengthen your skills: list at least %d skills relevant to your target roles.", sections.Skills.Band.Min),
			Example:    strings.Join(g.topKeywords(f, 5), ", "),
		}})
	}
	return out
}

// headlineExample builds "<role> | <kw>, <kw>, <kw>" from the job title or latest experience.
func (g *Generator) headlineExample(f Findings) string {
	role := strings.TrimSpace(f.JobTitle)
	if role == "" && f.Profile != nil && len(f.Profile.Experiences) > 0 {
		role = strings.TrimSpace(f.Profile.Experiences[0].Title)
	}
	if role == "" {
		role = "Your Role"
	}
	top := g.topKeywords(f, exampleKeywords)
	if len(top) == 0 {
		return role + " | Core skill, Specialty, Industry"
	}
	return role + " | " + strings.Join(top, ", ")
}

func (g *Generator) topKeywords(f Findings, n int) []string {
	if f.Corpus == nil {
		return nil
	}
	return limit(f.Corpus.Terms(), n)
}

func experienceLabel(exp types.ExperienceEntry, index int) string {
	title, company := strings.TrimSpace(exp.Title), strings.TrimSpace(exp.Company)
	switch {
	case title != "" && company != "":
		return fmt.Sprintf("%s at %s", title, company)
	case title != "":
		return title
	case company != "":
		return "your role at " + company
	default:
		return fmt.Sprintf("experience entry %d", index+1)
	}
}

func limit(items []string, n int) []string {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
