package parsing

import "strings"

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":       "go",
	"go lang":      "go",
	"js":           "javascript",
	"ts":           "typescript",
	"k8s":          "kubernetes",
	"react.js":     "react",
	"reactjs":      "react",
	"vue.js":       "vue",
	"vuejs":        "vue",
	"nodejs":       "node.js",
	"node":         "node.js",
	"postgres":     "postgresql",
	"psql":         "postgresql",
	"ml":           "machine learning",
	"gcp":          "google cloud",
	"aws cloud":    "aws",
	"ci/cd":        "ci cd",
	"c sharp":      "c#",
	"dotnet":       ".net",
	"py":           "python",
	"tf":           "terraform",
	"amazon s3":    "s3",
	"mongo":        "mongodb",
	"sklearn":      "scikit-learn",
	"pyspark":      "spark",
	"apache spark": "spark",
}

// NormalizeSkillName normalizes a skill name to its canonical lower-case form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(skillName)), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillNormalizations[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills canonicalizes skill names and removes empty entries and duplicates.
// The first occurrence of each skill keeps its position.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := NormalizeSkillName(skill)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
