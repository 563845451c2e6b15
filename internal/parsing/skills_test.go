package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to go", "Golang", "go"},
		{"GOLANG to go", "GOLANG", "go"},
		{"go lang with extra spaces", "  go   lang ", "go"},
		{"JS to javascript", "JS", "javascript"},
		{"K8s to kubernetes", "k8s", "kubernetes"},
		{"reactjs to react", "ReactJS", "react"},
		{"postgres to postgresql", "Postgres", "postgresql"},
		{"unknown skill lower-cased", "Distributed Systems", "distributed systems"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeSkillName(tt.input)
			assert.Equal(t, tt.expected, result, "should normalize skill name correctly")
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	skills := NormalizeSkills([]string{"Go", "golang", "", "SQL", "Kubernetes", "k8s", "sql "})
	assert.Equal(t, []string{"go", "sql", "kubernetes"}, skills)

	assert.Empty(t, NormalizeSkills(nil))
}
