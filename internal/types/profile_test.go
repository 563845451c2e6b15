package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileInput_JSONUnmarshaling(t *testing.T) {
	jsonInput := `{
		"headline": "Senior Backend Engineer",
		"summary": "I build distributed systems.",
		"experiences": [
			{"title": "Engineer", "company": "Acme", "description": "Built APIs.", "start_date": "2020-01-01T00:00:00Z"}
		],
		"education": [{"school": "State University", "degree": "BSc"}],
		"skills": ["Go", "SQL"],
		"industry": "technology"
	}`

	var profile ProfileInput
	err := json.Unmarshal([]byte(jsonInput), &profile)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", profile.Headline)
	require.Len(t, profile.Experiences, 1)
	assert.Equal(t, "Acme", profile.Experiences[0].Company)
	require.NotNil(t, profile.Experiences[0].StartDate)
	assert.Nil(t, profile.Experiences[0].EndDate)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
	assert.Equal(t, "technology", profile.Industry)
}

func TestProfileInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile ProfileInput
		wantErr bool
	}{
		{
			name:    "empty profile is valid",
			profile: ProfileInput{},
		},
		{
			name:    "headline too long",
			profile: ProfileInput{Headline: strings.Repeat("a", 501)},
			wantErr: true,
		},
		{
			name:    "skill name too long",
			profile: ProfileInput{Skills: []string{strings.Repeat("x", 101)}},
			wantErr: true,
		},
		{
			name: "experience title too long",
			profile: ProfileInput{Experiences: []ExperienceEntry{
				{Title: strings.Repeat("t", 201)},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobContext_Validate_SalaryRange(t *testing.T) {
	low, high := 100000.0, 150000.0

	valid := JobContext{SalaryMin: &low, SalaryMax: &high}
	assert.NoError(t, valid.Validate())

	inverted := JobContext{SalaryMin: &high, SalaryMax: &low}
	assert.Error(t, inverted.Validate())
}

func TestProfileInput_FullText(t *testing.T) {
	profile := &ProfileInput{
		Headline: "Data Engineer",
		Summary:  "Pipelines.",
		Experiences: []ExperienceEntry{
			{Title: "Engineer", Description: "Built Spark jobs."},
		},
		Skills: []string{"spark", "airflow"},
	}

	text := profile.FullText()
	assert.Contains(t, text, "Data Engineer")
	assert.Contains(t, text, "Built Spark jobs.")
	assert.Contains(t, text, "spark, airflow")

	var nilProfile *ProfileInput
	assert.Empty(t, nilProfile.FullText())
}

func TestJobContext_IsEmpty(t *testing.T) {
	var nilJob *JobContext
	assert.True(t, nilJob.IsEmpty())
	assert.True(t, (&JobContext{Title: "  "}).IsEmpty())
	assert.False(t, (&JobContext{Skills: []string{"go"}}).IsEmpty())
}
