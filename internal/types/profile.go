// Package types provides type definitions for structured data used throughout the profile optimizer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProfileInput is a professional profile (LinkedIn-style profile or resume content).
// Every field is optional; an empty string or empty slice means the section is absent.
type ProfileInput struct {
	ID          uuid.UUID         `json:"id,omitempty"`
	Headline    string            `json:"headline,omitempty" validate:"max=500"`
	Summary     string            `json:"summary,omitempty" validate:"max=10000"`
	Experiences []ExperienceEntry `json:"experiences,omitempty" validate:"max=100,dive"`
	Education   []EducationEntry  `json:"education,omitempty" validate:"max=50,dive"`
	Skills      []string          `json:"skills,omitempty" validate:"max=500,dive,max=100"`
	Industry    string            `json:"industry,omitempty" validate:"max=100"`
	Location    string            `json:"location,omitempty" validate:"max=200"`
}

// ExperienceEntry is a single position. Entries are kept in the order supplied by the caller.
type ExperienceEntry struct {
	Title       string     `json:"title" validate:"max=200"`
	Company     string     `json:"company" validate:"max=200"`
	Description string     `json:"description,omitempty" validate:"max=10000"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// EducationEntry is a single education record.
type EducationEntry struct {
	School    string     `json:"school" validate:"max=200"`
	Degree    string     `json:"degree,omitempty" validate:"max=200"`
	Field     string     `json:"field,omitempty" validate:"max=200"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// JobContext is an optional target job posting.
type JobContext struct {
	ID           uuid.UUID `json:"id,omitempty"`
	Title        string    `json:"title,omitempty" validate:"max=300"`
	Company      string    `json:"company,omitempty" validate:"max=300"`
	Description  string    `json:"description,omitempty" validate:"max=50000"`
	Requirements string    `json:"requirements,omitempty" validate:"max=50000"`
	Skills       []string  `json:"skills,omitempty" validate:"max=500,dive,max=100"`
	SalaryMin    *float64  `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax    *float64  `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
}

// Validate validates the ProfileInput using the validator.
func (p *ProfileInput) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Validate validates the JobContext using the validator.
func (j *JobContext) Validate() error {
	validate := validator.New()
	if err := validate.Struct(j); err != nil {
		return err
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMax < *j.SalaryMin {
		return fmt.Errorf("salary_max (%.2f) must not be below salary_min (%.2f)", *j.SalaryMax, *j.SalaryMin)
	}
	return nil
}

// ExperienceText joins all experience titles and descriptions.
func (p *ProfileInput) ExperienceText() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for _, exp := range p.Experiences {
		sb.WriteString(exp.Title)
		sb.WriteString(". ")
		sb.WriteString(exp.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FullText returns every free-text field of the profile joined together.
func (p *ProfileInput) FullText() string {
	if p == nil {
		return ""
	}
	parts := []string{p.Headline, p.Summary, p.ExperienceText(), strings.Join(p.Skills, ", ")}
	return strings.Join(parts, "\n")
}

// CorpusText returns the job text used as the source of target keywords.
func (j *JobContext) CorpusText() string {
	if j == nil {
		return ""
	}
	parts := []string{j.Title, j.Description, j.Requirements, strings.Join(j.Skills, ", ")}
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether the job context carries no text at all.
func (j *JobContext) IsEmpty() bool {
	return j == nil || strings.TrimSpace(j.CorpusText()) == ""
}
