package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

const reportColumns = `id, user_id, profile_id, job_id, title, fingerprint,
	overall_score, headline_score, summary_score, experience_score, skills_score, readability_score,
	keyword_analysis, structure_analysis,
	headline_suggestions, summary_suggestions, experience_suggestions, skills_suggestions,
	generated_at, created_at`

// SaveReport persists a report with its suggestions split by section and returns the stored record.
func (db *DB) SaveReport(ctx context.Context, input *ReportCreateInput) (*ReportRecord, error) {
	if input == nil || input.Report == nil {
		return nil, fmt.Errorf("failed to save report: report is required")
	}
	r := input.Report

	keywordJSON, err := json.Marshal(r.KeywordAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keyword analysis: %w", err)
	}
	structureJSON, err := json.Marshal(r.StructureAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal structure analysis: %w", err)
	}
	split, err := splitSuggestions(r.Suggestions)
	if err != nil {
		return nil, err
	}

	rec := &ReportRecord{
		UserID:      input.UserID,
		ProfileID:   input.ProfileID,
		JobID:       input.JobID,
		Title:       input.Title,
		Fingerprint: input.Fingerprint,
		Report:      *r,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO analysis_reports (user_id, profile_id, job_id, title, fingerprint,
			overall_score, headline_score, summary_score, experience_score, skills_score, readability_score,
			keyword_analysis, structure_analysis,
			headline_suggestions, summary_suggestions, experience_suggestions, skills_suggestions, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id, created_at`,
		input.UserID, input.ProfileID, input.JobID, input.Title, input.Fingerprint,
		r.OverallScore, r.HeadlineScore, r.SummaryScore, r.ExperienceScore, r.SkillsScore, r.ReadabilityScore,
		keywordJSON, structureJSON,
		split[types.SuggestionHeadline], split[types.SuggestionSummary],
		split[types.SuggestionExperience], split[types.SuggestionSkills],
		r.GeneratedAt,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return rec, nil
}

// GetReport retrieves a report by ID. It returns ErrNotFound when the report does not exist.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*ReportRecord, error) {
	var rec ReportRecord
	var keywordJSON, structureJSON []byte
	var headline, summary, experience, skills []byte

	err := db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM analysis_reports WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.ProfileID, &rec.JobID, &rec.Title, &rec.Fingerprint,
		&rec.Report.OverallScore, &rec.Report.HeadlineScore, &rec.Report.SummaryScore,
		&rec.Report.ExperienceScore, &rec.Report.SkillsScore, &rec.Report.ReadabilityScore,
		&keywordJSON, &structureJSON,
		&headline, &summary, &experience, &skills,
		&rec.Report.GeneratedAt, &rec.CreatedAt)
	if err != nil {
		return nil, notFound(err, "report "+id.String())
	}

	if err := json.Unmarshal(keywordJSON, &rec.Report.KeywordAnalysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keyword analysis: %w", err)
	}
	if err := json.Unmarshal(structureJSON, &rec.Report.StructureAnalysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal structure analysis: %w", err)
	}
	suggestions, err := mergeSuggestions(headline, summary, experience, skills)
	if err != nil {
		return nil, err
	}
	rec.Report.Suggestions = suggestions
	return &rec, nil
}

// storedSuggestion is a suggestion as kept in a per-section column, tagged with its
// position in the report so the original order survives the split.
type storedSuggestion struct {
	Position int `json:"position"`
	types.Suggestion
}

// splitSuggestions encodes suggestions into one JSON array per section.
func splitSuggestions(suggestions []types.Suggestion) (map[types.SuggestionType][]byte, error) {
	grouped := make(map[types.SuggestionType][]storedSuggestion, len(types.SuggestionTypes))
	for _, t := range types.SuggestionTypes {
		grouped[t] = make([]storedSuggestion, 0)
	}
	for i, s := range suggestions {
		grouped[s.Type] = append(grouped[s.Type], storedSuggestion{Position: i, Suggestion: s})
	}

	split := make(map[types.SuggestionType][]byte, len(types.SuggestionTypes))
	for _, t := range types.SuggestionTypes {
		b, err := json.Marshal(grouped[t])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s suggestions: %w", t, err)
		}
		split[t] = b
	}
	return split, nil
}

// mergeSuggestions rebuilds the report suggestion list from the per-section columns
// in the order the report was produced.
func mergeSuggestions(columns ...[]byte) ([]types.Suggestion, error) {
	stored := make([]storedSuggestion, 0)
	for _, col := range columns {
		if len(col) == 0 {
			continue
		}
		var part []storedSuggestion
		if err := json.Unmarshal(col, &part); err != nil {
			return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
		}
		stored = append(stored, part...)
	}
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Position < stored[j].Position
	})

	out := make([]types.Suggestion, len(stored))
	for i, s := range stored {
		out[i] = s.Suggestion
	}
	return out, nil
}

// ListReports returns one page of reports matching the filters. A nil userID lists every user's reports.
func (db *DB) ListReports(ctx context.Context, userID *uuid.UUID, filters types.ReportFilters) (*ReportList, error) {
	f, err := filters.Normalize()
	if err != nil {
		return nil, err
	}

	countQuery, countArgs := buildCountReportsQuery(userID, f)
	var total int
	if err := db.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	query, args := buildListReportsQuery(userID, f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	list := &ReportList{Reports: make([]ReportSummary, 0), Total: total}
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProfileID, &s.JobID, &s.Title,
			&s.OverallScore, &s.ReadabilityScore, &s.GeneratedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		list.Reports = append(list.Reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return list, nil
}

// DeleteReport deletes a report by ID.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analysis_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

// reportWhere appends the filter conditions shared by the list and count queries.
// Only fields of the typed filter struct reach the query, always as bind parameters.
func reportWhere(userID *uuid.UUID, f types.ReportFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if userID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *userID)
		argNum++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND title ILIKE $%d", argNum)
		args = append(args, "%"+f.Search+"%")
		argNum++
	}
	if lo, hi, ok := f.ScoreFilter.ScoreRange(); ok {
		where += fmt.Sprintf(" AND overall_score >= $%d AND overall_score < $%d", argNum, argNum+1)
		args = append(args, lo, hi)
	}
	return where, args
}

func buildCountReportsQuery(userID *uuid.UUID, f types.ReportFilters) (string, []any) {
	where, args := reportWhere(userID, f)
	return "SELECT COUNT(*) FROM analysis_reports" + where, args
}

func buildListReportsQuery(userID *uuid.UUID, f types.ReportFilters) (string, []any) {
	where, args := reportWhere(userID, f)
	argNum := len(args) + 1

	query := `SELECT id, user_id, profile_id, job_id, title, overall_score, readability_score, generated_at, created_at
		FROM analysis_reports` + where
	query += " ORDER BY " + orderClause(f.SortBy)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, f.Limit, f.Offset)
	return query, args
}

func orderClause(sortBy types.SortBy) string {
	switch sortBy {
	case types.SortOldest:
		return "created_at ASC, id ASC"
	case types.SortScoreDesc:
		return "overall_score DESC, created_at DESC, id ASC"
	case types.SortScoreAsc:
		return "overall_score ASC, created_at DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}
