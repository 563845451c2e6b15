package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// SaveJob inserts a job posting and returns its ID.
func (db *DB) SaveJob(ctx context.Context, userID uuid.UUID, job *types.JobContext) (uuid.UUID, error) {
	skills, err := json.Marshal(nonNil(job.Skills))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job skills: %w", err)
	}

	id := job.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var saved uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (id, user_id, title, company, description, requirements, skills, salary_min, salary_max)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		id, userID, job.Title, job.Company, job.Description, job.Requirements, skills, job.SalaryMin, job.SalaryMax,
	).Scan(&saved)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save job posting: %w", err)
	}
	return saved, nil
}

// GetJob retrieves a job posting by ID. It returns ErrNotFound when the job does not exist.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*JobRecord, error) {
	var rec JobRecord
	var skills []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, company, description, requirements, skills, salary_min, salary_max, created_at
		 FROM job_postings WHERE id = $1`,
		id,
	).Scan(&rec.Job.ID, &rec.UserID, &rec.Job.Title, &rec.Job.Company, &rec.Job.Description,
		&rec.Job.Requirements, &skills, &rec.Job.SalaryMin, &rec.Job.SalaryMax, &rec.CreatedAt)
	if err != nil {
		return nil, notFound(err, "job posting "+id.String())
	}

	if err := json.Unmarshal(skills, &rec.Job.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job skills: %w", err)
	}
	return &rec, nil
}
