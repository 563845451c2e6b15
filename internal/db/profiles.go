package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// SaveProfile inserts a profile, or updates it when profile.ID is set and owned by userID.
// It returns the profile ID.
func (db *DB) SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.ProfileInput) (uuid.UUID, error) {
	experiences, err := json.Marshal(nonNil(profile.Experiences))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal experiences: %w", err)
	}
	education, err := json.Marshal(nonNil(profile.Education))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	skills, err := json.Marshal(nonNil(profile.Skills))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	id := profile.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var saved uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, user_id, headline, summary, experiences, education, skills, industry, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			headline = $3, summary = $4, experiences = $5, education = $6, skills = $7,
			industry = $8, location = $9, updated_at = NOW()
		 WHERE profiles.user_id = $2
		 RETURNING id`,
		id, userID, profile.Headline, profile.Summary, experiences, education, skills, profile.Industry, profile.Location,
	).Scan(&saved)
	if err != nil {
		return uuid.Nil, notFound(err, "profile "+id.String())
	}
	return saved, nil
}

// GetProfile retrieves a profile by ID. It returns ErrNotFound when the profile does not exist.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileRecord, error) {
	var rec ProfileRecord
	var experiences, education, skills []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, headline, summary, experiences, education, skills, industry, location, created_at, updated_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(&rec.Profile.ID, &rec.UserID, &rec.Profile.Headline, &rec.Profile.Summary,
		&experiences, &education, &skills, &rec.Profile.Industry, &rec.Profile.Location,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "profile "+id.String())
	}

	if err := json.Unmarshal(experiences, &rec.Profile.Experiences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experiences: %w", err)
	}
	if err := json.Unmarshal(education, &rec.Profile.Education); err != nil {
		return nil, fmt.Errorf("failed to unmarshal education: %w", err)
	}
	if err := json.Unmarshal(skills, &rec.Profile.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	return &rec, nil
}

// DeleteProfile deletes a profile. Reports that referenced it keep their scores.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// nonNil replaces a nil slice with an empty one so JSONB columns hold [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
