package reportcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/types"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleReport(score int) *types.AnalysisReport {
	return &types.AnalysisReport{
		OverallScore: score,
		KeywordAnalysis: types.KeywordAnalysisResult{
			MissingKeywords:   []string{"go"},
			UnderusedKeywords: []string{},
			IndustryKeywords:  []string{},
			Suggestions:       []string{},
		},
		Suggestions: []types.Suggestion{{Type: types.SuggestionHeadline, Priority: types.PriorityHigh, Suggestion: "Add a headline."}},
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "fp1", sampleReport(42)))
	got, ok, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleReport(42), got)

	require.NoError(t, c.Put(ctx, "fp1", sampleReport(77)))
	got, _, err = c.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, 77, got.OverallScore)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_FingerprintChangesWithInput(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	profile := &types.ProfileInput{Headline: "Engineer"}
	fp, err := types.Fingerprint("policy", profile, nil)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, fp, sampleReport(10)))

	profile.Headline = "Senior Engineer"
	changed, err := types.Fingerprint("policy", profile, nil)
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, changed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Prune(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, c.Put(ctx, "old", sampleReport(1)))
	c.now = func() time.Time { return now }
	require.NoError(t, c.Put(ctx, "fresh", sampleReport(2)))

	removed, err := c.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
