package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	profile := &ProfileInput{Headline: "Backend Engineer", Skills: []string{"go"}}
	job := &JobContext{Title: "Go Developer"}

	first, err := Fingerprint("policy-a", profile, job)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	again, err := Fingerprint("policy-a", profile, job)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	changedProfile := &ProfileInput{Headline: "Backend Engineer", Skills: []string{"go", "sql"}}
	other, err := Fingerprint("policy-a", changedProfile, job)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	otherPolicy, err := Fingerprint("policy-b", profile, job)
	require.NoError(t, err)
	assert.NotEqual(t, first, otherPolicy)

	noJob, err := Fingerprint("policy-a", profile, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, noJob)
}
