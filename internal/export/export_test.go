package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/types"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestExportReport(t *testing.T) {
	putter := &fakePutter{}
	exporter := NewExporter(putter, "reports-bucket", nil)
	reportID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	report := &types.AnalysisReport{OverallScore: 71, Suggestions: []types.Suggestion{}}

	key, err := exporter.ExportReport(context.Background(), reportID, report)
	require.NoError(t, err)

	assert.Equal(t, "reports/22222222-2222-2222-2222-222222222222.json", key)
	assert.Equal(t, "reports-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))

	var decoded types.AnalysisReport
	require.NoError(t, json.Unmarshal(putter.body, &decoded))
	assert.Equal(t, 71, decoded.OverallScore)
	assert.Contains(t, string(putter.body), "\n  \"overall_score\": 71")
}

func TestExportReport_Errors(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	exporter := NewExporter(putter, "bucket", nil)

	_, err := exporter.ExportReport(context.Background(), uuid.New(), &types.AnalysisReport{})
	assert.ErrorContains(t, err, "access denied")

	_, err = exporter.ExportReport(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"r2 account", config.StorageConfig{AccountID: "abc123"}, "https://abc123.r2.cloudflarestorage.com"},
		{"explicit endpoint wins", config.StorageConfig{AccountID: "abc123", Endpoint: "http://localhost:9000"}, "http://localhost:9000"},
		{"aws default", config.StorageConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Endpoint(tt.cfg))
		})
	}
}

func TestNew_NotConfigured(t *testing.T) {
	exporter, err := New(context.Background(), config.StorageConfig{Bucket: "b"}, nil)
	assert.Nil(t, exporter)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
