// Package export writes analysis reports to S3-compatible object storage (Cloudflare R2 or AWS S3).
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// ErrNotConfigured is returned when no bucket credentials were supplied.
var ErrNotConfigured = errors.New("report export is not configured")

// ObjectPutter is the subset of the S3 client used by the exporter.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter uploads reports as indented JSON objects.
type Exporter struct {
	client ObjectPutter
	bucket string
	logger *zap.Logger
}

// NewExporter creates an exporter on an existing client.
func NewExporter(client ObjectPutter, bucket string, log *zap.Logger) *Exporter {
	return &Exporter{client: client, bucket: bucket, logger: logger.OrNop(log)}
}

// New builds an S3 client from the storage config. An account ID selects the R2 endpoint
// https://<account>.r2.cloudflarestorage.com; an explicit endpoint overrides it.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Exporter, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	endpoint := Endpoint(cfg)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewExporter(client, cfg.Bucket, log), nil
}

// Endpoint returns the object storage endpoint for the config, or "" for the AWS default.
func Endpoint(cfg config.StorageConfig) string {
	switch {
	case cfg.Endpoint != "":
		return cfg.Endpoint
	case cfg.AccountID != "":
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	default:
		return ""
	}
}

// ObjectKey is the key a report is stored under.
func ObjectKey(reportID uuid.UUID) string {
	return fmt.Sprintf("reports/%s.json", reportID)
}

// ExportReport uploads the report and returns its object key.
func (e *Exporter) ExportReport(ctx context.Context, reportID uuid.UUID, report *types.AnalysisReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("export report %s: report is required", reportID)
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key := ObjectKey(reportID)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", reportID, err)
	}

	e.logger.Info("report exported",
		zap.String(logger.FieldReportID, reportID.String()),
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)),
	)
	return key, nil
}
