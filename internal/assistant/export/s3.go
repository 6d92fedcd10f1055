// Package export uploads profile memory snapshots to S3-compatible storage
// and hands back a short-lived download link.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/finassist/internal/common"
)

// DefaultLinkTTL is how long a presigned download link stays valid.
const DefaultLinkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	LinkTTL      time.Duration
}

// Snapshot is the document written for one export.
type Snapshot struct {
	ProfileID  string            `json:"profile_id"`
	ExportedAt time.Time         `json:"exported_at"`
	Memory     map[string]string `json:"memory"`
}

type S3Exporter struct {
	bucket  string
	linkTTL time.Duration
	put     objectPutter
	presign getPresigner
	now     func() time.Time
}

// NewS3Exporter builds an exporter for o.Bucket. It returns
// common.ErrExportDisabled when no bucket is configured.
func NewS3Exporter(ctx context.Context, o Options) (*S3Exporter, error) {
	if o.Bucket == "" {
		return nil, common.ErrExportDisabled
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	ttl := o.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	return &S3Exporter{
		bucket:  o.Bucket,
		linkTTL: ttl,
		put:     client,
		presign: newS3PresignClient(client),
		now:     time.Now,
	}, nil
}

// ObjectKey is the storage key of a snapshot taken at t.
func ObjectKey(profileID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", profileID, t.UTC().Format("20060102T150405Z"))
}

// Export uploads facts for profileID and returns a presigned GET URL.
func (e *S3Exporter) Export(ctx context.Context, profileID string, facts map[string]string) (string, error) {
	if e == nil || e.bucket == "" {
		return "", common.ErrExportDisabled
	}

	at := e.now()
	if facts == nil {
		facts = map[string]string{}
	}
	body, err := json.MarshalIndent(Snapshot{ProfileID: profileID, ExportedAt: at.UTC(), Memory: facts}, "", "  ")
	if err != nil {
		return "", err
	}

	key := ObjectKey(profileID, at)
	bucket := e.bucket

	_, err = e.put.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	req, err := e.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(e.linkTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, nil
}
