package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/circleone/member-directory/internal/constants"
	"github.com/google/uuid"
)

// Host stores images and hands back their public URL.
type Host interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// S3Config points at an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Host is a Host backed by S3 or any compatible store (MinIO, R2).
type S3Host struct {
	client    objectAPI
	bucket    string
	publicURL string
	maxSide   int
}

// NewS3Host builds the client. Static keys are used when given, otherwise the
// default AWS credential chain applies.
func NewS3Host(ctx context.Context, cfg S3Config) (*S3Host, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Host(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Host(client objectAPI, bucket, publicURL string) *S3Host {
	return &S3Host{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSide:   constants.MaxImageDimension,
	}
}

// Upload scales the image and stores it under {folder}/{uuid}.{ext}.
func (h *S3Host) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, constants.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := Validate(filename, int64(len(raw))); err != nil {
		return "", err
	}

	img, err := Fit(bytes.NewReader(raw), Extension(filename), h.maxSide)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", strings.Trim(folder, "/"), uuid.New(), img.Ext)
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return h.publicURL + "/" + key, nil
}

// Delete removes an image previously returned by Upload. URLs that do not
// point into this host, such as pasted logo links, are ignored.
func (h *S3Host) Delete(ctx context.Context, url string) error {
	key, ok := h.KeyFromURL(url)
	if !ok {
		return nil
	}
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return nil
}

// KeyFromURL extracts the object key from a public URL of this host.
func (h *S3Host) KeyFromURL(url string) (string, bool) {
	if url == "" || h.publicURL == "" {
		return "", false
	}
	key, found := strings.CutPrefix(url, h.publicURL+"/")
	if !found || key == "" {
		return "", false
	}
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
