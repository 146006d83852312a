// Package storage keeps recipe images in an S3 bucket.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidDataURI is returned for data URIs that are not base64 encoded images.
var ErrInvalidDataURI = errors.New("invalid image data URI")

// putObjectAPI is the part of the S3 client the store uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3 bucket details.
type Config struct {
	Bucket string
	Region string
	// PublicBaseURL prefixes object keys in returned URLs.
	// Default: https://<bucket>.s3.amazonaws.com
	PublicBaseURL string
	// Prefix is the key prefix under which images are written. Default: recipes/images
	Prefix string
}

// S3Store uploads images to S3 and returns their public URL.
type S3Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	prefix  string
}

// NewS3Store loads the AWS configuration from the environment or shared config and builds a store.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newS3Store(s3.NewFromConfig(awsCfg), cfg), nil
}

func newS3Store(client putObjectAPI, cfg Config) *S3Store {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "recipes/images"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL, prefix: prefix}
}

// Save uploads data under a fresh key and returns its public URL.
func (s *S3Store) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s%s", s.prefix, uuid.New().String(), extension(contentType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	url := s.baseURL + "/" + key
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("uploaded recipe image")
	return url, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// IsDataURI reports whether s is an inline data URI rather than an image reference.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI decodes a "data:<type>;base64,<payload>" image.
func DecodeDataURI(s string) ([]byte, string, error) {
	if !IsDataURI(s) {
		return nil, "", ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", ErrInvalidDataURI
	}
	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidDataURI
	}
	return data, contentType, nil
}
