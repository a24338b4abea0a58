package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"alfredoptarigan/resume-screener/internal/models"
)

// DocumentSource supplies the resumes of one screening run.
type DocumentSource interface {
	Load(ctx context.Context) ([]models.Document, error)
}

// DirectorySource reads resumes from a local directory, in file name order.
// Subdirectories and files with other extensions are ignored. A file that
// cannot be read is kept as a failed Document.
type DirectorySource struct {
	Dir         string
	MaxFileSize int64
}

func (s DirectorySource) Load(ctx context.Context) ([]models.Document, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isAllowedFile(entry.Name()) {
			continue
		}

		docs = append(docs, s.read(entry.Name()))
	}

	return docs, nil
}

func (s DirectorySource) read(name string) models.Document {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return models.Failed(name, fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	content, err := readLimited(f, s.MaxFileSize)
	if err != nil {
		return models.Failed(name, err)
	}
	return models.Document{Name: name, Content: content}
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads resumes stored under a key prefix of an S3-compatible bucket.
type S3Source struct {
	client      S3API
	bucket      string
	prefix      string
	maxFileSize int64
}

func NewS3Source(client S3API, bucket, prefix string, maxFileSize int64) *S3Source {
	return &S3Source{
		client:      client,
		bucket:      bucket,
		prefix:      prefix,
		maxFileSize: maxFileSize,
	}
}

func (s *S3Source) Load(ctx context.Context) ([]models.Document, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var docs []models.Document
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isAllowedFile(key) {
				continue
			}

			content, err := s.download(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				docs = append(docs, models.Failed(path.Base(key), err))
				continue
			}

			docs = append(docs, models.Document{Name: path.Base(key), Content: content})
		}
	}

	return docs, nil
}

func (s *S3Source) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	content, err := readLimited(out.Body, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	return content, nil
}

type S3ClientOptions struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS S3 or, when Endpoint is set, an
// S3-compatible store such as Cloudflare R2.
func NewS3Client(ctx context.Context, opts S3ClientOptions) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
