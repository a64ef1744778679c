package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/zhengshuai-xiao/StorSync/internal"
)

// s3Backend talks to AWS S3 (or a custom endpoint) through the AWS SDK.
// Fetches write straight to the destination path: a transfer that dies
// midway leaves the bytes it managed to write, and a re-run with overwrite
// repairs them.
type s3Backend struct {
	client *s3.Client
	// bucket is the container verified by the last resolution. Rebound on
	// a different name, untouched while a batch is in flight.
	bucket string
}

func newS3Backend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	if cfg.Endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if service == s3.ServiceID {
					return aws.Endpoint{URL: cfg.Endpoint, SigningRegion: region}, nil
				}
				return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested")
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})
	return &s3Backend{client: client}, nil
}

func (b *s3Backend) Scheme() string { return SchemeS3 }

// resolveBucket verifies the bucket once per batch. Same name is a no-op so
// workers fetching from the resolved bucket never observe a rebind.
func (b *s3Backend) resolveBucket(ctx context.Context, container string) error {
	if b.bucket == container {
		return nil
	}
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(container)})
	if err != nil {
		return &ContainerResolutionError{Container: container, Err: err}
	}
	b.bucket = container
	return nil
}

func (b *s3Backend) ListObjects(ctx context.Context, container, prefix string) ([]ObjectInfo, error) {
	if err := b.resolveBucket(ctx, container); err != nil {
		return nil, err
	}

	var objects []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(container),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &ListingError{Container: container, Prefix: prefix, Err: err}
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Container: container,
				Key:       aws.ToString(obj.Key),
				Size:      aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

func (b *s3Backend) FetchObject(ctx context.Context, container, key, destPath string) error {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		return &FetchError{
			Kind:      classifyS3Error(err),
			Container: container,
			Key:       key,
			Dest:      destPath,
			Err:       err,
		}
	}

	if _, err := internal.WriteReadCloserToFile(resp.Body, destPath); err != nil {
		return &FetchError{Kind: FetchLocalIO, Container: container, Key: key, Dest: destPath, Err: err}
	}
	return nil
}

func classifyS3Error(err error) FetchErrKind {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return FetchNotFound
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return FetchNotFound
		case "AccessDenied", "Forbidden":
			return FetchAccessDenied
		}
	}
	return FetchUnknown
}
