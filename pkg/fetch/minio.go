package fetch

import (
	"context"
	"errors"
	"fmt"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/zhengshuai-xiao/StorSync/internal"
)

// minioBackend serves MinIO and other S3-compatible endpoints through
// minio-go. Like the native S3 backend it writes straight to the
// destination path.
type minioBackend struct {
	client *miniogo.Client
	// bucket is the container verified by the last resolution.
	bucket string
}

func newMinIOBackend(_ context.Context, cfg BackendConfig) (Backend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio backend requires an endpoint")
	}

	opts := &miniogo.Options{Secure: cfg.UseSSL}
	if !cfg.Anonymous {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := miniogo.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client for %s: %w", cfg.Endpoint, err)
	}
	return &minioBackend{client: client}, nil
}

func (b *minioBackend) Scheme() string { return SchemeMinIO }

func (b *minioBackend) resolveBucket(ctx context.Context, container string) error {
	if b.bucket == container {
		return nil
	}
	exists, err := b.client.BucketExists(ctx, container)
	if err != nil {
		return &ContainerResolutionError{Container: container, Err: err}
	}
	if !exists {
		return &ContainerResolutionError{Container: container, Err: errors.New("bucket does not exist")}
	}
	b.bucket = container
	return nil
}

func (b *minioBackend) ListObjects(ctx context.Context, container, prefix string) ([]ObjectInfo, error) {
	if err := b.resolveBucket(ctx, container); err != nil {
		return nil, err
	}

	var objects []ObjectInfo
	for obj := range b.client.ListObjects(ctx, container, miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, &ListingError{Container: container, Prefix: prefix, Err: obj.Err}
		}
		objects = append(objects, ObjectInfo{
			Container: container,
			Key:       obj.Key,
			Size:      obj.Size,
		})
	}
	return objects, nil
}

func (b *minioBackend) FetchObject(ctx context.Context, container, key, destPath string) error {
	obj, err := b.client.GetObject(ctx, container, key, miniogo.GetObjectOptions{})
	if err != nil {
		return &FetchError{
			Kind:      classifyMinIOError(err),
			Container: container,
			Key:       key,
			Dest:      destPath,
			Err:       err,
		}
	}

	// minio-go defers most failures to the first read, so the copy error
	// still needs backend classification.
	if _, err := internal.WriteReadCloserToFile(obj, destPath); err != nil {
		kind := classifyMinIOError(err)
		if kind == FetchUnknown {
			kind = FetchLocalIO
		}
		return &FetchError{Kind: kind, Container: container, Key: key, Dest: destPath, Err: err}
	}
	return nil
}

func classifyMinIOError(err error) FetchErrKind {
	switch miniogo.ToErrorResponse(errors.Unwrap(err)).Code {
	case "NoSuchKey":
		return FetchNotFound
	case "AccessDenied":
		return FetchAccessDenied
	}
	switch miniogo.ToErrorResponse(err).Code {
	case "NoSuchKey":
		return FetchNotFound
	case "AccessDenied":
		return FetchAccessDenied
	}
	return FetchUnknown
}
