package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/zhengshuai-xiao/StorSync/internal"
)

// gcsBackend talks to Google Cloud Storage. Unlike the S3 backends it
// writes through a temporary sibling file and renames on success, so a
// truncated transfer can never masquerade as a complete object on disk.
type gcsBackend struct {
	client *storage.Client
	// bucket is the lazily-created handle for bucketName. Replaced, not
	// mutated, when a different container is requested.
	bucket     *storage.BucketHandle
	bucketName string
}

func newGCSBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	var opts []option.ClientOption
	if cfg.Anonymous {
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadOnly))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}
	return &gcsBackend{client: client}, nil
}

func (b *gcsBackend) Scheme() string { return SchemeGS }

// resolveBucket creates the bucket handle on first use and replaces it when
// a different container name comes in. Creating the handle is local (no
// RPC); a bad bucket name surfaces as a ListingError or FetchError.
func (b *gcsBackend) resolveBucket(container string) error {
	if container == "" {
		return &ContainerResolutionError{Container: container, Err: errors.New("empty bucket name")}
	}
	if b.bucket == nil || b.bucketName != container {
		b.bucket = b.client.Bucket(container)
		b.bucketName = container
	}
	return nil
}

func (b *gcsBackend) ListObjects(ctx context.Context, container, prefix string) ([]ObjectInfo, error) {
	if err := b.resolveBucket(container); err != nil {
		return nil, err
	}

	var objects []ObjectInfo
	it := b.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &ListingError{Container: container, Prefix: prefix, Err: err}
		}
		objects = append(objects, ObjectInfo{
			Container: container,
			Key:       attrs.Name,
			Size:      attrs.Size,
		})
	}
	return objects, nil
}

func (b *gcsBackend) FetchObject(ctx context.Context, container, key, destPath string) error {
	if err := b.resolveBucket(container); err != nil {
		return err
	}

	rc, err := b.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return &FetchError{
			Kind:      classifyGCSError(err),
			Container: container,
			Key:       key,
			Dest:      destPath,
			Err:       err,
		}
	}

	// The reader starts delivering bytes before the object is complete, so
	// stage into <dest>.partial and rename only after a full copy.
	if _, err := internal.WriteReadCloserToFileAtomic(rc, destPath); err != nil {
		return &FetchError{Kind: FetchLocalIO, Container: container, Key: key, Dest: destPath, Err: err}
	}
	return nil
}

func classifyGCSError(err error) FetchErrKind {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return FetchNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return FetchNotFound
		case http.StatusForbidden, http.StatusUnauthorized:
			return FetchAccessDenied
		}
	}
	return FetchUnknown
}
