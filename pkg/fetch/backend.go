// Package fetch implements the recursive object-storage sync engine: it
// lists objects below a prefix, filters them by name, maps each object to a
// local destination path and fans the transfers out to a bounded worker
// pool. Storage services are plugged in through the Backend interface.
package fetch

import (
	"context"
	"fmt"

	"github.com/zhengshuai-xiao/StorSync/internal"
)

var logger = internal.GetLogger("storsync_fetch")

// Supported locator schemes.
const (
	SchemeS3    = "s3"
	SchemeGS    = "gs"
	SchemeMinIO = "minio"
)

// ObjectInfo describes one remote object as reported by a listing. It is
// read-only after creation.
type ObjectInfo struct {
	Container string
	Key       string
	Size      int64
}

// Backend is the storage-service capability the sync engine runs against.
//
// Implementations cache the container handle resolved by the most recent
// ListObjects call. The handle is rebound when a different container name
// comes in and is left alone otherwise. Rebinding is NOT safe under
// concurrency: a batch resolves its container exactly once, before any
// worker starts, and every FetchObject of that batch addresses the same
// container.
type Backend interface {
	// Scheme returns the locator scheme marker this backend serves.
	Scheme() string
	// ListObjects returns every object whose name starts with prefix.
	// A failure is fatal for the call: no partial list is returned.
	ListObjects(ctx context.Context, container, prefix string) ([]ObjectInfo, error)
	// FetchObject transfers one object to destPath. Errors are reported
	// as *FetchError with the kind classified from the backend response.
	FetchObject(ctx context.Context, container, key, destPath string) error
}

// BackendConfig carries the connection options shared by all backends.
// Fields irrelevant to a given backend are ignored by it.
type BackendConfig struct {
	// Region and Profile configure the native AWS S3 backend.
	Region  string
	Profile string
	// Endpoint, AccessKey, SecretKey and UseSSL configure endpoint-style
	// backends (MinIO and custom S3 endpoints).
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Anonymous selects an unauthenticated client where the service
	// supports it (public GCS buckets, public MinIO endpoints).
	Anonymous bool
}

// backendConstructors maps a locator scheme to its backend constructor.
// Adding a storage service means adding one entry here.
var backendConstructors = map[string]func(ctx context.Context, cfg BackendConfig) (Backend, error){
	SchemeS3:    newS3Backend,
	SchemeGS:    newGCSBackend,
	SchemeMinIO: newMinIOBackend,
}

// NewBackend constructs the backend registered for scheme.
func NewBackend(ctx context.Context, scheme string, cfg BackendConfig) (Backend, error) {
	ctor, ok := backendConstructors[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported storage scheme %q", scheme)
	}
	return ctor(ctx, cfg)
}

// SchemeOf sniffs the scheme marker of a locator string. Locators without
// a marker default to S3, which also tolerates marker-less locators when
// parsing.
func SchemeOf(raw string) string {
	for scheme := range backendConstructors {
		if len(raw) >= len(scheme)+3 && raw[:len(scheme)+3] == scheme+"://" {
			return scheme
		}
	}
	return SchemeS3
}
