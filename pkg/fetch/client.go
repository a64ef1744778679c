package fetch

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/zhengshuai-xiao/StorSync/internal"
	"github.com/zhengshuai-xiao/StorSync/pkg/locator"
)

// DefaultConcurrency is the worker-pool size used when the caller does not
// ask for more.
const DefaultConcurrency = 1

// SyncOptions tune one RecursiveDownload call.
type SyncOptions struct {
	// PreserveStructure recreates the remote sub-prefix hierarchy below the
	// destination directory instead of flattening every object into it.
	PreserveStructure bool
	// Overwrite re-fetches objects whose destination file already exists.
	Overwrite bool
	// PrefixToReplace overrides the part of the object key replaced by the
	// destination directory. Defaults to the prefix of the listing, which
	// re-roots the local tree at exactly the searched prefix.
	PrefixToReplace string
	// Include and Exclude are regular expressions applied to object keys
	// (search semantics, include before exclude).
	Include string
	Exclude string
	// Concurrency bounds the worker pool. 0 means DefaultConcurrency.
	Concurrency int
}

// Client runs list and download operations against one storage backend.
// One container is resolved per call, before any concurrent fetch starts;
// the resolved handle stays read-only while workers run.
type Client struct {
	backend Backend
}

// NewClient builds a client for an explicit scheme.
func NewClient(ctx context.Context, scheme string, cfg BackendConfig) (*Client, error) {
	backend, err := NewBackend(ctx, scheme, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{backend: backend}, nil
}

// NewClientForLocator sniffs the scheme from the locator string.
func NewClientForLocator(ctx context.Context, raw string, cfg BackendConfig) (*Client, error) {
	return NewClient(ctx, SchemeOf(raw), cfg)
}

// newClientWithBackend is the test seam.
func newClientWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

// parseLocator applies the backend's parsing strictness: the GCS service
// rejects locators without the gs:// marker, the S3 family tolerates a
// missing marker.
func (c *Client) parseLocator(raw string) (locator.Locator, error) {
	if c.backend.Scheme() == SchemeGS {
		return locator.ParseStrict(raw, SchemeGS)
	}
	return locator.Parse(raw, c.backend.Scheme())
}

// List returns the objects below the locator's prefix, optionally filtered
// by include/exclude patterns.
func (c *Client) List(ctx context.Context, raw, include, exclude string) ([]ObjectInfo, error) {
	loc, err := c.parseLocator(raw)
	if err != nil {
		return nil, err
	}

	objects, err := c.backend.ListObjects(ctx, loc.Container, loc.Prefix)
	if err != nil {
		return nil, err
	}
	return FilterObjects(objects, include, exclude)
}

// Download fetches a single object into destDir, keeping its basename.
// Returns the local path, or "" when the destination already existed and
// overwrite was false.
func (c *Client) Download(ctx context.Context, raw, destDir string, overwrite bool) (string, error) {
	loc, err := c.parseLocator(raw)
	if err != nil {
		return "", err
	}
	if loc.Prefix == "" {
		return "", fmt.Errorf("%w: %q has no object name", locator.ErrMalformed, raw)
	}

	destPath := filepath.Join(locator.ExpandUser(destDir), path.Base(loc.Prefix))
	if !overwrite && internal.Exists(destPath) {
		logger.Infof("%s already EXISTS - skipped", destPath)
		return "", nil
	}

	if err := c.backend.FetchObject(ctx, loc.Container, loc.Prefix, destPath); err != nil {
		return "", err
	}
	logger.Infof("Downloaded %s://%s/%s to %s", c.backend.Scheme(), loc.Container, loc.Prefix, destPath)
	return destPath, nil
}

// RecursiveDownload lists, filters and concurrently fetches every object
// below the locator's prefix into destDir. Listing and filtering complete
// before the worker pool starts. Per-object failures are logged and
// counted, never fatal; the returned Summary is the caller's view of
// partial failure.
func (c *Client) RecursiveDownload(ctx context.Context, raw, destDir string, opts SyncOptions) (Summary, error) {
	loc, err := c.parseLocator(raw)
	if err != nil {
		return Summary{}, err
	}

	objects, err := c.backend.ListObjects(ctx, loc.Container, loc.Prefix)
	if err != nil {
		return Summary{}, err
	}
	objects, err = FilterObjects(objects, opts.Include, opts.Exclude)
	if err != nil {
		return Summary{}, err
	}
	if len(objects) == 0 {
		logger.Infof("No object found under %s to recursively download", raw)
		return Summary{}, nil
	}
	logger.Infof("Found %d objects under %s", len(objects), raw)

	prefixToReplace := opts.PrefixToReplace
	if prefixToReplace == "" {
		prefixToReplace = loc.Prefix
	}

	// The full task list is materialized before the pool starts; no task
	// creates further tasks.
	var summary Summary
	tasks := make([]DownloadTask, 0, len(objects))
	for _, obj := range objects {
		destPath, err := MapLocalPath(obj.Key, prefixToReplace, destDir, opts.PreserveStructure)
		if err != nil {
			logger.Errorf("Skipping %s: %v", obj.Key, err)
			summary.Failed++
			continue
		}
		tasks = append(tasks, DownloadTask{
			SourceKey: obj.Key,
			DestPath:  destPath,
			Overwrite: opts.Overwrite,
		})
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	container := loc.Container
	ran := runTasks(ctx, tasks, concurrency, func(ctx context.Context, task DownloadTask) error {
		return c.backend.FetchObject(ctx, container, task.SourceKey, task.DestPath)
	})

	summary.Completed += ran.Completed
	summary.Skipped += ran.Skipped
	summary.Failed += ran.Failed

	logger.Infof("Sync of %s finished: %d completed, %d skipped, %d failed",
		raw, summary.Completed, summary.Skipped, summary.Failed)
	return summary, nil
}
