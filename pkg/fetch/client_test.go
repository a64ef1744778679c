package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend used by the client tests. Keys marked
// in missing are listed but fail to fetch, simulating objects deleted
// between the listing and the transfer.
type fakeBackend struct {
	scheme    string
	container string
	objects   map[string][]byte
	missing   map[string]bool

	fetchCalls int
	listErr    error
}

func (f *fakeBackend) Scheme() string {
	if f.scheme == "" {
		return SchemeS3
	}
	return f.scheme
}

func (f *fakeBackend) ListObjects(_ context.Context, container, prefix string) ([]ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if container != f.container {
		return nil, &ContainerResolutionError{Container: container, Err: errors.New("unknown bucket")}
	}
	var objects []ObjectInfo
	for key, content := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			objects = append(objects, ObjectInfo{Container: container, Key: key, Size: int64(len(content))})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (f *fakeBackend) FetchObject(_ context.Context, container, key, destPath string) error {
	f.fetchCalls++
	if f.missing[key] {
		return &FetchError{Kind: FetchNotFound, Container: container, Key: key, Dest: destPath, Err: errors.New("no such key")}
	}
	content, ok := f.objects[key]
	if !ok {
		return &FetchError{Kind: FetchNotFound, Container: container, Key: key, Dest: destPath, Err: errors.New("no such key")}
	}
	return os.WriteFile(destPath, content, 0644)
}

func sceneBackend() *fakeBackend {
	return &fakeBackend{
		container: "bucket",
		objects: map[string][]byte{
			"scenes/2020/001/img1.tif": []byte("img1"),
			"scenes/2020/002/img2.tif": []byte("img2"),
		},
	}
}

func TestRecursiveDownloadPreserveStructure(t *testing.T) {
	backend := sceneBackend()
	client := newClientWithBackend(backend)
	out := t.TempDir()

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, SyncOptions{
		PreserveStructure: true,
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 2}, summary)

	assert.FileExists(t, filepath.Join(out, "001", "img1.tif"))
	assert.FileExists(t, filepath.Join(out, "002", "img2.tif"))
}

func TestRecursiveDownloadFlat(t *testing.T) {
	client := newClientWithBackend(sceneBackend())
	out := t.TempDir()

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 2}, summary)

	assert.FileExists(t, filepath.Join(out, "img1.tif"))
	assert.FileExists(t, filepath.Join(out, "img2.tif"))
	assert.NoDirExists(t, filepath.Join(out, "001"))
}

func TestRecursiveDownloadIdempotentRerun(t *testing.T) {
	backend := sceneBackend()
	client := newClientWithBackend(backend)
	out := t.TempDir()

	opts := SyncOptions{PreserveStructure: true}
	_, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, opts)
	require.NoError(t, err)
	firstCalls := backend.fetchCalls

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, opts)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 2}, summary)
	// No additional transfer happened on the second run.
	assert.Equal(t, firstCalls, backend.fetchCalls)
}

func TestRecursiveDownloadOverwriteRefetches(t *testing.T) {
	backend := sceneBackend()
	client := newClientWithBackend(backend)
	out := t.TempDir()

	opts := SyncOptions{PreserveStructure: true, Overwrite: true}
	_, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, opts)
	require.NoError(t, err)

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, opts)
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 2}, summary)
	assert.Equal(t, 4, backend.fetchCalls)
}

func TestRecursiveDownloadPartialFailureIsolation(t *testing.T) {
	backend := &fakeBackend{
		container: "bucket",
		objects: map[string][]byte{
			"data/f1": []byte("1"),
			"data/f2": []byte("2"),
			"data/f3": []byte("3"),
			"data/f4": []byte("4"),
			"data/f5": []byte("5"),
		},
		missing: map[string]bool{"data/f2": true},
	}
	client := newClientWithBackend(backend)
	out := t.TempDir()

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/data/", out, SyncOptions{
		PreserveStructure: true,
		Concurrency:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 4, Failed: 1}, summary)

	for _, name := range []string{"f1", "f3", "f4", "f5"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "f2"))
}

func TestRecursiveDownloadPrefixToReplaceOverride(t *testing.T) {
	client := newClientWithBackend(sceneBackend())
	out := t.TempDir()

	// Re-root the destination tree one level above the searched prefix.
	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/2020/", out, SyncOptions{
		PreserveStructure: true,
		PrefixToReplace:   "scenes/",
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 2}, summary)

	assert.FileExists(t, filepath.Join(out, "2020", "001", "img1.tif"))
	assert.FileExists(t, filepath.Join(out, "2020", "002", "img2.tif"))
}

func TestRecursiveDownloadFilters(t *testing.T) {
	backend := &fakeBackend{
		container: "bucket",
		objects: map[string][]byte{
			"d/a.tif": []byte("a"),
			"d/a.ovr": []byte("a"),
			"d/b.tif": []byte("b"),
		},
	}
	client := newClientWithBackend(backend)
	out := t.TempDir()

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/d/", out, SyncOptions{
		Include: `\.tif$`,
		Exclude: `/a`,
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 1}, summary)
	assert.FileExists(t, filepath.Join(out, "b.tif"))
	assert.NoFileExists(t, filepath.Join(out, "a.tif"))
	assert.NoFileExists(t, filepath.Join(out, "a.ovr"))
}

func TestRecursiveDownloadNoObjects(t *testing.T) {
	backend := sceneBackend()
	client := newClientWithBackend(backend)

	summary, err := client.RecursiveDownload(context.Background(), "s3://bucket/nothing/here/", t.TempDir(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Zero(t, backend.fetchCalls)
}

func TestRecursiveDownloadListingErrorIsFatal(t *testing.T) {
	backend := sceneBackend()
	backend.listErr = &ListingError{Container: "bucket", Prefix: "scenes/", Err: errors.New("boom")}
	client := newClientWithBackend(backend)

	_, err := client.RecursiveDownload(context.Background(), "s3://bucket/scenes/", t.TempDir(), SyncOptions{})
	var listErr *ListingError
	assert.ErrorAs(t, err, &listErr)
	assert.Zero(t, backend.fetchCalls)
}

func TestRecursiveDownloadMalformedLocator(t *testing.T) {
	client := newClientWithBackend(sceneBackend())

	_, err := client.RecursiveDownload(context.Background(), "s3://", t.TempDir(), SyncOptions{})
	assert.Error(t, err)
}

func TestListAppliesFilters(t *testing.T) {
	client := newClientWithBackend(&fakeBackend{
		container: "bucket",
		objects: map[string][]byte{
			"d/a.tif": []byte("a"),
			"d/a.ovr": []byte("a"),
			"d/b.tif": []byte("b"),
		},
	})

	objects, err := client.List(context.Background(), "s3://bucket/d/", `\.tif$`, `/a`)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "d/b.tif", objects[0].Key)
}

func TestDownloadSingleObject(t *testing.T) {
	client := newClientWithBackend(sceneBackend())
	out := t.TempDir()

	got, err := client.Download(context.Background(), "s3://bucket/scenes/2020/001/img1.tif", out, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "img1.tif"), got)
	assert.FileExists(t, got)

	// Second run without overwrite is a logged skip, not an error.
	got, err = client.Download(context.Background(), "s3://bucket/scenes/2020/001/img1.tif", out, false)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestGCSClientRequiresSchemeMarker(t *testing.T) {
	client := newClientWithBackend(&fakeBackend{scheme: SchemeGS, container: "bucket"})

	_, err := client.List(context.Background(), "bucket/prefix", "", "")
	assert.Error(t, err)
}

func TestSchemeOf(t *testing.T) {
	assert.Equal(t, SchemeGS, SchemeOf("gs://bucket/p"))
	assert.Equal(t, SchemeMinIO, SchemeOf("minio://bucket/p"))
	assert.Equal(t, SchemeS3, SchemeOf("s3://bucket/p"))
	assert.Equal(t, SchemeS3, SchemeOf("bucket/p"))
}
