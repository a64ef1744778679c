package internal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadCloserToFile(t *testing.T) {
	content := "this is a test for WriteReadCloserToFile"
	reader := io.NopCloser(strings.NewReader(content))

	tmpfilePath := filepath.Join(t.TempDir(), "test-writerc.txt")

	n, err := WriteReadCloserToFile(reader, tmpfilePath)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	readContent, err := os.ReadFile(tmpfilePath)
	assert.NoError(t, err)
	assert.Equal(t, []byte(content), readContent)
}

func TestWriteReadCloserToFileAtomic(t *testing.T) {
	content := "atomic write content"
	reader := io.NopCloser(strings.NewReader(content))

	dest := filepath.Join(t.TempDir(), "atomic.txt")

	n, err := WriteReadCloserToFileAtomic(reader, dest)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	readContent, err := os.ReadFile(dest)
	assert.NoError(t, err)
	assert.Equal(t, []byte(content), readContent)

	// The temporary sibling must be gone after a successful rename.
	assert.False(t, Exists(dest+TempSuffix))
}

type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("stream interrupted")
}

func (r *failingReader) Close() error { return nil }

func TestWriteReadCloserToFileAtomic_FailureLeavesNoFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "truncated.txt")

	_, err := WriteReadCloserToFileAtomic(&failingReader{data: []byte("partial bytes")}, dest)
	assert.Error(t, err)

	// Neither the final destination nor the temporary file may remain.
	assert.False(t, Exists(dest))
	assert.False(t, Exists(dest+TempSuffix))
}
