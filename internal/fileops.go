package internal

import (
	"fmt"
	"io"
	"os"
)

// WriteReadCloserToFile streams rc into path, creating or truncating it.
// The reader is always closed. Bytes already written are left in place on
// error; callers that cannot tolerate a truncated file should use
// WriteReadCloserToFileAtomic instead.
func WriteReadCloserToFile(rc io.ReadCloser, path string) (int64, error) {
	defer rc.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	n, err := io.Copy(file, rc)
	if err != nil {
		file.Close()
		return n, fmt.Errorf("failed to write file %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return n, fmt.Errorf("failed to close file %s: %w", path, err)
	}
	return n, nil
}

// TempSuffix is appended to the destination name while an atomic write is
// in flight.
const TempSuffix = ".partial"

// WriteReadCloserToFileAtomic streams rc into a temporary sibling of path
// and renames it onto path only after the full content has been written.
// On any failure the temporary file is removed, so path either holds the
// complete content or does not exist at all.
func WriteReadCloserToFileAtomic(rc io.ReadCloser, path string) (int64, error) {
	tmpPath := path + TempSuffix

	n, err := WriteReadCloserToFile(rc, tmpPath)
	if err != nil {
		removeIfExists(tmpPath)
		return n, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		removeIfExists(tmpPath)
		return n, fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}
	return n, nil
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove temporary file %s: %v", path, err)
	}
}
