package fetch

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zhengshuai-xiao/StorSync/pkg/locator"
)

// MapLocalPath computes the local destination path for a remote object.
//
// With preserve=false every object lands as baseDir/<basename>; objects
// sharing a basename under different prefixes overwrite each other, which
// is the documented behavior of the flat mode, not a defect. With
// preserve=true the object key has prefixToReplace stripped from its head
// (plus a leading separator) and the remaining tail is recreated below
// baseDir, creating intermediate directories on demand. Directory creation
// is idempotent; a failure returns a *DirectoryCreationError and excludes
// only this object from the batch.
func MapLocalPath(objectKey, prefixToReplace, baseDir string, preserve bool) (string, error) {
	baseDir = locator.ExpandUser(baseDir)

	if !preserve {
		return filepath.Join(baseDir, path.Base(objectKey)), nil
	}

	tail := strings.TrimPrefix(objectKey, prefixToReplace)
	tail = strings.TrimPrefix(tail, "/")
	// Remote keys always use '/'; rebuild the tail with the host separator.
	destPath := filepath.Join(baseDir, filepath.FromSlash(tail))

	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", &DirectoryCreationError{Dir: destDir, Err: err}
	}
	return destPath, nil
}
