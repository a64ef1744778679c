package fetch

import "fmt"

// FetchErrKind classifies a failed object fetch. Backend-specific error
// codes are mapped into these kinds at the adapter boundary only.
type FetchErrKind int

const (
	// FetchUnknown covers everything the adapter could not classify.
	FetchUnknown FetchErrKind = iota
	// FetchNotFound means the object disappeared between listing and fetch.
	FetchNotFound
	// FetchAccessDenied means the backend refused the read.
	FetchAccessDenied
	// FetchLocalIO means the local file could not be written or renamed.
	FetchLocalIO
)

func (k FetchErrKind) String() string {
	switch k {
	case FetchNotFound:
		return "NotFound"
	case FetchAccessDenied:
		return "AccessDenied"
	case FetchLocalIO:
		return "LocalIOError"
	default:
		return "Unknown"
	}
}

// FetchError reports a single failed object transfer. It never aborts the
// batch it belongs to.
type FetchError struct {
	Kind      FetchErrKind
	Container string
	Key       string
	Dest      string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s -> %s failed (%s): %v", e.Container, e.Key, e.Dest, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ListingError is fatal to the whole call: without the full object set the
// batch cannot proceed safely.
type ListingError struct {
	Container string
	Prefix    string
	Err       error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s/%s failed: %v", e.Container, e.Prefix, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

// ContainerResolutionError is fatal to the whole call: the named container
// could not be opened or resolved.
type ContainerResolutionError struct {
	Container string
	Err       error
}

func (e *ContainerResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve container %q: %v", e.Container, e.Err)
}

func (e *ContainerResolutionError) Unwrap() error { return e.Err }

// DirectoryCreationError excludes a single object from the batch; the rest
// of the batch proceeds.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("cannot create directory %q: %v", e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }
