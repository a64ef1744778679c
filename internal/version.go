package internal

import "fmt"

var (
	version   = "0.3.0"
	gitCommit = ""
	buildDate = ""
)

// Version returns the release string, extended with commit and build date
// when they were stamped in at link time.
func Version() string {
	v := version
	if gitCommit != "" {
		v = fmt.Sprintf("%s+%s", v, gitCommit)
	}
	if buildDate != "" {
		v = fmt.Sprintf("%s (%s)", v, buildDate)
	}
	return v
}
