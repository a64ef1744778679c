package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		scheme    string
		container string
		prefix    string
		wantErr   bool
	}{
		{"Scheme and nested prefix", "s3://bucket/a/b/c", "s3", "bucket", "a/b/c", false},
		{"Scheme and trailing slash", "gs://bucket/scenes/2020/", "gs", "bucket", "scenes/2020/", false},
		{"No prefix", "s3://bucket", "s3", "bucket", "", false},
		{"Container root with slash", "s3://bucket/", "s3", "bucket", "", false},
		{"Marker absent is tolerated", "bucket/some/prefix", "s3", "bucket", "some/prefix", false},
		{"Empty string", "", "s3", "", "", true},
		{"Marker only", "s3://", "s3", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := Parse(tc.raw, tc.scheme)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.container, loc.Container)
			assert.Equal(t, tc.prefix, loc.Prefix)
		})
	}
}

func TestParseStrict(t *testing.T) {
	loc, err := ParseStrict("gs://bucket/blob/prefix", "gs")
	assert.NoError(t, err)
	assert.Equal(t, "bucket", loc.Container)
	assert.Equal(t, "blob/prefix", loc.Prefix)

	_, err = ParseStrict("bucket/blob/prefix", "gs")
	assert.ErrorIs(t, err, ErrMalformed)

	// A marker of the wrong scheme is not accepted either.
	_, err = ParseStrict("s3://bucket/blob", "gs")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNormalizeDir(t *testing.T) {
	sep := string(os.PathSeparator)
	assert.Equal(t, "/tmp/data"+sep, NormalizeDir("/tmp/data"))
	assert.Equal(t, "/tmp/data"+sep, NormalizeDir("/tmp/data"+sep))
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	assert.NoError(t, err)

	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, filepath.Join(home, "data"), ExpandUser("~/data"))
	assert.Equal(t, "/var/data", ExpandUser("/var/data/"))
}
