package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Store uploads binary objects and removes them by storage path. The
// only link between an object and a message is the public locator
// stored on the message; no referential integrity exists between the
// two stores.
type Store interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
	RemoveMany(ctx context.Context, paths []string) error
	// PathFromURL derives the storage path from a public locator; ok is
	// false when the locator does not carry the public segment marker.
	PathFromURL(url string) (string, bool)
}

// publicMarker separates the routing half of a public locator from the
// bucket-qualified storage path.
const publicMarker = "/public/"

// ObjectPath is the collision-resistant storage path for an upload,
// <fileName>_<epochMillis>.
func ObjectPath(fileName string, timestamp int64) string {
	return fmt.Sprintf("%s_%d", fileName, timestamp)
}

// PathFromPublicURL extracts the storage path from a public locator:
// the substring after the public segment marker, with the bucket name
// prefix stripped. Locators without the marker or with a foreign
// bucket prefix are unparsable.
func PathFromPublicURL(bucket, url string) (string, bool) {
	_, rest, found := strings.Cut(url, publicMarker)
	if !found {
		return "", false
	}

	path, found := strings.CutPrefix(rest, bucket+"/")
	if !found || path == "" {
		return "", false
	}

	return path, true
}
