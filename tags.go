package coverart

import (
	"github.com/simonhull/coverart/internal/types"
)

// Snapshot is the result of ReadTags: title, artist and cover, each
// optional. See types.Snapshot.
type Snapshot = types.Snapshot

// TagVersion is the ID3v2 major version written by SaveTags.
type TagVersion = types.TagVersion

// Supported tag versions.
const (
	ID3v23 = types.ID3v23
	ID3v24 = types.ID3v24
)

// StringPtr returns a pointer to s, for building snapshots in tests and callers.
func StringPtr(s string) *string {
	return types.StringPtr(s)
}
