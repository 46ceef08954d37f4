// Package types provides the core data structures shared by the tag
// accessor, the tagging backends and the editor.
package types

// Snapshot is the result of reading a tag, and the shape of a save request.
//
// Absent frames are nil: a tag without TIT2 has a nil Title, while a TIT2
// frame holding an empty string has a non-nil Title pointing at "".
type Snapshot struct {
	Title  *string
	Artist *string
	Cover  *Picture
}

// TitleOr returns the title, or def when the title is absent or empty.
func (s Snapshot) TitleOr(def string) string {
	if s.Title == nil || *s.Title == "" {
		return def
	}
	return *s.Title
}

// ArtistOr returns the artist, or def when the artist is absent or empty.
func (s Snapshot) ArtistOr(def string) string {
	if s.Artist == nil || *s.Artist == "" {
		return def
	}
	return *s.Artist
}

// HasCover reports whether the snapshot carries a cover image.
func (s Snapshot) HasCover() bool {
	return s.Cover != nil && len(s.Cover.Data) > 0
}

// IsEmpty reports whether every field is absent.
func (s Snapshot) IsEmpty() bool {
	return s.Title == nil && s.Artist == nil && s.Cover == nil
}

// TagVersion is the ID3v2 major version written on save.
type TagVersion int

const (
	// ID3v23 writes ID3v2.3 tags with UTF-16 text frames.
	ID3v23 TagVersion = 3
	// ID3v24 writes ID3v2.4 tags with UTF-8 text frames.
	ID3v24 TagVersion = 4
)

func (v TagVersion) String() string {
	switch v {
	case ID3v23:
		return "ID3v2.3"
	case ID3v24:
		return "ID3v2.4"
	default:
		return "ID3v2.?"
	}
}

// Valid reports whether v is a version the backends can write.
func (v TagVersion) Valid() bool {
	return v == ID3v23 || v == ID3v24
}

// Edit is a merge request applied to an existing tag.
//
// Title and Artist are always written. A nil Cover leaves any existing
// picture untouched; a non-nil Cover replaces every existing picture.
type Edit struct {
	Cover   *Picture
	Title   string
	Artist  string
	Version TagVersion
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
