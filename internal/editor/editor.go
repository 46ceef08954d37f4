// Package editor holds the state of an interactive tag editing session.
//
// An Editor has two drop targets, one for an MP3 and one for a cover image,
// two text fields and a save action. It is not safe for concurrent use; Loop
// serializes all input onto one goroutine.
package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/simonhull/coverart"
)

// Display texts.
const (
	MP3Prompt        = "Drop MP3 File Here"
	ImagePrompt      = "Drop New Image Here\n(or view existing)"
	NoCoverText      = "No existing cover art found.\nDrop a new image here."
	SavedText        = "Saved successfully!"
	DefaultArtist    = "Unknown Artist"
	mp3LoadedPrefix  = "MP3 Loaded:\n"
	badImagePrefix   = "Failed to load image:\n"
	badCoverText     = "Existing cover art found,\nbut failed to display."
	saveFailedPrefix = "Failed to save: "
	readFailedPrefix = "Failed to read MP3: "
)

// Tagger is the subset of *coverart.Accessor the editor needs.
type Tagger interface {
	ReadTags(path string) (coverart.Snapshot, error)
	SaveTags(path, imagePath, title, artist string, opts ...coverart.SaveOption) error
}

// CoverKind says what the cover target is showing.
type CoverKind int

const (
	// CoverPrompt shows a text prompt or placeholder.
	CoverPrompt CoverKind = iota
	// CoverExisting shows the cover embedded in the loaded MP3.
	CoverExisting
	// CoverPending shows a dropped image that will be embedded on save.
	CoverPending
)

// Cover is the state of the cover target.
type Cover struct {
	Kind    CoverKind
	Text    string            // prompt, placeholder or failure text
	Picture *coverart.Picture // CoverExisting
	Path    string            // CoverPending
}

// View is a snapshot of everything the session displays.
type View struct {
	MP3Label string
	Title    string
	Artist   string
	Cover    Cover
	CanSave  bool
	Message  string
}

// Editor is one editing session.
type Editor struct {
	tagger        Tagger
	logger        *zap.Logger
	defaultArtist string
	saveOpts      []coverart.SaveOption

	mp3Path      string
	mp3Label     string
	title        string
	artist       string
	pendingImage string
	cover        Cover
	message      string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger for the editor.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultArtist sets the artist shown when a file has none.
func WithDefaultArtist(artist string) Option {
	return func(e *Editor) {
		e.defaultArtist = artist
	}
}

// WithSaveOptions sets the options passed to every SaveTags call.
func WithSaveOptions(opts ...coverart.SaveOption) Option {
	return func(e *Editor) {
		e.saveOpts = opts
	}
}

// New returns an empty session backed by tagger.
func New(tagger Tagger, opts ...Option) *Editor {
	e := &Editor{
		tagger:        tagger,
		logger:        zap.NewNop(),
		defaultArtist: DefaultArtist,
		mp3Label:      MP3Prompt,
		cover:         Cover{Kind: CoverPrompt, Text: ImagePrompt},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DropMP3 loads the first .mp3 among paths. Drops without one are ignored
// and report false.
//
// Title and artist fields are filled from the tag, falling back to the file
// name and the default artist. A read failure leaves the session as it was.
func (e *Editor) DropMP3(paths ...string) (bool, error) {
	path, ok := first(paths, coverart.IsMP3Extension)
	if !ok {
		return false, nil
	}

	snap, err := e.tagger.ReadTags(path)
	if err != nil {
		e.logger.Error("error reading MP3", zap.String("path", path), zap.Error(err))
		e.message = readFailedPrefix + err.Error()
		return true, err
	}

	base := filepath.Base(path)
	e.mp3Path = path
	e.mp3Label = mp3LoadedPrefix + base
	e.title = snap.TitleOr(norm.NFC.String(strings.TrimSuffix(base, filepath.Ext(base))))
	e.artist = snap.ArtistOr(e.defaultArtist)
	e.message = ""

	e.showCover(snap)
	return true, nil
}

// DropImage makes the first .jpg, .jpeg or .png among paths the pending
// cover. Drops without one are ignored and report false.
func (e *Editor) DropImage(paths ...string) bool {
	path, ok := first(paths, coverart.IsImageExtension)
	if !ok {
		return false
	}

	e.pendingImage = path
	e.cover = Cover{Kind: CoverPending, Path: path}

	if mime, err := sniffFile(path); err != nil || !strings.HasPrefix(mime, "image/") {
		e.logger.Warn("dropped image cannot be displayed",
			zap.String("path", path), zap.String("mime", mime), zap.Error(err))
		e.cover.Text = badImagePrefix + filepath.Base(path)
	} else if want := coverart.MIMETypeForImage(path); mime != want {
		e.logger.Warn("image content does not match extension",
			zap.String("path", path), zap.String("content_mime", mime), zap.String("extension_mime", want))
	}
	return true
}

// SetTitle replaces the title field.
func (e *Editor) SetTitle(title string) {
	e.title = title
}

// SetArtist replaces the artist field.
func (e *Editor) SetArtist(artist string) {
	e.artist = artist
}

// CanSave reports whether an MP3 is loaded.
func (e *Editor) CanSave() bool {
	return e.mp3Path != ""
}

// Save writes the fields and any pending image to the loaded MP3.
// It does nothing when no MP3 is loaded.
func (e *Editor) Save() error {
	if !e.CanSave() {
		return nil
	}

	if err := e.tagger.SaveTags(e.mp3Path, e.pendingImage, e.title, e.artist, e.saveOpts...); err != nil {
		e.logger.Error("failed to save", zap.String("path", e.mp3Path), zap.Error(err))
		e.message = saveFailedPrefix + err.Error()
		return err
	}
	e.message = SavedText

	snap, err := e.tagger.ReadTags(e.mp3Path)
	if err != nil {
		e.logger.Error("error checking cover art", zap.String("path", e.mp3Path), zap.Error(err))
		e.message = readFailedPrefix + err.Error()
	} else {
		e.showCover(snap)
	}
	e.pendingImage = ""
	return nil
}

// Cover returns the picture currently shown from the MP3, if any.
func (e *Editor) Cover() *coverart.Picture {
	if e.cover.Kind != CoverExisting {
		return nil
	}
	return e.cover.Picture
}

// View returns what the session currently displays.
func (e *Editor) View() View {
	return View{
		MP3Label: e.mp3Label,
		Title:    e.title,
		Artist:   e.artist,
		Cover:    e.cover,
		CanSave:  e.CanSave(),
		Message:  e.message,
	}
}

// showCover displays the cover of snap. An existing cover wins over a
// pending image; without one a pending preview stays on screen.
func (e *Editor) showCover(snap coverart.Snapshot) {
	if snap.HasCover() {
		e.cover = Cover{Kind: CoverExisting, Picture: snap.Cover}
		if !strings.HasPrefix(snap.Cover.MIMEType, "image/") {
			e.cover.Text = badCoverText
		}
		e.pendingImage = ""
		return
	}

	if e.pendingImage != "" {
		return
	}
	e.cover = Cover{Kind: CoverPrompt, Text: NoCoverText}
}

func first(paths []string, match func(string) bool) (string, bool) {
	for _, p := range paths {
		if match(p) {
			return p, true
		}
	}
	return "", false
}

func (c Cover) String() string {
	switch c.Kind {
	case CoverExisting:
		if c.Text != "" {
			return c.Text
		}
		return fmt.Sprintf("Existing cover: %s", c.Picture)
	case CoverPending:
		if c.Text != "" {
			return c.Text
		}
		return fmt.Sprintf("New image: %s", filepath.Base(c.Path))
	default:
		return c.Text
	}
}
