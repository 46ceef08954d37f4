// Package id3 is the default tagging backend, built on
// github.com/bogem/id3v2.
package id3

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	binutil "github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/mp3"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

// Name is the registry name of this backend.
const Name = "id3v2"

type backend struct{}

func init() {
	registry.Register(&backend{})
}

func (b *backend) Name() string {
	return Name
}

// Read parses the leading ID3v2 tag of path.
func (b *backend) Read(path string) (types.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	tag, _, err := parseTag(f, path)
	if err != nil {
		return types.Snapshot{}, err
	}

	return types.Snapshot{
		Title:  firstText(tag, tag.CommonID("Title")),
		Artist: firstText(tag, tag.CommonID("Artist")),
		Cover:  coverPicture(tag),
	}, nil
}

// Write merges edit into the tag of path and rewrites the file as the
// rendered tag followed by the untouched audio bytes.
func (b *backend) Write(path string, edit types.Edit) error { //nolint:gocyclo // Sequential file rewrite steps
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	tag, audioOffset, err := parseTag(f, path)
	if err != nil {
		// Unreadable tag: start over with an empty one and keep the audio
		tag = id3v2.NewEmptyTag()
		audioOffset = recoverAudioOffset(f, stat.Size(), path)
	}

	version := edit.Version
	if !version.Valid() {
		version = types.ID3v23
	}
	utf8 := version == types.ID3v24

	tag.SetVersion(byte(version))
	if err := reencodeUTF16(tag); err != nil {
		return err
	}
	if err := setText(tag, tag.CommonID("Title"), edit.Title, utf8); err != nil {
		return err
	}
	if err := setText(tag, tag.CommonID("Artist"), edit.Artist, utf8); err != nil {
		return err
	}

	if edit.Cover != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    pictureEncoding(edit.Cover.Description, utf8),
			MimeType:    edit.Cover.MIMEType,
			PictureType: byte(edit.Cover.Type),
			Description: edit.Cover.Description,
			Picture:     edit.Cover.Data,
		})
	}

	out, err := os.CreateTemp(filepath.Dir(path), ".id3-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := out.Name()

	success := false
	defer func() {
		if !success {
			_ = out.Close()        //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tag.WriteTo(out); err != nil {
		return fmt.Errorf("write tag: %w", err)
	}

	audio := binutil.NewSafeReader(f, stat.Size(), path).Section(audioOffset, stat.Size()-audioOffset)
	if _, err := io.Copy(out, audio); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}

	if err := out.Chmod(stat.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	_ = f.Close() //nolint:errcheck // Read-only handle, must be closed before rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// parseTag parses the ID3v2 tag at the start of f. It returns the offset
// where the audio begins. Files without a tag yield an empty tag.
func parseTag(f *os.File, path string) (*id3v2.Tag, int64, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat file: %w", err)
	}

	audioOffset, err := mp3.AudioOffset(f, stat.Size(), path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrUnreadableTag, err)
	}

	section := binutil.NewSafeReader(f, stat.Size(), path).Section(0, audioOffset)
	tag, err := id3v2.ParseReader(section, id3v2.Options{Parse: true})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrUnreadableTag, err)
	}

	return tag, audioOffset, nil
}

// firstText returns the first value of a text frame, or nil if absent.
// ID3v2.4 separates multiple values with NUL.
func firstText(tag *id3v2.Tag, id string) *string {
	frames := tag.GetFrames(id)
	if len(frames) == 0 {
		return nil
	}

	tf, ok := frames[0].(id3v2.TextFrame)
	if !ok {
		return nil
	}

	text, _, _ := strings.Cut(tf.Text, "\x00")
	return &text
}

// coverPicture returns the first front cover, else the first picture.
func coverPicture(tag *id3v2.Tag) *types.Picture {
	var first *id3v2.PictureFrame
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if pf.PictureType == id3v2.PTFrontCover {
			return toPicture(pf)
		}
		if first == nil {
			first = &pf
		}
	}

	if first == nil {
		return nil
	}
	return toPicture(*first)
}

func toPicture(pf id3v2.PictureFrame) *types.Picture {
	return &types.Picture{
		MIMEType:    pf.MimeType,
		Description: pf.Description,
		Data:        pf.Picture,
		Type:        types.PictureType(pf.PictureType),
	}
}

// recoverAudioOffset finds where the audio starts when the tag header
// cannot be trusted: after the declared tag if it fits in the file,
// otherwise at the first MPEG frame, otherwise at the start.
func recoverAudioOffset(f *os.File, size int64, path string) int64 {
	if offset, err := mp3.AudioOffset(f, size, path); err == nil {
		return offset
	}
	if offset, err := mp3.FirstFrame(f, size, path, 0); err == nil {
		return offset
	}
	return 0
}
