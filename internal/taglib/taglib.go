// Package taglib is a tagging backend built on go.senan.xyz/taglib, TagLib
// compiled to WebAssembly.
//
// TagLib owns the tag layout: it picks the ID3v2 version it writes
// (ID3v2.4) and edits the file in place. Edit.Version is ignored.
package taglib

import (
	"fmt"
	"path/filepath"

	"go.senan.xyz/taglib"

	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

// Name is the registry name of this backend.
const Name = "taglib"

type backend struct{}

func init() {
	registry.Register(&backend{})
}

func (b *backend) Name() string {
	return Name
}

// Read reads TITLE, ARTIST and the first embedded picture.
func (b *backend) Read(path string) (types.Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("resolve path: %w", err)
	}

	tags, err := taglib.ReadTags(abs)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("read tags: %w", err)
	}

	image, err := taglib.ReadImage(abs)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("read image: %w", err)
	}

	snap := types.Snapshot{
		Title:  first(tags, taglib.Title),
		Artist: first(tags, taglib.Artist),
	}
	if len(image) > 0 {
		// TagLib does not report picture metadata; the accessor sniffs the MIME type
		snap.Cover = &types.Picture{
			Type: types.PictureFrontCover,
			Data: image,
		}
	}
	return snap, nil
}

// Write merges TITLE and ARTIST into the existing tags and, when a cover is
// given, replaces the embedded picture.
func (b *backend) Write(path string, edit types.Edit) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	tags := map[string][]string{
		taglib.Title:  {edit.Title},
		taglib.Artist: {edit.Artist},
	}
	// No Clear option: keys not named here are kept
	if err := taglib.WriteTags(abs, tags, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	if edit.Cover != nil {
		if err := taglib.WriteImage(abs, edit.Cover.Data); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
	}

	return nil
}

func first(tags map[string][]string, key string) *string {
	values, ok := tags[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
