package coverart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

// Accessor reads and writes the title, artist and cover of MP3 files
// through one tagging backend.
//
// An Accessor holds no per-file state; each call opens, reads or rewrites,
// and closes the file.
//
//	acc, err := coverart.New()
//	if err != nil {
//		return err
//	}
//	snap, err := acc.ReadTags("song.mp3")
type Accessor struct {
	backend      registry.Backend
	logger       *zap.Logger
	maxCoverSize int
}

// New returns an Accessor configured by opts.
//
// It fails with *UnknownBackendError if WithBackend names no registered
// backend.
func New(opts ...Option) (*Accessor, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	backend, err := registry.Get(options.backend)
	if err != nil {
		return nil, err
	}

	return &Accessor{
		backend:      backend,
		logger:       options.logger,
		maxCoverSize: options.maxCoverSize,
	}, nil
}

// Backend returns the name of the tagging backend in use.
func (a *Accessor) Backend() string {
	return a.backend.Name()
}

// ReadTags reads the title, artist and front cover of the MP3 at path.
//
// It fails with *FileNotFoundError if path does not exist. Missing frames
// are absent fields in the returned Snapshot, never errors, and a tag the
// backend cannot parse reads as an empty Snapshot. Any other backend
// failure is returned as *LibraryError.
//
// Example:
//
//	snap, err := acc.ReadTags("song.mp3")
//	if err != nil {
//		return err
//	}
//	fmt.Println(snap.TitleOr("song"), snap.ArtistOr("Unknown Artist"))
func (a *Accessor) ReadTags(path string) (Snapshot, error) {
	if err := checkExists(path, "mp3"); err != nil {
		a.logger.Error("file not found", zap.String("path", path))
		return Snapshot{}, err
	}

	snap, err := a.backend.Read(path)
	if err != nil {
		if errors.Is(err, types.ErrUnreadableTag) {
			a.logger.Warn("no readable ID3 tag", zap.String("path", path), zap.Error(err))
			return Snapshot{}, nil
		}
		a.logger.Error("error reading MP3 file", zap.String("path", path), zap.Error(err))
		return Snapshot{}, &LibraryError{Op: "read", Backend: a.backend.Name(), Path: path, Err: err}
	}

	a.finishCover(&snap, path)
	return snap, nil
}

// ReadTagsContext is ReadTags with a cancellation check before starting.
func (a *Accessor) ReadTagsContext(ctx context.Context, path string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return a.ReadTags(path)
}

// finishCover fills in a missing MIME type and applies the size limit.
func (a *Accessor) finishCover(snap *Snapshot, path string) {
	if snap.Cover == nil {
		a.logger.Debug("no cover art found", zap.String("path", path))
		return
	}

	if len(snap.Cover.Data) == 0 {
		snap.Cover = nil
		return
	}

	if a.maxCoverSize > 0 && len(snap.Cover.Data) > a.maxCoverSize {
		a.logger.Warn("cover exceeds size limit, ignoring",
			zap.String("path", path),
			zap.Int("size", len(snap.Cover.Data)),
			zap.Int("limit", a.maxCoverSize))
		snap.Cover = nil
		return
	}

	// APIC frames may carry "", "-->" (linked image) or a bare "jpg"
	if !strings.HasPrefix(snap.Cover.MIMEType, "image/") {
		snap.Cover.MIMEType = SniffMIME(snap.Cover.Data)
	}

	a.logger.Debug("found existing cover art",
		zap.String("path", path),
		zap.String("mime", snap.Cover.MIMEType),
		zap.Int("size", len(snap.Cover.Data)))
}

// checkExists reports a *FileNotFoundError when path does not exist.
func checkExists(path, role string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &FileNotFoundError{Path: path, Role: role}
	}
	return fmt.Errorf("stat %s: %w", path, err)
}

// ReadTags reads the tags of path with a one-off Accessor.
//
//	snap, err := coverart.ReadTags("song.mp3")
func ReadTags(path string, opts ...Option) (Snapshot, error) {
	acc, err := New(opts...)
	if err != nil {
		return Snapshot{}, err
	}
	return acc.ReadTags(path)
}

// ReadTagsContext is ReadTags with a cancellation check before starting.
func ReadTagsContext(ctx context.Context, path string, opts ...Option) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return ReadTags(path, opts...)
}
