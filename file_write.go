package coverart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/coverart/internal/types"
)

// SaveTags writes title and artist into the MP3 at path and, if imagePath
// names an existing image, replaces its cover with that image.
//
// Title and artist are always overwritten. An empty imagePath, or one that
// does not exist, leaves the existing cover untouched. A new cover removes
// every existing picture frame and adds a single front cover whose MIME type
// follows the image extension (image/jpeg for anything unrecognised).
//
// The write is atomic: the MP3 is copied to a temporary file in the same
// directory, the backend rewrites the copy, and the copy is renamed over the
// original. If any step fails, the original file remains unchanged. With
// WithValidation the copy is checked before the rename, so a
// *ValidationError also leaves the original in place.
//
// Options can be provided to customize save behavior:
//
//	err := acc.SaveTags("song.mp3", "cover.png", "Title", "Artist",
//	    coverart.WithBackup(".bak"),
//	    coverart.WithValidation(),
//	)
//
// Returns *FileNotFoundError if path does not exist and *LibraryError if the
// backend fails to write.
func (a *Accessor) SaveTags(path, imagePath, title, artist string, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	if !options.version.Valid() {
		return fmt.Errorf("unsupported tag version %d", options.version)
	}

	if err := checkExists(path, "mp3"); err != nil {
		a.logger.Error("file not found", zap.String("path", path))
		return err
	}

	orig, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if imagePath != "" {
		if err := checkExists(imagePath, "image"); err != nil {
			a.logger.Warn("image not found, keeping existing cover",
				zap.String("image", imagePath))
			imagePath = ""
		} else if !IsImageExtension(imagePath) {
			a.logger.Warn("unrecognised image extension, assuming JPEG",
				zap.String("image", imagePath))
		}
	}

	// Temp file in the same directory for the atomic rename; TagLib picks the
	// file type from the extension, so keep it
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".coverart-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	edit := types.Edit{
		Title:   title,
		Artist:  artist,
		Version: options.version,
	}

	var g errgroup.Group
	g.Go(func() error {
		return copyFile(tempFile, path)
	})
	if imagePath != "" {
		g.Go(func() error {
			pic, err := a.loadPicture(imagePath, options.coverDescription)
			if err != nil {
				return err
			}
			edit.Cover = pic
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, orig.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := a.backend.Write(tempPath, edit); err != nil {
		a.logger.Error("error saving MP3 file", zap.String("path", path), zap.Error(err))
		return &LibraryError{Op: "write", Backend: a.backend.Name(), Path: path, Err: err}
	}

	if err := syncFile(tempPath); err != nil {
		return err
	}

	// Validate the rewritten copy before it replaces the original
	if options.validate {
		if err := validateWritten(tempPath, path, edit); err != nil {
			a.logger.Error("validation failed", zap.String("path", path), zap.Error(err))
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Handle backup option (rename original to backup before replace)
	if options.backupSuffix != "" {
		if err := os.Rename(path, path+options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if options.preserveModTime {
		_ = os.Chtimes(path, orig.ModTime(), orig.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if edit.Cover != nil {
		a.logger.Info("embedded cover",
			zap.String("path", path),
			zap.String("image", imagePath),
			zap.String("mime", edit.Cover.MIMEType))
	}
	a.logger.Info("updated metadata",
		zap.String("path", path),
		zap.String("title", title),
		zap.String("artist", artist),
		zap.Stringer("version", options.version))

	return nil
}

// SaveTagsContext is SaveTags with a cancellation check before starting.
func (a *Accessor) SaveTagsContext(ctx context.Context, path, imagePath, title, artist string, opts ...SaveOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.SaveTags(path, imagePath, title, artist, opts...)
}

// loadPicture reads an image file into a front-cover picture.
func (a *Accessor) loadPicture(imagePath, desc string) (*Picture, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	mime := MIMETypeForImage(imagePath)
	if sniffed := SniffMIME(data); sniffed != mime {
		a.logger.Warn("image content does not match extension",
			zap.String("image", imagePath),
			zap.String("extension_mime", mime),
			zap.String("content_mime", sniffed))
	}

	return &Picture{
		MIMEType:    mime,
		Description: desc,
		Type:        PictureFrontCover,
		Data:        data,
	}, nil
}

func copyFile(dst io.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close() //nolint:errcheck // Read-only

	if _, err := io.Copy(dst, in); err != nil {
		return fmt.Errorf("copy to temp file: %w", err)
	}
	return nil
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("sync temp file: %w", err)
	}
	return f.Close()
}

// SaveTags saves with a default Accessor.
//
//	err := coverart.SaveTags("song.mp3", "", "Title", "Artist")
func SaveTags(path, imagePath, title, artist string, opts ...SaveOption) error {
	acc, err := New()
	if err != nil {
		return err
	}
	return acc.SaveTags(path, imagePath, title, artist, opts...)
}

// SaveTagsContext is SaveTags with a cancellation check before starting.
func SaveTagsContext(ctx context.Context, path, imagePath, title, artist string, opts ...SaveOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveTags(path, imagePath, title, artist, opts...)
}
