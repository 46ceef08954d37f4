package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/simonhull/coverart"
)

const helpText = `Commands:
  mp3 <path>      load an MP3 file
  image <path>    choose a new cover image
  title <text>    set the title
  artist <text>   set the artist
  save            write title, artist and new cover
  show            print the current state
  export <path>   write the existing cover to a file
  help            print this help
  quit            leave the editor
`

// errQuit ends the loop without error.
var errQuit = errors.New("quit")

// Loop feeds typed commands and drop-folder events to one Editor from a
// single goroutine, rendering the view to out after every change.
type Loop struct {
	ed     *Editor
	out    io.Writer
	logger *zap.Logger
}

// NewLoop returns a loop driving ed.
func NewLoop(ed *Editor, out io.Writer) *Loop {
	return &Loop{ed: ed, out: out, logger: ed.logger}
}

// Run processes input until quit, ctx is done, or lines is closed.
// drops may be nil when no drop folder is watched.
func (l *Loop) Run(ctx context.Context, lines <-chan string, drops <-chan []string) error {
	l.render()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := l.command(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(l.out, "error: %v\n", err)
			}

		case paths := <-drops:
			l.drop(paths)

		case <-ctx.Done():
			return nil
		}
	}
}

// drop routes a batch of dropped files to the matching targets.
func (l *Loop) drop(paths []string) {
	changed := false
	if ok, err := l.ed.DropMP3(paths...); ok {
		changed = true
		if err != nil {
			fmt.Fprintf(l.out, "error: %v\n", err)
		}
	}
	if l.ed.DropImage(paths...) {
		changed = true
	}

	if !changed {
		l.logger.Debug("ignoring drop", zap.Strings("paths", paths))
		return
	}
	l.render()
}

func (l *Loop) command(line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		return nil
	case "mp3":
		ok, err := l.ed.DropMP3(arg)
		if !ok {
			return fmt.Errorf("not an MP3 file: %q", arg)
		}
		if err != nil {
			return err
		}
	case "image":
		if !l.ed.DropImage(arg) {
			return fmt.Errorf("not a JPEG or PNG file: %q", arg)
		}
	case "title":
		l.ed.SetTitle(arg)
	case "artist":
		l.ed.SetArtist(arg)
	case "save":
		if !l.ed.CanSave() {
			return errors.New("no MP3 loaded")
		}
		if err := l.ed.Save(); err != nil {
			return err
		}
	case "show":
	case "export":
		return l.export(arg)
	case "help", "?":
		fmt.Fprint(l.out, helpText)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}

	l.render()
	return nil
}

// export writes the cover shown from the MP3 to path. A path without an
// extension gets one matching the image type.
func (l *Loop) export(path string) error {
	if path == "" {
		return errors.New("export needs a file name")
	}
	pic := l.ed.Cover()
	if pic == nil {
		return errors.New("no existing cover to export")
	}
	if filepath.Ext(path) == "" {
		path += coverart.ExtensionForMIME(pic.MIMEType)
	}
	if err := os.WriteFile(path, pic.Data, 0o644); err != nil {
		return fmt.Errorf("export cover: %w", err)
	}
	fmt.Fprintf(l.out, "exported %s to %s\n", pic, path)
	return nil
}

func (l *Loop) render() {
	Render(l.out, l.ed.View())
}

// Render writes v as text.
func Render(w io.Writer, v View) {
	save := "disabled"
	if v.CanSave {
		save = "enabled"
	}

	fmt.Fprintf(w, "MP3:    %s\n", indent(v.MP3Label))
	fmt.Fprintf(w, "Title:  %s\n", v.Title)
	fmt.Fprintf(w, "Artist: %s\n", v.Artist)
	fmt.Fprintf(w, "Cover:  %s\n", indent(v.Cover.String()))
	fmt.Fprintf(w, "Save:   %s\n", save)
	if v.Message != "" {
		fmt.Fprintf(w, "%s\n", v.Message)
	}
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n        ")
}
