package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/simonhull/coverart"
)

// ShowCommand prints the tags and audio properties of an MP3.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print title, artist, cover and audio properties",
		ArgsUsage: "<file.mp3>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "write the cover image to `FILE` (extension added if missing)",
			},
		},
		Action: runShow,
	}
}

func runShow(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	path, err := mp3Arg(c)
	if err != nil {
		return err
	}

	snap, err := env.Accessor.ReadTags(path)
	if err != nil {
		return err
	}

	info, err := coverart.Probe(path)
	if err != nil {
		env.Logger.Warn("could not read audio properties", zap.String("path", path), zap.Error(err))
	}
	printSnapshot(c.App.Writer, path, snap, info)

	if out := c.String("export"); out != "" {
		if !snap.HasCover() {
			return errors.New("no cover to export")
		}
		if filepath.Ext(out) == "" {
			out += coverart.ExtensionForMIME(snap.Cover.MIMEType)
		}
		if err := os.WriteFile(out, snap.Cover.Data, 0o644); err != nil {
			return fmt.Errorf("export cover: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Exported: %s\n", out)
	}
	return nil
}

func printSnapshot(w io.Writer, path string, snap coverart.Snapshot, info coverart.AudioInfo) {
	fmt.Fprintf(w, "File:   %s\n", path)
	fmt.Fprintf(w, "Title:  %s\n", optional(snap.Title))
	fmt.Fprintf(w, "Artist: %s\n", optional(snap.Artist))
	if snap.HasCover() {
		fmt.Fprintf(w, "Cover:  %s\n", snap.Cover)
	} else {
		fmt.Fprintln(w, "Cover:  (none)")
	}
	if info.Codec != "" {
		fmt.Fprintf(w, "Audio:  %s, %s\n", info, info.DurationString())
	}
}

func optional(s *string) string {
	if s == nil {
		return "(none)"
	}
	return fmt.Sprintf("%q", *s)
}
