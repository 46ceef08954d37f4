package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/simonhull/coverart"
)

// SaveCommand writes title, artist and optionally a new cover.
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "write title and artist, and optionally a new cover image",
		ArgsUsage: "<file.mp3>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "title to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "artist to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "JPEG or PNG `FILE` replacing the cover",
			},
			&cli.StringFlag{
				Name:  "backup",
				Usage: "keep the original with this `SUFFIX` (e.g. .bak)",
			},
			&cli.BoolFlag{
				Name:  "validate",
				Usage: "re-read the file after saving and compare",
			},
			&cli.BoolFlag{
				Name:  "preserve-mtime",
				Usage: "keep the original modification time",
			},
			&cli.IntFlag{
				Name:  "tag-version",
				Usage: "ID3v2 version to write: 3 or 4",
			},
		},
		Action: runSave,
	}
}

func runSave(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	path, err := mp3Arg(c)
	if err != nil {
		return err
	}

	opts, err := saveOptions(c, env)
	if err != nil {
		return err
	}

	if err := env.Accessor.SaveTags(path, c.String("image"), c.String("title"), c.String("artist"), opts...); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Saved %s\n", path)
	return nil
}

// saveOptions layers command flags over the configured save defaults.
func saveOptions(c *cli.Context, env *Env) ([]coverart.SaveOption, error) {
	opts := env.Config.SaveOptions()

	if c.IsSet("backup") {
		opts = append(opts, coverart.WithBackup(c.String("backup")))
	}
	if c.Bool("validate") {
		opts = append(opts, coverart.WithValidation())
	}
	if c.Bool("preserve-mtime") {
		opts = append(opts, coverart.WithPreserveModTime())
	}
	if c.IsSet("tag-version") {
		v := coverart.TagVersion(c.Int("tag-version"))
		if !v.Valid() {
			return nil, fmt.Errorf("--tag-version %d: want 3 or 4", v)
		}
		opts = append(opts, coverart.WithTagVersion(v))
	}
	return opts, nil
}
