package command

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/coverart/internal/dropzone"
	"github.com/simonhull/coverart/internal/editor"
)

// EditCommand starts an interactive editing session.
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "interactive editor fed by typed commands and a drop folder",
		ArgsUsage: "[file.mp3]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "drop-dir",
				Aliases: []string{"d"},
				Usage:   "watch `DIR` and load MP3s and images copied into it",
			},
		},
		Action: runEdit,
	}
}

func runEdit(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	ed := editor.New(env.Accessor,
		editor.WithLogger(env.Logger),
		editor.WithDefaultArtist(env.Config.DefaultArtist),
		editor.WithSaveOptions(env.Config.SaveOptions()...),
	)
	if c.NArg() > 0 {
		if _, err := ed.DropMP3(c.Args().First()); err != nil {
			return err
		}
	}

	dir := env.Config.Dropzone.Dir
	if c.IsSet("drop-dir") {
		dir = c.String("drop-dir")
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var drops chan []string
	if dir != "" {
		drops = make(chan []string)
		w := dropzone.New(dir,
			dropzone.WithLogger(env.Logger),
			dropzone.WithDebounce(env.Config.Dropzone.Debounce))
		g.Go(func() error {
			return w.Run(ctx, drops)
		})
		fmt.Fprintf(c.App.Writer, "Watching %s for dropped files\n", dir)
	}

	lines := readLines(ctx, c.App.Reader, env.Logger)
	g.Go(func() error {
		defer cancel()
		return editor.NewLoop(ed, c.App.Writer).Run(ctx, lines, drops)
	})

	return g.Wait()
}

// readLines delivers lines from r until EOF or ctx is done. The reader
// goroutine may outlive ctx while blocked on r.
func readLines(ctx context.Context, r io.Reader, logger *zap.Logger) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logger.Error("reading input", zap.Error(err))
		}
	}()
	return lines
}
