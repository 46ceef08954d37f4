package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/simonhull/coverart"
)

// VersionCommand prints build information and the available backends.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print version information",
		Action: func(c *cli.Context) error {
			info := coverart.GetVersionInfo()
			fmt.Fprintf(c.App.Writer, "coverart %s\n", info.Version)
			fmt.Fprintf(c.App.Writer, "  commit:   %s\n", info.GitCommit)
			fmt.Fprintf(c.App.Writer, "  built:    %s\n", info.BuildTime)
			fmt.Fprintf(c.App.Writer, "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(c.App.Writer, "  backends: %v\n", coverart.Backends())
			return nil
		},
	}
}
