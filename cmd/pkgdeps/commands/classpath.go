package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgdeps/internal/app"
)

func (c *CLI) newClassPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classpath [packages...]",
		Short: "Print the class path of the resolved packages in build order",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.ClassPaths(cmd.Context(), args, app.ClassPathOptions{
				Framework: frameworkFlag(cmd),
			})
		},
	}
}
