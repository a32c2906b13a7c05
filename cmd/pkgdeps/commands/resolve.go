package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgdeps/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [packages...]",
		Short: "Print the transitive dependencies of packages",
		Long: "Print the transitive dependencies of packages.\n" +
			"Without arguments the workspace's default requires are resolved.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Resolve(cmd.Context(), args, resolveOptions(cmd))
		},
	}
	addReportFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Resolve packages again whenever a manifest changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args, resolveOptions(cmd))
		},
	}
	addReportFlags(cmd)
	return cmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "o", "list", "Output format: list, tree or json")
	cmd.Flags().Bool("order", false, "Print package names in build order")
}

func resolveOptions(cmd *cobra.Command) app.ResolveOptions {
	format, _ := cmd.Flags().GetString("format")
	order, _ := cmd.Flags().GetBool("order")
	return app.ResolveOptions{
		Framework: frameworkFlag(cmd),
		Format:    format,
		Order:     order,
	}
}
