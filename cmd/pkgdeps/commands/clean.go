package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgdeps/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stored snapshots and cached registry manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _ := cmd.Flags().GetBool("store")
			cache, _ := cmd.Flags().GetBool("cache")

			opts := app.CleanOptions{
				Store: store,
				Cache: cache,
			}
			if !store && !cache {
				// Default behavior: clean everything
				opts.Store = true
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("store", "s", false, "Remove resolution snapshots only")
	cmd.Flags().BoolP("cache", "c", false, "Remove the registry manifest cache only")

	return cmd
}
