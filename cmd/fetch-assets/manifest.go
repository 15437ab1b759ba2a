package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stemsplit/bundle/internal/config"
	"github.com/stemsplit/bundle/internal/stage"
)

// manifestCmd prints the built-in pins as an asset manifest, a starting
// point for --config.
func manifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the default asset manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.NewGenerator().Generate(stage.DefaultModel, stage.DefaultTools))
			return err
		},
	}
}
