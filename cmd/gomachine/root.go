package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gomachine/pkg/log"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "gomachine",
		Short: "gomachine - regression with k-nearest neighbors and friends",
		Long: `gomachine fits one of its regressors (KD-tree k-nearest neighbors,
mini-batch linear regression, a two-layer neural network or a multiway
regression tree) on CSV data and prints predictions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return log.SetupLoggerTo(cmd.ErrOrStderr(), logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newFitPredictCmd())
	root.AddCommand(newConfigCmd())
	return root
}
