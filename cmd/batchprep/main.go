// Package main provides the batchprep CLI: prepare a CIFAR-10 dataset for
// training and inspect the resulting container files.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	rootCmd := &cobra.Command{
		Use:     "batchprep",
		Short:   "batchprep - image dataset preparation for training pipelines",
		Long:    "Converts raw CIFAR-10 batches into normalized, one-hot encoded arrays\nand persists them in a single .bpak container file.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(prepareCmd(logger))
	rootCmd.AddCommand(inspectCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}
