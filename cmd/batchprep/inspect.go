package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/batchprep-ml/batchprep/internal/container"
)

// inspectCmd builds the "inspect" subcommand: print a container's contents.
func inspectCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.bpak>",
		Short: "List the arrays stored in a container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reader, err := container.Open(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			header := reader.Header()
			logger.Debug("opened container",
				"version", header.FormatVersion, "created_at", header.CreatedAt)

			for key, value := range reader.Metadata() {
				fmt.Printf("# %s: %s\n", key, value)
			}
			for _, meta := range header.Arrays {
				fmt.Printf("%-12s %-8s %v  (%d bytes)\n", meta.Name, meta.DType, meta.Shape, meta.Size)
			}
			return nil
		},
	}
}
