package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/batchprep-ml/batchprep/internal/cifar"
	"github.com/batchprep-ml/batchprep/internal/container"
	"github.com/batchprep-ml/batchprep/internal/dataset"
)

// prepareCmd builds the "prepare" subcommand: decode raw batches, normalize,
// one-hot encode, and save everything to a single container file.
func prepareCmd(logger *log.Logger) *cobra.Command {
	var (
		dataDir   string
		outPath   string
		precision string
		classes   int
		synthetic int
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Convert CIFAR-10 batches into a training-ready container file",
		RunE: func(_ *cobra.Command, _ []string) error {
			prec, err := dataset.ParsePrecision(precision)
			if err != nil {
				return err
			}
			cfg := dataset.Config{Precision: prec, NumClasses: classes}

			var train, test dataset.Split
			if synthetic > 0 {
				logger.Info("generating synthetic data", "samples", synthetic)
				train = cifar.Synthetic(synthetic, 1)
				test = cifar.Synthetic(synthetic/5, 2)
			} else {
				if err := cifar.CheckDataDir(dataDir); err != nil {
					return err
				}
				logger.Info("loading CIFAR-10 batches", "dir", dataDir)
				if train, err = cifar.LoadSplit(dataDir, true); err != nil {
					return err
				}
				if test, err = cifar.LoadSplit(dataDir, false); err != nil {
					return err
				}
			}
			logger.Debug("loaded splits", "train", train.Len(), "test", test.Len())

			preparedTrain, err := dataset.Prepare(train, cfg)
			if err != nil {
				return fmt.Errorf("failed to prepare train split: %w", err)
			}
			preparedTest, err := dataset.Prepare(test, cfg)
			if err != nil {
				return fmt.Errorf("failed to prepare test split: %w", err)
			}
			logger.Info("normalized splits",
				"train", train.Len(), "test", test.Len(), "precision", prec)

			metadata := map[string]string{
				"dataset":   "cifar10",
				"precision": prec.String(),
			}
			arrays := dataset.NamedArrays(preparedTrain, preparedTest)
			if err := container.Save(outPath, arrays, metadata); err != nil {
				return fmt.Errorf("failed to save container: %w", err)
			}
			logger.Info("wrote container", "path", outPath, "arrays", len(arrays))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data/cifar-10-batches-bin", "Directory with CIFAR-10 binary batch files")
	cmd.Flags().StringVarP(&outPath, "out", "o", "cifar10.bpak", "Output container path")
	cmd.Flags().StringVar(&precision, "precision", "single", "Float precision: single or double")
	cmd.Flags().IntVar(&classes, "classes", dataset.NumClasses, "Number of label categories")
	cmd.Flags().IntVar(&synthetic, "synthetic", 0, "Generate N synthetic samples instead of reading --data-dir")

	return cmd
}
