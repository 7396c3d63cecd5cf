package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crushr3sist/blockframe/internal/filestore"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <name>",
	Short: "Reassemble a committed archive's original file, verifying its hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runReconstruct,
}

func init() {
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	name := args[0]
	fs := filestore.New(cfg)

	file, err := fs.Find(name)
	if err != nil {
		return fmt.Errorf("blockframe: %w", err)
	}

	outPath, err := fs.Reconstruct(*file)
	if err != nil {
		return fmt.Errorf("blockframe: reconstruct: %w", err)
	}

	log.Infof("reconstructed %s -> %s", name, outPath)
	fmt.Println(outPath)
	return nil
}
