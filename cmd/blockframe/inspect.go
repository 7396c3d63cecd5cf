package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crushr3sist/blockframe/internal/filestore"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Print a committed archive's manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	name := args[0]
	fs := filestore.New(cfg)

	m, err := fs.Inspect(name)
	if err != nil {
		return fmt.Errorf("blockframe: %w", err)
	}

	out, err := m.Serialize()
	if err != nil {
		return fmt.Errorf("blockframe: serialize manifest: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
