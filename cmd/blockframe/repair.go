package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crushr3sist/blockframe/internal/filestore"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Verify and, where possible, repair committed archives from parity",
	Args:  cobra.NoArgs,
	RunE:  runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().String("archive", "", "repair only the archive with this name (default: every archive)")
}

func runRepair(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("archive")
	fs := filestore.New(cfg)

	var targets []filestore.File
	if name != "" {
		file, err := fs.Find(name)
		if err != nil {
			return fmt.Errorf("blockframe: %w", err)
		}
		targets = []filestore.File{*file}
	} else {
		all, err := fs.GetAll()
		if err != nil {
			return fmt.Errorf("blockframe: %w", err)
		}
		targets = all
	}

	var anyUnrecoverable bool
	for _, file := range targets {
		report, err := fs.Repair(context.Background(), file)
		if err != nil {
			return fmt.Errorf("blockframe: repair %s: %w", file.Manifest.Name, err)
		}

		log.Infof("%s: healthy=%d repaired=%d unrecoverable=%d",
			file.Manifest.Name, report.Healthy, report.Repaired, report.Unrecoverable)
		for _, u := range report.Units {
			if u.Status == filestore.UnitUnrecoverable {
				log.Warnf("  %s unit %d unrecoverable: %v", file.Manifest.Name, u.Index, u.Err)
			}
		}
		if report.Unrecoverable > 0 {
			anyUnrecoverable = true
		}
	}

	if anyUnrecoverable {
		os.Exit(1)
	}
	return nil
}
