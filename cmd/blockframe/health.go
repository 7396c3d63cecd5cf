package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crushr3sist/blockframe/internal/filestore"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check committed archives for corruption, repairing unless --scan-only is set",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("archive", "", "check only the archive with this name (default: every archive)")
	healthCmd.Flags().Bool("scan-only", false, "verify shard hashes without attempting repair")
}

func runHealth(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("archive")
	scanOnly, _ := cmd.Flags().GetBool("scan-only")
	fs := filestore.New(cfg)

	if scanOnly && name == "" {
		return runHealthScanAll(fs)
	}

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
		var err error
		var healthy, problem int
		if scanOnly {
			reports, scanErr := fs.HealthScan(context.Background())
			err = scanErr
			if err == nil {
				r := reports[file.ArchivePath]
				healthy, problem = r.Healthy, r.Unrecoverable
			}
		} else {
			report, repairErr := fs.Repair(context.Background(), file)
			err = repairErr
			if err == nil {
				healthy, problem = report.Healthy+report.Repaired, report.Unrecoverable
			}
		}
		if err != nil {
			return fmt.Errorf("blockframe: health %s: %w", file.Manifest.Name, err)
		}
		if problem > 0 {
			anyUnrecoverable = true
		}
		log.Infof("%s: healthy=%d unrecoverable=%d", file.Manifest.Name, healthy, problem)
		fmt.Printf("%s\thealthy=%d\tunrecoverable=%d\n", file.Manifest.Name, healthy, problem)
	}

	if anyUnrecoverable {
		os.Exit(1)
	}
	return nil
}

func runHealthScanAll(fs *filestore.FileStore) error {
	reports, err := fs.HealthScan(context.Background())
	if err != nil {
		return fmt.Errorf("blockframe: health scan: %w", err)
	}

	paths := make([]string, 0, len(reports))
	for p := range reports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var anyUnrecoverable bool
	for _, p := range paths {
		r := reports[p]
		if r.Unrecoverable > 0 {
			anyUnrecoverable = true
		}
		log.Infof("%s: healthy=%d unrecoverable=%d", p, r.Healthy, r.Unrecoverable)
		fmt.Printf("%s\thealthy=%d\tunrecoverable=%d\n", p, r.Healthy, r.Unrecoverable)
	}

	if anyUnrecoverable {
		os.Exit(1)
	}
	return nil
}
