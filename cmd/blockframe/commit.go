package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crushr3sist/blockframe/internal/chunker"
)

var commitCmd = &cobra.Command{
	Use:   "commit <file>",
	Short: "Commit a file into a tiered, erasure-coded archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().Bool("quiet", false, "suppress the progress bar")
}

func runCommit(cmd *cobra.Command, args []string) error {
	path := args[0]
	quiet, _ := cmd.Flags().GetBool("quiet")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("blockframe: %w", err)
	}

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.Default(100, "committing "+info.Name())
	}

	var lastPct int
	progress := func(done, total int) {
		if bar == nil || total == 0 {
			return
		}
		pct := done * 100 / total
		_ = bar.Add(pct - lastPct)
		lastPct = pct
	}

	ck := chunker.New(cfg)
	result, err := ck.Commit(context.Background(), path, progress)
	if err != nil {
		return fmt.Errorf("blockframe: commit: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	log.Infof("committed %s -> %s (tier %d)", info.Name(), result.ArchivePath, result.Manifest.Tier)
	fmt.Println(result.ArchivePath)
	return nil
}
