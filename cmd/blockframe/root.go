// Command blockframe is BlockFrame's CLI surface: commit, repair, health,
// reconstruct, and inspect, built around a package-level rootCmd with
// persistent flags bound through viper in cobra.OnInitialize — scoped to a
// single local archive root rather than a remote bucket destination.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crushr3sist/blockframe/internal/config"
	"github.com/crushr3sist/blockframe/internal/logging"
)

var (
	v          = viper.New()
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "blockframe",
	Short: "Erasure-coded archival storage engine",
	Long:  "BlockFrame ingests files into tiered, erasure-coded archives and can detect, repair, and reconstruct them from surviving parity.",
}

func init() {
	cobra.OnInitialize(initConfig)
	setupFlags()
}

func setupFlags() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default is ./blockframe.yaml)")
	rootCmd.PersistentFlags().String("archive-root", "", "root directory holding committed archives (required)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64("segment-size", config.DefaultSegmentSize, "segment size in bytes")
	rootCmd.PersistentFlags().Int64("tier1-ceiling", config.DefaultTier1Ceiling, "tier 1/2 boundary in bytes")
	rootCmd.PersistentFlags().Int64("tier2-ceiling", config.DefaultTier2Ceiling, "tier 2/3 boundary in bytes")
	rootCmd.PersistentFlags().Int("worker-count", 0, "worker pool size (0 = logical CPU count)")

	_ = v.BindPFlag("archive_root", rootCmd.PersistentFlags().Lookup("archive-root"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("segment_size", rootCmd.PersistentFlags().Lookup("segment-size"))
	_ = v.BindPFlag("tier1_ceiling", rootCmd.PersistentFlags().Lookup("tier1-ceiling"))
	_ = v.BindPFlag("tier2_ceiling", rootCmd.PersistentFlags().Lookup("tier2-ceiling"))
	_ = v.BindPFlag("worker_count", rootCmd.PersistentFlags().Lookup("worker-count"))
}

func initConfig() {
	v.SetEnvPrefix("BLOCKFRAME")
	v.AutomaticEnv()

	path := configPath
	if path == "" {
		if _, err := os.Stat("blockframe.yaml"); err == nil {
			path = "blockframe.yaml"
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "blockframe: reading config file: %v\n", err)
		}
	}

	loaded, err := config.LoadConfig(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockframe: %v\n", err)
		os.Exit(2)
	}
	cfg = loaded

	logging.InitLogger(cfg)
	log.Debugf("loaded config: archive_root=%s segment_size=%d tier1_ceiling=%d tier2_ceiling=%d",
		cfg.ArchiveRoot, cfg.SegmentSize, cfg.Tier1Ceiling, cfg.Tier2Ceiling)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
