// Package config loads BlockFrame's runtime settings via viper, bound into
// cmd/blockframe's persistent flags, since BlockFrame's surface is a CLI
// with persistent flags rather than a long-running service reading cloud
// config once at boot. There is no AWS/GCS config to load here: BlockFrame
// never talks to a cloud SDK, so fields like AwsConfig, DynamoDBTable,
// S3BucketName, or ECDSA keys have no analogue in this package.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/manifest"
)

// Default tuning values, overridable via flags, environment variables
// (BLOCKFRAME_*), or a config file.
const (
	DefaultSegmentSize  = 32 << 20 // 32 MiB
	DefaultTier1Ceiling = 10 << 20 // 10 MiB
	DefaultTier2Ceiling = 1 << 30  // 1 GiB
	DefaultLogLevel     = "info"
)

// Config holds BlockFrame's tunable parameters.
type Config struct {
	LogLevel     string
	ArchiveRoot  string
	SegmentSize  int64
	Tier1Ceiling int64
	Tier2Ceiling int64
	WorkerCount  int
}

// LoadConfig builds a Config from v, a viper instance already populated by
// cmd/blockframe's flag binding, environment variables, and/or a config
// file. Defaults are applied for anything left unset.
func LoadConfig(v *viper.Viper) (*Config, error) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("segment_size", DefaultSegmentSize)
	v.SetDefault("tier1_ceiling", DefaultTier1Ceiling)
	v.SetDefault("tier2_ceiling", DefaultTier2Ceiling)
	v.SetDefault("worker_count", 0) // 0 means "use runtime.NumCPU()"

	archiveRoot := v.GetString("archive_root")
	if archiveRoot == "" {
		return nil, apperrors.ConfigNotSetError("archive_root")
	}

	cfg := &Config{
		LogLevel:     v.GetString("log_level"),
		ArchiveRoot:  archiveRoot,
		SegmentSize:  v.GetInt64("segment_size"),
		Tier1Ceiling: v.GetInt64("tier1_ceiling"),
		Tier2Ceiling: v.GetInt64("tier2_ceiling"),
		WorkerCount:  v.GetInt("worker_count"),
	}

	if cfg.SegmentSize <= 0 {
		return nil, fmt.Errorf("config: segment_size must be positive")
	}
	if cfg.Tier1Ceiling <= 0 || cfg.Tier2Ceiling <= cfg.Tier1Ceiling {
		return nil, fmt.Errorf("config: tier ceilings must be positive and increasing")
	}

	return cfg, nil
}

// TierFor selects the archival tier for a file of the given size, applying
// strict half-open bands: [0, tier1Ceiling) -> 1,
// [tier1Ceiling, tier2Ceiling) -> 2, [tier2Ceiling, inf) -> 3.
func (c *Config) TierFor(size int64) manifest.Tier {
	switch {
	case size < c.Tier1Ceiling:
		return manifest.Tier1
	case size < c.Tier2Ceiling:
		return manifest.Tier2
	default:
		return manifest.Tier3
	}
}
