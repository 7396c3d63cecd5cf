package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushr3sist/blockframe/internal/config"
	"github.com/crushr3sist/blockframe/internal/manifest"
)

func TestLoadConfig_RequiresArchiveRoot(t *testing.T) {
	v := viper.New()
	_, err := config.LoadConfig(v)
	assert.Error(t, err)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	v := viper.New()
	v.Set("archive_root", "/tmp/archives")

	cfg, err := config.LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, int64(config.DefaultSegmentSize), cfg.SegmentSize)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestTierFor_BoundariesAreStrictlyHalfOpen(t *testing.T) {
	v := viper.New()
	v.Set("archive_root", "/tmp/archives")
	cfg, err := config.LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, manifest.Tier1, cfg.TierFor(cfg.Tier1Ceiling-1))
	assert.Equal(t, manifest.Tier2, cfg.TierFor(cfg.Tier1Ceiling))
	assert.Equal(t, manifest.Tier2, cfg.TierFor(cfg.Tier2Ceiling-1))
	assert.Equal(t, manifest.Tier3, cfg.TierFor(cfg.Tier2Ceiling))
}

func TestLoadConfig_RejectsBadTierCeilings(t *testing.T) {
	v := viper.New()
	v.Set("archive_root", "/tmp/archives")
	v.Set("tier2_ceiling", 100)
	v.Set("tier1_ceiling", 1000)

	_, err := config.LoadConfig(v)
	assert.Error(t, err)
}
