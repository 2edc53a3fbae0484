package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = "recursive"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects overlap equal to chunk size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChunkSize = 100
		cfg.OverlapSize = 100
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects overlap larger than chunk size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChunkSize = 100
		cfg.OverlapSize = 150
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects non-positive chunk size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChunkSize = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects negative context window", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ContextWindow = -1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects sub batch not smaller than batch", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BatchSize = 10
		cfg.SubBatchSize = 10
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects unknown threshold for semantic strategy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = StrategySemantic
		cfg.Threshold = "median"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("ignores threshold for general strategy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Threshold = "median"
		assert.NoError(t, cfg.Validate())
	})
}
