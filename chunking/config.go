package chunking

import "fmt"

// Strategy selects how documents are split into chunks.
type Strategy string

const (
	// StrategyGeneral splits text by character count with overlap and
	// context-window augmentation.
	StrategyGeneral Strategy = "general"

	// StrategySemantic splits text at semantic breakpoints detected from
	// embedding distances between adjacent sentences.
	StrategySemantic Strategy = "semantic"
)

// ThresholdType selects how the semantic strategy derives its breakpoint
// threshold from the distribution of sentence distances.
type ThresholdType string

const (
	// ThresholdPercentile places breakpoints above the 95th percentile
	// of distances.
	ThresholdPercentile ThresholdType = "percentile"

	// ThresholdStandardDeviation places breakpoints above mean + 3 standard
	// deviations.
	ThresholdStandardDeviation ThresholdType = "standard_deviation"

	// ThresholdInterquartile places breakpoints above mean + 1.5 IQR.
	ThresholdInterquartile ThresholdType = "interquartile"

	// ThresholdGradient applies the percentile method to the gradient of
	// the distance series instead of the distances themselves.
	ThresholdGradient ThresholdType = "gradient"
)

// Default chunking parameters.
const (
	DefaultChunkSize     = 500
	DefaultOverlapSize   = 50
	DefaultContextWindow = 1
	DefaultBatchSize     = 50
	DefaultSubBatchSize  = 10
)

// Config holds the parameters for document splitting.
type Config struct {
	// Strategy selects the splitting algorithm.
	Strategy Strategy `yaml:"strategy"`

	// ChunkSize is the target chunk length in characters (general strategy).
	ChunkSize int `yaml:"chunk_size"`

	// OverlapSize is how many characters adjacent base chunks share.
	// Must be strictly smaller than ChunkSize.
	OverlapSize int `yaml:"overlap_size"`

	// ContextWindow is how many neighboring base chunks are joined onto
	// each chunk on either side.
	ContextWindow int `yaml:"context_window"`

	// BatchSize is how many chunks are embedded and written per batch.
	BatchSize int `yaml:"batch_size"`

	// SubBatchSize is the fallback batch size when a full batch fails.
	// Must be strictly smaller than BatchSize.
	SubBatchSize int `yaml:"sub_batch_size"`

	// Threshold selects the breakpoint method for the semantic strategy.
	Threshold ThresholdType `yaml:"threshold"`
}

// DefaultConfig returns a chunking configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyGeneral,
		ChunkSize:     DefaultChunkSize,
		OverlapSize:   DefaultOverlapSize,
		ContextWindow: DefaultContextWindow,
		BatchSize:     DefaultBatchSize,
		SubBatchSize:  DefaultSubBatchSize,
		Threshold:     ThresholdPercentile,
	}
}

// Validate checks the configuration invariants. Violations are rejected here,
// at load time, rather than surfacing as surprises mid-ingestion.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyGeneral, StrategySemantic:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.OverlapSize < 0 {
		return fmt.Errorf("%w: overlap_size must not be negative, got %d", ErrInvalidConfig, c.OverlapSize)
	}
	if c.OverlapSize >= c.ChunkSize {
		return fmt.Errorf("%w: overlap_size %d must be smaller than chunk_size %d",
			ErrInvalidConfig, c.OverlapSize, c.ChunkSize)
	}
	if c.ContextWindow < 0 {
		return fmt.Errorf("%w: context_window must not be negative, got %d", ErrInvalidConfig, c.ContextWindow)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.SubBatchSize <= 0 {
		return fmt.Errorf("%w: sub_batch_size must be positive, got %d", ErrInvalidConfig, c.SubBatchSize)
	}
	if c.SubBatchSize >= c.BatchSize {
		return fmt.Errorf("%w: sub_batch_size %d must be smaller than batch_size %d",
			ErrInvalidConfig, c.SubBatchSize, c.BatchSize)
	}

	if c.Strategy == StrategySemantic {
		switch c.Threshold {
		case ThresholdPercentile, ThresholdStandardDeviation, ThresholdInterquartile, ThresholdGradient:
		default:
			return fmt.Errorf("%w: unknown threshold type %q", ErrInvalidConfig, c.Threshold)
		}
	}

	return nil
}
