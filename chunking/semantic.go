package chunking

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/docqa/core"
)

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)

// splitSemantic splits text at semantic breakpoints. Each sentence is
// embedded together with one neighbor on each side so that the distance
// series reflects topic shifts rather than sentence-local phrasing.
func (c *Chunker) splitSemantic(ctx context.Context, text string, metadata map[string]string, cfg Config) ([]*core.Chunk, error) {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []*core.Chunk{core.NewChunk(strings.TrimSpace(text), metadata, map[string]string{
			core.MetadataKeyChunkIndex: "0",
		})}, nil
	}

	grouped := make([]string, len(sentences))
	for i := range sentences {
		start := i - 1
		if start < 0 {
			start = 0
		}
		end := i + 2
		if end > len(sentences) {
			end = len(sentences)
		}
		grouped[i] = strings.Join(sentences[start:end], " ")
	}

	vectors, err := c.embedder.EmbedTexts(ctx, grouped)
	if err != nil {
		return nil, err
	}

	distances := make([]float64, len(vectors)-1)
	for i := 0; i < len(vectors)-1; i++ {
		distances[i] = 1.0 - cosineSimilarity(vectors[i], vectors[i+1])
	}

	threshold := breakpointThreshold(distances, cfg.Threshold)

	series := distances
	if cfg.Threshold == ThresholdGradient {
		series = gradient(distances)
	}

	chunks := make([]*core.Chunk, 0)
	start := 0
	index := 0
	for i, d := range series {
		if d > threshold {
			content := strings.Join(sentences[start:i+1], " ")
			chunks = append(chunks, core.NewChunk(content, metadata, map[string]string{
				core.MetadataKeyChunkIndex: strconv.Itoa(index),
			}))
			start = i + 1
			index++
		}
	}
	content := strings.Join(sentences[start:], " ")
	chunks = append(chunks, core.NewChunk(content, metadata, map[string]string{
		core.MetadataKeyChunkIndex: strconv.Itoa(index),
	}))

	return chunks, nil
}

// splitSentences tokenizes text into trimmed sentences. Text with no
// terminal punctuation yields a single sentence.
func splitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	if len(raw) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// breakpointThreshold derives the distance threshold above which a gap
// between sentences is treated as a topic boundary.
func breakpointThreshold(distances []float64, method ThresholdType) float64 {
	if len(distances) == 0 {
		return 0
	}

	switch method {
	case ThresholdStandardDeviation:
		m := mean(distances)
		return m + 3*stddev(distances, m)
	case ThresholdInterquartile:
		q1 := percentile(distances, 25)
		q3 := percentile(distances, 75)
		return mean(distances) + 1.5*(q3-q1)
	case ThresholdGradient:
		return percentile(gradient(distances), 95)
	default:
		return percentile(distances, 95)
	}
}

// gradient returns the first-order central differences of the series,
// with one-sided differences at the edges.
func gradient(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return append([]float64(nil), series...)
	}

	out := make([]float64, n)
	out[0] = series[1] - series[0]
	out[n-1] = series[n-1] - series[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (series[i+1] - series[i-1]) / 2
	}
	return out
}

// percentile computes the p-th percentile with linear interpolation.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
