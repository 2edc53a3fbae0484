package chunking

import (
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/poiesic/docqa/core"
)

// splitGeneral performs recursive character splitting and then widens each
// base segment with its neighbors. The widened chunk embeds better because
// it carries the surrounding context, while the base segments keep the
// overlap guarantee.
func (c *Chunker) splitGeneral(text string, metadata map[string]string, cfg Config) ([]*core.Chunk, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.OverlapSize),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
	)

	segments, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]*core.Chunk, 0, len(segments))
	for i := range segments {
		start := i - cfg.ContextWindow
		if start < 0 {
			start = 0
		}
		end := i + cfg.ContextWindow + 1
		if end > len(segments) {
			end = len(segments)
		}

		content := strings.Join(segments[start:end], "\n")
		chunks = append(chunks, core.NewChunk(content, metadata, map[string]string{
			core.MetadataKeyChunkIndex: strconv.Itoa(i),
		}))
	}

	return chunks, nil
}
