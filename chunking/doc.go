// Package chunking splits documents into retrieval-sized chunks.
//
// Two strategies are available. The general strategy performs recursive
// character splitting with overlap, then widens each base segment with its
// neighboring segments so the stored chunk carries surrounding context.
// The semantic strategy embeds sentences and cuts the document where the
// embedding distance between adjacent sentences spikes, using one of four
// statistical breakpoint methods.
//
// Chunks preserve document order and each carries a copy of the source
// metadata extended with its chunk index.
package chunking
