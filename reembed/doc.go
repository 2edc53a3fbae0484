// Package reembed rebuilds the vector index with a new embedding model.
//
// Vectors produced by different embedding models live in different
// spaces, so after a model change the stored vectors silently stop being
// comparable to query vectors. Run walks every record in the index,
// re-embeds its content with retry and exponential backoff, normalizes
// the result, and writes it back in place.
package reembed
