// Package summarize produces markdown summaries of uploaded documents.
//
// A summary is built from a structured analysis (title, main idea, key
// concepts, terms, main points, conclusion) obtained through JSON-mode
// generation. Oversized documents are summarized piecewise first. Failures
// degrade to a content-preview summary rather than an error, so document
// upload flows always have something to store.
package summarize
