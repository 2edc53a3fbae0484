// Package pipeline runs user queries through the question-answering flow.
//
// A run moves through an explicit state machine: moderation, retrieval,
// relevance judgment, answer generation. The two failure policies differ
// deliberately. Moderation fails open, since a moderation outage should
// degrade safety screening rather than block every query. Relevance fails
// closed, since an unusable verdict must produce the honest "nothing
// found" message rather than an answer grounded in noise.
//
// Invoke never returns an error. Every failure mode, including panics in
// a stage, terminates in a fixed or templated user-facing answer, and the
// cause is kept on the run state for observability.
package pipeline
