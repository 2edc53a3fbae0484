// Package search retrieves stored chunks by semantic similarity.
package search
