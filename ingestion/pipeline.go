package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Pipeline ingests documents concurrently through a bounded worker pool.
// Errors during async processing are logged but do not fail the enqueue.
type Pipeline struct {
	service *Service
	pool    *ants.Pool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline over the given service.
func NewPipeline(service *Service, opts ...PipelineOption) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		service: service,
		pool:    pool,
		logger:  slog.Default().With("component", "ingestion_pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Enqueue submits a document for asynchronous ingestion. The call returns
// as soon as the work is accepted; ingestion failures are logged by the
// worker rather than returned.
func (p *Pipeline) Enqueue(ctx context.Context, text string, metadata map[string]string) error {
	if p.pool.IsClosed() {
		return ErrPipelineClosed
	}

	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()

		if _, err := p.service.IngestDocument(ctx, text, metadata); err != nil {
			p.logger.Error("async ingestion failed", "error", err)
		}
	})
	if err != nil {
		p.wg.Done()
		return err
	}

	return nil
}

// Wait blocks until all enqueued documents have been processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release waits for in-flight work and shuts down the pool.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}
