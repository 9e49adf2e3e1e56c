package processor

import (
	"context"
	"time"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/pkg/logger"
)

// Processor is one pipeline stage.
// ⭐ SSOT: 모든 스테이지는 이 인터페이스를 구현
//
// Execute may add or overwrite attributes in the store; it must not modify
// store.Records().
type Processor interface {
	Name() string
	Execute(ctx context.Context, store *Store) error
}

// Chain runs processors strictly in order and stops at the first failure.
// A Chain is itself a Processor, so sub-pipelines nest as single stages.
type Chain struct {
	name       string
	processors []Processor
	logger     *logger.Logger
	results    []contracts.PipelineResult
}

// NewChain creates a chain
func NewChain(name string, log *logger.Logger, processors ...Processor) *Chain {
	if log == nil {
		log = logger.NewNop()
	}
	return &Chain{
		name:       name,
		processors: processors,
		logger:     log,
	}
}

// Add appends a processor and returns the chain
func (c *Chain) Add(p Processor) *Chain {
	c.processors = append(c.processors, p)
	return c
}

// Name returns the chain name
func (c *Chain) Name() string {
	return c.name
}

// Processors returns the member stages in execution order
func (c *Chain) Processors() []Processor {
	return c.processors
}

// Results returns the per-stage results of the last Execute
func (c *Chain) Results() []contracts.PipelineResult {
	return c.results
}

// Execute runs every member in order. The first error is returned as is;
// attributes written by earlier stages stay in the store.
func (c *Chain) Execute(ctx context.Context, store *Store) error {
	c.results = make([]contracts.PipelineResult, 0, len(c.processors))

	for _, p := range c.processors {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := c.logger.WithFields(map[string]interface{}{
			"chain": c.name,
			"stage": p.Name(),
		})
		log.Debug("Stage started")

		start := time.Now()
		err := p.Execute(ctx, store)
		result := contracts.PipelineResult{
			Stage:    contracts.Stage(p.Name()),
			Success:  err == nil,
			Duration: time.Since(start).Milliseconds(),
		}
		if err != nil {
			result.Error = err.Error()
			c.results = append(c.results, result)
			log.WithError(err).Error("Stage failed")
			return err
		}
		c.results = append(c.results, result)

		log.WithField("attributes", store.Len()).Debug("Stage completed")
	}

	return nil
}
