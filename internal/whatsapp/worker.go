package whatsapp

import (
	"context"
	"errors"
	"sync"

	"github.com/autowhapp/platform/pkg/logging"
)

// WorkerPool drains the inbound queue into the adapter with a bounded
// number of goroutines.
type WorkerPool struct {
	queue   *MemoryQueue
	adapter *Adapter
	count   int
	logger  *logging.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a pool of count workers.
func NewWorkerPool(queue *MemoryQueue, adapter *Adapter, count int, logger *logging.Logger) *WorkerPool {
	if count <= 0 {
		count = 2
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WorkerPool{queue: queue, adapter: adapter, count: count, logger: logger}
}

// Start launches the workers. They stop when ctx is canceled.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until all workers have exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	p.logger.Info("message worker started", "worker", id)
	for {
		msg, err := p.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				p.logger.Info("message worker stopping", "worker", id)
				return
			}
			p.logger.Error("queue receive failed", "error", err, "worker", id)
			continue
		}
		p.adapter.Handle(ctx, msg)
	}
}
