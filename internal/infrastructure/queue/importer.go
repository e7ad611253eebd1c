// Package queue runs bulk transaction writes on a fixed pool of workers.
package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// TransactionCreator is the write side the importer drives.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, in domain.TransactionInput) (*domain.TransactionResult, error)
}

// Job is one transaction to create. Line identifies it in results.
type Job struct {
	Line  int
	Input domain.TransactionInput
}

// Result is the outcome of one Job. Transaction is nil when Err is set.
type Result struct {
	Line        int
	Transaction *domain.Transaction
	Err         error
}

// Importer creates transactions concurrently, bounding the number of requests
// in flight to the finance service.
type Importer struct {
	workers int
	creator TransactionCreator
	log     zerolog.Logger
}

// NewImporter creates an Importer with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewImporter(numWorkers int, creator TransactionCreator, log zerolog.Logger) *Importer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Importer{workers: numWorkers, creator: creator, log: log}
}

// Run creates every job and returns one Result per job, in job order. Jobs not
// started before ctx is cancelled report ctx.Err().
func (im *Importer) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	for i, j := range jobs {
		results[i] = Result{Line: j.Line, Err: context.Canceled}
	}

	ch := make(chan int, channelBuffer)
	var wg sync.WaitGroup
	for w := 0; w < im.workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			im.runWorker(ctx, id, jobs, results, ch)
		}(w)
	}

feed:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case ch <- i:
		}
	}
	close(ch)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Err == context.Canceled {
				results[i].Err = err
			}
		}
	}
	return results
}

// runWorker owns results[i] for every index it receives.
func (im *Importer) runWorker(ctx context.Context, id int, jobs []Job, results []Result, ch <-chan int) {
	for i := range ch {
		if ctx.Err() != nil {
			continue
		}
		job := jobs[i]
		res, err := im.creator.CreateTransaction(ctx, job.Input)
		if err != nil {
			im.log.Error().Err(err).
				Int("line", job.Line).
				Int("worker_id", id).
				Msg("transaction import failed")
			results[i] = Result{Line: job.Line, Err: err}
			continue
		}
		results[i] = Result{Line: job.Line}
		if res != nil {
			results[i].Transaction = res.Transaction
		}
	}
}
