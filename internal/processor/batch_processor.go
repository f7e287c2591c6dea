package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comprice/server/internal/database"
	"comprice/server/internal/normalizer"
	"comprice/server/internal/queue"
)

// Options controls batching behavior.
type Options struct {
	// Number of concurrent batch processors
	WorkerCount int

	// Maximum number of retries for failed batches
	MaxRetries int

	// Delay between retries
	RetryDelay time.Duration
}

// DefaultOptions returns the settings used when the caller passes none.
func DefaultOptions() Options {
	return Options{
		WorkerCount: 2,
		MaxRetries:  3,
		RetryDelay:  5 * time.Second,
	}
}

// BatchProcessor consumes raw listing batches from the queue, runs them
// through the normalizer and upserts the result transactionally.
type BatchProcessor struct {
	db         *gorm.DB
	normalizer *normalizer.Normalizer
	queue      *queue.ListingQueue
	opts       Options
	logger     *logrus.Logger
	waitGroup  sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db *gorm.DB, q *queue.ListingQueue, opts Options, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:         db,
		normalizer: normalizer.NewNormalizer(logger),
		queue:      q,
		opts:       opts,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins processing batches from the queue
func (p *BatchProcessor) Start() {
	for i := 0; i < p.opts.WorkerCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// processLoop handles the continuous processing of batches
func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	p.queue.Subscribe(func(batch []normalizer.RawListing) error {
		return p.processBatch(batch)
	})
}

// processBatch normalizes and stores one batch with transaction and retry
// logic. Records that fail quality checks are stored anyway, flags and
// all; only storage errors trigger a retry.
func (p *BatchProcessor) processBatch(batch []normalizer.RawListing) error {
	comps := p.normalizer.NormalizeAll(batch)
	records := make([]*database.ListingRecord, len(comps))
	for i := range comps {
		records[i] = database.RecordFromComparable(&comps[i])
	}

	var err error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.opts.MaxRetries)
			time.Sleep(p.opts.RetryDelay)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertListings(tx, records); err != nil {
				return fmt.Errorf("failed to upsert listings batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d listings", len(records))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.opts.MaxRetries, err)
}
