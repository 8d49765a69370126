package walletmigration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/walletmigrate/internal/accounts"
)

const (
	batchStartedMessageConstant      = "Starting migration batch"
	batchCompletedMessageConstant    = "Migration batch completed"
	batchDelayMessageConstant        = "Waiting before next batch"
	logFieldBatchIndexConstant       = "batch_index"
	logFieldBatchCountConstant       = "batch_count"
	logFieldBatchSizeConstant        = "batch_size"
	logFieldElapsedConstant          = "elapsed"
	logFieldDelayConstant            = "delay"
	batchSizeFieldNameConstant       = "batch_size"
	batchDelayFieldNameConstant      = "batch_delay"
	positiveValueMessageConstant     = "must be positive"
	negativeValueMessageConstant     = "must not be negative"
	batchInterruptedTemplateConstant = "migration interrupted after %d of %d batches: %v"
)

// BatchInterruptedError reports a run stopped between batches.
type BatchInterruptedError struct {
	CompletedBatches int
	TotalBatches     int
	Cause            error
}

// Error describes the interruption.
func (interruptedError BatchInterruptedError) Error() string {
	return fmt.Sprintf(batchInterruptedTemplateConstant, interruptedError.CompletedBatches, interruptedError.TotalBatches, interruptedError.Cause)
}

// Unwrap exposes the underlying cause.
func (interruptedError BatchInterruptedError) Unwrap() error {
	return interruptedError.Cause
}

// Sleeper waits for a duration or until the context ends.
type Sleeper func(executionContext context.Context, duration time.Duration) error

// SleepContext is the default Sleeper backed by a timer.
func SleepContext(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return executionContext.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}

// SchedulerDependencies describes collaborators and settings for Scheduler.
type SchedulerDependencies struct {
	Logger     *zap.Logger
	Processor  AccountProcessor
	Sleeper    Sleeper
	Clock      func() time.Time
	BatchSize  int
	BatchDelay time.Duration
}

// Scheduler feeds accounts to a processor in sequential batches.
type Scheduler struct {
	logger     *zap.Logger
	processor  AccountProcessor
	sleeper    Sleeper
	clock      func() time.Time
	batchSize  int
	batchDelay time.Duration
}

// NewScheduler validates dependencies and constructs a Scheduler.
func NewScheduler(dependencies SchedulerDependencies) (*Scheduler, error) {
	if dependencies.Processor == nil {
		return nil, errAccountProcessorMissing
	}
	if dependencies.BatchSize <= 0 {
		return nil, InvalidInputError{FieldName: batchSizeFieldNameConstant, Message: positiveValueMessageConstant}
	}
	if dependencies.BatchDelay < 0 {
		return nil, InvalidInputError{FieldName: batchDelayFieldNameConstant, Message: negativeValueMessageConstant}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sleeper := dependencies.Sleeper
	if sleeper == nil {
		sleeper = SleepContext
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		logger:     logger,
		processor:  dependencies.Processor,
		sleeper:    sleeper,
		clock:      clock,
		batchSize:  dependencies.BatchSize,
		batchDelay: dependencies.BatchDelay,
	}, nil
}

// PartitionBatches splits records into contiguous slices of at most batchSize, preserving order.
func PartitionBatches(records []accounts.Record, batchSize int) [][]accounts.Record {
	if batchSize <= 0 || len(records) == 0 {
		return nil
	}
	batches := make([][]accounts.Record, 0, (len(records)+batchSize-1)/batchSize)
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// BatchCount returns how many batches Run will process for recordCount accounts.
func (scheduler *Scheduler) BatchCount(recordCount int) int {
	if recordCount <= 0 {
		return 0
	}
	return (recordCount + scheduler.batchSize - 1) / scheduler.batchSize
}

// Run processes every batch in order. All accounts of a batch run concurrently
// and the next batch starts after all of them finish and the delay elapses.
// No delay follows the last batch. An error is returned only when the context
// ends during a delay.
func (scheduler *Scheduler) Run(executionContext context.Context, records []accounts.Record, memo Memo) error {
	batches := PartitionBatches(records, scheduler.batchSize)
	for batchIndex, batch := range batches {
		scheduler.runBatch(executionContext, batchIndex, len(batches), batch, memo)

		if batchIndex == len(batches)-1 {
			break
		}

		scheduler.logger.Debug(batchDelayMessageConstant, zap.Duration(logFieldDelayConstant, scheduler.batchDelay))
		if sleepError := scheduler.sleeper(executionContext, scheduler.batchDelay); sleepError != nil {
			return BatchInterruptedError{CompletedBatches: batchIndex + 1, TotalBatches: len(batches), Cause: sleepError}
		}
	}
	return nil
}

func (scheduler *Scheduler) runBatch(executionContext context.Context, batchIndex int, batchCount int, batch []accounts.Record, memo Memo) {
	batchStart := scheduler.clock()
	scheduler.logger.Info(
		batchStartedMessageConstant,
		zap.Int(logFieldBatchIndexConstant, batchIndex+1),
		zap.Int(logFieldBatchCountConstant, batchCount),
		zap.Int(logFieldBatchSizeConstant, len(batch)),
	)

	var group errgroup.Group
	for _, record := range batch {
		group.Go(func() error {
			scheduler.processor.Process(executionContext, record, memo)
			return nil
		})
	}
	_ = group.Wait()

	scheduler.logger.Info(
		batchCompletedMessageConstant,
		zap.Int(logFieldBatchIndexConstant, batchIndex+1),
		zap.Int(logFieldBatchSizeConstant, len(batch)),
		zap.Duration(logFieldElapsedConstant, scheduler.clock().Sub(batchStart)),
	)
}
