package walletmigration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/accounts"
	"github.com/temirov/walletmigrate/internal/ledger"
	"github.com/temirov/walletmigrate/internal/network"
	"github.com/temirov/walletmigrate/internal/report"
)

const (
	runStartedMessageConstant     = "Starting wallet migration"
	runCompletedMessageConstant   = "Wallet migration completed"
	runInterruptedMessageConstant = "Wallet migration interrupted"
	logFieldRunIDConstant         = "run_id"
	logFieldEnvironmentConstant   = "environment"
	logFieldInputFileConstant     = "input_file"
	logFieldLedgerHostConstant    = "ledger_host"
	logFieldMemoConstant          = "memo"
	logFieldTotalAccountsConstant = "total_accounts"
	logFieldTotalRunTimeConstant  = "total_run_time"
	logFieldFailureCountConstant  = "failure_count"
)

// MigrationExecutor runs a migration over a set of accounts.
type MigrationExecutor interface {
	Execute(executionContext context.Context, options RunOptions) (report.RunResult, error)
}

// ServiceDependencies describes required collaborators for a migration run.
type ServiceDependencies struct {
	Logger         *zap.Logger
	Opener         ledger.Opener
	Migrator       Migrator
	EventObserver  accounts.EventObserver
	Sleeper        Sleeper
	Clock          func() time.Time
	RunIDGenerator func() string
}

// RunOptions configures a single migration run.
type RunOptions struct {
	Environment   network.Environment
	LedgerHost    string
	InputFile     string
	ApplicationID string
	Records       []accounts.Record
	BatchSize     int
	BatchDelay    time.Duration
}

// Service wires the processor, scheduler and aggregator for each run.
type Service struct {
	logger         *zap.Logger
	opener         ledger.Opener
	migrator       Migrator
	observer       accounts.EventObserver
	sleeper        Sleeper
	clock          func() time.Time
	runIDGenerator func() string
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Opener == nil {
		return nil, errLedgerOpenerMissing
	}
	if dependencies.Migrator == nil {
		return nil, errMigratorMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := dependencies.EventObserver
	if observer == nil {
		observer = newStructuredEventLogger(logger)
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}
	runIDGenerator := dependencies.RunIDGenerator
	if runIDGenerator == nil {
		runIDGenerator = uuid.NewString
	}

	return &Service{
		logger:         logger,
		opener:         dependencies.Opener,
		migrator:       dependencies.Migrator,
		observer:       observer,
		sleeper:        dependencies.Sleeper,
		clock:          clock,
		runIDGenerator: runIDGenerator,
	}, nil
}

// Execute migrates every record and returns the run summary. Per-account
// failures are reported in the result, not as an error. An error is returned
// for invalid options, or alongside a partial result when the context ends
// between batches.
func (service *Service) Execute(executionContext context.Context, options RunOptions) (report.RunResult, error) {
	memo, memoError := NewMemo(options.ApplicationID)
	if memoError != nil {
		return report.RunResult{}, memoError
	}

	aggregator := NewAggregator()
	processor, processorError := NewProcessor(ProcessorDependencies{
		Logger:        service.logger,
		Opener:        service.opener,
		Migrator:      service.migrator,
		Aggregator:    aggregator,
		EventObserver: service.observer,
	})
	if processorError != nil {
		return report.RunResult{}, processorError
	}

	scheduler, schedulerError := NewScheduler(SchedulerDependencies{
		Logger:     service.logger,
		Processor:  processor,
		Sleeper:    service.sleeper,
		Clock:      service.clock,
		BatchSize:  options.BatchSize,
		BatchDelay: options.BatchDelay,
	})
	if schedulerError != nil {
		return report.RunResult{}, schedulerError
	}

	runID := service.runIDGenerator()
	runLogger := service.logger.With(zap.String(logFieldRunIDConstant, runID))
	batchCount := scheduler.BatchCount(len(options.Records))

	runLogger.Info(
		runStartedMessageConstant,
		zap.String(logFieldEnvironmentConstant, options.Environment.String()),
		zap.String(logFieldInputFileConstant, options.InputFile),
		zap.String(logFieldLedgerHostConstant, options.LedgerHost),
		zap.String(logFieldMemoConstant, memo.String()),
		zap.Int(logFieldTotalAccountsConstant, len(options.Records)),
		zap.Int(logFieldBatchCountConstant, batchCount),
	)

	startedAt := service.clock()
	runError := scheduler.Run(executionContext, options.Records, memo)
	duration := service.clock().Sub(startedAt)

	statistics := aggregator.Snapshot()
	result := report.RunResult{
		RunID:         runID,
		Environment:   options.Environment.String(),
		LedgerHost:    options.LedgerHost,
		InputFile:     options.InputFile,
		Memo:          memo.String(),
		TotalAccounts: len(options.Records),
		BatchCount:    batchCount,
		StartedAt:     startedAt,
		Duration:      duration,
		Statistics:    statistics,
		Failures:      aggregator.FailureReport(),
	}

	if runError != nil {
		runLogger.Warn(runInterruptedMessageConstant, zap.Duration(logFieldTotalRunTimeConstant, duration), zap.Error(runError))
		return result, runError
	}

	runLogger.Info(
		runCompletedMessageConstant,
		zap.Duration(logFieldTotalRunTimeConstant, duration),
		zap.Int(logFieldFailureCountConstant, statistics.FailureCount()),
	)

	return result, nil
}
