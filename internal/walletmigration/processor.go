package walletmigration

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/accounts"
	"github.com/temirov/walletmigrate/internal/ledger"
	"github.com/temirov/walletmigrate/internal/migrationservice"
	"github.com/temirov/walletmigrate/internal/report"
)

const (
	addressMismatchMessageConstant = "Derived address differs from input row; migrating derived address"
	logFieldInputAddressConstant   = "input_address"
	logFieldDerivedAddressConstant = "derived_address"
	logFieldUserIDConstant         = "user_id"
	logFieldDeviceIDConstant       = "device_id"
)

// Migrator registers retired accounts with the migration service.
type Migrator interface {
	Migrate(executionContext context.Context, publicAddress string) (migrationservice.Response, error)
}

// AccountProcessor migrates a single account and records its outcome.
type AccountProcessor interface {
	Process(executionContext context.Context, record accounts.Record, memo Memo)
}

// ProcessorDependencies describes collaborators for Processor.
type ProcessorDependencies struct {
	Logger        *zap.Logger
	Opener        ledger.Opener
	Migrator      Migrator
	Aggregator    *Aggregator
	EventObserver accounts.EventObserver
}

// Processor runs the open, retire and migrate stages for one account at a time.
// It never returns an error; every outcome lands in the aggregator.
type Processor struct {
	logger     *zap.Logger
	opener     ledger.Opener
	migrator   Migrator
	aggregator *Aggregator
	observer   accounts.EventObserver
}

// NewProcessor validates dependencies and constructs a Processor.
func NewProcessor(dependencies ProcessorDependencies) (*Processor, error) {
	if dependencies.Opener == nil {
		return nil, errLedgerOpenerMissing
	}
	if dependencies.Migrator == nil {
		return nil, errMigratorMissing
	}
	if dependencies.Aggregator == nil {
		return nil, errAggregatorMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	observer := dependencies.EventObserver
	if observer == nil {
		observer = accounts.NoopEventObserver{}
	}

	return &Processor{
		logger:     logger,
		opener:     dependencies.Opener,
		migrator:   dependencies.Migrator,
		aggregator: dependencies.Aggregator,
		observer:   observer,
	}, nil
}

// Process migrates one account. Safe to call concurrently for distinct records.
func (processor *Processor) Process(executionContext context.Context, record accounts.Record, memo Memo) {
	processor.observer.AccountStarted(record)

	account, openError := processor.opener.Open(executionContext, record.Credential)
	if openError != nil {
		processor.aggregator.Record(BucketGetAccountFailed, record.Credential)
		processor.observer.AccountStageFailed(record, accounts.StageOpen, openError)
		return
	}
	processor.observer.AccountStageCompleted(record, accounts.StageOpen, accounts.ResultOpened)

	address := account.Address()
	if len(record.PublicAddress) > 0 && record.PublicAddress != address {
		processor.logger.Warn(
			addressMismatchMessageConstant,
			zap.String(logFieldUserIDConstant, record.UserID),
			zap.String(logFieldDeviceIDConstant, record.DeviceID),
			zap.String(logFieldInputAddressConstant, record.PublicAddress),
			zap.String(logFieldDerivedAddressConstant, address),
		)
	}

	if !processor.retire(executionContext, record, account, memo) {
		return
	}

	processor.migrate(executionContext, record, address)
}

// retire reports whether the account ended retired, recording the retirement bucket either way.
func (processor *Processor) retire(executionContext context.Context, record accounts.Record, account ledger.Account, memo Memo) bool {
	address := account.Address()

	retired, retiredError := account.IsRetired(executionContext)
	if retiredError != nil {
		processor.aggregator.Record(BucketBurnFailed, address)
		processor.observer.AccountStageFailed(record, accounts.StageRetire, retiredError)
		return false
	}
	if retired {
		processor.aggregator.Record(BucketAlreadyBurned, address)
		processor.observer.AccountStageCompleted(record, accounts.StageRetire, accounts.ResultAlreadyRetired)
		return true
	}

	accepted, retireError := account.Retire(executionContext, memo.String())
	if retireError != nil || !accepted {
		failure := retireError
		if failure == nil {
			failure = ErrRetirementRejected
		}
		processor.aggregator.Record(BucketBurnFailed, address)
		processor.observer.AccountStageFailed(record, accounts.StageRetire, failure)
		return false
	}

	processor.aggregator.Record(BucketBurned, address)
	processor.observer.AccountStageCompleted(record, accounts.StageRetire, accounts.ResultRetired)
	return true
}

func (processor *Processor) migrate(executionContext context.Context, record accounts.Record, address string) {
	response, migrateError := processor.migrator.Migrate(executionContext, address)
	if migrateError != nil {
		failure := report.MigrationFailure{Address: address, Error: migrateError.Error()}
		var unexpectedResponse migrationservice.UnexpectedResponseError
		if errors.As(migrateError, &unexpectedResponse) {
			failure.StatusCode = unexpectedResponse.StatusCode
			failure.Body = unexpectedResponse.RawBody
		}
		processor.aggregator.RecordMigrationFailure(failure)
		processor.observer.AccountStageFailed(record, accounts.StageMigrate, migrateError)
		return
	}

	if !response.Succeeded() {
		processor.aggregator.RecordMigrationFailure(report.MigrationFailure{
			Address:    address,
			StatusCode: response.StatusCode,
			Body:       response.RawBody,
		})
		processor.observer.AccountStageFailed(record, accounts.StageMigrate, MigrationRejectedError{
			Address:    address,
			StatusCode: response.StatusCode,
			Code:       response.Document.Code,
			Message:    response.Document.Message,
		})
		return
	}

	processor.aggregator.Record(BucketMigrationSucceeded, address)
	if response.Outcome == migrationservice.OutcomeAlreadyMigrated {
		processor.aggregator.Record(BucketAlreadyMigrated, address)
		processor.observer.AccountStageCompleted(record, accounts.StageMigrate, accounts.ResultAlreadyMigrated)
		return
	}
	processor.observer.AccountStageCompleted(record, accounts.StageMigrate, accounts.ResultMigrated)
}
