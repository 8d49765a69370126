package accounts

// Stage names a step of the per-account migration.
type Stage string

// Migration stages in execution order.
const (
	StageOpen    Stage = Stage("open")
	StageRetire  Stage = Stage("retire")
	StageMigrate Stage = Stage("migrate")
)

// StageResult describes how a stage completed.
type StageResult string

// Stage results.
const (
	ResultOpened          StageResult = StageResult("opened")
	ResultRetired         StageResult = StageResult("retired")
	ResultAlreadyRetired  StageResult = StageResult("already_retired")
	ResultMigrated        StageResult = StageResult("migrated")
	ResultAlreadyMigrated StageResult = StageResult("already_migrated")
)

// EventObserver receives lifecycle notifications for each migrated account.
type EventObserver interface {
	// AccountStarted notifies observers that an account is about to be processed.
	AccountStarted(record Record)
	// AccountStageCompleted reports a stage that finished successfully.
	AccountStageCompleted(record Record, stage Stage, result StageResult)
	// AccountStageFailed reports a stage that failed and ended processing of the account.
	AccountStageFailed(record Record, stage Stage, failure error)
}

// NoopEventObserver discards all account events.
type NoopEventObserver struct{}

// AccountStarted implements EventObserver for the no-op observer.
func (NoopEventObserver) AccountStarted(Record) {}

// AccountStageCompleted implements EventObserver for the no-op observer.
func (NoopEventObserver) AccountStageCompleted(Record, Stage, StageResult) {}

// AccountStageFailed implements EventObserver for the no-op observer.
func (NoopEventObserver) AccountStageFailed(Record, Stage, error) {}
