package ui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/accounts"
)

const (
	accountStartedMessageTemplateConstant        = "Processing %s"
	accountOpenedMessageTemplateConstant         = "Loaded wallet %s for %s"
	walletBurnedMessageTemplateConstant          = "Burned wallet %s"
	walletAlreadyBurnedMessageTemplateConstant   = "Wallet %s already burned"
	walletMigratedMessageTemplateConstant        = "Wallet %s migrated successfully"
	walletAlreadyMigratedMessageTemplateConstant = "Wallet %s already migrated"
	stageCompletedMessageTemplateConstant        = "Wallet %s completed %s: %s"
	openFailedMessageTemplateConstant            = "Unable to load wallet for %s: %s"
	burnFailedMessageTemplateConstant            = "Burn failed for wallet %s: %s"
	migrationFailedMessageTemplateConstant       = "Migration failed for wallet %s: %s"
	stageFailedMessageTemplateConstant           = "Wallet %s failed %s: %s"
	skippingMigrationMessageTemplateConstant     = "Skipping migration for %s, wallet %s"
	unknownFailureMessageConstant                = "unknown error"
)

// AccountEventFormatter builds human-readable messages for account lifecycle events.
type AccountEventFormatter struct{}

// BuildStartedMessage formats the message describing an account about to be processed.
func (formatter AccountEventFormatter) BuildStartedMessage(record accounts.Record) string {
	return fmt.Sprintf(accountStartedMessageTemplateConstant, record.Label())
}

// BuildCompletedMessage formats the message describing a completed stage.
func (formatter AccountEventFormatter) BuildCompletedMessage(record accounts.Record, stage accounts.Stage, result accounts.StageResult) string {
	switch result {
	case accounts.ResultOpened:
		return fmt.Sprintf(accountOpenedMessageTemplateConstant, record.PublicAddress, record.Label())
	case accounts.ResultRetired:
		return fmt.Sprintf(walletBurnedMessageTemplateConstant, record.PublicAddress)
	case accounts.ResultAlreadyRetired:
		return fmt.Sprintf(walletAlreadyBurnedMessageTemplateConstant, record.PublicAddress)
	case accounts.ResultMigrated:
		return fmt.Sprintf(walletMigratedMessageTemplateConstant, record.PublicAddress)
	case accounts.ResultAlreadyMigrated:
		return fmt.Sprintf(walletAlreadyMigratedMessageTemplateConstant, record.PublicAddress)
	default:
		return fmt.Sprintf(stageCompletedMessageTemplateConstant, record.PublicAddress, stage, result)
	}
}

// BuildFailureMessage formats the message describing a failed stage.
func (formatter AccountEventFormatter) BuildFailureMessage(record accounts.Record, stage accounts.Stage, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	switch stage {
	case accounts.StageOpen:
		return fmt.Sprintf(openFailedMessageTemplateConstant, record.Label(), failureMessage)
	case accounts.StageRetire:
		return fmt.Sprintf(burnFailedMessageTemplateConstant, record.PublicAddress, failureMessage)
	case accounts.StageMigrate:
		return fmt.Sprintf(migrationFailedMessageTemplateConstant, record.PublicAddress, failureMessage)
	default:
		return fmt.Sprintf(stageFailedMessageTemplateConstant, record.PublicAddress, stage, failureMessage)
	}
}

// BuildSkippingMigrationMessage formats the message emitted when an account will not be migrated.
func (formatter AccountEventFormatter) BuildSkippingMigrationMessage(record accounts.Record) string {
	return fmt.Sprintf(skippingMigrationMessageTemplateConstant, record.Label(), record.PublicAddress)
}

// ConsoleAccountEventLogger renders account lifecycle events using a zap logger configured for human-readable output.
type ConsoleAccountEventLogger struct {
	logger    *zap.Logger
	formatter AccountEventFormatter
}

// NewConsoleAccountEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleAccountEventLogger(logger *zap.Logger) *ConsoleAccountEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleAccountEventLogger{logger: logger, formatter: AccountEventFormatter{}}
}

// AccountStarted implements accounts.EventObserver by logging at debug level.
func (eventLogger *ConsoleAccountEventLogger) AccountStarted(record accounts.Record) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildStartedMessage(record))
}

// AccountStageCompleted implements accounts.EventObserver. Opening is logged at debug level, other stages at info.
func (eventLogger *ConsoleAccountEventLogger) AccountStageCompleted(record accounts.Record, stage accounts.Stage, result accounts.StageResult) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.formatter.BuildCompletedMessage(record, stage, result)
	if stage == accounts.StageOpen {
		eventLogger.logger.Debug(message)
		return
	}
	eventLogger.logger.Info(message)
}

// AccountStageFailed implements accounts.EventObserver by logging failures and, before migration, the skip notice.
func (eventLogger *ConsoleAccountEventLogger) AccountStageFailed(record accounts.Record, stage accounts.Stage, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildFailureMessage(record, stage, failure))
	if stage != accounts.StageMigrate {
		eventLogger.logger.Error(eventLogger.formatter.BuildSkippingMigrationMessage(record))
	}
}
