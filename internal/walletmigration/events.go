package walletmigration

import (
	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/accounts"
)

const (
	accountStartedMessageConstant        = "Processing account"
	accountStageCompletedMessageConstant = "Account stage completed"
	accountStageFailedMessageConstant    = "Account stage failed"
	skippingMigrationMessageConstant     = "Skipping migration"
	logFieldStageConstant                = "stage"
	logFieldResultConstant               = "result"
	logFieldRecordAddressConstant        = "public_address"
)

// structuredEventLogger reports account lifecycle events as structured log entries.
type structuredEventLogger struct {
	logger *zap.Logger
}

func newStructuredEventLogger(logger *zap.Logger) *structuredEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &structuredEventLogger{logger: logger}
}

func (eventLogger *structuredEventLogger) AccountStarted(record accounts.Record) {
	eventLogger.logger.Debug(accountStartedMessageConstant, recordFields(record)...)
}

func (eventLogger *structuredEventLogger) AccountStageCompleted(record accounts.Record, stage accounts.Stage, result accounts.StageResult) {
	fields := append(recordFields(record),
		zap.String(logFieldStageConstant, string(stage)),
		zap.String(logFieldResultConstant, string(result)),
	)
	eventLogger.logger.Info(accountStageCompletedMessageConstant, fields...)
}

func (eventLogger *structuredEventLogger) AccountStageFailed(record accounts.Record, stage accounts.Stage, failure error) {
	fields := append(recordFields(record),
		zap.String(logFieldStageConstant, string(stage)),
		zap.Error(failure),
	)
	eventLogger.logger.Warn(accountStageFailedMessageConstant, fields...)
	if stage != accounts.StageMigrate {
		eventLogger.logger.Warn(skippingMigrationMessageConstant, recordFields(record)...)
	}
}

func recordFields(record accounts.Record) []zap.Field {
	return []zap.Field{
		zap.String(logFieldUserIDConstant, record.UserID),
		zap.String(logFieldDeviceIDConstant, record.DeviceID),
		zap.String(logFieldRecordAddressConstant, record.PublicAddress),
	}
}
