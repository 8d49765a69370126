package migrationservice

import (
	"go.uber.org/zap"
)

// retryLogger adapts zap to the leveled logger interface of go-retryablehttp.
type retryLogger struct {
	sugaredLogger *zap.SugaredLogger
}

func newRetryLogger(logger *zap.Logger) *retryLogger {
	return &retryLogger{sugaredLogger: logger.Sugar()}
}

func (logger *retryLogger) Error(message string, keysAndValues ...interface{}) {
	logger.sugaredLogger.Errorw(message, keysAndValues...)
}

func (logger *retryLogger) Info(message string, keysAndValues ...interface{}) {
	logger.sugaredLogger.Infow(message, keysAndValues...)
}

func (logger *retryLogger) Debug(message string, keysAndValues ...interface{}) {
	logger.sugaredLogger.Debugw(message, keysAndValues...)
}

func (logger *retryLogger) Warn(message string, keysAndValues ...interface{}) {
	logger.sugaredLogger.Warnw(message, keysAndValues...)
}
