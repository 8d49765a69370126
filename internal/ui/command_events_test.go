package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/walletmigrate/internal/accounts"
	"github.com/temirov/walletmigrate/internal/ui"
)

const (
	testPublicAddressConstant          = "GADDRESS"
	testFailureReasonConstant          = "connection refused"
	testStartedMessageConstant         = "Processing user u1 device d1"
	testOpenedMessageConstant          = "Loaded wallet GADDRESS for user u1 device d1"
	testBurnedMessageConstant          = "Burned wallet GADDRESS"
	testAlreadyBurnedMessageConstant   = "Wallet GADDRESS already burned"
	testMigratedMessageConstant        = "Wallet GADDRESS migrated successfully"
	testAlreadyMigratedMessageConstant = "Wallet GADDRESS already migrated"
	testOpenFailedMessageConstant      = "Unable to load wallet for user u1 device d1: " + testFailureReasonConstant
	testBurnFailedMessageConstant      = "Burn failed for wallet GADDRESS: " + testFailureReasonConstant
	testMigrationFailedMessageConstant = "Migration failed for wallet GADDRESS: " + testFailureReasonConstant
	testSkippingMessageConstant        = "Skipping migration for user u1 device d1, wallet GADDRESS"
)

func TestConsoleAccountEventLoggerEmitsMessages(testInstance *testing.T) {
	record := accounts.Record{UserID: "u1", DeviceID: "d1", PublicAddress: testPublicAddressConstant, Credential: "SSEED"}
	failure := errors.New(testFailureReasonConstant)

	type expectedEntry struct {
		level   zapcore.Level
		message string
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleAccountEventLogger)
		expectedEntries []expectedEntry
	}{
		{
			name:            "account_started",
			invoke:          func(logger *ui.ConsoleAccountEventLogger) { logger.AccountStarted(record) },
			expectedEntries: []expectedEntry{{level: zapcore.DebugLevel, message: testStartedMessageConstant}},
		},
		{
			name: "account_opened",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageCompleted(record, accounts.StageOpen, accounts.ResultOpened)
			},
			expectedEntries: []expectedEntry{{level: zapcore.DebugLevel, message: testOpenedMessageConstant}},
		},
		{
			name: "wallet_burned",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageCompleted(record, accounts.StageRetire, accounts.ResultRetired)
			},
			expectedEntries: []expectedEntry{{level: zapcore.InfoLevel, message: testBurnedMessageConstant}},
		},
		{
			name: "wallet_already_burned",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageCompleted(record, accounts.StageRetire, accounts.ResultAlreadyRetired)
			},
			expectedEntries: []expectedEntry{{level: zapcore.InfoLevel, message: testAlreadyBurnedMessageConstant}},
		},
		{
			name: "wallet_migrated",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageCompleted(record, accounts.StageMigrate, accounts.ResultMigrated)
			},
			expectedEntries: []expectedEntry{{level: zapcore.InfoLevel, message: testMigratedMessageConstant}},
		},
		{
			name: "wallet_already_migrated",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageCompleted(record, accounts.StageMigrate, accounts.ResultAlreadyMigrated)
			},
			expectedEntries: []expectedEntry{{level: zapcore.InfoLevel, message: testAlreadyMigratedMessageConstant}},
		},
		{
			name: "open_failed_skips_migration",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageFailed(record, accounts.StageOpen, failure)
			},
			expectedEntries: []expectedEntry{
				{level: zapcore.ErrorLevel, message: testOpenFailedMessageConstant},
				{level: zapcore.ErrorLevel, message: testSkippingMessageConstant},
			},
		},
		{
			name: "burn_failed_skips_migration",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageFailed(record, accounts.StageRetire, failure)
			},
			expectedEntries: []expectedEntry{
				{level: zapcore.ErrorLevel, message: testBurnFailedMessageConstant},
				{level: zapcore.ErrorLevel, message: testSkippingMessageConstant},
			},
		},
		{
			name: "migration_failed",
			invoke: func(logger *ui.ConsoleAccountEventLogger) {
				logger.AccountStageFailed(record, accounts.StageMigrate, failure)
			},
			expectedEntries: []expectedEntry{{level: zapcore.ErrorLevel, message: testMigrationFailedMessageConstant}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleAccountEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, len(testCase.expectedEntries))
			for entryIndex, expected := range testCase.expectedEntries {
				require.Equal(testInstance, expected.level, entries[entryIndex].Level)
				require.Equal(testInstance, expected.message, entries[entryIndex].Message)
			}
		})
	}
}

func TestAccountEventFormatterHandlesMissingFailure(testInstance *testing.T) {
	record := accounts.Record{PublicAddress: testPublicAddressConstant}
	message := ui.AccountEventFormatter{}.BuildFailureMessage(record, accounts.StageMigrate, nil)
	require.Equal(testInstance, "Migration failed for wallet GADDRESS: unknown error", message)
}

func TestNilConsoleAccountEventLoggerIsSafe(testInstance *testing.T) {
	var eventLogger *ui.ConsoleAccountEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.AccountStarted(accounts.Record{})
		eventLogger.AccountStageCompleted(accounts.Record{}, accounts.StageRetire, accounts.ResultRetired)
		eventLogger.AccountStageFailed(accounts.Record{}, accounts.StageRetire, nil)
	})
}
