package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeConfigurationAppliesLoggingFlags(t *testing.T) {
	t.Setenv(configurationSearchPathEnvironmentName, t.TempDir())

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	require.NoError(t, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	require.NoError(t, application.initializeConfiguration(rootCommand))
	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.True(t, application.humanReadableLoggingEnabled())

	logLevel, logLevelAvailable := application.commandContextAccessor.LogLevel(rootCommand.Context())
	require.True(t, logLevelAvailable)
	require.Equal(t, "debug", logLevel)
}

func TestInitializeConfigurationRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv(configurationSearchPathEnvironmentName, t.TempDir())

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(t, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "verbose"))

	require.Error(t, application.initializeConfiguration(rootCommand))
}

func TestInitializeConfigurationRecordsExplicitConfigurationFile(t *testing.T) {
	t.Setenv(configurationSearchPathEnvironmentName, t.TempDir())
	configurationPath := filepath.Join(t.TempDir(), "walletmigrate.yaml")
	require.NoError(t, os.WriteFile(configurationPath, []byte("tools:\n  wallet_migration:\n    http_retries: 2\n"), 0o600))

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(t, rootCommand.PersistentFlags().Set(configFileFlagNameConstant, configurationPath))

	require.NoError(t, application.initializeConfiguration(rootCommand))
	require.Equal(t, 2, application.configuration.Tools.WalletMigration.HTTPRetries)

	configurationFilePath, available := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
	require.True(t, available)
	require.Equal(t, configurationPath, configurationFilePath)
}

func TestConfigurationSearchPaths(t *testing.T) {
	t.Setenv(configurationSearchPathEnvironmentName, "")
	require.Equal(t, []string{defaultConfigurationSearchPathConstant}, configurationSearchPaths())

	t.Setenv(configurationSearchPathEnvironmentName, "/etc/walletmigrate"+configurationSearchPathSeparatorConstant+" "+configurationSearchPathSeparatorConstant+"/opt/walletmigrate")
	require.Equal(t, []string{"/etc/walletmigrate", "/opt/walletmigrate"}, configurationSearchPaths())
}

func TestApplicationRegistersWalletsMigrateCommand(t *testing.T) {
	application := NewApplication()

	command, _, findError := application.rootCommand.Find([]string{"wallets-migrate"})
	require.NoError(t, findError)
	require.Equal(t, "wallets-migrate", command.Name())
	require.NotNil(t, command.Flags().Lookup("batch-size"))
	require.NotNil(t, application.rootCommand.PersistentFlags().Lookup(logFormatFlagNameConstant))
}
