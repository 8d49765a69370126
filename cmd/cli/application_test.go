package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/walletmigrate/cmd/cli"
	"github.com/temirov/walletmigrate/internal/network"
	"github.com/temirov/walletmigrate/internal/walletmigration"
)

const (
	testConfigurationFileNameConstant          = "config.yaml"
	testConfigurationSearchPathEnvironmentName = "WALLETMIGRATE_CONFIG_SEARCH_PATH"
	testWalletsMigrateCommandNameConstant      = "wallets-migrate"
	testConfigurationContentConstant           = "common:\n" +
		"  log_level: debug\n" +
		"  log_format: console\n" +
		"tools:\n" +
		"  wallet_migration:\n" +
		"    batch_size: 25\n" +
		"    batch_delay: 2500ms\n" +
		"    endpoints:\n" +
		"      beta: https://migration.example.test\n"
)

func TestApplicationEmbeddedDefaultsMatchCommandDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	require.Equal(testInstance, "info", viperInstance.GetString("common.log_level"))
	require.Equal(testInstance, "structured", viperInstance.GetString("common.log_format"))

	defaults := walletmigration.DefaultCommandConfiguration()
	require.Equal(testInstance, defaults.BatchSize, viperInstance.GetInt("tools.wallet_migration.batch_size"))
	require.Equal(testInstance, defaults.BatchDelay, viperInstance.GetDuration("tools.wallet_migration.batch_delay"))
	require.Equal(testInstance, defaults.HTTPTimeout, viperInstance.GetDuration("tools.wallet_migration.http_timeout"))
	require.Equal(testInstance, defaults.HTTPRetries, viperInstance.GetInt("tools.wallet_migration.http_retries"))
	require.Equal(testInstance, defaults.Endpoints.Prod, viperInstance.GetString("tools.wallet_migration.endpoints.prod"))
	require.Equal(testInstance, defaults.Endpoints.Beta, viperInstance.GetString("tools.wallet_migration.endpoints.beta"))
	require.Equal(testInstance, defaults.Endpoints.Test, viperInstance.GetString("tools.wallet_migration.endpoints.test"))
	require.Equal(testInstance, defaults.Horizon.Prod.URL, viperInstance.GetString("tools.wallet_migration.horizon.prod.url"))
	require.Equal(testInstance, defaults.Horizon.Test.Passphrase, viperInstance.GetString("tools.wallet_migration.horizon.test.passphrase"))
	require.Equal(testInstance, defaults.Horizon.Beta.BaseFee, viperInstance.GetInt64("tools.wallet_migration.horizon.beta.base_fee"))
}

func TestApplicationInitializeForCommand(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		configurationContent string
		environment          map[string]string
		expectedLogLevel     string
		expectedLogFormat    string
		expectedBatchSize    int
		expectedBatchDelay   time.Duration
		expectedBetaEndpoint string
	}{
		{
			name:                 "embedded_defaults",
			expectedLogLevel:     "info",
			expectedLogFormat:    "structured",
			expectedBatchSize:    100,
			expectedBatchDelay:   time.Second,
			expectedBetaEndpoint: walletmigration.DefaultCommandConfiguration().Endpoints.Beta,
		},
		{
			name:                 "configuration_file",
			configurationContent: testConfigurationContentConstant,
			expectedLogLevel:     "debug",
			expectedLogFormat:    "console",
			expectedBatchSize:    25,
			expectedBatchDelay:   2500 * time.Millisecond,
			expectedBetaEndpoint: "https://migration.example.test",
		},
		{
			name:                 "environment_overrides_file",
			configurationContent: testConfigurationContentConstant,
			environment: map[string]string{
				"WALLETMIGRATE_TOOLS_WALLET_MIGRATION_BATCH_SIZE": "7",
				"WALLETMIGRATE_COMMON_LOG_LEVEL":                  "warn",
			},
			expectedLogLevel:     "warn",
			expectedLogFormat:    "console",
			expectedBatchSize:    7,
			expectedBatchDelay:   2500 * time.Millisecond,
			expectedBetaEndpoint: "https://migration.example.test",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			if len(testCase.configurationContent) > 0 {
				configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testCase.configurationContent), 0o600))
			}
			testInstance.Setenv(testConfigurationSearchPathEnvironmentName, temporaryDirectory)
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			application := cli.NewApplication()
			require.NoError(testInstance, application.InitializeForCommand(testWalletsMigrateCommandNameConstant))

			configuration := application.Configuration()
			require.Equal(testInstance, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedLogFormat, configuration.Common.LogFormat)

			walletMigration := configuration.Tools.WalletMigration.Sanitize()
			require.Equal(testInstance, testCase.expectedBatchSize, walletMigration.BatchSize)
			require.Equal(testInstance, testCase.expectedBatchDelay, walletMigration.BatchDelay)
			require.Equal(testInstance, testCase.expectedBetaEndpoint, walletMigration.MigrationService(network.EnvironmentBeta).BaseURL)
			require.Equal(testInstance, 10*time.Second, walletMigration.HTTPTimeout)
		})
	}
}

func TestApplicationInitializeForUnknownCommand(testInstance *testing.T) {
	testInstance.Setenv(testConfigurationSearchPathEnvironmentName, testInstance.TempDir())

	application := cli.NewApplication()
	require.Error(testInstance, application.InitializeForCommand("branch-migrate"))
}
