package walletmigration

import (
	"strings"
	"time"

	"github.com/temirov/walletmigrate/internal/ledger"
	"github.com/temirov/walletmigrate/internal/migrationservice"
	"github.com/temirov/walletmigrate/internal/network"
	pathutils "github.com/temirov/walletmigrate/internal/utils/path"
)

const (
	defaultBatchSizeConstant            = 100
	defaultBatchDelayConstant           = time.Second
	defaultHTTPTimeoutConstant          = 10 * time.Second
	defaultHTTPRetriesConstant          = 6
	configurationKeySeparatorConstant   = "."
	batchSizeConfigurationKeyConstant   = "batch_size"
	batchDelayConfigurationKeyConstant  = "batch_delay"
	httpTimeoutConfigurationKeyConstant = "http_timeout"
	httpRetriesConfigurationKeyConstant = "http_retries"
	reportFileConfigurationKeyConstant  = "report_file"
	metricsFileConfigurationKeyConstant = "metrics_file"
	endpointsConfigurationKeyConstant   = "endpoints"
	horizonConfigurationKeyConstant     = "horizon"
	horizonURLConfigurationKeyConstant  = "url"
	passphraseConfigurationKeyConstant  = "passphrase"
	baseFeeConfigurationKeyConstant     = "base_fee"
)

var configurationPathExpander = pathutils.NewHomeExpander()

// EnvironmentEndpoints stores a migration service base URL per environment.
type EnvironmentEndpoints struct {
	Test string `mapstructure:"test"`
	Beta string `mapstructure:"beta"`
	Prod string `mapstructure:"prod"`
}

// HorizonNetwork stores ledger connection overrides for one environment.
type HorizonNetwork struct {
	URL        string `mapstructure:"url"`
	Passphrase string `mapstructure:"passphrase"`
	BaseFee    int64  `mapstructure:"base_fee"`
}

// EnvironmentHorizonNetworks stores ledger connection settings per environment.
type EnvironmentHorizonNetworks struct {
	Test HorizonNetwork `mapstructure:"test"`
	Beta HorizonNetwork `mapstructure:"beta"`
	Prod HorizonNetwork `mapstructure:"prod"`
}

// CommandConfiguration captures persisted configuration for the wallets-migrate command.
type CommandConfiguration struct {
	BatchSize   int                        `mapstructure:"batch_size"`
	BatchDelay  time.Duration              `mapstructure:"batch_delay"`
	HTTPTimeout time.Duration              `mapstructure:"http_timeout"`
	HTTPRetries int                        `mapstructure:"http_retries"`
	ReportFile  string                     `mapstructure:"report_file"`
	MetricsFile string                     `mapstructure:"metrics_file"`
	Endpoints   EnvironmentEndpoints       `mapstructure:"endpoints"`
	Horizon     EnvironmentHorizonNetworks `mapstructure:"horizon"`
}

// DefaultCommandConfiguration returns the batch and HTTP settings used when nothing is configured.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BatchSize:   defaultBatchSizeConstant,
		BatchDelay:  defaultBatchDelayConstant,
		HTTPTimeout: defaultHTTPTimeoutConstant,
		HTTPRetries: defaultHTTPRetriesConstant,
		Endpoints: EnvironmentEndpoints{
			Test: migrationservice.DefaultBaseURL(network.EnvironmentTest),
			Beta: migrationservice.DefaultBaseURL(network.EnvironmentBeta),
			Prod: migrationservice.DefaultBaseURL(network.EnvironmentProduction),
		},
		Horizon: EnvironmentHorizonNetworks{
			Test: defaultHorizonNetwork(network.EnvironmentTest),
			Beta: defaultHorizonNetwork(network.EnvironmentBeta),
			Prod: defaultHorizonNetwork(network.EnvironmentProduction),
		},
	}
}

func defaultHorizonNetwork(environment network.Environment) HorizonNetwork {
	defaults := ledger.DefaultNetworkConfiguration(environment)
	return HorizonNetwork{URL: defaults.HorizonURL, Passphrase: defaults.Passphrase, BaseFee: defaults.BaseFee}
}

// DefaultConfigurationValues exposes the defaults as flat Viper keys beneath rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	values := map[string]any{
		joinConfigurationKey(rootKey, batchSizeConfigurationKeyConstant):   defaults.BatchSize,
		joinConfigurationKey(rootKey, batchDelayConfigurationKeyConstant):  defaults.BatchDelay,
		joinConfigurationKey(rootKey, httpTimeoutConfigurationKeyConstant): defaults.HTTPTimeout,
		joinConfigurationKey(rootKey, httpRetriesConfigurationKeyConstant): defaults.HTTPRetries,
		joinConfigurationKey(rootKey, reportFileConfigurationKeyConstant):  defaults.ReportFile,
		joinConfigurationKey(rootKey, metricsFileConfigurationKeyConstant): defaults.MetricsFile,
	}

	for _, environment := range []network.Environment{network.EnvironmentTest, network.EnvironmentBeta, network.EnvironmentProduction} {
		environmentName := environment.String()
		values[joinConfigurationKey(rootKey, endpointsConfigurationKeyConstant, environmentName)] = defaults.endpointFor(environment)
		horizonNetwork := defaults.horizonFor(environment)
		values[joinConfigurationKey(rootKey, horizonConfigurationKeyConstant, environmentName, horizonURLConfigurationKeyConstant)] = horizonNetwork.URL
		values[joinConfigurationKey(rootKey, horizonConfigurationKeyConstant, environmentName, passphraseConfigurationKeyConstant)] = horizonNetwork.Passphrase
		values[joinConfigurationKey(rootKey, horizonConfigurationKeyConstant, environmentName, baseFeeConfigurationKeyConstant)] = horizonNetwork.BaseFee
	}

	return values
}

func joinConfigurationKey(segments ...string) string {
	return strings.Join(segments, configurationKeySeparatorConstant)
}

// Sanitize trims values and restores defaults for unusable batch and HTTP settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	if sanitized.BatchSize <= 0 {
		sanitized.BatchSize = defaults.BatchSize
	}
	if sanitized.BatchDelay < 0 {
		sanitized.BatchDelay = defaults.BatchDelay
	}
	if sanitized.HTTPTimeout <= 0 {
		sanitized.HTTPTimeout = defaults.HTTPTimeout
	}
	if sanitized.HTTPRetries < 0 {
		sanitized.HTTPRetries = defaults.HTTPRetries
	}

	sanitized.ReportFile = configurationPathExpander.ExpandFilePath(configuration.ReportFile)
	sanitized.MetricsFile = configurationPathExpander.ExpandFilePath(configuration.MetricsFile)
	sanitized.Endpoints = EnvironmentEndpoints{
		Test: strings.TrimSpace(configuration.Endpoints.Test),
		Beta: strings.TrimSpace(configuration.Endpoints.Beta),
		Prod: strings.TrimSpace(configuration.Endpoints.Prod),
	}
	sanitized.Horizon = EnvironmentHorizonNetworks{
		Test: configuration.Horizon.Test.sanitize(),
		Beta: configuration.Horizon.Beta.sanitize(),
		Prod: configuration.Horizon.Prod.sanitize(),
	}

	return sanitized
}

func (horizonNetwork HorizonNetwork) sanitize() HorizonNetwork {
	return HorizonNetwork{
		URL:        strings.TrimSpace(horizonNetwork.URL),
		Passphrase: strings.TrimSpace(horizonNetwork.Passphrase),
		BaseFee:    horizonNetwork.BaseFee,
	}
}

func (configuration CommandConfiguration) endpointFor(environment network.Environment) string {
	switch environment {
	case network.EnvironmentProduction:
		return configuration.Endpoints.Prod
	case network.EnvironmentBeta:
		return configuration.Endpoints.Beta
	default:
		return configuration.Endpoints.Test
	}
}

func (configuration CommandConfiguration) horizonFor(environment network.Environment) HorizonNetwork {
	switch environment {
	case network.EnvironmentProduction:
		return configuration.Horizon.Prod
	case network.EnvironmentBeta:
		return configuration.Horizon.Beta
	default:
		return configuration.Horizon.Test
	}
}

// LedgerNetwork resolves the ledger settings for an environment, preferring configured overrides.
func (configuration CommandConfiguration) LedgerNetwork(environment network.Environment) ledger.NetworkConfiguration {
	overrides := configuration.horizonFor(environment)
	return ledger.DefaultNetworkConfiguration(environment).WithOverrides(overrides.URL, overrides.Passphrase, overrides.BaseFee)
}

// MigrationService resolves the migration service client settings for an environment.
func (configuration CommandConfiguration) MigrationService(environment network.Environment) migrationservice.Configuration {
	serviceConfiguration := migrationservice.DefaultConfiguration(environment)
	if endpoint := configuration.endpointFor(environment); len(endpoint) > 0 {
		serviceConfiguration.BaseURL = endpoint
	}
	serviceConfiguration.RequestTimeout = configuration.HTTPTimeout
	serviceConfiguration.RetryCount = configuration.HTTPRetries
	return serviceConfiguration
}
