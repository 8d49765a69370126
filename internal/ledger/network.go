package ledger

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/txnbuild"

	"github.com/temirov/walletmigrate/internal/network"
)

const (
	kinTestnetHorizonURLConstant        = "https://horizon-testnet.kininfrastructure.com"
	kinTestnetPassphraseConstant        = "Kin Testnet ; December 2018"
	kinMainnetHorizonURLConstant        = "https://horizon.kinfederation.com"
	kinMainnetPassphraseConstant        = "Kin Mainnet ; December 2018"
	defaultTransactionTimeoutConstant   = 5 * time.Minute
	defaultHorizonRequestTimeout        = 30 * time.Second
	horizonURLFieldNameConstant         = "horizon_url"
	networkPassphraseFieldNameConstant  = "network_passphrase"
	requiredValueMessageConstant        = "value required"
	invalidHorizonURLMessageConstant    = "must be an absolute http(s) URL"
	baseFeeFieldNameConstant            = "base_fee"
	nonPositiveBaseFeeMessageConstant   = "must be positive"
	horizonSchemeHTTPConstant           = "http"
	horizonSchemeHTTPSConstant          = "https"
	horizonURLTrailingSeparatorConstant = "/"
)

// NetworkConfiguration describes the ledger network an opener talks to.
type NetworkConfiguration struct {
	HorizonURL         string
	Passphrase         string
	BaseFee            int64
	TransactionTimeout time.Duration
}

// DefaultNetworkConfiguration returns the Kin network used by an environment.
// Only production talks to the Kin mainnet; test and beta share the Kin testnet.
func DefaultNetworkConfiguration(environment network.Environment) NetworkConfiguration {
	configuration := NetworkConfiguration{
		HorizonURL:         kinTestnetHorizonURLConstant,
		Passphrase:         kinTestnetPassphraseConstant,
		BaseFee:            txnbuild.MinBaseFee,
		TransactionTimeout: defaultTransactionTimeoutConstant,
	}
	if environment == network.EnvironmentProduction {
		configuration.HorizonURL = kinMainnetHorizonURLConstant
		configuration.Passphrase = kinMainnetPassphraseConstant
	}
	return configuration
}

// WithOverrides replaces the Horizon URL and passphrase when non-empty values are supplied.
func (configuration NetworkConfiguration) WithOverrides(horizonURL string, passphrase string, baseFee int64) NetworkConfiguration {
	overridden := configuration
	if trimmedURL := strings.TrimSpace(horizonURL); len(trimmedURL) > 0 {
		overridden.HorizonURL = trimmedURL
	}
	if trimmedPassphrase := strings.TrimSpace(passphrase); len(trimmedPassphrase) > 0 {
		overridden.Passphrase = trimmedPassphrase
	}
	if baseFee > 0 {
		overridden.BaseFee = baseFee
	}
	return overridden
}

// Validate checks that the configuration can reach and sign for a network.
func (configuration NetworkConfiguration) Validate() error {
	trimmedURL := strings.TrimSpace(configuration.HorizonURL)
	if len(trimmedURL) == 0 {
		return InvalidConfigurationError{FieldName: horizonURLFieldNameConstant, Message: requiredValueMessageConstant}
	}
	parsedURL, parseError := url.Parse(trimmedURL)
	if parseError != nil || len(parsedURL.Host) == 0 || (parsedURL.Scheme != horizonSchemeHTTPConstant && parsedURL.Scheme != horizonSchemeHTTPSConstant) {
		return InvalidConfigurationError{FieldName: horizonURLFieldNameConstant, Message: invalidHorizonURLMessageConstant}
	}
	if len(strings.TrimSpace(configuration.Passphrase)) == 0 {
		return InvalidConfigurationError{FieldName: networkPassphraseFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if configuration.BaseFee <= 0 {
		return InvalidConfigurationError{FieldName: baseFeeFieldNameConstant, Message: nonPositiveBaseFeeMessageConstant}
	}
	return nil
}

// HorizonHost returns the host portion of the Horizon URL for display.
func (configuration NetworkConfiguration) HorizonHost() string {
	parsedURL, parseError := url.Parse(strings.TrimSpace(configuration.HorizonURL))
	if parseError != nil || len(parsedURL.Host) == 0 {
		return configuration.HorizonURL
	}
	return parsedURL.Hostname()
}

// NewHorizonClient builds a Horizon client for the configured network.
func NewHorizonClient(configuration NetworkConfiguration, requestTimeout time.Duration) *horizonclient.Client {
	if requestTimeout <= 0 {
		requestTimeout = defaultHorizonRequestTimeout
	}
	horizonURL := strings.TrimSpace(configuration.HorizonURL)
	if !strings.HasSuffix(horizonURL, horizonURLTrailingSeparatorConstant) {
		horizonURL += horizonURLTrailingSeparatorConstant
	}
	return &horizonclient.Client{
		HorizonURL: horizonURL,
		HTTP:       &http.Client{Timeout: requestTimeout},
	}
}
