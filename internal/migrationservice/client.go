package migrationservice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/network"
)

const (
	productionBaseURLConstant         = "https://migration-service.kinmarketplace.com"
	betaBaseURLConstant               = "https://migration-service.kinecosystembeta.com"
	testBaseURLConstant               = "https://migration-service.kinecosystemtest.com"
	migratePathSegmentConstant        = "migrate"
	addressQueryParameterConstant     = "address"
	defaultRequestTimeoutConstant     = 10 * time.Second
	defaultRetryCountConstant         = 6
	defaultRetryWaitMinimumConstant   = 250 * time.Millisecond
	defaultRetryWaitMaximumConstant   = 5 * time.Second
	maximumResponseBodyBytesConstant  = 1 << 20
	serverErrorStatusFloorConstant    = http.StatusInternalServerError
	baseURLFieldNameConstant          = "base_url"
	addressFieldNameConstant          = "address"
	requestTimeoutFieldNameConstant   = "http_timeout"
	retryCountFieldNameConstant       = "http_retries"
	requiredValueMessageConstant      = "value required"
	invalidBaseURLMessageConstant     = "must be an absolute http(s) URL"
	nonPositiveValueMessageConstant   = "must be positive"
	negativeValueMessageConstant      = "must not be negative"
	invalidInputTemplateConstant      = "%s: %s"
	requestBuildErrorTemplateConstant = "unable to build migration request for %s: %w"
	requestErrorTemplateConstant      = "migration request for %s failed: %w"
	responseReadErrorTemplateConstant = "unable to read migration response for %s: %w"
	httpSchemeConstant                = "http"
	httpsSchemeConstant               = "https"
	logFieldPublicAddressConstant     = "public_address"
	logFieldStatusCodeConstant        = "status_code"
	logFieldOutcomeConstant           = "outcome"
	migrationResponseMessageConstant  = "Migration service responded"
)

// InvalidInputError surfaces validation issues for client configuration and request inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputTemplateConstant, inputError.FieldName, inputError.Message)
}

// DefaultBaseURL returns the migration service serving an environment.
func DefaultBaseURL(environment network.Environment) string {
	switch environment {
	case network.EnvironmentProduction:
		return productionBaseURLConstant
	case network.EnvironmentBeta:
		return betaBaseURLConstant
	default:
		return testBaseURLConstant
	}
}

// Configuration controls the migration service client.
type Configuration struct {
	BaseURL          string
	RequestTimeout   time.Duration
	RetryCount       int
	RetryWaitMinimum time.Duration
	RetryWaitMaximum time.Duration
}

// DefaultConfiguration returns the client settings used for an environment.
func DefaultConfiguration(environment network.Environment) Configuration {
	return Configuration{
		BaseURL:          DefaultBaseURL(environment),
		RequestTimeout:   defaultRequestTimeoutConstant,
		RetryCount:       defaultRetryCountConstant,
		RetryWaitMinimum: defaultRetryWaitMinimumConstant,
		RetryWaitMaximum: defaultRetryWaitMaximumConstant,
	}
}

// Validate checks the configuration for usable values.
func (configuration Configuration) Validate() error {
	trimmedURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedURL) == 0 {
		return InvalidInputError{FieldName: baseURLFieldNameConstant, Message: requiredValueMessageConstant}
	}
	parsedURL, parseError := url.Parse(trimmedURL)
	if parseError != nil || len(parsedURL.Host) == 0 || (parsedURL.Scheme != httpSchemeConstant && parsedURL.Scheme != httpsSchemeConstant) {
		return InvalidInputError{FieldName: baseURLFieldNameConstant, Message: invalidBaseURLMessageConstant}
	}
	if configuration.RequestTimeout <= 0 {
		return InvalidInputError{FieldName: requestTimeoutFieldNameConstant, Message: nonPositiveValueMessageConstant}
	}
	if configuration.RetryCount < 0 {
		return InvalidInputError{FieldName: retryCountFieldNameConstant, Message: negativeValueMessageConstant}
	}
	return nil
}

// ClientDependencies describes collaborators for Client.
type ClientDependencies struct {
	Logger        *zap.Logger
	Configuration Configuration
}

// Client calls the migration service with retries.
type Client struct {
	logger     *zap.Logger
	httpClient *retryablehttp.Client
	migrateURL *url.URL
}

// NewClient validates the configuration and constructs a Client.
func NewClient(dependencies ClientDependencies) (*Client, error) {
	configuration := dependencies.Configuration
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL, parseError := url.Parse(strings.TrimSpace(configuration.BaseURL))
	if parseError != nil {
		return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: invalidBaseURLMessageConstant}
	}

	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = configuration.RequestTimeout
	httpClient.RetryMax = configuration.RetryCount
	if configuration.RetryWaitMinimum > 0 {
		httpClient.RetryWaitMin = configuration.RetryWaitMinimum
	}
	if configuration.RetryWaitMaximum > 0 {
		httpClient.RetryWaitMax = configuration.RetryWaitMaximum
	}
	httpClient.CheckRetry = retryPolicy
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.Logger = newRetryLogger(logger)

	return &Client{
		logger:     logger,
		httpClient: httpClient,
		migrateURL: baseURL.JoinPath(migratePathSegmentConstant),
	}, nil
}

// Migrate requests migration of a public address.
// A returned error means no decodable reply was obtained within the retry budget.
func (client *Client) Migrate(executionContext context.Context, publicAddress string) (Response, error) {
	trimmedAddress := strings.TrimSpace(publicAddress)
	if len(trimmedAddress) == 0 {
		return Response{}, InvalidInputError{FieldName: addressFieldNameConstant, Message: requiredValueMessageConstant}
	}

	request, requestError := retryablehttp.NewRequestWithContext(executionContext, http.MethodPost, client.requestURL(trimmedAddress), nil)
	if requestError != nil {
		return Response{}, fmt.Errorf(requestBuildErrorTemplateConstant, trimmedAddress, requestError)
	}

	httpResponse, doError := client.httpClient.Do(request)
	if doError != nil {
		if httpResponse != nil && httpResponse.Body != nil {
			httpResponse.Body.Close()
		}
		return Response{}, fmt.Errorf(requestErrorTemplateConstant, trimmedAddress, doError)
	}
	defer httpResponse.Body.Close()

	body, readError := io.ReadAll(io.LimitReader(httpResponse.Body, maximumResponseBodyBytesConstant))
	if readError != nil {
		return Response{}, fmt.Errorf(responseReadErrorTemplateConstant, trimmedAddress, readError)
	}

	response, decodeError := DecodeResponse(httpResponse.StatusCode, body)
	if decodeError != nil {
		return Response{}, decodeError
	}

	client.logger.Debug(
		migrationResponseMessageConstant,
		zap.String(logFieldPublicAddressConstant, trimmedAddress),
		zap.Int(logFieldStatusCodeConstant, response.StatusCode),
		zap.String(logFieldOutcomeConstant, string(response.Outcome)),
	)

	return response, nil
}

func (client *Client) requestURL(publicAddress string) string {
	requestURL := *client.migrateURL
	requestURL.RawQuery = url.Values{addressQueryParameterConstant: []string{publicAddress}}.Encode()
	return requestURL.String()
}

// retryPolicy retries transport failures and server errors until the context ends.
func retryPolicy(executionContext context.Context, response *http.Response, requestError error) (bool, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return false, contextError
	}
	if requestError != nil {
		return true, nil
	}
	return response.StatusCode >= serverErrorStatusFloorConstant, nil
}
