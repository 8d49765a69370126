package network

import (
	"fmt"
	"strings"

	"github.com/temirov/walletmigrate/internal/utils/flags"
)

const (
	environmentTestStringConstant          = "test"
	environmentBetaStringConstant          = "beta"
	environmentProductionStringConstant    = "prod"
	unsupportedEnvironmentTemplateConstant = "environment must be one of %s, got %q"
	environmentListSeparatorConstant       = ", "
)

// Environment identifies a deployment environment.
type Environment string

// Supported environments.
const (
	EnvironmentTest       Environment = Environment(environmentTestStringConstant)
	EnvironmentBeta       Environment = Environment(environmentBetaStringConstant)
	EnvironmentProduction Environment = Environment(environmentProductionStringConstant)
)

// UnsupportedEnvironmentError reports an environment name outside the supported set.
type UnsupportedEnvironmentError struct {
	Value string
}

// Error describes the unsupported environment.
func (environmentError UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf(unsupportedEnvironmentTemplateConstant, strings.Join(SupportedEnvironmentNames(), environmentListSeparatorConstant), environmentError.Value)
}

// SupportedEnvironmentNames lists environment names in usage order.
func SupportedEnvironmentNames() []string {
	return []string{environmentBetaStringConstant, environmentProductionStringConstant, environmentTestStringConstant}
}

// ParseEnvironment converts a command-line value into an Environment.
func ParseEnvironment(value string) (Environment, error) {
	matchedName, matched := flags.MatchChoice(value, SupportedEnvironmentNames())
	if !matched {
		return "", UnsupportedEnvironmentError{Value: value}
	}
	return Environment(matchedName), nil
}

// String returns the environment name.
func (environment Environment) String() string {
	return string(environment)
}
