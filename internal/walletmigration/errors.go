package walletmigration

import (
	"errors"
	"fmt"
)

const (
	invalidInputTemplateConstant           = "%s: %s"
	retirementRejectedMessageConstant      = "ledger did not accept the retirement transaction"
	migrationRejectedTemplateConstant      = "migration service rejected %s with status %d (code %d): %s"
	ledgerOpenerMissingMessageConstant     = "ledger opener not configured"
	migratorMissingMessageConstant         = "migration service client not configured"
	accountProcessorMissingMessageConstant = "account processor not configured"
	aggregatorMissingMessageConstant       = "outcome aggregator not configured"
)

var (
	// ErrRetirementRejected marks an account whose retirement the ledger did not accept.
	ErrRetirementRejected = errors.New(retirementRejectedMessageConstant)

	errLedgerOpenerMissing     = errors.New(ledgerOpenerMissingMessageConstant)
	errMigratorMissing         = errors.New(migratorMissingMessageConstant)
	errAccountProcessorMissing = errors.New(accountProcessorMissingMessageConstant)
	errAggregatorMissing       = errors.New(aggregatorMissingMessageConstant)
)

// InvalidInputError describes run option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputTemplateConstant, inputError.FieldName, inputError.Message)
}

// MigrationRejectedError describes a migration service reply that did not count as migrated.
type MigrationRejectedError struct {
	Address    string
	StatusCode int
	Code       int
	Message    string
}

// Error describes the rejection.
func (rejectedError MigrationRejectedError) Error() string {
	return fmt.Sprintf(migrationRejectedTemplateConstant, rejectedError.Address, rejectedError.StatusCode, rejectedError.Code, rejectedError.Message)
}
