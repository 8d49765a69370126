package walletmigration

import (
	"sync"

	"github.com/temirov/walletmigrate/internal/report"
)

// Bucket names a terminal outcome an account can land in.
type Bucket string

// Outcome buckets.
const (
	BucketMigrationSucceeded Bucket = Bucket("migration_succeeded")
	BucketAlreadyMigrated    Bucket = Bucket("already_migrated")
	BucketAlreadyBurned      Bucket = Bucket("already_burned")
	BucketGetAccountFailed   Bucket = Bucket("get_account_failed")
	BucketBurned             Bucket = Bucket("burned")
	BucketBurnFailed         Bucket = Bucket("burn_failed")
	BucketMigrationFailed    Bucket = Bucket("migration_failed")
)

// Aggregator collects per-account outcomes for one run. It is safe for concurrent use.
type Aggregator struct {
	mutex             sync.Mutex
	buckets           map[Bucket][]string
	migrationFailures []report.MigrationFailure
}

// NewAggregator returns an Aggregator with every bucket empty.
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[Bucket][]string)}
}

// Record adds value to bucket. Values are public addresses except for
// BucketGetAccountFailed, which holds the credential that could not be opened.
func (aggregator *Aggregator) Record(bucket Bucket, value string) {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	aggregator.buckets[bucket] = append(aggregator.buckets[bucket], value)
}

// RecordMigrationFailure adds the address to BucketMigrationFailed and keeps the failure details.
func (aggregator *Aggregator) RecordMigrationFailure(failure report.MigrationFailure) {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	aggregator.buckets[BucketMigrationFailed] = append(aggregator.buckets[BucketMigrationFailed], failure.Address)
	aggregator.migrationFailures = append(aggregator.migrationFailures, failure)
}

// Values returns a copy of the values recorded in bucket, in recording order.
func (aggregator *Aggregator) Values(bucket Bucket) []string {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	return append([]string{}, aggregator.buckets[bucket]...)
}

// Snapshot counts the accounts in every bucket.
func (aggregator *Aggregator) Snapshot() report.Statistics {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	return report.Statistics{
		MigrationSucceeded: len(aggregator.buckets[BucketMigrationSucceeded]),
		AlreadyMigrated:    len(aggregator.buckets[BucketAlreadyMigrated]),
		AlreadyBurned:      len(aggregator.buckets[BucketAlreadyBurned]),
		GetAccountFailed:   len(aggregator.buckets[BucketGetAccountFailed]),
		Burned:             len(aggregator.buckets[BucketBurned]),
		BurnFailed:         len(aggregator.buckets[BucketBurnFailed]),
		MigrationFailed:    len(aggregator.buckets[BucketMigrationFailed]),
	}
}

// HasFailures reports whether any account failed to open, retire or migrate.
func (aggregator *Aggregator) HasFailures() bool {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	return len(aggregator.buckets[BucketGetAccountFailed]) > 0 ||
		len(aggregator.buckets[BucketBurnFailed]) > 0 ||
		len(aggregator.buckets[BucketMigrationFailed]) > 0
}

// FailureReport returns the failed identifiers with any retained migration responses.
func (aggregator *Aggregator) FailureReport() report.FailureReport {
	aggregator.mutex.Lock()
	defer aggregator.mutex.Unlock()
	return report.FailureReport{
		GetAccountFailed: append([]string{}, aggregator.buckets[BucketGetAccountFailed]...),
		BurnFailed:       append([]string{}, aggregator.buckets[BucketBurnFailed]...),
		MigrationFailed:  append([]report.MigrationFailure{}, aggregator.migrationFailures...),
	}
}
