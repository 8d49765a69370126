package report

import "time"

// Statistics counts the accounts in each outcome bucket.
type Statistics struct {
	MigrationSucceeded int `yaml:"migration_success_count"`
	AlreadyMigrated    int `yaml:"already_migrated"`
	AlreadyBurned      int `yaml:"already_burned"`
	GetAccountFailed   int `yaml:"get_account_failed"`
	Burned             int `yaml:"burned"`
	BurnFailed         int `yaml:"burn_failed"`
	MigrationFailed    int `yaml:"migration_failed"`
}

// FailureCount returns the number of accounts that ended in a failure bucket.
func (statistics Statistics) FailureCount() int {
	return statistics.GetAccountFailed + statistics.BurnFailed + statistics.MigrationFailed
}

// MigrationFailure describes one address the migration service did not accept.
type MigrationFailure struct {
	Address    string `yaml:"address"`
	StatusCode int    `yaml:"status_code,omitempty"`
	Body       string `yaml:"body,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

// FailureReport lists the raw identifiers of every failed account.
// GetAccountFailed holds credentials because no address could be derived from them.
type FailureReport struct {
	GetAccountFailed []string           `yaml:"get_account_failed"`
	BurnFailed       []string           `yaml:"burn_failed"`
	MigrationFailed  []MigrationFailure `yaml:"migration_failed"`
}

// Empty reports whether no account failed.
func (failureReport FailureReport) Empty() bool {
	return len(failureReport.GetAccountFailed) == 0 && len(failureReport.BurnFailed) == 0 && len(failureReport.MigrationFailed) == 0
}

// RunResult summarizes a completed migration run.
type RunResult struct {
	RunID         string        `yaml:"run_id"`
	Environment   string        `yaml:"environment"`
	LedgerHost    string        `yaml:"ledger_host"`
	InputFile     string        `yaml:"input_file"`
	Memo          string        `yaml:"memo"`
	TotalAccounts int           `yaml:"total_accounts"`
	BatchCount    int           `yaml:"batch_count"`
	StartedAt     time.Time     `yaml:"started_at"`
	Duration      time.Duration `yaml:"duration"`
	Statistics    Statistics    `yaml:"statistics"`
	Failures      FailureReport `yaml:"failures"`
}
