package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/temirov/walletmigrate/internal/ledger"
	"github.com/temirov/walletmigrate/internal/migrationservice"
)

// LedgerAccountScript configures how a stubbed ledger account behaves.
type LedgerAccountScript struct {
	Address        string
	OpenError      error
	Retired        bool
	RetiredError   error
	RetireAccepted bool
	RetireError    error
}

// LedgerStub implements ledger.Opener for tests. Accounts are keyed by credential.
type LedgerStub struct {
	Accounts map[string]LedgerAccountScript

	mutex       sync.Mutex
	opened      []string
	retireCalls map[string][]string
}

// Open returns a scripted account handle or the configured open error.
func (stub *LedgerStub) Open(_ context.Context, credential string) (ledger.Account, error) {
	stub.mutex.Lock()
	stub.opened = append(stub.opened, credential)
	stub.mutex.Unlock()

	script, exists := stub.Accounts[credential]
	if !exists {
		return nil, fmt.Errorf("unknown credential %q", credential)
	}
	if script.OpenError != nil {
		return nil, script.OpenError
	}
	return &stubAccount{ledger: stub, script: script}, nil
}

// Opened returns the credentials passed to Open.
func (stub *LedgerStub) Opened() []string {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	return append([]string{}, stub.opened...)
}

// RetireMemos returns the memos submitted for an address.
func (stub *LedgerStub) RetireMemos(address string) []string {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	return append([]string{}, stub.retireCalls[address]...)
}

func (stub *LedgerStub) recordRetire(address string, memo string) {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	if stub.retireCalls == nil {
		stub.retireCalls = make(map[string][]string)
	}
	stub.retireCalls[address] = append(stub.retireCalls[address], memo)
}

type stubAccount struct {
	ledger *LedgerStub
	script LedgerAccountScript
}

func (account *stubAccount) Address() string {
	return account.script.Address
}

func (account *stubAccount) IsRetired(context.Context) (bool, error) {
	return account.script.Retired, account.script.RetiredError
}

func (account *stubAccount) Retire(_ context.Context, memo string) (bool, error) {
	account.ledger.recordRetire(account.script.Address, memo)
	if account.script.RetireError != nil {
		return false, account.script.RetireError
	}
	return account.script.RetireAccepted, nil
}

// MigrationScript configures the migration service reply for an address.
type MigrationScript struct {
	Response migrationservice.Response
	Error    error
	Delay    time.Duration
}

// MigratorStub implements the migration client for tests.
type MigratorStub struct {
	Scripts map[string]MigrationScript

	mutex     sync.Mutex
	addresses []string
}

// Migrate records the address and returns the scripted reply. Unknown addresses migrate successfully.
func (stub *MigratorStub) Migrate(executionContext context.Context, publicAddress string) (migrationservice.Response, error) {
	stub.mutex.Lock()
	stub.addresses = append(stub.addresses, publicAddress)
	stub.mutex.Unlock()

	script, exists := stub.Scripts[publicAddress]
	if !exists {
		return migrationservice.Response{Outcome: migrationservice.OutcomeMigrated, StatusCode: 200}, nil
	}
	if script.Delay > 0 {
		select {
		case <-executionContext.Done():
			return migrationservice.Response{}, executionContext.Err()
		case <-time.After(script.Delay):
		}
	}
	return script.Response, script.Error
}

// Addresses returns the addresses passed to Migrate.
func (stub *MigratorStub) Addresses() []string {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	return append([]string{}, stub.addresses...)
}

// AlreadyMigratedResponse returns the reply the service sends for an address it has already migrated.
func AlreadyMigratedResponse() migrationservice.Response {
	return migrationservice.Response{
		Outcome:    migrationservice.OutcomeAlreadyMigrated,
		StatusCode: 400,
		Document:   migrationservice.ErrorDocument{Code: migrationservice.AlreadyMigratedCode, Error: "AlreadyMigrated"},
		RawBody:    `{"code":4002,"error":"AlreadyMigrated"}`,
	}
}

// RejectedResponse returns a non-success reply with the given status and error code.
func RejectedResponse(statusCode int, code int) migrationservice.Response {
	return migrationservice.Response{
		Outcome:    migrationservice.OutcomeRejected,
		StatusCode: statusCode,
		Document:   migrationservice.ErrorDocument{Code: code, Message: "rejected"},
		RawBody:    fmt.Sprintf(`{"code":%d,"message":"rejected"}`, code),
	}
}
