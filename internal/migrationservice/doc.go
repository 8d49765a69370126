// Package migrationservice talks to the Kin migration service, which moves a
// retired wallet's balance onto the new chain.
//
// The Client issues POST {base}/migrate?address=<public address> requests
// through a retrying HTTP client. Transport failures and server errors are
// retried within a fixed budget; client errors are returned at once. Each
// reply is decoded into a Response whose Outcome distinguishes a fresh
// migration, an account the service had already migrated, and a rejection.
package migrationservice
