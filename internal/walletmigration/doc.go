// Package walletmigration retires Kin wallets on their ledger and registers
// them with the migration service.
//
// Accounts are processed in fixed-size batches. Every account in a batch is
// handled concurrently and the next batch starts only after the previous one
// has finished and the inter-batch delay has elapsed. Each account moves
// through open, retire and migrate stages and lands in outcome buckets held by
// a run-scoped Aggregator; per-account failures never stop the run.
package walletmigration
