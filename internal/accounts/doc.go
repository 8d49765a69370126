// Package accounts reads the wallet table produced by the account creation
// step and defines the per-account lifecycle events emitted while a wallet is
// migrated.
//
// The table starts with three header lines followed by comma separated rows of
// user id, device id, public address and secret seed.
package accounts
