// Package ledger adapts the Stellar Horizon client to the account operations a
// wallet migration needs: opening an account from its secret seed, checking
// whether it has been retired, and retiring it.
//
// Retiring an account submits a SetOptions transaction that sets the master
// key weight to zero, tagged with a text memo. An account whose master key
// weight is zero is considered retired.
package ledger
