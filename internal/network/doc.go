// Package network enumerates the deployment environments a migration run can target.
//
// The environment is parsed once from the command line and passed explicitly to
// the ledger and migration service clients, which map it to their own endpoints.
package network
