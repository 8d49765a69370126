// Package cli constructs the walletmigrate command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader (embedded
// defaults, configuration file, .env file and WALLETMIGRATE_ environment
// variables), and structured logging.
package cli
