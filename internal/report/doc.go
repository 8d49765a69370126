// Package report holds the outcome of a wallet migration run and renders it
// as console tables or exports it as a YAML document.
package report
