// Package ui renders wallet migration progress for people watching a run.
//
// ConsoleAccountEventLogger implements accounts.EventObserver and turns each
// account lifecycle event into a short sentence logged through zap.
package ui
