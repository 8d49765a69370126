// Package utils exposes reusable helpers consumed by the CLI and its commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, dotenv files, environment variables, and zap logging, plus
// the accessor used to carry resolved settings through command contexts.
package utils
