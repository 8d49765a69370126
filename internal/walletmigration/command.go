package walletmigration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/walletmigrate/internal/accounts"
	"github.com/temirov/walletmigrate/internal/ledger"
	"github.com/temirov/walletmigrate/internal/metrics"
	"github.com/temirov/walletmigrate/internal/migrationservice"
	"github.com/temirov/walletmigrate/internal/network"
	"github.com/temirov/walletmigrate/internal/report"
	"github.com/temirov/walletmigrate/internal/ui"
	"github.com/temirov/walletmigrate/internal/utils/flags"
	pathutils "github.com/temirov/walletmigrate/internal/utils/path"
)

const (
	commandNameConstant                = "wallets-migrate"
	commandUseTemplateConstant         = "%s %s <input_file> <app_id>"
	commandShortDescriptionConstant    = "Burn Kin wallets and register them with the migration service"
	commandLongDescriptionConstant     = "wallets-migrate reads the wallet table produced by the account creation step, burns every wallet on its ledger with the memo 1-<app_id>, and asks the migration service to migrate it. Wallets are processed in batches; failures are reported at the end without stopping the run."
	commandArgumentCountConstant       = 3
	environmentArgumentIndexConstant   = 0
	inputFileArgumentIndexConstant     = 1
	applicationIDArgumentIndexConstant = 2
	batchSizeFlagNameConstant          = "batch-size"
	batchSizeFlagUsageConstant         = "Number of wallets processed concurrently per batch."
	batchDelayFlagNameConstant         = "batch-delay"
	batchDelayFlagUsageConstant        = "Pause between batches."
	httpTimeoutFlagNameConstant        = "http-timeout"
	httpTimeoutFlagUsageConstant       = "Timeout for each migration service request attempt."
	httpRetriesFlagNameConstant        = "http-retries"
	httpRetriesFlagUsageConstant       = "Retries for failed migration service requests."
	reportFileFlagNameConstant         = "report-file"
	reportFileFlagUsageConstant        = "Write the run report as YAML to this file."
	metricsFileFlagNameConstant        = "metrics-file"
	metricsFileFlagUsageConstant       = "Write run metrics in the Prometheus textfile format to this file."
	inputFileFieldNameConstant         = "input_file"
	inputFileMissingMessageConstant    = "file does not exist"
	inputFileDirectoryMessageConstant  = "is a directory"
	inputFileStatErrorTemplateConstant = "unable to access input file %s: %w"
	inputFileReadErrorTemplateConstant = "unable to read input file: %w"
	ledgerOpenerErrorTemplateConstant  = "unable to construct ledger client: %w"
	migratorErrorTemplateConstant      = "unable to construct migration service client: %w"
	serviceErrorTemplateConstant       = "unable to construct migration service: %w"
	runErrorTemplateConstant           = "wallet migration failed: %w"
	metricsErrorTemplateConstant       = "unable to record metrics: %w"
	reportExportedMessageConstant      = "Run report written"
	metricsExportedMessageConstant     = "Run metrics written"
	logFieldFilePathConstant           = "file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// LedgerOpenerProvider constructs the ledger client for a network.
type LedgerOpenerProvider func(logger *zap.Logger, configuration ledger.NetworkConfiguration) (ledger.Opener, error)

// MigratorProvider constructs the migration service client.
type MigratorProvider func(logger *zap.Logger, configuration migrationservice.Configuration) (Migrator, error)

// ServiceProvider constructs a migration executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (MigrationExecutor, error)

type commandOptions struct {
	environment   network.Environment
	inputFile     string
	applicationID string
	configuration CommandConfiguration
}

// CommandBuilder assembles the wallets-migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	LedgerOpenerProvider         LedgerOpenerProvider
	MigratorProvider             MigratorProvider
	ServiceProvider              ServiceProvider
	Sleeper                      Sleeper
}

// Build constructs the wallets-migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultCommandConfiguration()

	command := &cobra.Command{
		Use:           fmt.Sprintf(commandUseTemplateConstant, commandNameConstant, flags.FormatChoicePlaceholder("", network.SupportedEnvironmentNames())),
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(commandArgumentCountConstant),
		RunE:          builder.run,
	}

	command.Flags().Int(batchSizeFlagNameConstant, defaults.BatchSize, batchSizeFlagUsageConstant)
	command.Flags().Duration(batchDelayFlagNameConstant, defaults.BatchDelay, batchDelayFlagUsageConstant)
	command.Flags().Duration(httpTimeoutFlagNameConstant, defaults.HTTPTimeout, httpTimeoutFlagUsageConstant)
	command.Flags().Int(httpRetriesFlagNameConstant, defaults.HTTPRetries, httpRetriesFlagUsageConstant)
	command.Flags().String(reportFileFlagNameConstant, "", reportFileFlagUsageConstant)
	command.Flags().String(metricsFileFlagNameConstant, "", metricsFileFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	records, readError := accounts.ReadFile(options.inputFile)
	if readError != nil {
		return fmt.Errorf(inputFileReadErrorTemplateConstant, readError)
	}

	logger := builder.resolveLogger()
	ledgerNetwork := options.configuration.LedgerNetwork(options.environment)

	opener, openerError := builder.resolveLedgerOpener(logger, ledgerNetwork)
	if openerError != nil {
		return fmt.Errorf(ledgerOpenerErrorTemplateConstant, openerError)
	}

	migrator, migratorError := builder.resolveMigrator(logger, options.configuration.MigrationService(options.environment))
	if migratorError != nil {
		return fmt.Errorf(migratorErrorTemplateConstant, migratorError)
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:        logger,
		Opener:        opener,
		Migrator:      migrator,
		EventObserver: builder.resolveEventObserver(logger),
		Sleeper:       builder.Sleeper,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceErrorTemplateConstant, serviceError)
	}

	result, runError := service.Execute(command.Context(), RunOptions{
		Environment:   options.environment,
		LedgerHost:    ledgerNetwork.HorizonHost(),
		InputFile:     options.inputFile,
		ApplicationID: options.applicationID,
		Records:       records,
		BatchSize:     options.configuration.BatchSize,
		BatchDelay:    options.configuration.BatchDelay,
	})
	if runError != nil && len(result.RunID) == 0 {
		return fmt.Errorf(runErrorTemplateConstant, runError)
	}

	outputErrors := []error{}
	if runError != nil {
		outputErrors = append(outputErrors, fmt.Errorf(runErrorTemplateConstant, runError))
	}
	if renderError := report.Render(command.OutOrStdout(), result); renderError != nil {
		outputErrors = append(outputErrors, renderError)
	}
	if exportError := builder.exportReport(logger, options.configuration.ReportFile, result); exportError != nil {
		outputErrors = append(outputErrors, exportError)
	}
	if metricsError := builder.exportMetrics(logger, options.configuration.MetricsFile, result); metricsError != nil {
		outputErrors = append(outputErrors, metricsError)
	}

	return errors.Join(outputErrors...)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (commandOptions, error) {
	environment, environmentError := network.ParseEnvironment(arguments[environmentArgumentIndexConstant])
	if environmentError != nil {
		return commandOptions{}, environmentError
	}

	inputFile := pathutils.NewHomeExpander().ExpandFilePath(arguments[inputFileArgumentIndexConstant])
	if inputFileError := validateInputFile(inputFile); inputFileError != nil {
		return commandOptions{}, inputFileError
	}

	applicationID := arguments[applicationIDArgumentIndexConstant]
	if _, memoError := NewMemo(applicationID); memoError != nil {
		return commandOptions{}, memoError
	}

	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(batchSizeFlagNameConstant) {
		batchSize, _ := command.Flags().GetInt(batchSizeFlagNameConstant)
		if batchSize <= 0 {
			return commandOptions{}, InvalidInputError{FieldName: batchSizeFieldNameConstant, Message: positiveValueMessageConstant}
		}
		configuration.BatchSize = batchSize
	}
	if command.Flags().Changed(batchDelayFlagNameConstant) {
		batchDelay, _ := command.Flags().GetDuration(batchDelayFlagNameConstant)
		if batchDelay < 0 {
			return commandOptions{}, InvalidInputError{FieldName: batchDelayFieldNameConstant, Message: negativeValueMessageConstant}
		}
		configuration.BatchDelay = batchDelay
	}
	if command.Flags().Changed(httpTimeoutFlagNameConstant) {
		httpTimeout, _ := command.Flags().GetDuration(httpTimeoutFlagNameConstant)
		configuration.HTTPTimeout = httpTimeout
	}
	if command.Flags().Changed(httpRetriesFlagNameConstant) {
		httpRetries, _ := command.Flags().GetInt(httpRetriesFlagNameConstant)
		configuration.HTTPRetries = httpRetries
	}
	if command.Flags().Changed(reportFileFlagNameConstant) {
		reportFile, _ := command.Flags().GetString(reportFileFlagNameConstant)
		configuration.ReportFile = reportFile
	}
	if command.Flags().Changed(metricsFileFlagNameConstant) {
		metricsFile, _ := command.Flags().GetString(metricsFileFlagNameConstant)
		configuration.MetricsFile = metricsFile
	}

	return commandOptions{
		environment:   environment,
		inputFile:     inputFile,
		applicationID: applicationID,
		configuration: configuration.Sanitize(),
	}, nil
}

func validateInputFile(inputFile string) error {
	if len(inputFile) == 0 {
		return InvalidInputError{FieldName: inputFileFieldNameConstant, Message: requiredValueMessageConstant}
	}
	fileInfo, statError := os.Stat(inputFile)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return InvalidInputError{FieldName: inputFileFieldNameConstant, Message: inputFileMissingMessageConstant}
		}
		return fmt.Errorf(inputFileStatErrorTemplateConstant, inputFile, statError)
	}
	if fileInfo.IsDir() {
		return InvalidInputError{FieldName: inputFileFieldNameConstant, Message: inputFileDirectoryMessageConstant}
	}
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveEventObserver(logger *zap.Logger) accounts.EventObserver {
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return ui.NewConsoleAccountEventLogger(logger)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLedgerOpener(logger *zap.Logger, configuration ledger.NetworkConfiguration) (ledger.Opener, error) {
	if builder.LedgerOpenerProvider != nil {
		return builder.LedgerOpenerProvider(logger, configuration)
	}
	return ledger.NewHorizonOpener(ledger.HorizonOpenerDependencies{
		Logger:        logger,
		Client:        ledger.NewHorizonClient(configuration, 0),
		Configuration: configuration,
	})
}

func (builder *CommandBuilder) resolveMigrator(logger *zap.Logger, configuration migrationservice.Configuration) (Migrator, error) {
	if builder.MigratorProvider != nil {
		return builder.MigratorProvider(logger, configuration)
	}
	return migrationservice.NewClient(migrationservice.ClientDependencies{
		Logger:        logger,
		Configuration: configuration,
	})
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (MigrationExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) exportReport(logger *zap.Logger, reportFile string, result report.RunResult) error {
	if len(reportFile) == 0 {
		return nil
	}
	if writeError := report.WriteYAMLFile(reportFile, result); writeError != nil {
		return writeError
	}
	logger.Info(reportExportedMessageConstant, zap.String(logFieldFilePathConstant, reportFile))
	return nil
}

func (builder *CommandBuilder) exportMetrics(logger *zap.Logger, metricsFile string, result report.RunResult) error {
	if len(metricsFile) == 0 {
		return nil
	}
	recorder, recorderError := metrics.NewRecorder()
	if recorderError != nil {
		return fmt.Errorf(metricsErrorTemplateConstant, recorderError)
	}
	recorder.Observe(result)
	if writeError := recorder.WriteTextfile(metricsFile); writeError != nil {
		return writeError
	}
	logger.Info(metricsExportedMessageConstant, zap.String(logFieldFilePathConstant, metricsFile))
	return nil
}
