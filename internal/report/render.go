package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

const (
	failedWalletsHeadingConstant      = "Failed wallets:"
	statisticsHeadingConstant         = "Statistics:"
	failureTableHeaderConstant        = "BUCKET\tVALUE\tSTATUS\tDETAIL"
	failureRowTemplateConstant        = "%s\t%s\t%s\t%s\n"
	statisticsTableHeaderConstant     = "NAME\tVALUE"
	statisticsRowTemplateConstant     = "%s\t%d\n"
	headingTemplateConstant           = "%s\n"
	emptyCellConstant                 = "-"
	tableMinimumWidthConstant         = 0
	tableTabWidthConstant             = 4
	tablePaddingConstant              = 2
	tablePaddingCharacterConstant     = ' '
	bucketGetAccountFailedConstant    = "getAccountFailed"
	bucketBurnFailedConstant          = "burnFailed"
	bucketMigrationFailedConstant     = "migrationFailed"
	statisticMigrationSuccessConstant = "migrationSuccessCount"
	statisticAlreadyMigratedConstant  = "alreadyMigrated"
	statisticAlreadyBurnedConstant    = "alreadyBurned"
	statisticGetAccountFailedConstant = "getAccountFailed"
	statisticBurnedConstant           = "burned"
	statisticBurnFailedConstant       = "burnFailed"
	statisticMigrationFailedConstant  = "migrationFailed"
	renderErrorTemplateConstant       = "unable to render report: %w"
)

// Render writes the failure table, when any account failed, followed by the statistics table.
func Render(writer io.Writer, result RunResult) error {
	if !result.Failures.Empty() {
		if renderError := renderFailures(writer, result.Failures); renderError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, renderError)
		}
	}
	if renderError := renderStatistics(writer, result.Statistics); renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}
	return nil
}

func newTableWriter(writer io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(writer, tableMinimumWidthConstant, tableTabWidthConstant, tablePaddingConstant, tablePaddingCharacterConstant, 0)
}

func renderFailures(writer io.Writer, failures FailureReport) error {
	if _, writeError := fmt.Fprintf(writer, headingTemplateConstant, failedWalletsHeadingConstant); writeError != nil {
		return writeError
	}

	tableWriter := newTableWriter(writer)
	if _, writeError := fmt.Fprintln(tableWriter, failureTableHeaderConstant); writeError != nil {
		return writeError
	}
	for _, credential := range failures.GetAccountFailed {
		if _, writeError := fmt.Fprintf(tableWriter, failureRowTemplateConstant, bucketGetAccountFailedConstant, credential, emptyCellConstant, emptyCellConstant); writeError != nil {
			return writeError
		}
	}
	for _, address := range failures.BurnFailed {
		if _, writeError := fmt.Fprintf(tableWriter, failureRowTemplateConstant, bucketBurnFailedConstant, address, emptyCellConstant, emptyCellConstant); writeError != nil {
			return writeError
		}
	}
	for _, failure := range failures.MigrationFailed {
		if _, writeError := fmt.Fprintf(tableWriter, failureRowTemplateConstant, bucketMigrationFailedConstant, failure.Address, formatStatus(failure.StatusCode), formatDetail(failure)); writeError != nil {
			return writeError
		}
	}
	return tableWriter.Flush()
}

func renderStatistics(writer io.Writer, statistics Statistics) error {
	if _, writeError := fmt.Fprintf(writer, headingTemplateConstant, statisticsHeadingConstant); writeError != nil {
		return writeError
	}

	rows := []struct {
		name  string
		value int
	}{
		{name: statisticMigrationSuccessConstant, value: statistics.MigrationSucceeded},
		{name: statisticAlreadyMigratedConstant, value: statistics.AlreadyMigrated},
		{name: statisticAlreadyBurnedConstant, value: statistics.AlreadyBurned},
		{name: statisticGetAccountFailedConstant, value: statistics.GetAccountFailed},
		{name: statisticBurnedConstant, value: statistics.Burned},
		{name: statisticBurnFailedConstant, value: statistics.BurnFailed},
		{name: statisticMigrationFailedConstant, value: statistics.MigrationFailed},
	}

	tableWriter := newTableWriter(writer)
	if _, writeError := fmt.Fprintln(tableWriter, statisticsTableHeaderConstant); writeError != nil {
		return writeError
	}
	for _, row := range rows {
		if _, writeError := fmt.Fprintf(tableWriter, statisticsRowTemplateConstant, row.name, row.value); writeError != nil {
			return writeError
		}
	}
	return tableWriter.Flush()
}

func formatStatus(statusCode int) string {
	if statusCode == 0 {
		return emptyCellConstant
	}
	return strconv.Itoa(statusCode)
}

func formatDetail(failure MigrationFailure) string {
	switch {
	case len(failure.Body) > 0:
		return failure.Body
	case len(failure.Error) > 0:
		return failure.Error
	default:
		return emptyCellConstant
	}
}
