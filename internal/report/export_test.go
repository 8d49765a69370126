package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/walletmigrate/internal/report"
)

func TestWriteYAMLFile(testInstance *testing.T) {
	result := report.RunResult{
		RunID:         "4a5c1d1e-7f3b-4a0e-9f77-1e1a7b3c9d00",
		Environment:   "beta",
		Memo:          "1-test",
		TotalAccounts: 2,
		BatchCount:    1,
		StartedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:      1500 * time.Millisecond,
		Statistics:    report.Statistics{MigrationSucceeded: 1, Burned: 1, GetAccountFailed: 1},
		Failures:      report.FailureReport{GetAccountFailed: []string{"SBADSEED"}},
	}

	reportPath := filepath.Join(testInstance.TempDir(), "report.yaml")
	require.NoError(testInstance, report.WriteYAMLFile(reportPath, result))

	contents, readError := os.ReadFile(reportPath)
	require.NoError(testInstance, readError)

	var document map[string]interface{}
	require.NoError(testInstance, yaml.Unmarshal(contents, &document))
	require.Equal(testInstance, "beta", document["environment"])
	require.Equal(testInstance, "1-test", document["memo"])
	require.Equal(testInstance, "1.5s", document["duration"])

	statistics, isMap := document["statistics"].(map[string]interface{})
	require.True(testInstance, isMap)
	require.Equal(testInstance, 1, statistics["migration_success_count"])
	require.Equal(testInstance, 1, statistics["get_account_failed"])

	failures, isFailureMap := document["failures"].(map[string]interface{})
	require.True(testInstance, isFailureMap)
	require.Equal(testInstance, []interface{}{"SBADSEED"}, failures["get_account_failed"])
}

func TestWriteYAMLFileRejectsMissingDirectory(testInstance *testing.T) {
	reportPath := filepath.Join(testInstance.TempDir(), "missing", "report.yaml")
	require.Error(testInstance, report.WriteYAMLFile(reportPath, report.RunResult{}))
}

func TestWriteYAMLStreams(testInstance *testing.T) {
	var output bytes.Buffer
	require.NoError(testInstance, report.WriteYAML(&output, report.RunResult{RunID: "abc"}))
	require.Contains(testInstance, output.String(), "run_id: abc")
}
