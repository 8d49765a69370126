package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/temirov/walletmigrate/internal/report"
)

const (
	namespaceConstant                  = "walletmigrate"
	accountsMetricNameConstant         = "accounts"
	accountsMetricHelpConstant         = "Accounts per outcome bucket in the last migration run."
	totalAccountsMetricNameConstant    = "input_accounts"
	totalAccountsMetricHelpConstant    = "Accounts read from the input file in the last migration run."
	batchesMetricNameConstant          = "batches"
	batchesMetricHelpConstant          = "Batches processed in the last migration run."
	durationMetricNameConstant         = "run_duration_seconds"
	durationMetricHelpConstant         = "Wall clock duration of the last migration run."
	timestampMetricNameConstant        = "last_run_timestamp_seconds"
	timestampMetricHelpConstant        = "Unix time at which the last migration run started."
	bucketLabelConstant                = "bucket"
	environmentLabelConstant           = "environment"
	bucketMigrationSucceededConstant   = "migration_succeeded"
	bucketAlreadyMigratedConstant      = "already_migrated"
	bucketAlreadyBurnedConstant        = "already_burned"
	bucketGetAccountFailedConstant     = "get_account_failed"
	bucketBurnedConstant               = "burned"
	bucketBurnFailedConstant           = "burn_failed"
	bucketMigrationFailedConstant      = "migration_failed"
	registerErrorTemplateConstant      = "unable to register metric: %w"
	textfileWriteErrorTemplateConstant = "unable to write metrics textfile %s: %w"
)

// Recorder holds the gauges describing one migration run.
type Recorder struct {
	registry      *prometheus.Registry
	accounts      *prometheus.GaugeVec
	totalAccounts *prometheus.GaugeVec
	batches       *prometheus.GaugeVec
	duration      *prometheus.GaugeVec
	timestamp     *prometheus.GaugeVec
}

// NewRecorder registers the run gauges on a private registry.
func NewRecorder() (*Recorder, error) {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		accounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceConstant,
			Name:      accountsMetricNameConstant,
			Help:      accountsMetricHelpConstant,
		}, []string{environmentLabelConstant, bucketLabelConstant}),
		totalAccounts: newEnvironmentGauge(totalAccountsMetricNameConstant, totalAccountsMetricHelpConstant),
		batches:       newEnvironmentGauge(batchesMetricNameConstant, batchesMetricHelpConstant),
		duration:      newEnvironmentGauge(durationMetricNameConstant, durationMetricHelpConstant),
		timestamp:     newEnvironmentGauge(timestampMetricNameConstant, timestampMetricHelpConstant),
	}

	collectors := []prometheus.Collector{recorder.accounts, recorder.totalAccounts, recorder.batches, recorder.duration, recorder.timestamp}
	for _, collector := range collectors {
		if registerError := recorder.registry.Register(collector); registerError != nil {
			return nil, fmt.Errorf(registerErrorTemplateConstant, registerError)
		}
	}

	return recorder, nil
}

func newEnvironmentGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespaceConstant,
		Name:      name,
		Help:      help,
	}, []string{environmentLabelConstant})
}

// Observe sets every gauge from the run result.
func (recorder *Recorder) Observe(result report.RunResult) {
	environment := result.Environment
	buckets := map[string]int{
		bucketMigrationSucceededConstant: result.Statistics.MigrationSucceeded,
		bucketAlreadyMigratedConstant:    result.Statistics.AlreadyMigrated,
		bucketAlreadyBurnedConstant:      result.Statistics.AlreadyBurned,
		bucketGetAccountFailedConstant:   result.Statistics.GetAccountFailed,
		bucketBurnedConstant:             result.Statistics.Burned,
		bucketBurnFailedConstant:         result.Statistics.BurnFailed,
		bucketMigrationFailedConstant:    result.Statistics.MigrationFailed,
	}
	for bucket, count := range buckets {
		recorder.accounts.WithLabelValues(environment, bucket).Set(float64(count))
	}

	recorder.totalAccounts.WithLabelValues(environment).Set(float64(result.TotalAccounts))
	recorder.batches.WithLabelValues(environment).Set(float64(result.BatchCount))
	recorder.duration.WithLabelValues(environment).Set(result.Duration.Seconds())
	if !result.StartedAt.IsZero() {
		recorder.timestamp.WithLabelValues(environment).Set(float64(result.StartedAt.Unix()))
	}
}

// Gatherer exposes the recorder's registry.
func (recorder *Recorder) Gatherer() prometheus.Gatherer {
	return recorder.registry
}

// WriteTextfile atomically writes the gauges in the Prometheus text format.
func (recorder *Recorder) WriteTextfile(filePath string) error {
	if writeError := prometheus.WriteToTextfile(filePath, recorder.registry); writeError != nil {
		return fmt.Errorf(textfileWriteErrorTemplateConstant, filePath, writeError)
	}
	return nil
}
