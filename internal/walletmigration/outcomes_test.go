package walletmigration_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/walletmigrate/internal/report"
	"github.com/temirov/walletmigrate/internal/walletmigration"
)

func TestAggregatorConcurrentRecording(testInstance *testing.T) {
	const writerCount = 50
	aggregator := walletmigration.NewAggregator()

	var waitGroup sync.WaitGroup
	for writerIndex := 0; writerIndex < writerCount; writerIndex++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			address := fmt.Sprintf("G%02d", writerIndex)
			aggregator.Record(walletmigration.BucketBurned, address)
			if writerIndex%5 == 0 {
				aggregator.RecordMigrationFailure(report.MigrationFailure{Address: address, StatusCode: 500})
				return
			}
			aggregator.Record(walletmigration.BucketMigrationSucceeded, address)
		}()
	}
	waitGroup.Wait()

	statistics := aggregator.Snapshot()
	require.Equal(testInstance, writerCount, statistics.Burned)
	require.Equal(testInstance, 40, statistics.MigrationSucceeded)
	require.Equal(testInstance, 10, statistics.MigrationFailed)
	require.Equal(testInstance, 10, statistics.FailureCount())
	require.Len(testInstance, aggregator.FailureReport().MigrationFailed, 10)
	require.ElementsMatch(testInstance, aggregator.Values(walletmigration.BucketMigrationFailed), addressesOf(aggregator.FailureReport().MigrationFailed))
}

func TestAggregatorEmptyRun(testInstance *testing.T) {
	aggregator := walletmigration.NewAggregator()

	require.Equal(testInstance, report.Statistics{}, aggregator.Snapshot())
	require.False(testInstance, aggregator.HasFailures())
	require.True(testInstance, aggregator.FailureReport().Empty())
}

func TestAggregatorKeepsRecordingOrderAndDuplicates(testInstance *testing.T) {
	aggregator := walletmigration.NewAggregator()
	aggregator.Record(walletmigration.BucketBurnFailed, "GB")
	aggregator.Record(walletmigration.BucketBurnFailed, "GA")
	aggregator.Record(walletmigration.BucketBurnFailed, "GB")

	require.Equal(testInstance, []string{"GB", "GA", "GB"}, aggregator.Values(walletmigration.BucketBurnFailed))
	require.True(testInstance, aggregator.HasFailures())

	values := aggregator.Values(walletmigration.BucketBurnFailed)
	values[0] = "mutated"
	require.Equal(testInstance, "GB", aggregator.Values(walletmigration.BucketBurnFailed)[0])
}

func addressesOf(failures []report.MigrationFailure) []string {
	addresses := make([]string, 0, len(failures))
	for _, failure := range failures {
		addresses = append(addresses, failure.Address)
	}
	return addresses
}
