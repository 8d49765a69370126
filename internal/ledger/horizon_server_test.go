package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/walletmigrate/internal/ledger"
)

const (
	accountsPathPrefixConstant     = "/accounts/"
	transactionsPathConstant       = "/transactions"
	transactionFormFieldConstant   = "tx"
	horizonContentTypeConstant     = "application/hal+json"
	problemContentTypeConstant     = "application/problem+json"
	transactionFailedTypeConstant  = "https://stellar.org/horizon-errors/transaction_failed"
	transactionFailedTitleConstant = "Transaction Failed"
)

type fakeHorizon struct {
	mutex            sync.Mutex
	address          string
	masterWeight     int32
	rejectSubmission bool
	submissions      []string
}

func (horizon *fakeHorizon) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	horizon.mutex.Lock()
	defer horizon.mutex.Unlock()

	switch {
	case request.Method == http.MethodGet && strings.HasPrefix(request.URL.Path, accountsPathPrefixConstant):
		accountID := strings.TrimPrefix(request.URL.Path, accountsPathPrefixConstant)
		if accountID != horizon.address {
			writeHorizonJSON(responseWriter, http.StatusNotFound, problemContentTypeConstant, map[string]any{
				"type":   "https://stellar.org/horizon-errors/not_found",
				"title":  "Resource Missing",
				"status": http.StatusNotFound,
			})
			return
		}
		writeHorizonJSON(responseWriter, http.StatusOK, horizonContentTypeConstant, map[string]any{
			"id":         horizon.address,
			"account_id": horizon.address,
			"sequence":   "4096",
			"signers": []map[string]any{
				{"key": horizon.address, "weight": horizon.masterWeight, "type": "ed25519_public_key"},
			},
		})
	case request.Method == http.MethodPost && request.URL.Path == transactionsPathConstant:
		if parseError := request.ParseForm(); parseError != nil {
			responseWriter.WriteHeader(http.StatusBadRequest)
			return
		}
		horizon.submissions = append(horizon.submissions, request.PostForm.Get(transactionFormFieldConstant))
		if horizon.rejectSubmission {
			writeHorizonJSON(responseWriter, http.StatusBadRequest, problemContentTypeConstant, map[string]any{
				"type":   transactionFailedTypeConstant,
				"title":  transactionFailedTitleConstant,
				"status": http.StatusBadRequest,
				"extras": map[string]any{
					"result_codes": map[string]any{"transaction": testRejectedResultCodeValue},
				},
			})
			return
		}
		horizon.masterWeight = 0
		writeHorizonJSON(responseWriter, http.StatusOK, horizonContentTypeConstant, map[string]any{
			"successful": true,
			"hash":       "f00d",
		})
	default:
		responseWriter.WriteHeader(http.StatusNotFound)
	}
}

func (horizon *fakeHorizon) recordedSubmissions() []string {
	horizon.mutex.Lock()
	defer horizon.mutex.Unlock()
	return append([]string{}, horizon.submissions...)
}

func writeHorizonJSON(responseWriter http.ResponseWriter, statusCode int, contentType string, payload any) {
	responseWriter.Header().Set("Content-Type", contentType)
	responseWriter.WriteHeader(statusCode)
	_ = json.NewEncoder(responseWriter).Encode(payload)
}

func newServerOpener(testInstance *testing.T, server *httptest.Server, logger *zap.Logger) *ledger.HorizonOpener {
	testInstance.Helper()
	configuration := ledger.NetworkConfiguration{
		HorizonURL:         server.URL,
		Passphrase:         testPassphraseConstant,
		BaseFee:            100,
		TransactionTimeout: time.Minute,
	}
	opener, openerError := ledger.NewHorizonOpener(ledger.HorizonOpenerDependencies{
		Logger:        logger,
		Client:        ledger.NewHorizonClient(configuration, 5*time.Second),
		Configuration: configuration,
	})
	require.NoError(testInstance, openerError)
	return opener
}

func TestHorizonOpenerAgainstServerRetiresAccount(testInstance *testing.T) {
	fullKeypair := keypair.MustRandom()
	horizon := &fakeHorizon{address: fullKeypair.Address(), masterWeight: 1}
	server := httptest.NewServer(horizon)
	defer server.Close()

	opener := newServerOpener(testInstance, server, zap.NewNop())

	account, openError := opener.Open(context.Background(), fullKeypair.Seed())
	require.NoError(testInstance, openError)
	require.Equal(testInstance, fullKeypair.Address(), account.Address())

	retired, retiredError := account.IsRetired(context.Background())
	require.NoError(testInstance, retiredError)
	require.False(testInstance, retired)

	accepted, retireError := account.Retire(context.Background(), testMemoConstant)
	require.NoError(testInstance, retireError)
	require.True(testInstance, accepted)
	submissions := horizon.recordedSubmissions()
	require.Len(testInstance, submissions, 1)
	require.NotEmpty(testInstance, submissions[0])

	retiredAfter, retiredAfterError := account.IsRetired(context.Background())
	require.NoError(testInstance, retiredAfterError)
	require.True(testInstance, retiredAfter)
}

func TestHorizonOpenerAgainstServerHandlesRejection(testInstance *testing.T) {
	fullKeypair := keypair.MustRandom()
	horizon := &fakeHorizon{address: fullKeypair.Address(), masterWeight: 1, rejectSubmission: true}
	server := httptest.NewServer(horizon)
	defer server.Close()

	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	opener := newServerOpener(testInstance, server, zap.New(observedCore))

	account, openError := opener.Open(context.Background(), fullKeypair.Seed())
	require.NoError(testInstance, openError)

	accepted, retireError := account.Retire(context.Background(), testMemoConstant)
	require.NoError(testInstance, retireError)
	require.False(testInstance, accepted)

	warnings := observedLogs.All()
	require.Len(testInstance, warnings, 1)
	require.Equal(testInstance, testRejectedResultCodeValue, warnings[0].ContextMap()["transaction_result_code"])
}

func TestHorizonOpenerAgainstServerMissingAccount(testInstance *testing.T) {
	horizon := &fakeHorizon{address: keypair.MustRandom().Address()}
	server := httptest.NewServer(horizon)
	defer server.Close()

	opener := newServerOpener(testInstance, server, zap.NewNop())

	account, openError := opener.Open(context.Background(), keypair.MustRandom().Seed())
	require.Error(testInstance, openError)
	require.Nil(testInstance, account)
	require.Contains(testInstance, openError.Error(), "unable to load account")
}
