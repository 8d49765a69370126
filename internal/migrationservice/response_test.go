package migrationservice_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/walletmigrate/internal/migrationservice"
)

func TestDecodeResponse(testInstance *testing.T) {
	testCases := []struct {
		name              string
		statusCode        int
		body              string
		expectedOutcome   migrationservice.Outcome
		expectUnexpected  bool
		expectedSucceeded bool
	}{
		{name: "ok_without_body", statusCode: http.StatusOK, expectedOutcome: migrationservice.OutcomeMigrated, expectedSucceeded: true},
		{name: "no_content", statusCode: http.StatusNoContent, expectedOutcome: migrationservice.OutcomeMigrated, expectedSucceeded: true},
		{name: "already_migrated", statusCode: http.StatusBadRequest, body: alreadyMigratedBodyConstant, expectedOutcome: migrationservice.OutcomeAlreadyMigrated, expectedSucceeded: true},
		{name: "rejected", statusCode: http.StatusBadRequest, body: rejectedBodyConstant, expectedOutcome: migrationservice.OutcomeRejected},
		{name: "document_without_code", statusCode: http.StatusBadRequest, body: `{"message":"nope"}`, expectUnexpected: true},
		{name: "empty_error_body", statusCode: http.StatusForbidden, expectUnexpected: true},
		{name: "html_error_body", statusCode: http.StatusBadGateway, body: htmlBodyConstant, expectUnexpected: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			response, decodeError := migrationservice.DecodeResponse(testCase.statusCode, []byte(testCase.body))
			if testCase.expectUnexpected {
				var unexpectedResponse migrationservice.UnexpectedResponseError
				require.True(testInstance, errors.As(decodeError, &unexpectedResponse))
				require.Equal(testInstance, testCase.statusCode, unexpectedResponse.StatusCode)
				require.Equal(testInstance, testCase.body, unexpectedResponse.RawBody)
				return
			}
			require.NoError(testInstance, decodeError)
			require.Equal(testInstance, testCase.expectedOutcome, response.Outcome)
			require.Equal(testInstance, testCase.expectedSucceeded, response.Succeeded())
			require.Equal(testInstance, testCase.body, response.RawBody)
		})
	}
}
