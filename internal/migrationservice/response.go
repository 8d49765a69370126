package migrationservice

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	// AlreadyMigratedCode is the service error code for an account that was migrated earlier.
	AlreadyMigratedCode = 4002

	unexpectedResponseTemplateConstant = "unexpected migration service response (status %d): %s"
	successStatusCeilingConstant       = http.StatusMultipleChoices
)

// Outcome classifies a migration service reply.
type Outcome string

// Supported outcomes.
const (
	OutcomeMigrated        Outcome = Outcome("migrated")
	OutcomeAlreadyMigrated Outcome = Outcome("already_migrated")
	OutcomeRejected        Outcome = Outcome("rejected")
)

// ErrorDocument is the error payload returned by the service for non-success statuses.
type ErrorDocument struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Response is a decoded migration service reply.
type Response struct {
	Outcome    Outcome
	StatusCode int
	Document   ErrorDocument
	RawBody    string
}

// Succeeded reports whether the account counts as migrated.
func (response Response) Succeeded() bool {
	return response.Outcome == OutcomeMigrated || response.Outcome == OutcomeAlreadyMigrated
}

// UnexpectedResponseError reports a non-success reply whose body is not an error document.
type UnexpectedResponseError struct {
	StatusCode int
	RawBody    string
}

// Error describes the unexpected response.
func (responseError UnexpectedResponseError) Error() string {
	return fmt.Sprintf(unexpectedResponseTemplateConstant, responseError.StatusCode, responseError.RawBody)
}

// DecodeResponse classifies a status code and body.
func DecodeResponse(statusCode int, body []byte) (Response, error) {
	if statusCode < successStatusCeilingConstant {
		return Response{Outcome: OutcomeMigrated, StatusCode: statusCode, RawBody: string(body)}, nil
	}

	var document ErrorDocument
	if decodeError := json.Unmarshal(body, &document); decodeError != nil || document.Code == 0 {
		return Response{}, UnexpectedResponseError{StatusCode: statusCode, RawBody: string(body)}
	}

	outcome := OutcomeRejected
	if statusCode == http.StatusBadRequest && document.Code == AlreadyMigratedCode {
		outcome = OutcomeAlreadyMigrated
	}

	return Response{
		Outcome:    outcome,
		StatusCode: statusCode,
		Document:   document,
		RawBody:    string(body),
	}, nil
}
