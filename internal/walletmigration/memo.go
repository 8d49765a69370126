package walletmigration

import (
	"fmt"
	"strings"
)

const (
	memoPrefixConstant             = "1-"
	maximumMemoBytesConstant       = 28
	applicationIDFieldNameConstant = "app_id"
	requiredValueMessageConstant   = "value required"
	memoTooLongTemplateConstant    = "memo %q exceeds %d bytes"
)

// Memo tags every retirement transaction of a run with the migrating application.
type Memo string

// NewMemo derives the run memo "1-<app_id>".
func NewMemo(applicationID string) (Memo, error) {
	trimmedApplicationID := strings.TrimSpace(applicationID)
	if len(trimmedApplicationID) == 0 {
		return "", InvalidInputError{FieldName: applicationIDFieldNameConstant, Message: requiredValueMessageConstant}
	}

	memo := memoPrefixConstant + trimmedApplicationID
	if len(memo) > maximumMemoBytesConstant {
		return "", InvalidInputError{FieldName: applicationIDFieldNameConstant, Message: fmt.Sprintf(memoTooLongTemplateConstant, memo, maximumMemoBytesConstant)}
	}

	return Memo(memo), nil
}

// String returns the memo text.
func (memo Memo) String() string {
	return string(memo)
}
