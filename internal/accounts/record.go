package accounts

import "fmt"

const recordLabelTemplateConstant = "user %s device %s"

// Record is one wallet read from the input table.
type Record struct {
	UserID        string
	DeviceID      string
	PublicAddress string
	Credential    string
}

// Label identifies the record's owner in human-readable output.
func (record Record) Label() string {
	return fmt.Sprintf(recordLabelTemplateConstant, record.UserID, record.DeviceID)
}
