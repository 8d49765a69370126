package accounts

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// HeaderLineCount is the number of leading lines skipped before data rows.
	HeaderLineCount = 3
	// ColumnCount is the number of columns each data row must provide.
	ColumnCount = 4

	userIDColumnIndexConstant        = 0
	deviceIDColumnIndexConstant      = 1
	publicAddressColumnIndexConstant = 2
	credentialColumnIndexConstant    = 3
	lineTerminatorConstant           = '\n'
	fieldSeparatorConstant           = ','
	openFileErrorTemplateConstant    = "unable to open account file %s: %w"
	headerReadErrorTemplateConstant  = "unable to read account file header: %w"
	rowParseErrorTemplateConstant    = "unable to parse account row: %w"
	malformedRowTemplateConstant     = "line %d: expected at least %d columns, found %d"
)

// MalformedRowError reports a data row without enough columns.
type MalformedRowError struct {
	LineNumber  int
	ColumnCount int
}

// Error describes the malformed row.
func (rowError MalformedRowError) Error() string {
	return fmt.Sprintf(malformedRowTemplateConstant, rowError.LineNumber, ColumnCount, rowError.ColumnCount)
}

// ReadFile loads all records from the file at filePath.
func ReadFile(filePath string) ([]Record, error) {
	file, openError := os.Open(filePath)
	if openError != nil {
		return nil, fmt.Errorf(openFileErrorTemplateConstant, filePath, openError)
	}
	defer file.Close()

	return ReadRecords(file)
}

// ReadRecords skips the header lines and parses the remaining rows in order.
// Blank and whitespace-only lines are ignored.
func ReadRecords(source io.Reader) ([]Record, error) {
	bufferedSource := bufio.NewReader(source)
	for skippedLines := 0; skippedLines < HeaderLineCount; skippedLines++ {
		if _, readError := bufferedSource.ReadString(lineTerminatorConstant); readError != nil {
			if errors.Is(readError, io.EOF) {
				return []Record{}, nil
			}
			return nil, fmt.Errorf(headerReadErrorTemplateConstant, readError)
		}
	}

	csvReader := csv.NewReader(bufferedSource)
	csvReader.Comma = fieldSeparatorConstant
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records := []Record{}
	for {
		fields, readError := csvReader.Read()
		if errors.Is(readError, io.EOF) {
			return records, nil
		}
		if readError != nil {
			return nil, fmt.Errorf(rowParseErrorTemplateConstant, readError)
		}

		if len(fields) == 1 && len(strings.TrimSpace(fields[0])) == 0 {
			continue
		}
		if len(fields) < ColumnCount {
			line, _ := csvReader.FieldPos(0)
			return nil, MalformedRowError{LineNumber: line + HeaderLineCount, ColumnCount: len(fields)}
		}

		records = append(records, Record{
			UserID:        strings.TrimSpace(fields[userIDColumnIndexConstant]),
			DeviceID:      strings.TrimSpace(fields[deviceIDColumnIndexConstant]),
			PublicAddress: strings.TrimSpace(fields[publicAddressColumnIndexConstant]),
			Credential:    strings.TrimSpace(fields[credentialColumnIndexConstant]),
		})
	}
}
