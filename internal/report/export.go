package report

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	yamlIndentConstant                   = 2
	reportFilePermissionsConstant        = 0o600
	yamlEncodeErrorTemplateConstant      = "unable to encode report: %w"
	reportFileWriteErrorTemplateConstant = "unable to write report file %s: %w"
)

// WriteYAML encodes the run result as a YAML document.
func WriteYAML(writer io.Writer, result RunResult) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(result); encodeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, closeError)
	}
	return nil
}

// WriteYAMLFile writes the run result to filePath, replacing any existing file.
func WriteYAMLFile(filePath string, result RunResult) error {
	file, createError := os.OpenFile(filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(reportFileWriteErrorTemplateConstant, filePath, createError)
	}
	if writeError := WriteYAML(file, result); writeError != nil {
		file.Close()
		return fmt.Errorf(reportFileWriteErrorTemplateConstant, filePath, writeError)
	}
	if closeError := file.Close(); closeError != nil {
		return fmt.Errorf(reportFileWriteErrorTemplateConstant, filePath, closeError)
	}
	return nil
}
