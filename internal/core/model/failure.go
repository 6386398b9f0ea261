package model

import "fmt"

// FailureCategory distinguishes blocking diagnostics from advisory ones.
type FailureCategory string

const (
	CategoryError   FailureCategory = "error"
	CategoryWarning FailureCategory = "warning"
)

// FileMap locates a failure in a source file. File indexing is done outside the core.
type FileMap struct {
	FullPath   string `json:"fullPath"`
	LineNumber int    `json:"lineNumber"`
}

// ValidationFailure is a diagnostic produced while building or validating the model.
type ValidationFailure struct {
	ValidatorName string          `json:"validatorName"`
	Category      FailureCategory `json:"category"`
	Message       string          `json:"message"`
	SourceMap     SourceMap       `json:"sourceMap"`
	FileMap       *FileMap        `json:"fileMap,omitempty"`
}

// String formats the failure as "file:line:col category [validator] message".
func (f ValidationFailure) String() string {
	location := f.SourceMap.String()
	if f.FileMap != nil {
		location = fmt.Sprintf("%s:%s", f.FileMap.FullPath, location)
	}
	return fmt.Sprintf("%s %s [%s] %s", location, f.Category, f.ValidatorName, f.Message)
}
