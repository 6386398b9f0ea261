package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/metaed-lang/metaed/internal/core/model"
)

func TestFormatError(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "TABLE NOT FOUND",
				Problem: "Cannot find table 'Student'.",
			},
			contains: []string{
				"❌",
				"TABLE NOT FOUND",
				"Cannot find table 'Student'.",
			},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Context:     "TABLE NOT FOUND",
				Problem:     "Cannot find table 'Studnt'.",
				Suggestions: []string{"Student", "StudentSchoolAssociation"},
			},
			contains: []string{
				"Did you mean: Student, StudentSchoolAssociation?",
			},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "BUILD FAILED",
				Problem: "enhancer failed",
				HelpCommands: []string{
					"Show enhancer detail: metaed build -v",
					"Get help: metaed build --help",
				},
			},
			contains: []string{
				"→ Show enhancer detail: metaed build -v",
				"→ Get help: metaed build --help",
			},
		},
		{
			name: "warning message",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "Descriptor identity column kept",
			},
			contains: []string{
				"⚠️",
				"Descriptor identity column kept",
			},
		},
		{
			name: "info message",
			opts: ErrorOptions{
				Level:   ErrorLevelInfo,
				Problem: "Build completed successfully",
			},
			contains: []string{
				"ℹ️",
				"Build completed successfully",
			},
		},
		{
			name: "error with consequence",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Context:     "BUILD FAILED",
				Problem:     "ColumnEnhancer failed",
				Consequence: "Later plugins were skipped",
			},
			contains: []string{
				"ColumnEnhancer failed",
				"Later plugins were skipped",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("FormatError() output missing expected string:\nExpected to contain: %q\nGot: %q", expected, result)
				}
			}
		})
	}
}

func TestNamespaceNotFoundError(t *testing.T) {
	result := NamespaceNotFoundError("EdFy", []string{"EdFi"}, true)

	expected := []string{
		"NAMESPACE NOT FOUND",
		"Cannot find namespace 'EdFy'.",
		"Did you mean: EdFi?",
		"Check projects: cat metaed.yml",
	}

	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("NamespaceNotFoundError() missing expected string: %q", exp)
		}
	}
}

func TestTableNotFoundError(t *testing.T) {
	result := TableNotFoundError("EdFi", "Studnt", []string{"Student"}, true)

	expected := []string{
		"TABLE NOT FOUND",
		"Cannot find table 'Studnt' in namespace 'EdFi'.",
		"Did you mean: Student?",
		"metaed inspect tables --namespace EdFi",
	}

	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("TableNotFoundError() missing expected string: %q", exp)
		}
	}
}

func TestBuildError(t *testing.T) {
	result := BuildError("ColumnEnhancer: boom", "edfi-odsapi was skipped", true)

	expected := []string{
		"BUILD FAILED",
		"ColumnEnhancer: boom",
		"edfi-odsapi was skipped",
		"Show enhancer detail: metaed build -v",
	}

	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("BuildError() missing expected string: %q", exp)
		}
	}
}

func TestConfigError(t *testing.T) {
	result := ConfigError("projects[0]: path is required", true)

	for _, exp := range []string{"CONFIGURATION ERROR", "path is required", "cat metaed.yml"} {
		if !strings.Contains(result, exp) {
			t.Errorf("ConfigError() missing expected string: %q", exp)
		}
	}
}

func TestFormatSuccess(t *testing.T) {
	result := FormatSuccess("Build completed", true)

	if !strings.Contains(result, "✓") {
		t.Errorf("FormatSuccess() missing checkmark")
	}
	if !strings.Contains(result, "Build completed") {
		t.Errorf("FormatSuccess() missing message")
	}
}

func TestWarningAndInfo(t *testing.T) {
	if got := Warning("Deprecated", true); !strings.Contains(got, "⚠️") || !strings.Contains(got, "Deprecated") {
		t.Errorf("Warning() = %q", got)
	}
	if got := Info("Process starting", true); !strings.Contains(got, "ℹ️") || !strings.Contains(got, "Process starting") {
		t.Errorf("Info() = %q", got)
	}
}

func TestFormatFailure(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		failure model.ValidationFailure
		want    string
	}{
		{
			name: "synthetic error",
			failure: model.ValidationFailure{
				ValidatorName: "ColumnEnhancer",
				Category:      model.CategoryError,
				Message:       "duplicate table TermType",
			},
			want: "❌ <synthetic> [ColumnEnhancer] duplicate table TermType",
		},
		{
			name: "warning with source",
			failure: model.ValidationFailure{
				ValidatorName: "Deprecated",
				Category:      model.CategoryWarning,
				Message:       "deprecated",
				SourceMap:     model.SourceMap{Line: 4, Column: 2},
			},
			want: "⚠️ 4:2 [Deprecated] deprecated",
		},
		{
			name: "file map wins",
			failure: model.ValidationFailure{
				ValidatorName: "V",
				Category:      model.CategoryError,
				Message:       "m",
				SourceMap:     model.SourceMap{Line: 4, Column: 2},
				FileMap:       &model.FileMap{FullPath: "Student.metaed", LineNumber: 9},
			},
			want: "❌ Student.metaed:9 [V] m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFailure(tt.failure, true); got != tt.want {
				t.Errorf("FormatFailure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFailuresErrorsFirst(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	WriteFailures(&buf, []model.ValidationFailure{
		{ValidatorName: "W", Category: model.CategoryWarning, Message: "later"},
		{ValidatorName: "E", Category: model.CategoryError, Message: "first"},
	}, true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "later") {
		t.Errorf("unexpected order: %q", lines)
	}
}
