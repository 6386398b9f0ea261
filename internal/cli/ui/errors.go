package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ TABLE NOT FOUND: Studnt
//	   Cannot find table 'Studnt' in namespace 'EdFi'.
//
//	   Did you mean: Student, StudentSchoolAssociation?
//
//	   → See all tables: metaed inspect tables --namespace EdFi
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	headerColor, bodyColor, symbol := levelStyle(opts.Level)
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Problem != "" && opts.Context != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func levelStyle(level ErrorLevel) (header, body *color.Color, symbol string) {
	switch level {
	case ErrorLevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case ErrorLevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// FormatFailure renders one validation failure as a single line,
// colored by category.
func FormatFailure(f model.ValidationFailure, noColor bool) string {
	level := ErrorLevelError
	if f.Category == model.CategoryWarning {
		level = ErrorLevelWarning
	}
	header, _, symbol := levelStyle(level)
	gray := color.New(color.FgHiBlack)
	if noColor {
		header.DisableColor()
		gray.DisableColor()
	}

	location := f.SourceMap.String()
	if f.FileMap != nil {
		location = fmt.Sprintf("%s:%d", f.FileMap.FullPath, f.FileMap.LineNumber)
	}
	return fmt.Sprintf("%s %s %s %s",
		header.Sprint(symbol),
		location,
		gray.Sprintf("[%s]", f.ValidatorName),
		f.Message)
}

// WriteFailures writes each failure on its own line, errors before warnings.
func WriteFailures(w io.Writer, failures []model.ValidationFailure, noColor bool) {
	for _, category := range []model.FailureCategory{model.CategoryError, model.CategoryWarning} {
		for _, f := range failures {
			if f.Category == category {
				fmt.Fprintln(w, FormatFailure(f, noColor))
			}
		}
	}
}

// NamespaceNotFoundError creates a standardized namespace not found error
func NamespaceNotFoundError(name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "NAMESPACE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find namespace '%s'.", name),
		Suggestions: suggestions,
		HelpCommands: []string{
			"Check projects: cat metaed.yml",
			"Get help: metaed inspect --help",
		},
		NoColor: noColor,
	})
}

// TableNotFoundError creates a standardized table not found error
func TableNotFoundError(namespace, table string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "TABLE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find table '%s' in namespace '%s'.", table, namespace),
		Suggestions: suggestions,
		HelpCommands: []string{
			fmt.Sprintf("See all tables: metaed inspect tables --namespace %s", namespace),
		},
		NoColor: noColor,
	})
}

// BuildError creates a standardized build error
func BuildError(message string, consequence string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "BUILD FAILED",
		Problem:     message,
		Consequence: consequence,
		HelpCommands: []string{
			"Show enhancer detail: metaed build -v",
			"Get help: metaed build --help",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat metaed.yml",
			"Get help: metaed --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
