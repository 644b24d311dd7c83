package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/pierremrtn/chassis/internal/errors"
)

// DiagnosticReporter renders generation diagnostics for the terminal.
// Exclusion diagnostics, which drop one member while the batch continues,
// render as warnings; everything else is an error.
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// Report prints every diagnostic and returns the error and warning counts.
func (r *DiagnosticReporter) Report(diags *errors.DiagnosticList) (errorCount, warningCount int) {
	for _, diag := range diags.Errors {
		if isWarning(diag.ErrorCode()) {
			warningCount++
			r.print(color.New(color.FgYellow, color.Bold), "warning", diag)
		} else {
			errorCount++
			r.print(color.New(color.FgRed, color.Bold), "error", diag)
		}
	}
	return errorCount, warningCount
}

// isWarning reports whether a code excludes a single member rather than
// failing the run.
func isWarning(code errors.ErrorCode) bool {
	return code == errors.MissingConstructorCode
}

func (r *DiagnosticReporter) print(label *color.Color, severity string, diag errors.ChassisError) {
	label.Fprintf(r.out, "%s: ", severity)
	if loc := diag.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "%s: ", loc)
	}
	fmt.Fprintf(r.out, "%s: %s\n", diag.ErrorCode(), message(diag))

	for _, hint := range diag.Suggestions() {
		dim := color.New(color.Faint)
		dim.Fprintf(r.out, "  hint: %s\n", hint)
	}
	if r.verbose {
		if cause := diag.Unwrap(); cause != nil {
			fmt.Fprintf(r.out, "  cause: %s\n", cause)
		}
	}
}

// message extracts the bare message so the location is not printed twice.
func message(diag errors.ChassisError) string {
	if base, ok := diag.(*errors.BaseError); ok {
		return base.Message
	}
	return diag.Error()
}
