// Package exitcode defines exit codes for the srmbridge CLI.
package exitcode

// Exit codes follow a standard convention:
// 0 = Success
// 1 = Conversion finished with diagnostics (only reported in strict mode)
// 2 = Tool/config error or fatal conversion error
const (
	// Success indicates the run completed cleanly.
	Success = 0

	// Degraded indicates the output was written but fields or artifacts were dropped.
	Degraded = 1

	// Error indicates a tool, configuration or fatal conversion error.
	Error = 2
)

// FromDiagnostics converts the number of non-fatal diagnostics of a
// completed run to an exit code.
func FromDiagnostics(count int, strictMode bool) int {
	if count > 0 && strictMode {
		return Degraded
	}
	return Success
}

// Description returns a human-readable description of the exit code.
func Description(code int) string {
	switch code {
	case Success:
		return "Completed successfully"
	case Degraded:
		return "Completed with diagnostics"
	case Error:
		return "Tool or configuration error"
	default:
		return "Unknown exit code"
	}
}

// IsSuccess returns true if the exit code indicates success.
func IsSuccess(code int) bool {
	return code == Success
}

// IsDegraded returns true if the exit code indicates a degraded run.
func IsDegraded(code int) bool {
	return code == Degraded
}

// IsError returns true if the exit code indicates an error.
func IsError(code int) bool {
	return code == Error
}
