// Package exitcode provides standardized exit codes for archgate
package exitcode

// Exit codes for the archgate CLI. CI gates key off these values:
// a clean tree exits 0, structural violations (including recoverable
// parse errors) exit 1, and anything that prevented evaluation from
// running at all exits 2.
const (
	Success         = 0
	ViolationsFound = 1
	FatalError      = 2
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case ViolationsFound:
		return "Structural violations found"
	case FatalError:
		return "Fatal error before evaluation"
	default:
		return "Unknown error"
	}
}
