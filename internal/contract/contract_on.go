//go:build !nocontracts

package contract

// Enabled reports whether checks are compiled in.
const Enabled = true

// Require panics with a precondition Violation when cond is false.
func Require(cond bool, msg string) {
	if !cond {
		fail("precondition", msg)
	}
}

// Ensure panics with a postcondition Violation when cond is false.
func Ensure(cond bool, msg string) {
	if !cond {
		fail("postcondition", msg)
	}
}
