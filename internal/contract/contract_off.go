//go:build nocontracts

package contract

// Enabled reports whether checks are compiled in.
const Enabled = false

// Require is a no-op in nocontracts builds.
func Require(bool, string) {}

// Ensure is a no-op in nocontracts builds.
func Ensure(bool, string) {}
