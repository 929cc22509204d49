// Package contract provides fail-fast assertions for programmer errors.
//
// Require checks a precondition and Ensure a postcondition. A failed check
// panics with a *Violation naming the caller's file and line. Building with
// the nocontracts tag turns both into no-ops; boundary validation that
// callers can trigger with bad input returns errors instead and is never
// compiled out.
package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Violation is the panic value raised by a failed check.
type Violation struct {
	Kind    string // "precondition" or "postcondition"
	Message string
	File    string
	Line    int
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s failed in %s, line %d: %s", v.Kind, v.File, v.Line, v.Message)
}

func fail(kind, msg string) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
	}
	panic(&Violation{
		Kind:    kind,
		Message: msg,
		File:    filepath.Base(file),
		Line:    line,
	})
}
