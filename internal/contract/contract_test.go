//go:build !nocontracts

package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire_Passes(t *testing.T) {
	assert.NotPanics(t, func() { Require(true, "never fires") })
	assert.NotPanics(t, func() { Ensure(true, "never fires") })
}

func TestRequire_PanicsWithViolation(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		v, ok := r.(*Violation)
		require.True(t, ok, "panic value should be *Violation, got %T", r)
		assert.Equal(t, "precondition", v.Kind)
		assert.Equal(t, "resolution must be positive", v.Message)
		assert.Equal(t, "contract_test.go", v.File)
		assert.Greater(t, v.Line, 0)
		assert.True(t, strings.HasPrefix(v.Error(), "precondition failed in contract_test.go"))
	}()
	Require(false, "resolution must be positive")
}

func TestEnsure_PanicsWithViolation(t *testing.T) {
	defer func() {
		v, ok := recover().(*Violation)
		require.True(t, ok)
		assert.Equal(t, "postcondition", v.Kind)
	}()
	Ensure(false, "result has wrong length")
}

func TestEnabled(t *testing.T) {
	assert.True(t, Enabled)
}
