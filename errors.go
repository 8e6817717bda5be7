package topology

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failures. Every error returned by this package wraps one of
// these; match with errors.Is.
var (
	ErrInvalidParameters           = errors.New("topology: invalid parameters")
	ErrInvalidIndependentVariables = errors.New("topology: invalid independent variables")
	ErrInvalidExpression           = errors.New("topology: invalid expression")

	// ErrMissingParameters marks expression symbols that neither a
	// parameter nor an independent variable supplies.
	ErrMissingParameters = errors.New("topology: missing necessary parameters to evaluate expression")

	// ErrParameterOverlap is returned by SetExpression when the supplied
	// parameters share no name with the current ones and the expression
	// is left unchanged.
	ErrParameterOverlap = errors.New("topology: parameters include no names found in the current parameters")

	ErrParameterSymbolCollision = errors.New("topology: mismatch between parameters and expression symbols")
	ErrInvalidMemberTypes       = errors.New("topology: invalid member types")
	ErrUnknownTemplate          = errors.New("topology: unknown template")
)

// SymbolError reports a failure tied to specific symbol names.
type SymbolError struct {
	Op      string
	Symbols []string
	Err     error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: %v: {%s}", e.Op, e.Err, strings.Join(e.Symbols, ", "))
}

func (e *SymbolError) Unwrap() error { return e.Err }
