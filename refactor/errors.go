package refactor

import (
	"errors"
	"fmt"

	"github.com/jward/loupe"
)

// Sentinel errors for precondition failures that need no extra payload.
var (
	ErrNoExpression       = errors.New("no expression at selection")
	ErrMultipleStatements = errors.New("selection spans multiple statements")
	ErrUnknownType        = errors.New("cannot determine expression type")
)

// InvalidSelectionError reports a selection that cannot be interpreted at
// all.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s", e.Reason)
}

// CannotExtractError reports a selection that is understood but not
// extractable.
type CannotExtractError struct {
	Reason string
}

func (e *CannotExtractError) Error() string {
	return fmt.Sprintf("cannot extract: %s", e.Reason)
}

// SymbolInUseError blocks a safe-delete and carries every usage location
// that keeps the symbol alive.
type SymbolInUseError struct {
	Usages []loupe.Location
}

func (e *SymbolInUseError) Error() string {
	return fmt.Sprintf("symbol is still in use (%d usages)", len(e.Usages))
}

// ControlFlowError reports a selection that crosses control flow in a way
// the transformation cannot preserve.
type ControlFlowError struct {
	Reason string
}

func (e *ControlFlowError) Error() string {
	return fmt.Sprintf("control flow issue: %s", e.Reason)
}

// ParseError reports source that could not be analyzed.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}
