package refactor

import "fmt"

// Action identifiers accepted by Execute.
const (
	ActionExtractVariable = "extract-variable"
	ActionExtractMethod   = "extract-method"
	ActionSafeDelete      = "safe-delete"
)

// Actions lists the refactorings for a selection. Actions that do not
// apply stay in the list, marked unavailable with the precondition's
// reason.
func Actions(ctx *Context) []Action {
	var actions []Action

	if err := CanExtractVariable(ctx); err != nil {
		actions = append(actions, Action{
			ID:                ActionExtractVariable,
			Title:             "Extract Variable",
			Kind:              KindExtractVariable,
			UnavailableReason: err.Error(),
		})
	} else {
		actions = append(actions, Action{
			ID:        ActionExtractVariable,
			Title:     "Extract Variable",
			Kind:      KindExtractVariable,
			Available: true,
		})
	}

	if err := CanExtractMethod(ctx); err != nil {
		actions = append(actions, Action{
			ID:                ActionExtractMethod,
			Title:             "Extract Method",
			Kind:              KindExtractMethod,
			UnavailableReason: err.Error(),
		})
	} else {
		actions = append(actions, Action{
			ID:        ActionExtractMethod,
			Title:     "Extract Method",
			Kind:      KindExtractMethod,
			Available: true,
		})
	}

	return actions
}

// Execute dispatches one refactoring by action id. The name applies to the
// extraction actions and falls back to a generic one when empty.
func Execute(ctx *Context, actionID, name string) (*Result, error) {
	switch actionID {
	case ActionExtractVariable:
		if name == "" {
			name = "extracted"
		}
		return ExtractVariable(ctx, name)
	case ActionExtractMethod:
		if name == "" {
			name = "extractedMethod"
		}
		return ExtractMethod(ctx, name)
	case ActionSafeDelete:
		return SafeDelete(ctx)
	default:
		return nil, &InvalidSelectionError{Reason: fmt.Sprintf("unknown action: %s", actionID)}
	}
}
