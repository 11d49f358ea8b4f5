// Package refactor implements range-addressed, safety-checked source
// transformations: extract-variable, extract-method, and safe-delete.
//
// Every operation follows the same contract: preconditions are checked
// first and fail with a typed error before any edit is computed, and a
// successful result carries ordered text edits plus a human-readable
// description. Partial edit lists are never produced.
package refactor
