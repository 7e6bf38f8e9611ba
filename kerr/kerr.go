// Package kerr defines four error kinds to surface in place of an
// int-code-plus-stderr-print discipline: MalformedInput, IoError,
// BudgetExhausted, and LogicError. Diagnostic formatting is left to the
// CLI collaborator; core packages only classify and wrap.
package kerr

import "github.com/pkg/errors"

// Kind classifies an error.
type Kind int

const (
	// LogicError covers internal invariant violations that should not
	// occur given correct callers; it is also used for declared-but-
	// unimplemented paths.
	LogicError Kind = iota
	// MalformedInput covers graph parse failures, permutation/graph
	// cardinality mismatches, and corrupted binaries.
	MalformedInput
	// IoError covers failures to open an input or output path.
	IoError
	// BudgetExhausted covers max_forks/max_matches truncation. This is
	// reported as success with partial results, not surfaced as an error
	// from the matcher itself; the kind exists so CLI-level reporting can
	// distinguish it if it chooses to.
	BudgetExhausted
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case IoError:
		return "IoError"
	case BudgetExhausted:
		return "BudgetExhausted"
	default:
		return "LogicError"
	}
}

// Error is a typed, wrap-chain-preserving error.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.err.Error() }

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// New creates a Kind-tagged error from a message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

// Wrap tags an existing error with a kind and a message, preserving the
// cause chain via github.com/pkg/errors.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Wrapf is the formatted form of Wrap.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrapf(err, format, args...)}
}

// KindOf extracts the Kind of err if it (or a wrapped cause) is a *Error,
// defaulting to LogicError otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return LogicError
}
