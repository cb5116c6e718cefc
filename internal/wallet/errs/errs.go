// Package errs defines the error kinds shared by every wallet package.
//
// Each kind is a sentinel usable with errors.Is. Refinements such as
// ErrInvalidIndex unwrap to their kind, so callers can match either the
// precise cause or the broad category.
package errs

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kinds.
var (
	ErrValidation            = errors.New("validation error")
	ErrDerivation            = errors.New("derivation error")
	ErrEncoding              = errors.New("encoding error")
	ErrProvider              = errors.New("provider error")
	ErrUnsupportedOperation  = errors.New("unsupported operation")
	ErrMissingChainSelection = errors.New("no chain selected")
)

// Refinements.
var (
	ErrInvalidIndex      = refine("invalid account index", ErrValidation)
	ErrInvalidRange      = refine("invalid index range", ErrValidation)
	ErrInvalidMnemonic   = refine("invalid mnemonic", ErrValidation)
	ErrInvalidAddress    = refine("invalid address", ErrValidation)
	ErrInvalidAmount     = refine("invalid amount", ErrValidation)
	ErrInvalidPublicKey  = refine("invalid public key", ErrValidation)
	ErrChecksum          = refine("checksum mismatch", ErrEncoding)
	ErrInsufficientFunds = refine("insufficient funds", ErrValidation)
	ErrUnknownChain      = refine("unknown chain", ErrMissingChainSelection)
)

type kindError struct {
	msg    string
	parent error
}

func refine(msg string, parent error) error {
	return &kindError{msg: msg, parent: parent}
}

func (k *kindError) Error() string { return k.msg }
func (k *kindError) Unwrap() error { return k.parent }

type marked struct {
	kind  error
	cause error
}

func (m *marked) Error() string   { return m.kind.Error() + ": " + m.cause.Error() }
func (m *marked) Unwrap() []error { return []error{m.kind, m.cause} }

// Mark tags cause with kind so errors.Is(err, kind) holds while the cause stays
// reachable. Returns nil if cause is nil.
func Mark(kind error, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, kind) {
		return cause
	}
	return &marked{kind: kind, cause: cause}
}

// Error attaches the operation, chain and account index to a failure.
// It never carries key material or the mnemonic.
type Error struct {
	Op    string
	Chain string
	Index int
	Err   error

	indexed bool
}

// At builds an Error bound to an account index.
func At(op string, chain fmt.Stringer, index int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Chain: name(chain), Index: index, Err: err, indexed: true}
}

// For builds an Error that is not bound to a single account index.
func For(op string, chain fmt.Stringer, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Chain: name(chain), Err: err}
}

func name(s fmt.Stringer) string {
	if s == nil {
		return ""
	}
	return s.String()
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Chain != "" {
		b.WriteString(" ")
		b.WriteString(e.Chain)
	}
	if e.indexed {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// HasIndex reports whether the error is bound to an account index.
func (e *Error) HasIndex() bool { return e.indexed }
