// Package diagnostic defines the error types of the parse, resolve and
// linearity phases: ParseError, TypeError, LinearityError. The lexer
// reports its failures as lexer.UnexpectedInputError, which carries its
// span as a field and is not a Diagnostic. Every value carries exactly
// one span and a short message, per spec.md §7.
// The pipeline is fail-fast — there is no warning channel and no
// recovery mode, so these types are returned, never accumulated.
package diagnostic

import (
	"fmt"

	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// Diagnostic is the interface every error type in the taxonomy
// satisfies, grounded on the teacher's consistent fmt.Errorf("...: %w")
// wrapping idiom — here formalized as a named span accessor instead of
// ad hoc string wrapping, so cmd/auc can render a uniform "file:line:col:
// message" line regardless of which phase failed.
type Diagnostic interface {
	error
	Span() span.Span
}

// ParseError reports a token that did not match any expected production,
// together with the set of tokens that would have matched.
type ParseError struct {
	At       span.Span
	Expected []token.Kind
	Got      token.Kind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected %s, expected one of %v", e.At, e.Got, e.Expected)
}

func (e *ParseError) Span() span.Span { return e.At }

// TypeErrorKind is the closed set of spec.md §6's TypeError.kind values.
type TypeErrorKind int

const (
	UndefinedSymbol TypeErrorKind = iota
	ArityMismatch
	TypeMismatch
	UniverseMismatch
	BadCast
	MixedArgumentStyle
	NonExhaustiveDestructure
	OverlappingInstance
	MissingInstance
)

func (k TypeErrorKind) String() string {
	switch k {
	case UndefinedSymbol:
		return "UndefinedSymbol"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case UniverseMismatch:
		return "UniverseMismatch"
	case BadCast:
		return "BadCast"
	case MixedArgumentStyle:
		return "MixedArgumentStyle"
	case NonExhaustiveDestructure:
		return "NonExhaustiveDestructure"
	case OverlappingInstance:
		return "OverlappingInstance"
	case MissingInstance:
		return "MissingInstance"
	default:
		return "<bad TypeErrorKind>"
	}
}

// TypeError is the resolver/type-checker's structured failure value.
type TypeError struct {
	At     span.Span
	Kind   TypeErrorKind
	Detail string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.At, e.Kind, e.Detail)
}

func (e *TypeError) Span() span.Span { return e.At }

// LinearityErrorKind is the closed set of spec.md §6's LinearityError.kind
// values.
type LinearityErrorKind int

const (
	UseAfterConsume LinearityErrorKind = iota
	MultipleConsumption
	UnconsumedOnReturn
	BorrowConflict
	BranchStateMismatch
	LoopStateMismatch
)

func (k LinearityErrorKind) String() string {
	switch k {
	case UseAfterConsume:
		return "UseAfterConsume"
	case MultipleConsumption:
		return "MultipleConsumption"
	case UnconsumedOnReturn:
		return "UnconsumedOnReturn"
	case BorrowConflict:
		return "BorrowConflict"
	case BranchStateMismatch:
		return "BranchStateMismatch"
	case LoopStateMismatch:
		return "LoopStateMismatch"
	default:
		return "<bad LinearityErrorKind>"
	}
}

// LinearityError is the linearity checker's structured failure value.
type LinearityError struct {
	At      span.Span
	Kind    LinearityErrorKind
	Message string
}

func (e *LinearityError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.At, e.Kind, e.Message)
}

func (e *LinearityError) Span() span.Span { return e.At }
