// Package auc is the public entry point to the Austral front end:
// lexing, parsing, type/universe resolution, and linearity checking,
// as laid out in spec.md §1's pipeline. Code generation and linking are
// out of scope; see internal/lowering for the seam a backend attaches
// to.
package auc

import (
	"fmt"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/lexer"
	"github.com/austral-lang/auc/internal/linearity"
	"github.com/austral-lang/auc/internal/parser"
	"github.com/austral-lang/auc/internal/resolver"
	"github.com/austral-lang/auc/internal/token"
	"github.com/austral-lang/auc/internal/typedast"
)

// ModuleDecl re-exports resolver.ModuleDecl: an imported module's
// interface-side items, needed to resolve a body that imports it.
type ModuleDecl = resolver.ModuleDecl

// Lex tokenizes src, spec.md §4.L.
func Lex(file string, src []byte) ([]token.Token, error) {
	return lexer.Lex(file, src)
}

// ParseModule parses a token stream into an untyped module tree,
// spec.md §4.P.
func ParseModule(toks []token.Token) (*ast.Module, error) {
	return parser.ParseModule(toks)
}

// TypeCheck resolves universes, types, and typeclass dispatch over mod,
// given the declaration-side items of every module it imports,
// spec.md §4.R.
func TypeCheck(mod *ast.Module, imports []ModuleDecl) (*typedast.Module, error) {
	return resolver.TypeCheck(mod, imports)
}

// LinearityCheck verifies that every Linear-universe value in mod is
// used exactly once on every control-flow path, spec.md §4.C.
func LinearityCheck(mod *typedast.Module) error {
	return linearity.Check(mod)
}

// Result is the outcome of running the full pipeline over one module.
type Result struct {
	Tree  *ast.Module
	Typed *typedast.Module
}

// Check runs the full pipeline (lex, parse, resolve, linearity-check)
// over a single module body or interface with no imports. Use the
// individual stage functions directly when a module needs imports
// resolved first.
func Check(file string, src []byte) (*Result, error) {
	toks, err := Lex(file, src)
	if err != nil {
		return nil, err
	}
	tree, err := ParseModule(toks)
	if err != nil {
		return nil, err
	}
	typed, err := TypeCheck(tree, nil)
	if err != nil {
		return nil, err
	}
	if err := LinearityCheck(typed); err != nil {
		return nil, err
	}
	return &Result{Tree: tree, Typed: typed}, nil
}

// IsDiagnostic reports whether err is one of the compiler's structured
// diagnostics (as opposed to an I/O or internal error), and returns it
// as such.
func IsDiagnostic(err error) (diagnostic.Diagnostic, bool) {
	d, ok := err.(diagnostic.Diagnostic)
	return d, ok
}

// WrapStage attaches a pipeline stage name to an error for CLI/log
// display without losing the underlying diagnostic via %w.
func WrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", stage, err)
}
