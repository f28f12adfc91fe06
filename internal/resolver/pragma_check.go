package resolver

import (
	"fmt"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/pragma"
)

// checkPragmas validates each pragma's argument shape against the
// known schema for its name (internal/pragma), rendering the already-
// parsed ast.Expr arguments back to source text first.
func checkPragmas(pragmas []*ast.Pragma) error {
	for _, p := range pragmas {
		src := renderPragmaBody(p)
		body, err := pragma.ParseBody(src)
		if err != nil {
			return fmt.Errorf("pragma %s: %w", p.Name, err)
		}
		if err := pragma.Validate(p.Name, body); err != nil {
			return err
		}
	}
	return nil
}

func renderPragmaBody(p *ast.Pragma) string {
	if len(p.NamedArgs) > 0 {
		out := ""
		for i, a := range p.NamedArgs {
			if i > 0 {
				out += ", "
			}
			out += a.Name + " => " + renderLiteral(a.Val)
		}
		return out
	}
	out := ""
	for i, a := range p.Args {
		if i > 0 {
			out += ", "
		}
		out += renderLiteral(a)
	}
	return out
}

// renderLiteral renders the subset of expressions pragma arguments may
// hold (literals and bare identifiers) back to source text. Anything
// else renders as an opaque placeholder identifier, which is enough to
// satisfy arity checks even though it loses the value itself.
func renderLiteral(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LitString, ast.LitChar:
			return `"` + e.Text + `"`
		case ast.LitNil:
			return "nil"
		case ast.LitTrue:
			return "true"
		case ast.LitFalse:
			return "false"
		default:
			return e.Text
		}
	case *ast.Variable:
		return e.Name
	default:
		return "_"
	}
}
