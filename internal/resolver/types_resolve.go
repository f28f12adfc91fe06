package resolver

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/types"
)

// resolveTypeSpec turns syntactic TypeSpec into a resolved types.Ty.
// Type parameter names resolve through r.curVars (set by
// setupFunctionScope or instantiateSignature); the typeParams argument
// is only passed down to nested specs and is not consulted for lookups.
func (r *Resolver) resolveTypeSpec(t ast.TypeSpec, typeParams map[string]*ast.TypeParam) (types.Ty, error) {
	switch t := t.(type) {
	case *ast.SimpleType:
		return r.resolveNamed(t.Name, nil, t.Span)
	case *ast.GenericType:
		args := make([]types.Ty, len(t.Args))
		for i, a := range t.Args {
			ty, err := r.resolveTypeSpec(a, typeParams)
			if err != nil {
				return types.Ty{}, err
			}
			args[i] = ty
		}
		return r.resolveNamed(t.Name, args, t.Span)
	case *ast.RefType:
		lhs, err := r.resolveTypeSpec(t.Lhs, typeParams)
		if err != nil {
			return types.Ty{}, err
		}
		rgnID, ok := r.lookupRegion(t.Rhs)
		if !ok {
			return types.Ty{}, &diagnostic.TypeError{At: t.NodeSpan(), Kind: diagnostic.UndefinedSymbol,
				Detail: "undefined region " + t.Rhs}
		}
		rgn := types.RegionTy(rgnID)
		switch t.Kind {
		case ast.RefBorrowRead:
			return types.ReadRef(lhs, rgn), nil
		case ast.RefBorrowWrite:
			return types.WriteRef(lhs, rgn), nil
		case ast.RefSpanRead:
			return types.Span(lhs, rgn), nil
		case ast.RefSpanWrite:
			return types.SpanMut(lhs, rgn), nil
		}
	}
	return types.Ty{}, &diagnostic.TypeError{At: t.NodeSpan(), Kind: diagnostic.UndefinedSymbol, Detail: "malformed type spec"}
}

// resolveNamed resolves a bare or applied name against, in order: the
// current function's in-scope type parameters, the built-in prelude,
// opaque types, records, and unions. Region parameters are looked up
// separately, by lookupRegion.
func (r *Resolver) resolveNamed(name string, args []types.Ty, at span.Span) (types.Ty, error) {
	if vid, ok := r.curVars[name]; ok {
		tp := r.curVarKinds[name]
		return types.TyVar(vid, tp, nil), nil
	}
	if ty, ok := prelude[name]; ok {
		return ty, nil
	}
	if e, ok := r.types[name]; ok {
		if len(args) != len(e.typeParams) {
			return types.Ty{}, typeErrf(at, diagnostic.ArityMismatch, "type %s expects %d argument(s), got %d", name, len(e.typeParams), len(args))
		}
		return types.Named(name, args, e.universe), nil
	}
	if e, ok := r.records[name]; ok {
		if len(args) != len(e.typeParams) {
			return types.Ty{}, typeErrf(at, diagnostic.ArityMismatch, "record %s expects %d argument(s), got %d", name, len(e.typeParams), len(args))
		}
		return types.Named(name, args, e.universe), nil
	}
	if e, ok := r.unions[name]; ok {
		if len(args) != len(e.typeParams) {
			return types.Ty{}, typeErrf(at, diagnostic.ArityMismatch, "union %s expects %d argument(s), got %d", name, len(e.typeParams), len(args))
		}
		u, err := r.unionUniverse(e)
		if err != nil {
			return types.Ty{}, err
		}
		return types.Named(name, args, u), nil
	}
	return types.Ty{}, typeErrf(at, diagnostic.UndefinedSymbol, "undefined type %s", name)
}
