package resolver

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/typedast"
	"github.com/austral-lang/auc/internal/types"
)

// typeStmts types a statement sequence in order, threading local
// declarations forward within the sequence (spec.md §4.R responsibility
// 5). The caller owns pushing/popping the enclosing scope.
func (r *Resolver) typeStmts(stmts []ast.Stmt) ([]typedast.Stmt, error) {
	out := make([]typedast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		ts, err := r.typeStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

func (r *Resolver) typeStmt(s ast.Stmt) (typedast.Stmt, error) {
	switch s := s.(type) {
	case *ast.LetStmt:
		return r.typeLetStmt(s)
	case *ast.DestructureStmt:
		return r.typeDestructureStmt(s)
	case *ast.AssignStmt:
		return r.typeAssignStmt(s)
	case *ast.IfStmt:
		return r.typeIfStmt(s)
	case *ast.WhileStmt:
		return r.typeWhileStmt(s)
	case *ast.ForStmt:
		return r.typeForStmt(s)
	case *ast.CaseStmt:
		return r.typeCaseStmt(s)
	case *ast.BorrowStmt:
		return r.typeBorrowStmt(s)
	case *ast.DiscardStmt:
		x, err := r.typeExpr(s.X, types.Ty{})
		if err != nil {
			return nil, err
		}
		return &typedast.DiscardStmt{Span: s.Span, X: x}, nil
	case *ast.ReturnStmt:
		x, err := r.typeExpr(s.X, r.currentRet)
		if err != nil {
			return nil, err
		}
		if !x.Type().Equal(r.currentRet) {
			return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "return type %s does not match declared return type %s", x.Type(), r.currentRet)
		}
		return &typedast.ReturnStmt{Span: s.Span, X: x}, nil
	case *ast.SkipStmt:
		return &typedast.SkipStmt{Span: s.Span}, nil
	case *ast.BlockStmt:
		r.pushLocalScope()
		body, err := r.typeStmts(s.Body)
		r.popLocalScope()
		if err != nil {
			return nil, err
		}
		return &typedast.BlockStmt{Span: s.Span, Body: body}, nil
	default:
		return nil, typeErrf(s.NodeSpan(), diagnostic.UndefinedSymbol, "unhandled statement form")
	}
}

func (r *Resolver) typeLetStmt(s *ast.LetStmt) (typedast.Stmt, error) {
	var expected, annotated types.Ty
	hasAnnotation := s.Type != nil
	if hasAnnotation {
		ty, err := r.resolveTypeSpec(s.Type, nil)
		if err != nil {
			return nil, err
		}
		annotated, expected = ty, ty
	}
	val, err := r.typeExpr(s.Value, expected)
	if err != nil {
		return nil, err
	}
	finalTy := val.Type()
	if hasAnnotation && !annotated.Equal(finalTy) {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "%s: expected %s, got %s", s.Name, annotated, finalTy)
	}
	r.declareLocal(s.Name, &localBinding{ty: finalTy, mutable: s.Mutable, kind: typedast.IdentLocal})
	return &typedast.LetStmt{Span: s.Span, Mutable: s.Mutable, Name: s.Name, Type: finalTy, Value: val}, nil
}

// typeDestructureStmt types "let { a:τ, b as c:τ } := e;": e must be a
// record value, every binding's explicit annotation is checked against
// the (generically substituted) slot type, and the destructure must
// cover every slot (spec.md's non-exhaustive-destructure edge case).
func (r *Resolver) typeDestructureStmt(s *ast.DestructureStmt) (typedast.Stmt, error) {
	val, err := r.typeExpr(s.Value, types.Ty{})
	if err != nil {
		return nil, err
	}
	if val.Type().Kind != types.KNamed {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "destructure requires a record value, got %s", val.Type())
	}
	rec, ok := r.records[val.Type().Name]
	if !ok {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "%s is not a record", val.Type().Name)
	}
	if len(s.Bindings) != len(rec.slots) {
		return nil, typeErrf(s.Span, diagnostic.NonExhaustiveDestructure, "destructure of %s binds %d of %d slots", val.Type().Name, len(s.Bindings), len(rec.slots))
	}

	savedVars, savedKinds := r.curVars, r.curVarKinds
	r.curVars = map[string]types.TyVarID{}
	r.curVarKinds = map[string]types.Universe{}
	subst := types.Subst{}
	for i, tp := range rec.typeParams {
		vid := r.arena.FreshVar()
		r.curVars[tp.Name] = vid
		r.curVarKinds[tp.Name] = fromASTUniverse(tp.Universe)
		subst[vid] = val.Type().TypeArgs[i]
	}
	restore := func() { r.curVars, r.curVarKinds = savedVars, savedKinds }

	bindings := make([]typedast.DestructureBinding, len(s.Bindings))
	for i, b := range s.Bindings {
		var slotSpec ast.TypeSpec
		for _, sl := range rec.slots {
			if sl.Name == b.Name {
				slotSpec = sl.Type
				break
			}
		}
		if slotSpec == nil {
			restore()
			return nil, typeErrf(b.Span, diagnostic.UndefinedSymbol, "%s has no slot %s", val.Type().Name, b.Name)
		}
		genericTy, err := r.resolveTypeSpec(slotSpec, nil)
		if err != nil {
			restore()
			return nil, err
		}
		boundTy := subst.Apply(genericTy)
		annotated, err := r.resolveTypeSpec(b.Type, nil)
		if err != nil {
			restore()
			return nil, err
		}
		if !annotated.Equal(boundTy) {
			restore()
			return nil, typeErrf(b.Span, diagnostic.TypeMismatch, "slot %s: expected %s, got %s", b.Name, boundTy, annotated)
		}
		name := b.Name
		if b.RenameAs != "" {
			name = b.RenameAs
		}
		bindings[i] = typedast.DestructureBinding{Name: name, Type: annotated}
	}
	restore()
	for _, b := range bindings {
		r.declareLocal(b.Name, &localBinding{ty: b.Type, kind: typedast.IdentLocal})
	}
	return &typedast.DestructureStmt{Span: s.Span, Bindings: bindings, Value: val}, nil
}

func (r *Resolver) typeAssignStmt(s *ast.AssignStmt) (typedast.Stmt, error) {
	var rootName string
	switch t := s.Target.(type) {
	case *ast.Variable:
		rootName = t.Name
	case *ast.Path:
		rootName = t.Head
	default:
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "invalid assignment target")
	}
	b, ok := r.lookupLocal(rootName)
	if !ok {
		return nil, typeErrf(s.Span, diagnostic.UndefinedSymbol, "undefined variable %s", rootName)
	}
	if !b.mutable {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "%s was not declared with var and cannot be assigned", rootName)
	}
	target, err := r.typeExpr(s.Target, types.Ty{})
	if err != nil {
		return nil, err
	}
	val, err := r.typeExpr(s.Value, target.Type())
	if err != nil {
		return nil, err
	}
	if !target.Type().Equal(val.Type()) {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "assignment: target has type %s, value has type %s", target.Type(), val.Type())
	}
	return &typedast.AssignStmt{Span: s.Span, Target: target, Value: val}, nil
}

func (r *Resolver) typeIfStmt(s *ast.IfStmt) (typedast.Stmt, error) {
	cond, err := r.typeExpr(s.Cond, types.Boolean())
	if err != nil {
		return nil, err
	}
	if cond.Type().Kind != types.KBoolean {
		return nil, typeErrf(s.Cond.NodeSpan(), diagnostic.TypeMismatch, "if condition must be Boolean, got %s", cond.Type())
	}
	r.pushLocalScope()
	then, err := r.typeStmts(s.Then)
	r.popLocalScope()
	if err != nil {
		return nil, err
	}
	var els []typedast.Stmt
	if s.Else != nil {
		r.pushLocalScope()
		els, err = r.typeStmts(s.Else)
		r.popLocalScope()
		if err != nil {
			return nil, err
		}
	}
	return &typedast.IfStmt{Span: s.Span, Cond: cond, Then: then, Else: els}, nil
}

func (r *Resolver) typeWhileStmt(s *ast.WhileStmt) (typedast.Stmt, error) {
	cond, err := r.typeExpr(s.Cond, types.Boolean())
	if err != nil {
		return nil, err
	}
	if cond.Type().Kind != types.KBoolean {
		return nil, typeErrf(s.Cond.NodeSpan(), diagnostic.TypeMismatch, "while condition must be Boolean, got %s", cond.Type())
	}
	r.pushLocalScope()
	body, err := r.typeStmts(s.Body)
	r.popLocalScope()
	if err != nil {
		return nil, err
	}
	return &typedast.WhileStmt{Span: s.Span, Cond: cond, Body: body}, nil
}

func (r *Resolver) typeForStmt(s *ast.ForStmt) (typedast.Stmt, error) {
	idxTy := prelude["Index"]
	from, err := r.typeExpr(s.From, idxTy)
	if err != nil {
		return nil, err
	}
	to, err := r.typeExpr(s.To, from.Type())
	if err != nil {
		return nil, err
	}
	if !from.Type().IsInteger() || !from.Type().Equal(to.Type()) {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "for bounds must share a matching integer type, got %s and %s", from.Type(), to.Type())
	}
	r.pushLocalScope()
	r.declareLocal(s.Var, &localBinding{ty: from.Type(), kind: typedast.IdentLocal})
	body, err := r.typeStmts(s.Body)
	r.popLocalScope()
	if err != nil {
		return nil, err
	}
	return &typedast.ForStmt{Span: s.Span, Var: s.Var, From: from, To: to, Body: body}, nil
}

// typeCaseStmt types "case e of when Case1 binds do ... when Case2 ... end
// case;": e must be a union value, every case must appear exactly once,
// and every case's when-arm must bind exactly its slots (the
// non-exhaustive-destructure / overlapping-case edge cases of spec.md).
func (r *Resolver) typeCaseStmt(s *ast.CaseStmt) (typedast.Stmt, error) {
	x, err := r.typeExpr(s.X, types.Ty{})
	if err != nil {
		return nil, err
	}
	if x.Type().Kind != types.KNamed {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "case requires a union value, got %s", x.Type())
	}
	u, ok := r.unions[x.Type().Name]
	if !ok {
		return nil, typeErrf(s.Span, diagnostic.TypeMismatch, "%s is not a union", x.Type().Name)
	}

	seen := map[string]bool{}
	whens := make([]*typedast.CaseWhen, len(s.Whens))
	for i, w := range s.Whens {
		var match *ast.UnionCase
		for _, c := range u.cases {
			if c.Name == w.CaseName {
				match = c
				break
			}
		}
		if match == nil {
			return nil, typeErrf(w.Span, diagnostic.UndefinedSymbol, "%s has no case %s", x.Type().Name, w.CaseName)
		}
		if seen[w.CaseName] {
			return nil, typeErrf(w.Span, diagnostic.OverlappingInstance, "case %s handled more than once", w.CaseName)
		}
		seen[w.CaseName] = true
		if len(w.Bindings) != len(match.Slots) {
			return nil, typeErrf(w.Span, diagnostic.NonExhaustiveDestructure, "case %s binds %d of %d slots", w.CaseName, len(w.Bindings), len(match.Slots))
		}

		savedVars, savedKinds := r.curVars, r.curVarKinds
		r.curVars = map[string]types.TyVarID{}
		r.curVarKinds = map[string]types.Universe{}
		subst := types.Subst{}
		for j, tp := range u.typeParams {
			vid := r.arena.FreshVar()
			r.curVars[tp.Name] = vid
			r.curVarKinds[tp.Name] = fromASTUniverse(tp.Universe)
			subst[vid] = x.Type().TypeArgs[j]
		}

		r.pushLocalScope()
		bindings := make([]typedast.CaseBinding, len(w.Bindings))
		bindErr := error(nil)
		for j, b := range w.Bindings {
			var slotSpec ast.TypeSpec
			for _, sl := range match.Slots {
				if sl.Name == b.Name {
					slotSpec = sl.Type
					break
				}
			}
			if slotSpec == nil {
				bindErr = typeErrf(b.Span, diagnostic.UndefinedSymbol, "case %s has no slot %s", w.CaseName, b.Name)
				break
			}
			genericTy, err := r.resolveTypeSpec(slotSpec, nil)
			if err != nil {
				bindErr = err
				break
			}
			boundTy := subst.Apply(genericTy)
			name := b.Name
			if b.RenameAs != "" {
				name = b.RenameAs
			}
			r.declareLocal(name, &localBinding{ty: boundTy, kind: typedast.IdentLocal})
			bindings[j] = typedast.CaseBinding{Name: name, Type: boundTy}
		}

		var body []typedast.Stmt
		if bindErr == nil {
			body, bindErr = r.typeStmts(w.Body)
		}
		r.popLocalScope()
		r.curVars, r.curVarKinds = savedVars, savedKinds
		if bindErr != nil {
			return nil, bindErr
		}
		whens[i] = &typedast.CaseWhen{Span: w.Span, CaseName: w.CaseName, Bindings: bindings, Body: body}
	}
	if len(seen) != len(u.cases) {
		return nil, typeErrf(s.Span, diagnostic.NonExhaustiveDestructure, "case statement on %s does not cover every case", x.Type().Name)
	}
	return &typedast.CaseStmt{Span: s.Span, X: x, Whens: whens}, nil
}

// typeBorrowStmt types the `borrow` statement of spec.md §4.P: it opens
// a fresh region for its body, binds the reference-typed local, and
// closes the region again on exit, regardless of the body's outcome.
func (r *Resolver) typeBorrowStmt(s *ast.BorrowStmt) (typedast.Stmt, error) {
	origB, ok := r.lookupLocal(s.Orig)
	if !ok {
		return nil, typeErrf(s.Span, diagnostic.UndefinedSymbol, "undefined variable %s", s.Orig)
	}

	rgnID := r.arena.FreshRegion()
	r.pushBorrowRegion(s.Region, rgnID)

	declaredElem := origB.ty
	if s.Type != nil {
		ty, err := r.resolveTypeSpec(s.Type, nil)
		if err != nil {
			r.popBorrowRegion()
			return nil, err
		}
		declaredElem = ty
	}

	var refTy types.Ty
	if s.RefMutable {
		refTy = types.WriteRef(declaredElem, types.RegionTy(rgnID))
	} else {
		refTy = types.ReadRef(declaredElem, types.RegionTy(rgnID))
	}

	r.pushLocalScope()
	r.declareLocal(s.Name, &localBinding{ty: refTy, kind: typedast.IdentLocal})
	body, err := r.typeStmts(s.Body)
	r.popLocalScope()
	r.popBorrowRegion()
	if err != nil {
		return nil, err
	}
	return &typedast.BorrowStmt{
		Span: s.Span, Name: s.Name, RefType: refTy, Region: rgnID,
		Mode: s.Mode, Orig: s.Orig, OrigTy: origB.ty, Body: body,
	}, nil
}
