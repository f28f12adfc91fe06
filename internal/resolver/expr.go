package resolver

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/typedast"
	"github.com/austral-lang/auc/internal/types"
)

// stampInstance tags a generic call's result type with a fresh identity
// so later passes (diagnostics formatting, future monomorphization) can
// tell two instantiations of the same generic declaration apart even
// when their substituted types are structurally equal.
func stampInstance(t types.Ty, tyVars []types.TyVarID) types.Ty {
	if len(tyVars) == 0 {
		return t
	}
	t.InstanceTag = uuid.New()
	return t
}

// tyToKey renders a resolved Ty the same way typeSpecKey renders the
// syntax an instance declaration's argument was written in, so a call
// site's inferred concrete type can look an instance up by name
// (responsibility 6). Built-in scalars round-trip through their
// prelude name; ExitCode shares Int32's type and always renders as
// Int32. Reference/span types are not supported as an instance
// argument by this core (no scenario in spec.md exercises it).
func tyToKey(t types.Ty) string {
	for name, pt := range prelude {
		if name != "ExitCode" && pt.Equal(t) {
			return name
		}
	}
	if t.Kind == types.KNamed {
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		s := t.Name + "["
		for i, a := range t.TypeArgs {
			if i > 0 {
				s += ","
			}
			s += tyToKey(a)
		}
		return s + "]"
	}
	return t.String()
}

// typeExpr types e, using expected (when non-zero-valued) to drive the
// contextual retyping of integer/float literals (spec.md §4.R.4 and the
// Open Question 1 resolution in DESIGN.md).
func (r *Resolver) typeExpr(e ast.Expr, expected types.Ty) (typedast.Expr, error) {
	switch e := e.(type) {
	case *ast.Literal:
		return r.typeLiteral(e, expected)
	case *ast.Variable:
		return r.typeVariable(e)
	case *ast.Path:
		return r.typePath(e)
	case *ast.RefPath:
		return r.typeRefPath(e)
	case *ast.Borrow:
		return r.typeBorrow(e)
	case *ast.Deref:
		return r.typeDeref(e)
	case *ast.SizeOf:
		return r.typeSizeOf(e)
	case *ast.Embed:
		return r.typeEmbed(e)
	case *ast.Paren:
		return r.typeExpr(e.X, expected)
	case *ast.FnCall:
		return r.typeFnCall(e)
	case *ast.BinOp:
		return r.typeBinOp(e)
	case *ast.UnaryOp:
		return r.typeUnaryOp(e)
	case *ast.Conditional:
		return r.typeConditional(e, expected)
	case *ast.Cast:
		return r.typeCast(e)
	default:
		return nil, typeErrf(e.NodeSpan(), diagnostic.UndefinedSymbol, "unhandled expression form")
	}
}

func (r *Resolver) typeLiteral(e *ast.Literal, expected types.Ty) (typedast.Expr, error) {
	var ty types.Ty
	switch e.Kind {
	case ast.LitNil:
		ty = types.Unit()
	case ast.LitTrue, ast.LitFalse:
		ty = types.Boolean()
	case ast.LitChar:
		ty = types.Integer(types.Unsigned, types.Width8)
	case ast.LitDecimal:
		ty = types.Integer(types.Signed, types.Width32)
		if expected.Kind == types.KInteger {
			ty = expected
		} else if expected.IsFloat() {
			ty = expected
		}
	case ast.LitFloat:
		ty = types.DoubleFloat()
		if expected.IsFloat() {
			ty = expected
		}
	case ast.LitString:
		ty = prelude["String"]
	}
	return &typedast.Literal{Span: e.Span, Kind: e.Kind, Text: e.Text, Ty: ty}, nil
}

func (r *Resolver) typeVariable(e *ast.Variable) (typedast.Expr, error) {
	if b, ok := r.lookupLocal(e.Name); ok {
		return &typedast.Variable{Span: e.Span, Name: e.Name, Kind: b.kind, Ty: b.ty}, nil
	}
	if c, ok := r.consts[e.Name]; ok {
		ty, err := r.resolveTypeSpec(c.ty, nil)
		if err != nil {
			return nil, err
		}
		return &typedast.Variable{Span: e.Span, Name: e.Name, Kind: typedast.IdentGlobalConstant, Ty: ty}, nil
	}
	return nil, typeErrf(e.Span, diagnostic.UndefinedSymbol, "undefined variable %s", e.Name)
}

func (r *Resolver) typePath(e *ast.Path) (typedast.Expr, error) {
	base, err := r.typeVariable(&ast.Variable{Span: e.Span, Name: e.Head})
	if err != nil {
		return nil, err
	}
	cur := base.Type()
	segs := make([]typedast.PathSegment, len(e.Segments))
	for i, seg := range e.Segments {
		switch seg.Kind {
		case ast.SegField:
			rec, ok := r.records[cur.Name]
			if cur.Kind != types.KNamed || !ok {
				return nil, typeErrf(seg.Span, diagnostic.TypeMismatch, "%s is not a record", cur)
			}
			slotTy, found := r.findSlotType(rec, seg.Field)
			if !found {
				return nil, typeErrf(seg.Span, diagnostic.UndefinedSymbol, "no slot %s on %s", seg.Field, cur.Name)
			}
			segs[i] = typedast.PathSegment{Kind: seg.Kind, Field: seg.Field, Ty: slotTy}
			cur = slotTy
		case ast.SegArrow:
			if cur.Kind != types.KPointer {
				return nil, typeErrf(seg.Span, diagnostic.TypeMismatch, "%s is not a pointer", cur)
			}
			elem := *cur.Elem
			rec, ok := r.records[elem.Name]
			if elem.Kind != types.KNamed || !ok {
				return nil, typeErrf(seg.Span, diagnostic.TypeMismatch, "%s does not point to a record", cur)
			}
			slotTy, found := r.findSlotType(rec, seg.Field)
			if !found {
				return nil, typeErrf(seg.Span, diagnostic.UndefinedSymbol, "no slot %s on %s", seg.Field, elem.Name)
			}
			segs[i] = typedast.PathSegment{Kind: seg.Kind, Field: seg.Field, Ty: slotTy}
			cur = slotTy
		case ast.SegIndex:
			idx, err := r.typeExpr(seg.Index, types.Ty{})
			if err != nil {
				return nil, err
			}
			if !idx.Type().IsInteger() {
				return nil, typeErrf(seg.Span, diagnostic.TypeMismatch, "index must be an integer")
			}
			if cur.Kind != types.KSpan && cur.Kind != types.KSpanMut && cur.Kind != types.KPointer {
				return nil, typeErrf(seg.Span, diagnostic.TypeMismatch, "%s is not indexable", cur)
			}
			elemTy := *cur.Elem
			segs[i] = typedast.PathSegment{Kind: seg.Kind, Index: idx, Ty: elemTy}
			cur = elemTy
		}
	}
	return &typedast.Path{Span: e.Span, Base: base, Segments: segs, Ty: cur}, nil
}

func (r *Resolver) findSlotType(rec *recordEntry, name string) (types.Ty, bool) {
	for _, s := range rec.slots {
		if s.Name == name {
			ty, err := r.resolveTypeSpec(s.Type, nil)
			if err != nil {
				return types.Ty{}, false
			}
			return ty, true
		}
	}
	return types.Ty{}, false
}

func (r *Resolver) typeRefPath(e *ast.RefPath) (typedast.Expr, error) {
	p, err := r.typePath(e.Path)
	if err != nil {
		return nil, err
	}
	rgnID, ok := r.currentRegion()
	if !ok {
		return nil, typeErrf(e.Span, diagnostic.UniverseMismatch, "reference path outside a borrow statement")
	}
	ty := types.ReadRef(p.Type(), types.RegionTy(rgnID))
	return &typedast.RefPath{Span: e.Span, Path: p, Ty: ty}, nil
}

func (r *Resolver) currentRegion() (types.RegionID, bool) {
	if len(r.regionStack) == 0 {
		return 0, false
	}
	top := r.regionStack[len(r.regionStack)-1]
	for _, id := range top {
		return id, true
	}
	return 0, false
}

func (r *Resolver) typeBorrow(e *ast.Borrow) (typedast.Expr, error) {
	target, err := r.typeExpr(e.Target, types.Ty{})
	if err != nil {
		return nil, err
	}
	rgnID, ok := r.currentRegion()
	if !ok {
		return nil, typeErrf(e.Span, diagnostic.UniverseMismatch, "borrow expression outside a borrow statement")
	}
	var ty types.Ty
	switch e.Kind {
	case ast.BorrowRead, ast.ReBorrow:
		ty = types.ReadRef(target.Type(), types.RegionTy(rgnID))
	case ast.BorrowWrite:
		ty = types.WriteRef(target.Type(), types.RegionTy(rgnID))
	}
	return &typedast.Borrow{Span: e.Span, Kind: e.Kind, Target: target, Region: rgnID, Ty: ty}, nil
}

func (r *Resolver) typeDeref(e *ast.Deref) (typedast.Expr, error) {
	x, err := r.typeExpr(e.X, types.Ty{})
	if err != nil {
		return nil, err
	}
	var ty types.Ty
	switch x.Type().Kind {
	case types.KReadRef, types.KWriteRef, types.KPointer, types.KAddress:
		ty = *x.Type().Elem
	default:
		return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "cannot dereference %s", x.Type())
	}
	return &typedast.Deref{Span: e.Span, X: x, Ty: ty}, nil
}

func (r *Resolver) typeSizeOf(e *ast.SizeOf) (typedast.Expr, error) {
	of, err := r.resolveTypeSpec(e.Type, nil)
	if err != nil {
		return nil, err
	}
	return &typedast.SizeOf{Span: e.Span, Of: of, Ty: types.Integer(types.Unsigned, types.WidthByteSize)}, nil
}

// typeEmbed types @embed(τ, "code", args...) as τ, trusting the code
// string without further checking (spec.md §9 Open Question 3).
func (r *Resolver) typeEmbed(e *ast.Embed) (typedast.Expr, error) {
	ty, err := r.resolveTypeSpec(e.Type, nil)
	if err != nil {
		return nil, err
	}
	args := make([]typedast.Expr, len(e.Args))
	for i, a := range e.Args {
		ta, err := r.typeExpr(a, types.Ty{})
		if err != nil {
			return nil, err
		}
		args[i] = ta
	}
	return &typedast.Embed{Span: e.Span, Code: e.Code, Args: args, Ty: ty}, nil
}

func (r *Resolver) typeBinOp(e *ast.BinOp) (typedast.Expr, error) {
	lhs, err := r.typeExpr(e.Lhs, types.Ty{})
	if err != nil {
		return nil, err
	}
	rhs, err := r.typeExpr(e.Rhs, lhs.Type())
	if err != nil {
		return nil, err
	}
	if lhs.Type().Kind != rhs.Type().Kind {
		// Retry the other direction: the literal may be on the left.
		lhs, err = r.typeExpr(e.Lhs, rhs.Type())
		if err != nil {
			return nil, err
		}
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if !lhs.Type().IsNumeric() || !lhs.Type().Equal(rhs.Type()) {
			return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "arithmetic requires matching numeric operands, got %s and %s", lhs.Type(), rhs.Type())
		}
		return &typedast.BinOp{Span: e.Span, Op: e.Op, Lhs: lhs, Rhs: rhs, Ty: lhs.Type()}, nil
	case ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		if !(lhs.Type().IsNumeric() || lhs.Type().IsInteger()) || !lhs.Type().Equal(rhs.Type()) {
			return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "comparison requires matching numeric/character operands, got %s and %s", lhs.Type(), rhs.Type())
		}
		return &typedast.BinOp{Span: e.Span, Op: e.Op, Lhs: lhs, Rhs: rhs, Ty: types.Boolean()}, nil
	case ast.OpAnd, ast.OpOr:
		if lhs.Type().Kind != types.KBoolean || rhs.Type().Kind != types.KBoolean {
			return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "logical operator requires Boolean operands")
		}
		return &typedast.BinOp{Span: e.Span, Op: e.Op, Lhs: lhs, Rhs: rhs, Ty: types.Boolean()}, nil
	}
	return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "unhandled binary operator")
}

func (r *Resolver) typeUnaryOp(e *ast.UnaryOp) (typedast.Expr, error) {
	x, err := r.typeExpr(e.X, types.Ty{})
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		if x.Type().Kind != types.KBoolean {
			return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "not requires a Boolean operand")
		}
		return &typedast.UnaryOp{Span: e.Span, Op: e.Op, X: x, Ty: types.Boolean()}, nil
	case ast.OpNeg:
		if !x.Type().IsNumeric() {
			return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "unary - requires a numeric operand")
		}
		return &typedast.UnaryOp{Span: e.Span, Op: e.Op, X: x, Ty: x.Type()}, nil
	}
	return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "unhandled unary operator")
}

func (r *Resolver) typeConditional(e *ast.Conditional, expected types.Ty) (typedast.Expr, error) {
	cond, err := r.typeExpr(e.Cond, types.Boolean())
	if err != nil {
		return nil, err
	}
	if cond.Type().Kind != types.KBoolean {
		return nil, typeErrf(e.Cond.NodeSpan(), diagnostic.TypeMismatch, "if condition must be Boolean")
	}
	then, err := r.typeExpr(e.Then, expected)
	if err != nil {
		return nil, err
	}
	els, err := r.typeExpr(e.Else, then.Type())
	if err != nil {
		return nil, err
	}
	if !then.Type().Equal(els.Type()) {
		return nil, typeErrf(e.Span, diagnostic.TypeMismatch, "if branches must share a type, got %s and %s", then.Type(), els.Type())
	}
	return &typedast.Conditional{Span: e.Span, Cond: cond, Then: then, Else: els, Ty: then.Type()}, nil
}

// instantiateSignature resolves a callable's parameter and return types
// in an isolated generic scope: every type parameter becomes a fresh
// type variable (or region, for a Region-universe parameter), leaving
// the caller's own enclosing scope untouched. The caller unifies the
// returned formal types against actual argument types to recover a
// concrete Subst (spec.md §9's generic-instantiation note).
func (r *Resolver) instantiateSignature(typeParams []*ast.TypeParam, params []*ast.Param, ret ast.TypeSpec) ([]types.Ty, types.Ty, []types.TyVarID, error) {
	savedVars, savedKinds, savedBase, savedStack := r.curVars, r.curVarKinds, r.curRegionsBase, r.regionStack
	defer func() {
		r.curVars, r.curVarKinds, r.curRegionsBase, r.regionStack = savedVars, savedKinds, savedBase, savedStack
	}()

	r.curVars = map[string]types.TyVarID{}
	r.curVarKinds = map[string]types.Universe{}
	r.curRegionsBase = map[string]types.RegionID{}
	r.regionStack = nil

	tyVars := make([]types.TyVarID, 0, len(typeParams))
	for _, tp := range typeParams {
		u := fromASTUniverse(tp.Universe)
		if u == types.Region {
			r.curRegionsBase[tp.Name] = r.arena.FreshRegion()
			continue
		}
		vid := r.arena.FreshVar()
		r.curVars[tp.Name] = vid
		r.curVarKinds[tp.Name] = u
		tyVars = append(tyVars, vid)
	}

	formals := make([]types.Ty, len(params))
	for i, p := range params {
		ty, err := r.resolveTypeSpec(p.Type, nil)
		if err != nil {
			return nil, types.Ty{}, nil, err
		}
		formals[i] = ty
	}
	retTy, err := r.resolveTypeSpec(ret, nil)
	if err != nil {
		return nil, types.Ty{}, nil, err
	}
	return formals, retTy, tyVars, nil
}

// orderArgs types e's arguments and reorders them into declared
// parameter order, enforcing the exclusivity and exhaustiveness
// invariants of spec.md §3 ("exactly one of Empty, Positional, Named").
func (r *Resolver) orderArgs(e *ast.FnCall, params []*ast.Param, formals []types.Ty) ([]typedast.Expr, error) {
	expectedAt := func(i int) types.Ty {
		if formals[i].Kind != types.KTyVar {
			return formals[i]
		}
		return types.Ty{}
	}
	switch e.Args.Kind {
	case ast.ArgsEmpty:
		if len(params) != 0 {
			return nil, typeErrf(e.Span, diagnostic.ArityMismatch, "%s expects %d argument(s), got 0", e.Callee, len(params))
		}
		return nil, nil
	case ast.ArgsPositional:
		if len(e.Args.Positional) != len(params) {
			return nil, typeErrf(e.Span, diagnostic.ArityMismatch, "%s expects %d argument(s), got %d", e.Callee, len(params), len(e.Args.Positional))
		}
		out := make([]typedast.Expr, len(params))
		for i, a := range e.Args.Positional {
			ta, err := r.typeExpr(a, expectedAt(i))
			if err != nil {
				return nil, err
			}
			out[i] = ta
		}
		return out, nil
	case ast.ArgsNamed:
		if len(e.Args.Named) != len(params) {
			return nil, typeErrf(e.Span, diagnostic.ArityMismatch, "%s expects %d argument(s), got %d", e.Callee, len(params), len(e.Args.Named))
		}
		byName := make(map[string]ast.Expr, len(e.Args.Named))
		for _, na := range e.Args.Named {
			byName[na.Name] = na.Val
		}
		out := make([]typedast.Expr, len(params))
		for i, p := range params {
			val, ok := byName[p.Name]
			if !ok {
				return nil, typeErrf(e.Span, diagnostic.UndefinedSymbol, "missing named argument %s in call to %s", p.Name, e.Callee)
			}
			ta, err := r.typeExpr(val, expectedAt(i))
			if err != nil {
				return nil, err
			}
			out[i] = ta
		}
		return out, nil
	}
	return nil, nil
}

// unifyTy structurally unifies formal (possibly containing type
// variables from instantiateSignature) against actual, recording
// variable bindings into subst. Region arguments are accepted
// unconditionally: each call instantiates its own fresh region, so
// region-parametric signatures are not unified precisely by this core.
func unifyTy(formal, actual types.Ty, subst types.Subst) error {
	if formal.Kind == types.KTyVar {
		if existing, ok := subst[formal.VarID]; ok {
			if !existing.Equal(actual) {
				return fmt.Errorf("expected %s, got %s", existing, actual)
			}
			return nil
		}
		subst[formal.VarID] = actual
		return nil
	}
	if formal.Kind == types.KRegionTy {
		return nil
	}
	if formal.Kind != actual.Kind {
		return fmt.Errorf("expected %s, got %s", formal, actual)
	}
	switch formal.Kind {
	case types.KReadRef, types.KWriteRef, types.KSpan, types.KSpanMut:
		if err := unifyTy(*formal.Elem, *actual.Elem, subst); err != nil {
			return err
		}
		return unifyTy(*formal.Rgn, *actual.Rgn, subst)
	case types.KAddress, types.KPointer:
		return unifyTy(*formal.Elem, *actual.Elem, subst)
	case types.KNamed:
		if formal.Name != actual.Name || len(formal.TypeArgs) != len(actual.TypeArgs) {
			return fmt.Errorf("expected %s, got %s", formal, actual)
		}
		for i := range formal.TypeArgs {
			if err := unifyTy(formal.TypeArgs[i], actual.TypeArgs[i], subst); err != nil {
				return err
			}
		}
		return nil
	default:
		if !formal.Equal(actual) {
			return fmt.Errorf("expected %s, got %s", formal, actual)
		}
		return nil
	}
}

func (r *Resolver) unifyArgs(formals []types.Ty, args []typedast.Expr, tyVars []types.TyVarID, at span.Span) (types.Subst, error) {
	subst := types.Subst{}
	for i, formal := range formals {
		if err := unifyTy(formal, args[i].Type(), subst); err != nil {
			return nil, typeErrf(args[i].NodeSpan(), diagnostic.TypeMismatch, "argument %d: %s", i+1, err)
		}
	}
	for _, vid := range tyVars {
		if _, ok := subst[vid]; !ok {
			return nil, typeErrf(at, diagnostic.TypeMismatch, "could not infer a type parameter from the arguments given")
		}
	}
	return subst, nil
}

// typeFnCall resolves a call's callee, either a plain function or a
// typeclass method, and reorders its arguments to declared positional
// order (spec.md §4.R responsibility 6).
func (r *Resolver) typeFnCall(e *ast.FnCall) (typedast.Expr, error) {
	if sig, ok := r.methodSigs[e.Callee]; ok {
		return r.typeMethodCall(e, sig)
	}
	if rec, ok := r.records[e.Callee]; ok {
		return r.typeRecordConstruct(e, rec)
	}
	fn, ok := r.funcs[e.Callee]
	if !ok {
		return nil, typeErrf(e.Span, diagnostic.UndefinedSymbol, "undefined function %s", e.Callee)
	}
	formals, retTy, tyVars, err := r.instantiateSignature(fn.typeParams, fn.params, fn.returnType)
	if err != nil {
		return nil, err
	}
	args, err := r.orderArgs(e, fn.params, formals)
	if err != nil {
		return nil, err
	}
	subst, err := r.unifyArgs(formals, args, tyVars, e.Span)
	if err != nil {
		return nil, err
	}
	result := stampInstance(subst.Apply(retTy), tyVars)
	return &typedast.FnCall{Span: e.Span, Target: typedast.FnTarget{Kind: typedast.TargetFunction, Name: e.Callee}, Args: args, Subst: subst, Ty: result}, nil
}

// typeRecordConstruct types a call whose callee names a record: records
// have no dedicated construction syntax in this grammar, so `Name(arg,
// ...)`/`Name(slot => arg, ...)` doubles as the record's implicit
// constructor, one argument per slot in declaration order (or by slot
// name, for named-argument calls) — the same convention the source
// language uses for its built-in constructors.
func (r *Resolver) typeRecordConstruct(e *ast.FnCall, rec *recordEntry) (typedast.Expr, error) {
	params := make([]*ast.Param, len(rec.slots))
	for i, s := range rec.slots {
		params[i] = &ast.Param{Span: s.Span, Name: s.Name, Type: s.Type}
	}
	var retTy ast.TypeSpec = &ast.SimpleType{Span: e.Span, Name: e.Callee}
	if len(rec.typeParams) > 0 {
		args := make([]ast.TypeSpec, len(rec.typeParams))
		for i, tp := range rec.typeParams {
			args[i] = &ast.SimpleType{Span: tp.Span, Name: tp.Name}
		}
		retTy = &ast.GenericType{Span: e.Span, Name: e.Callee, Args: args}
	}
	formals, declaredRetTy, tyVars, err := r.instantiateSignature(rec.typeParams, params, retTy)
	if err != nil {
		return nil, err
	}
	args, err := r.orderArgs(e, params, formals)
	if err != nil {
		return nil, err
	}
	subst, err := r.unifyArgs(formals, args, tyVars, e.Span)
	if err != nil {
		return nil, err
	}
	result := stampInstance(subst.Apply(declaredRetTy), tyVars)
	return &typedast.FnCall{Span: e.Span, Target: typedast.FnTarget{Kind: typedast.TargetFunction, Name: e.Callee}, Args: args, Subst: subst, Ty: result}, nil
}

// typeMethodCall dispatches a typeclass method call: the method's
// receiver parameter (the one typed by the typeclass's own type
// parameter) determines, once unified against the actual argument, the
// concrete instance to select. Missing or — by construction of collect
// — overlapping instances are reported here.
func (r *Resolver) typeMethodCall(e *ast.FnCall, sig *methodSigEntry) (typedast.Expr, error) {
	formals, retTy, tyVars, err := r.instantiateSignature([]*ast.TypeParam{sig.param}, sig.sig.Params, sig.sig.ReturnType)
	if err != nil {
		return nil, err
	}
	args, err := r.orderArgs(e, sig.sig.Params, formals)
	if err != nil {
		return nil, err
	}
	subst, err := r.unifyArgs(formals, args, tyVars, e.Span)
	if err != nil {
		return nil, err
	}
	concrete, ok := subst[tyVars[0]]
	if !ok {
		return nil, typeErrf(e.Span, diagnostic.MissingInstance, "cannot determine the receiver type for call to %s", e.Callee)
	}
	key := tyToKey(concrete)
	if _, found := r.instances[sig.typeclass][key]; !found {
		return nil, typeErrf(e.Span, diagnostic.MissingInstance, "no instance %s[%s] implements %s", sig.typeclass, key, e.Callee)
	}
	result := stampInstance(subst.Apply(retTy), tyVars)
	target := typedast.FnTarget{Kind: typedast.TargetMethod, Name: e.Callee, Instance: concrete}
	return &typedast.FnCall{Span: e.Span, Target: target, Args: args, Subst: subst, Ty: result}, nil
}

func (r *Resolver) typeCast(e *ast.Cast) (typedast.Expr, error) {
	x, err := r.typeExpr(e.X, types.Ty{})
	if err != nil {
		return nil, err
	}
	target, err := r.resolveTypeSpec(e.Type, nil)
	if err != nil {
		return nil, err
	}
	ok := false
	switch {
	case x.Type().IsNumeric() && target.IsNumeric():
		ok = true
	case x.Type().Kind == types.KAddress && target.Kind == types.KPointer && x.Type().Elem.Equal(*target.Elem):
		ok = true
	}
	if !ok {
		return nil, typeErrf(e.Span, diagnostic.BadCast, "cannot cast %s to %s", x.Type(), target)
	}
	return &typedast.Cast{Span: e.Span, X: x, Ty: target}, nil
}
