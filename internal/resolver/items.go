package resolver

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/typedast"
	"github.com/austral-lang/auc/internal/types"
)

func adaptTypeParams(tps []*ast.TypeParam) []*astTypeParamLike {
	out := make([]*astTypeParamLike, len(tps))
	for i, tp := range tps {
		out[i] = &astTypeParamLike{name: tp.Name, universe: fromASTUniverse(tp.Universe)}
	}
	return out
}

// resolveItem dispatches to the per-kind resolver, producing the typed
// tree's top-level nodes. A nil, nil result means "nothing to emit"
// (currently unused, reserved for items folded entirely into their
// typeclass/instance parent).
func (r *Resolver) resolveItem(item ast.Item, isBody bool) (typedast.Item, error) {
	switch d := item.(type) {
	case *ast.ConstDecl:
		return r.resolveConstDecl(d)
	case *ast.FunctionDecl:
		r.setupFunctionScope(adaptTypeParams(d.TypeParams))
		return r.resolveFunctionDecl(d)
	case *ast.RecordDecl:
		return r.resolveRecordDecl(d)
	case *ast.UnionDecl:
		return r.resolveUnionDecl(d)
	case *ast.TypeDecl:
		return r.resolveTypeDecl(d)
	case *ast.TypeclassDecl:
		return r.resolveTypeclassDecl(d)
	case *ast.InstanceDecl:
		return r.resolveInstanceDecl(d)
	default:
		return nil, nil
	}
}

func (r *Resolver) resolveConstDecl(d *ast.ConstDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope(nil)
	ty, err := r.resolveTypeSpec(d.Type, nil)
	if err != nil {
		return nil, err
	}
	td := &typedast.ConstDecl{Span: d.Span, Name: d.Name, Type: ty}
	if d.Value != nil {
		val, err := r.typeExpr(d.Value, ty)
		if err != nil {
			return nil, err
		}
		td.Value = val
	}
	return td, nil
}

func (r *Resolver) resolveFunctionDecl(d *ast.FunctionDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	params := make([]typedast.Param, len(d.Params))
	for i, p := range d.Params {
		ty, err := r.resolveTypeSpec(p.Type, nil)
		if err != nil {
			return nil, err
		}
		params[i] = typedast.Param{Name: p.Name, Type: ty}
		r.declareLocal(p.Name, &localBinding{ty: ty, kind: typedast.IdentParam})
	}
	retTy, err := r.resolveTypeSpec(d.ReturnType, nil)
	if err != nil {
		return nil, err
	}
	r.currentRet = retTy

	typeVars := make([]types.TyVarID, 0, len(r.curVars))
	for _, tp := range d.TypeParams {
		if vid, ok := r.curVars[tp.Name]; ok {
			typeVars = append(typeVars, vid)
		}
	}

	fd := &typedast.FunctionDecl{Span: d.Span, Name: d.Name, TypeParams: typeVars, Params: params, ReturnType: retTy}
	if d.Body != nil {
		body, err := r.typeStmts(d.Body)
		if err != nil {
			return nil, err
		}
		fd.Body = body
	}
	return fd, nil
}

func (r *Resolver) resolveRecordDecl(d *ast.RecordDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope(adaptTypeParams(d.TypeParams))
	u := fromASTUniverse(d.Universe)
	slots := make([]typedast.Slot, len(d.Slots))
	for i, s := range d.Slots {
		ty, err := r.resolveTypeSpec(s.Type, nil)
		if err != nil {
			return nil, err
		}
		slots[i] = typedast.Slot{Name: s.Name, Type: ty}
	}
	typeVars := make([]types.TyVarID, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if vid, ok := r.curVars[tp.Name]; ok {
			typeVars = append(typeVars, vid)
		}
	}
	return &typedast.RecordDecl{Span: d.Span, Name: d.Name, TypeParams: typeVars, Universe: u, Slots: slots}, nil
}

func (r *Resolver) resolveUnionDecl(d *ast.UnionDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope(adaptTypeParams(d.TypeParams))
	cases := make([]typedast.UnionCase, len(d.Cases))
	var anyLinear bool
	for i, c := range d.Cases {
		slots := make([]typedast.Slot, len(c.Slots))
		for j, s := range c.Slots {
			ty, err := r.resolveTypeSpec(s.Type, nil)
			if err != nil {
				return nil, err
			}
			if ty.IsLinear() {
				anyLinear = true
			}
			slots[j] = typedast.Slot{Name: s.Name, Type: ty}
		}
		cases[i] = typedast.UnionCase{Name: c.Name, Slots: slots}
	}
	u := types.Free
	if anyLinear {
		u = types.Linear
	}
	typeVars := make([]types.TyVarID, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if vid, ok := r.curVars[tp.Name]; ok {
			typeVars = append(typeVars, vid)
		}
	}
	return &typedast.UnionDecl{Span: d.Span, Name: d.Name, TypeParams: typeVars, Universe: u, Cases: cases}, nil
}

func (r *Resolver) resolveTypeDecl(d *ast.TypeDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope(adaptTypeParams(d.TypeParams))
	typeVars := make([]types.TyVarID, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if vid, ok := r.curVars[tp.Name]; ok {
			typeVars = append(typeVars, vid)
		}
	}
	return &typedast.TypeDecl{Span: d.Span, Name: d.Name, TypeParams: typeVars, Universe: fromASTUniverse(d.Universe)}, nil
}

func (r *Resolver) resolveTypeclassDecl(d *ast.TypeclassDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope([]*astTypeParamLike{{name: d.Param.Name, universe: fromASTUniverse(d.Param.Universe)}})
	paramVar := r.curVars[d.Param.Name]
	methods := make([]*typedast.FunctionDecl, 0, len(d.Methods))
	for _, m := range d.Methods {
		r.setupFunctionScope([]*astTypeParamLike{{name: d.Param.Name, universe: fromASTUniverse(d.Param.Universe)}})
		tm, err := r.resolveFunctionDecl(m)
		if err != nil {
			return nil, err
		}
		methods = append(methods, tm.(*typedast.FunctionDecl))
	}
	return &typedast.TypeclassDecl{Span: d.Span, Name: d.Name, Param: paramVar, Methods: methods}, nil
}

func (r *Resolver) resolveInstanceDecl(d *ast.InstanceDecl) (typedast.Item, error) {
	if err := checkPragmas(d.Pragmas); err != nil {
		return nil, err
	}
	r.setupFunctionScope(nil)
	arg, err := r.resolveTypeSpec(d.Arg, nil)
	if err != nil {
		return nil, err
	}
	methods := make([]*typedast.FunctionDecl, 0, len(d.Methods))
	for _, m := range d.Methods {
		r.setupFunctionScope(nil)
		tm, err := r.resolveFunctionDecl(m)
		if err != nil {
			return nil, err
		}
		methods = append(methods, tm.(*typedast.FunctionDecl))
	}
	return &typedast.InstanceDecl{Span: d.Span, Typeclass: d.Typeclass, Arg: arg, Methods: methods}, nil
}
