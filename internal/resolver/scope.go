package resolver

import "github.com/austral-lang/auc/internal/types"

// setupFunctionScope resets the per-item type/region parameter
// environment and the local-variable scope stack before resolving one
// function/method body (or signature). Type params of universe Region
// become fresh region identifiers; every other universe becomes a fresh
// type variable of that universe.
func (r *Resolver) setupFunctionScope(typeParams []*astTypeParamLike) {
	r.curVars = map[string]types.TyVarID{}
	r.curVarKinds = map[string]types.Universe{}
	r.curRegionsBase = map[string]types.RegionID{}
	r.regionStack = nil
	r.locals = []map[string]*localBinding{{}}

	for _, tp := range typeParams {
		if tp.universe == types.Region {
			r.curRegionsBase[tp.name] = r.arena.FreshRegion()
			continue
		}
		r.curVars[tp.name] = r.arena.FreshVar()
		r.curVarKinds[tp.name] = tp.universe
	}
}

// astTypeParamLike decouples setupFunctionScope from internal/ast so it
// can be called with either a []*ast.TypeParam (top-level function) or
// a single *ast.TypeParam (typeclass parameter) via adaptTypeParams.
type astTypeParamLike struct {
	name     string
	universe types.Universe
}

func (r *Resolver) lookupRegion(name string) (types.RegionID, bool) {
	for i := len(r.regionStack) - 1; i >= 0; i-- {
		if id, ok := r.regionStack[i][name]; ok {
			return id, true
		}
	}
	if id, ok := r.curRegionsBase[name]; ok {
		return id, true
	}
	return 0, false
}

func (r *Resolver) pushBorrowRegion(name string, id types.RegionID) {
	r.regionStack = append(r.regionStack, map[string]types.RegionID{name: id})
}

func (r *Resolver) popBorrowRegion() {
	r.regionStack = r.regionStack[:len(r.regionStack)-1]
}

func (r *Resolver) pushLocalScope() {
	r.locals = append(r.locals, map[string]*localBinding{})
}

func (r *Resolver) popLocalScope() {
	r.locals = r.locals[:len(r.locals)-1]
}

func (r *Resolver) declareLocal(name string, b *localBinding) {
	r.locals[len(r.locals)-1][name] = b
}

func (r *Resolver) lookupLocal(name string) (*localBinding, bool) {
	for i := len(r.locals) - 1; i >= 0; i-- {
		if b, ok := r.locals[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}
