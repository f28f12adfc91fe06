// Package resolver implements spec.md §4.R: it turns an untyped
// internal/ast.Module, together with the declarations of its imported
// modules, into an internal/typedast.Module and an export table.
//
// The resolver first collects every top-level declaration (imports
// first, then the module's own items, each in source order) so that all
// names are known before any is resolved; it then checks record slot
// universes and resolves each item, typing its expressions and
// statements, in source order. It reports the first error it finds and
// stops — there is no recovery mode, matching spec.md §7.
package resolver

import (
	"fmt"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/typedast"
	"github.com/austral-lang/auc/internal/types"
)

// ModuleDecl is a read-only view of an imported module's interface: its
// declaration-side items, keyed by the module's name. Resolving a body
// needs the transitive closure of these for every module it imports.
type ModuleDecl struct {
	Name  string
	Items []ast.Item
}

type typeEntry struct {
	typeParams []*ast.TypeParam
	universe   types.Universe
}

type recordEntry struct {
	typeParams []*ast.TypeParam
	universe   types.Universe
	slots      []*ast.Slot
}

type unionEntry struct {
	typeParams []*ast.TypeParam
	cases      []*ast.UnionCase
}

type funcEntry struct {
	typeParams []*ast.TypeParam
	params     []*ast.Param
	returnType ast.TypeSpec
	body       []ast.Stmt // nil if declaration-only
}

type constEntry struct {
	ty    ast.TypeSpec
	value ast.Expr // nil if declaration-only
}

type typeclassEntry struct {
	param   *ast.TypeParam
	methods []*ast.FunctionDecl
}

// instanceEntry is keyed by a rendered form of its argument TypeSpec;
// typeclass resolution (responsibility 6) looks instances up by that
// key, and rejects a second registration under the same key as overlap.
type instanceEntry struct {
	decl *ast.InstanceDecl
	arg  ast.TypeSpec
}

// methodSigEntry is a typeclass method signature: calls to its name are
// polymorphic over the typeclass's parameter and are resolved to a
// concrete instance at the call site (responsibility 6).
type methodSigEntry struct {
	typeclass string
	param     *ast.TypeParam
	sig       *ast.FunctionDecl
}

// instanceMethodEntry is one instance's concrete method body, keyed by
// (typeclass, argKey, methodName) so that two instances of the same
// typeclass never collide on a shared method name.
type instanceMethodEntry struct {
	params     []*ast.Param
	returnType ast.TypeSpec
	body       []ast.Stmt
}

// localBinding is one name visible inside the function currently being
// resolved: a parameter or a let/var/destructure/for/when-introduced
// local.
type localBinding struct {
	ty      types.Ty
	mutable bool
	kind    typedast.IdentKind
}

// borrowScope pairs a borrow statement with its fresh region identifier.
// Nothing populates the Resolver's borrows field: live borrow regions
// are tracked in regionStack (pushBorrowRegion/popBorrowRegion), which
// expression typing consults so that `&x`/`&!x`/`&~x` occur only inside
// a borrow.
type borrowScope struct {
	region types.RegionID
}

// Resolver holds all state accumulated while resolving one module body
// (or declaration). It is not reusable across modules.
type Resolver struct {
	arena *types.Arena

	types       map[string]*typeEntry
	records     map[string]*recordEntry
	unions      map[string]*unionEntry
	funcs       map[string]*funcEntry
	consts      map[string]*constEntry
	typeclasses map[string]*typeclassEntry
	instances   map[string]map[string]*instanceEntry // typeclass name -> arg key -> entry
	methodSigs  map[string]*methodSigEntry           // method name -> signature
	// instance method bodies: typeclass name -> arg key -> method name -> entry
	instanceMethods map[string]map[string]map[string]*instanceMethodEntry

	locals []map[string]*localBinding // innermost last
	borrows []borrowScope
	currentRet types.Ty

	// Per-item generic environment, reset by setupFunctionScope.
	curVars        map[string]types.TyVarID
	curVarKinds    map[string]types.Universe
	curRegionsBase map[string]types.RegionID
	regionStack    []map[string]types.RegionID
}

// TypeCheck resolves mod (a declaration or a body) against the
// declarations of its imports, producing a typed tree plus the export
// table. It is the `typeCheck` operation of spec.md §6.
func TypeCheck(mod *ast.Module, imports []ModuleDecl) (*typedast.Module, error) {
	r := &Resolver{
		arena:           types.NewArena(),
		types:           map[string]*typeEntry{},
		records:         map[string]*recordEntry{},
		unions:          map[string]*unionEntry{},
		funcs:           map[string]*funcEntry{},
		consts:          map[string]*constEntry{},
		typeclasses:     map[string]*typeclassEntry{},
		instances:       map[string]map[string]*instanceEntry{},
		methodSigs:      map[string]*methodSigEntry{},
		instanceMethods: map[string]map[string]map[string]*instanceMethodEntry{},
	}

	for _, imp := range imports {
		if err := r.collect(imp.Items, false); err != nil {
			return nil, err
		}
	}
	if err := r.collect(mod.Items, mod.IsBody); err != nil {
		return nil, err
	}
	if err := r.checkUniverses(); err != nil {
		return nil, err
	}

	tmod := &typedast.Module{
		Span:    mod.Span,
		Name:    mod.Name,
		IsBody:  mod.IsBody,
		Exports: map[string]types.Ty{},
	}

	for _, item := range mod.Items {
		titem, err := r.resolveItem(item, mod.IsBody)
		if err != nil {
			return nil, err
		}
		if titem != nil {
			tmod.Items = append(tmod.Items, titem)
		}
	}
	r.populateExports(tmod)
	return tmod, nil
}

// collect performs responsibility 1 (imports merge into one environment,
// collisions forbidden) and responsibility 2 (top-level ordering is
// reflected here only as "collect all declarations before resolving any
// body" — the actual dependency order between kinds is irrelevant once
// every name is known up front).
func (r *Resolver) collect(items []ast.Item, withBodies bool) error {
	for _, item := range items {
		switch d := item.(type) {
		case *ast.TypeDecl:
			if _, dup := r.types[d.Name]; dup {
				return collisionErr(d.Span, d.Name)
			}
			r.types[d.Name] = &typeEntry{typeParams: d.TypeParams, universe: fromASTUniverse(d.Universe)}
		case *ast.UnionDecl:
			if _, dup := r.unions[d.Name]; dup {
				return collisionErr(d.Span, d.Name)
			}
			r.unions[d.Name] = &unionEntry{typeParams: d.TypeParams, cases: d.Cases}
		case *ast.RecordDecl:
			if _, dup := r.records[d.Name]; dup {
				return collisionErr(d.Span, d.Name)
			}
			r.records[d.Name] = &recordEntry{typeParams: d.TypeParams, universe: fromASTUniverse(d.Universe), slots: d.Slots}
		case *ast.ConstDecl:
			e, dup := r.consts[d.Name]
			if dup && e.value != nil && d.Value != nil {
				return collisionErr(d.Span, d.Name)
			}
			val := d.Value
			if dup && val == nil {
				val = e.value
			}
			r.consts[d.Name] = &constEntry{ty: d.Type, value: val}
		case *ast.FunctionDecl:
			e, dup := r.funcs[d.Name]
			if dup && e.body != nil && d.Body != nil {
				return collisionErr(d.Span, d.Name)
			}
			body := d.Body
			if dup && body == nil {
				body = e.body
			}
			r.funcs[d.Name] = &funcEntry{typeParams: d.TypeParams, params: d.Params, returnType: d.ReturnType, body: body}
		case *ast.TypeclassDecl:
			if _, dup := r.typeclasses[d.Name]; !dup {
				r.typeclasses[d.Name] = &typeclassEntry{param: d.Param}
			}
			if withBodies && len(d.Methods) > 0 {
				r.typeclasses[d.Name].methods = d.Methods
			}
			for _, m := range d.Methods {
				if _, dup := r.methodSigs[m.Name]; dup {
					return collisionErr(m.Span, m.Name)
				}
				r.methodSigs[m.Name] = &methodSigEntry{typeclass: d.Name, param: d.Param, sig: m}
			}
		case *ast.InstanceDecl:
			key := typeSpecKey(d.Arg)
			bucket, ok := r.instances[d.Typeclass]
			if !ok {
				bucket = map[string]*instanceEntry{}
				r.instances[d.Typeclass] = bucket
			}
			if existing, dup := bucket[key]; dup && existing.decl.Methods != nil && d.Methods != nil {
				return &diagnostic.TypeError{At: d.Span, Kind: diagnostic.OverlappingInstance,
					Detail: fmt.Sprintf("instance %s[%s] already declared", d.Typeclass, key)}
			}
			entry := &instanceEntry{decl: d, arg: d.Arg}
			if existing, dup := bucket[key]; dup && d.Methods == nil {
				entry = existing
			}
			bucket[key] = entry

			methodBucket, ok := r.instanceMethods[d.Typeclass]
			if !ok {
				methodBucket = map[string]map[string]*instanceMethodEntry{}
				r.instanceMethods[d.Typeclass] = methodBucket
			}
			argMethods, ok := methodBucket[key]
			if !ok {
				argMethods = map[string]*instanceMethodEntry{}
				methodBucket[key] = argMethods
			}
			for _, m := range d.Methods {
				e, dup := argMethods[m.Name]
				if dup && e.body != nil && m.Body != nil {
					return collisionErr(m.Span, m.Name)
				}
				body := m.Body
				if dup && body == nil {
					body = e.body
				}
				argMethods[m.Name] = &instanceMethodEntry{params: m.Params, returnType: m.ReturnType, body: body}
			}
		}
	}
	return nil
}

func collisionErr(at span.Span, name string) error {
	return &diagnostic.TypeError{At: at, Kind: diagnostic.UndefinedSymbol,
		Detail: fmt.Sprintf("%q declared more than once", name)}
}

func fromASTUniverse(u ast.Universe) types.Universe {
	switch u {
	case ast.UniverseFree:
		return types.Free
	case ast.UniverseLinear:
		return types.Linear
	case ast.UniverseType:
		return types.TypeUniverse
	case ast.UniverseRegion:
		return types.Region
	default:
		return types.Free
	}
}

// typeSpecKey renders a TypeSpec into a comparable string, used as the
// instance-table key for typeclass resolution (responsibility 6).
func typeSpecKey(t ast.TypeSpec) string {
	switch t := t.(type) {
	case *ast.SimpleType:
		return t.Name
	case *ast.GenericType:
		s := t.Name + "["
		for i, a := range t.Args {
			if i > 0 {
				s += ","
			}
			s += typeSpecKey(a)
		}
		return s + "]"
	case *ast.RefType:
		return fmt.Sprintf("ref%d[%s,%s]", t.Kind, typeSpecKey(t.Lhs), t.Rhs)
	default:
		return "?"
	}
}

// checkUniverses is responsibility 3: every record slot type must
// satisfy U(slot) <= U(record). Union slot types are only resolved here,
// since a union has no declared universe to compare them against.
func (r *Resolver) checkUniverses() error {
	for name, rec := range r.records {
		for _, slot := range rec.slots {
			ty, err := r.resolveTypeSpec(slot.Type, nil)
			if err != nil {
				return err
			}
			if !ty.Universe().LE(rec.universe) {
				return &diagnostic.TypeError{At: slot.NodeSpan(), Kind: diagnostic.UniverseMismatch,
					Detail: fmt.Sprintf("slot %q of record %s has universe %s, not <= %s", slot.Name, name, ty.Universe(), rec.universe)}
			}
		}
	}
	for name, un := range r.unions {
		for _, c := range un.cases {
			for _, slot := range c.Slots {
				ty, err := r.resolveTypeSpec(slot.Type, nil)
				if err != nil {
					return err
				}
				// Unions carry no declared universe (see internal/ast):
				// a union is linear iff any case carries a linear slot.
				// The resolver folds that into the union's inferred
				// universe on demand via unionUniverse, so there is
				// nothing further to reject here beyond a valid slot type.
				_ = ty
				_ = name
			}
		}
	}
	return nil
}

// unionUniverse infers a union's universe: Linear if any slot in any
// case is linear, Free otherwise — the parser leaves ast.UnionDecl's
// Universe field unset since the grammar has no keyword for it.
func (r *Resolver) unionUniverse(u *unionEntry) (types.Universe, error) {
	for _, c := range u.cases {
		for _, slot := range c.Slots {
			ty, err := r.resolveTypeSpec(slot.Type, nil)
			if err != nil {
				return types.Free, err
			}
			if ty.IsLinear() {
				return types.Linear, nil
			}
		}
	}
	return types.Free, nil
}

func (r *Resolver) populateExports(tmod *typedast.Module) {
	for _, item := range tmod.Items {
		switch d := item.(type) {
		case *typedast.ConstDecl:
			tmod.Exports[d.Name] = d.Type
		case *typedast.FunctionDecl:
			params := make([]types.Ty, len(d.Params))
			for i, p := range d.Params {
				params[i] = p.Type
			}
			tmod.Exports[d.Name] = types.FnPtr(params, d.ReturnType)
		}
	}
}

func typeErrf(at span.Span, kind diagnostic.TypeErrorKind, format string, args ...interface{}) error {
	return &diagnostic.TypeError{At: at, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
