// Package types implements Ty, the resolved type representation, and the
// universe lattice used throughout the type checker and linearity
// checker. U(τ) and the numeric predicates are total, pure functions, as
// required by spec.md §4.T.
package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Universe is the kind-level classification of a type: spec.md's flat
// four-element set {Free, Linear, Type, Region}.
type Universe int

const (
	Free Universe = iota
	Linear
	TypeUniverse
	Region
)

func (u Universe) String() string {
	switch u {
	case Free:
		return "Free"
	case Linear:
		return "Linear"
	case TypeUniverse:
		return "Type"
	case Region:
		return "Region"
	default:
		return "<bad universe>"
	}
}

// LE implements the universe order Free <= Linear, Free <= Type used by
// the declaration-universe check of spec.md §4.R responsibility 3.
func (u Universe) LE(other Universe) bool {
	if u == other {
		return true
	}
	return u == Free && (other == Linear || other == TypeUniverse)
}

// Signedness of an Integer type.
type Signedness int

const (
	Signed Signedness = iota
	Unsigned
)

// Width of an Integer type.
type Width int

const (
	Width8 Width = iota
	Width16
	Width32
	Width64
	WidthByteSize
	WidthIndex
)

// Kind discriminates the Ty constructors of spec.md §3.
type Kind int

const (
	KUnit Kind = iota
	KBoolean
	KInteger
	KSingleFloat
	KDoubleFloat
	KReadRef
	KWriteRef
	KSpan
	KSpanMut
	KAddress
	KPointer
	KFnPtr
	KNamed
	KRegionTy
	KTyVar
)

// RegionID names a region introduced by a borrow statement.
type RegionID uint64

// TyVarID is a stable arena identifier for a free type variable, per the
// arena design of spec.md §9.
type TyVarID uint64

// Ty is the resolved type representation. It is an algebraic value: the
// active fields depend on Kind, mirroring a tagged union. Structural
// equality is via Equal, not Go's == (Named and TyVar carry slices).
type Ty struct {
	Kind Kind

	// KInteger
	Signedness Signedness
	Width      Width

	// KReadRef, KWriteRef, KSpan, KSpanMut: Elem is τ, Rgn is the region
	// argument ρ (always KRegionTy by invariant 2 of spec.md §3).
	Elem *Ty
	Rgn  *Ty

	// KAddress, KPointer
	// (reuse Elem)

	// KFnPtr
	Params []Ty
	Result *Ty

	// KNamed
	Name      string
	TypeArgs  []Ty
	NamedUniv Universe

	// KRegionTy
	RegionID RegionID

	// KTyVar
	VarID       TyVarID
	VarUniverse Universe
	Constraints []string // sorted typeclass-name constraint set

	// InstanceTag is a stable identity tag stamped onto a generic
	// instantiation's substitution result so downstream passes can
	// recognize "the same instantiation" without recomputing it (the
	// call-node substitution cache of spec.md §9's generic-instantiation
	// note). Empty unless this Ty is the result of instantiating a
	// generic declaration at a call site.
	InstanceTag uuid.UUID
}

// --- constructors ---

func Unit() Ty        { return Ty{Kind: KUnit} }
func Boolean() Ty      { return Ty{Kind: KBoolean} }
func SingleFloat() Ty { return Ty{Kind: KSingleFloat} }
func DoubleFloat() Ty { return Ty{Kind: KDoubleFloat} }

func Integer(s Signedness, w Width) Ty {
	return Ty{Kind: KInteger, Signedness: s, Width: w}
}

func ReadRef(elem, rgn Ty) Ty  { return Ty{Kind: KReadRef, Elem: &elem, Rgn: &rgn} }
func WriteRef(elem, rgn Ty) Ty { return Ty{Kind: KWriteRef, Elem: &elem, Rgn: &rgn} }
func Span(elem, rgn Ty) Ty     { return Ty{Kind: KSpan, Elem: &elem, Rgn: &rgn} }
func SpanMut(elem, rgn Ty) Ty  { return Ty{Kind: KSpanMut, Elem: &elem, Rgn: &rgn} }
func Address(elem Ty) Ty       { return Ty{Kind: KAddress, Elem: &elem} }
func Pointer(elem Ty) Ty       { return Ty{Kind: KPointer, Elem: &elem} }

func FnPtr(params []Ty, result Ty) Ty {
	return Ty{Kind: KFnPtr, Params: params, Result: &result}
}

func Named(name string, args []Ty, u Universe) Ty {
	return Ty{Kind: KNamed, Name: name, TypeArgs: args, NamedUniv: u}
}

func RegionTy(id RegionID) Ty { return Ty{Kind: KRegionTy, RegionID: id} }

func TyVar(id TyVarID, u Universe, constraints []string) Ty {
	sorted := append([]string(nil), constraints...)
	sortStrings(sorted)
	return Ty{Kind: KTyVar, VarID: id, VarUniverse: u, Constraints: sorted}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Universe implements U(τ) of spec.md §3/§4.T: total over every Kind.
func (t Ty) Universe() Universe {
	switch t.Kind {
	case KUnit, KBoolean, KInteger, KSingleFloat, KDoubleFloat,
		KAddress, KPointer, KFnPtr, KReadRef, KSpan:
		return Free
	case KWriteRef, KSpanMut:
		return Linear
	case KRegionTy:
		return Region
	case KNamed:
		return t.NamedUniv
	case KTyVar:
		return t.VarUniverse
	default:
		panic(fmt.Sprintf("types: Universe: unhandled kind %d", t.Kind))
	}
}

// IsLinear reports U(τ) = Linear.
func (t Ty) IsLinear() bool { return t.Universe() == Linear }

// IsNumeric reports whether τ supports arithmetic.
func (t Ty) IsNumeric() bool {
	switch t.Kind {
	case KInteger, KSingleFloat, KDoubleFloat:
		return true
	default:
		return false
	}
}

// IsInteger reports whether τ is an Integer(_, _).
func (t Ty) IsInteger() bool { return t.Kind == KInteger }

// IsFloat reports whether τ is SingleFloat or DoubleFloat.
func (t Ty) IsFloat() bool { return t.Kind == KSingleFloat || t.Kind == KDoubleFloat }

// Equal is structural equality: two Ty values are equal iff all
// constructors and arguments are equal (invariant-bearing equality used
// by the resolver's "annotated Ty matches binding's Ty" checks).
func (a Ty) Equal(b Ty) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KUnit, KBoolean, KSingleFloat, KDoubleFloat:
		return true
	case KInteger:
		return a.Signedness == b.Signedness && a.Width == b.Width
	case KReadRef, KWriteRef, KSpan, KSpanMut:
		return a.Elem.Equal(*b.Elem) && a.Rgn.Equal(*b.Rgn)
	case KAddress, KPointer:
		return a.Elem.Equal(*b.Elem)
	case KFnPtr:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !a.Params[i].Equal(b.Params[i]) {
				return false
			}
		}
		return a.Result.Equal(*b.Result)
	case KNamed:
		if a.Name != b.Name || a.NamedUniv != b.NamedUniv || len(a.TypeArgs) != len(b.TypeArgs) {
			return false
		}
		for i := range a.TypeArgs {
			if !a.TypeArgs[i].Equal(b.TypeArgs[i]) {
				return false
			}
		}
		return true
	case KRegionTy:
		return a.RegionID == b.RegionID
	case KTyVar:
		return a.VarID == b.VarID
	default:
		return false
	}
}

func (t Ty) String() string {
	switch t.Kind {
	case KUnit:
		return "Unit"
	case KBoolean:
		return "Boolean"
	case KInteger:
		sign := "Unsigned"
		if t.Signedness == Signed {
			sign = "Signed"
		}
		return fmt.Sprintf("Integer(%s, %s)", sign, widthName(t.Width))
	case KSingleFloat:
		return "SingleFloat"
	case KDoubleFloat:
		return "DoubleFloat"
	case KReadRef:
		return fmt.Sprintf("&[%s, %s]", t.Elem, t.Rgn)
	case KWriteRef:
		return fmt.Sprintf("&![%s, %s]", t.Elem, t.Rgn)
	case KSpan:
		return fmt.Sprintf("Span[%s, %s]", t.Elem, t.Rgn)
	case KSpanMut:
		return fmt.Sprintf("Span![%s, %s]", t.Elem, t.Rgn)
	case KAddress:
		return fmt.Sprintf("Address(%s)", t.Elem)
	case KPointer:
		return fmt.Sprintf("Pointer(%s)", t.Elem)
	case KFnPtr:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s): %s", strings.Join(parts, ", "), t.Result)
	case KNamed:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s[%s]", t.Name, strings.Join(parts, ", "))
	case KRegionTy:
		return fmt.Sprintf("Region#%d", t.RegionID)
	case KTyVar:
		return fmt.Sprintf("'t%d", t.VarID)
	default:
		return "<bad type>"
	}
}

func widthName(w Width) string {
	switch w {
	case Width8:
		return "Width8"
	case Width16:
		return "Width16"
	case Width32:
		return "Width32"
	case Width64:
		return "Width64"
	case WidthByteSize:
		return "WidthByteSize"
	case WidthIndex:
		return "WidthIndex"
	default:
		return "<bad width>"
	}
}

// Arena hands out monotonically increasing TyVarID/RegionID values, per
// the stable-integer-identifier design of spec.md §9. It is not
// goroutine-safe — the pipeline is single-threaded per spec.md §5.
type Arena struct {
	nextVar    TyVarID
	nextRegion RegionID
}

// NewArena returns a fresh, empty arena.
func NewArena() *Arena { return &Arena{} }

// FreshVar allocates a new type variable identifier.
func (a *Arena) FreshVar() TyVarID {
	id := a.nextVar
	a.nextVar++
	return id
}

// FreshRegion allocates a new region identifier, scoped to the enclosing
// borrow statement per spec.md §9.
func (a *Arena) FreshRegion() RegionID {
	id := a.nextRegion
	a.nextRegion++
	return id
}

// Subst is a pure substitution map from type-variable identifiers to
// concrete types, used to instantiate generics at their use sites.
type Subst map[TyVarID]Ty

// Apply substitutes every TyVar in t per the map, leaving everything
// else unchanged. It is pure: t is never mutated.
func (s Subst) Apply(t Ty) Ty {
	switch t.Kind {
	case KTyVar:
		if repl, ok := s[t.VarID]; ok {
			return repl
		}
		return t
	case KReadRef:
		e, r := s.Apply(*t.Elem), s.Apply(*t.Rgn)
		return ReadRef(e, r)
	case KWriteRef:
		e, r := s.Apply(*t.Elem), s.Apply(*t.Rgn)
		return WriteRef(e, r)
	case KSpan:
		e, r := s.Apply(*t.Elem), s.Apply(*t.Rgn)
		return Span(e, r)
	case KSpanMut:
		e, r := s.Apply(*t.Elem), s.Apply(*t.Rgn)
		return SpanMut(e, r)
	case KAddress:
		return Address(s.Apply(*t.Elem))
	case KPointer:
		return Pointer(s.Apply(*t.Elem))
	case KFnPtr:
		params := make([]Ty, len(t.Params))
		for i, p := range t.Params {
			params[i] = s.Apply(p)
		}
		res := s.Apply(*t.Result)
		return FnPtr(params, res)
	case KNamed:
		args := make([]Ty, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = s.Apply(a)
		}
		return Named(t.Name, args, t.NamedUniv)
	default:
		return t
	}
}
