// Package ast defines the untyped syntax tree produced by internal/parser.
//
// Nodes are exclusively owned: the tree is a tree, never a cyclic graph.
// Recursive positions (expression operands, statement bodies, nested type
// specs) are explicit pointers so the tree can be built bottom-up without
// forward references.
package ast

import "github.com/austral-lang/auc/internal/span"

// Universe names a type parameter's or named type's kind, per spec.md §3.
type Universe int

const (
	UniverseFree Universe = iota
	UniverseLinear
	UniverseType
	UniverseRegion
)

func (u Universe) String() string {
	switch u {
	case UniverseFree:
		return "Free"
	case UniverseLinear:
		return "Linear"
	case UniverseType:
		return "Type"
	case UniverseRegion:
		return "Region"
	default:
		return "<bad universe>"
	}
}

// Module is either a declaration (interface) or a body (implementation).
type Module struct {
	Span      span.Span
	Docstring string
	Imports   []*Import
	Name      string
	IsBody    bool
	Items     []Item
}

// Import is a qualified module path plus an optional renaming list.
type Import struct {
	Span    span.Span
	Path    []string // qualified module path, >= 1 identifier
	Symbols []ImportedSymbol
}

// ImportedSymbol is one name pulled in by an Import, optionally renamed.
type ImportedSymbol struct {
	Span     span.Span
	Name     string
	RenameAs string // empty if not renamed
}

// Pragma attaches engine directives to a declaration.
type Pragma struct {
	Span      span.Span
	Name      string
	Args      []Expr       // positional args
	NamedArgs []PragmaArg  // named args; mutually exclusive with Args
}

// PragmaArg is one "name => expr" pragma argument.
type PragmaArg struct {
	Span span.Span
	Name string
	Val  Expr
}

// Item is any top-level declaration or definition inside a Module.
type Item interface {
	itemNode()
	NodeSpan() span.Span
}

// TypeParam is a generic type parameter: a name, its universe, and the
// ordered list of typeclass constraints it must satisfy.
type TypeParam struct {
	Span        span.Span
	Name        string
	Universe    Universe
	Constraints []string
}

// Param is one function/method value parameter.
type Param struct {
	Span span.Span
	Name string
	Type TypeSpec
}

// ConstDecl is a `constant` declaration (interface side); Value is nil
// unless this is the paired body's full definition.
type ConstDecl struct {
	Span      span.Span
	Docstring string
	Pragmas   []*Pragma
	Name      string
	Type      TypeSpec
	Value     Expr // nil in a declaration-only item
}

func (*ConstDecl) itemNode()            {}
func (d *ConstDecl) NodeSpan() span.Span { return d.Span }

// FunctionDecl is a `function` item; Body is nil unless this is a
// definition (module body).
type FunctionDecl struct {
	Span       span.Span
	Docstring  string
	Pragmas    []*Pragma
	TypeParams []*TypeParam
	Name       string
	Params     []*Param
	ReturnType TypeSpec
	Body       []Stmt // nil in a declaration-only item
}

func (*FunctionDecl) itemNode()            {}
func (d *FunctionDecl) NodeSpan() span.Span { return d.Span }

// RecordDecl is a `record` item.
type RecordDecl struct {
	Span       span.Span
	Docstring  string
	Pragmas    []*Pragma
	Name       string
	TypeParams []*TypeParam
	Universe   Universe
	Slots      []*Slot
}

func (*RecordDecl) itemNode()            {}
func (d *RecordDecl) NodeSpan() span.Span { return d.Span }

// Slot is one record field: name + type.
type Slot struct {
	Span span.Span
	Name string
	Type TypeSpec
}

// TypeDecl is an opaque `type` item (a named type with no visible
// definition in the interface).
type TypeDecl struct {
	Span       span.Span
	Docstring  string
	Pragmas    []*Pragma
	Name       string
	TypeParams []*TypeParam
	Universe   Universe
}

func (*TypeDecl) itemNode()            {}
func (d *TypeDecl) NodeSpan() span.Span { return d.Span }

// UnionDecl is a `union` item: a sum of cases, each with optional slots.
type UnionDecl struct {
	Span       span.Span
	Docstring  string
	Pragmas    []*Pragma
	Name       string
	TypeParams []*TypeParam
	Universe   Universe
	Cases      []*UnionCase
}

func (*UnionDecl) itemNode()            {}
func (d *UnionDecl) NodeSpan() span.Span { return d.Span }

// UnionCase is one `case` arm of a union; Slots is nil for a unit case.
type UnionCase struct {
	Span  span.Span
	Name  string
	Slots []*Slot
}

// TypeclassDecl is a `typeclass` item: a named set of method signatures
// parameterized by a single type parameter, or (in a body) full method
// definitions.
type TypeclassDecl struct {
	Span      span.Span
	Docstring string
	Pragmas   []*Pragma
	Name      string
	Param     *TypeParam
	Methods   []*FunctionDecl
}

func (*TypeclassDecl) itemNode()            {}
func (d *TypeclassDecl) NodeSpan() span.Span { return d.Span }

// InstanceDecl implements a typeclass for a concrete type argument.
type InstanceDecl struct {
	Span      span.Span
	Docstring string
	Pragmas   []*Pragma
	Typeclass string
	Arg       TypeSpec
	Methods   []*FunctionDecl
}

func (*InstanceDecl) itemNode()            {}
func (d *InstanceDecl) NodeSpan() span.Span { return d.Span }

// ---------------------------------------------------------------------
// Type specs (unresolved, syntactic)
// ---------------------------------------------------------------------

// TypeSpec is the untyped syntax for a type reference.
type TypeSpec interface {
	typeSpecNode()
	NodeSpan() span.Span
}

// SimpleType is a bare name: "Int32", "MyRecord".
type SimpleType struct {
	Span span.Span
	Name string
}

func (*SimpleType) typeSpecNode()        {}
func (t *SimpleType) NodeSpan() span.Span { return t.Span }

// GenericType is "Name[arg, ...]".
type GenericType struct {
	Span span.Span
	Name string
	Args []TypeSpec
}

func (*GenericType) typeSpecNode()        {}
func (t *GenericType) NodeSpan() span.Span { return t.Span }

// RefKind distinguishes the four borrow/span type constructors.
type RefKind int

const (
	RefBorrowRead RefKind = iota
	RefBorrowWrite
	RefSpanRead
	RefSpanWrite
)

// RefType is "&[Lhs, Rhs]" / "&![Lhs, Rhs]" / "Span[Lhs, Rhs]" /
// "Span![Lhs, Rhs]" — Rhs is always a region identifier.
type RefType struct {
	Span span.Span
	Kind RefKind
	Lhs  TypeSpec
	Rhs  string // region name
}

func (*RefType) typeSpecNode()        {}
func (t *RefType) NodeSpan() span.Span { return t.Span }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is the untyped expression syntax: a sum of atomic and compound
// forms per spec.md §3.
type Expr interface {
	exprNode()
	NodeSpan() span.Span
}

// LiteralKind discriminates literal forms.
type LiteralKind int

const (
	LitNil LiteralKind = iota
	LitTrue
	LitFalse
	LitChar
	LitDecimal
	LitFloat
	LitString
)

// Literal is any of nil/true/false/char/decimal/float/string.
type Literal struct {
	Span span.Span
	Kind LiteralKind
	Text string // raw textual payload (digits, decoded string, the char)
}

func (*Literal) exprNode()        {}
func (e *Literal) NodeSpan() span.Span { return e.Span }

// Variable is a bare identifier used as a value.
type Variable struct {
	Span span.Span
	Name string
}

func (*Variable) exprNode()        {}
func (e *Variable) NodeSpan() span.Span { return e.Span }

// PathSegmentKind discriminates the three path-segment forms.
type PathSegmentKind int

const (
	SegField PathSegmentKind = iota // .f
	SegArrow                       // ->f
	SegIndex                       // [e]
)

// PathSegment is one step of a Path expression.
type PathSegment struct {
	Span  span.Span
	Kind  PathSegmentKind
	Field string // for SegField / SegArrow
	Index Expr   // for SegIndex
}

// Path is an identifier followed by one or more segments.
type Path struct {
	Span     span.Span
	Head     string
	Segments []*PathSegment
}

func (*Path) exprNode()        {}
func (e *Path) NodeSpan() span.Span { return e.Span }

// RefPath is "&( path )" — packages an existing reference path.
type RefPath struct {
	Span span.Span
	Path *Path
}

func (*RefPath) exprNode()        {}
func (e *RefPath) NodeSpan() span.Span { return e.Span }

// BorrowKind discriminates the three unary borrow forms.
type BorrowKind int

const (
	BorrowRead BorrowKind = iota
	BorrowWrite
	ReBorrow
)

// Borrow is "&x" / "&!x" / "&~x".
type Borrow struct {
	Span   span.Span
	Kind   BorrowKind
	Target Expr
}

func (*Borrow) exprNode()        {}
func (e *Borrow) NodeSpan() span.Span { return e.Span }

// Deref is "!e".
type Deref struct {
	Span span.Span
	X    Expr
}

func (*Deref) exprNode()        {}
func (e *Deref) NodeSpan() span.Span { return e.Span }

// SizeOf is "sizeof(τ)".
type SizeOf struct {
	Span span.Span
	Type TypeSpec
}

func (*SizeOf) exprNode()        {}
func (e *SizeOf) NodeSpan() span.Span { return e.Span }

// Embed is "@embed(τ, \"code\", args...)".
type Embed struct {
	Span span.Span
	Type TypeSpec
	Code string
	Args []Expr
}

func (*Embed) exprNode()        {}
func (e *Embed) NodeSpan() span.Span { return e.Span }

// Paren is a parenthesized expression; kept as a distinct node so the
// parser can force atomicity without losing span information.
type Paren struct {
	Span span.Span
	X    Expr
}

func (*Paren) exprNode()        {}
func (e *Paren) NodeSpan() span.Span { return e.Span }

// FnCallArgsKind discriminates the three mutually exclusive argument
// styles (invariant 3 of spec.md §3).
type FnCallArgsKind int

const (
	ArgsEmpty FnCallArgsKind = iota
	ArgsPositional
	ArgsNamed
)

// NamedArg is one "name => expr" call argument.
type NamedArg struct {
	Span span.Span
	Name string
	Val  Expr
}

// FnCallArgs is exactly one of Empty, Positional, or Named.
type FnCallArgs struct {
	Kind       FnCallArgsKind
	Positional []Expr
	Named      []*NamedArg
}

// FnCall is a function or method call.
type FnCall struct {
	Span   span.Span
	Callee string
	Args   FnCallArgs
}

func (*FnCall) exprNode()        {}
func (e *FnCall) NodeSpan() span.Span { return e.Span }

// BinOpKind enumerates every binary operator across the three compound
// layers (comparison, logic, arithmetic).
type BinOpKind int

const (
	OpEq BinOpKind = iota
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// BinOp is a binary comparison/logic/arithmetic expression.
type BinOp struct {
	Span span.Span
	Op   BinOpKind
	Lhs  Expr
	Rhs  Expr
}

func (*BinOp) exprNode()        {}
func (e *BinOp) NodeSpan() span.Span { return e.Span }

// UnaryOpKind enumerates the two unary compound operators.
type UnaryOpKind int

const (
	OpNot UnaryOpKind = iota
	OpNeg
)

// UnaryOp is "not e" or "-e".
type UnaryOp struct {
	Span span.Span
	Op   UnaryOpKind
	X    Expr
}

func (*UnaryOp) exprNode()        {}
func (e *UnaryOp) NodeSpan() span.Span { return e.Span }

// Conditional is "if c then a else b".
type Conditional struct {
	Span span.Span
	Cond Expr
	Then Expr
	Else Expr
}

func (*Conditional) exprNode()        {}
func (e *Conditional) NodeSpan() span.Span { return e.Span }

// Cast is "e : τ".
type Cast struct {
	Span span.Span
	X    Expr
	Type TypeSpec
}

func (*Cast) exprNode()        {}
func (e *Cast) NodeSpan() span.Span { return e.Span }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is the untyped statement syntax.
type Stmt interface {
	stmtNode()
	NodeSpan() span.Span
}

// LetStmt is "let|var x [: τ] := e;". Mutable marks a `var` binding.
type LetStmt struct {
	Span    span.Span
	Mutable bool
	Name    string
	Type    TypeSpec // nil if omitted (inferred from e)
	Value   Expr
}

func (*LetStmt) stmtNode()        {}
func (s *LetStmt) NodeSpan() span.Span { return s.Span }

// DestructureBinding is one "name [as rename] : τ" slot pattern.
type DestructureBinding struct {
	Span     span.Span
	Name     string
	RenameAs string // empty if not renamed
	Type     TypeSpec
}

// DestructureStmt is "let { a:τ, b as c:τ } := e;".
type DestructureStmt struct {
	Span     span.Span
	Bindings []*DestructureBinding
	Value    Expr
}

func (*DestructureStmt) stmtNode()        {}
func (s *DestructureStmt) NodeSpan() span.Span { return s.Span }

// AssignStmt is "path := expr;".
type AssignStmt struct {
	Span   span.Span
	Target Expr // Variable or Path
	Value  Expr
}

func (*AssignStmt) stmtNode()        {}
func (s *AssignStmt) NodeSpan() span.Span { return s.Span }

// IfStmt is "if c then is ... end (else is ... end)? if;".
type IfStmt struct {
	Span span.Span
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else branch
}

func (*IfStmt) stmtNode()        {}
func (s *IfStmt) NodeSpan() span.Span { return s.Span }

// WhileStmt is "while c do is ... end while;".
type WhileStmt struct {
	Span span.Span
	Cond Expr
	Body []Stmt
}

func (*WhileStmt) stmtNode()        {}
func (s *WhileStmt) NodeSpan() span.Span { return s.Span }

// ForStmt is "for i from s to e do is ... end for;".
type ForStmt struct {
	Span span.Span
	Var  string
	From Expr
	To   Expr
	Body []Stmt
}

func (*ForStmt) stmtNode()        {}
func (s *ForStmt) NodeSpan() span.Span { return s.Span }

// CaseBinding is one "when Case(binds) do is ... end" slot binding.
type CaseBinding struct {
	Span     span.Span
	Name     string
	RenameAs string
}

// CaseWhen is one "when Case binds do is ... end" branch.
type CaseWhen struct {
	Span     span.Span
	CaseName string
	Bindings []*CaseBinding
	Body     []Stmt
}

// CaseStmt is "case e of when ... end case;".
type CaseStmt struct {
	Span span.Span
	X    Expr
	Whens []*CaseWhen
}

func (*CaseStmt) stmtNode()        {}
func (s *CaseStmt) NodeSpan() span.Span { return s.Span }

// BorrowMode discriminates the originating borrow operator.
type BorrowMode int

const (
	BorrowModeRead BorrowMode = iota
	BorrowModeWrite
	BorrowModeReBorrow
)

// BorrowStmt is the `borrow` statement of spec.md §4.P.
type BorrowStmt struct {
	Span       span.Span
	Name       string     // new local name (y)
	RefMutable bool       // "&" vs "&!" on the binding side
	Type       TypeSpec   // τ in "[τ, ρ]"
	Region     string     // ρ, the fresh region name
	Mode       BorrowMode // mode' on "mode' x"
	Orig       string     // x, the origin variable
	Body       []Stmt
}

func (*BorrowStmt) stmtNode()        {}
func (s *BorrowStmt) NodeSpan() span.Span { return s.Span }

// DiscardStmt is a bare expression statement.
type DiscardStmt struct {
	Span span.Span
	X    Expr
}

func (*DiscardStmt) stmtNode()        {}
func (s *DiscardStmt) NodeSpan() span.Span { return s.Span }

// ReturnStmt is "return e;".
type ReturnStmt struct {
	Span span.Span
	X    Expr
}

func (*ReturnStmt) stmtNode()        {}
func (s *ReturnStmt) NodeSpan() span.Span { return s.Span }

// SkipStmt is the no-op statement "skip;".
type SkipStmt struct {
	Span span.Span
}

func (*SkipStmt) stmtNode()        {}
func (s *SkipStmt) NodeSpan() span.Span { return s.Span }

// BlockStmt is an explicit nested statement sequence.
type BlockStmt struct {
	Span span.Span
	Body []Stmt
}

func (*BlockStmt) stmtNode()        {}
func (s *BlockStmt) NodeSpan() span.Span { return s.Span }
