// Package typedast defines the typed tree the resolver produces: one
// node per internal/ast node, each carrying its resolved internal/types.Ty
// and (for identifiers) the kind of binding it resolved to, per spec.md
// §3's "Typed tree" section.
package typedast

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/types"
)

// IdentKind classifies what a resolved identifier refers to.
type IdentKind int

const (
	IdentParam IdentKind = iota
	IdentLocal
	IdentTemporary
	IdentGlobalConstant
	IdentFunction
	IdentMethod
	IdentTypeclassSlot
)

func (k IdentKind) String() string {
	switch k {
	case IdentParam:
		return "param"
	case IdentLocal:
		return "local"
	case IdentTemporary:
		return "temporary"
	case IdentGlobalConstant:
		return "global constant"
	case IdentFunction:
		return "function"
	case IdentMethod:
		return "method"
	case IdentTypeclassSlot:
		return "typeclass slot"
	default:
		return "<bad ident kind>"
	}
}

// Module is the typed counterpart of ast.Module, plus the export table
// the resolver computed (symbol name -> its Ty).
type Module struct {
	Span    span.Span
	Name    string
	IsBody  bool
	Items   []Item
	Exports map[string]types.Ty
}

// Item is any typed top-level declaration or definition.
type Item interface {
	itemNode()
	NodeSpan() span.Span
}

type ConstDecl struct {
	Span  span.Span
	Name  string
	Type  types.Ty
	Value Expr // nil in a declaration-only item
}

func (*ConstDecl) itemNode()             {}
func (d *ConstDecl) NodeSpan() span.Span { return d.Span }

type Param struct {
	Name string
	Type types.Ty
}

type FunctionDecl struct {
	Span       span.Span
	Name       string
	TypeParams []types.TyVarID
	Params     []Param
	ReturnType types.Ty
	Body       []Stmt // nil in a declaration-only item
}

func (*FunctionDecl) itemNode()             {}
func (d *FunctionDecl) NodeSpan() span.Span { return d.Span }

type Slot struct {
	Name string
	Type types.Ty
}

type RecordDecl struct {
	Span       span.Span
	Name       string
	TypeParams []types.TyVarID
	Universe   types.Universe
	Slots      []Slot
}

func (*RecordDecl) itemNode()             {}
func (d *RecordDecl) NodeSpan() span.Span { return d.Span }

type TypeDecl struct {
	Span       span.Span
	Name       string
	TypeParams []types.TyVarID
	Universe   types.Universe
}

func (*TypeDecl) itemNode()             {}
func (d *TypeDecl) NodeSpan() span.Span { return d.Span }

type UnionCase struct {
	Name  string
	Slots []Slot
}

type UnionDecl struct {
	Span       span.Span
	Name       string
	TypeParams []types.TyVarID
	Universe   types.Universe
	Cases      []UnionCase
}

func (*UnionDecl) itemNode()             {}
func (d *UnionDecl) NodeSpan() span.Span { return d.Span }

type TypeclassDecl struct {
	Span    span.Span
	Name    string
	Param   types.TyVarID
	Methods []*FunctionDecl
}

func (*TypeclassDecl) itemNode()             {}
func (d *TypeclassDecl) NodeSpan() span.Span { return d.Span }

type InstanceDecl struct {
	Span      span.Span
	Typeclass string
	Arg       types.Ty
	Methods   []*FunctionDecl
}

func (*InstanceDecl) itemNode()             {}
func (d *InstanceDecl) NodeSpan() span.Span { return d.Span }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is the typed expression syntax: every node carries its resolved
// Ty alongside its span.
type Expr interface {
	exprNode()
	NodeSpan() span.Span
	Type() types.Ty
}

type Literal struct {
	Span span.Span
	Kind ast.LiteralKind
	Text string
	Ty   types.Ty
}

func (*Literal) exprNode()             {}
func (e *Literal) NodeSpan() span.Span { return e.Span }
func (e *Literal) Type() types.Ty      { return e.Ty }

// Variable is a resolved identifier reference: its IdentKind records
// which environment it was found in.
type Variable struct {
	Span span.Span
	Name string
	Kind IdentKind
	Ty   types.Ty
}

func (*Variable) exprNode()             {}
func (e *Variable) NodeSpan() span.Span { return e.Span }
func (e *Variable) Type() types.Ty      { return e.Ty }

type PathSegment struct {
	Kind  ast.PathSegmentKind
	Field string
	Index Expr // for SegIndex
	Ty    types.Ty
}

// Path is a resolved field/pointer-field/index access chain off Base.
type Path struct {
	Span     span.Span
	Base     Expr
	Segments []PathSegment
	Ty       types.Ty
}

func (*Path) exprNode()             {}
func (e *Path) NodeSpan() span.Span { return e.Span }
func (e *Path) Type() types.Ty      { return e.Ty }

// RefPath is "&( path )" packaging an existing reference path.
type RefPath struct {
	Span span.Span
	Path Expr
	Ty   types.Ty
}

func (*RefPath) exprNode()             {}
func (e *RefPath) NodeSpan() span.Span { return e.Span }
func (e *RefPath) Type() types.Ty      { return e.Ty }

// Borrow is "&x" / "&!x" / "&~x", resolved to the enclosing borrow
// statement's region.
type Borrow struct {
	Span   span.Span
	Kind   ast.BorrowKind
	Target Expr
	Region types.RegionID
	Ty     types.Ty
}

func (*Borrow) exprNode()             {}
func (e *Borrow) NodeSpan() span.Span { return e.Span }
func (e *Borrow) Type() types.Ty      { return e.Ty }

type Deref struct {
	Span span.Span
	X    Expr
	Ty   types.Ty
}

func (*Deref) exprNode()             {}
func (e *Deref) NodeSpan() span.Span { return e.Span }
func (e *Deref) Type() types.Ty      { return e.Ty }

type SizeOf struct {
	Span span.Span
	Of   types.Ty
	Ty   types.Ty // always Integer(Unsigned, WidthByteSize)
}

func (*SizeOf) exprNode()             {}
func (e *SizeOf) NodeSpan() span.Span { return e.Span }
func (e *SizeOf) Type() types.Ty      { return e.Ty }

// Embed is typed as its declared type; the code string is trusted and
// not further checked, per spec.md §9 open question 3.
type Embed struct {
	Span span.Span
	Code string
	Args []Expr
	Ty   types.Ty
}

func (*Embed) exprNode()             {}
func (e *Embed) NodeSpan() span.Span { return e.Span }
func (e *Embed) Type() types.Ty      { return e.Ty }

// FnTargetKind discriminates what a call's callee resolved to.
type FnTargetKind int

const (
	TargetFunction FnTargetKind = iota
	TargetMethod
)

// FnTarget names the resolved callee of a FnCall: a plain function, or
// a typeclass method together with the instance selected for it.
type FnTarget struct {
	Kind     FnTargetKind
	Name     string
	Instance types.Ty // the unifying argument type, set only for TargetMethod
}

// FnCall is a resolved call: Args is always positional, in declared
// parameter order (named-argument calls are reordered by the resolver),
// and Subst records the generic substitution chosen at this call site so
// later passes never reinstantiate (spec.md §9's generic-instantiation
// note).
type FnCall struct {
	Span   span.Span
	Target FnTarget
	Args   []Expr
	Subst  types.Subst
	Ty     types.Ty
}

func (*FnCall) exprNode()             {}
func (e *FnCall) NodeSpan() span.Span { return e.Span }
func (e *FnCall) Type() types.Ty      { return e.Ty }

type BinOp struct {
	Span span.Span
	Op   ast.BinOpKind
	Lhs  Expr
	Rhs  Expr
	Ty   types.Ty
}

func (*BinOp) exprNode()             {}
func (e *BinOp) NodeSpan() span.Span { return e.Span }
func (e *BinOp) Type() types.Ty      { return e.Ty }

type UnaryOp struct {
	Span span.Span
	Op   ast.UnaryOpKind
	X    Expr
	Ty   types.Ty
}

func (*UnaryOp) exprNode()             {}
func (e *UnaryOp) NodeSpan() span.Span { return e.Span }
func (e *UnaryOp) Type() types.Ty      { return e.Ty }

type Conditional struct {
	Span span.Span
	Cond Expr
	Then Expr
	Else Expr
	Ty   types.Ty
}

func (*Conditional) exprNode()             {}
func (e *Conditional) NodeSpan() span.Span { return e.Span }
func (e *Conditional) Type() types.Ty      { return e.Ty }

type Cast struct {
	Span span.Span
	X    Expr
	Ty   types.Ty
}

func (*Cast) exprNode()             {}
func (e *Cast) NodeSpan() span.Span { return e.Span }
func (e *Cast) Type() types.Ty      { return e.Ty }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

type Stmt interface {
	stmtNode()
	NodeSpan() span.Span
}

type LetStmt struct {
	Span    span.Span
	Mutable bool
	Name    string
	Type    types.Ty
	Value   Expr
}

func (*LetStmt) stmtNode()             {}
func (s *LetStmt) NodeSpan() span.Span { return s.Span }

type DestructureBinding struct {
	Name string
	Type types.Ty
}

type DestructureStmt struct {
	Span     span.Span
	Bindings []DestructureBinding
	Value    Expr
}

func (*DestructureStmt) stmtNode()             {}
func (s *DestructureStmt) NodeSpan() span.Span { return s.Span }

type AssignStmt struct {
	Span   span.Span
	Target Expr
	Value  Expr
}

func (*AssignStmt) stmtNode()             {}
func (s *AssignStmt) NodeSpan() span.Span { return s.Span }

type IfStmt struct {
	Span span.Span
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (*IfStmt) stmtNode()             {}
func (s *IfStmt) NodeSpan() span.Span { return s.Span }

type WhileStmt struct {
	Span span.Span
	Cond Expr
	Body []Stmt
}

func (*WhileStmt) stmtNode()             {}
func (s *WhileStmt) NodeSpan() span.Span { return s.Span }

type ForStmt struct {
	Span span.Span
	Var  string
	From Expr
	To   Expr
	Body []Stmt
}

func (*ForStmt) stmtNode()             {}
func (s *ForStmt) NodeSpan() span.Span { return s.Span }

type CaseBinding struct {
	Name string
	Type types.Ty
}

type CaseWhen struct {
	Span     span.Span
	CaseName string
	Bindings []CaseBinding
	Body     []Stmt
}

type CaseStmt struct {
	Span  span.Span
	X     Expr
	Whens []*CaseWhen
}

func (*CaseStmt) stmtNode()             {}
func (s *CaseStmt) NodeSpan() span.Span { return s.Span }

// BorrowStmt is the typed `borrow` statement: it carries the origin's
// type, the reference type given to the new local, the fresh region,
// and the borrow mode, per spec.md §3's typed-tree note.
type BorrowStmt struct {
	Span    span.Span
	Name    string
	RefType types.Ty
	Region  types.RegionID
	Mode    ast.BorrowMode
	Orig    string
	OrigTy  types.Ty
	Body    []Stmt
}

func (*BorrowStmt) stmtNode()             {}
func (s *BorrowStmt) NodeSpan() span.Span { return s.Span }

type DiscardStmt struct {
	Span span.Span
	X    Expr
}

func (*DiscardStmt) stmtNode()             {}
func (s *DiscardStmt) NodeSpan() span.Span { return s.Span }

type ReturnStmt struct {
	Span span.Span
	X    Expr
}

func (*ReturnStmt) stmtNode()             {}
func (s *ReturnStmt) NodeSpan() span.Span { return s.Span }

type SkipStmt struct {
	Span span.Span
}

func (*SkipStmt) stmtNode()             {}
func (s *SkipStmt) NodeSpan() span.Span { return s.Span }

type BlockStmt struct {
	Span span.Span
	Body []Stmt
}

func (*BlockStmt) stmtNode()             {}
func (s *BlockStmt) NodeSpan() span.Span { return s.Span }
