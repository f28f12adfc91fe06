// Package linearity implements spec.md §4.C: the appearance-counting
// pass that runs after the resolver and rejects a typed tree in which a
// Linear-universe value is used zero, two, or more times, or escapes a
// borrow, branch, or loop in a way that cannot be accounted for on every
// control-flow path.
//
// The checker is grounded on the teacher's Executor: a single struct
// threading mutable state through a tree walk action by action, one
// state transition per syntactic form, failing fast on the first
// violation rather than collecting a report.
package linearity

import (
	"fmt"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/typedast"
)

// VarState is one linear binding's position in the transition-rule
// table of spec.md §4.C.
type VarState int

const (
	Unconsumed VarState = iota
	BorrowedRead
	BorrowedWrite
	Consumed
)

type declSite struct {
	name string
	at   span.Span
}

// checker threads a flat name -> VarState map through one function
// body. Only Linear-universe bindings are ever inserted into state;
// Free-universe locals are never tracked, matching spec.md's "linearity
// has nothing to say about Free values" framing.
type checker struct {
	state  map[string]VarState
	scopes [][]declSite
}

// Check runs the pass over every function, typeclass method, and
// instance method body in mod (the `linearityCheck` operation of
// spec.md §6).
func Check(mod *typedast.Module) error {
	for _, item := range mod.Items {
		switch d := item.(type) {
		case *typedast.FunctionDecl:
			if err := checkFunction(d); err != nil {
				return err
			}
		case *typedast.TypeclassDecl:
			for _, m := range d.Methods {
				if err := checkFunction(m); err != nil {
					return err
				}
			}
		case *typedast.InstanceDecl:
			for _, m := range d.Methods {
				if err := checkFunction(m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkFunction(d *typedast.FunctionDecl) error {
	if d.Body == nil {
		return nil
	}
	c := &checker{state: map[string]VarState{}}
	c.pushScope()
	for _, p := range d.Params {
		if p.Type.IsLinear() {
			c.declare(p.Name, Unconsumed, d.Span)
		}
	}
	if err := c.stmts(d.Body); err != nil {
		return err
	}
	return c.popScopeCheck()
}

func cloneState(m map[string]VarState) map[string]VarState {
	out := make(map[string]VarState, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (c *checker) pushScope() { c.scopes = append(c.scopes, nil) }

func (c *checker) declare(name string, st VarState, at span.Span) {
	c.state[name] = st
	top := len(c.scopes) - 1
	c.scopes[top] = append(c.scopes[top], declSite{name: name, at: at})
}

// popScopeCheck closes the innermost scope: every linear binding it
// introduced must have reached Consumed, or the function leaks (or
// double-frees, if Consumed twice is somehow reached) a linear value —
// spec.md's UnconsumedOnReturn case, generalized to any scope exit.
func (c *checker) popScopeCheck() error {
	top := len(c.scopes) - 1
	sites := c.scopes[top]
	c.scopes = c.scopes[:top]
	for _, site := range sites {
		if st := c.state[site.name]; st != Consumed {
			return &diagnostic.LinearityError{At: site.at, Kind: diagnostic.UnconsumedOnReturn,
				Message: fmt.Sprintf("%s is never consumed", site.name)}
		}
		delete(c.state, site.name)
	}
	return nil
}

// consumeName consumes a single appearance of name. A Consumed state
// here always means the value was already used up by some earlier,
// already-completed statement or expression — spec.md §4.C's "use after
// consume" row — never a second appearance within the same expression
// still being evaluated; that distinct case is MultipleConsumption,
// caught by consumeExprList before it ever reaches consumeName.
func (c *checker) consumeName(name string, cur VarState, at span.Span) error {
	switch cur {
	case Consumed:
		return &diagnostic.LinearityError{At: at, Kind: diagnostic.UseAfterConsume,
			Message: fmt.Sprintf("%s was already consumed", name)}
	case BorrowedRead, BorrowedWrite:
		return &diagnostic.LinearityError{At: at, Kind: diagnostic.BorrowConflict,
			Message: fmt.Sprintf("%s is borrowed and cannot be consumed here", name)}
	}
	c.state[name] = Consumed
	return nil
}

// consumeExprList walks a list of sibling expressions evaluated as one
// unit — a call's arguments, an embed's arguments, a binary operator's
// two operands — tracking which tracked linear names this same list
// already consumed. A bare variable appearing twice in list, still
// Unconsumed when the list started, is spec.md §4.C's "more than one
// appearance of the same variable in a single expression":
// MultipleConsumption, not UseAfterConsume.
func (c *checker) consumeExprList(list []typedast.Expr) error {
	seenHere := map[string]bool{}
	for _, a := range list {
		if v, ok := a.(*typedast.Variable); ok {
			if st, tracked := c.state[v.Name]; tracked {
				if seenHere[v.Name] {
					return &diagnostic.LinearityError{At: v.Span, Kind: diagnostic.MultipleConsumption,
						Message: fmt.Sprintf("%s appears more than once in this expression", v.Name)}
				}
				if err := c.consumeName(v.Name, st, v.Span); err != nil {
					return err
				}
				seenHere[v.Name] = true
				continue
			}
		}
		if err := c.expr(a); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) stmts(list []typedast.Stmt) error {
	for _, s := range list {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func varRoot(e typedast.Expr) (string, bool) {
	switch e := e.(type) {
	case *typedast.Variable:
		return e.Name, true
	case *typedast.Path:
		return varRoot(e.Base)
	}
	return "", false
}

func (c *checker) stmt(s typedast.Stmt) error {
	switch s := s.(type) {
	case *typedast.LetStmt:
		if err := c.expr(s.Value); err != nil {
			return err
		}
		if s.Type.IsLinear() {
			c.declare(s.Name, Unconsumed, s.Span)
		}
		return nil
	case *typedast.DestructureStmt:
		if err := c.expr(s.Value); err != nil {
			return err
		}
		for _, b := range s.Bindings {
			if b.Type.IsLinear() {
				c.declare(b.Name, Unconsumed, s.Span)
			}
		}
		return nil
	case *typedast.AssignStmt:
		st, err := c.consumingExpr(s.Value)
		if err != nil {
			return err
		}
		if name, ok := varRoot(s.Target); ok {
			if _, tracked := c.state[name]; tracked {
				c.state[name] = st
			}
		}
		return nil
	case *typedast.IfStmt:
		return c.ifStmt(s)
	case *typedast.WhileStmt:
		return c.whileStmt(s)
	case *typedast.ForStmt:
		return c.forStmt(s)
	case *typedast.CaseStmt:
		return c.caseStmt(s)
	case *typedast.BorrowStmt:
		return c.borrowStmt(s)
	case *typedast.DiscardStmt:
		return c.expr(s.X)
	case *typedast.ReturnStmt:
		return c.expr(s.X)
	case *typedast.SkipStmt:
		return nil
	case *typedast.BlockStmt:
		c.pushScope()
		if err := c.stmts(s.Body); err != nil {
			return err
		}
		return c.popScopeCheck()
	default:
		return nil
	}
}

// consumingExpr types e as the right-hand side of an assignment: if e
// is itself a bare reference to a tracked linear local, that local is
// consumed and its contents are considered moved into the target;
// otherwise e is walked normally and the target's new contents start
// Unconsumed.
func (c *checker) consumingExpr(e typedast.Expr) (VarState, error) {
	if v, ok := e.(*typedast.Variable); ok {
		if st, tracked := c.state[v.Name]; tracked {
			if err := c.consumeName(v.Name, st, v.Span); err != nil {
				return Unconsumed, err
			}
			return Unconsumed, nil
		}
	}
	if err := c.expr(e); err != nil {
		return Unconsumed, err
	}
	return Unconsumed, nil
}

func (c *checker) ifStmt(s *typedast.IfStmt) error {
	if err := c.expr(s.Cond); err != nil {
		return err
	}
	before := cloneState(c.state)

	c.pushScope()
	if err := c.stmts(s.Then); err != nil {
		return err
	}
	if err := c.popScopeCheck(); err != nil {
		return err
	}
	afterThen := cloneState(c.state)

	c.state = cloneState(before)
	afterElse := afterThen
	if s.Else != nil {
		c.pushScope()
		if err := c.stmts(s.Else); err != nil {
			return err
		}
		if err := c.popScopeCheck(); err != nil {
			return err
		}
		afterElse = cloneState(c.state)
	} else {
		afterElse = cloneState(before)
	}

	for name := range before {
		if afterThen[name] != afterElse[name] {
			return &diagnostic.LinearityError{At: s.Span, Kind: diagnostic.BranchStateMismatch,
				Message: fmt.Sprintf("%s has different linear state across the if's branches", name)}
		}
	}
	c.state = afterThen
	return nil
}

// whileStmt and forStmt forbid any change to an outer-scope linear
// binding's state inside the loop body: the body may run zero or many
// times, so neither "consumed" nor "still borrowed" can be guaranteed
// true on exit (spec.md's LoopStateMismatch).
func (c *checker) whileStmt(s *typedast.WhileStmt) error {
	if err := c.expr(s.Cond); err != nil {
		return err
	}
	before := cloneState(c.state)
	c.pushScope()
	if err := c.stmts(s.Body); err != nil {
		return err
	}
	if err := c.popScopeCheck(); err != nil {
		return err
	}
	for name, st := range before {
		if c.state[name] != st {
			return &diagnostic.LinearityError{At: s.Span, Kind: diagnostic.LoopStateMismatch,
				Message: fmt.Sprintf("%s's linear state changes inside a while loop body", name)}
		}
	}
	return nil
}

func (c *checker) forStmt(s *typedast.ForStmt) error {
	if err := c.expr(s.From); err != nil {
		return err
	}
	if err := c.expr(s.To); err != nil {
		return err
	}
	before := cloneState(c.state)
	c.pushScope()
	if err := c.stmts(s.Body); err != nil {
		return err
	}
	if err := c.popScopeCheck(); err != nil {
		return err
	}
	for name, st := range before {
		if c.state[name] != st {
			return &diagnostic.LinearityError{At: s.Span, Kind: diagnostic.LoopStateMismatch,
				Message: fmt.Sprintf("%s's linear state changes inside a for loop body", name)}
		}
	}
	return nil
}

// caseStmt requires every when-arm to leave every outer linear binding
// in the same state, the N-ary generalization of ifStmt's branch merge.
func (c *checker) caseStmt(s *typedast.CaseStmt) error {
	if err := c.expr(s.X); err != nil {
		return err
	}
	before := cloneState(c.state)
	var merged map[string]VarState
	for i, w := range s.Whens {
		c.state = cloneState(before)
		c.pushScope()
		for _, b := range w.Bindings {
			if b.Type.IsLinear() {
				c.declare(b.Name, Unconsumed, w.Span)
			}
		}
		if err := c.stmts(w.Body); err != nil {
			return err
		}
		if err := c.popScopeCheck(); err != nil {
			return err
		}
		after := cloneState(c.state)
		if i == 0 {
			merged = after
			continue
		}
		for name := range before {
			if merged[name] != after[name] {
				return &diagnostic.LinearityError{At: w.Span, Kind: diagnostic.BranchStateMismatch,
					Message: fmt.Sprintf("%s has different linear state across case branches", name)}
			}
		}
	}
	if merged == nil {
		merged = before
	}
	c.state = merged
	return nil
}

// borrowStmt locks the origin variable for the body's duration (it may
// only be read through the new reference binding, never reconsumed or
// re-borrowed) and restores its prior state on exit.
func (c *checker) borrowStmt(s *typedast.BorrowStmt) error {
	lockState := BorrowedRead
	if s.Mode == ast.BorrowModeWrite {
		lockState = BorrowedWrite
	}

	prev, tracked := c.state[s.Orig]
	if tracked {
		switch prev {
		case Consumed:
			return &diagnostic.LinearityError{At: s.Span, Kind: diagnostic.UseAfterConsume,
				Message: fmt.Sprintf("%s was already consumed", s.Orig)}
		case BorrowedRead, BorrowedWrite:
			return &diagnostic.LinearityError{At: s.Span, Kind: diagnostic.BorrowConflict,
				Message: fmt.Sprintf("%s is already borrowed", s.Orig)}
		}
		c.state[s.Orig] = lockState
	}

	c.pushScope()
	if err := c.stmts(s.Body); err != nil {
		return err
	}
	if err := c.popScopeCheck(); err != nil {
		return err
	}
	if tracked {
		c.state[s.Orig] = prev
	}
	return nil
}

// expr walks e in "consuming" mode: every bare appearance of a tracked
// linear variable is its one permitted use. Borrow/RefPath targets are
// the sole exception (reference-taking does not consume).
func (c *checker) expr(e typedast.Expr) error {
	switch e := e.(type) {
	case nil:
		return nil
	case *typedast.Literal:
		return nil
	case *typedast.Variable:
		if st, tracked := c.state[e.Name]; tracked {
			return c.consumeName(e.Name, st, e.Span)
		}
		return nil
	case *typedast.Path:
		if err := c.expr(e.Base); err != nil {
			return err
		}
		for _, seg := range e.Segments {
			if seg.Index != nil {
				if err := c.expr(seg.Index); err != nil {
					return err
				}
			}
		}
		return nil
	case *typedast.RefPath:
		return c.nonConsuming(e.Path)
	case *typedast.Borrow:
		return c.nonConsuming(e.Target)
	case *typedast.Deref:
		return c.expr(e.X)
	case *typedast.SizeOf:
		return nil
	case *typedast.Embed:
		return c.consumeExprList(e.Args)
	case *typedast.FnCall:
		return c.consumeExprList(e.Args)
	case *typedast.BinOp:
		return c.consumeExprList([]typedast.Expr{e.Lhs, e.Rhs})
	case *typedast.UnaryOp:
		return c.expr(e.X)
	case *typedast.Conditional:
		return c.conditional(e)
	case *typedast.Cast:
		return c.expr(e.X)
	default:
		return nil
	}
}

func (c *checker) conditional(e *typedast.Conditional) error {
	if err := c.expr(e.Cond); err != nil {
		return err
	}
	before := cloneState(c.state)
	if err := c.expr(e.Then); err != nil {
		return err
	}
	afterThen := cloneState(c.state)
	c.state = cloneState(before)
	if err := c.expr(e.Else); err != nil {
		return err
	}
	afterElse := c.state
	for name := range before {
		if afterThen[name] != afterElse[name] {
			return &diagnostic.LinearityError{At: e.Span, Kind: diagnostic.BranchStateMismatch,
				Message: fmt.Sprintf("%s has different linear state across the conditional's branches", name)}
		}
	}
	c.state = afterThen
	return nil
}

// nonConsuming walks e in "read-only" mode: used for borrow targets,
// where the named variable must not already be consumed or borrowed,
// but taking the reference itself leaves its state unchanged.
func (c *checker) nonConsuming(e typedast.Expr) error {
	switch e := e.(type) {
	case *typedast.Variable:
		if st, tracked := c.state[e.Name]; tracked {
			switch st {
			case Consumed:
				return &diagnostic.LinearityError{At: e.Span, Kind: diagnostic.UseAfterConsume,
					Message: fmt.Sprintf("%s was already consumed", e.Name)}
			case BorrowedRead, BorrowedWrite:
				return &diagnostic.LinearityError{At: e.Span, Kind: diagnostic.BorrowConflict,
					Message: fmt.Sprintf("%s is already borrowed", e.Name)}
			}
		}
		return nil
	case *typedast.Path:
		return c.nonConsuming(e.Base)
	default:
		return c.expr(e)
	}
}
