package parser

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// parseExpr is the entry point for the full expression grammar: logic is
// the loosest layer, arithmetic/comparison nest inside it, and Atomic
// (with postfix cast) is the common leaf, per spec.md §4.P's precedence
// note.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseConditional()
}

func (p *Parser) parseConditional() (ast.Expr, error) {
	if p.at(token.KwIf) {
		start := p.cur().Span
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwThen); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwElse); err != nil {
			return nil, err
		}
		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Span: span.Merge(start, els.NodeSpan()), Cond: cond, Then: then, Else: els}, nil
	}
	return p.parseLogic()
}

func (p *Parser) parseLogic() (ast.Expr, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.KwAnd) || p.at(token.KwOr) {
		op := ast.OpAnd
		if p.cur().Kind == token.KwOr {
			op = ast.OpOr
		}
		p.advance()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Span: span.Merge(lhs.NodeSpan(), rhs.NodeSpan()), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

var cmpOps = map[token.Kind]ast.BinOpKind{
	token.Eq:    ast.OpEq,
	token.NotEq: ast.OpNotEq,
	token.Lt:    ast.OpLt,
	token.LtEq:  ast.OpLtEq,
	token.Gt:    ast.OpGt,
	token.GtEq:  ast.OpGtEq,
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	lhs, err := p.parseArithmetic()
	if err != nil {
		return nil, err
	}
	if op, ok := cmpOps[p.cur().Kind]; ok {
		p.advance()
		rhs, err := p.parseArithmetic()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Span: span.Merge(lhs.NodeSpan(), rhs.NodeSpan()), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseArithmetic() (ast.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		op := ast.OpAdd
		if p.cur().Kind == token.Minus {
			op = ast.OpSub
		}
		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Span: span.Merge(lhs.NodeSpan(), rhs.NodeSpan()), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) {
		op := ast.OpMul
		if p.cur().Kind == token.Slash {
			op = ast.OpDiv
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Span: span.Merge(lhs.NodeSpan(), rhs.NodeSpan()), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

// parseUnary handles "not e" and unary "-e", which spec.md §4.P places
// under the logic and arithmetic layers respectively.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.at(token.KwNot) {
		start := p.cur().Span
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Span: span.Merge(start, x.NodeSpan()), Op: ast.OpNot, X: x}, nil
	}
	if p.at(token.Minus) {
		start := p.cur().Span
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Span: span.Merge(start, x.NodeSpan()), Op: ast.OpNeg, X: x}, nil
	}
	return p.parseCast()
}

// parseCast applies the "atomic : TypeSpec" postfix cast tie-break: a
// postfix colon-type on an atomic expression is a cast (spec.md §4.P).
func (p *Parser) parseCast() (ast.Expr, error) {
	x, err := p.parseAtomic()
	if err != nil {
		return nil, err
	}
	for p.at(token.Colon) {
		p.advance()
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		x = &ast.Cast{Span: span.Merge(x.NodeSpan(), ty.NodeSpan()), X: x, Type: ty}
	}
	return x, nil
}

// parseAtomic parses literals, paths/variables, reference forms, calls,
// parenthesized expressions, sizeof, and @embed.
func (p *Parser) parseAtomic() (ast.Expr, error) {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwNil:
		p.advance()
		return &ast.Literal{Span: start, Kind: ast.LitNil}, nil
	case token.KwTrue:
		p.advance()
		return &ast.Literal{Span: start, Kind: ast.LitTrue}, nil
	case token.KwFalse:
		p.advance()
		return &ast.Literal{Span: start, Kind: ast.LitFalse}, nil
	case token.Char:
		t := p.advance()
		return &ast.Literal{Span: t.Span, Kind: ast.LitChar, Text: t.Text}, nil
	case token.Decimal:
		t := p.advance()
		return &ast.Literal{Span: t.Span, Kind: ast.LitDecimal, Text: t.Text}, nil
	case token.Float:
		t := p.advance()
		return &ast.Literal{Span: t.Span, Kind: ast.LitFloat, Text: t.Text}, nil
	case token.Str, token.TripleStr:
		t := p.advance()
		return &ast.Literal{Span: t.Span, Kind: ast.LitString, Text: t.Text}, nil
	case token.LParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		return &ast.Paren{Span: span.Merge(start, end.Span), X: x}, nil
	case token.KwSizeof:
		p.advance()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		return &ast.SizeOf{Span: span.Merge(start, end.Span), Type: ty}, nil
	case token.KwEmbed:
		return p.parseEmbed(start)
	case token.Bang:
		p.advance()
		x, err := p.parseAtomic()
		if err != nil {
			return nil, err
		}
		return &ast.Deref{Span: span.Merge(start, x.NodeSpan()), X: x}, nil
	case token.AmpParen:
		p.advance()
		pathExpr, err := p.parsePathExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		return &ast.RefPath{Span: span.Merge(start, end.Span), Path: pathExpr}, nil
	case token.Amp, token.AmpBang, token.AmpTilde:
		kind := ast.BorrowRead
		switch p.cur().Kind {
		case token.AmpBang:
			kind = ast.BorrowWrite
		case token.AmpTilde:
			kind = ast.ReBorrow
		}
		p.advance()
		target, err := p.parseAtomic()
		if err != nil {
			return nil, err
		}
		return &ast.Borrow{Span: span.Merge(start, target.NodeSpan()), Kind: kind, Target: target}, nil
	case token.Ident:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf(token.Ident, token.Decimal, token.Str, token.LParen)
	}
}

func (p *Parser) parseEmbed(start span.Span) (ast.Expr, error) {
	p.advance() // "@embed"
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	ty, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Comma); err != nil {
		return nil, err
	}
	code, err := p.expect(token.Str)
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.at(token.Comma) {
		p.advance()
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.Embed{Span: span.Merge(start, end.Span), Type: ty, Code: code.Text, Args: args}, nil
}

// parseIdentExpr disambiguates Path vs Variable vs FnCall starting from a
// leading identifier, per spec.md §4.P's "path vs variable" tie-break: an
// identifier followed by at least one path segment is a Path; an
// identifier followed by "(" is a call; otherwise a bare Variable.
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	start := p.cur().Span
	name := p.advance().Text

	if p.at(token.LParen) {
		return p.parseFnCallTail(start, name)
	}

	var segs []*ast.PathSegment
	for {
		switch p.cur().Kind {
		case token.Period:
			segStart := p.cur().Span
			p.advance()
			f, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, f.Span), Kind: ast.SegField, Field: f.Text})
			continue
		case token.Arrow:
			segStart := p.cur().Span
			p.advance()
			f, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, f.Span), Kind: ast.SegArrow, Field: f.Text})
			continue
		case token.LBracket:
			segStart := p.cur().Span
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, end.Span), Kind: ast.SegIndex, Index: idx})
			continue
		}
		break
	}

	if len(segs) == 0 {
		return &ast.Variable{Span: start, Name: name}, nil
	}
	end := segs[len(segs)-1].Span
	return &ast.Path{Span: span.Merge(start, end), Head: name, Segments: segs}, nil
}

// parsePathExpr parses a Path for use inside "&( ... )"; a bare
// identifier with no segments is still accepted (a degenerate path).
func (p *Parser) parsePathExpr() (*ast.Path, error) {
	start := p.cur().Span
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var segs []*ast.PathSegment
	for {
		switch p.cur().Kind {
		case token.Period:
			segStart := p.cur().Span
			p.advance()
			f, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, f.Span), Kind: ast.SegField, Field: f.Text})
			continue
		case token.Arrow:
			segStart := p.cur().Span
			p.advance()
			f, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, f.Span), Kind: ast.SegArrow, Field: f.Text})
			continue
		case token.LBracket:
			segStart := p.cur().Span
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			segs = append(segs, &ast.PathSegment{Span: span.Merge(segStart, end.Span), Kind: ast.SegIndex, Index: idx})
			continue
		}
		break
	}
	end := name.Span
	if len(segs) > 0 {
		end = segs[len(segs)-1].Span
	}
	return &ast.Path{Span: span.Merge(start, end), Head: name.Text, Segments: segs}, nil
}

// parseFnCallTail parses "(" args ")" after an identifier callee,
// enforcing the named-vs-positional exclusivity of spec.md §3/§4.P.
func (p *Parser) parseFnCallTail(start span.Span, callee string) (ast.Expr, error) {
	p.advance() // "("
	args := ast.FnCallArgs{Kind: ast.ArgsEmpty}
	if !p.at(token.RParen) {
		isNamed := p.at(token.Ident) && p.peekN(1).Kind == token.FatArrow
		if isNamed {
			var named []*ast.NamedArg
			for {
				argStart := p.cur().Span
				name, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.FatArrow); err != nil {
					return nil, err
				}
				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				named = append(named, &ast.NamedArg{Span: span.Merge(argStart, val.NodeSpan()), Name: name.Text, Val: val})
				if !p.at(token.Comma) {
					break
				}
				p.advance()
				// Mixed-style check: a comma after a named arg must be
				// followed by another named arg, never a bare positional
				// one. Caught here rather than in the resolver because the
				// parser never lets a FnCallArgs hold both kinds at once,
				// so this is the only place the mix is ever observed.
				if !(p.at(token.Ident) && p.peekN(1).Kind == token.FatArrow) {
					return nil, &diagnostic.TypeError{
						At:     p.cur().Span,
						Kind:   diagnostic.MixedArgumentStyle,
						Detail: "named argument list cannot mix in a positional argument",
					}
				}
			}
			args.Kind = ast.ArgsNamed
			args.Named = named
		} else {
			var positional []ast.Expr
			for {
				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				positional = append(positional, val)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			args.Kind = ast.ArgsPositional
			args.Positional = positional
		}
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.FnCall{Span: span.Merge(start, end.Span), Callee: callee, Args: args}, nil
}
