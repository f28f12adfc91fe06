package parser

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// atStmtTerminator reports whether the current token closes a statement list:
// every statement block is parsed by parseStmtsUntilEnd and its caller
// decides which of these applies to its own closing production.
func (p *Parser) atStmtTerminator() bool {
	switch p.cur().Kind {
	case token.KwEnd, token.KwElse, token.KwWhen, token.EOF:
		return true
	}
	return false
}

// parseStmtsUntilEnd parses a statement sequence up to (but not
// consuming) the first terminator keyword. Every individual statement
// parser consumes its own trailing ";".
func (p *Parser) parseStmtsUntilEnd() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.atStmtTerminator() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwLet:
		return p.parseLetOrDestructure(start, false)
	case token.KwVar:
		return p.parseLetOrDestructure(start, true)
	case token.KwIf:
		return p.parseIfStmt(start)
	case token.KwWhile:
		return p.parseWhileStmt(start)
	case token.KwFor:
		return p.parseForStmt(start)
	case token.KwCase:
		return p.parseCaseStmt(start)
	case token.KwBorrow:
		return p.parseBorrowStmt(start)
	case token.KwReturn:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Span: span.Merge(start, p.cur().Span), X: x}, nil
	case token.KwSkip:
		p.advance()
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return &ast.SkipStmt{Span: span.Merge(start, p.cur().Span)}, nil
	case token.LBrace:
		return p.parseBlockStmt(start)
	default:
		return p.parseAssignOrDiscard(start)
	}
}

// parseLetOrDestructure disambiguates "let x ..." from "let { a, b } :=
// e;" destructuring, both introduced by the same keyword (spec.md §4.P's
// "let vs destructure" tie-break: the presence of "{" immediately after
// the keyword selects destructuring).
func (p *Parser) parseLetOrDestructure(start span.Span, mutable bool) (ast.Stmt, error) {
	p.advance() // "let" | "var"
	if p.at(token.LBrace) {
		return p.parseDestructureStmt(start)
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var ty ast.TypeSpec
	if p.at(token.Colon) {
		p.advance()
		ty, err = p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Span: span.Merge(start, p.cur().Span), Mutable: mutable, Name: name.Text, Type: ty, Value: val}, nil
}

func (p *Parser) parseDestructureStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "{"
	var bindings []*ast.DestructureBinding
	for !p.at(token.RBrace) {
		bstart := p.cur().Span
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		rename := ""
		if p.at(token.KwAs) {
			p.advance()
			r, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			rename = r.Text
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, &ast.DestructureBinding{
			Span: span.Merge(bstart, ty.NodeSpan()), Name: name.Text, RenameAs: rename, Type: ty,
		})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.DestructureStmt{Span: span.Merge(start, p.cur().Span), Bindings: bindings, Value: val}, nil
}

func (p *Parser) parseIfStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwThen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	then, err := p.parseStmtsUntilEnd()
	if err != nil {
		return nil, err
	}
	var els []ast.Stmt
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIs) {
			p.advance()
			els, err = p.parseStmtsUntilEnd()
			if err != nil {
				return nil, err
			}
		} else {
			// "else if ... end if;" — a chained else-if reparses as a
			// single nested if statement and becomes the sole else body.
			nested, err := p.parseIfStmt(p.cur().Span)
			if err != nil {
				return nil, err
			}
			els = []ast.Stmt{nested}
			if _, err := p.expect(token.KwEnd); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.KwIf); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Semi); err != nil {
				return nil, err
			}
			return &ast.IfStmt{Span: span.Merge(start, p.cur().Span), Cond: cond, Then: then, Else: els}, nil
		}
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIf); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.IfStmt{Span: span.Merge(start, p.cur().Span), Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhileStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "while"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	body, err := p.parseStmtsUntilEnd()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Span: span.Merge(start, p.cur().Span), Cond: cond, Body: body}, nil
}

func (p *Parser) parseForStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "for"
	v, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwFrom); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwTo); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	body, err := p.parseStmtsUntilEnd()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwFor); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.ForStmt{Span: span.Merge(start, p.cur().Span), Var: v.Text, From: from, To: to, Body: body}, nil
}

func (p *Parser) parseCaseStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "case"
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwOf); err != nil {
		return nil, err
	}
	var whens []*ast.CaseWhen
	for p.at(token.KwWhen) {
		wstart := p.cur().Span
		p.advance()
		cname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var bindings []*ast.CaseBinding
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) {
				bstart := p.cur().Span
				bname, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				rename := ""
				if p.at(token.KwAs) {
					p.advance()
					r, err := p.expectIdent()
					if err != nil {
						return nil, err
					}
					rename = r.Text
				}
				bindings = append(bindings, &ast.CaseBinding{Span: span.Merge(bstart, p.cur().Span), Name: bname.Text, RenameAs: rename})
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.KwDo); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwIs); err != nil {
			return nil, err
		}
		body, err := p.parseStmtsUntilEnd()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwEnd); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		whens = append(whens, &ast.CaseWhen{
			Span: span.Merge(wstart, p.cur().Span), CaseName: cname.Text, Bindings: bindings, Body: body,
		})
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwCase); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.CaseStmt{Span: span.Merge(start, p.cur().Span), X: x, Whens: whens}, nil
}

// parseBorrowStmt parses "borrow y [: &[τ,ρ] | &![τ,ρ]] := mode' x do is
// ... end borrow;", where mode' is one of &, &!, &~ applied to the
// origin variable x.
func (p *Parser) parseBorrowStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "borrow"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	refMutable := false
	var ty ast.TypeSpec
	region := ""
	if p.at(token.Colon) {
		p.advance()
		tyStart := p.cur().Span
		switch p.cur().Kind {
		case token.Amp:
			p.advance()
		case token.AmpBang:
			refMutable = true
			p.advance()
		default:
			return nil, p.errorf(token.Amp, token.AmpBang)
		}
		if _, err := p.expect(token.LBracket); err != nil {
			return nil, err
		}
		elemTy, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
		rho, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		ty = elemTy
		region = rho.Text
		_ = tyStart
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	mode := ast.BorrowModeRead
	switch p.cur().Kind {
	case token.Amp:
		p.advance()
	case token.AmpBang:
		mode = ast.BorrowModeWrite
		p.advance()
	case token.AmpTilde:
		mode = ast.BorrowModeReBorrow
		p.advance()
	default:
		return nil, p.errorf(token.Amp, token.AmpBang, token.AmpTilde)
	}
	orig, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	body, err := p.parseStmtsUntilEnd()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwBorrow); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.BorrowStmt{
		Span: span.Merge(start, p.cur().Span), Name: name.Text, RefMutable: refMutable,
		Type: ty, Region: region, Mode: mode, Orig: orig.Text, Body: body,
	}, nil
}

func (p *Parser) parseBlockStmt(start span.Span) (ast.Stmt, error) {
	p.advance() // "{"
	body, err := p.parseStmtsUntilEndBrace()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Span: span.Merge(start, p.cur().Span), Body: body}, nil
}

func (p *Parser) parseStmtsUntilEndBrace() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.at(token.RBrace) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// parseAssignOrDiscard disambiguates "path := expr;" from a bare
// expression statement: both start with an expression, and the
// tie-break is the presence of ":=" immediately after it.
func (p *Parser) parseAssignOrDiscard(start span.Span) (ast.Stmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.Assign) {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Span: span.Merge(start, p.cur().Span), Target: x, Value: val}, nil
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.DiscardStmt{Span: span.Merge(start, p.cur().Span), X: x}, nil
}
