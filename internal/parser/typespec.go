package parser

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// parseTypeSpec parses Simple(name), Generic(name, [ty]), and the four
// borrow/span reference constructors, per spec.md §3's "Type spec".
func (p *Parser) parseTypeSpec() (ast.TypeSpec, error) {
	start := p.cur().Span

	switch p.cur().Kind {
	case token.Amp, token.AmpBang:
		kind := ast.RefBorrowRead
		if p.cur().Kind == token.AmpBang {
			kind = ast.RefBorrowWrite
		}
		p.advance()
		return p.parseRefTypeTail(start, kind)
	case token.SpanKw, token.SpanBang:
		kind := ast.RefSpanRead
		if p.cur().Kind == token.SpanBang {
			kind = ast.RefSpanWrite
		}
		p.advance()
		return p.parseRefTypeTail(start, kind)
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.at(token.LBracket) {
		p.advance()
		var args []ast.TypeSpec
		for !p.at(token.RBracket) {
			arg, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		return &ast.GenericType{Span: span.Merge(start, p.cur().Span), Name: name.Text, Args: args}, nil
	}
	return &ast.SimpleType{Span: span.Merge(start, p.cur().Span), Name: name.Text}, nil
}

// parseRefTypeTail parses the "[lhs, rho]" suffix shared by "&", "&!",
// "Span" and "Span!".
func (p *Parser) parseRefTypeTail(start span.Span, kind ast.RefKind) (ast.TypeSpec, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	lhs, err := p.parseTypeSpec()
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
	return &ast.RefType{Span: span.Merge(start, p.cur().Span), Kind: kind, Lhs: lhs, Rhs: rho.Text}, nil
}
