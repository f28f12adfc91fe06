// Package parser implements a recursive-descent parser over
// internal/lexer's token stream, producing an internal/ast.Module.
//
// The source repository's parser is built from cached combinator cells
// holding weak references (see spec.md §9); that's an artifact of the
// Rust parser-combinator library it's built on, not a requirement. Here
// each grammar production is a plain method on *Parser — easier to read,
// easier to extend, and just as capable of handling the mutual recursion
// between expressions, statements, and type specs.
package parser

import (
	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// ParseModule parses a single module (declaration or body) from a token
// slice, per the exported API of spec.md §6.
func ParseModule(toks []token.Token) (*ast.Module, error) {
	p := &Parser{toks: toks}
	m, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.EOF {
		return nil, p.errorf(token.EOF)
	}
	return m, nil
}

// Parser holds parse state: the token slice and a cursor. It never
// backtracks across already-consumed tokens — every production either
// commits or reports a diagnostic.ParseError at the first mismatch.
type Parser struct {
	toks []token.Token
	pos  int
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(expected ...token.Kind) error {
	return &diagnostic.ParseError{
		At:       p.cur().Span,
		Expected: expected,
		Got:      p.cur().Kind,
	}
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.errorf(k)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	if !p.at(token.Ident) {
		return token.Token{}, p.errorf(token.Ident)
	}
	return p.advance(), nil
}

// ---------------------------------------------------------------------
// Module
// ---------------------------------------------------------------------

func (p *Parser) parseModule() (*ast.Module, error) {
	start := p.cur().Span
	doc := p.maybeDocstring()

	var imports []*ast.Import
	for p.at(token.KwImport) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	if _, err := p.expect(token.KwModule); err != nil {
		return nil, err
	}
	isBody := false
	if p.at(token.KwBody) {
		isBody = true
		p.advance()
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}

	var items []ast.Item
	for !p.at(token.EOF) {
		item, err := p.parseItem(isBody)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &ast.Module{
		Span:      span.Merge(start, p.cur().Span),
		Docstring: doc,
		Imports:   imports,
		Name:      name.Text,
		IsBody:    isBody,
		Items:     items,
	}, nil
}

// maybeDocstring consumes a leading triple-quoted string as a docstring,
// if present. Austral attaches docstrings this way to the module and to
// every item; the parser does not otherwise treat string literals at
// statement position specially.
func (p *Parser) maybeDocstring() string {
	if p.at(token.TripleStr) {
		return p.advance().Text
	}
	return ""
}

func (p *Parser) parseImport() (*ast.Import, error) {
	start := p.cur().Span
	p.advance() // "import"
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	path := []string{first.Text}
	for p.at(token.Period) {
		p.advance()
		seg, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Text)
	}

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var syms []ast.ImportedSymbol
	if !p.at(token.RParen) {
		for {
			sym, err := p.parseImportedSymbol()
			if err != nil {
				return nil, err
			}
			syms = append(syms, sym)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.Import{Span: span.Merge(start, p.cur().Span), Path: path, Symbols: syms}, nil
}

func (p *Parser) parseImportedSymbol() (ast.ImportedSymbol, error) {
	start := p.cur().Span
	name, err := p.expectIdent()
	if err != nil {
		return ast.ImportedSymbol{}, err
	}
	rename := ""
	if p.at(token.KwAs) {
		p.advance()
		r, err := p.expectIdent()
		if err != nil {
			return ast.ImportedSymbol{}, err
		}
		rename = r.Text
	}
	return ast.ImportedSymbol{Span: span.Merge(start, p.cur().Span), Name: name.Text, RenameAs: rename}, nil
}

// ---------------------------------------------------------------------
// Pragmas
// ---------------------------------------------------------------------

func (p *Parser) parsePragmas() ([]*ast.Pragma, error) {
	var out []*ast.Pragma
	for p.at(token.KwPragma) {
		start := p.cur().Span
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		pr := &ast.Pragma{Name: name.Text}
		if p.at(token.LParen) {
			p.advance()
			if !p.at(token.RParen) {
				named, positional, err := p.parsePragmaArgs()
				if err != nil {
					return nil, err
				}
				pr.NamedArgs = named
				pr.Args = positional
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		pr.Span = span.Merge(start, p.cur().Span)
		out = append(out, pr)
	}
	return out, nil
}

func (p *Parser) parsePragmaArgs() ([]ast.PragmaArg, []ast.Expr, error) {
	var named []ast.PragmaArg
	var positional []ast.Expr
	isNamed := p.at(token.Ident) && p.peekN(1).Kind == token.FatArrow
	for {
		if isNamed {
			start := p.cur().Span
			name, err := p.expectIdent()
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.expect(token.FatArrow); err != nil {
				return nil, nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			named = append(named, ast.PragmaArg{Span: span.Merge(start, val.NodeSpan()), Name: name.Text, Val: val})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, val)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return named, positional, nil
}

// ---------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------

func (p *Parser) parseUniverse() (ast.Universe, error) {
	switch p.cur().Kind {
	case token.KwFree:
		p.advance()
		return ast.UniverseFree, nil
	case token.KwLinear:
		p.advance()
		return ast.UniverseLinear, nil
	case token.KwType_:
		p.advance()
		return ast.UniverseType, nil
	case token.KwRegion:
		p.advance()
		return ast.UniverseRegion, nil
	default:
		return 0, p.errorf(token.KwFree, token.KwLinear, token.KwType_, token.KwRegion)
	}
}

func (p *Parser) parseTypeParams() ([]*ast.TypeParam, error) {
	if !p.at(token.LBracket) {
		return nil, nil
	}
	p.advance()
	var params []*ast.TypeParam
	for !p.at(token.RBracket) {
		tp, err := p.parseTypeParam()
		if err != nil {
			return nil, err
		}
		params = append(params, tp)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseTypeParam() (*ast.TypeParam, error) {
	start := p.cur().Span
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	u, err := p.parseUniverse()
	if err != nil {
		return nil, err
	}
	var constraints []string
	if p.at(token.Colon) {
		p.advance()
		for {
			c, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			constraints = append(constraints, c.Text)
			if !p.at(token.Plus) {
				break
			}
			p.advance()
		}
	}
	return &ast.TypeParam{Span: span.Merge(start, p.cur().Span), Name: name.Text, Universe: u, Constraints: constraints}, nil
}

func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.at(token.RParen) {
		start := p.cur().Span
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Span: span.Merge(start, ty.NodeSpan()), Name: name.Text, Type: ty})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseItem parses one item. isBody selects whether full definitions
// (with bodies/values/methods) are expected, per spec.md §3's AST
// section ("Items in a body additionally admit full definitions").
func (p *Parser) parseItem(isBody bool) (ast.Item, error) {
	start := p.cur().Span
	doc := p.maybeDocstring()
	pragmas, err := p.parsePragmas()
	if err != nil {
		return nil, err
	}

	switch p.cur().Kind {
	case token.KwConstant:
		return p.parseConstItem(start, doc, pragmas, isBody)
	case token.KwGeneric, token.KwFunction:
		return p.parseFunctionItem(start, doc, pragmas, isBody)
	case token.KwRecord:
		return p.parseRecordItem(start, doc, pragmas)
	case token.KwUnion:
		return p.parseUnionItem(start, doc, pragmas)
	case token.KwType:
		return p.parseTypeItem(start, doc, pragmas)
	case token.KwTypeclass:
		return p.parseTypeclassItem(start, doc, pragmas, isBody)
	case token.KwInstance:
		return p.parseInstanceItem(start, doc, pragmas, isBody)
	default:
		return nil, p.errorf(token.KwConstant, token.KwFunction, token.KwRecord,
			token.KwUnion, token.KwType, token.KwTypeclass, token.KwInstance)
	}
}

func (p *Parser) parseConstItem(start span.Span, doc string, pragmas []*ast.Pragma, isBody bool) (ast.Item, error) {
	p.advance() // "constant"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	ty, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	d := &ast.ConstDecl{Docstring: doc, Pragmas: pragmas, Name: name.Text, Type: ty}
	if isBody {
		if _, err := p.expect(token.Assign); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Value = val
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	d.Span = span.Merge(start, p.cur().Span)
	return d, nil
}

func (p *Parser) parseFunctionItem(start span.Span, doc string, pragmas []*ast.Pragma, isBody bool) (ast.Item, error) {
	fn, err := p.parseFunctionDecl(doc, pragmas, isBody)
	if err != nil {
		return nil, err
	}
	fn.Span = span.Merge(start, p.cur().Span)
	return fn, nil
}

// parseFunctionDecl parses "(generic [...])? function name(params): ty"
// and, when withBody is true, the "is stmt* end;" suffix.
func (p *Parser) parseFunctionDecl(doc string, pragmas []*ast.Pragma, withBody bool) (*ast.FunctionDecl, error) {
	var typeParams []*ast.TypeParam
	if p.at(token.KwGeneric) {
		p.advance()
		tp, err := p.parseTypeParams()
		if err != nil {
			return nil, err
		}
		typeParams = tp
	}
	if _, err := p.expect(token.KwFunction); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	retTy, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDecl{
		Docstring:  doc,
		Pragmas:    pragmas,
		TypeParams: typeParams,
		Name:       name.Text,
		Params:     params,
		ReturnType: retTy,
	}
	if withBody {
		if _, err := p.expect(token.KwIs); err != nil {
			return nil, err
		}
		body, err := p.parseStmtsUntilEnd()
		if err != nil {
			return nil, err
		}
		fn.Body = body
		if _, err := p.expect(token.KwEnd); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func (p *Parser) parseSlots() ([]*ast.Slot, error) {
	var slots []*ast.Slot
	for p.at(token.Ident) {
		start := p.cur().Span
		name := p.advance()
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		slots = append(slots, &ast.Slot{Span: span.Merge(start, p.cur().Span), Name: name.Text, Type: ty})
	}
	return slots, nil
}

func (p *Parser) parseRecordItem(start span.Span, doc string, pragmas []*ast.Pragma) (ast.Item, error) {
	p.advance() // "record"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	u, err := p.parseUniverse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	slots, err := p.parseSlots()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.RecordDecl{
		Span: span.Merge(start, p.cur().Span), Docstring: doc, Pragmas: pragmas,
		Name: name.Text, TypeParams: typeParams, Universe: u, Slots: slots,
	}, nil
}

func (p *Parser) parseTypeItem(start span.Span, doc string, pragmas []*ast.Pragma) (ast.Item, error) {
	p.advance() // "type"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	u := ast.UniverseFree
	if p.at(token.Colon) {
		p.advance()
		u, err = p.parseUniverse()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.TypeDecl{
		Span: span.Merge(start, p.cur().Span), Docstring: doc, Pragmas: pragmas,
		Name: name.Text, TypeParams: typeParams, Universe: u,
	}, nil
}

func (p *Parser) parseUnionItem(start span.Span, doc string, pragmas []*ast.Pragma) (ast.Item, error) {
	p.advance() // "union"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	// Unions carry no explicit universe keyword in the grammar (unlike
	// records): the resolver infers it from the cases' slot types.
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	var cases []*ast.UnionCase
	for p.at(token.KwCase) {
		cstart := p.cur().Span
		p.advance()
		cname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var slots []*ast.Slot
		if p.at(token.KwIs) {
			p.advance()
			slots, err = p.parseSlots()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		cases = append(cases, &ast.UnionCase{Span: span.Merge(cstart, p.cur().Span), Name: cname.Text, Slots: slots})
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.UnionDecl{
		Span: span.Merge(start, p.cur().Span), Docstring: doc, Pragmas: pragmas,
		Name: name.Text, TypeParams: typeParams, Cases: cases,
	}, nil
}

func (p *Parser) parseTypeclassItem(start span.Span, doc string, pragmas []*ast.Pragma, isBody bool) (ast.Item, error) {
	p.advance() // "typeclass"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	param, err := p.parseTypeParam()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionDecl
	for p.at(token.KwMethod) {
		p.advance()
		m, err := p.parseMethodSig(isBody)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.TypeclassDecl{
		Span: span.Merge(start, p.cur().Span), Docstring: doc, Pragmas: pragmas,
		Name: name.Text, Param: param, Methods: methods,
	}, nil
}

func (p *Parser) parseMethodSig(withBody bool) (*ast.FunctionDecl, error) {
	start := p.cur().Span
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	retTy, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	m := &ast.FunctionDecl{Name: name.Text, Params: params, ReturnType: retTy}
	if withBody {
		if _, err := p.expect(token.KwIs); err != nil {
			return nil, err
		}
		body, err := p.parseStmtsUntilEnd()
		if err != nil {
			return nil, err
		}
		m.Body = body
		if _, err := p.expect(token.KwEnd); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
	}
	m.Span = span.Merge(start, p.cur().Span)
	return m, nil
}

func (p *Parser) parseInstanceItem(start span.Span, doc string, pragmas []*ast.Pragma, isBody bool) (ast.Item, error) {
	p.advance() // "instance"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	arg, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIs); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionDecl
	for p.at(token.KwMethod) {
		p.advance()
		m, err := p.parseMethodSig(isBody)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.InstanceDecl{
		Span: span.Merge(start, p.cur().Span), Docstring: doc, Pragmas: pragmas,
		Typeclass: name.Text, Arg: arg, Methods: methods,
	}, nil
}
