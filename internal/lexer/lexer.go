// Package lexer turns Austral source bytes into a token stream.
//
// It is a hand-written scanner, not a regex or combinator library: the
// longest-match tie-breaks between operators (":=" before ":", "&!"
// before "&", etc.) and the line-sensitive single-quoted string rule are
// easier to express directly than to encode in a lexer-generator's
// pattern table.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/austral-lang/auc/internal/span"
	"github.com/austral-lang/auc/internal/token"
)

// UnexpectedInputError reports the first byte range the lexer could not
// turn into any token.
type UnexpectedInputError struct {
	Text string
	Span span.Span
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("%s: unexpected input %q", e.Span, e.Text)
}

// Lex is a pure function of src: same bytes in, same token slice (or
// error) out, every time.
func Lex(file string, src []byte) ([]token.Token, error) {
	l := &lexer{file: file, src: src, line: 1, col: 1}
	var toks []token.Token
	for {
		l.skipTrivia()
		if l.atEOF() {
			toks = append(toks, token.Token{Kind: token.EOF, Span: l.here()})
			return toks, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

type lexer struct {
	file string
	src  []byte
	pos  int
	line int
	col  int
}

func (l *lexer) atEOF() bool { return l.pos >= len(l.src) }

func (l *lexer) here() span.Span {
	p := span.Pos{Line: l.line, Column: l.col}
	return span.Span{File: l.file, Start: p, End: p}
}

// peekByte returns the byte at pos+n, or 0 past the end.
func (l *lexer) peekByte(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// advance consumes one byte, tracking line/column.
func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) skipTrivia() {
	for !l.atEOF() {
		b := l.src[l.pos]
		switch b {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// next scans exactly one token starting at the current position.
func (l *lexer) next() (token.Token, error) {
	start := span.Pos{Line: l.line, Column: l.col}
	b := l.src[l.pos]

	switch {
	case isIdentStart(b):
		return l.lexIdentOrKeyword(start)
	case isDigit(b):
		return l.lexNumber(start)
	case b == '\'':
		return l.lexChar(start)
	case b == '"':
		if l.peekByte(1) == '"' && l.peekByte(2) == '"' {
			return l.lexTripleString(start)
		}
		return l.lexString(start)
	case b == '@':
		return l.lexEmbed(start)
	}

	// Multi-character operators, longest-first.
	if kind, n, ok := matchOperator(l.src[l.pos:]); ok {
		for i := 0; i < n; i++ {
			l.advance()
		}
		return token.Token{Kind: kind, Span: l.spanFrom(start)}, nil
	}

	errSpan := span.Span{File: l.file, Start: start, End: start}
	r, size := utf8.DecodeRune(l.src[l.pos:])
	text := string(r)
	if size <= 0 {
		size = 1
		text = string(rune(b))
	}
	return token.Token{}, &UnexpectedInputError{Text: text, Span: errSpan}
}

func (l *lexer) spanFrom(start span.Pos) span.Span {
	end := span.Pos{Line: l.line, Column: l.col}
	return span.Span{File: l.file, Start: start, End: end}
}

// operatorTable is ordered longest-pattern-first so matchOperator never
// needs backtracking: a 3-char prefix is tried before its 2-char and
// 1-char prefixes.
var operatorTable = []struct {
	text string
	kind token.Kind
}{
	{":=", token.Assign},
	{"&!", token.AmpBang},
	{"&~", token.AmpTilde},
	{"&(", token.AmpParen},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"/=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"(", token.LParen},
	{")", token.RParen},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"=", token.Eq},
	{"<", token.Lt},
	{">", token.Gt},
	{"&", token.Amp},
	{";", token.Semi},
	{",", token.Comma},
	{".", token.Period},
	{":", token.Colon},
	{"!", token.Bang},
}

func matchOperator(rest []byte) (token.Kind, int, bool) {
	for _, op := range operatorTable {
		n := len(op.text)
		if len(rest) >= n && string(rest[:n]) == op.text {
			return op.kind, n, true
		}
	}
	return token.Invalid, 0, false
}

func (l *lexer) lexIdentOrKeyword(start span.Pos) (token.Token, error) {
	s := l.pos
	for !l.atEOF() && isIdentCont(l.src[l.pos]) {
		l.advance()
	}
	text := string(l.src[s:l.pos])

	// "Span!" is a single reserved word distinct from "Span" followed by
	// deref "!"; only recognized when adjacent (no trivia permitted).
	if text == "Span" && !l.atEOF() && l.src[l.pos] == '!' {
		l.advance()
		return token.Token{Kind: token.SpanBang, Text: "Span!", Span: l.spanFrom(start)}, nil
	}
	if text == "Span" {
		return token.Token{Kind: token.SpanKw, Text: text, Span: l.spanFrom(start)}, nil
	}

	if kind, ok := token.ReservedWords[text]; ok {
		return token.Token{Kind: kind, Text: text, Span: l.spanFrom(start)}, nil
	}
	return token.Token{Kind: token.Ident, Text: text, Span: l.spanFrom(start)}, nil
}

func (l *lexer) lexNumber(start span.Pos) (token.Token, error) {
	s := l.pos
	for !l.atEOF() && isDigit(l.src[l.pos]) {
		l.advance()
	}
	// Float: "." followed by digits, optional exponent.
	if !l.atEOF() && l.src[l.pos] == '.' && l.peekByte(1) != '.' {
		l.advance()
		for !l.atEOF() && isDigit(l.src[l.pos]) {
			l.advance()
		}
		if !l.atEOF() && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			save := l.pos
			saveLine, saveCol := l.line, l.col
			l.advance()
			if !l.atEOF() && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.advance()
			}
			if !l.atEOF() && isDigit(l.src[l.pos]) {
				for !l.atEOF() && isDigit(l.src[l.pos]) {
					l.advance()
				}
			} else {
				// Not a valid exponent; rewind.
				l.pos, l.line, l.col = save, saveLine, saveCol
			}
		}
		text := string(l.src[s:l.pos])
		return token.Token{Kind: token.Float, Text: text, Span: l.spanFrom(start)}, nil
	}
	text := string(l.src[s:l.pos])
	return token.Token{Kind: token.Decimal, Text: text, Span: l.spanFrom(start)}, nil
}

// lexEmbed matches the single reserved word "@embed"; "@" has no other
// meaning in this grammar, so any other byte after it is unexpected
// input rooted at the "@".
func (l *lexer) lexEmbed(start span.Pos) (token.Token, error) {
	const word = "@embed"
	if l.pos+len(word) <= len(l.src) && string(l.src[l.pos:l.pos+len(word)]) == word &&
		(l.pos+len(word) == len(l.src) || !isIdentCont(l.src[l.pos+len(word)])) {
		for i := 0; i < len(word); i++ {
			l.advance()
		}
		return token.Token{Kind: token.KwEmbed, Text: word, Span: l.spanFrom(start)}, nil
	}
	l.advance()
	return token.Token{}, &UnexpectedInputError{Text: "@", Span: l.spanFrom(start)}
}

func (l *lexer) lexChar(start span.Pos) (token.Token, error) {
	l.advance() // opening '
	if l.atEOF() {
		return token.Token{}, &UnexpectedInputError{Text: "'", Span: l.spanFrom(start)}
	}
	var ch byte
	if l.src[l.pos] == '\\' && l.peekByte(1) == '\'' {
		l.advance()
		ch = l.advance()
	} else {
		ch = l.advance()
	}
	if l.atEOF() || l.src[l.pos] != '\'' {
		return token.Token{}, &UnexpectedInputError{Text: "'", Span: l.spanFrom(start)}
	}
	l.advance() // closing '
	return token.Token{Kind: token.Char, Text: string(rune(ch)), Span: l.spanFrom(start)}, nil
}

func (l *lexer) lexString(start span.Pos) (token.Token, error) {
	l.advance() // opening "
	s := l.pos
	for {
		if l.atEOF() {
			return token.Token{}, &UnexpectedInputError{Text: "\"", Span: l.spanFrom(start)}
		}
		b := l.src[l.pos]
		if b == '\n' {
			return token.Token{}, &UnexpectedInputError{Text: "\n", Span: l.spanFrom(start)}
		}
		if b == '\\' && (l.peekByte(1) == '"' || l.peekByte(1) == '\\') {
			l.advance()
			l.advance()
			continue
		}
		if b == '"' {
			break
		}
		l.advance()
	}
	raw := string(l.src[s:l.pos])
	l.advance() // closing "
	return token.Token{Kind: token.Str, Text: unescape(raw), Span: l.spanFrom(start)}, nil
}

func (l *lexer) lexTripleString(start span.Pos) (token.Token, error) {
	l.advance()
	l.advance()
	l.advance() // opening """
	s := l.pos
	for {
		if l.atEOF() {
			return token.Token{}, &UnexpectedInputError{Text: "\"\"\"", Span: l.spanFrom(start)}
		}
		b := l.src[l.pos]
		if b == '\\' && (l.peekByte(1) == '"' || l.peekByte(1) == '\\') {
			l.advance()
			l.advance()
			continue
		}
		if b == '"' && l.peekByte(1) == '"' && l.peekByte(2) == '"' {
			break
		}
		l.advance()
	}
	raw := string(l.src[s:l.pos])
	l.advance()
	l.advance()
	l.advance() // closing """
	return token.Token{Kind: token.TripleStr, Text: unescape(raw), Span: l.spanFrom(start)}, nil
}

// unescape rewrites "\\" -> "\" and "\"" -> """; any other backslash
// sequence is preserved verbatim including the backslash. Returns the
// input unchanged (no allocation beyond the slice-to-string conversion
// the caller already paid for) when there is nothing to unescape.
func unescape(raw string) string {
	if !strings.Contains(raw, "\\") {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}
