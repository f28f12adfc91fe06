package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral-lang/auc/internal/lexer"
	"github.com/austral-lang/auc/internal/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexHelloWorld(t *testing.T) {
	src := `module body Hello is function main() : ExitCode is return 0; end;`
	toks, err := lexer.Lex("hello.aum", []byte(src))
	require.NoError(t, err)

	want := []token.Kind{
		token.KwModule, token.KwBody, token.Ident, token.KwIs,
		token.KwFunction, token.Ident, token.LParen, token.RParen,
		token.Colon, token.Ident, token.KwIs,
		token.KwReturn, token.Decimal, token.Semi,
		token.KwEnd, token.Semi, token.EOF,
	}
	assert.Equal(t, want, kinds(t, toks))
}

func TestLexOperatorLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{":=", token.Assign},
		{":", token.Colon},
		{"&!", token.AmpBang},
		{"&(", token.AmpParen},
		{"&~", token.AmpTilde},
		{"&", token.Amp},
		{"->", token.Arrow},
		{"-", token.Minus},
		{"=>", token.FatArrow},
		{"=", token.Eq},
		{"/=", token.NotEq},
		{"/", token.Slash},
		{"<=", token.LtEq},
		{"<", token.Lt},
		{">=", token.GtEq},
		{">", token.Gt},
	}
	for _, c := range cases {
		toks, err := lexer.Lex("t.aum", []byte(c.src))
		require.NoError(t, err, c.src)
		require.Len(t, toks, 2, c.src) // operator + EOF
		assert.Equal(t, c.kind, toks[0].Kind, c.src)
	}
}

func TestLexSpanVsSpanBang(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte("Span Span!"))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.SpanKw, token.SpanBang, token.EOF}, kinds(t, toks))
}

func TestLexUniverseNamesReserved(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte("Free Linear Type Region"))
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.KwFree, token.KwLinear, token.KwType_, token.KwRegion, token.EOF}, kinds(t, toks))
}

func TestLexStringEscape(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte(`"a\"b\\c\nd"`))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Str, toks[0].Kind)
	assert.Equal(t, `a"b\c\nd`, toks[0].Text)
}

func TestLexStringNoEscapeUnchanged(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte(`"hello world"`))
	require.NoError(t, err)
	assert.Equal(t, "hello world", toks[0].Text)
}

func TestLexStringBareNewlineFails(t *testing.T) {
	_, err := lexer.Lex("t.aum", []byte("\"abc\ndef\""))
	require.Error(t, err)
	var uie *lexer.UnexpectedInputError
	assert.ErrorAs(t, err, &uie)
}

func TestLexTripleStringSpansLines(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte("\"\"\"line one\nline two\"\"\""))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.TripleStr, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Text)
}

func TestLexCharLiteral(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte(`'x' '\''`))
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, "'", toks[1].Text)
}

func TestLexDecimalAndFloat(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte("123 1.5 2.5e10 3.0E-2"))
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, token.Decimal, toks[0].Kind)
	assert.Equal(t, "123", toks[0].Text)
	assert.Equal(t, token.Float, toks[1].Kind)
	assert.Equal(t, "1.5", toks[1].Text)
	assert.Equal(t, token.Float, toks[2].Kind)
	assert.Equal(t, "2.5e10", toks[2].Text)
	assert.Equal(t, token.Float, toks[3].Kind)
	assert.Equal(t, "3.0E-2", toks[3].Text)
}

func TestLexUnexpectedInput(t *testing.T) {
	_, err := lexer.Lex("t.aum", []byte("let x := 1 # oops"))
	require.Error(t, err)
	var uie *lexer.UnexpectedInputError
	require.ErrorAs(t, err, &uie)
	assert.Equal(t, "#", uie.Text)
}

func TestLexEmbedKeyword(t *testing.T) {
	toks, err := lexer.Lex("t.aum", []byte(`@embed(Int32, "1 + 1")`))
	require.NoError(t, err)
	want := []token.Kind{
		token.KwEmbed, token.LParen, token.Ident, token.Comma,
		token.Str, token.RParen, token.EOF,
	}
	assert.Equal(t, want, kinds(t, toks))
	assert.Equal(t, "@embed", toks[0].Text)
}

func TestLexAtOtherThanEmbedFails(t *testing.T) {
	_, err := lexer.Lex("t.aum", []byte("@something"))
	require.Error(t, err)
	var uie *lexer.UnexpectedInputError
	require.ErrorAs(t, err, &uie)
	assert.Equal(t, "@", uie.Text)
}

func TestLexDeterministic(t *testing.T) {
	src := []byte(`function f(x : Int32) : Int32 is return x; end;`)
	a, err := lexer.Lex("t.aum", src)
	require.NoError(t, err)
	b, err := lexer.Lex("t.aum", src)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
