package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral-lang/auc/internal/ast"
	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/lexer"
	"github.com/austral-lang/auc/internal/parser"
	"github.com/austral-lang/auc/internal/token"
)

func parseSrc(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, err := lexer.Lex("test.aum", []byte(src))
	require.NoError(t, err)
	mod, err := parser.ParseModule(toks)
	require.NoError(t, err)
	return mod
}

func TestParseModuleBodyRejectsTrailingEnd(t *testing.T) {
	src := `module body Hello is
    function main(): ExitCode is
        return 0;
    end;
end;
`
	toks, err := lexer.Lex("hello.aum", []byte(src))
	require.NoError(t, err)
	_, err = parser.ParseModule(toks)
	require.Error(t, err, "a module-level end; is not a valid item start")
}

func TestParseFunctionRequiresEndBeforeSemi(t *testing.T) {
	mod := parseSrc(t, `module body M is
    function f(x: Int32): Int32 is
        return x;
    end;
`)
	require.Len(t, mod.Items, 1)
	fn, ok := mod.Items[0].(*ast.FunctionDecl)
	require.True(t, ok, "expected *ast.FunctionDecl, got %T", mod.Items[0])
	assert.Equal(t, "f", fn.Name)
	assert.Len(t, fn.Body, 1)
}

func TestParseRecordDecl(t *testing.T) {
	mod := parseSrc(t, `module body M is
    record Handle: Linear is
        fd: Int32;
    end;
`)
	require.Len(t, mod.Items, 1)
	rec, ok := mod.Items[0].(*ast.RecordDecl)
	require.True(t, ok, "expected *ast.RecordDecl, got %T", mod.Items[0])
	assert.Equal(t, "Handle", rec.Name)
	require.Len(t, rec.Slots, 1)
	assert.Equal(t, "fd", rec.Slots[0].Name)
}

func TestParseConstInterfaceHasNoValue(t *testing.T) {
	mod := parseSrc(t, `module Counter is
    constant Limit: Int32;
`)
	require.Len(t, mod.Items, 1)
	c, ok := mod.Items[0].(*ast.ConstDecl)
	require.True(t, ok, "expected *ast.ConstDecl, got %T", mod.Items[0])
	assert.Equal(t, "Limit", c.Name)
	assert.Nil(t, c.Value)
	assert.False(t, mod.IsBody)
}

func TestParseIfStmtRequiresIsAndEndIf(t *testing.T) {
	_, err := parser.ParseModule(mustLex(t, `module body M is
    function f(flag: Bool): Int32 is
        if flag then
            return 1;
        end if;
    end;
`))
	require.Error(t, err, "then without is should be rejected")
}

func TestParseEmbedExpr(t *testing.T) {
	mod := parseSrc(t, `module body M is
    function raw(): Int32 is
        return @embed(Int32, "1 + 1");
    end;
`)
	require.Len(t, mod.Items, 1)
	fn, ok := mod.Items[0].(*ast.FunctionDecl)
	require.True(t, ok, "expected *ast.FunctionDecl, got %T", mod.Items[0])
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok, "expected *ast.ReturnStmt, got %T", fn.Body[0])
	embed, ok := ret.X.(*ast.Embed)
	require.True(t, ok, "expected *ast.Embed, got %T", ret.X)
	assert.Equal(t, "1 + 1", embed.Code)
}

func TestParseMixedArgumentStyleRejected(t *testing.T) {
	_, err := parser.ParseModule(mustLex(t, `module body M is
    function f(x: Int32, y: Int32, z: Int32): Int32 is
        return f(x => 1, 2, 3);
    end;
end;
`))
	require.Error(t, err)
	terr, ok := err.(*diagnostic.TypeError)
	require.True(t, ok, "expected *diagnostic.TypeError, got %T", err)
	assert.Equal(t, diagnostic.MixedArgumentStyle, terr.Kind)
}

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Lex("test.aum", []byte(src))
	require.NoError(t, err)
	return toks
}
