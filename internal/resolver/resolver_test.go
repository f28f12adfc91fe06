package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/lexer"
	"github.com/austral-lang/auc/internal/parser"
	"github.com/austral-lang/auc/internal/resolver"
)

func typeCheckSrc(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Lex("test.aum", []byte(src))
	require.NoError(t, err)
	mod, err := parser.ParseModule(toks)
	require.NoError(t, err)
	_, err = resolver.TypeCheck(mod, nil)
	return err
}

func TestTypeCheckAcceptsSimpleFunction(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    function add(x: Int32, y: Int32): Int32 is
        return x + y;
    end;
`)
	assert.NoError(t, err)
}

func TestTypeCheckRecordConstructorImplicit(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    record Point: Free is
        x: Int32;
        y: Int32;
    end;

    function origin(): Point is
        return Point(0, 0);
    end;
`)
	assert.NoError(t, err)
}

func TestTypeCheckEmbedExpr(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    function raw(): Int32 is
        return @embed(Int32, "1 + 1");
    end;
`)
	assert.NoError(t, err)
}

func TestTypeCheckNamedArgumentUndercountRejected(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    function f(x: Int32, y: Int32): Int32 is
        return x + y;
    end;

    function use(): Int32 is
        return f(x => 1);
    end;
`)
	require.Error(t, err)
	terr, ok := err.(*diagnostic.TypeError)
	require.True(t, ok, "expected *diagnostic.TypeError, got %T", err)
	assert.Equal(t, diagnostic.ArityMismatch, terr.Kind)
}

func TestTypeCheckUndefinedFunctionRejected(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    function f(): Int32 is
        return g();
    end;
`)
	require.Error(t, err)
	terr, ok := err.(*diagnostic.TypeError)
	require.True(t, ok, "expected *diagnostic.TypeError, got %T", err)
	assert.Equal(t, diagnostic.UndefinedSymbol, terr.Kind)
}

func TestTypeCheckMissingInstanceRejected(t *testing.T) {
	err := typeCheckSrc(t, `module body M is
    typeclass Printable[T: Type] is
        method show(x: T): Unit is
            skip;
        end;
    end;

    record Widget: Free is
        id: Int32;
    end;

    function use(w: Widget): Unit is
        return show(w);
    end;
`)
	require.Error(t, err)
	terr, ok := err.(*diagnostic.TypeError)
	require.True(t, ok, "expected *diagnostic.TypeError, got %T", err)
	assert.Equal(t, diagnostic.MissingInstance, terr.Kind)
}
