package linearity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral-lang/auc/internal/diagnostic"
	"github.com/austral-lang/auc/internal/lexer"
	"github.com/austral-lang/auc/internal/linearity"
	"github.com/austral-lang/auc/internal/parser"
	"github.com/austral-lang/auc/internal/resolver"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Lex("test.aum", []byte(src))
	require.NoError(t, err)
	mod, err := parser.ParseModule(toks)
	require.NoError(t, err)
	typed, err := resolver.TypeCheck(mod, nil)
	require.NoError(t, err)
	return linearity.Check(typed)
}

func TestConsumeExactlyOnceAccepted(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function sink(r: Res): Unit is
        let { fd: Int32 } := r;
        return nil;
    end;

    function use(fd: Int32): Unit is
        let r: Res := Res(fd);
        return sink(r);
    end;
`
	assert.NoError(t, checkSource(t, src))
}

func TestUnconsumedOnReturnRejected(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function make(fd: Int32): Res is
        return Res(fd);
    end;

    function use(fd: Int32): Unit is
        let r: Res := make(fd);
        return nil;
    end;
`
	err := checkSource(t, src)
	require.Error(t, err)
	lerr, ok := err.(*diagnostic.LinearityError)
	require.True(t, ok, "expected *diagnostic.LinearityError, got %T", err)
	assert.Equal(t, diagnostic.UnconsumedOnReturn, lerr.Kind)
}

func TestUseAfterConsumeRejected(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function sink(r: Res): Unit is
        let { fd: Int32 } := r;
        return nil;
    end;

    function use(fd: Int32): Unit is
        let r: Res := Res(fd);
        sink(r);
        return sink(r);
    end;
`
	err := checkSource(t, src)
	require.Error(t, err)
	lerr, ok := err.(*diagnostic.LinearityError)
	require.True(t, ok, "expected *diagnostic.LinearityError, got %T", err)
	assert.Equal(t, diagnostic.UseAfterConsume, lerr.Kind)
}

func TestMultipleConsumptionRejected(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function pair(a: Res, b: Res): Unit is
        let { fd: Int32 } := a;
        let { fd: Int32 } := b;
        return nil;
    end;

    function use(fd: Int32): Unit is
        let r: Res := Res(fd);
        return pair(r, r);
    end;
`
	err := checkSource(t, src)
	require.Error(t, err)
	lerr, ok := err.(*diagnostic.LinearityError)
	require.True(t, ok, "expected *diagnostic.LinearityError, got %T", err)
	assert.Equal(t, diagnostic.MultipleConsumption, lerr.Kind)
}

func TestBranchStateMismatchRejected(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function sink(r: Res): Unit is
        let { fd: Int32 } := r;
        return nil;
    end;

    function use(fd: Int32, flag: Bool): Unit is
        let r: Res := Res(fd);
        if flag then is
            sink(r);
        else is
            skip;
        end if;
        return nil;
    end;
`
	err := checkSource(t, src)
	require.Error(t, err)
	lerr, ok := err.(*diagnostic.LinearityError)
	require.True(t, ok, "expected *diagnostic.LinearityError, got %T", err)
	assert.Equal(t, diagnostic.BranchStateMismatch, lerr.Kind)
}

func TestLoopStateMismatchRejected(t *testing.T) {
	src := `
module body M is
    record Res: Linear is
        fd: Int32;
    end;

    function sink(r: Res): Unit is
        let { fd: Int32 } := r;
        return nil;
    end;

    function use(fd: Int32, r: Res): Unit is
        while true do is
            sink(r);
        end while;
        return nil;
    end;
`
	err := checkSource(t, src)
	require.Error(t, err)
	lerr, ok := err.(*diagnostic.LinearityError)
	require.True(t, ok, "expected *diagnostic.LinearityError, got %T", err)
	assert.Equal(t, diagnostic.LoopStateMismatch, lerr.Kind)
}
