package auc

import (
	"testing"

	"github.com/austral-lang/auc/internal/australtest"
)

func TestCheckBodyFixtures(t *testing.T) {
	australtest.Each(t, "testdata/*.aum", func(t *testing.T, path string, src []byte) {
		if _, err := Check(path, src); err != nil {
			t.Fatalf("check %s: %v", path, err)
		}
	})
}

func TestCheckInterfaceFixtures(t *testing.T) {
	australtest.Each(t, "testdata/*.aui", func(t *testing.T, path string, src []byte) {
		toks, err := Lex(path, src)
		if err != nil {
			t.Fatalf("lex %s: %v", path, err)
		}
		mod, err := ParseModule(toks)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		if _, err := TypeCheck(mod, nil); err != nil {
			t.Fatalf("type-check %s: %v", path, err)
		}
	})
}
