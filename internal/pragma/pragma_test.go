package pragma

import "testing"

func TestParseBodyPositional(t *testing.T) {
	body, err := ParseBody(`"posix", 1`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(body.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(body.Args))
	}
	if body.Args[0].value() != "posix" {
		t.Fatalf("unexpected first arg: %q", body.Args[0].value())
	}
}

func TestParseBodyNamed(t *testing.T) {
	body, err := ParseBody(`external_name => "write", library => "posix"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(body.Args) != 2 || body.Args[0].Name == nil || *body.Args[0].Name != "external_name" {
		t.Fatalf("unexpected parse: %+v", body.Args)
	}
}

func TestParseBodyEmpty(t *testing.T) {
	body, err := ParseBody("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(body.Args) != 0 {
		t.Fatalf("expected no args, got %d", len(body.Args))
	}
}

func TestValidateForeignImportRequiresName(t *testing.T) {
	body, err := ParseBody(`library => "posix"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate("Foreign_Import", body); err == nil {
		t.Fatal("expected missing external_name to be rejected")
	}
}

func TestValidateForeignImportOK(t *testing.T) {
	body, err := ParseBody(`external_name => "write"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate("Foreign_Import", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUnsafeModuleRejectsArgs(t *testing.T) {
	body, err := ParseBody(`"extra"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate("Unsafe_Module", body); err == nil {
		t.Fatal("expected extra positional argument to be rejected")
	}
}

func TestValidateUnknownPragmaPassesThrough(t *testing.T) {
	body, err := ParseBody(`1, 2, 3`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate("Some_Future_Pragma", body); err != nil {
		t.Fatalf("unexpected error for unknown pragma: %v", err)
	}
}
