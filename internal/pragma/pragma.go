// Package pragma validates the argument shape of a compiler pragma
// against the schema for its name. `pragma Foo(bar, baz => 1);` is a
// flat, non-recursive, struct-tag-friendly grammar -- exactly what the
// teacher's participle-based `.lift` grammar is built for -- unlike the
// rest of Austral's grammar, which needs the tie-break logic only a
// hand-written recursive-descent parser gives (see internal/parser).
//
// internal/parser already parses a pragma's arguments as full
// expressions (ast.PragmaArg / ast.Expr), since a pragma argument may
// be any literal. This package re-parses the resolver's rendering of
// those arguments back to source text and checks it against a named
// schema, the way grammar.go's FieldMatch/MatchValue pair checks a
// matcher block's shape.
package pragma

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var bodyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "FatArrow", Pattern: `=>`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Body is a pragma's parenthesized argument list, positional or named
// (never mixed -- spec.md §3's Pragma grammar is one or the other).
type Body struct {
	Args []*Arg `( @@ ( "," @@ )* )?`
}

// Arg is one argument: `name => value` or a bare value.
type Arg struct {
	Name  *string `( @Ident FatArrow )?`
	Str   *string `( @String`
	Ident *string `| @Ident`
	Num   *string `| @Number )`
}

func (a *Arg) value() string {
	switch {
	case a.Str != nil:
		// The captured String token keeps its surrounding quotes.
		s := *a.Str
		return s[1 : len(s)-1]
	case a.Ident != nil:
		return *a.Ident
	case a.Num != nil:
		return *a.Num
	default:
		return ""
	}
}

var bodyParser = participle.MustBuild[Body](
	participle.Lexer(bodyLexer),
	participle.Elide("Whitespace"),
)

// ParseBody parses the textual rendering of a pragma's argument list
// (without the enclosing parens).
func ParseBody(src string) (*Body, error) {
	return bodyParser.ParseString("", src)
}

// Schema is the expected shape of a known pragma's argument list.
type Schema struct {
	// RequiredNamed lists named arguments that must be present.
	RequiredNamed []string
	// MaxPositional bounds a positional arg list; -1 means unbounded.
	MaxPositional int
}

// schemas holds the pragmas auc recognizes; an unlisted name is
// accepted with its shape unchecked (forward compatibility with
// pragmas this compiler doesn't interpret but shouldn't reject).
var schemas = map[string]Schema{
	"Foreign_Import": {RequiredNamed: []string{"external_name"}},
	"Foreign_Export": {RequiredNamed: []string{"external_name"}},
	"Cembed":         {MaxPositional: 1},
	"Unsafe_Module":  {MaxPositional: 0},
	"No_Return":      {MaxPositional: 0},
	"Disable":        {MaxPositional: -1},
}

// Validate checks name's argument body against its registered schema,
// if any. Named and positional arguments are mutually exclusive, as in
// internal/parser's ast.Pragma.
func Validate(name string, body *Body) error {
	schema, known := schemas[name]
	if !known {
		return nil
	}

	named := map[string]string{}
	var positional []string
	for _, a := range body.Args {
		if a.Name != nil {
			named[*a.Name] = a.value()
		} else {
			positional = append(positional, a.value())
		}
	}

	if len(named) > 0 {
		for _, req := range schema.RequiredNamed {
			if _, ok := named[req]; !ok {
				return fmt.Errorf("pragma %s: missing required argument %q", name, req)
			}
		}
		return nil
	}

	if schema.MaxPositional >= 0 && len(positional) > schema.MaxPositional {
		return fmt.Errorf("pragma %s: expected at most %d argument(s), got %d", name, schema.MaxPositional, len(positional))
	}
	if len(schema.RequiredNamed) > 0 && len(positional) < len(schema.RequiredNamed) {
		return fmt.Errorf("pragma %s: expected named arguments %v", name, schema.RequiredNamed)
	}
	return nil
}
