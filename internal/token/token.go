// Package token defines the lexical tokens of Austral source text and the
// reserved-word/operator tables the lexer and parser share.
package token

import "github.com/austral-lang/auc/internal/span"

// Kind discriminates the token variants of spec.md §3 (Tokens).
type Kind int

const (
	Invalid Kind = iota

	// Grouping brackets.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	// Arithmetic operators.
	Plus
	Minus
	Star
	Slash

	// Comparison operators.
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq

	// Borrow operators and span constructors.
	Amp       // &
	AmpBang   // &!
	AmpTilde  // &~
	AmpParen  // &(
	SpanKw    // Span
	SpanBang  // Span!

	// Punctuation.
	Semi
	Comma
	Period
	Colon
	Arrow      // ->
	FatArrow   // =>
	Assign     // :=
	Bang       // ! (deref)
	At         // @ (only as part of @embed)

	// Reserved words.
	KwModule
	KwIs
	KwBody
	KwImport
	KwAs
	KwEnd
	KwConstant
	KwType
	KwFunction
	KwGeneric
	KwRecord
	KwUnion
	KwCase
	KwOf
	KwWhen
	KwTypeclass
	KwInstance
	KwMethod
	KwIf
	KwThen
	KwElse
	KwLet
	KwVar
	KwWhile
	KwFor
	KwDo
	KwFrom
	KwTo
	KwBorrow
	KwReturn
	KwSkip
	KwPragma
	KwSizeof
	KwNil
	KwTrue
	KwFalse
	KwAnd
	KwOr
	KwNot

	// Universe names.
	KwFree
	KwLinear
	KwType_ // "Type" universe name — distinct from KwType ("type" keyword)
	KwRegion

	KwEmbed // @embed

	// Literals and identifiers.
	Ident
	Char
	Decimal
	Float
	Str
	TripleStr

	EOF
)

var names = map[Kind]string{
	Invalid:    "<invalid>",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	LBrace:     "{",
	RBrace:     "}",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Eq:         "=",
	NotEq:      "/=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Amp:        "&",
	AmpBang:    "&!",
	AmpTilde:   "&~",
	AmpParen:   "&(",
	SpanKw:     "Span",
	SpanBang:   "Span!",
	Semi:       ";",
	Comma:      ",",
	Period:     ".",
	Colon:      ":",
	Arrow:      "->",
	FatArrow:   "=>",
	Assign:     ":=",
	Bang:       "!",
	At:         "@",
	KwModule:   "module",
	KwIs:       "is",
	KwBody:     "body",
	KwImport:   "import",
	KwAs:       "as",
	KwEnd:      "end",
	KwConstant: "constant",
	KwType:     "type",
	KwFunction: "function",
	KwGeneric:  "generic",
	KwRecord:   "record",
	KwUnion:    "union",
	KwCase:     "case",
	KwOf:       "of",
	KwWhen:     "when",
	KwTypeclass: "typeclass",
	KwInstance: "instance",
	KwMethod:   "method",
	KwIf:       "if",
	KwThen:     "then",
	KwElse:     "else",
	KwLet:      "let",
	KwVar:      "var",
	KwWhile:    "while",
	KwFor:      "for",
	KwDo:       "do",
	KwFrom:     "from",
	KwTo:       "to",
	KwBorrow:   "borrow",
	KwReturn:   "return",
	KwSkip:     "skip",
	KwPragma:   "pragma",
	KwSizeof:   "sizeof",
	KwNil:      "nil",
	KwTrue:     "true",
	KwFalse:    "false",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	KwFree:     "Free",
	KwLinear:   "Linear",
	KwType_:    "Type",
	KwRegion:   "Region",
	KwEmbed:    "@embed",
	Ident:      "identifier",
	Char:       "character literal",
	Decimal:    "decimal literal",
	Float:      "float literal",
	Str:        "string literal",
	TripleStr:  "triple-quoted string literal",
	EOF:        "end of input",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "<unknown token>"
}

// ReservedWords maps every reserved identifier-like word (including the
// universe names and the boolean/nil literals) to its Kind. Matched only
// at identifier-boundary positions by the lexer.
var ReservedWords = map[string]Kind{
	"module":    KwModule,
	"is":        KwIs,
	"body":      KwBody,
	"import":    KwImport,
	"as":        KwAs,
	"end":       KwEnd,
	"constant":  KwConstant,
	"type":      KwType,
	"function":  KwFunction,
	"generic":   KwGeneric,
	"record":    KwRecord,
	"union":     KwUnion,
	"case":      KwCase,
	"of":        KwOf,
	"when":      KwWhen,
	"typeclass": KwTypeclass,
	"instance":  KwInstance,
	"method":    KwMethod,
	"if":        KwIf,
	"then":      KwThen,
	"else":      KwElse,
	"let":       KwLet,
	"var":       KwVar,
	"while":     KwWhile,
	"for":       KwFor,
	"do":        KwDo,
	"from":      KwFrom,
	"to":        KwTo,
	"borrow":    KwBorrow,
	"return":    KwReturn,
	"skip":      KwSkip,
	"pragma":    KwPragma,
	"sizeof":    KwSizeof,
	"nil":       KwNil,
	"true":      KwTrue,
	"false":     KwFalse,
	"and":       KwAnd,
	"or":        KwOr,
	"not":       KwNot,
	"Free":      KwFree,
	"Linear":    KwLinear,
	"Type":      KwType_,
	"Region":    KwRegion,
}

// Token is a single lexeme: its Kind, the decoded literal payload (when
// applicable), and the source span it occupies.
type Token struct {
	Kind Kind
	// Text is the raw or decoded payload for identifiers and literals:
	// the identifier name, the unescaped string contents, the decimal
	// digits, the float digits, or the single character of a Char token.
	Text string
	Span span.Span
}

func (t Token) String() string {
	if t.Text != "" {
		return t.Kind.String() + "(" + t.Text + ")"
	}
	return t.Kind.String()
}
