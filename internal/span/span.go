// Package span provides source positions shared by every later stage of
// the pipeline. Spans outlive the phase that created them: the lexer
// attaches them to tokens, the parser copies them onto AST nodes, the
// resolver copies them onto typed-tree nodes, and every diagnostic type
// carries exactly one.
package span

import "fmt"

// Pos is a single 1-based source position. The zero value is not a valid
// position; Pos{1, 1} is the first byte of a file.
type Pos struct {
	Line   int
	Column int
}

// Valid reports whether p denotes a real location (both fields non-zero).
func (p Pos) Valid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open source range within a single file. It is cheap to
// copy and has a valid placeholder value (Default), so callers never
// need to special-case "no span yet".
type Span struct {
	File  string
	Start Pos
	End   Pos
}

// Default is a valid placeholder with no real location: both ends are at
// 1:1. It is not the zero Span, whose 0:0 positions are invalid.
var Default = Span{File: "", Start: Pos{1, 1}, End: Pos{1, 1}}

// New builds a Span from explicit endpoints.
func New(file string, start, end Pos) Span {
	return Span{File: file, Start: start, End: end}
}

// Merge returns the smallest span covering both a and b. Files are assumed
// to match; Merge does not validate that.
func Merge(a, b Span) Span {
	s := a
	if before(b.Start, s.Start) {
		s.Start = b.Start
	}
	if before(s.End, b.End) {
		s.End = b.End
	}
	return s
}

func before(a, b Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%s-%s", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%s-%s", s.File, s.Start, s.End)
}
