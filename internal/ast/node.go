package ast

// Position is a zero-based line/column location in the source text,
// matching editor-protocol positions.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open [Start, End) span in the source text.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether the range contains the given position.
func (r Range) Contains(p Position) bool {
	if p.Line < r.Start.Line || p.Line > r.End.Line {
		return false
	}
	if p.Line == r.Start.Line && p.Column < r.Start.Column {
		return false
	}
	if p.Line == r.End.Line && p.Column >= r.End.Column {
		return false
	}
	return true
}

// Operand is the closed set of operand forms an instruction can carry.
// Analyzers dispatch on the concrete type rather than a string kind tag.
type Operand interface {
	operand()
	// Range is the source span of the operand token.
	Range() Range
	// Text is the raw source text of the operand.
	Text() string
}

// Register is a direct register operand: r0-r15, ra, sp, rr0-rr15.
type Register struct {
	Name string
	Span Range
}

// Device is a device pin operand: d0-d5 or db, optionally with a
// network port suffix (d0:1).
type Device struct {
	Name string
	Span Range
}

// Number is a numeric literal (decimal, float, hex $, or binary %).
type Number struct {
	Raw  string
	Span Range
}

// LogicKeyword is a bare word the syntax layer already recognized as a
// logic/slot/batch/reagent keyword. The built-in line reader never
// produces this form; richer tree producers may.
type LogicKeyword struct {
	Word string
	Span Range
}

// Identifier is any other bare word, including dotted enum names.
type Identifier struct {
	Name string
	Span Range
}

// FunctionCall is a constant-producing call form such as HASH("...").
type FunctionCall struct {
	Raw  string
	Span Range
}

// StringLit is a quoted string token.
type StringLit struct {
	Raw  string
	Span Range
}

// Invalid is an operand the syntax layer could not classify.
type Invalid struct {
	Raw  string
	Span Range
}

func (Register) operand()     {}
func (Device) operand()       {}
func (Number) operand()       {}
func (LogicKeyword) operand() {}
func (Identifier) operand()   {}
func (FunctionCall) operand() {}
func (StringLit) operand()    {}
func (Invalid) operand()      {}

func (o Register) Range() Range     { return o.Span }
func (o Device) Range() Range       { return o.Span }
func (o Number) Range() Range       { return o.Span }
func (o LogicKeyword) Range() Range { return o.Span }
func (o Identifier) Range() Range   { return o.Span }
func (o FunctionCall) Range() Range { return o.Span }
func (o StringLit) Range() Range    { return o.Span }
func (o Invalid) Range() Range      { return o.Span }

func (o Register) Text() string     { return o.Name }
func (o Device) Text() string       { return o.Name }
func (o Number) Text() string       { return o.Raw }
func (o LogicKeyword) Text() string { return o.Word }
func (o Identifier) Text() string   { return o.Name }
func (o FunctionCall) Text() string { return o.Raw }
func (o StringLit) Text() string    { return o.Raw }
func (o Invalid) Text() string      { return o.Raw }

// Instruction is one operation line with its ordered operands.
type Instruction struct {
	Operation string
	OpRange   Range
	Operands  []Operand
	Span      Range
}

// Text returns the raw instruction text.
func (in *Instruction) Text(src *File) string {
	return src.Slice(in.Span)
}

// Label is a jump target declaration (name followed by a colon).
type Label struct {
	Name      string
	NameRange Range
	Line      int
}

// Comment is a # comment through end of line.
type Comment struct {
	Text string
	Span Range
}

// ErrorNode marks source the syntax layer could not parse. It is
// surfaced verbatim as a syntax error and otherwise ignored.
type ErrorNode struct {
	Raw  string
	Span Range
}

// File is the syntax model of one document, in source order.
type File struct {
	Source       string
	Lines        []string
	Instructions []*Instruction
	Labels       []*Label
	Comments     []*Comment
	Errors       []*ErrorNode
}

// Slice returns the source text covered by a single-line range.
func (f *File) Slice(r Range) string {
	if r.Start.Line < 0 || r.Start.Line >= len(f.Lines) {
		return ""
	}
	line := f.Lines[r.Start.Line]
	start, end := r.Start.Column, len(line)
	if r.End.Line == r.Start.Line && r.End.Column < end {
		end = r.End.Column
	}
	if start > len(line) {
		return ""
	}
	return line[start:end]
}
