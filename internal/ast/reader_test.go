package ast

import "testing"

func TestParseInstruction(t *testing.T) {
	f := Parse("move r0 100")
	if len(f.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(f.Instructions))
	}
	inst := f.Instructions[0]
	if inst.Operation != "move" {
		t.Fatalf("operation = %q", inst.Operation)
	}
	if inst.OpRange != span(0, 0, 4) {
		t.Fatalf("op range = %+v", inst.OpRange)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(inst.Operands))
	}
	if reg, ok := inst.Operands[0].(Register); !ok || reg.Name != "r0" {
		t.Fatalf("first operand = %#v", inst.Operands[0])
	}
	if num, ok := inst.Operands[1].(Number); !ok || num.Raw != "100" {
		t.Fatalf("second operand = %#v", inst.Operands[1])
	}
	if inst.Span != span(0, 0, 11) {
		t.Fatalf("span = %+v", inst.Span)
	}
}

func TestParseOperandClassification(t *testing.T) {
	tests := []struct {
		text string
		want Operand
	}{
		{"r15", Register{}},
		{"rr3", Register{}},
		{"ra", Register{}},
		{"sp", Register{}},
		{"r16", Identifier{}},
		{"d0", Device{}},
		{"db", Device{}},
		{"d0:1", Device{}},
		{"d6", Identifier{}},
		{"42", Number{}},
		{"-1.5e3", Number{}},
		{"$ff", Number{}},
		{"%1010", Number{}},
		{`"hello world"`, StringLit{}},
		{`HASH("Volume Pump")`, FunctionCall{}},
		{"Temperature", Identifier{}},
		{"LogicType.Pressure", Identifier{}},
		{"r0!", Invalid{}},
	}
	for _, tt := range tests {
		f := Parse("move " + tt.text)
		if len(f.Instructions) != 1 || len(f.Instructions[0].Operands) != 1 {
			t.Fatalf("%q: unexpected shape %+v", tt.text, f.Instructions)
		}
		got := f.Instructions[0].Operands[0]
		if sameOperandKind(got, tt.want) != true {
			t.Fatalf("%q classified as %#v", tt.text, got)
		}
		if got.Text() != tt.text {
			t.Fatalf("%q: Text() = %q", tt.text, got.Text())
		}
	}
}

func sameOperandKind(a, b Operand) bool {
	switch a.(type) {
	case Register:
		_, ok := b.(Register)
		return ok
	case Device:
		_, ok := b.(Device)
		return ok
	case Number:
		_, ok := b.(Number)
		return ok
	case LogicKeyword:
		_, ok := b.(LogicKeyword)
		return ok
	case Identifier:
		_, ok := b.(Identifier)
		return ok
	case FunctionCall:
		_, ok := b.(FunctionCall)
		return ok
	case StringLit:
		_, ok := b.(StringLit)
		return ok
	case Invalid:
		_, ok := b.(Invalid)
		return ok
	}
	return false
}

func TestParseLabel(t *testing.T) {
	f := Parse("start:\nyield\nj start")
	if len(f.Labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(f.Labels))
	}
	lbl := f.Labels[0]
	if lbl.Name != "start" || lbl.Line != 0 {
		t.Fatalf("label = %+v", lbl)
	}
	if lbl.NameRange != span(0, 0, 5) {
		t.Fatalf("name range = %+v", lbl.NameRange)
	}
	if len(f.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(f.Instructions))
	}
}

func TestParseLabelWithTrailingInstruction(t *testing.T) {
	f := Parse("loop: yield")
	if len(f.Labels) != 1 || f.Labels[0].Name != "loop" {
		t.Fatalf("labels = %+v", f.Labels)
	}
	if len(f.Instructions) != 1 || f.Instructions[0].Operation != "yield" {
		t.Fatalf("instructions = %+v", f.Instructions)
	}
	if f.Instructions[0].OpRange.Start.Column != 6 {
		t.Fatalf("op range = %+v", f.Instructions[0].OpRange)
	}
}

func TestParseComment(t *testing.T) {
	f := Parse("yield # keep the tick alive")
	if len(f.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(f.Comments))
	}
	c := f.Comments[0]
	if c.Text != "# keep the tick alive" {
		t.Fatalf("comment text = %q", c.Text)
	}
	if c.Span.Start.Column != 6 {
		t.Fatalf("comment span = %+v", c.Span)
	}
	if len(f.Instructions) != 1 || f.Instructions[0].Operation != "yield" {
		t.Fatalf("instructions = %+v", f.Instructions)
	}
}

func TestParseBadOperationBecomesError(t *testing.T) {
	f := Parse("1bad r0 r1")
	if len(f.Instructions) != 0 {
		t.Fatalf("expected no instructions, got %+v", f.Instructions)
	}
	if len(f.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(f.Errors))
	}
	if f.Errors[0].Raw != "1bad r0 r1" {
		t.Fatalf("error raw = %q", f.Errors[0].Raw)
	}
}

func TestParseUnterminatedString(t *testing.T) {
	f := Parse(`move r0 "oops`)
	if len(f.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(f.Errors))
	}
	if len(f.Instructions) != 1 {
		t.Fatalf("expected the instruction to survive, got %d", len(f.Instructions))
	}
	// The operand before the bad token is kept.
	if len(f.Instructions[0].Operands) != 1 {
		t.Fatalf("operands = %+v", f.Instructions[0].Operands)
	}
}

func TestParseNeverFails(t *testing.T) {
	for _, src := range []string{"", "\n\n\n", "# only a comment", "   \t  ", ")(", `"""`} {
		f := Parse(src)
		if f == nil {
			t.Fatalf("Parse(%q) returned nil", src)
		}
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	f := Parse("yield\r\nyield\r\n")
	if len(f.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(f.Instructions))
	}
	if f.Instructions[1].Span.Start.Line != 1 {
		t.Fatalf("span = %+v", f.Instructions[1].Span)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: Position{Line: 1, Column: 2}, End: Position{Line: 1, Column: 5}}
	tests := []struct {
		p    Position
		want bool
	}{
		{Position{1, 2}, true},
		{Position{1, 4}, true},
		{Position{1, 5}, false},
		{Position{1, 1}, false},
		{Position{0, 3}, false},
		{Position{2, 3}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Fatalf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFileSlice(t *testing.T) {
	f := Parse("move r0 100\nyield")
	inst := f.Instructions[0]
	if got := inst.Text(f); got != "move r0 100" {
		t.Fatalf("instruction text = %q", got)
	}
	if got := f.Slice(inst.OpRange); got != "move" {
		t.Fatalf("op slice = %q", got)
	}
	if got := f.Slice(span(9, 0, 4)); got != "" {
		t.Fatalf("out of range slice = %q", got)
	}
}
