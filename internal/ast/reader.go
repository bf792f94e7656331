package ast

import (
	"regexp"
	"strings"
)

var (
	registerPattern = regexp.MustCompile(`^(?:r(?:[0-9]|1[0-5])|ra|sp|rr(?:[0-9]|1[0-5]))$`)
	devicePattern   = regexp.MustCompile(`^d(?:[0-5]|b)(?::[0-9]+)?$`)
	numberPattern   = regexp.MustCompile(`^[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$|^\$[0-9a-fA-F]+$|^%[01]+$`)
	labelPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*:$`)
	identPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Parse builds the syntax model for one IC10 document. The language is
// strictly line-oriented: each line is an optional label, an optional
// instruction, and an optional # comment. Parse never fails; source it
// cannot make sense of becomes ErrorNode entries so analysis stays
// best-effort.
func Parse(source string) *File {
	f := &File{
		Source: source,
		Lines:  splitLines(source),
	}

	for lineNo, raw := range f.Lines {
		line := raw

		// Comment runs from the first # to end of line.
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			f.Comments = append(f.Comments, &Comment{
				Text: line[idx:],
				Span: span(lineNo, idx, len(line)),
			})
			line = line[:idx]
		}

		col := indexNonSpace(line, 0)
		if col < 0 {
			continue
		}

		// Leading label declaration: name terminated by a colon.
		if end := tokenEnd(line, col); labelPattern.MatchString(line[col:end]) {
			name := strings.TrimSuffix(line[col:end], ":")
			f.Labels = append(f.Labels, &Label{
				Name:      name,
				NameRange: span(lineNo, col, end-1),
				Line:      lineNo,
			})
			col = indexNonSpace(line, end)
			if col < 0 {
				continue
			}
		}

		f.readInstruction(lineNo, line, col)
	}

	return f
}

// readInstruction tokenizes one instruction starting at col.
func (f *File) readInstruction(lineNo int, line string, col int) {
	opEnd := tokenEnd(line, col)
	op := line[col:opEnd]
	if !identPattern.MatchString(op) {
		f.Errors = append(f.Errors, &ErrorNode{
			Raw:  strings.TrimRight(line[col:], " \t"),
			Span: span(lineNo, col, trailingEnd(line)),
		})
		return
	}

	inst := &Instruction{
		Operation: op,
		OpRange:   span(lineNo, col, opEnd),
	}

	pos := indexNonSpace(line, opEnd)
	for pos >= 0 {
		end, ok := operandEnd(line, pos)
		if !ok {
			// Unterminated string or call form poisons the rest of
			// the line; surface it and keep what was read so far.
			f.Errors = append(f.Errors, &ErrorNode{
				Raw:  strings.TrimRight(line[pos:], " \t"),
				Span: span(lineNo, pos, trailingEnd(line)),
			})
			break
		}
		inst.Operands = append(inst.Operands, classifyOperand(line[pos:end], span(lineNo, pos, end)))
		pos = indexNonSpace(line, end)
	}

	endCol := trailingEnd(line)
	inst.Span = span(lineNo, col, endCol)
	f.Instructions = append(f.Instructions, inst)
}

// operandEnd finds the end of the operand starting at pos. Quoted
// strings and call forms like HASH("Volume Pump") may contain spaces.
func operandEnd(line string, pos int) (int, bool) {
	if line[pos] == '"' {
		for i := pos + 1; i < len(line); i++ {
			if line[i] == '"' {
				return i + 1, true
			}
		}
		return 0, false
	}
	depth := 0
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return 0, false
			}
		case '"':
			if depth == 0 {
				return i, true
			}
			for i++; i < len(line); i++ {
				if line[i] == '"' {
					break
				}
			}
			if i == len(line) {
				return 0, false
			}
		case ' ', '\t':
			if depth == 0 {
				return i, true
			}
		}
	}
	if depth != 0 {
		return 0, false
	}
	return len(line), true
}

func classifyOperand(text string, sp Range) Operand {
	switch {
	case registerPattern.MatchString(text):
		return Register{Name: text, Span: sp}
	case devicePattern.MatchString(text):
		return Device{Name: text, Span: sp}
	case numberPattern.MatchString(text):
		return Number{Raw: text, Span: sp}
	case strings.HasPrefix(text, `"`):
		return StringLit{Raw: text, Span: sp}
	case strings.Contains(text, "(") && strings.HasSuffix(text, ")"):
		return FunctionCall{Raw: text, Span: sp}
	case identPattern.MatchString(text):
		return Identifier{Name: text, Span: sp}
	default:
		return Invalid{Raw: text, Span: sp}
	}
}

func span(line, start, end int) Range {
	return Range{
		Start: Position{Line: line, Column: start},
		End:   Position{Line: line, Column: end},
	}
}

func indexNonSpace(line string, from int) int {
	for i := from; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return -1
}

func tokenEnd(line string, from int) int {
	for i := from; i < len(line); i++ {
		if line[i] == ' ' || line[i] == '\t' {
			return i
		}
	}
	return len(line)
}

func trailingEnd(line string) int {
	return len(strings.TrimRight(line, " \t"))
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
