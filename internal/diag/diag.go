// Package diag defines the diagnostic model shared by every analysis
// producer and the aggregator that merges their streams.
package diag

import (
	"sort"

	"github.com/ic10tools/ic10-lint/internal/ast"
)

// Severity mirrors editor-protocol diagnostic severities.
type Severity int

const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	case Hint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic codes attached for quick-fix linking.
const (
	CodeAssignedNotRead  = "register_assigned_not_read"
	CodeReadBeforeAssign = "register_read_before_assign"
	CodeAbsoluteJump     = "absolute_jump_to_line"
)

// Related points at another location that explains the diagnostic,
// such as the first occurrence of a duplicated name.
type Related struct {
	Range   ast.Range `json:"range"`
	Message string    `json:"message"`
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Range    ast.Range `json:"range"`
	Message  string    `json:"message"`
	Code     string    `json:"code,omitempty"`
	// Payload carries an opaque token for quick-fix actions, e.g. the
	// register name behind a register-usage finding.
	Payload string    `json:"payload,omitempty"`
	Related []Related `json:"related,omitempty"`
}

type identity struct {
	startLine, startCol, endLine, endCol int
	message                              string
}

func identityOf(d Diagnostic) identity {
	return identity{
		startLine: d.Range.Start.Line,
		startCol:  d.Range.Start.Column,
		endLine:   d.Range.End.Line,
		endCol:    d.Range.End.Column,
		message:   d.Message,
	}
}

// Aggregator merges diagnostic streams from independent producers,
// dropping exact (range, message) duplicates. First occurrence wins.
type Aggregator struct {
	seen  map[identity]struct{}
	diags []Diagnostic
}

func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[identity]struct{})}
}

// Add appends diagnostics that have not been seen yet.
func (a *Aggregator) Add(diags ...Diagnostic) {
	for _, d := range diags {
		id := identityOf(d)
		if _, dup := a.seen[id]; dup {
			continue
		}
		a.seen[id] = struct{}{}
		a.diags = append(a.diags, d)
	}
}

// Result returns the merged set sorted by range then message, fully
// replacing any previous pass's output.
func (a *Aggregator) Result() []Diagnostic {
	out := make([]Diagnostic, len(a.diags))
	copy(out, a.diags)
	Sort(out)
	return out
}

// Sort orders diagnostics by start position, end position, then message.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		if a.Range.End.Line != b.Range.End.Line {
			return a.Range.End.Line < b.Range.End.Line
		}
		if a.Range.End.Column != b.Range.End.Column {
			return a.Range.End.Column < b.Range.End.Column
		}
		return a.Message < b.Message
	})
}
