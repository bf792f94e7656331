// Package catalog holds the immutable static data the analyzers consult:
// instruction signatures, keyword enumerations, the dotted enum catalog,
// and the device prefab hash registry. Everything is assembled once at
// process start and only read afterwards.
package catalog

import "strings"

// DataType is one accepted operand type in an instruction signature.
type DataType uint8

const (
	Register DataType = iota
	Number
	Device
	LogicType
	SlotLogicType
	BatchMode
	ReagentMode
	Name
)

func (t DataType) String() string {
	switch t {
	case Register:
		return "r"
	case Number:
		return "num"
	case Device:
		return "d"
	case LogicType:
		return "logicType"
	case SlotLogicType:
		return "slotLogicType"
	case BatchMode:
		return "batchMode"
	case ReagentMode:
		return "reagentMode"
	case Name:
		return "name"
	}
	return "unknown"
}

// Union is a set of accepted types for one operand position.
type Union []DataType

// Has reports whether the union accepts the given type.
func (u Union) Has(t DataType) bool {
	for _, dt := range u {
		if dt == t {
			return true
		}
	}
	return false
}

// Intersects reports whether any type is accepted by both unions.
func (u Union) Intersects(other Union) bool {
	for _, dt := range other {
		if u.Has(dt) {
			return true
		}
	}
	return false
}

func (u Union) String() string {
	if len(u) == 0 {
		return "unknown"
	}
	parts := make([]string, len(u))
	for i, dt := range u {
		parts[i] = dt.String()
	}
	return strings.Join(parts, "|")
}

// Signature is the ordered parameter list of one instruction.
type Signature struct {
	Params []Union
}

// Arity returns the required operand count.
func (s Signature) Arity() int { return len(s.Params) }

// Lookup returns the signature for an operation, or false if the
// operation is not a known instruction. The match is exact: IC10
// mnemonics are lowercase and case matters at the instruction level.
func Lookup(operation string) (Signature, bool) {
	sig, ok := instructions[operation]
	return sig, ok
}

// IsInstruction reports whether the operation is a known instruction.
func IsInstruction(operation string) bool {
	_, ok := instructions[operation]
	return ok
}

// Instructions returns the mnemonics of every known instruction.
func Instructions() []string {
	names := make([]string, 0, len(instructions))
	for name := range instructions {
		names = append(names, name)
	}
	return names
}
