package catalog

// Shared parameter unions. A value operand is anywhere the game accepts
// either a register or a literal; jump targets are the same union since
// labels and defines resolve to numbers during checking.
var (
	reg      = Union{Register}
	num      = Union{Number}
	val      = Union{Register, Number}
	dev      = Union{Device}
	logic    = Union{LogicType}
	slot     = Union{SlotLogicType}
	batch    = Union{BatchMode}
	reagent  = Union{ReagentMode}
	nameOnly = Union{Name}
)

func sig(params ...Union) Signature {
	return Signature{Params: params}
}

// instructions is the static signature catalog, covering the stock IC10
// instruction set. Operand order follows the in-game reference.
var instructions = map[string]Signature{
	// Definitions and misc
	"alias":  sig(nameOnly, Union{Register, Device}),
	"define": sig(nameOnly, num),
	"label":  sig(dev, nameOnly),
	"move":   sig(reg, val),
	"yield":  sig(),
	"sleep":  sig(val),
	"hcf":    sig(),

	// Arithmetic
	"add":   sig(reg, val, val),
	"sub":   sig(reg, val, val),
	"mul":   sig(reg, val, val),
	"div":   sig(reg, val, val),
	"mod":   sig(reg, val, val),
	"max":   sig(reg, val, val),
	"min":   sig(reg, val, val),
	"exp":   sig(reg, val),
	"log":   sig(reg, val),
	"sqrt":  sig(reg, val),
	"abs":   sig(reg, val),
	"ceil":  sig(reg, val),
	"floor": sig(reg, val),
	"round": sig(reg, val),
	"trunc": sig(reg, val),
	"rand":  sig(reg),
	"lerp":  sig(reg, val, val, val),

	// Trigonometry
	"sin":   sig(reg, val),
	"cos":   sig(reg, val),
	"tan":   sig(reg, val),
	"asin":  sig(reg, val),
	"acos":  sig(reg, val),
	"atan":  sig(reg, val),
	"atan2": sig(reg, val, val),

	// Bitwise and bitfield
	"and": sig(reg, val, val),
	"or":  sig(reg, val, val),
	"xor": sig(reg, val, val),
	"nor": sig(reg, val, val),
	"not": sig(reg, val),
	"sla": sig(reg, val, val),
	"sll": sig(reg, val, val),
	"sra": sig(reg, val, val),
	"srl": sig(reg, val, val),
	"ext": sig(reg, val, val, val),
	"ins": sig(reg, val, val, val),

	// Comparison set
	"seq":    sig(reg, val, val),
	"sne":    sig(reg, val, val),
	"sgt":    sig(reg, val, val),
	"slt":    sig(reg, val, val),
	"sge":    sig(reg, val, val),
	"sle":    sig(reg, val, val),
	"seqz":   sig(reg, val),
	"snez":   sig(reg, val),
	"sgtz":   sig(reg, val),
	"sltz":   sig(reg, val),
	"sgez":   sig(reg, val),
	"slez":   sig(reg, val),
	"sap":    sig(reg, val, val, val),
	"sna":    sig(reg, val, val, val),
	"sapz":   sig(reg, val, val),
	"snaz":   sig(reg, val, val),
	"snan":   sig(reg, val),
	"snanz":  sig(reg, val),
	"sdse":   sig(reg, dev),
	"sdns":   sig(reg, dev),
	"select": sig(reg, val, val, val),

	// Absolute branches
	"j":      sig(val),
	"jal":    sig(val),
	"beq":    sig(val, val, val),
	"beqal":  sig(val, val, val),
	"bne":    sig(val, val, val),
	"bneal":  sig(val, val, val),
	"bgt":    sig(val, val, val),
	"bgtal":  sig(val, val, val),
	"blt":    sig(val, val, val),
	"bltal":  sig(val, val, val),
	"bge":    sig(val, val, val),
	"bgeal":  sig(val, val, val),
	"ble":    sig(val, val, val),
	"bleal":  sig(val, val, val),
	"beqz":   sig(val, val),
	"beqzal": sig(val, val),
	"bnez":   sig(val, val),
	"bnezal": sig(val, val),
	"bgez":   sig(val, val),
	"bgezal": sig(val, val),
	"bgtz":   sig(val, val),
	"bgtzal": sig(val, val),
	"blez":   sig(val, val),
	"blezal": sig(val, val),
	"bltz":   sig(val, val),
	"bltzal": sig(val, val),
	"bap":    sig(val, val, val, val),
	"bapal":  sig(val, val, val, val),
	"bna":    sig(val, val, val, val),
	"bnaal":  sig(val, val, val, val),
	"bapz":   sig(val, val, val),
	"bapzal": sig(val, val, val),
	"bnaz":   sig(val, val, val),
	"bnazal": sig(val, val, val),
	"bnan":   sig(val, val),
	"bdse":   sig(dev, val),
	"bdseal": sig(dev, val),
	"bdns":   sig(dev, val),
	"bdnsal": sig(dev, val),

	// Relative branches
	"jr":     sig(val),
	"breq":   sig(val, val, val),
	"brne":   sig(val, val, val),
	"brgt":   sig(val, val, val),
	"brlt":   sig(val, val, val),
	"brge":   sig(val, val, val),
	"brle":   sig(val, val, val),
	"breqz":  sig(val, val),
	"brnez":  sig(val, val),
	"brgez":  sig(val, val),
	"brgtz":  sig(val, val),
	"brlez":  sig(val, val),
	"brltz":  sig(val, val),
	"brap":   sig(val, val, val, val),
	"brna":   sig(val, val, val, val),
	"brapz":  sig(val, val, val),
	"brnaz":  sig(val, val, val),
	"brnan":  sig(val, val),
	"brdse":  sig(dev, val),
	"brdns":  sig(dev, val),

	// Device IO
	"l":    sig(reg, dev, logic),
	"ld":   sig(reg, val, logic),
	"s":    sig(dev, logic, val),
	"sd":   sig(val, logic, val),
	"ls":   sig(reg, dev, val, slot),
	"ss":   sig(dev, val, slot, val),
	"lr":   sig(reg, dev, reagent, val),
	"lb":   sig(reg, val, logic, batch),
	"sb":   sig(val, logic, val),
	"lbn":  sig(reg, val, val, logic, batch),
	"sbn":  sig(val, val, logic, val),
	"lbs":  sig(reg, val, val, slot, batch),
	"sbs":  sig(val, val, slot, val),
	"lbns": sig(reg, val, val, val, slot, batch),
	"rmap": sig(reg, dev, val),

	// Stack
	"push": sig(val),
	"pop":  sig(reg),
	"peek": sig(reg),
	"poke": sig(val, val),
	"get":  sig(reg, dev, val),
	"getd": sig(reg, val, val),
	"put":  sig(dev, val, val),
	"putd": sig(val, val, val),
	"clr":  sig(dev),
	"clrd": sig(val),
	"rget": sig(reg, dev, val, val),
}

// branchInstructions are the mnemonics whose final operand is a jump
// target, used by the absolute-jump lint.
var branchInstructions = map[string]struct{}{
	"bdns": {}, "bdnsal": {}, "bdse": {}, "bdseal": {}, "bap": {}, "bapz": {},
	"bapzal": {}, "beq": {}, "beqal": {}, "beqz": {}, "beqzal": {}, "bge": {},
	"bgeal": {}, "bgez": {}, "bgezal": {}, "bgt": {}, "bgtal": {}, "bgtz": {},
	"bgtzal": {}, "ble": {}, "bleal": {}, "blez": {}, "blezal": {}, "blt": {},
	"bltal": {}, "bltz": {}, "bltzal": {}, "bna": {}, "bnaz": {}, "bnazal": {},
	"bne": {}, "bneal": {}, "bnez": {}, "bnezal": {}, "j": {}, "jal": {},
}

// IsBranch reports whether the operation takes an absolute jump target
// as its final operand.
func IsBranch(operation string) bool {
	_, ok := branchInstructions[operation]
	return ok
}
