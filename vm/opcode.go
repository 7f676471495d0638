package vm

// Opcode identifies a single RaptorScript instruction. The byte values
// are this implementation's chosen encoding (the producer's exact values
// are unspecified by the format beyond FUNC=0xF0/END=0xED in the
// constant pool); they are grouped by family the way the teacher grouped
// its own Bytecode constants, so a hex dump is readable at a glance:
//
//	0x0_ control / stack
//	0x1_ arithmetic and bitwise
//	0x2_ comparison
//	0x3_ relative jumps
//	0x4_ local/global access
//	0x5_ call / return
//	0x6_ output and diagnostics
type Opcode byte

const (
	Nop Opcode = 0x00
	Pop Opcode = 0x03

	Iconst Opcode = 0x02
	Halt   Opcode = 0x01

	Add Opcode = 0x10
	Sub Opcode = 0x11
	Mul Opcode = 0x12
	Div Opcode = 0x13
	Mod Opcode = 0x14
	Shl Opcode = 0x15
	Shr Opcode = 0x16
	And Opcode = 0x17
	Or  Opcode = 0x18
	Not Opcode = 0x19

	Comp      Opcode = 0x20
	CompLt    Opcode = 0x21
	CompEq    Opcode = 0x22
	CompGt    Opcode = 0x23
	RelJump   Opcode = 0x30
	RelJumpLt Opcode = 0x31
	RelJumpEq Opcode = 0x32
	RelJumpGt Opcode = 0x33

	Store Opcode = 0x40
	Load  Opcode = 0x41

	Call   Opcode = 0x50
	Return Opcode = 0x51

	Print        Opcode = 0x60
	DumpStack    Opcode = 0x61
	DumpGlobals  Opcode = 0x62
)

// mnemonics maps each known opcode to its assembler/disassembler name.
// Built once; mnemonicToOpcode is its inverse, used by the test-fixture
// assembler in vm/asm.
var mnemonics = map[Opcode]string{
	Nop:          "nop",
	Halt:         "halt",
	Iconst:       "iconst",
	Pop:          "pop",
	Add:          "add",
	Sub:          "sub",
	Mul:          "mul",
	Div:          "div",
	Mod:          "mod",
	Shl:          "shl",
	Shr:          "shr",
	And:          "and",
	Or:           "or",
	Not:          "not",
	Comp:         "comp",
	CompLt:       "comp_lt",
	CompEq:       "comp_eq",
	CompGt:       "comp_gt",
	RelJump:      "reljump",
	RelJumpLt:    "reljump_lt",
	RelJumpEq:    "reljump_eq",
	RelJumpGt:    "reljump_gt",
	Store:        "store",
	Load:         "load",
	Call:         "call",
	Return:       "return",
	Print:        "print",
	DumpStack:    "dump_stack",
	DumpGlobals:  "dump_globals",
}

var mnemonicToOpcode map[string]Opcode

func init() {
	mnemonicToOpcode = make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		mnemonicToOpcode[name] = op
	}
}

// String renders the opcode's mnemonic for disassembly and trace logs.
func (op Opcode) String() string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "?unknown?"
}

// HasImmediate reports whether the instruction carries a 4-byte
// big-endian immediate following the opcode byte. Every RaptorScript
// opcode takes 0 or exactly 1 immediate — there is no stack-supplied
// alternative the way the teacher's GVM dialect allows.
func (op Opcode) HasImmediate() bool {
	switch op {
	case Iconst, RelJump, RelJumpLt, RelJumpEq, RelJumpGt, Store, Load, Call:
		return true
	default:
		return false
	}
}

// known reports whether op is one this implementation recognizes. An
// unrecognized opcode byte is a warning, not a fatal error, per spec.
func (op Opcode) known() bool {
	_, ok := mnemonics[op]
	return ok
}

// OpcodeByMnemonic looks up an opcode by its assembler mnemonic (the
// same spelling String returns), for use by the text assembler.
func OpcodeByMnemonic(name string) (Opcode, bool) {
	op, ok := mnemonicToOpcode[name]
	return op, ok
}
