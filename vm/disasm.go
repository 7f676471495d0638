package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Disassemble renders a single frame's bytecode as one mnemonic per
// line, in the style of the teacher's printProgram — useful on its own
// or as the "program" dump a debug session prints before stepping.
func Disassemble(w io.Writer, body []byte) {
	pc := 0
	for pc < len(body) {
		op := Opcode(body[pc])
		line := fmt.Sprintf("%4d: %s", pc, op)
		pc++

		if op.known() && op.HasImmediate() {
			if pc+4 > len(body) {
				fmt.Fprintf(w, "%s <truncated immediate>\n", line)
				return
			}
			imm := binary.BigEndian.Uint32(body[pc : pc+4])
			line = fmt.Sprintf("%s %d", line, imm)
			pc += 4
		}
		fmt.Fprintln(w, line)
	}
}

// DisassembleAll renders every function in the constant pool followed
// by the top-level program, each as its own labeled listing. It is the
// "program" dump a debug session prints once before stepping, grounded
// on the same per-instruction rendering Disassemble already does.
func (ev *Evaluator) DisassembleAll(w io.Writer) {
	for id, fc := range ev.Constants.funcs {
		if fc.Name == "" && fc.Body == nil {
			continue
		}
		fmt.Fprintf(w, "func %d %q (args=%d locals=%d):\n", id, fc.Name, fc.ArgCount, fc.LocalCount)
		Disassemble(w, fc.Body)
	}

	fmt.Fprintln(w, "<top-level>:")
	if len(ev.frames) > 0 {
		Disassemble(w, ev.frames[0].body)
	}
}

// DumpState prints the current frame's next instruction plus the
// shared operand stack and globals, mirroring printCurrentState's
// "next instruction> / registers> / stack>" layout.
func (ev *Evaluator) DumpState(w io.Writer) {
	if len(ev.frames) == 0 {
		fmt.Fprintln(w, "  <call stack empty>")
		return
	}
	top := ev.frames[len(ev.frames)-1]
	if int(top.pc) < len(top.body) {
		op := Opcode(top.body[top.pc])
		fmt.Fprintf(w, "  next instruction> %4d: %s\n", top.pc, op)
	}
	fmt.Fprintln(w, "  operand stack>", ev.operands)
	fmt.Fprintln(w, "  globals>", ev.Globals)
	fmt.Fprintln(w, "  call depth>", len(ev.frames))
}
