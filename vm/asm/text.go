package asm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/raptor-lang/Raptortime/vm"
)

// Parse assembles the small line-oriented text dialect named in the
// engine's frontend notes into a RaptorScript bytecode body: one
// instruction per line, `OPCODE` or `OPCODE ARG`, blank lines and `#`
// comments ignored, and a trailing `label:` line marks the following
// instruction's address as a jump target. ARG is a decimal or `0x`-
// prefixed integer for every opcode except the relative-jump family,
// where it may instead name a label — resolved to the signed delta the
// RELJUMP encoding expects (see vm/frame.go's execRelJump). This is not
// a compiler front end: no expressions, no registers, no directives
// beyond labels — exactly enough to hand-author fixtures without
// packing bytes by hand, matching the teacher's own label-resolving
// two-pass assembler in compile.go.
func Parse(src string) ([]byte, error) {
	type instr struct {
		op      vm.Opcode
		argText string
		offset  int // byte offset of this instruction's opcode byte
	}

	labels := make(map[string]int)
	var instrs []instr
	offset := 0

	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			name := strings.TrimSuffix(line, ":")
			if strings.ContainsAny(name, " \t") {
				return nil, errors.Errorf("line %d: invalid label %q", lineNo+1, name)
			}
			labels[name] = offset
			continue
		}

		fields := strings.Fields(line)
		mnemonic := strings.ToLower(fields[0])
		op, ok := vm.OpcodeByMnemonic(mnemonic)
		if !ok {
			return nil, errors.Errorf("line %d: unknown mnemonic %q", lineNo+1, fields[0])
		}

		var argText string
		if len(fields) > 1 {
			argText = fields[1]
		}
		if op.HasImmediate() && argText == "" {
			return nil, errors.Errorf("line %d: %s requires an argument", lineNo+1, mnemonic)
		}
		if !op.HasImmediate() && argText != "" {
			return nil, errors.Errorf("line %d: %s takes no argument", lineNo+1, mnemonic)
		}

		instrs = append(instrs, instr{op: op, argText: argText, offset: offset})
		offset++
		if op.HasImmediate() {
			offset += 4
		}
	}

	isRelJump := func(op vm.Opcode) bool {
		switch op {
		case vm.RelJump, vm.RelJumpLt, vm.RelJumpEq, vm.RelJumpGt:
			return true
		default:
			return false
		}
	}

	var out []byte
	for _, in := range instrs {
		out = append(out, byte(in.op))
		if !in.op.HasImmediate() {
			continue
		}

		var imm uint32
		if target, ok := labels[in.argText]; ok && isRelJump(in.op) {
			pcAfterImmediate := in.offset + 5
			delta := int64(target - pcAfterImmediate)
			imm = uint32(int32(delta + 1))
		} else {
			v, err := parseImmediate(in.argText)
			if err != nil {
				return nil, errors.Wrapf(err, "offset %d", in.offset)
			}
			imm = v
		}

		var u32 [4]byte
		binary.BigEndian.PutUint32(u32[:], imm)
		out = append(out, u32[:]...)
	}

	return out, nil
}

func parseImmediate(text string) (uint32, error) {
	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		return uint32(int32(v)), nil
	}
	return 0, fmt.Errorf("not an integer or known label: %q", text)
}

// AssembleArtifact parses src as a top-level program and wraps it in a
// complete artifact with varCount globals and an empty constant pool —
// enough for fixtures that don't need CALL into a separate function.
func AssembleArtifact(varCount uint32, src string) ([]byte, error) {
	body, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return New(varCount).Program(body).Bytes(), nil
}
