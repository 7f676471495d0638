package vm

import "encoding/binary"

// Frame is a single activation record: the locals and program counter
// for one call, plus the bytecode it owns. The initial frame built by
// the loader wraps the top-level program; every other frame is created
// by CALL and wraps a copy of a FunctionConstant's body.
type Frame struct {
	name   string
	funcID int32

	body []byte
	pc   uint32

	locals []int32

	// isGlobalFrame is true only for the loader's initial frame, whose
	// locals alias the Evaluator's Globals slice directly — STORE/LOAD
	// against it are global accesses, and out-of-range indices report
	// ErrBadGlobalIndex rather than ErrBadLocalIndex.
	isGlobalFrame bool

	// returnMarker is the operand-stack depth at the moment this frame
	// was entered (after CALL popped its arguments). RETURN truncates
	// the shared operand stack to this depth before pushing its result.
	returnMarker int
}

// dispatchKind identifies what a Frame's Run call asked the Evaluator
// to do to the call stack.
type dispatchKind int

const (
	dispatchYielded dispatchKind = iota // ran off the end of its bytecode
	dispatchHalt
	dispatchPush
	dispatchPop
)

type dispatchResult struct {
	kind     dispatchKind
	newFrame *Frame
	value    *int32
}

// Run decodes and executes instructions from the current program counter
// until an outcome that changes the call stack occurs: HALT, CALL
// (Push), RETURN (Pop with value), or running off the end of the
// bytecode (Pop without value, "Yielded").
func (f *Frame) Run(ev *Evaluator) (dispatchResult, error) {
	for {
		if int(f.pc) >= len(f.body) {
			return dispatchResult{kind: dispatchYielded}, nil
		}

		op := Opcode(f.body[f.pc])
		opPC := f.pc
		f.pc++

		if !op.known() {
			ev.log.Warn("frame %q: unrecognized opcode 0x%02X at pc %d, skipping", f.name, byte(op), opPC)
			continue
		}

		ev.trace(f, op, opPC)

		switch op {
		case Nop:
			// no-op

		case Halt:
			return dispatchResult{kind: dispatchHalt}, nil

		case Iconst:
			imm, err := f.readImmediate()
			if err != nil {
				return dispatchResult{}, err
			}
			ev.pushOperand(int32(imm))

		case Pop:
			if _, err := ev.popOperand(); err != nil {
				return dispatchResult{}, err
			}

		case Add, Sub, Mul, Div, Mod, Shl, Shr, And, Or:
			if err := f.execBinary(ev, op); err != nil {
				return dispatchResult{}, err
			}

		case Not:
			v, err := ev.popOperand()
			if err != nil {
				return dispatchResult{}, err
			}
			ev.pushOperand(^v)

		case Comp, CompLt, CompEq, CompGt:
			if err := f.execCompare(ev, op); err != nil {
				return dispatchResult{}, err
			}

		case RelJump, RelJumpLt, RelJumpEq, RelJumpGt:
			if err := f.execRelJump(ev, op); err != nil {
				return dispatchResult{}, err
			}

		case Store:
			idx, err := f.readImmediate()
			if err != nil {
				return dispatchResult{}, err
			}
			v, err := ev.popOperand()
			if err != nil {
				return dispatchResult{}, err
			}
			if err := f.storeLocal(idx, v); err != nil {
				return dispatchResult{}, err
			}

		case Load:
			idx, err := f.readImmediate()
			if err != nil {
				return dispatchResult{}, err
			}
			v, err := f.loadLocal(idx)
			if err != nil {
				return dispatchResult{}, err
			}
			ev.pushOperand(v)

		case Call:
			id, err := f.readImmediate()
			if err != nil {
				return dispatchResult{}, err
			}
			newFrame, err := ev.prepareCall(id)
			if err != nil {
				return dispatchResult{}, err
			}
			return dispatchResult{kind: dispatchPush, newFrame: newFrame}, nil

		case Return:
			v, err := ev.popOperand()
			if err != nil {
				return dispatchResult{}, err
			}
			ev.truncateOperands(f.returnMarker)
			return dispatchResult{kind: dispatchPop, value: &v}, nil

		case Print:
			v, err := ev.popOperand()
			if err != nil {
				return dispatchResult{}, err
			}
			ev.printValue(v)

		case DumpStack:
			ev.dumpStack()

		case DumpGlobals:
			ev.dumpGlobals()

		default:
			ev.log.Warn("frame %q: opcode %s has no dispatch case, skipping", f.name, op)
		}
	}
}

// readImmediate decodes the 4-byte big-endian immediate following the
// opcode just consumed, advancing pc past it.
func (f *Frame) readImmediate() (uint32, error) {
	if int(f.pc)+4 > len(f.body) {
		return 0, wrapStack(ErrTruncatedBytecode)
	}
	v := binary.BigEndian.Uint32(f.body[f.pc : f.pc+4])
	f.pc += 4
	return v, nil
}

// execBinary implements ADD/SUB/MUL/DIV/MOD/SHL/SHR/AND/OR. The operand
// popped first is bound to l, the operand popped second to r, and the
// result pushed is l <op> r — not the mirror-image binding the opcode
// names might suggest. See S4 in the worked examples: CALL loads its
// first-popped argument into local 0 and its second-popped argument
// into local 1, and the callee's LOAD 0, LOAD 1, SUB must compute
// local1 − local0 to match the documented result.
func (f *Frame) execBinary(ev *Evaluator, op Opcode) error {
	l, err := ev.popOperand()
	if err != nil {
		return err
	}
	r, err := ev.popOperand()
	if err != nil {
		return err
	}

	var result int32
	switch op {
	case Add:
		result = l + r
	case Sub:
		result = l - r
	case Mul:
		result = l * r
	case Div:
		if r == 0 {
			return wrapStack(ErrDivisionByZero)
		}
		result = l / r
	case Mod:
		if r == 0 {
			return wrapStack(ErrDivisionByZero)
		}
		result = l % r
	case Shl:
		result = int32(uint32(l) << (uint32(r) & 31))
	case Shr:
		result = int32(uint32(l) >> (uint32(r) & 31))
	case And:
		result = l & r
	case Or:
		result = l | r
	}
	ev.pushOperand(result)
	return nil
}

// execCompare implements COMP (three-way: -1/0/1) and the COMP_LT/EQ/GT
// shorthands, which push 1 or 0. Same l/r binding as execBinary.
func (f *Frame) execCompare(ev *Evaluator, op Opcode) error {
	l, err := ev.popOperand()
	if err != nil {
		return err
	}
	r, err := ev.popOperand()
	if err != nil {
		return err
	}

	switch op {
	case Comp:
		switch {
		case l < r:
			ev.pushOperand(-1)
		case l > r:
			ev.pushOperand(1)
		default:
			ev.pushOperand(0)
		}
	case CompLt:
		ev.pushOperand(boolToI32(l < r))
	case CompEq:
		ev.pushOperand(boolToI32(l == r))
	case CompGt:
		ev.pushOperand(boolToI32(l > r))
	}
	return nil
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// execRelJump implements RELJUMP and its conditional variants. The
// immediate k encodes a signed delta as k-1: k=0 is an invalid jump
// (warned, discarded — the PC is left pointing at the next instruction
// as if the jump had never been decoded), k=1 is a redundant jump
// (warned, but still applied — delta 0 is a genuine no-op), k>=2
// advances the PC by k-1 bytes relative to the position immediately
// after the 4-byte immediate.
func (f *Frame) execRelJump(ev *Evaluator, op Opcode) error {
	imm, err := f.readImmediate()
	if err != nil {
		return err
	}

	taken := true
	switch op {
	case RelJumpLt, RelJumpEq, RelJumpGt:
		tv, err := ev.popOperand()
		if err != nil {
			return err
		}
		switch op {
		case RelJumpLt:
			taken = tv < 0
		case RelJumpEq:
			taken = tv == 0
		case RelJumpGt:
			taken = tv > 0
		}
	}

	if imm == 0 {
		ev.log.Warn("frame %q: RELJUMP immediate 0 is invalid, jump discarded", f.name)
		return nil
	}
	if imm == 1 {
		ev.log.Warn("frame %q: RELJUMP immediate 1 is redundant", f.name)
	}
	if !taken {
		return nil
	}

	delta := int64(int32(imm - 1))
	newPC := int64(f.pc) + delta
	if newPC < 0 || newPC > int64(len(f.body)) {
		return wrapStack(ErrTruncatedBytecode)
	}
	f.pc = uint32(newPC)
	return nil
}

func (f *Frame) storeLocal(idx uint32, v int32) error {
	if int(idx) >= len(f.locals) {
		if f.isGlobalFrame {
			return wrapStack(ErrBadGlobalIndex)
		}
		return wrapStack(ErrBadLocalIndex)
	}
	f.locals[idx] = v
	return nil
}

func (f *Frame) loadLocal(idx uint32) (int32, error) {
	if int(idx) >= len(f.locals) {
		if f.isGlobalFrame {
			return 0, wrapStack(ErrBadGlobalIndex)
		}
		return 0, wrapStack(ErrBadLocalIndex)
	}
	return f.locals[idx], nil
}
