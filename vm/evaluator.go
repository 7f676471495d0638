package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/raptor-lang/Raptortime/vmlog"
)

// Evaluator owns the state shared across every frame in a run: the
// operand stack, globals, constant pool, and call stack. Frames own
// their own locals and bytecode; everything else lives here.
type Evaluator struct {
	Header    Header
	Constants *ConstantTable

	Globals  []int32
	operands []int32

	frames []*Frame

	// MaxCallDepth bounds the call stack; 0 means unbounded, matching
	// the source's lack of a recursion guard.
	MaxCallDepth int

	// Debug enables per-instruction tracing to the evaluator's logger.
	Debug bool

	out io.Writer
	log *vmlog.Logger
}

// SetOutput redirects PRINT and DUMP_* output; it defaults to os.Stdout.
func (ev *Evaluator) SetOutput(w io.Writer) { ev.out = w }

// Run drives the call-stack loop described in the evaluator design:
// repeatedly dispatch the topmost frame until the call stack empties or
// a fatal error occurs.
func (ev *Evaluator) Run() error {
	for len(ev.frames) > 0 {
		top := ev.frames[len(ev.frames)-1]

		result, err := top.Run(ev)
		if err != nil {
			return wrapAt(err, len(ev.frames)-1, top.pc)
		}

		switch result.kind {
		case dispatchHalt:
			ev.printHalt()
			ev.log.Info("halt issued, stopped execution")
			return nil

		case dispatchPush:
			if ev.MaxCallDepth > 0 && len(ev.frames) >= ev.MaxCallDepth {
				return wrapAt(ErrStackOverflow, len(ev.frames), result.newFrame.pc)
			}
			ev.frames = append(ev.frames, result.newFrame)

		case dispatchPop, dispatchYielded:
			ev.frames = ev.frames[:len(ev.frames)-1]
			if result.value != nil {
				ev.pushOperand(*result.value)
			}
		}
	}
	return nil
}

// prepareCall looks up function id in the constant table and builds the
// Frame CALL pushes: arg_count values are popped off the operand stack
// into locals[0..arg_count) in pop order (locals[0] receives the value
// popped first, i.e. the last-pushed argument), the remaining
// arg_count+local_count-arg_count slots are zero, and return_marker is
// the operand-stack depth after the pops.
func (ev *Evaluator) prepareCall(id uint32) (*Frame, error) {
	fc, ok := ev.Constants.Lookup(id)
	if !ok {
		return nil, wrapStack(ErrBadFunctionId)
	}

	locals := make([]int32, fc.ArgCount+fc.LocalCount)
	for i := uint32(0); i < fc.ArgCount; i++ {
		v, err := ev.popOperand()
		if err != nil {
			return nil, err
		}
		locals[i] = v
	}

	body := make([]byte, len(fc.Body))
	copy(body, fc.Body)

	return &Frame{
		name:         fc.Name,
		funcID:       int32(id),
		body:         body,
		locals:       locals,
		returnMarker: len(ev.operands),
	}, nil
}

func (ev *Evaluator) pushOperand(v int32) {
	ev.operands = append(ev.operands, v)
}

func (ev *Evaluator) popOperand() (int32, error) {
	if len(ev.operands) == 0 {
		return 0, wrapStack(ErrStackUnderflow)
	}
	v := ev.operands[len(ev.operands)-1]
	ev.operands = ev.operands[:len(ev.operands)-1]
	return v, nil
}

func (ev *Evaluator) truncateOperands(depth int) {
	if depth < len(ev.operands) {
		ev.operands = ev.operands[:depth]
	}
}

func (ev *Evaluator) printValue(v int32) {
	fmt.Fprintf(ev.out, "PRINT: %d\n", v)
}

func (ev *Evaluator) dumpStack() {
	fmt.Fprintf(ev.out, "operand stack (top last): %v\n", ev.operands)
}

func (ev *Evaluator) dumpGlobals() {
	fmt.Fprintf(ev.out, "globals: %v\n", ev.Globals)
}

// printHalt announces a HALT the same way the source interpreter's
// println! did, on the program's output stream rather than the log.
func (ev *Evaluator) printHalt() {
	fmt.Fprintln(ev.out, "HALT issued, stopped execution.")
}

// trace emits a per-instruction diagnostic when Debug is set, mirroring
// the teacher's single-step print-before-execute convention.
func (ev *Evaluator) trace(f *Frame, op Opcode, pc uint32) {
	if !ev.Debug {
		return
	}
	ev.log.Debug("frame %q pc=%d: %s", f.name, pc, op)
}

func newEvaluator() *Evaluator {
	return &Evaluator{
		out: os.Stdout,
		log: vmlog.Component("evaluator"),
	}
}
