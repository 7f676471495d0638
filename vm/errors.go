package vm

import "github.com/pkg/errors"

// Fatal error kinds, per the engine's error taxonomy. Each is a sentinel
// so callers can compare with errors.Is even after a call site has
// wrapped it with pkg/errors to attach a stack trace and context.
var (
	ErrBadHeaderSize      = errors.New("bad header size")
	ErrBadMagic           = errors.New("bad magic")
	ErrTruncatedConstants = errors.New("truncated constant pool")
	ErrTruncatedBytecode  = errors.New("truncated bytecode or out-of-range jump target")
	ErrStackUnderflow     = errors.New("operand stack underflow")
	ErrBadLocalIndex      = errors.New("local index out of range")
	ErrBadGlobalIndex     = errors.New("global index out of range")
	ErrBadFunctionId      = errors.New("call references unknown function id")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrStackOverflow      = errors.New("call stack overflow")

	// errProgramHalted is not part of the fatal taxonomy in spec §7 and no
	// code path returns it: HALT reaches the evaluator as a dispatchHalt
	// result, which Run turns into a clean nil return.
	errProgramHalted = errors.New("halt issued")
)

// wrapAt annotates a fatal error with the frame and program-counter
// position it occurred at, mirroring the teacher's formatInstructionStr
// diagnostic convention. It adds no stack trace of its own; one attached
// earlier by wrapStack is preserved.
func wrapAt(err error, frameDepth int, pc uint32) error {
	return errors.WithMessagef(err, "at frame %d, pc %d", frameDepth, pc)
}

// wrapStack attaches a stack trace to a sentinel error without frame
// context, for failures that occur before any frame exists (header and
// constant-pool decoding).
func wrapStack(err error) error {
	return errors.WithStack(err)
}
