package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() *Evaluator {
	ev := newEvaluator()
	ev.Globals = make([]int32, 0)
	return ev
}

func TestExecBinarySubMatchesS4Order(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{name: "f"}

	// S4: CALL pops its first argument (3) into local 0, second (10)
	// into local 1; LOAD 0, LOAD 1, SUB must yield l - r = 10 - 3 = 7.
	ev.pushOperand(3)
	ev.pushOperand(10)

	require.NoError(t, f.execBinary(ev, Sub))
	v, err := ev.popOperand()
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)
}

func TestExecBinaryDivisionByZero(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{name: "f"}
	ev.pushOperand(0)
	ev.pushOperand(5)
	err := f.execBinary(ev, Div)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestExecBinaryUnderflow(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{name: "f"}
	err := f.execBinary(ev, Add)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestExecCompareEqual(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{name: "f"}

	ev.pushOperand(5)
	ev.pushOperand(5)
	require.NoError(t, f.execCompare(ev, CompEq))
	v, _ := ev.popOperand()
	assert.Equal(t, int32(1), v)
}

func TestStoreLoadLocal(t *testing.T) {
	f := &Frame{locals: make([]int32, 2)}
	require.NoError(t, f.storeLocal(1, 99))
	v, err := f.loadLocal(1)
	require.NoError(t, err)
	assert.Equal(t, int32(99), v)
}

func TestStoreLocalOutOfRange(t *testing.T) {
	f := &Frame{locals: make([]int32, 1)}
	err := f.storeLocal(5, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadLocalIndex)
}

func TestStoreGlobalOutOfRange(t *testing.T) {
	f := &Frame{locals: make([]int32, 1), isGlobalFrame: true}
	err := f.storeLocal(5, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadGlobalIndex)
}

func TestRelJumpZeroIsDiscarded(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{body: append([]byte{byte(RelJump)}, fourByteBigEndian(0)...), pc: 1}
	require.NoError(t, f.execRelJump(ev, RelJump))
	assert.EqualValues(t, 5, f.pc) // advanced only past the immediate
}

func TestRelJumpOneIsRedundantButApplied(t *testing.T) {
	ev := newTestEvaluator()
	f := &Frame{body: append([]byte{byte(RelJump)}, fourByteBigEndian(1)...), pc: 1}
	require.NoError(t, f.execRelJump(ev, RelJump))
	assert.EqualValues(t, 5, f.pc) // delta 0: no net movement beyond the immediate
}
