package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raptor-lang/Raptortime/vm"
	"github.com/raptor-lang/Raptortime/vm/asm"
)

func runAndCapture(t *testing.T, data []byte) string {
	t.Helper()
	ev, err := vm.Load(data)
	require.NoError(t, err)

	var out bytes.Buffer
	ev.SetOutput(&out)
	require.NoError(t, ev.Run())
	return out.String()
}

func TestScenarioS1ArithmeticAndPrint(t *testing.T) {
	program := asm.NewProgram().Iconst(3).Iconst(4).Add().Print().Halt().Bytes()
	data := asm.New(0).Program(program).Bytes()
	assert.Equal(t, "PRINT: 7\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioS2Globals(t *testing.T) {
	program := asm.NewProgram().Iconst(42).Store(0).Load(0).Print().Halt().Bytes()
	data := asm.New(1).Program(program).Bytes()
	assert.Equal(t, "PRINT: 42\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioS3ConditionalForwardJump(t *testing.T) {
	skipped := asm.NewProgram().Iconst(1).Print().Halt().Bytes()
	landed := asm.NewProgram().Iconst(2).Print().Halt().Bytes()

	head := asm.NewProgram().Iconst(0).RelJumpEq(uint32(len(skipped) + 1)).Bytes()

	var program []byte
	program = append(program, head...)
	program = append(program, skipped...)
	program = append(program, landed...)

	data := asm.New(0).Program(program).Bytes()
	assert.Equal(t, "PRINT: 2\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioS4FunctionCall(t *testing.T) {
	body := asm.NewProgram().Load(0).Load(1).Sub().Return().Bytes()
	program := asm.NewProgram().Iconst(10).Iconst(3).Call(0).Print().Halt().Bytes()

	data := asm.New(0).
		Func(asm.Func{ID: 0, Name: "sub", ArgCount: 2, LocalCount: 0, Body: body}).
		Program(program).
		Bytes()

	assert.Equal(t, "PRINT: 7\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioS5Comparison(t *testing.T) {
	program := asm.NewProgram().Iconst(5).Iconst(5).CompEq().Print().Halt().Bytes()
	data := asm.New(0).Program(program).Bytes()
	assert.Equal(t, "PRINT: 1\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioS6BadMagic(t *testing.T) {
	data := make([]byte, 8)
	_, err := vm.Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrBadMagic)
}

func TestGlobalsSurviveIntoArithmetic(t *testing.T) {
	program := asm.NewProgram().
		Iconst(41).Store(0).
		Load(0).Iconst(1).Add().Print().
		Halt().Bytes()
	data := asm.New(1).Program(program).Bytes()
	assert.Equal(t, "PRINT: 42\nHALT issued, stopped execution.\n", runAndCapture(t, data))
}

func TestScenarioDivisionByZeroIsFatal(t *testing.T) {
	program := asm.NewProgram().Iconst(0).Iconst(5).Div().Halt().Bytes()
	data := asm.New(0).Program(program).Bytes()

	ev, err := vm.Load(data)
	require.NoError(t, err)
	err = ev.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrDivisionByZero)
}

func TestScenarioUnknownFunctionIdIsFatal(t *testing.T) {
	program := asm.NewProgram().Call(7).Halt().Bytes()
	data := asm.New(0).Program(program).Bytes()

	ev, err := vm.Load(data)
	require.NoError(t, err)
	err = ev.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, vm.ErrBadFunctionId)
}
