// Package asm builds valid RaptorScript binary artifacts, either
// programmatically via Builder/Program or from the line-oriented text
// dialect in text.go, and backs the "raptorscript asm" subcommand. It
// is not the producer-side compiler named out of scope by the core
// engine — the text dialect has no expressions or registers, only
// opcodes, immediates, and labels.
package asm

import (
	"bytes"
	"encoding/binary"

	"github.com/raptor-lang/Raptortime/vm"
)

const (
	headerMagic uint32 = 0x5AB70500
	constFunc   byte   = 0xF0
	constEnd    byte   = 0xED
)

// Func describes one constant-pool function entry to be emitted.
type Func struct {
	ID         uint32
	Name       string
	ArgCount   uint32
	LocalCount uint32
	Body       []byte
}

// Builder accumulates a header, a set of function constants, and a
// top-level program body, then renders them into a single byte slice
// matching the loader's expected layout.
type Builder struct {
	varCount uint32
	funcs    []Func
	program  []byte
}

// New starts a builder for an artifact whose header declares varCount
// global variable slots.
func New(varCount uint32) *Builder {
	return &Builder{varCount: varCount}
}

// Func registers a function constant; call order has no effect on the
// emitted id, which is taken from fn.ID.
func (b *Builder) Func(fn Func) *Builder {
	b.funcs = append(b.funcs, fn)
	return b
}

// Program sets the top-level program bytecode.
func (b *Builder) Program(body []byte) *Builder {
	b.program = body
	return b
}

// Bytes renders the accumulated header, constant pool, and program into
// a complete artifact.
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], headerMagic)
	out.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], b.varCount)
	out.Write(u32[:])

	for _, fn := range b.funcs {
		out.WriteByte(constFunc)
		binary.BigEndian.PutUint32(u32[:], fn.ID)
		out.Write(u32[:])
		out.WriteString(fn.Name)
		out.WriteByte(0x00)
		binary.BigEndian.PutUint32(u32[:], fn.ArgCount)
		out.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], fn.LocalCount)
		out.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], uint32(len(fn.Body)))
		out.Write(u32[:])
		out.Write(fn.Body)
	}
	out.WriteByte(constEnd)

	out.Write(b.program)

	return out.Bytes()
}

// Program is a fluent bytecode-body builder for hand-assembling a
// single function or top-level program without spelling out raw bytes.
type Program struct {
	buf bytes.Buffer
}

func NewProgram() *Program { return &Program{} }

func (p *Program) op(op vm.Opcode) *Program {
	p.buf.WriteByte(byte(op))
	return p
}

func (p *Program) opImm(op vm.Opcode, imm uint32) *Program {
	p.buf.WriteByte(byte(op))
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], imm)
	p.buf.Write(u32[:])
	return p
}

func (p *Program) Nop() *Program             { return p.op(vm.Nop) }
func (p *Program) Halt() *Program             { return p.op(vm.Halt) }
func (p *Program) Iconst(v int32) *Program    { return p.opImm(vm.Iconst, uint32(v)) }
func (p *Program) Pop() *Program              { return p.op(vm.Pop) }
func (p *Program) Add() *Program              { return p.op(vm.Add) }
func (p *Program) Sub() *Program              { return p.op(vm.Sub) }
func (p *Program) Mul() *Program              { return p.op(vm.Mul) }
func (p *Program) Div() *Program              { return p.op(vm.Div) }
func (p *Program) Mod() *Program              { return p.op(vm.Mod) }
func (p *Program) Shl() *Program              { return p.op(vm.Shl) }
func (p *Program) Shr() *Program              { return p.op(vm.Shr) }
func (p *Program) And() *Program              { return p.op(vm.And) }
func (p *Program) Or() *Program               { return p.op(vm.Or) }
func (p *Program) Not() *Program              { return p.op(vm.Not) }
func (p *Program) Comp() *Program             { return p.op(vm.Comp) }
func (p *Program) CompLt() *Program           { return p.op(vm.CompLt) }
func (p *Program) CompEq() *Program           { return p.op(vm.CompEq) }
func (p *Program) CompGt() *Program           { return p.op(vm.CompGt) }
func (p *Program) RelJump(k uint32) *Program  { return p.opImm(vm.RelJump, k) }
func (p *Program) RelJumpLt(k uint32) *Program { return p.opImm(vm.RelJumpLt, k) }
func (p *Program) RelJumpEq(k uint32) *Program { return p.opImm(vm.RelJumpEq, k) }
func (p *Program) RelJumpGt(k uint32) *Program { return p.opImm(vm.RelJumpGt, k) }
func (p *Program) Store(idx uint32) *Program  { return p.opImm(vm.Store, idx) }
func (p *Program) Load(idx uint32) *Program   { return p.opImm(vm.Load, idx) }
func (p *Program) Call(id uint32) *Program    { return p.opImm(vm.Call, id) }
func (p *Program) Return() *Program           { return p.op(vm.Return) }
func (p *Program) Print() *Program            { return p.op(vm.Print) }
func (p *Program) DumpStack() *Program        { return p.op(vm.DumpStack) }
func (p *Program) DumpGlobals() *Program      { return p.op(vm.DumpGlobals) }

// Bytes returns the assembled instruction stream.
func (p *Program) Bytes() []byte { return p.buf.Bytes() }
