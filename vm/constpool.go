package vm

import (
	"bytes"
	"encoding/binary"

	"github.com/raptor-lang/Raptortime/vmlog"
)

// Constant-pool stream markers, per the external binary format. These
// are bit-exact and fixed by the format, unlike the Opcode byte values
// in opcode.go which this implementation is free to choose.
const (
	constFunc byte = 0xF0
	constEnd  byte = 0xED
)

// FunctionConstant is a single decoded function definition: its arity,
// local-slot count, and bytecode body. The id is implicit in the
// ConstantTable's index, not stored on the value itself.
type FunctionConstant struct {
	Name       string
	ArgCount   uint32
	LocalCount uint32
	Body       []byte
}

// ConstantTable maps a dense-or-sparse function id to its definition.
// Built once at load time, read only afterwards.
type ConstantTable struct {
	funcs []FunctionConstant
}

// Lookup returns the function constant for id, or ok=false if id was
// never assigned (including ids beyond a sparse table's growth point).
func (t *ConstantTable) Lookup(id uint32) (FunctionConstant, bool) {
	if id >= uint32(len(t.funcs)) {
		return FunctionConstant{}, false
	}
	fc := t.funcs[id]
	if fc.Name == "" && fc.Body == nil {
		return FunctionConstant{}, false
	}
	return fc, true
}

var constpoolLog = vmlog.Component("constpool")

// DecodeConstants reads the constant pool starting at data[0] (which
// must be the first byte after the 8-byte header) until an END marker,
// growing the table to fit sparse ids as FUNC entries are encountered.
// It returns the table and the number of bytes consumed — the offset
// of the first byte of the top-level program bytecode.
func DecodeConstants(data []byte) (*ConstantTable, int, error) {
	table := &ConstantTable{}
	cursor := 0

	for {
		if cursor >= len(data) {
			return nil, 0, wrapStack(ErrTruncatedConstants)
		}

		marker := data[cursor]
		cursor++

		switch marker {
		case constFunc:
			consumed, err := decodeFunc(data[cursor:], table)
			if err != nil {
				return nil, 0, err
			}
			cursor += consumed

		case constEnd:
			return table, cursor, nil

		default:
			constpoolLog.Warn("unrecognized constant-pool marker 0x%02X, skipping one byte", marker)
		}
	}
}

// decodeFunc decodes the body of a single FUNC entry (everything after
// the 0xF0 marker byte) and inserts it into table. It returns the number
// of bytes consumed from body.
func decodeFunc(body []byte, table *ConstantTable) (int, error) {
	const u32Size = 4

	need := func(n int) bool { return len(body) >= n }

	if !need(u32Size) {
		return 0, wrapStack(ErrTruncatedConstants)
	}
	id := binary.BigEndian.Uint32(body[0:u32Size])
	cursor := u32Size

	nameEnd := bytes.IndexByte(body[cursor:], 0x00)
	if nameEnd < 0 {
		return 0, wrapStack(ErrTruncatedConstants)
	}
	name := string(body[cursor : cursor+nameEnd])
	cursor += nameEnd + 1 // skip the null terminator

	if !need(cursor + 3*u32Size) {
		return 0, wrapStack(ErrTruncatedConstants)
	}
	argCount := binary.BigEndian.Uint32(body[cursor : cursor+u32Size])
	cursor += u32Size
	localCount := binary.BigEndian.Uint32(body[cursor : cursor+u32Size])
	cursor += u32Size
	bodyLength := binary.BigEndian.Uint32(body[cursor : cursor+u32Size])
	cursor += u32Size

	if !need(cursor + int(bodyLength)) {
		return 0, wrapStack(ErrTruncatedConstants)
	}
	fnBody := make([]byte, bodyLength)
	copy(fnBody, body[cursor:cursor+int(bodyLength)])
	cursor += int(bodyLength)

	if id >= uint32(len(table.funcs)) {
		grown := make([]FunctionConstant, id+1)
		copy(grown, table.funcs)
		table.funcs = grown
	}
	table.funcs[id] = FunctionConstant{
		Name:       name,
		ArgCount:   argCount,
		LocalCount: localCount,
		Body:       fnBody,
	}
	constpoolLog.Debug("added function %q (id %d) to the constant pool", name, id)

	return cursor, nil
}
