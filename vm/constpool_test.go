package vm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func funcEntry(id uint32, name string, argCount, localCount uint32, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(constFunc)

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], id)
	buf.Write(u32[:])
	buf.WriteString(name)
	buf.WriteByte(0x00)
	binary.BigEndian.PutUint32(u32[:], argCount)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], localCount)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(len(body)))
	buf.Write(u32[:])
	buf.Write(body)
	return buf.Bytes()
}

func TestDecodeConstantsEmpty(t *testing.T) {
	table, consumed, err := DecodeConstants([]byte{constEnd, 0xAA})
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)
	_, ok := table.Lookup(0)
	assert.False(t, ok)
}

func TestDecodeConstantsSingleFunc(t *testing.T) {
	body := []byte{byte(Load), 0, 0, 0, 0}
	var data []byte
	data = append(data, funcEntry(0, "main", 2, 0, body)...)
	data = append(data, constEnd)

	table, consumed, err := DecodeConstants(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), consumed)

	fc, ok := table.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, "main", fc.Name)
	assert.Equal(t, uint32(2), fc.ArgCount)
	assert.Equal(t, uint32(0), fc.LocalCount)
	assert.Equal(t, body, fc.Body)
}

func TestDecodeConstantsSparseIDs(t *testing.T) {
	var data []byte
	data = append(data, funcEntry(2, "third", 0, 0, nil)...)
	data = append(data, constEnd)

	table, _, err := DecodeConstants(data)
	require.NoError(t, err)

	_, ok := table.Lookup(0)
	assert.False(t, ok)
	_, ok = table.Lookup(1)
	assert.False(t, ok)
	fc, ok := table.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "third", fc.Name)
}

func TestDecodeConstantsUnknownMarkerWarnsAndSkips(t *testing.T) {
	data := []byte{0x77, constEnd}
	table, consumed, err := DecodeConstants(data)
	require.NoError(t, err)
	assert.Equal(t, 2, consumed)
	_, ok := table.Lookup(0)
	assert.False(t, ok)
}

func TestDecodeConstantsTruncated(t *testing.T) {
	_, _, err := DecodeConstants([]byte{constFunc, 0x00, 0x00})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedConstants)
}

func TestDecodeConstantsMissingEnd(t *testing.T) {
	_, _, err := DecodeConstants([]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedConstants)
}
