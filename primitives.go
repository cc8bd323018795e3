// Little endian primitive readers. None of these check bounds: callers
// must guarantee offset + width <= len(buf).

package cdx

import (
	"encoding/binary"
	"math"
)

func ReadU8(buf []byte, offset int) uint8 {
	return buf[offset]
}

func ReadI8(buf []byte, offset int) int8 {
	return int8(buf[offset])
}

func ReadU16(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset:])
}

func ReadI16(buf []byte, offset int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[offset:]))
}

func ReadU32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset:])
}

func ReadI32(buf []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[offset:]))
}

func ReadU64(buf []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buf[offset:])
}

func ReadI64(buf []byte, offset int) int64 {
	return int64(binary.LittleEndian.Uint64(buf[offset:]))
}

func ReadF64(buf []byte, offset int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[offset:]))
}

// ReadFixed16_16 reads a signed 16.16 fixed point value.
func ReadFixed16_16(buf []byte, offset int) float64 {
	return float64(ReadI32(buf, offset)) / 65536
}
