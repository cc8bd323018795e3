package cdx

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encoder writes the TLV framing of a document. It only knows about
// tags, ids and raw property bytes and is used to build fixtures.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder writes the header and opens the root object.
func NewEncoder(root_tag uint16, id uint32) *Encoder {
	result := &Encoder{}
	result.buf.WriteString(Signature)
	result.buf.Write(make([]byte, HeaderSize-len(Signature)))
	result.putU16(root_tag)
	result.putU32(id)
	return result
}

func (self *Encoder) putU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	self.buf.Write(b[:])
}

func (self *Encoder) putU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	self.buf.Write(b[:])
}

func (self *Encoder) BeginObject(tag uint16, id uint32) *Encoder {
	self.putU16(tag)
	self.putU32(id)
	return self
}

func (self *Encoder) EndObject() *Encoder {
	self.putU16(EndObjectTag)
	return self
}

// Property writes one property, escaping lengths that do not fit
// below 0xFFFF.
func (self *Encoder) Property(tag uint16, data []byte) *Encoder {
	self.putU16(tag)
	if len(data) >= int(lengthEscape) {
		self.putU16(lengthEscape)
		self.putU32(uint32(len(data)))
	} else {
		self.putU16(uint16(len(data)))
	}
	self.buf.Write(data)
	return self
}

func (self *Encoder) Bytes() []byte {
	return self.buf.Bytes()
}

// Value builders for property payloads.

func U16Bytes(values ...uint16) []byte {
	result := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(result[2*i:], v)
	}
	return result
}

func U32Bytes(values ...uint32) []byte {
	result := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(result[4*i:], v)
	}
	return result
}

func F64Bytes(v float64) []byte {
	result := make([]byte, 8)
	binary.LittleEndian.PutUint64(result, math.Float64bits(v))
	return result
}

// FixedBytes encodes reals as 32 bit integers scaled by divisor.
func FixedBytes(divisor float64, values ...float64) []byte {
	result := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(result[4*i:],
			uint32(int32(math.Round(v*divisor))))
	}
	return result
}

func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
