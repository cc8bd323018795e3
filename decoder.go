// Implements catalog driven decoding of property values.
package cdx

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Decoders know how to turn the raw bytes of a property into a typed
// value. They are instantiated once per catalog entry and reused for
// every property with that tag.
//
// A decoder returns (nil, nil) when a recoverable fault was reported
// in lenient mode: the field is then left unset.
type Decoder interface {
	Decode(ctx *DecodeContext, data []byte) (interface{}, error)

	// Given options, this returns a new configured decoder
	New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error)
}

// Decoders of fixed width values can report their width so arrays
// can step over them.
type Sizer interface {
	Size() int
}

// Decode various sizes of ints.
type IntDecoder struct {
	type_name string
	size      int
	converter func(buf []byte) interface{}
}

// IntDecoder does not take options
func (self *IntDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *IntDecoder) Size() int {
	return self.size
}

func (self *IntDecoder) String() string {
	return fmt.Sprintf("[%s]", self.type_name)
}

func (self *IntDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < self.size {
		return nil, ctx.Fault(KindInvalidLength,
			"%s needs %d bytes, have %d", self.type_name, self.size, len(data))
	}
	return self.converter(data), nil
}

func NewIntDecoder(type_name string, size int, converter func(buf []byte) interface{}) *IntDecoder {
	return &IntDecoder{
		type_name: type_name,
		size:      size,
		converter: converter,
	}
}

// decodeAs runs a delegate decoder and reports whether it produced a
// value.
func decodeAs(ctx *DecodeContext, decoder Decoder, data []byte) (interface{}, bool, error) {
	value, err := decoder.Decode(ctx, data)
	if err != nil {
		return nil, false, err
	}
	if IsNil(value) {
		return nil, false, nil
	}
	return value, true, nil
}
