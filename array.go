package cdx

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

type ArrayDecoderOptions struct {
	Type    string `cdx:"required,field=type,doc=The fixed width element type"`
	Counted bool   `cdx:"optional,field=counted,doc=Elements are preceded by a UINT16 count"`
}

// ArrayDecoder reads consecutive fixed width elements. Without a count
// prefix the element count is implied by the data length.
type ArrayDecoder struct {
	options ArrayDecoderOptions
	decoder Decoder
	size    int
}

func (self *ArrayDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	if options == nil {
		return nil, fmt.Errorf("Array decoder requires a type in the options")
	}

	result := &ArrayDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("ArrayDecoder: %v", err)
	}

	result.decoder, err = catalog.GetDecoder(result.options.Type, nil)
	if err != nil {
		return nil, fmt.Errorf("ArrayDecoder: %w", err)
	}

	result.size = SizeOf(result.decoder)
	if result.size == 0 {
		return nil, fmt.Errorf("ArrayDecoder: %v is not a fixed width type",
			result.options.Type)
	}

	return result, nil
}

func (self *ArrayDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	count, data, err := elementCount(ctx, data, self.size, self.options.Counted)
	if count < 0 {
		return nil, err
	}

	result := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		element, err := self.decoder.Decode(ctx, data[i*self.size:(i+1)*self.size])
		if err != nil {
			return nil, err
		}
		result = append(result, element)
	}

	return result, nil
}

// elementCount works out how many elements of width size the data
// holds, consuming the UINT16 count prefix when counted. A negative
// count means a fault was reported.
func elementCount(ctx *DecodeContext,
	data []byte, size int, counted bool) (int, []byte, error) {
	if !counted {
		if len(data)%size != 0 {
			return -1, nil, ctx.Fault(KindInvalidLength,
				"%d bytes is not a whole number of %d byte elements",
				len(data), size)
		}
		return len(data) / size, data, nil
	}

	if len(data) < 2 {
		return -1, nil, ctx.Fault(KindInvalidLength, "array has no count")
	}

	count := int(ReadU16(data, 0))
	data = data[2:]
	if count*size > len(data) {
		return -1, nil, ctx.Fault(KindInvalidLength,
			"%d elements need %d bytes, have %d", count, count*size, len(data))
	}
	return count, data, nil
}
