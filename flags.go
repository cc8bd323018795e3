package cdx

import (
	"fmt"
	"sort"

	"github.com/Velocidex/ordereddict"
)

// Accepts option bitmap: name (string) -> bit number
type FlagsOptions struct {
	Type   string            `cdx:"required,field=type,doc=The underlying integer type"`
	Bitmap *ordereddict.Dict `cdx:"required,field=bitmap,doc=A mapping between names and the bit number"`

	bits   []uint64
	bitmap map[uint64]string
}

type Flags struct {
	options FlagsOptions
	decoder Decoder
}

func (self *Flags) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	if options == nil {
		return nil, fmt.Errorf("Flags decoder requires a type in the options")
	}

	result := &Flags{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("Flags: %v", err)
	}
	result.options.bitmap = make(map[uint64]string)

	for _, name := range result.options.Bitmap.Keys() {
		idx_any, _ := result.options.Bitmap.Get(name)
		idx, ok := to_int64(idx_any)
		if !ok || idx < 0 || idx >= 64 {
			return nil, fmt.Errorf(
				"Flags decoder requires bit numbers between 0 and 63")
		}

		result.options.bitmap[uint64(1)<<idx] = name
		result.options.bits = append(result.options.bits, uint64(1)<<idx)
	}

	// Flags only operate on integer types so the type must exist at
	// definition time.
	result.decoder, err = catalog.GetDecoder(result.options.Type, nil)
	return result, err
}

func (self *Flags) Size() int {
	return SizeOf(self.decoder)
}

func (self *Flags) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	value, ok, err := decodeAs(ctx, self.decoder, data)
	if !ok {
		return nil, err
	}

	bits, ok := to_int64(value)
	if !ok {
		return nil, ctx.Fault(KindUndecidable,
			"%v does not produce an integer", self.options.Type)
	}

	result := []string{}
	for _, idx := range self.options.bits {
		if idx&uint64(bits) != 0 {
			result = append(result, self.options.bitmap[idx])
		}
	}

	// Sort result to maintain stable output.
	sort.Strings(result)
	return result, nil
}
