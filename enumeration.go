package cdx

import (
	"fmt"
	"strconv"

	"github.com/Velocidex/ordereddict"
)

type EnumerationDecoderOptions struct {
	Type    string
	Choices map[int64]string
}

type EnumerationDecoder struct {
	options EnumerationDecoderOptions
	decoder Decoder
}

func (self *EnumerationDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	var pres bool

	if options == nil {
		return nil, fmt.Errorf("Enumeration decoder requires an options dict")
	}

	result := &EnumerationDecoder{}
	result.options.Type, pres = options.GetString("type")
	if !pres {
		return nil, fmt.Errorf("Enumeration decoder requires a type in the options")
	}

	mapping := make(map[int64]string)

	// Support 2 ways of providing the mapping - choices has ints
	// as keys and map has strings as keys.
	choices, pres := options.Get("choices")
	if pres {
		choices_dict, ok := choices.(*ordereddict.Dict)
		if !ok {
			return nil, fmt.Errorf("Enumeration decoder requires choices to be a mapping between numbers and strings")
		}

		for _, k := range choices_dict.Keys() {
			v, _ := choices_dict.Get(k)
			i, err := strconv.ParseInt(k, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("Enumeration decoder requires choices to be a mapping between numbers and strings (not %v)", k)
			}

			v_str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("Enumeration decoder requires choices to be a mapping between numbers and strings")
			}

			mapping[i] = v_str
		}
	}

	choices, pres = options.Get("map")
	if pres {
		choices_dict, ok := choices.(*ordereddict.Dict)
		if !ok {
			return nil, fmt.Errorf("Enumeration decoder requires map to be a mapping between strings and numbers")
		}
		for _, k := range choices_dict.Keys() {
			v, _ := choices_dict.Get(k)
			v_int, ok := to_int64(v)
			if !ok {
				return nil, fmt.Errorf("Enumeration decoder requires map to be a mapping between strings and numbers")
			}

			mapping[v_int] = k
		}
	}

	result.options.Choices = mapping

	decoder, err := catalog.GetDecoder(result.options.Type, nil)
	if err != nil {
		return nil, fmt.Errorf("Enumeration: %w", err)
	}
	result.decoder = decoder

	return result, nil
}

func (self *EnumerationDecoder) Size() int {
	return SizeOf(self.decoder)
}

// An unknown value is reported and, when tolerated, kept as its hex
// representation.
func (self *EnumerationDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	raw, ok, err := decodeAs(ctx, self.decoder, data)
	if !ok {
		return nil, err
	}

	value, ok := to_int64(raw)
	if !ok {
		return nil, ctx.Fault(KindUndecidable,
			"%v does not produce an integer", self.options.Type)
	}

	string_value, pres := self.options.Choices[value]
	if pres {
		return string_value, nil
	}

	err = ctx.Fault(KindInvalidEnum, "value %d is not a known choice", value)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%#x", value), nil
}
