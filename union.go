package cdx

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/Velocidex/ordereddict"
)

// Union picks a decoder by the length of the property data. Some
// integer properties changed width between format versions, so the
// stored length is the only reliable selector.
type Union struct {
	choice_names *ordereddict.Dict
	catalog      *Catalog

	mu      sync.Mutex
	choices map[int]Decoder
}

func (self *Union) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	if options == nil {
		return nil, fmt.Errorf("Union decoder requires options")
	}

	choices, pres := options.Get("choices")
	if !pres {
		return nil, fmt.Errorf("Union decoder requires choices")
	}

	choices_dict, ok := choices.(*ordereddict.Dict)
	if !ok {
		return nil, fmt.Errorf("Union decoder requires choices to be a mapping between lengths and types")
	}

	for _, k := range choices_dict.Keys() {
		if k == "default" {
			continue
		}
		_, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("Union decoder choice %v is not a length", k)
		}
	}

	return &Union{
		// Map the length to the name of the type
		choice_names: choices_dict,

		// Map the length to the actual decoder
		choices: make(map[int]Decoder),
		catalog: catalog,
	}, nil
}

func (self *Union) getDecoder(length int) (Decoder, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	decoder, pres := self.choices[length]
	if pres {
		return decoder, nil
	}

	decoder_name, pres := self.choice_names.GetString(strconv.Itoa(length))
	if !pres {
		// Try the default
		decoder_name, pres = self.choice_names.GetString("default")
		if !pres {
			return nil, nil
		}
	}

	// Resolve the decoder from the catalog
	decoder, err := self.catalog.GetDecoder(decoder_name, ordereddict.NewDict())
	if err != nil {
		return nil, err
	}

	self.choices[length] = decoder
	return decoder, nil
}

func (self *Union) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	decoder, err := self.getDecoder(len(data))
	if err != nil {
		return nil, ctx.Fault(KindUndecidable, "%v", err)
	}

	if decoder == nil {
		return nil, ctx.Fault(KindInvalidLength,
			"no choice for a %d byte value", len(data))
	}

	return decoder.Decode(ctx, data)
}
