package cdx

import (
	"github.com/Velocidex/ordereddict"
)

// A decoder that always returns nothing. Used for tags the catalog
// knows about but which carry nothing worth keeping.
type NullDecoder struct{}

func (self NullDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return NullDecoder{}, nil
}

func (self NullDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	return nil, nil
}
