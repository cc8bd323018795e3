package cdx

import (
	"errors"

	"github.com/Velocidex/ordereddict"
)

// A ValueDecoder yields a static value regardless of the data. The
// format uses zero length properties whose mere presence means true.
type ValueDecoder struct {
	value interface{}
}

func (self *ValueDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	if options == nil {
		return nil, errors.New("Value decoder must specify a value")
	}

	value, pres := options.Get("value")
	if !pres || IsNil(value) {
		return nil, errors.New("Value decoder must specify a value")
	}

	return &ValueDecoder{value: value}, nil
}

func (self *ValueDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	return self.value, nil
}
