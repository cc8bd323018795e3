package cdx

import (
	"fmt"
	"sync"

	"github.com/Velocidex/ordereddict"
)

// TypedefDecoder is a named decoder with preset options, for example
// "Coordinate" is a Fixed decoder over int32 with divisor 65536.
type TypedefDecoder struct {
	name     string
	delegate string
	options  *ordereddict.Dict
	catalog  *Catalog

	mu      sync.Mutex
	decoder Decoder
}

// Options given at the point of use override the preset ones.
func (self *TypedefDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	if options == nil || options.Len() == 0 {
		return self, nil
	}

	merged := ordereddict.NewDict()
	if self.options != nil {
		for _, k := range self.options.Keys() {
			v, _ := self.options.Get(k)
			merged.Set(k, v)
		}
	}
	for _, k := range options.Keys() {
		v, _ := options.Get(k)
		merged.Set(k, v)
	}

	return &TypedefDecoder{
		name:     self.name,
		delegate: self.delegate,
		options:  merged,
		catalog:  catalog,
	}, nil
}

func (self *TypedefDecoder) getDecoder() (Decoder, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.decoder != nil {
		return self.decoder, nil
	}

	if self.delegate == self.name {
		return nil, fmt.Errorf("typedef %v refers to itself", self.name)
	}

	decoder, err := self.catalog.GetDecoder(self.delegate, self.options)
	if err != nil {
		return nil, fmt.Errorf("typedef %v: %w", self.name, err)
	}

	// Cache the decoder for next time.
	self.decoder = decoder
	return decoder, nil
}

func (self *TypedefDecoder) Size() int {
	decoder, err := self.getDecoder()
	if err != nil {
		return 0
	}
	return SizeOf(decoder)
}

func (self *TypedefDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	decoder, err := self.getDecoder()
	if err != nil {
		return nil, ctx.Fault(KindUndecidable, "%v", err)
	}
	return decoder.Decode(ctx, data)
}
