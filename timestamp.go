package cdx

import (
	"time"

	"github.com/Velocidex/ordereddict"
)

// DateDecoder reads seven INT16: year, month, day, hour, minute,
// second and millisecond. Dates carry no zone and are taken as UTC.
type DateDecoder struct{}

func (self *DateDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *DateDecoder) Size() int {
	return 14
}

func (self *DateDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 14 {
		return nil, ctx.Fault(KindInvalidLength,
			"date needs 14 bytes, have %d", len(data))
	}

	var fields [7]int
	for i := range fields {
		fields[i] = int(ReadI16(data, i*2))
	}

	// All zero means the writer never set it.
	if fields == [7]int{} {
		return nil, nil
	}

	return time.Date(fields[0], time.Month(fields[1]), fields[2],
		fields[3], fields[4], fields[5], fields[6]*int(time.Millisecond),
		time.UTC), nil
}
