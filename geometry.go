package cdx

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Point2D is stored vertical first: y then x.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rect is stored as top, left, bottom, right.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

func (self Rect) Width() float64 {
	return self.Right - self.Left
}

func (self Rect) Height() float64 {
	return self.Bottom - self.Top
}

type FixedDecoderOptions struct {
	Type    string  `cdx:"optional,field=type,doc=Underlying integer type (default int32)"`
	Divisor float64 `cdx:"optional,field=divisor,doc=The stored integer is divided by this (default 65536)"`
}

// FixedDecoder scales a stored integer into a real number. The divisor
// is a property of each catalog entry: 65536 for coordinates and
// angles, 10 for tenths, 100 for hundredths.
type FixedDecoder struct {
	options FixedDecoderOptions
	decoder Decoder
	size    int
}

func (self *FixedDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	result := &FixedDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("FixedDecoder: %v", err)
	}

	if result.options.Type == "" {
		result.options.Type = "int32"
	}

	if result.options.Divisor == 0 {
		result.options.Divisor = 65536
	}

	// Fixed values only wrap primitive integers which are always
	// available.
	result.decoder, err = catalog.GetDecoder(result.options.Type, nil)
	if err != nil {
		return nil, fmt.Errorf("FixedDecoder: %w", err)
	}

	result.size = SizeOf(result.decoder)
	if result.size == 0 {
		return nil, fmt.Errorf("FixedDecoder: %v is not a fixed width type",
			result.options.Type)
	}

	return result, nil
}

func (self *FixedDecoder) Size() int {
	return self.size
}

func (self *FixedDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	value, ok, err := decodeAs(ctx, self.decoder, data)
	if !ok {
		return nil, err
	}

	number, ok := to_float64(value)
	if !ok {
		return nil, ctx.Fault(KindUndecidable,
			"%v does not produce a number", self.options.Type)
	}
	return number / self.options.Divisor, nil
}

type componentOptions struct {
	Type string `cdx:"optional,field=type,doc=Decoder for each component (default Coordinate)"`
}

// components decodes count consecutive fixed width reals.
type components struct {
	count   int
	decoder Decoder
	width   int
}

func newComponents(catalog *Catalog, options *ordereddict.Dict,
	count int, name string) (*components, error) {
	var opts componentOptions
	err := ParseOptions(options, &opts)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", name, err)
	}

	if opts.Type == "" {
		opts.Type = "Coordinate"
	}

	decoder, err := catalog.GetDecoder(opts.Type, nil)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}

	width := SizeOf(decoder)
	if width == 0 {
		return nil, fmt.Errorf("%v: %v is not a fixed width type", name, opts.Type)
	}

	return &components{
		count:   count,
		decoder: decoder,
		width:   width,
	}, nil
}

func (self *components) Size() int {
	return self.count * self.width
}

func (self *components) decode(ctx *DecodeContext, data []byte) ([]float64, error) {
	if len(data) < self.Size() {
		return nil, ctx.Fault(KindInvalidLength,
			"need %d bytes, have %d", self.Size(), len(data))
	}

	result := make([]float64, 0, self.count)
	for i := 0; i < self.count; i++ {
		value, ok, err := decodeAs(ctx, self.decoder, data[i*self.width:])
		if !ok {
			return nil, err
		}
		number, _ := to_float64(value)
		result = append(result, number)
	}
	return result, nil
}

type Point2DDecoder struct {
	components *components
}

func (self *Point2DDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	c, err := newComponents(catalog, options, 2, "Point2D")
	if err != nil {
		return nil, err
	}
	return &Point2DDecoder{components: c}, nil
}

func (self *Point2DDecoder) Size() int {
	return self.components.Size()
}

func (self *Point2DDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	values, err := self.components.decode(ctx, data)
	if values == nil {
		return nil, err
	}
	return Point2D{Y: values[0], X: values[1]}, nil
}

type Point3DDecoder struct {
	components *components
}

func (self *Point3DDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	c, err := newComponents(catalog, options, 3, "Point3D")
	if err != nil {
		return nil, err
	}
	return &Point3DDecoder{components: c}, nil
}

func (self *Point3DDecoder) Size() int {
	return self.components.Size()
}

func (self *Point3DDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	values, err := self.components.decode(ctx, data)
	if values == nil {
		return nil, err
	}
	return Point3D{X: values[0], Y: values[1], Z: values[2]}, nil
}

type RectDecoder struct {
	components *components
}

func (self *RectDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	c, err := newComponents(catalog, options, 4, "Rect")
	if err != nil {
		return nil, err
	}
	return &RectDecoder{components: c}, nil
}

func (self *RectDecoder) Size() int {
	return self.components.Size()
}

func (self *RectDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	values, err := self.components.decode(ctx, data)
	if values == nil {
		return nil, err
	}
	return Rect{
		Top:    values[0],
		Left:   values[1],
		Bottom: values[2],
		Right:  values[3],
	}, nil
}
