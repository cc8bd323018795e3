package cdx

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// Register the formats image.DecodeConfig can probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Velocidex/ordereddict"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// DEFLATE can not expand data by more than this factor. A larger
// claimed size means the companion size property is corrupt.
const maxInflateRatio = 1032

// BytesDecoder keeps the raw property data.
type BytesDecoder struct{}

func (self *BytesDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *BytesDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Picture is embedded image data. Format and dimensions are only known
// for formats Go can probe, metafiles and PICT stay opaque.
type Picture struct {
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Length int    `json:"length"`
	Data   []byte `json:"-"`
}

type PictureDecoderOptions struct {
	Format string `cdx:"optional,field=format,doc=Format name used when the data can not be probed"`
}

type PictureDecoder struct {
	options PictureDecoderOptions
}

func (self *PictureDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	result := &PictureDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("PictureDecoder: %v", err)
	}
	return result, nil
}

func (self *PictureDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	result := &Picture{
		Format: self.options.Format,
		Length: len(data),
		Data:   make([]byte, len(data)),
	}
	copy(result.Data, data)

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		result.Format = format
		result.Width = config.Width
		result.Height = config.Height
	}

	return result, nil
}

type CompressedDecoderOptions struct {
	SizeProperty string `cdx:"required,field=size_property,doc=Name of the sibling property holding the uncompressed size"`
	Type         string `cdx:"optional,field=type,doc=Decoder applied to the inflated data (default Bytes)"`
}

// CompressedDecoder inflates zlib or raw DEFLATE data into exactly the
// number of bytes given by a companion property of the same object.
type CompressedDecoder struct {
	options CompressedDecoderOptions
	decoder Decoder
}

func (self *CompressedDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	result := &CompressedDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("CompressedDecoder: %v", err)
	}

	if result.options.Type == "" {
		result.options.Type = "Bytes"
	}

	result.decoder, err = catalog.GetDecoder(result.options.Type, nil)
	if err != nil {
		return nil, fmt.Errorf("CompressedDecoder: %w", err)
	}
	return result, nil
}

func (self *CompressedDecoder) uncompressedSize(ctx *DecodeContext) (int, error) {
	def, pres := ctx.Catalog.PropertyByName(self.options.SizeProperty)
	if !pres {
		return -1, ctx.Fault(KindUndecidable,
			"size property %v is not in the catalog", self.options.SizeProperty)
	}

	if ctx.Node == nil {
		return -1, ctx.Fault(KindDecompression, "no enclosing object")
	}

	prop, pres := ctx.Node.FindProperty(def.Tag)
	if !pres {
		return -1, ctx.Fault(KindDecompression,
			"missing companion property %v", self.options.SizeProperty)
	}

	switch len(prop.Data) {
	case 4:
		return int(ReadU32(prop.Data, 0)), nil
	case 2:
		return int(ReadU16(prop.Data, 0)), nil
	}
	return -1, ctx.Fault(KindDecompression,
		"companion property %v has %d bytes", self.options.SizeProperty,
		len(prop.Data))
}

func (self *CompressedDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	size, err := self.uncompressedSize(ctx)
	if size < 0 {
		return nil, err
	}

	if size > len(data)*maxInflateRatio {
		return nil, ctx.Fault(KindDecompression,
			"%d compressed bytes can not inflate to %d", len(data), size)
	}

	inflated, err := inflate(data, size)
	if err != nil {
		return nil, ctx.Fault(KindDecompression, "%v", err)
	}

	return self.decoder.Decode(ctx, inflated)
}

func isZlibHeader(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	// Deflate method with a header checksum that divides by 31.
	return data[0]&0x0F == 8 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0
}

func inflate(data []byte, size int) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	if isZlibHeader(data) {
		reader, err = zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	} else {
		reader = flate.NewReader(bytes.NewReader(data))
	}
	defer reader.Close()

	result := make([]byte, size)
	_, err = io.ReadFull(reader, result)
	if err != nil {
		return nil, fmt.Errorf("inflating %d bytes: %w", size, err)
	}

	// The stream must end exactly at the declared size.
	var extra [1]byte
	n, err := reader.Read(extra[:])
	for n == 0 && err == nil {
		n, err = reader.Read(extra[:])
	}
	if n > 0 {
		return nil, fmt.Errorf("stream inflates past %d bytes", size)
	}
	if err != io.EOF {
		return nil, fmt.Errorf("inflating %d bytes: %w", size, err)
	}
	return result, nil
}
