package cdx

import (
	"encoding/json"
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Color components are stored as 16 bit intensities.
type Color struct {
	R uint16 `json:"r"`
	G uint16 `json:"g"`
	B uint16 `json:"b"`
}

var (
	Black = Color{}
	White = Color{R: 0xFFFF, G: 0xFFFF, B: 0xFFFF}
)

// Hex formats the color as #rrggbb using the high byte of each
// component.
func (self Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", self.R>>8, self.G>>8, self.B>>8)
}

func (self Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Hex())
}

// ColorTable holds the stored palette. Index 0 is always black and 1
// always white, stored entries start at index 2.
type ColorTable struct {
	Colors []Color `json:"colors"`
}

func (self *ColorTable) Lookup(index int) (Color, bool) {
	switch {
	case index == 0:
		return Black, true
	case index == 1:
		return White, true
	case self == nil || index < 0 || index-2 >= len(self.Colors):
		return Color{}, false
	}
	return self.Colors[index-2], true
}

type Font struct {
	ID      uint16 `json:"id"`
	Charset uint16 `json:"charset"`
	Name    string `json:"name"`
}

// FontTable maps font ids to fonts. Fonts are found by their stored
// id, never by position.
type FontTable struct {
	Platform uint16 `json:"platform"`
	Fonts    []Font `json:"fonts"`
}

func (self *FontTable) Lookup(id uint16) (*Font, bool) {
	if self == nil {
		return nil, false
	}

	// Later definitions of the same id win.
	for i := len(self.Fonts) - 1; i >= 0; i-- {
		if self.Fonts[i].ID == id {
			return &self.Fonts[i], true
		}
	}
	return nil, false
}

// The character set used to decode text in the given font.
func (self *FontTable) Charset(id uint16) uint16 {
	font, pres := self.Lookup(id)
	if !pres || font.Charset == CharsetUnknown {
		return DefaultCharset
	}
	return font.Charset
}

type ColorTableDecoder struct{}

func (self *ColorTableDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *ColorTableDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 2 {
		return nil, ctx.Fault(KindInvalidLength, "color table has no count")
	}

	count := int(ReadU16(data, 0))
	if 2+count*6 > len(data) {
		return nil, ctx.Fault(KindInvalidLength,
			"color table of %d entries needs %d bytes, have %d",
			count, 2+count*6, len(data))
	}

	result := &ColorTable{Colors: make([]Color, 0, count)}
	for i := 0; i < count; i++ {
		offset := 2 + i*6
		result.Colors = append(result.Colors, Color{
			R: ReadU16(data, offset),
			G: ReadU16(data, offset+2),
			B: ReadU16(data, offset+4),
		})
	}
	return result, nil
}

type FontTableDecoder struct{}

func (self *FontTableDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *FontTableDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 4 {
		return nil, ctx.Fault(KindInvalidLength, "font table header is truncated")
	}

	result := &FontTable{Platform: ReadU16(data, 0)}
	count := int(ReadU16(data, 2))

	offset := 4
	for i := 0; i < count; i++ {
		if offset+6 > len(data) {
			return nil, ctx.Fault(KindInvalidLength,
				"font %d of %d is truncated", i, count)
		}

		font := Font{
			ID:      ReadU16(data, offset),
			Charset: ReadU16(data, offset+2),
		}
		name_len := int(ReadU16(data, offset+4))
		offset += 6

		if offset+name_len > len(data) {
			return nil, ctx.Fault(KindInvalidLength,
				"font name of %d bytes is truncated", name_len)
		}

		// Font names are written in the charset of the font itself.
		font.Name = DecodeText(font.Charset, data[offset:offset+name_len])
		offset += name_len

		result.Fonts = append(result.Fonts, font)
	}

	return result, nil
}

// ColorDecoder resolves a UINT16 color table index.
type ColorDecoder struct{}

func (self *ColorDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *ColorDecoder) Size() int {
	return 2
}

func (self *ColorDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 2 {
		return nil, ctx.Fault(KindInvalidLength, "color index needs 2 bytes")
	}

	index := int(ReadU16(data, 0))
	color, pres := ctx.Colors.Lookup(index)
	if !pres {
		return nil, ctx.Fault(KindUnresolvedTableIndex,
			"color index %d is not in the color table", index)
	}
	return color, nil
}

// FontDecoder resolves a UINT16 font id.
type FontDecoder struct{}

func (self *FontDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *FontDecoder) Size() int {
	return 2
}

func (self *FontDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 2 {
		return nil, ctx.Fault(KindInvalidLength, "font id needs 2 bytes")
	}

	id := ReadU16(data, 0)
	font, pres := ctx.Fonts.Lookup(id)
	if !pres {
		return nil, ctx.Fault(KindUnresolvedTableIndex,
			"font id %d is not in the font table", id)
	}
	return font, nil
}

type FontStyle struct {
	Font  *Font   `json:"font"`
	Face  uint16  `json:"face"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

// FontStyleDecoder reads {font, face, size, color}, sizes are in 20ths
// of a point.
type FontStyleDecoder struct{}

func (self *FontStyleDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	return self, nil
}

func (self *FontStyleDecoder) Size() int {
	return 8
}

func (self *FontStyleDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 8 {
		return nil, ctx.Fault(KindInvalidLength,
			"font style needs 8 bytes, have %d", len(data))
	}

	font_id := ReadU16(data, 0)
	font, pres := ctx.Fonts.Lookup(font_id)
	if !pres {
		return nil, ctx.Fault(KindUnresolvedTableIndex,
			"font id %d is not in the font table", font_id)
	}

	color_index := int(ReadU16(data, 6))
	color, pres := ctx.Colors.Lookup(color_index)
	if !pres {
		return nil, ctx.Fault(KindUnresolvedTableIndex,
			"color index %d is not in the color table", color_index)
	}

	return &FontStyle{
		Font:  font,
		Face:  ReadU16(data, 2),
		Size:  float64(ReadU16(data, 4)) / 20,
		Color: color,
	}, nil
}
