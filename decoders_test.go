package cdx

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decoderFor(t *testing.T, catalog *Catalog,
	name string, options *ordereddict.Dict) Decoder {
	decoder, err := catalog.GetDecoder(name, options)
	require.NoError(t, err, name)
	return decoder
}

func decodeValue(t *testing.T, ctx *DecodeContext,
	name string, options *ordereddict.Dict, data []byte) interface{} {
	value, err := decoderFor(t, ctx.Catalog, name, options).Decode(ctx, data)
	require.NoError(t, err, name)
	return value
}

func styleRun(start, font, face, size, color uint16) []byte {
	return U16Bytes(start, font, face, size, color)
}

func testFonts() *FontTable {
	return &FontTable{
		Platform: 1,
		Fonts: []Font{
			{ID: 3, Charset: CharsetCyrillic, Name: "Arial"},
			{ID: 4, Charset: CharsetJapanese, Name: "MS Gothic"},
		},
	}
}

func TestFixedDecoders(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	value := decodeValue(t, ctx, "Coordinate", nil, FixedBytes(65536, 12.5))
	assert.Equal(t, 12.5, value)

	value = decodeValue(t, ctx, "Fixed", nil, FixedBytes(65536, -0.75))
	assert.Equal(t, -0.75, value)

	tenths := ordereddict.NewDict().Set("type", "int16").Set("divisor", 10)
	value = decodeValue(t, ctx, "Fixed", tenths, U16Bytes(123))
	assert.InDelta(t, 12.3, value, 1e-9)

	assert.Equal(t, 2, SizeOf(decoderFor(t, ctx.Catalog, "Fixed", tenths)))
	assert.Equal(t, 4, SizeOf(decoderFor(t, ctx.Catalog, "Coordinate", nil)))

	// Too short.
	value = decodeValue(t, ctx, "Coordinate", nil, []byte{1, 2})
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindInvalidLength, ctx.Diagnostics[0].Kind)
}

func TestGeometryDecoders(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	// Stored y first.
	value := decodeValue(t, ctx, "Point", nil, FixedBytes(65536, 2, 3))
	assert.Equal(t, Point2D{X: 3, Y: 2}, value)
	assert.Equal(t, 8, SizeOf(decoderFor(t, ctx.Catalog, "Point", nil)))

	value = decodeValue(t, ctx, "Point3D", nil, FixedBytes(65536, 1, 2, 3))
	assert.Equal(t, Point3D{X: 1, Y: 2, Z: 3}, value)

	value = decodeValue(t, ctx, "Rect", nil, FixedBytes(65536, 1, 2, 10, 20))
	rect, ok := value.(Rect)
	require.True(t, ok)
	assert.Equal(t, Rect{Top: 1, Left: 2, Bottom: 10, Right: 20}, rect)
	assert.Equal(t, 18.0, rect.Width())
	assert.Equal(t, 9.0, rect.Height())

	ctx.Rigid = true
	_, err := decoderFor(t, ctx.Catalog, "Rect", nil).Decode(ctx, FixedBytes(65536, 1, 2))
	assert.True(t, IsKind(err, KindInvalidLength))
}

func TestStringDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))
	ctx.Fonts = testFonts()

	red := Color{R: 0xFFFF}
	green := Color{G: 0xFFFF}
	ctx.Colors = &ColorTable{Colors: []Color{red, green}}

	// Font 1 is not in the table and falls back to the default
	// charset. Font 3 is Cyrillic.
	data := Concat(U16Bytes(2),
		styleRun(0, 1, 0, 200, 0),
		styleRun(3, 3, 1, 240, 3),
		[]byte("ab\xe9\xc4"))

	value := decodeValue(t, ctx, "String", nil, data)
	styled, ok := value.(*StyledString)
	require.True(t, ok)
	assert.Equal(t, "abéД", styled.Text)
	assert.Equal(t, "abéД", styled.String())
	assert.Equal(t, []StyleRun{
		{Start: 0, Font: 1, Face: 0, Size: 10, ColorIndex: 0, Color: &Black},
		{Start: 3, Font: 3, Face: 1, Size: 12, ColorIndex: 3, Color: &green},
	}, styled.Runs)

	serialized, err := json.Marshal(styled.Runs[1])
	require.NoError(t, err)
	assert.Equal(t,
		`{"start":3,"font":3,"face":1,"size":12,"color_index":3,"color":"#00ff00"}`,
		string(serialized))

	plain := ordereddict.NewDict().Set("plain", true)
	value = decodeValue(t, ctx, "String", plain, Concat(U16Bytes(0), []byte("caf\xe9")))
	assert.Equal(t, "café", value)

	// More runs than bytes.
	value = decodeValue(t, ctx, "String", nil, Concat(U16Bytes(5), styleRun(0, 1, 0, 0, 0)))
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindInvalidLength, ctx.Diagnostics[0].Kind)

	// Index 4 is past the table. The run keeps its index but no color
	// and the text is still decoded.
	missing := Concat(U16Bytes(1), styleRun(0, 3, 0, 200, 4), []byte("\xc4"))
	value = decodeValue(t, ctx, "String", nil, missing)
	styled, ok = value.(*StyledString)
	require.True(t, ok)
	assert.Equal(t, "Д", styled.Text)
	require.Equal(t, 1, len(styled.Runs))
	assert.Equal(t, uint16(4), styled.Runs[0].ColorIndex)
	assert.Nil(t, styled.Runs[0].Color)
	require.Equal(t, 2, len(ctx.Diagnostics))
	assert.Equal(t, KindUnresolvedTableIndex, ctx.Diagnostics[1].Kind)

	ctx.Rigid = true
	_, err = decoderFor(t, ctx.Catalog, "String", nil).Decode(ctx, missing)
	assert.True(t, IsKind(err, KindUnresolvedTableIndex))
}

func TestCharsets(t *testing.T) {
	assert.Equal(t, "é", DecodeText(CharsetLatin1, []byte{0xe9}))
	assert.Equal(t, "é", DecodeText(CharsetMacRoman, []byte{0x8e}))
	assert.Equal(t, "日本", DecodeText(CharsetJapanese, []byte{0x93, 0xfa, 0x96, 0x7b}))
	assert.Equal(t, "é", DecodeText(CharsetUTF8, []byte{0xc3, 0xa9}))

	// Unknown charsets use the default.
	assert.Equal(t, "é", DecodeText(4242, []byte{0xe9}))

	fonts := testFonts()
	assert.Equal(t, uint16(CharsetCyrillic), fonts.Charset(3))
	assert.Equal(t, uint16(DefaultCharset), fonts.Charset(99))

	var missing *FontTable
	assert.Equal(t, uint16(DefaultCharset), missing.Charset(3))
}

func TestTableDecoders(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	fonts := Concat(U16Bytes(1, 2),
		U16Bytes(3, CharsetCyrillic, 5), []byte("Arial"),
		U16Bytes(4, CharsetLatin1, 4), []byte("Caf\xe9"),
		// Redefines id 3.
		U16Bytes(3, CharsetGreek, 6), []byte("Symbol"))

	// The count says two fonts, the third is ignored.
	value := decodeValue(t, ctx, "FontTable", nil, fonts)
	table, ok := value.(*FontTable)
	require.True(t, ok)
	assert.Equal(t, uint16(1), table.Platform)
	assert.Equal(t, 2, len(table.Fonts))
	assert.Equal(t, "Café", table.Fonts[1].Name)

	fonts[2] = 3
	value = decodeValue(t, ctx, "FontTable", nil, fonts)
	table = value.(*FontTable)
	font, pres := table.Lookup(3)
	require.True(t, pres)
	assert.Equal(t, "Symbol", font.Name)

	colors := U16Bytes(2, 0xFFFF, 0, 0, 0, 0x8000, 0)
	value = decodeValue(t, ctx, "ColorTable", nil, colors)
	palette, ok := value.(*ColorTable)
	require.True(t, ok)
	assert.Equal(t, 2, len(palette.Colors))

	// Truncated entries.
	value = decodeValue(t, ctx, "ColorTable", nil, colors[:8])
	assert.Nil(t, value)
	assert.Equal(t, 1, len(ctx.Diagnostics))
}

func TestColorDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	// Black and white exist without a table.
	value := decodeValue(t, ctx, "Color", nil, U16Bytes(0))
	assert.Equal(t, Black, value)
	value = decodeValue(t, ctx, "Color", nil, U16Bytes(1))
	assert.Equal(t, White, value)

	ctx.Colors = &ColorTable{Colors: []Color{
		{R: 0xFFFF},
		{G: 0x8000},
	}}

	value = decodeValue(t, ctx, "Color", nil, U16Bytes(2))
	assert.Equal(t, "#ff0000", value.(Color).Hex())
	value = decodeValue(t, ctx, "Color", nil, U16Bytes(3))
	assert.Equal(t, "#008000", value.(Color).Hex())

	serialized, err := json.Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `"#008000"`, string(serialized))

	value = decodeValue(t, ctx, "Color", nil, U16Bytes(4))
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindUnresolvedTableIndex, ctx.Diagnostics[0].Kind)
}

func TestFontDecoders(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))
	ctx.Fonts = testFonts()
	ctx.Colors = &ColorTable{Colors: []Color{{B: 0xFFFF}}}

	value := decodeValue(t, ctx, "Font", nil, U16Bytes(4))
	assert.Equal(t, "MS Gothic", value.(*Font).Name)

	value = decodeValue(t, ctx, "FontStyle", nil, U16Bytes(3, 1, 200, 2))
	style, ok := value.(*FontStyle)
	require.True(t, ok)
	assert.Equal(t, "Arial", style.Font.Name)
	assert.Equal(t, uint16(1), style.Face)
	assert.Equal(t, 10.0, style.Size)
	assert.Equal(t, "#0000ff", style.Color.Hex())

	ctx.Rigid = true
	_, err := decoderFor(t, ctx.Catalog, "FontStyle", nil).Decode(ctx, U16Bytes(9, 1, 200, 2))
	assert.True(t, IsKind(err, KindUnresolvedTableIndex))
}

func TestEnumerationDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	options := ordereddict.NewDict().
		Set("type", "uint8").
		Set("choices", ordereddict.NewDict().
			Set("1", "Left").
			Set("2", "Right"))

	value := decodeValue(t, ctx, "Enumeration", options, []byte{2})
	assert.Equal(t, "Right", value)

	// Unknown values are kept in hex.
	value = decodeValue(t, ctx, "Enumeration", options, []byte{0x1f})
	assert.Equal(t, "0x1f", value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindInvalidEnum, ctx.Diagnostics[0].Kind)

	ctx.Rigid = true
	_, err := decoderFor(t, ctx.Catalog, "Enumeration", options).Decode(ctx, []byte{0x1f})
	assert.True(t, IsKind(err, KindInvalidEnum))

	// The reverse mapping form.
	options = ordereddict.NewDict().
		Set("type", "int16").
		Set("map", ordereddict.NewDict().Set("Down", -1).Set("Up", 1))
	value = decodeValue(t, ctx, "Enumeration", options, U16Bytes(0xFFFF))
	assert.Equal(t, "Down", value)

	_, err = ctx.Catalog.GetDecoder("Enumeration", ordereddict.NewDict())
	assert.Error(t, err)
}

func TestFlagsDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	options := ordereddict.NewDict().
		Set("type", "uint16").
		Set("bitmap", ordereddict.NewDict().
			Set("Wedged", 0).
			Set("Hashed", 1).
			Set("Bold", 3))

	value := decodeValue(t, ctx, "Flags", options, U16Bytes(0x0b))
	assert.Equal(t, []string{"Bold", "Hashed", "Wedged"}, value)

	value = decodeValue(t, ctx, "Flags", options, U16Bytes(0x04))
	assert.Equal(t, []string{}, value)

	assert.Equal(t, 2, SizeOf(decoderFor(t, ctx.Catalog, "Flags", options)))

	bad := ordereddict.NewDict().
		Set("type", "uint16").
		Set("bitmap", ordereddict.NewDict().Set("Huge", 64))
	_, err := ctx.Catalog.GetDecoder("Flags", bad)
	assert.Error(t, err)
}

func TestUnionDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	options := ordereddict.NewDict().
		Set("choices", ordereddict.NewDict().
			Set("1", "int8").
			Set("2", "int16").
			Set("4", "int32"))

	assert.Equal(t, int64(-1), decodeValue(t, ctx, "Union", options, []byte{0xff}))
	assert.Equal(t, int64(-2), decodeValue(t, ctx, "Union", options, U16Bytes(0xfffe)))
	assert.Equal(t, int64(70000), decodeValue(t, ctx, "Union", options, U32Bytes(70000)))

	value := decodeValue(t, ctx, "Union", options, []byte{1, 2, 3})
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindInvalidLength, ctx.Diagnostics[0].Kind)
}

func TestArrayDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	counted := ordereddict.NewDict().Set("type", "Point").Set("counted", true)
	value := decodeValue(t, ctx, "Array", counted,
		Concat(U16Bytes(2), FixedBytes(65536, 1, 2, 3, 4)))
	assert.Equal(t, []interface{}{
		Point2D{X: 2, Y: 1},
		Point2D{X: 4, Y: 3},
	}, value)

	// The count claims more than is stored.
	value = decodeValue(t, ctx, "Array", counted,
		Concat(U16Bytes(3), FixedBytes(65536, 1, 2)))
	assert.Nil(t, value)
	assert.Equal(t, 1, len(ctx.Diagnostics))

	plain := ordereddict.NewDict().Set("type", "int16")
	value = decodeValue(t, ctx, "Array", plain, U16Bytes(1, 0xFFFF, 3))
	assert.Equal(t, []interface{}{int64(1), int64(-1), int64(3)}, value)

	value = decodeValue(t, ctx, "Array", plain, []byte{1, 2, 3})
	assert.Nil(t, value)
	assert.Equal(t, 2, len(ctx.Diagnostics))
	assert.Equal(t, KindInvalidLength, ctx.Diagnostics[1].Kind)

	// Elements must have a fixed width.
	_, err := ctx.Catalog.GetDecoder("Array",
		ordereddict.NewDict().Set("type", "String"))
	assert.Error(t, err)

	_, err = ctx.Catalog.GetDecoder("Array", ordereddict.NewDict())
	assert.Error(t, err)
}

func TestReferenceDecoders(t *testing.T) {
	catalog := testCatalog(t)
	ctx := NewDecodeContext(nil, catalog)

	node := testObject(t, catalog, "Node", 5)
	other := testObject(t, catalog, "Node", 6)
	bond := testObject(t, catalog, "Bond", 8)
	ctx.Refs.Register(5, node)
	ctx.Refs.Register(6, other)
	ctx.Refs.Register(8, bond)

	kinds := ordereddict.NewDict().Set("kinds", []interface{}{"Node"})

	assert.Equal(t, node, decodeValue(t, ctx, "Reference", kinds, U32Bytes(5)))
	assert.Equal(t, node, decodeValue(t, ctx, "Reference", kinds, U16Bytes(5)))

	// Id 0 is the null reference.
	assert.Nil(t, decodeValue(t, ctx, "Reference", kinds, U32Bytes(0)))
	assert.Equal(t, 0, len(ctx.Diagnostics))

	// Wrong kind.
	assert.Nil(t, decodeValue(t, ctx, "Reference", kinds, U32Bytes(8)))
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindUnresolvedReference, ctx.Diagnostics[0].Kind)

	assert.Nil(t, decodeValue(t, ctx, "Reference", kinds, []byte{1, 2, 3}))
	assert.Equal(t, KindInvalidLength, ctx.Diagnostics[1].Kind)

	counted := ordereddict.NewDict().Set("counted", true)
	value := decodeValue(t, ctx, "ReferenceArray", counted,
		Concat(U16Bytes(3), U32Bytes(5, 99, 8)))
	// The unresolved id keeps its slot.
	assert.Equal(t, []*Object{node, nil, bond}, value)
	assert.Equal(t, 3, len(ctx.Diagnostics))
	assert.Equal(t, KindUnresolvedReference, ctx.Diagnostics[2].Kind)

	serialized, err := json.Marshal(jsonValue(value))
	require.NoError(t, err)
	assert.Equal(t,
		`[{"ref":5,"kind":"Node"},null,{"ref":8,"kind":"Bond"}]`,
		string(serialized))

	pairs := decodeValue(t, ctx, "ReferencePairs", kinds, U32Bytes(5, 6, 6, 5))
	assert.Equal(t, []ReferencePair{
		{Key: node, Value: other},
		{Key: other, Value: node},
	}, pairs)

	serialized, err = json.Marshal(pairs)
	require.NoError(t, err)
	assert.Equal(t,
		`[[{"ref":5,"kind":"Node"},{"ref":6,"kind":"Node"}],`+
			`[{"ref":6,"kind":"Node"},{"ref":5,"kind":"Node"}]]`,
		string(serialized))

	// 99 is unbound and 8 is a Bond. Both pairs survive with a nil side.
	pairs = decodeValue(t, ctx, "ReferencePairs", kinds, U32Bytes(5, 99, 8, 6))
	assert.Equal(t, []ReferencePair{
		{Key: node, Value: nil},
		{Key: nil, Value: other},
	}, pairs)
	assert.Equal(t, 5, len(ctx.Diagnostics))

	serialized, err = json.Marshal(pairs)
	require.NoError(t, err)
	assert.Equal(t,
		`[[{"ref":5,"kind":"Node"},null],[null,{"ref":6,"kind":"Node"}]]`,
		string(serialized))

	// Rigid mode still stops at the first miss.
	ctx.Rigid = true
	_, err = decoderFor(t, catalog, "ReferenceArray", counted).
		Decode(ctx, Concat(U16Bytes(2), U32Bytes(5, 99)))
	assert.True(t, IsKind(err, KindUnresolvedReference))
	ctx.Rigid = false

	value = decodeValue(t, ctx, "RepresentsProperty", nil,
		Concat(U32Bytes(5), U16Bytes(0x0001)))
	represents, ok := value.(*RepresentsProperty)
	require.True(t, ok)
	assert.Equal(t, node, represents.Object)
	assert.Equal(t, "Value", represents.Property)

	serialized, err = json.Marshal(represents)
	require.NoError(t, err)
	assert.Equal(t, `{"object":{"ref":5,"kind":"Node"},"property":"Value"}`,
		string(serialized))
}

func deflated(t *testing.T, data []byte, raw bool) []byte {
	var buf bytes.Buffer

	if raw {
		writer, err := flate.NewWriter(&buf, flate.BestCompression)
		require.NoError(t, err)
		_, err = writer.Write(data)
		require.NoError(t, err)
		require.NoError(t, writer.Close())
		return buf.Bytes()
	}

	writer := zlib.NewWriter(&buf)
	_, err := writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func compressedContext(t *testing.T, size uint32) *DecodeContext {
	catalog := testCatalog(t)
	require.NoError(t, catalog.ParseDefinitions(`
properties:
  - [PayloadSize, 0x0A67, int32]
  - [Payload, 0x0A66, Compressed, {size_property: PayloadSize}]
`))

	ctx := NewDecodeContext(nil, catalog)
	ctx.Node = &Node{
		Tag: 0x8007,
		Properties: []Property{
			{Tag: 0x0A67, Data: U32Bytes(size)},
		},
	}
	return ctx
}

func TestCompressedDecoder(t *testing.T) {
	payload := bytes.Repeat([]byte("C1=CC=CC=C1 "), 50)
	options := ordereddict.NewDict().Set("size_property", "PayloadSize")

	for _, raw := range []bool{false, true} {
		ctx := compressedContext(t, uint32(len(payload)))
		data := deflated(t, payload, raw)
		assert.Equal(t, !raw, isZlibHeader(data))

		value := decodeValue(t, ctx, "Compressed", options, data)
		assert.Equal(t, payload, value)
		assert.Equal(t, 0, len(ctx.Diagnostics))
	}

	// The stream ends before the declared size.
	ctx := compressedContext(t, uint32(len(payload)+1))
	value := decodeValue(t, ctx, "Compressed", options, deflated(t, payload, false))
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindDecompression, ctx.Diagnostics[0].Kind)

	// The stream goes on past the declared size.
	for _, raw := range []bool{false, true} {
		ctx = compressedContext(t, uint32(len(payload)-1))
		value = decodeValue(t, ctx, "Compressed", options, deflated(t, payload, raw))
		assert.Nil(t, value)
		require.Equal(t, 1, len(ctx.Diagnostics))
		assert.Equal(t, KindDecompression, ctx.Diagnostics[0].Kind)
	}

	// An impossible ratio is refused before inflating.
	ctx = compressedContext(t, 0x7FFFFFFF)
	ctx.Rigid = true
	_, err := decoderFor(t, ctx.Catalog, "Compressed", options).
		Decode(ctx, []byte{0x78, 0x9c, 1, 2})
	assert.True(t, IsKind(err, KindDecompression))

	// No companion size.
	ctx = compressedContext(t, 0)
	ctx.Node.Properties = nil
	value = decodeValue(t, ctx, "Compressed", options, deflated(t, payload, false))
	assert.Nil(t, value)
	require.Equal(t, 1, len(ctx.Diagnostics))
	assert.Equal(t, KindDecompression, ctx.Diagnostics[0].Kind)

	// The inflated data goes through another decoder.
	points := ordereddict.NewDict().
		Set("size_property", "PayloadSize").
		Set("type", "Point")
	ctx = compressedContext(t, 8)
	value = decodeValue(t, ctx, "Compressed", points,
		deflated(t, FixedBytes(65536, 1, 2), true))
	assert.Equal(t, Point2D{X: 2, Y: 1}, value)

	_, err = ctx.Catalog.GetDecoder("Compressed", ordereddict.NewDict())
	assert.Error(t, err)
}

func TestPictureDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))

	value := decodeValue(t, ctx, "Picture", nil, buf.Bytes())
	picture, ok := value.(*Picture)
	require.True(t, ok)
	assert.Equal(t, "png", picture.Format)
	assert.Equal(t, 3, picture.Width)
	assert.Equal(t, 2, picture.Height)
	assert.Equal(t, buf.Len(), picture.Length)
	assert.Equal(t, buf.Bytes(), picture.Data)

	// Metafiles can not be probed and keep the catalog's format.
	wmf := ordereddict.NewDict().Set("format", "WMF")
	value = decodeValue(t, ctx, "Picture", wmf, []byte{0xd7, 0xcd, 0xc6, 0x9a})
	picture = value.(*Picture)
	assert.Equal(t, "WMF", picture.Format)
	assert.Equal(t, 0, picture.Width)

	serialized, err := json.Marshal(picture)
	require.NoError(t, err)
	assert.Equal(t, `{"format":"WMF","length":4}`, string(serialized))
}

func TestDateDecoder(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	value := decodeValue(t, ctx, "Date", nil, U16Bytes(2021, 3, 4, 5, 6, 7, 8))
	assert.Equal(t,
		time.Date(2021, time.March, 4, 5, 6, 7, 8*int(time.Millisecond), time.UTC),
		value)

	assert.Nil(t, decodeValue(t, ctx, "Date", nil, make([]byte, 14)))
	assert.Equal(t, 0, len(ctx.Diagnostics))

	assert.Nil(t, decodeValue(t, ctx, "Date", nil, make([]byte, 6)))
	assert.Equal(t, 1, len(ctx.Diagnostics))
}

func TestValueDecoders(t *testing.T) {
	ctx := NewDecodeContext(nil, testCatalog(t))

	implied := ordereddict.NewDict().Set("value", true)
	assert.Equal(t, true, decodeValue(t, ctx, "Value", implied, nil))
	assert.Nil(t, decodeValue(t, ctx, "Null", nil, []byte{1, 2, 3}))

	_, err := ctx.Catalog.GetDecoder("Value", ordereddict.NewDict())
	assert.Error(t, err)

	bytes_value := decodeValue(t, ctx, "Bytes", nil, []byte{1, 2})
	assert.Equal(t, []byte{1, 2}, bytes_value)

	assert.Equal(t, true, decodeValue(t, ctx, "Bool", nil, []byte{1}))
	assert.Equal(t, 1.5, decodeValue(t, ctx, "fixed16_16", nil, sample[16:20]))
}
