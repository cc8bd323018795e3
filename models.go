//  Every catalog contains some basic built in decoders. The model is
//  a mapping between the generic names of value types and the
//  corresponding decoders. The catalog definitions refer to these
//  names.

package cdx

func AddModel(catalog *Catalog) {
	catalog.types["uint8"] = NewIntDecoder(
		"uint8", 1, func(buf []byte) interface{} {
			return uint64(ReadU8(buf, 0))
		})
	catalog.types["uint16"] = NewIntDecoder(
		"uint16", 2, func(buf []byte) interface{} {
			return uint64(ReadU16(buf, 0))
		})
	catalog.types["uint32"] = NewIntDecoder(
		"uint32", 4, func(buf []byte) interface{} {
			return uint64(ReadU32(buf, 0))
		})
	catalog.types["uint64"] = NewIntDecoder(
		"uint64", 8, func(buf []byte) interface{} {
			return ReadU64(buf, 0)
		})

	catalog.types["int8"] = NewIntDecoder(
		"int8", 1, func(buf []byte) interface{} {
			return int64(ReadI8(buf, 0))
		})
	catalog.types["int16"] = NewIntDecoder(
		"int16", 2, func(buf []byte) interface{} {
			return int64(ReadI16(buf, 0))
		})
	catalog.types["int32"] = NewIntDecoder(
		"int32", 4, func(buf []byte) interface{} {
			return int64(ReadI32(buf, 0))
		})
	catalog.types["int64"] = NewIntDecoder(
		"int64", 8, func(buf []byte) interface{} {
			return ReadI64(buf, 0)
		})

	catalog.types["float64"] = NewIntDecoder(
		"float64", 8, func(buf []byte) interface{} {
			return ReadF64(buf, 0)
		})

	catalog.types["fixed16_16"] = NewIntDecoder(
		"fixed16_16", 4, func(buf []byte) interface{} {
			return ReadFixed16_16(buf, 0)
		})

	catalog.types["Bool"] = NewIntDecoder(
		"Bool", 1, func(buf []byte) interface{} {
			return buf[0] != 0
		})

	catalog.types["Union"] = &Union{}
	catalog.types["Value"] = &ValueDecoder{}
	catalog.types["Null"] = NullDecoder{}
	catalog.types["Fixed"] = &FixedDecoder{}
	catalog.types["Point2D"] = &Point2DDecoder{}
	catalog.types["Point3D"] = &Point3DDecoder{}
	catalog.types["Rect"] = &RectDecoder{}
	catalog.types["String"] = &StringDecoder{}
	catalog.types["FontTable"] = &FontTableDecoder{}
	catalog.types["ColorTable"] = &ColorTableDecoder{}
	catalog.types["Color"] = &ColorDecoder{}
	catalog.types["Font"] = &FontDecoder{}
	catalog.types["FontStyle"] = &FontStyleDecoder{}
	catalog.types["Flags"] = &Flags{}
	catalog.types["Enumeration"] = &EnumerationDecoder{}
	catalog.types["Array"] = &ArrayDecoder{}
	catalog.types["Reference"] = &ReferenceDecoder{}
	catalog.types["ReferenceArray"] = &ReferenceArrayDecoder{}
	catalog.types["ReferencePairs"] = &ReferencePairsDecoder{}
	catalog.types["RepresentsProperty"] = &RepresentsPropertyDecoder{}
	catalog.types["Bytes"] = &BytesDecoder{}
	catalog.types["Picture"] = &PictureDecoder{}
	catalog.types["Compressed"] = &CompressedDecoder{}
	catalog.types["Date"] = &DateDecoder{}

	// Aliases
	catalog.types["INT8"] = catalog.types["int8"]
	catalog.types["INT16"] = catalog.types["int16"]
	catalog.types["INT32"] = catalog.types["int32"]
	catalog.types["UINT8"] = catalog.types["uint8"]
	catalog.types["UINT16"] = catalog.types["uint16"]
	catalog.types["UINT32"] = catalog.types["uint32"]
	catalog.types["FLOAT64"] = catalog.types["float64"]
}
