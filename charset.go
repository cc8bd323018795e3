package cdx

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Character set codes as stored in the font table.
const (
	CharsetUnknown    = 0
	CharsetDOSUS      = 437
	CharsetThai       = 874
	CharsetJapanese   = 932
	CharsetChineseGB  = 936
	CharsetKorean     = 949
	CharsetChineseBig = 950
	CharsetLatin2     = 1250
	CharsetCyrillic   = 1251
	CharsetLatin1     = 1252
	CharsetGreek      = 1253
	CharsetTurkish    = 1254
	CharsetHebrew     = 1255
	CharsetArabic     = 1256
	CharsetBaltic     = 1257
	CharsetVietnamese = 1258
	CharsetMacRoman   = 10000
	CharsetMacJapan   = 10001
	CharsetUTF8       = 65001
)

// Text with no usable font falls back to the format's default.
const DefaultCharset = CharsetLatin1

var charsets = map[uint16]encoding.Encoding{
	CharsetDOSUS:      charmap.CodePage437,
	CharsetThai:       charmap.Windows874,
	CharsetJapanese:   japanese.ShiftJIS,
	CharsetChineseGB:  simplifiedchinese.GBK,
	CharsetKorean:     korean.EUCKR,
	CharsetChineseBig: traditionalchinese.Big5,
	CharsetLatin2:     charmap.Windows1250,
	CharsetCyrillic:   charmap.Windows1251,
	CharsetLatin1:     charmap.Windows1252,
	CharsetGreek:      charmap.Windows1253,
	CharsetTurkish:    charmap.Windows1254,
	CharsetHebrew:     charmap.Windows1255,
	CharsetArabic:     charmap.Windows1256,
	CharsetBaltic:     charmap.Windows1257,
	CharsetVietnamese: charmap.Windows1258,
	CharsetMacRoman:   charmap.Macintosh,
	CharsetMacJapan:   japanese.ShiftJIS,
	CharsetUTF8:       unicode.UTF8,
}

// CharsetEncoding returns the x/text encoding for a stored charset
// code. Unknown codes map to the default charset.
func CharsetEncoding(charset uint16) encoding.Encoding {
	enc, pres := charsets[charset]
	if !pres {
		return charsets[DefaultCharset]
	}
	return enc
}

// DecodeText converts text stored in the given charset to UTF-8.
// Bytes the charset can not represent become U+FFFD.
func DecodeText(charset uint16, data []byte) string {
	result, err := CharsetEncoding(charset).NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(result)
}
