package cdx

import (
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
)

const styleRunSize = 10

// A StyleRun applies from its Start offset (in stored bytes) up to the
// start of the next run.
type StyleRun struct {
	Start uint16  `json:"start"`
	Font  uint16  `json:"font"`
	Face  uint16  `json:"face"`
	Size  float64 `json:"size"`

	// The stored color table index and the color it resolved to.
	ColorIndex uint16 `json:"color_index"`
	Color      *Color `json:"color,omitempty"`
}

type StyledString struct {
	Text string     `json:"text"`
	Runs []StyleRun `json:"runs,omitempty"`
}

func (self *StyledString) String() string {
	return self.Text
}

type StringDecoderOptions struct {
	Plain bool `cdx:"optional,field=plain,doc=Return only the text without the style runs"`
}

// StringDecoder reads a styled string: a UINT16 run count, the runs,
// then the text. Each run's bytes are decoded with the charset of the
// run's font.
type StringDecoder struct {
	options StringDecoderOptions
}

func (self *StringDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	result := &StringDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("StringDecoder: %v", err)
	}
	return result, nil
}

func (self *StringDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	result, err := self.decode(ctx, data)
	if result == nil {
		return nil, err
	}

	if self.options.Plain {
		return result.Text, nil
	}
	return result, nil
}

func (self *StringDecoder) decode(ctx *DecodeContext, data []byte) (*StyledString, error) {
	if len(data) < 2 {
		return nil, ctx.Fault(KindInvalidLength, "string has no run count")
	}

	count := int(ReadU16(data, 0))
	text_offset := 2 + count*styleRunSize
	if text_offset > len(data) {
		return nil, ctx.Fault(KindInvalidLength,
			"%d style runs need %d bytes, have %d", count, text_offset, len(data))
	}

	result := &StyledString{}
	for i := 0; i < count; i++ {
		offset := 2 + i*styleRunSize
		run := StyleRun{
			Start:      ReadU16(data, offset),
			Font:       ReadU16(data, offset+2),
			Face:       ReadU16(data, offset+4),
			Size:       float64(ReadU16(data, offset+6)) / 20,
			ColorIndex: ReadU16(data, offset+8),
		}

		color, pres := ctx.Colors.Lookup(int(run.ColorIndex))
		if pres {
			run.Color = &color
		} else {
			err := ctx.Fault(KindUnresolvedTableIndex,
				"style run %d: color index %d is not in the color table",
				i, run.ColorIndex)
			if err != nil {
				return nil, err
			}
		}
		result.Runs = append(result.Runs, run)
	}

	result.Text = decodeRuns(ctx.Fonts, result.Runs, data[text_offset:])
	return result, nil
}

// Split the text at run boundaries and decode each piece with its own
// charset. Text before the first run, or with no runs at all, uses
// the default charset.
func decodeRuns(fonts *FontTable, runs []StyleRun, text []byte) string {
	if len(runs) == 0 {
		return DecodeText(DefaultCharset, text)
	}

	builder := strings.Builder{}
	start := 0
	charset := uint16(DefaultCharset)

	for _, run := range runs {
		end := int(run.Start)
		if end > len(text) {
			end = len(text)
		}
		if end > start {
			builder.WriteString(DecodeText(charset, text[start:end]))
			start = end
		}
		charset = fonts.Charset(run.Font)
	}

	if start < len(text) {
		builder.WriteString(DecodeText(charset, text[start:]))
	}

	return builder.String()
}
