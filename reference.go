package cdx

import (
	"encoding/json"
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// References are ids of other objects in the document. They resolve
// while the graph is populated, when every object already exists, so
// forward references work.

type ReferenceOptions struct {
	Kinds   []string `cdx:"optional,field=kinds,doc=Object kinds the referent must be assignable to"`
	Counted bool     `cdx:"optional,field=counted,doc=Ids are preceded by a UINT16 count"`
}

func parseReferenceOptions(options *ordereddict.Dict, name string) (
	ReferenceOptions, error) {
	var result ReferenceOptions
	err := ParseOptions(options, &result)
	if err != nil {
		return result, fmt.Errorf("%v: %v", name, err)
	}
	return result, nil
}

// Ids are normally UINT32 but some writers store UINT16.
func readID(ctx *DecodeContext, data []byte) (uint32, bool, error) {
	switch len(data) {
	case 4:
		return ReadU32(data, 0), true, nil
	case 2:
		return uint32(ReadU16(data, 0)), true, nil
	}
	return 0, false, ctx.Fault(KindInvalidLength,
		"object id needs 2 or 4 bytes, have %d", len(data))
}

type objectRef struct {
	Ref  uint32 `json:"ref"`
	Kind string `json:"kind"`
}

func refOf(obj *Object) interface{} {
	if obj == nil {
		return nil
	}
	return objectRef{Ref: obj.ID, Kind: obj.Kind.Name}
}

type ReferenceDecoder struct {
	options ReferenceOptions
}

func (self *ReferenceDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	opts, err := parseReferenceOptions(options, "Reference")
	if err != nil {
		return nil, err
	}
	return &ReferenceDecoder{options: opts}, nil
}

func (self *ReferenceDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	id, ok, err := readID(ctx, data)
	if !ok {
		return nil, err
	}

	obj, err := ctx.ResolveReference(id, self.options.Kinds...)
	if obj == nil {
		return nil, err
	}
	return obj, nil
}

// ReferenceArrayDecoder reads a list of UINT32 ids, optionally
// preceded by a UINT16 count. A tolerated miss leaves a nil slot so
// positions line up with the stored ids.
type ReferenceArrayDecoder struct {
	options ReferenceOptions
}

func (self *ReferenceArrayDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	opts, err := parseReferenceOptions(options, "ReferenceArray")
	if err != nil {
		return nil, err
	}
	return &ReferenceArrayDecoder{options: opts}, nil
}

func (self *ReferenceArrayDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	count, data, err := elementCount(ctx, data, 4, self.options.Counted)
	if count < 0 {
		return nil, err
	}

	result := make([]*Object, 0, count)
	for i := 0; i < count; i++ {
		obj, err := ctx.ResolveReference(ReadU32(data, i*4), self.options.Kinds...)
		if err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
	return result, nil
}

type ReferencePair struct {
	Key   *Object
	Value *Object
}

func (self ReferencePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{refOf(self.Key), refOf(self.Value)})
}

type ReferencePairsOptions struct {
	Kinds      []string `cdx:"optional,field=kinds,doc=Kinds of the first id of each pair"`
	ValueKinds []string `cdx:"optional,field=value_kinds,doc=Kinds of the second id (defaults to kinds)"`
}

// ReferencePairsDecoder reads a map of UINT32 id pairs. Either side
// of a pair may be nil when its id does not resolve.
type ReferencePairsDecoder struct {
	options ReferencePairsOptions
}

func (self *ReferencePairsDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	result := &ReferencePairsDecoder{}
	err := ParseOptions(options, &result.options)
	if err != nil {
		return nil, fmt.Errorf("ReferencePairs: %v", err)
	}
	if result.options.ValueKinds == nil {
		result.options.ValueKinds = result.options.Kinds
	}
	return result, nil
}

func (self *ReferencePairsDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	count, data, err := elementCount(ctx, data, 8, false)
	if count < 0 {
		return nil, err
	}

	result := make([]ReferencePair, 0, count)
	for i := 0; i < count; i++ {
		key, err := ctx.ResolveReference(ReadU32(data, i*8), self.options.Kinds...)
		if err != nil {
			return nil, err
		}

		value, err := ctx.ResolveReference(ReadU32(data, i*8+4), self.options.ValueKinds...)
		if err != nil {
			return nil, err
		}

		result = append(result, ReferencePair{Key: key, Value: value})
	}
	return result, nil
}

// RepresentsProperty says an object stands for a property of another
// object, for example a text label showing an atom's charge.
type RepresentsProperty struct {
	Object   *Object
	Tag      uint16
	Property string
}

func (self *RepresentsProperty) MarshalJSON() ([]byte, error) {
	result := ordereddict.NewDict().
		Set("object", refOf(self.Object)).
		Set("property", self.Property)
	return json.Marshal(result)
}

type RepresentsPropertyDecoder struct {
	options ReferenceOptions
}

func (self *RepresentsPropertyDecoder) New(catalog *Catalog, options *ordereddict.Dict) (Decoder, error) {
	opts, err := parseReferenceOptions(options, "RepresentsProperty")
	if err != nil {
		return nil, err
	}
	return &RepresentsPropertyDecoder{options: opts}, nil
}

func (self *RepresentsPropertyDecoder) Size() int {
	return 6
}

func (self *RepresentsPropertyDecoder) Decode(ctx *DecodeContext, data []byte) (interface{}, error) {
	if len(data) < 6 {
		return nil, ctx.Fault(KindInvalidLength,
			"represented property needs 6 bytes, have %d", len(data))
	}

	obj, err := ctx.ResolveReference(ReadU32(data, 0), self.options.Kinds...)
	if obj == nil {
		return nil, err
	}

	tag := ReadU16(data, 4)
	return &RepresentsProperty{
		Object:   obj,
		Tag:      tag,
		Property: ctx.Catalog.TagName(tag),
	}, nil
}
