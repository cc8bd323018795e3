package cdx

import (
	"context"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/vfilter"
)

type ObjectAssociative struct{}

func (self ObjectAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	switch a.(type) {
	case *Object, *Document:
		_, ok := b.(string)
		if ok {
			return true
		}
	}
	return false
}

func toObject(a vfilter.Any) (*Object, bool) {
	switch t := a.(type) {
	case *Object:
		return t, t != nil
	case *Document:
		if t == nil || t.Object == nil {
			return nil, false
		}
		return t.Object, true
	}
	return nil, false
}

func (self ObjectAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	lhs, ok := toObject(a)
	if !ok {
		return vfilter.Null{}, false
	}

	rhs, ok := b.(string)
	if !ok {
		return vfilter.Null{}, false
	}

	switch rhs {
	case "Kind":
		return lhs.Kind.Name, true

	case "ID":
		return lhs.ID, true

	case "Offset":
		return lhs.Offset, true

	case "Parent":
		if lhs.Parent == nil {
			return vfilter.Null{}, true
		}
		return lhs.Parent, true

	case "Children":
		return lhs.Children, true

	default:
		value, pres := lhs.Get(rhs)
		if !pres {
			return vfilter.Null{}, false
		}
		return value, true
	}
}

func (self ObjectAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	lhs, ok := toObject(a)
	if !ok {
		return nil
	}
	return lhs.Members()
}

// Children lists can be indexed with a numeric string so dotted paths
// like Children.0.Kind work.
type ChildrenAssociative struct{}

func (self ChildrenAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	_, ok := a.([]*Object)
	if !ok {
		return false
	}
	_, ok = b.(string)
	return ok
}

func (self ChildrenAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	lhs, _ := a.([]*Object)
	rhs, _ := b.(string)

	idx, ok := to_index(rhs)
	if !ok || idx >= len(lhs) || lhs[idx] == nil {
		return vfilter.Null{}, false
	}
	return lhs[idx], true
}

func (self ChildrenAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	return nil
}

// Objects and their children participate in the iterator protocol
type ObjectIterator struct{}

func (self ObjectIterator) Applicable(a vfilter.Any) bool {
	switch a.(type) {
	case *Object, *Document, []*Object:
		return true
	}
	return false
}

func (self ObjectIterator) Iterate(
	ctx context.Context, scope vfilter.Scope, a vfilter.Any) <-chan vfilter.Row {
	output_chan := make(chan vfilter.Row)

	go func() {
		defer close(output_chan)

		var items []*Object
		switch t := a.(type) {
		case []*Object:
			items = t
		default:
			obj, ok := toObject(a)
			if !ok {
				return
			}
			items = obj.Children
		}

		for _, item := range items {
			// Unresolved reference slots.
			if item == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return

			case output_chan <- item:
			}
		}
	}()

	return output_chan
}

// Rows are flattened views of objects for consumers that do not
// speak the associative protocol.
func ObjectRow(obj *Object) *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("Kind", obj.Kind.Name).
		Set("ID", obj.ID).
		Set("Offset", obj.Offset)

	for _, name := range obj.Properties.Keys() {
		value, _ := obj.Properties.Get(name)
		result.Set(name, jsonValue(value))
	}
	return result
}
