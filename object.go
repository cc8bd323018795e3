package cdx

import (
	"encoding/json"

	"github.com/Velocidex/ordereddict"
)

// Object is one node of the decoded document graph. Children are
// owned, references held in Properties are not.
type Object struct {
	Kind       *ObjectDefinition
	ID         uint32
	Offset     int64
	Properties *ordereddict.Dict
	Children   []*Object
	Parent     *Object

	// Index of the originating node in the tree.
	node int
}

func newObject(kind *ObjectDefinition, node *Node, idx int) *Object {
	return &Object{
		Kind:       kind,
		ID:         node.ID,
		Offset:     node.Offset,
		Properties: ordereddict.NewDict(),
		node:       idx,
	}
}

func (self *Object) Get(name string) (interface{}, bool) {
	return self.Properties.Get(name)
}

// GetString returns plain and styled strings alike.
func (self *Object) GetString(name string) (string, bool) {
	value, pres := self.Get(name)
	if !pres {
		return "", false
	}

	switch t := value.(type) {
	case string:
		return t, true
	case *StyledString:
		return t.Text, true
	}
	return "", false
}

func (self *Object) GetInt(name string) (int64, bool) {
	value, pres := self.Get(name)
	if !pres {
		return 0, false
	}
	return to_int64(value)
}

func (self *Object) GetFloat(name string) (float64, bool) {
	value, pres := self.Get(name)
	if !pres {
		return 0, false
	}
	return to_float64(value)
}

func (self *Object) GetPoint2D(name string) (Point2D, bool) {
	value, pres := self.Get(name)
	if !pres {
		return Point2D{}, false
	}
	point, ok := value.(Point2D)
	return point, ok
}

func (self *Object) GetRect(name string) (Rect, bool) {
	value, pres := self.Get(name)
	if !pres {
		return Rect{}, false
	}
	rect, ok := value.(Rect)
	return rect, ok
}

// GetObject returns a single reference.
func (self *Object) GetObject(name string) (*Object, bool) {
	value, pres := self.Get(name)
	if !pres {
		return nil, false
	}
	obj, ok := value.(*Object)
	return obj, ok
}

// GetObjects returns a reference list.
func (self *Object) GetObjects(name string) ([]*Object, bool) {
	value, pres := self.Get(name)
	if !pres {
		return nil, false
	}
	objs, ok := value.([]*Object)
	return objs, ok
}

// ChildrenOfKind returns the direct children assignable to kind.
func (self *Object) ChildrenOfKind(kind string) []*Object {
	var result []*Object
	for _, child := range self.Children {
		if child.Kind.Is(kind) {
			result = append(result, child)
		}
	}
	return result
}

// Find returns the first object in this subtree with the given id.
func (self *Object) Find(id uint32) (*Object, bool) {
	stack := []*Object{self}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if obj.ID == id {
			return obj, true
		}
		for i := len(obj.Children) - 1; i >= 0; i-- {
			stack = append(stack, obj.Children[i])
		}
	}
	return nil, false
}

// Members lists the names the associative protocol answers to.
func (self *Object) Members() []string {
	return append([]string{"Kind", "ID", "Offset", "Parent", "Children"},
		self.Properties.Keys()...)
}

// References inside properties are written as {"ref": id, "kind":
// name} so cycles in the graph never recurse.
func (self *Object) MarshalJSON() ([]byte, error) {
	result := ordereddict.NewDict().
		Set("Kind", self.Kind.Name)

	if self.ID != 0 {
		result.Set("ID", self.ID)
	}

	for _, name := range self.Properties.Keys() {
		value, _ := self.Properties.Get(name)
		result.Set(name, jsonValue(value))
	}

	if len(self.Children) > 0 {
		result.Set("Children", self.Children)
	}

	return result.MarshalJSON()
}

func jsonValue(value interface{}) interface{} {
	switch t := value.(type) {
	case *Object:
		return refOf(t)

	case []*Object:
		result := make([]interface{}, 0, len(t))
		for _, obj := range t {
			result = append(result, refOf(obj))
		}
		return result
	}
	return value
}

// Document is the decoded graph together with the state of the parse
// that produced it.
type Document struct {
	*Object

	ColorTable  *ColorTable
	FontTable   *FontTable
	Diagnostics []Diagnostic
	Tree        *Tree
}

func (self *Document) Pages() []*Object {
	return self.ChildrenOfKind("Page")
}

func (self *Document) MarshalJSON() ([]byte, error) {
	result := ordereddict.NewDict().Set("Root", self.Object)
	if self.ColorTable != nil && len(self.ColorTable.Colors) > 0 {
		result.Set("ColorTable", self.ColorTable)
	}
	if self.FontTable != nil && len(self.FontTable.Fonts) > 0 {
		result.Set("FontTable", self.FontTable)
	}
	if len(self.Diagnostics) > 0 {
		result.Set("Diagnostics", self.Diagnostics)
	}
	return json.Marshal(result)
}
