package cdx

import (
	"context"
)

// Property types decoded before any other property of their object
// because siblings index into them.
const (
	colorTableType = "ColorTable"
	fontTableType  = "FontTable"
)

// builder turns a node tree into an object graph in two global
// passes: every object is created and registered before any property
// is decoded, so references may point forward.
type builder struct {
	ctx     *DecodeContext
	tree    *Tree
	catalog *Catalog

	// Created objects in document order.
	objects []*Object
}

func newBuilder(ctx *DecodeContext, tree *Tree) *builder {
	return &builder{
		ctx:     ctx,
		tree:    tree,
		catalog: ctx.Catalog,
	}
}

// rootKind returns the definition for the root tag. An unknown root
// still needs an object to hang the document from.
func (self *builder) rootKind(node *Node) (*ObjectDefinition, error) {
	kind, pres := self.catalog.ObjectByTag(node.Tag)
	if pres {
		return kind, nil
	}

	self.ctx.Node = node
	err := self.ctx.Fault(KindUnknownObject, "unknown root object")
	if err != nil {
		return nil, err
	}

	return &ObjectDefinition{
		Name:     self.catalog.TagName(node.Tag),
		Tag:      node.Tag,
		Children: []string{"*"},
		catalog:  self.catalog,
	}, nil
}

func (self *builder) create(ctx context.Context) (*Object, error) {
	root_node := self.tree.Root()
	kind, err := self.rootKind(root_node)
	if err != nil {
		return nil, err
	}

	root := newObject(kind, root_node, 0)
	self.register(root)

	type pending struct {
		idx    int
		parent *Object
	}

	// Walk in document order so later bindings of an id shadow
	// earlier ones.
	var stack []pending
	for i := len(root_node.Children) - 1; i >= 0; i-- {
		stack = append(stack, pending{root_node.Children[i], root})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := ctx.Err()
		if err != nil {
			return nil, err
		}

		obj, err := self.createChild(item.parent, item.idx)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			continue
		}

		item.parent.Children = append(item.parent.Children, obj)

		node := self.tree.Node(item.idx)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, pending{node.Children[i], obj})
		}
	}

	return root, nil
}

// createChild returns nil when the child is skipped after a tolerated
// fault. Its whole subtree is skipped with it.
func (self *builder) createChild(parent *Object, idx int) (*Object, error) {
	node := self.tree.Node(idx)
	self.ctx.Node = node
	self.ctx.Property = nil

	kind, pres := self.catalog.ObjectByTag(node.Tag)
	if !pres {
		return nil, self.ctx.Fault(KindUnknownObject,
			"unknown object in %v", parent.Kind.Name)
	}

	if !parent.Kind.AllowsChild(kind.Name) {
		return nil, self.ctx.Fault(KindIllegalChild,
			"%v may not contain %v", parent.Kind.Name, kind.Name)
	}

	obj := newObject(kind, node, idx)
	obj.Parent = parent
	self.register(obj)
	return obj, nil
}

func (self *builder) register(obj *Object) {
	self.ctx.Refs.Register(obj.ID, obj)
	self.objects = append(self.objects, obj)
}

func (self *builder) populate(ctx context.Context) error {
	for _, obj := range self.objects {
		err := ctx.Err()
		if err != nil {
			return err
		}

		err = self.populateObject(obj)
		if err != nil {
			return err
		}
	}

	self.ctx.Node = nil
	self.ctx.Property = nil
	return nil
}

func isTableType(def *PropertyDefinition) bool {
	return def.Type == colorTableType || def.Type == fontTableType
}

func (self *builder) populateObject(obj *Object) error {
	node := self.tree.Node(obj.node)
	self.ctx.Node = node

	ScopeDebug(self.ctx.Scope, "cdx: populating %v id %v at %#x",
		obj.Kind.Name, obj.ID, obj.Offset)

	// Tables first, whatever their position in the stream.
	for i := range node.Properties {
		prop := &node.Properties[i]
		def, pres := self.catalog.PropertyByTag(prop.Tag)
		if !pres || !isTableType(def) {
			continue
		}

		err := self.decodeProperty(obj, def, prop)
		if err != nil {
			return err
		}
	}

	for i := range node.Properties {
		prop := &node.Properties[i]
		self.ctx.Property = prop

		def, pres := self.catalog.PropertyByTag(prop.Tag)
		if !pres {
			err := self.ctx.Fault(KindUnknownProperty,
				"unknown property in %v", obj.Kind.Name)
			if err != nil {
				return err
			}
			continue
		}

		if isTableType(def) {
			continue
		}

		err := self.decodeProperty(obj, def, prop)
		if err != nil {
			return err
		}
	}

	self.ctx.Property = nil
	return nil
}

func (self *builder) decodeProperty(obj *Object,
	def *PropertyDefinition, prop *Property) error {
	self.ctx.Property = prop

	decoder, err := def.Decoder(self.catalog)
	if err != nil {
		return self.ctx.Fault(KindUndecidable, "%v", err)
	}

	value, err := decoder.Decode(self.ctx, prop.Data)
	if err != nil {
		return err
	}

	// A tolerated fault leaves the field unset.
	if IsNil(value) {
		return nil
	}

	switch t := value.(type) {
	case *ColorTable:
		self.ctx.Colors = t
	case *FontTable:
		self.ctx.Fonts = t
	}

	// Repeated tags are each decoded but the last value wins.
	obj.Properties.Set(def.Name, value)
	return nil
}
