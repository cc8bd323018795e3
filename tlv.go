package cdx

import (
	"context"
)

const (
	Signature = "VjCD0100"

	// Signature, 4 reserved bytes then 10 more reserved bytes.
	HeaderSize = len(Signature) + 4 + 10

	EndObjectTag       uint16 = 0x0000
	ObjectTagThreshold uint16 = 0x8000

	// A 16 bit length of 0xFFFF means the real length follows as 32 bits.
	lengthEscape uint16 = 0xFFFF
)

func IsObjectTag(tag uint16) bool {
	return tag >= ObjectTagThreshold
}

// Property is one raw attribute record of a node.
type Property struct {
	Tag    uint16
	Offset int64
	Data   []byte
}

// Node is one object record. Children are indexes into Tree.Nodes.
type Node struct {
	Tag        uint16
	ID         uint32
	Offset     int64
	Depth      int
	Parent     int
	Properties []Property
	Children   []int
}

// FindProperty returns the last property with the given tag.
func (self *Node) FindProperty(tag uint16) (*Property, bool) {
	for i := len(self.Properties) - 1; i >= 0; i-- {
		if self.Properties[i].Tag == tag {
			return &self.Properties[i], true
		}
	}
	return nil, false
}

// Tree is the arena holding every node of a document. Nodes[0] is the
// root.
type Tree struct {
	Nodes []Node

	// Bytes left after the root's end marker. They are ignored.
	TrailingBytes int
}

func (self *Tree) Root() *Node {
	return &self.Nodes[0]
}

func (self *Tree) Node(idx int) *Node {
	return &self.Nodes[idx]
}

// Walk visits every node depth first in document order.
func (self *Tree) Walk(cb func(idx int, node *Node) error) error {
	if len(self.Nodes) == 0 {
		return nil
	}

	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &self.Nodes[idx]
		err := cb(idx, node)
		if err != nil {
			return err
		}

		// Push in reverse so the first child is visited next.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return nil
}

type Limits struct {
	MaxDepth int
	MaxNodes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth: 256,
		MaxNodes: 1 << 20,
	}
}

func (self Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if self.MaxDepth <= 0 {
		self.MaxDepth = defaults.MaxDepth
	}
	if self.MaxNodes <= 0 {
		self.MaxNodes = defaults.MaxNodes
	}
	return self
}

// ParseTree checks the document header and decodes the whole TLV
// stream into a Tree. Nesting is walked with an explicit stack so
// hostile input can not exhaust the goroutine stack.
func ParseTree(ctx context.Context, buf []byte, limits Limits) (*Tree, error) {
	if len(buf) < HeaderSize {
		return nil, newParseError(KindFormat, 0, 0,
			"header needs %d bytes, have %d", HeaderSize, len(buf))
	}

	if string(buf[:len(Signature)]) != Signature {
		return nil, newParseError(KindFormat, 0, 0,
			"bad signature %q", buf[:len(Signature)])
	}

	reader := &treeReader{
		buf:    buf,
		pos:    HeaderSize,
		limits: limits.withDefaults(),
		tree:   &Tree{},
	}

	root_offset := reader.pos
	root_tag, err := reader.readTag()
	if err != nil {
		return nil, err
	}

	if !IsObjectTag(root_tag) {
		return nil, newParseError(KindFormat, int64(root_offset), root_tag,
			"root tag is not an object tag")
	}

	return reader.readDocument(ctx, root_tag, root_offset)
}

type treeReader struct {
	buf    []byte
	pos    int
	limits Limits
	tree   *Tree
}

func (self *treeReader) remaining() int {
	return len(self.buf) - self.pos
}

func (self *treeReader) readTag() (uint16, error) {
	if self.remaining() < 2 {
		return 0, newParseError(KindTruncatedData, int64(self.pos), 0,
			"tag needs 2 bytes, have %d", self.remaining())
	}
	tag := ReadU16(self.buf, self.pos)
	self.pos += 2
	return tag, nil
}

func (self *treeReader) openObject(tag uint16, parent int, offset int) (int, error) {
	if len(self.tree.Nodes) >= self.limits.MaxNodes {
		return 0, newParseError(KindTooManyNodes, int64(offset), tag,
			"more than %d objects", self.limits.MaxNodes)
	}

	if self.remaining() < 4 {
		return 0, newParseError(KindTruncatedData, int64(self.pos), tag,
			"object id needs 4 bytes, have %d", self.remaining())
	}
	id := ReadU32(self.buf, self.pos)
	self.pos += 4

	depth := 0
	if parent >= 0 {
		depth = self.tree.Nodes[parent].Depth + 1
	}

	self.tree.Nodes = append(self.tree.Nodes, Node{
		Tag:    tag,
		ID:     id,
		Offset: int64(offset),
		Depth:  depth,
		Parent: parent,
	})
	return len(self.tree.Nodes) - 1, nil
}

func (self *treeReader) readDocument(
	ctx context.Context, root_tag uint16, root_offset int) (*Tree, error) {
	root, err := self.openObject(root_tag, -1, root_offset)
	if err != nil {
		return nil, err
	}

	stack := []int{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]

		if self.remaining() == 0 {
			// Only the document itself may run to the end of the
			// buffer without an end marker.
			if len(stack) == 1 {
				break
			}
			node := &self.tree.Nodes[current]
			return nil, newParseError(KindTruncatedData, int64(self.pos),
				node.Tag, "object %d opened at %d has no end marker",
				node.ID, node.Offset)
		}

		tag_offset := self.pos
		tag, err := self.readTag()
		if err != nil {
			return nil, err
		}

		switch {
		case tag == EndObjectTag:
			stack = stack[:len(stack)-1]

		case IsObjectTag(tag):
			err := ctx.Err()
			if err != nil {
				return nil, err
			}

			if len(stack) >= self.limits.MaxDepth {
				return nil, newParseError(KindDepthExceeded,
					int64(tag_offset), tag,
					"nesting deeper than %d", self.limits.MaxDepth)
			}

			child, err := self.openObject(tag, current, tag_offset)
			if err != nil {
				return nil, err
			}
			parent := &self.tree.Nodes[current]
			parent.Children = append(parent.Children, child)
			stack = append(stack, child)

		default:
			prop, err := self.readProperty(tag, tag_offset)
			if err != nil {
				return nil, err
			}
			node := &self.tree.Nodes[current]
			node.Properties = append(node.Properties, prop)
		}
	}

	self.tree.TrailingBytes = self.remaining()
	return self.tree, nil
}

func (self *treeReader) readProperty(tag uint16, offset int) (Property, error) {
	if self.remaining() < 2 {
		return Property{}, newParseError(KindTruncatedData, int64(self.pos),
			tag, "property length needs 2 bytes, have %d", self.remaining())
	}

	length := uint64(ReadU16(self.buf, self.pos))
	self.pos += 2

	if length == uint64(lengthEscape) {
		if self.remaining() < 4 {
			return Property{}, newParseError(KindTruncatedData,
				int64(self.pos), tag,
				"escaped length needs 4 bytes, have %d", self.remaining())
		}
		length = uint64(ReadU32(self.buf, self.pos))
		self.pos += 4
	}

	if length > uint64(self.remaining()) {
		return Property{}, newParseError(KindTruncatedData, int64(self.pos),
			tag, "property declares %d bytes, have %d",
			length, self.remaining())
	}

	data := make([]byte, length)
	copy(data, self.buf[self.pos:self.pos+int(length)])
	self.pos += int(length)

	return Property{
		Tag:    tag,
		Offset: int64(offset),
		Data:   data,
	}, nil
}
