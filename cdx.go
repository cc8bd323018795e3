// Package cdx reads ChemDraw style binary TLV documents into a typed
// object graph.
//
// A document is decoded in three steps: the TLV stream is read into a
// tree of nodes, an object is created for every node and registered
// under its id, then the properties of every object are decoded using
// the catalog. Problems that leave the rest of the document usable are
// either returned (rigid mode) or recorded as diagnostics.
package cdx

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"www.velocidex.com/golang/vfilter"
)

type Options struct {
	// Rigid turns every recoverable fault into an error.
	Rigid bool

	// Zero means the default limit.
	MaxDepth int
	MaxNodes int

	// Defaults to DefaultCatalog().
	Catalog *Catalog

	// Receives warnings and debug output. May be nil.
	Scope vfilter.Scope
}

func (self Options) limits() Limits {
	return Limits{
		MaxDepth: self.MaxDepth,
		MaxNodes: self.MaxNodes,
	}.withDefaults()
}

// Parse decodes a whole document held in memory.
func Parse(ctx context.Context, buf []byte, options Options) (*Document, error) {
	catalog := options.Catalog
	if catalog == nil {
		var err error
		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	tree, err := ParseTree(ctx, buf, options.limits())
	if err != nil {
		return nil, err
	}

	if tree.TrailingBytes > 0 {
		ScopeDebug(options.Scope, "cdx: ignoring %d bytes after the document",
			tree.TrailingBytes)
	}

	decode_ctx := NewDecodeContext(options.Scope, catalog)
	decode_ctx.Rigid = options.Rigid
	decode_ctx.Tree = tree

	b := newBuilder(decode_ctx, tree)
	root, err := b.create(ctx)
	if err != nil {
		return nil, err
	}

	err = b.populate(ctx)
	if err != nil {
		return nil, err
	}

	return &Document{
		Object:      root,
		ColorTable:  decode_ctx.Colors,
		FontTable:   decode_ctx.Fonts,
		Diagnostics: decode_ctx.Diagnostics,
		Tree:        tree,
	}, nil
}

func ParseFile(ctx context.Context, filename string, options Options) (*Document, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "ParseFile")
	}

	doc, err := Parse(ctx, buf, options)
	if err != nil {
		return nil, errors.Wrapf(err, "ParseFile %v", filename)
	}
	return doc, nil
}
