package cdx

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/Velocidex/ordereddict"
	"github.com/Velocidex/yaml"
)

//go:embed catalog.yaml
var defaultCatalogDefinitions string

// ObjectDefinition describes one object kind.
type ObjectDefinition struct {
	Name string
	Tag  uint16

	// Kinds allowed as children. "*" allows anything.
	Children []string

	// Optional parent kind for reference assignability.
	Base string

	catalog *Catalog
}

// Is reports whether this kind may stand in for kind: the kind itself,
// any kind on its base chain, or the wildcard "Object".
func (self *ObjectDefinition) Is(kind string) bool {
	if kind == "Object" || kind == self.Name {
		return true
	}

	if self.catalog == nil {
		return false
	}

	// Bound the walk in case definitions form a cycle.
	base := self.Base
	for i := 0; base != "" && i < 32; i++ {
		if base == kind {
			return true
		}
		def, pres := self.catalog.objects_by_name[base]
		if !pres {
			return false
		}
		base = def.Base
	}
	return false
}

func (self *ObjectDefinition) AllowsChild(kind string) bool {
	for _, name := range self.Children {
		if name == "*" || name == kind {
			return true
		}
	}
	return false
}

// PropertyDefinition describes one property tag.
type PropertyDefinition struct {
	Name    string
	Tag     uint16
	Type    string
	Options *ordereddict.Dict

	mu      sync.Mutex
	decoder Decoder
}

// Decoder returns the configured decoder for this property,
// instantiating it on first use.
func (self *PropertyDefinition) Decoder(catalog *Catalog) (Decoder, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.decoder != nil {
		return self.decoder, nil
	}

	decoder, err := catalog.GetDecoder(self.Type, self.Options)
	if err != nil {
		return nil, fmt.Errorf("property %v (%#04x): %w", self.Name, self.Tag, err)
	}

	// Cache the decoder for next time.
	self.decoder = decoder
	return decoder, nil
}

// TypeDefinition names a decoder together with its options so
// properties can share it.
type TypeDefinition struct {
	Name    string
	Type    string
	Options *ordereddict.Dict
}

type catalogDefinitions struct {
	Types      []*TypeDefinition     `yaml:"types" json:"types"`
	Objects    []*ObjectDefinition   `yaml:"objects" json:"objects"`
	Properties []*PropertyDefinition `yaml:"properties" json:"properties"`
}

// Catalog is the lookup table from tags to object kinds and property
// decoders.
type Catalog struct {
	types map[string]Decoder

	objects         map[uint16]*ObjectDefinition
	objects_by_name map[string]*ObjectDefinition

	properties         map[uint16]*PropertyDefinition
	properties_by_name map[string]*PropertyDefinition
}

func NewCatalog() *Catalog {
	return &Catalog{
		types:              make(map[string]Decoder),
		objects:            make(map[uint16]*ObjectDefinition),
		objects_by_name:    make(map[string]*ObjectDefinition),
		properties:         make(map[uint16]*PropertyDefinition),
		properties_by_name: make(map[string]*PropertyDefinition),
	}
}

var (
	default_catalog     *Catalog
	default_catalog_err error
	default_catalog_mu  sync.Once
)

// DefaultCatalog returns the built in catalog. It is shared and must
// not be extended; use NewDefaultCatalog for a private copy.
func DefaultCatalog() (*Catalog, error) {
	default_catalog_mu.Do(func() {
		default_catalog, default_catalog_err = NewDefaultCatalog()
	})
	return default_catalog, default_catalog_err
}

func NewDefaultCatalog() (*Catalog, error) {
	result := NewCatalog()
	AddModel(result)
	err := result.ParseDefinitions(defaultCatalogDefinitions)
	if err != nil {
		return nil, fmt.Errorf("built in catalog: %w", err)
	}
	return result, nil
}

func (self *Catalog) AddDecoder(type_name string, decoder Decoder) {
	self.types[type_name] = decoder
}

func (self *Catalog) GetDecoder(name string, options *ordereddict.Dict) (Decoder, error) {
	decoder, pres := self.types[name]
	if !pres {
		return nil, fmt.Errorf("decoder %v: %w", name, NotFoundError)
	}
	return decoder.New(self, options)
}

func (self *Catalog) ObjectByTag(tag uint16) (*ObjectDefinition, bool) {
	def, pres := self.objects[tag]
	return def, pres
}

func (self *Catalog) ObjectByName(name string) (*ObjectDefinition, bool) {
	def, pres := self.objects_by_name[name]
	return def, pres
}

func (self *Catalog) PropertyByTag(tag uint16) (*PropertyDefinition, bool) {
	def, pres := self.properties[tag]
	return def, pres
}

func (self *Catalog) PropertyByName(name string) (*PropertyDefinition, bool) {
	def, pres := self.properties_by_name[name]
	return def, pres
}

// TagName returns a printable name for any tag.
func (self *Catalog) TagName(tag uint16) string {
	if IsObjectTag(tag) {
		def, pres := self.objects[tag]
		if pres {
			return def.Name
		}
	} else {
		def, pres := self.properties[tag]
		if pres {
			return def.Name
		}
	}
	return fmt.Sprintf("%#04x", tag)
}

func (self *Catalog) Objects() []*ObjectDefinition {
	result := make([]*ObjectDefinition, 0, len(self.objects))
	for _, def := range self.objects {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result
}

func (self *Catalog) Properties() []*PropertyDefinition {
	result := make([]*PropertyDefinition, 0, len(self.properties))
	for _, def := range self.properties {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result
}

// Build the catalog from definitions given in the catalog language.
// Later definitions replace earlier ones with the same tag.
func (self *Catalog) ParseDefinitions(definitions string) error {
	var defs catalogDefinitions

	err := yaml.Unmarshal([]byte(definitions), &defs)
	if err != nil {
		return err
	}

	return self.install(&defs)
}

func (self *Catalog) install(defs *catalogDefinitions) error {
	// Typedefs are resolved lazily so they may refer to each other
	// in any order.
	for _, type_def := range defs.Types {
		self.types[type_def.Name] = &TypedefDecoder{
			name:     type_def.Name,
			delegate: type_def.Type,
			options:  type_def.Options,
			catalog:  self,
		}
	}

	for _, object_def := range defs.Objects {
		if !IsObjectTag(object_def.Tag) {
			return fmt.Errorf("object %v: tag %#04x is below %#04x",
				object_def.Name, object_def.Tag, ObjectTagThreshold)
		}
		object_def.catalog = self
		self.objects[object_def.Tag] = object_def
		self.objects_by_name[object_def.Name] = object_def
	}

	for _, prop_def := range defs.Properties {
		if IsObjectTag(prop_def.Tag) || prop_def.Tag == EndObjectTag {
			return fmt.Errorf("property %v: tag %#04x is not a property tag",
				prop_def.Name, prop_def.Tag)
		}

		_, pres := self.types[prop_def.Type]
		if !pres {
			return fmt.Errorf(
				"Reference to undefined type %v in property %v",
				prop_def.Type, prop_def.Name)
		}

		self.properties[prop_def.Tag] = prop_def
		self.properties_by_name[prop_def.Name] = prop_def
	}

	for _, object_def := range defs.Objects {
		if object_def.Base != "" {
			_, pres := self.objects_by_name[object_def.Base]
			if !pres {
				return fmt.Errorf("object %v: unknown base %v",
					object_def.Name, object_def.Base)
			}
		}
	}

	return nil
}
