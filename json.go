// Support JSON encoded catalog definitions.

package cdx

import (
	"encoding/json"
	"errors"
	"fmt"
)

func (self *ObjectDefinition) UnmarshalJSON(p []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(p, &tmp); err != nil {
		return err
	}
	return self.UnmarshalYAML(func(v interface{}) error {
		out, ok := v.(*[]interface{})
		if !ok {
			return errors.New("unexpected target")
		}
		*out = tmp
		return nil
	})
}

func (self *PropertyDefinition) UnmarshalJSON(p []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(p, &tmp); err != nil {
		return err
	}
	return self.UnmarshalYAML(func(v interface{}) error {
		out, ok := v.(*[]interface{})
		if !ok {
			return errors.New("unexpected target")
		}
		*out = tmp
		return nil
	})
}

func (self *TypeDefinition) UnmarshalJSON(p []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(p, &tmp); err != nil {
		return err
	}
	return self.UnmarshalYAML(func(v interface{}) error {
		out, ok := v.(*[]interface{})
		if !ok {
			return errors.New("unexpected target")
		}
		*out = tmp
		return nil
	})
}

// ParseJSONDefinitions accepts the catalog language in strict JSON.
// Tags may be given as numbers or as strings like "0x8000".
func (self *Catalog) ParseJSONDefinitions(definitions []byte) error {
	var defs catalogDefinitions
	err := json.Unmarshal(definitions, &defs)
	if err != nil {
		return fmt.Errorf("catalog json: %w", err)
	}

	return self.install(&defs)
}
