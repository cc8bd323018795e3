package cdx

import (
	"errors"
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// [Name, Tag, [Children...], {options}?]
func (self *ObjectDefinition) UnmarshalYAML(unmarshal func(v interface{}) error) error {
	var values []interface{}
	err := unmarshal(&values)
	if err != nil {
		return err
	}

	if len(values) != 3 && len(values) != 4 {
		return errors.New("Object Definition should be [name, tag, children, options?]")
	}

	ok := false
	self.Name, ok = values[0].(string)
	if !ok {
		return errors.New("Name should be a string")
	}

	self.Tag, err = to_tag(values[1])
	if err != nil {
		return fmt.Errorf("%v: %w", self.Name, err)
	}

	self.Children, ok = to_string_list(values[2])
	if !ok {
		return fmt.Errorf("%v: children should be a list of kind names", self.Name)
	}

	if len(values) == 4 {
		options, err := to_options(self.Name, values[3])
		if err != nil {
			return err
		}
		self.Base, _ = options.GetString("base")
	}

	return nil
}

// [Name, Tag, Type, {options}?]
func (self *PropertyDefinition) UnmarshalYAML(unmarshal func(v interface{}) error) error {
	var values []interface{}
	err := unmarshal(&values)
	if err != nil {
		return err
	}

	if len(values) != 3 && len(values) != 4 {
		return errors.New("Property Definition should be [name, tag, type, options?]")
	}

	ok := false
	self.Name, ok = values[0].(string)
	if !ok {
		return errors.New("Name should be a string")
	}

	self.Tag, err = to_tag(values[1])
	if err != nil {
		return fmt.Errorf("%v: %w", self.Name, err)
	}

	self.Type, ok = values[2].(string)
	if !ok {
		return fmt.Errorf("%v: type should be a string", self.Name)
	}

	self.Options = ordereddict.NewDict()
	if len(values) == 4 {
		self.Options, err = to_options(self.Name, values[3])
		if err != nil {
			return err
		}
	}

	return nil
}

// [Name, Type, {options}]
func (self *TypeDefinition) UnmarshalYAML(unmarshal func(v interface{}) error) error {
	var values []interface{}
	err := unmarshal(&values)
	if err != nil {
		return err
	}

	if len(values) != 2 && len(values) != 3 {
		return errors.New("Type Definition should be [name, type, options?]")
	}

	ok := false
	self.Name, ok = values[0].(string)
	if !ok {
		return errors.New("Name should be a string")
	}

	self.Type, ok = values[1].(string)
	if !ok {
		return fmt.Errorf("%v: type should be a string", self.Name)
	}

	self.Options = ordereddict.NewDict()
	if len(values) == 3 {
		self.Options, err = to_options(self.Name, values[2])
		if err != nil {
			return err
		}
	}

	return nil
}

func to_options(name string, value interface{}) (*ordereddict.Dict, error) {
	switch t := value.(type) {
	case map[interface{}]interface{}:
		options, err := to_ordereddict(t)
		if err != nil {
			return nil, fmt.Errorf("%v: options %v", name, err)
		}
		return options, nil

	case map[string]interface{}:
		result := ordereddict.NewDict()
		for _, k := range sortedKeys(t) {
			result.Set(k, normalizeOption(t[k]))
		}
		return result, nil

	case *ordereddict.Dict:
		return t, nil

	default:
		return nil, fmt.Errorf("%v: options should be a map", name)
	}
}

// YAML maps come back with interface{} keys. Enumeration choices use
// integer keys so they are converted to their string form here.
func to_ordereddict(dict map[interface{}]interface{}) (*ordereddict.Dict, error) {
	keys := make(map[string]interface{}, len(dict))
	for k, v := range dict {
		switch k.(type) {
		case string, int, int64, uint64, bool:
		default:
			return nil, fmt.Errorf("unsupported key %v (%T)", k, k)
		}
		keys[fmt.Sprintf("%v", k)] = v
	}

	result := ordereddict.NewDict()
	for _, k := range sortedKeys(keys) {
		result.Set(k, normalizeOption(keys[k]))
	}
	return result, nil
}

func normalizeOption(value interface{}) interface{} {
	switch t := value.(type) {
	case map[interface{}]interface{}:
		dict, err := to_ordereddict(t)
		if err != nil {
			return value
		}
		return dict

	case map[string]interface{}:
		result := ordereddict.NewDict()
		for _, k := range sortedKeys(t) {
			result.Set(k, normalizeOption(t[k]))
		}
		return result

	case []interface{}:
		result := make([]interface{}, 0, len(t))
		for _, item := range t {
			result = append(result, normalizeOption(item))
		}
		return result
	}
	return value
}
