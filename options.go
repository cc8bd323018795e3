package cdx

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Option structs tag their fields with this name to control binding.
const tagName = "cdx"

func getTag(field reflect.StructField) map[string]string {
	options := make(map[string]string)

	tag := field.Tag.Get(tagName)

	// Skip if tag is not defined or ignored
	if tag == "" || tag == "-" {
		return nil
	}

	directives := strings.Split(tag, ",")
	for _, directive := range directives {
		if strings.Contains(directive, "=") {
			components := strings.SplitN(directive, "=", 2)
			options[components[0]] = components[1]
		} else {
			options[directive] = "Y"
		}
	}

	return options
}

// ParseOptions binds a catalog options dict into the tagged fields of
// target.
func ParseOptions(args *ordereddict.Dict, target interface{}) error {
	v := reflect.ValueOf(target)
	t := v.Type()

	if t.Kind() == reflect.Ptr {
		v = v.Elem()
		t = v.Type()
	}

	if t.Kind() != reflect.Struct {
		return errors.New("Only structs can be set with ParseOptions()")
	}

	if args == nil {
		args = ordereddict.NewDict()
	}

	args_specified := make(map[string]bool)
	for _, k := range args.Keys() {
		args_specified[k] = true
	}

	for i := 0; i < v.NumField(); i++ {
		// Get the field tag value
		field_types_value := t.Field(i)
		options := getTag(field_types_value)
		if options == nil {
			continue
		}

		// Is the name specified in the tag?
		field_name, pres := options["field"]
		if !pres {
			field_name = field_types_value.Name
		}

		field_value := v.Field(field_types_value.Index[0])
		if !field_value.IsValid() || !field_value.CanSet() {
			return fmt.Errorf("Field %s is unsettable.", field_name)
		}

		field_data, pres := args.Get(field_name)
		if !pres {
			_, required := options["required"]
			if required {
				return fmt.Errorf("Field %v is required in %T",
					field_name, target)
			}
			continue
		}
		delete(args_specified, field_name)

		switch field_types_value.Type.String() {

		case "string":
			str, ok := field_data.(string)
			if ok {
				field_value.Set(reflect.ValueOf(str))
				continue
			}
			return fmt.Errorf("field %v: Expecting a string not %T",
				field_name, field_data)

		case "int64":
			a, ok := to_int64(field_data)
			if ok {
				field_value.Set(reflect.ValueOf(a))
				continue
			}
			return fmt.Errorf("field %v: Expecting an integer not %T",
				field_name, field_data)

		case "uint16":
			a, ok := to_int64(field_data)
			if ok && a >= 0 && a <= 0xFFFF {
				field_value.Set(reflect.ValueOf(uint16(a)))
				continue
			}
			return fmt.Errorf("field %v: Expecting a 16 bit integer not %v",
				field_name, field_data)

		case "float64":
			a, ok := to_float64(field_data)
			if ok {
				field_value.Set(reflect.ValueOf(a))
				continue
			}
			return fmt.Errorf("field %v: Expecting a number not %T",
				field_name, field_data)

		case "bool":
			a, ok := to_int64(field_data)
			if ok {
				field_value.Set(reflect.ValueOf(a > 0))
				continue
			}
			return fmt.Errorf("field %v: Expecting a bool not %T",
				field_name, field_data)

		case "[]string":
			list, ok := to_string_list(field_data)
			if ok {
				field_value.Set(reflect.ValueOf(list))
				continue
			}
			return fmt.Errorf("field %v: Expecting a list of strings not %T",
				field_name, field_data)

		case "*ordereddict.Dict":
			dict, ok := field_data.(*ordereddict.Dict)
			if ok {
				field_value.Set(reflect.ValueOf(dict))
				continue
			}
			return fmt.Errorf("field %v: Expecting a mapping not %T",
				field_name, field_data)

		default:
			return fmt.Errorf("field %v: unable to handle field type %v",
				field_name, field_types_value.Type.String())
		}
	}

	// Report any unexpected parameters
	if len(args_specified) > 0 {
		var extras []string
		for k := range args_specified {
			extras = append(extras, k)
		}
		sort.Strings(extras)
		return fmt.Errorf("Unexpected parameters provided: %v", extras)
	}

	return nil
}
