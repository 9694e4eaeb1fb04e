// types_utils.go - Hilfsfunktionen fuer Options
// Enthaelt: FormatParams(), optionFields()

package api

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// optionFields maps json tag names of [Options] to their struct fields.
func optionFields() map[string]reflect.StructField {
	jsonOpts := make(map[string]reflect.StructField)
	for _, field := range reflect.VisibleFields(reflect.TypeOf(Options{})) {
		if field.Anonymous {
			continue
		}

		jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonTag != "" {
			jsonOpts[jsonTag] = field
		}
	}
	return jsonOpts
}

// FormatParams converts textual parameters, e.g. from "-o key=value" flags,
// into option values of the correct type. Repeated values are only kept for
// list options such as "stop".
func FormatParams(params map[string][]string) (map[string]any, error) {
	jsonOpts := optionFields()

	out := make(map[string]any)
	for key, vals := range params {
		opt, ok := jsonOpts[key]
		if !ok {
			return nil, fmt.Errorf("unknown parameter '%s'", key)
		}
		if len(vals) == 0 {
			continue
		}

		switch opt.Type.Kind() {
		case reflect.Float32:
			floatVal, err := strconv.ParseFloat(vals[0], 32)
			if err != nil {
				return nil, fmt.Errorf("invalid float value %s", vals)
			}

			out[key] = float32(floatVal)
		case reflect.Int:
			intVal, err := strconv.ParseInt(vals[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid int value %s", vals)
			}

			out[key] = intVal
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(vals[0])
			if err != nil {
				return nil, fmt.Errorf("invalid bool value %s", vals)
			}

			out[key] = boolVal
		case reflect.String:
			out[key] = vals[0]
		case reflect.Slice:
			// only string slices are used by Options
			out[key] = vals
		case reflect.Pointer:
			if opt.Type.Elem().Kind() != reflect.Bool {
				return nil, fmt.Errorf("unknown type %s for %s", opt.Type, key)
			}

			boolVal, err := strconv.ParseBool(vals[0])
			if err != nil {
				return nil, fmt.Errorf("invalid bool value %s", vals)
			}
			out[key] = boolVal
		default:
			return nil, fmt.Errorf("unknown type %s for %s", opt.Type.Kind(), key)
		}
	}

	return out, nil
}
