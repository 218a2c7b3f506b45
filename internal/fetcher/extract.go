package fetcher

import (
	"github.com/tidwall/gjson"
)

// Extraction is the result of locating the record list in a payload.
type Extraction struct {
	Records []gjson.Result
	// Key is the object key the records were found under, empty for a bare list.
	Key string
	// Fallback is set when the list was picked because it was the first list-valued
	// entry rather than one of the priority keys. With several list-valued entries
	// this is a guess, callers should warn about it.
	Fallback bool
}

// ExtractRecords locates the list of records in a JSON payload:
//  1. a top-level array is the list;
//  2. otherwise the first of `keys` present on the object whose value is an array;
//  3. otherwise the first array-valued entry of the object, in document order.
//
// It returns ErrInvalidJSON if the payload does not parse and a *ShapeError if no
// list is found.
func ExtractRecords(payload []byte, keys []string) (Extraction, error) {
	if !gjson.ValidBytes(payload) {
		return Extraction{}, ErrInvalidJSON
	}

	root := gjson.ParseBytes(payload)
	if root.IsArray() {
		return Extraction{Records: root.Array()}, nil
	}
	if !root.IsObject() {
		return Extraction{}, &ShapeError{Type: jsonType(root)}
	}

	// gjson paths treat dots and wildcards specially, so keys are matched by
	// walking the object instead of using root.Get(key).
	var order []string
	entries := map[string]gjson.Result{}
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, dup := entries[name]; !dup {
			order = append(order, name)
			entries[name] = value
		}
		return true
	})

	for _, key := range keys {
		value, ok := entries[key]
		if ok && value.IsArray() {
			return Extraction{Records: value.Array(), Key: key}, nil
		}
	}

	for _, key := range order {
		value := entries[key]
		if value.IsArray() {
			return Extraction{Records: value.Array(), Key: key, Fallback: true}, nil
		}
	}

	return Extraction{}, &ShapeError{Keys: order, Type: "object"}
}

func jsonType(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if value.IsArray() {
		return "array"
	}
	return "object"
}
