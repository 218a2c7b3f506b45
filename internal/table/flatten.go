package table

import (
	"github.com/tidwall/gjson"
)

// ValueColumn holds records that are not JSON objects.
const ValueColumn = "value"

// Flatten turns a list of JSON records into a table. Nested objects become dotted
// column names ("meta.symbol"), arrays are kept as their raw JSON text and null
// becomes an empty cell. Columns appear in the order they are first seen.
func Flatten(records []gjson.Result) *Table {
	t := New()
	for _, record := range records {
		var columns []string
		row := Row{}
		if !record.IsObject() {
			columns = append(columns, ValueColumn)
			row[ValueColumn] = cellText(record)
		} else {
			flattenInto(record, "", &columns, row)
		}
		t.Append(columns, row)
	}
	return t
}

func flattenInto(obj gjson.Result, prefix string, columns *[]string, row Row) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if value.IsObject() && len(value.Map()) > 0 {
			flattenInto(value, name, columns, row)
			return true
		}
		if _, seen := row[name]; !seen {
			*columns = append(*columns, name)
		}
		row[name] = cellText(value)
		return true
	})
}

func cellText(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return value.String()
	case gjson.Number, gjson.True, gjson.False:
		return value.Raw
	default:
		return value.Raw
	}
}
