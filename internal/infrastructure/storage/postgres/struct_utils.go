package postgres

import (
	"reflect"
	"sync"
)

// column maps a db tag to its field path, embedded structs flattened.
type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	if t.Kind() == reflect.Struct {
		cols = walkColumns(t, nil)
	}
	columnCache.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		// entity.Catalog, entity.Document, ...
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, walkColumns(f.Type, path)...)
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, index: path})
	}
	return cols
}

// ExtractDBColumns lists the db columns of T in field order.
//
//	cols := ExtractDBColumns[activity.Activity]()
//	// ["id", "version", "created_at", "updated_at", "active", "code", ...]
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap returns column -> value for every db-tagged field of v.
// Non-struct values yield nil.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		out[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return out
}
