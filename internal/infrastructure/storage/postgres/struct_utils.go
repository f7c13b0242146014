package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns lists the "db" tags of T, flattening embedded structs
// (entity.Document, pricing.LinePrice). Called once per repository at startup.
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			cols = append(cols, columnsOf(f.Type)...)
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// typeFields is the cached layout of one struct type.
type typeFields struct {
	tagged   map[string]int
	embedded []int
}

var layouts sync.Map // reflect.Type -> *typeFields

func layoutOf(t reflect.Type) *typeFields {
	if cached, ok := layouts.Load(t); ok {
		return cached.(*typeFields)
	}
	tf := &typeFields{tagged: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			tf.embedded = append(tf.embedded, i)
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			tf.tagged[tag] = i
		}
	}
	layouts.Store(t, tf)
	return tf
}

// StructToMap converts a struct (or pointer to one) to column -> value using
// "db" tags.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	tf := layoutOf(rv.Type())
	res := make(map[string]any, len(tf.tagged))
	for tag, idx := range tf.tagged {
		res[tag] = rv.Field(idx).Interface()
	}
	for _, idx := range tf.embedded {
		for k, val := range StructToMap(rv.Field(idx).Interface()) {
			res[k] = val
		}
	}
	return res
}

// Row returns the values of cols from v, in order, skipping any column in skip.
func Row(v any, cols []string, skip ...string) ([]string, []any) {
	data := StructToMap(v)
	outCols := make([]string, 0, len(cols))
	outVals := make([]any, 0, len(cols))
	for _, c := range cols {
		if contains(skip, c) {
			continue
		}
		val, ok := data[c]
		if !ok {
			continue
		}
		outCols = append(outCols, c)
		outVals = append(outVals, val)
	}
	return outCols, outVals
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
