package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns extracts all column names from struct "db" tags,
// descending into embedded structs (entity.Catalog, entity.BaseEntity).
// Called once per repository at construction.
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

func extractColumnsFromType(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

// typeCache maps reflect.Type to *typeMetadata.
var typeCache sync.Map

func getOrCreateTypeMetadata(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embeddedIndices = append(meta.embeddedIndices, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct to a column map using "db" tags.
// Type metadata is cached, so only the first call per type reflects
// over the field list.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := getOrCreateTypeMetadata(rv.Type())
	res := make(map[string]any, len(meta.fields))

	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, embIdx := range meta.embeddedIndices {
		for k, val := range StructToMap(rv.Field(embIdx).Interface()) {
			res[k] = val
		}
	}
	return res
}

// PickColumns keeps only cols from data, skipping those in exclude.
func PickColumns(data map[string]any, cols []string, exclude ...string) map[string]any {
	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}
	out := make(map[string]any, len(cols))
	for _, col := range cols {
		if _, ok := skip[col]; ok {
			continue
		}
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out
}
