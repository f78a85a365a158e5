package core

import (
	"reflect"
	"strings"
)

// RequestParams is implemented by every operation's parameter type.
//
// Check validates required and mutually exclusive fields and never mutates the
// receiver. ToParams builds the wire dictionary; it is idempotent and may be
// called more than once (for signing and again for encoding).
type RequestParams interface {
	Check() error
	ToParams() Params
}

// ParamsFromStruct flattens a field-group struct into a dictionary.
//
// The wire name comes from the `param` tag, or from the snake_case form of the
// field name when the tag is absent. `param:"-"` skips a field. Embedded
// structs are flattened in declaration order, so later fields win on collision.
// Every value goes through NormalizeValue and unset fields are omitted.
func ParamsFromStruct(obj any) Params {
	out := make(Params)
	if obj == nil {
		return out
	}
	appendStruct(out, reflect.ValueOf(obj))
	return out
}

func appendStruct(out Params, val reflect.Value) {
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("param")
		if tag == "-" {
			continue
		}
		if field.Anonymous && tag == "" {
			appendStruct(out, val.Field(i))
			continue
		}
		if !field.IsExported() {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = ToSnakeCase(field.Name)
		}
		if v, ok := NormalizeValue(val.Field(i)); ok {
			out[name] = v
		}
	}
}

// MergeParams merges dictionaries in order; a later group overwrites keys of
// an earlier one. Nil groups are skipped.
func MergeParams(groups ...Params) Params {
	out := make(Params)
	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}
	return out
}

// BuildParams is the common ToParams body: the struct's own fields followed by
// caller supplied custom parameters.
func BuildParams(obj any, custom Params) Params {
	return MergeParams(ParamsFromStruct(obj), custom)
}

//  ######################################################
//              RESOURCE FILTER
//  ######################################################

// ResourceFilter selects which resources a bulk operation targets. Exactly one
// filter mode is active at a time: holding a single ResourceFilter value makes
// the modes mutually exclusive by construction.
type ResourceFilter interface {
	// FilterParams returns the wire fields of the filter.
	FilterParams() Params
	filterName() string
}

// ByTag selects resources carrying a tag.
type ByTag string

// ByPrefix selects resources whose public id starts with a prefix.
type ByPrefix string

// ByPublicIDs selects an explicit list of resources.
type ByPublicIDs []string

// AllResources selects every resource of the given type.
type AllResources struct{}

func (f ByTag) FilterParams() Params {
	if f == "" {
		return Params{}
	}
	return Params{"tag": string(f)}
}
func (f ByTag) filterName() string { return "tag" }

func (f ByPrefix) FilterParams() Params {
	if f == "" {
		return Params{}
	}
	return Params{"prefix": string(f)}
}
func (f ByPrefix) filterName() string { return "prefix" }

func (f ByPublicIDs) FilterParams() Params {
	if len(f) == 0 {
		return Params{}
	}
	return Params{"public_ids": append([]string(nil), f...)}
}
func (f ByPublicIDs) filterName() string { return "public_ids" }

func (AllResources) FilterParams() Params { return Params{"all": FormatBool(true)} }
func (AllResources) filterName() string   { return "all" }

// CheckFilter verifies that a filter is set and not empty.
func CheckFilter(f ResourceFilter) error {
	if f == nil || len(f.FilterParams()) == 0 {
		return RequireOneOf("public_ids", "prefix", "tag", "all")
	}
	return nil
}

// FilterParams returns the wire fields of f, or an empty dictionary when f is nil.
func FilterParams(f ResourceFilter) Params {
	if f == nil {
		return Params{}
	}
	return f.FilterParams()
}
