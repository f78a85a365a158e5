package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the wire layout for date parameters.
const TimeFormat = "2006-01-02T15:04:05Z"

// ParamValuer lets a type control its own wire representation. Returning
// false omits the parameter.
type ParamValuer interface {
	ParamValue() (any, bool)
}

// JSONValue sends its payload as compact JSON (e.g. access_control,
// responsive_breakpoints). A nil payload is omitted.
type JSONValue struct {
	V any
}

func (j JSONValue) ParamValue() (any, bool) {
	if j.V == nil {
		return nil, false
	}
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, false
	}
	return RawJSON(b), true
}

// Bool returns a pointer to b, for optional tri-state flags.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for optional numbers where zero is meaningful.
func Int(i int) *int { return &i }

// Float returns a pointer to f, for optional numbers where zero is meaningful.
func Float(f float64) *float64 { return &f }

// FormatBool renders the literal strings "true" and "false".
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// FormatFloat renders f without exponent and independent of locale.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatTime renders t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

var contextEscaper = strings.NewReplacer(`=`, `\=`, `|`, `\|`)

// EncodeContext renders key/value metadata as "k1=v1|k2=v2" sorted by key,
// escaping '=' and '|' inside keys and values.
func EncodeContext(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, contextEscaper.Replace(k)+"="+contextEscaper.Replace(m[k]))
	}
	return strings.Join(parts, "|")
}

// NormalizeValue converts a struct field into its wire form: a string, a
// []string collection or FileData. The second result is false when the field
// is unset and must be omitted.
//
// Non-pointer fields are unset when they hold their zero value, so a plain
// bool is only sent when true. Pointer fields are unset only when nil, which is
// how callers send an explicit "false" or 0.
func NormalizeValue(v reflect.Value) (any, bool) {
	if !v.IsValid() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
		return formatValue(v)
	}
	if v.IsZero() {
		return nil, false
	}
	return formatValue(v)
}

// NormalizeAny is NormalizeValue for an arbitrary Go value.
func NormalizeAny(val any) (any, bool) {
	if val == nil {
		return nil, false
	}
	return NormalizeValue(reflect.ValueOf(val))
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

func formatValue(v reflect.Value) (any, bool) {
	isRef := v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface
	if isRef && v.IsNil() {
		return nil, false
	}
	// Pointer receivers (e.g. *Transformation) are matched before dereferencing.
	if v.CanInterface() {
		switch t := v.Interface().(type) {
		case FileData:
			return t, true
		case time.Time:
			if t.IsZero() {
				return nil, false
			}
			return FormatTime(t), true
		case *time.Time:
			return formatValue(v.Elem())
		case ParamValuer:
			return t.ParamValue()
		case fmt.Stringer:
			if s := t.String(); s != "" {
				return s, true
			}
			return nil, false
		}
	}
	if isRef {
		return formatValue(v.Elem())
	}

	switch v.Kind() {
	case reflect.Bool:
		return FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return FormatFloat(v.Float()), true
	case reflect.String:
		if s := v.String(); s != "" {
			return s, true
		}
		return nil, false
	case reflect.Slice, reflect.Array:
		return formatCollection(v)
	case reflect.Map:
		if v.Len() == 0 {
			return nil, false
		}
		m := make(map[string]string, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			item, ok := formatValue(iter.Value())
			if !ok {
				continue
			}
			m[fmt.Sprint(iter.Key().Interface())] = scalarString(item)
		}
		if len(m) == 0 {
			return nil, false
		}
		return EncodeContext(m), true
	case reflect.Struct:
		if !v.CanInterface() {
			return nil, false
		}
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, false
		}
		return RawJSON(b), true
	}
	if !v.CanInterface() {
		return nil, false
	}
	return fmt.Sprint(v.Interface()), true
}

// formatCollection keeps plain lists as []string. Lists of Stringers
// (rectangles, transformations) collapse into one pipe-delimited string.
func formatCollection(v reflect.Value) (any, bool) {
	if v.Len() == 0 {
		return nil, false
	}
	elemType := v.Type().Elem()
	piped := elemType.Kind() != reflect.String && elemType.Implements(stringerType)
	items := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item, ok := formatValue(v.Index(i))
		if !ok {
			continue
		}
		items = append(items, scalarString(item))
	}
	if len(items) == 0 {
		return nil, false
	}
	if piped {
		return strings.Join(items, "|"), true
	}
	return items, true
}

func scalarString(item any) string {
	switch t := item.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
