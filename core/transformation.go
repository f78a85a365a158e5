package core

import (
	"fmt"
	"sort"
	"strings"
)

// Transformation is a chain of transformation components. Each component is
// a set of short-key parameters rendered as "k_v" pairs sorted by key; the
// components are joined with '/':
//
//	NewTransformation().Width(100).Height(150).Crop("fill").Chain().Effect("sepia")
//	// c_fill,h_150,w_100/e_sepia
//
// A Transformation is both a parameter value (eager, transformation) and the
// transformation segment of delivery URLs.
type Transformation struct {
	chain []component
}

type component struct {
	params map[string]string
	raw    string
}

// NewTransformation returns an empty transformation with one open component.
func NewTransformation() *Transformation {
	return &Transformation{chain: []component{{params: map[string]string{}}}}
}

// ParseTransformation wraps an already rendered transformation string.
func ParseTransformation(s string) *Transformation {
	t := &Transformation{}
	for _, part := range strings.Split(s, "/") {
		if part == "" {
			continue
		}
		t.chain = append(t.chain, component{params: map[string]string{}, raw: part})
	}
	if len(t.chain) == 0 {
		t.chain = []component{{params: map[string]string{}}}
	}
	return t
}

func (t *Transformation) current() *component {
	if len(t.chain) == 0 {
		t.chain = append(t.chain, component{params: map[string]string{}})
	}
	return &t.chain[len(t.chain)-1]
}

// Set adds a raw short-key parameter to the current component. Empty values are ignored.
func (t *Transformation) Set(key string, value any) *Transformation {
	s := transformationValue(value)
	if s == "" {
		return t
	}
	t.current().params[key] = s
	return t
}

func transformationValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return FormatFloat(v)
	case float32:
		return FormatFloat(float64(v))
	case bool:
		return FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func (t *Transformation) Width(v any) *Transformation       { return t.Set("w", v) }
func (t *Transformation) Height(v any) *Transformation      { return t.Set("h", v) }
func (t *Transformation) Crop(v string) *Transformation     { return t.Set("c", v) }
func (t *Transformation) Gravity(v string) *Transformation  { return t.Set("g", v) }
func (t *Transformation) Effect(v string) *Transformation   { return t.Set("e", v) }
func (t *Transformation) Angle(v any) *Transformation       { return t.Set("a", v) }
func (t *Transformation) Quality(v any) *Transformation     { return t.Set("q", v) }
func (t *Transformation) FetchFormat(v string) *Transformation {
	return t.Set("f", v)
}
func (t *Transformation) Radius(v any) *Transformation       { return t.Set("r", v) }
func (t *Transformation) X(v any) *Transformation            { return t.Set("x", v) }
func (t *Transformation) Y(v any) *Transformation            { return t.Set("y", v) }
func (t *Transformation) Overlay(v string) *Transformation   { return t.Set("l", v) }
func (t *Transformation) Underlay(v string) *Transformation  { return t.Set("u", v) }
func (t *Transformation) Opacity(v any) *Transformation      { return t.Set("o", v) }
func (t *Transformation) Background(v string) *Transformation {
	return t.Set("b", v)
}
func (t *Transformation) Border(v string) *Transformation    { return t.Set("bo", v) }
func (t *Transformation) Color(v string) *Transformation     { return t.Set("co", v) }
func (t *Transformation) Dpr(v any) *Transformation          { return t.Set("dpr", v) }
func (t *Transformation) Flags(v ...string) *Transformation  { return t.Set("fl", strings.Join(v, ".")) }
func (t *Transformation) AspectRatio(v any) *Transformation  { return t.Set("ar", v) }
func (t *Transformation) Zoom(v any) *Transformation         { return t.Set("z", v) }
func (t *Transformation) Page(v any) *Transformation         { return t.Set("pg", v) }
func (t *Transformation) DefaultImage(v string) *Transformation {
	return t.Set("d", v)
}

// Named applies a named (stored) transformation.
func (t *Transformation) Named(names ...string) *Transformation {
	return t.Set("t", strings.Join(names, "."))
}

// Raw appends an already rendered fragment to the current component.
func (t *Transformation) Raw(fragment string) *Transformation {
	c := t.current()
	if c.raw == "" {
		c.raw = fragment
	} else if fragment != "" {
		c.raw += "," + fragment
	}
	return t
}

// Chain closes the current component and opens a new one.
func (t *Transformation) Chain() *Transformation {
	t.chain = append(t.chain, component{params: map[string]string{}})
	return t
}

// Empty reports whether no component carries any parameter.
func (t *Transformation) Empty() bool {
	return t == nil || t.String() == ""
}

func (c component) String() string {
	keys := make([]string, 0, len(c.params))
	for k := range c.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+"_"+c.params[k])
	}
	if c.raw != "" {
		parts = append(parts, c.raw)
	}
	return strings.Join(parts, ",")
}

func (t *Transformation) String() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.chain))
	for _, c := range t.chain {
		if s := c.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
