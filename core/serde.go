package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
)

const (
	customRawKey = "@raw" // used to store non-object JSON payloads in Record
)

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	"public_id":     empty,
	"asset_id":      empty,
	"resource_type": empty,
	"type":          empty,
	"format":        empty,
	"version":       empty,
	"bytes":         empty,
	"width":         empty,
	"height":        empty,
	"secure_url":    empty,
	"name":          empty,
	"path":          empty,
	"external_id":   empty,
	"label":         empty,
	"result":        empty,
	"status":        empty,
}

// FillFunc populates a typed container from a Record.
type FillFunc func(Record, any) error

// DefaultFill round-trips the Record through JSON into container.
func DefaultFill(r Record, container any) error {
	dbByte, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// FlexibleUnmarshal coerces numbers into string fields and loose booleans into bool fields
	return FlexibleUnmarshal(dbByte, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params is the canonical parameter dictionary of one request. Values are
// string, []string (collections), RawJSON or FileData (file payloads).
type Params map[string]any

// RawJSON is an already encoded JSON document. Form encodings and signatures
// see it as a plain string; JSON bodies embed it verbatim.
type RawJSON string

// FileData represents a file to be uploaded in multipart form data
type FileData struct {
	Filename string
	Content  []byte
}

// ReadFileData loads a local file into a FileData payload.
func ReadFileData(path string) (FileData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileData{}, err
	}
	return FileData{Filename: filepath.Base(path), Content: content}, nil
}

func (f FileData) String() string {
	return fmt.Sprintf("<file %s, %d bytes>", f.Filename, len(f.Content))
}

// Keys returns the parameter names in ascending order.
func (pr Params) Keys() []string {
	keys := make([]string, 0, len(pr))
	for k := range pr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasFile reports whether any value is a file payload.
func (pr Params) HasFile() bool {
	for _, v := range pr {
		if _, ok := v.(FileData); ok {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy. Collections are copied so callers can mutate them.
func (pr Params) Clone() Params {
	out := make(Params, len(pr))
	for k, v := range pr {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// ToValues encodes the dictionary as url.Values. Collections are sent as
// repeated "key[]" fields; file payloads are skipped.
func (pr Params) ToValues() url.Values {
	values := url.Values{}
	for _, k := range pr.Keys() {
		switch v := pr[k].(type) {
		case FileData:
			continue
		case []string:
			for _, item := range v {
				values.Add(k+"[]", item)
			}
		case string:
			values.Set(k, v)
		default:
			values.Set(k, fmt.Sprint(v))
		}
	}
	return values
}

// ToQuery serializes the Params into a URL-encoded query string.
func (pr Params) ToQuery() string {
	return pr.ToValues().Encode()
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an admin API POST, PUT or DELETE request.
func (pr Params) ToBody() (io.Reader, error) {
	payload := make(map[string]any, len(pr))
	for k, v := range pr {
		switch t := v.(type) {
		case FileData:
			return nil, fmt.Errorf("file parameter %q cannot be sent as JSON", k)
		case RawJSON:
			payload[k] = json.RawMessage(t)
		default:
			payload[k] = v
		}
	}
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// MultipartFormData represents the result of ToMultipartFormData()
type MultipartFormData struct {
	Body        io.Reader
	ContentType string
}

// ToMultipartFormData serializes the Params into multipart/form-data format.
// Fields are written in key order so the body is reproducible.
func (pr Params) ToMultipartFormData() (*MultipartFormData, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, key := range pr.Keys() {
		switch v := pr[key].(type) {
		case FileData:
			filename := v.Filename
			if filename == "" {
				filename = key
			}
			fileWriter, err := writer.CreateFormFile(key, filename)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file for %s: %w", key, err)
			}
			if _, err := fileWriter.Write(v.Content); err != nil {
				return nil, fmt.Errorf("failed to write file content for %s: %w", key, err)
			}
		case []string:
			for _, item := range v {
				if err := writer.WriteField(key+"[]", item); err != nil {
					return nil, fmt.Errorf("failed to write field %s: %w", key, err)
				}
			}
		default:
			if err := writer.WriteField(key, fmt.Sprintf("%v", v)); err != nil {
				return nil, fmt.Errorf("failed to write field %s: %w", key, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &MultipartFormData{
		Body:        &body,
		ContentType: writer.FormDataContentType(),
	}, nil
}

// Update merges another Params map into the original Params, last write wins.
func (pr Params) Update(other Params) {
	for key, value := range other {
		pr[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr Params) Without(keys ...string) {
	for _, key := range keys {
		delete(pr, key)
	}
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is implemented by types that can render themselves for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Record represents a single generic JSON object decoded from an API response.
// When a response is empty, an empty Record{} is returned.
type Record map[string]any

// Fill populates the exported fields of the given struct pointer using values
// from the Record. Keys are matched against `json` tags; numbers bound for
// string fields and loosely typed booleans are coerced (see FlexibleUnmarshal).
// Fields missing from the Record keep their zero value.
func (r Record) Fill(container any) error {
	return r.FillWith(DefaultFill, container)
}

// FillWith is Fill with a caller supplied decoder. A nil fill uses DefaultFill.
func (r Record) FillWith(fill FillFunc, container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	if fill == nil {
		fill = DefaultFill
	}
	return fill(r, container)
}

// Lookup finds a value by its wire name or by the PascalCase spelling of it,
// so both "public_id" and "PublicId" resolve the same key.
func (r Record) Lookup(name string) (any, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	if v, ok := r[ToSnakeCase(name)]; ok {
		return v, true
	}
	for k, v := range r {
		if ToPascalCase(k) == name {
			return v, true
		}
	}
	return nil, false
}

func (r Record) String() string {
	return r.PrettyTable()
}

// GetString returns the value for name as a string, or "" when absent.
func (r Record) GetString(name string) string {
	v, ok := r.Lookup(name)
	if !ok || v == nil {
		return ""
	}
	return convertToString(v)
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	// Collect remaining attributes that are not in printableAttrs
	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok && value != nil {
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

// RecordSet represents a list of Record objects.
type RecordSet []Record

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n")
		}
	}
	out.WriteString("\n]")
	return out.String()
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(rs, "", indent[0])
	} else {
		b, err = json.Marshal(rs)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// decodeRecord parses a response body into a Record. Empty bodies yield an
// empty Record; a top-level array or scalar is stored under customRawKey.
// The second result is false when the body is not JSON at all.
func decodeRecord(response *http.Response, body []byte) (Record, bool) {
	trimmed := bytes.TrimSpace(body)
	if response.StatusCode == http.StatusNoContent || len(trimmed) == 0 {
		return Record{}, true
	}
	switch trimmed[0] {
	case '{':
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, false
		}
		return rec, true
	case '[', '"':
		var anyVal any
		if err := json.Unmarshal(trimmed, &anyVal); err != nil {
			return nil, false
		}
		return Record{customRawKey: anyVal}, true
	default:
		return nil, false
	}
}
