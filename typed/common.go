package typed

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/mediacloud/go-mediacloud/core"
)

// -----------------------------------------------------
// FILE SOURCE
// -----------------------------------------------------

// File is the payload of an upload: a local path, an in-memory buffer or a
// remote reference (http(s)/s3/gs URL or data URI) fetched by the service.
type File struct {
	Path    string
	Remote  string
	Name    string
	Content []byte
}

// FilePath uploads a local file.
func FilePath(path string) File { return File{Path: path} }

// FileURL lets the service fetch the asset from a URL or data URI.
func FileURL(url string) File { return File{Remote: url} }

// FileBytes uploads an in-memory payload.
func FileBytes(name string, content []byte) File { return File{Name: name, Content: content} }

// IsSet reports whether any source is configured.
func (f File) IsSet() bool {
	return f.Path != "" || f.Remote != "" || f.Content != nil
}

// ParamValue renders the file field. An unresolved local path is omitted:
// the upload methods load it with Resolve before building the dictionary.
func (f File) ParamValue() (any, bool) {
	switch {
	case f.Content != nil:
		name := f.Name
		if name == "" && f.Path != "" {
			name = filepath.Base(f.Path)
		}
		return core.FileData{Filename: name, Content: f.Content}, true
	case f.Remote != "":
		return f.Remote, true
	}
	return nil, false
}

// Resolve loads a local path into memory. Other sources are returned as is.
func (f File) Resolve() (File, error) {
	if f.Content != nil || f.Remote != "" || f.Path == "" {
		return f, nil
	}
	data, err := core.ReadFileData(f.Path)
	if err != nil {
		return f, err
	}
	f.Content = data.Content
	if f.Name == "" {
		f.Name = data.Filename
	}
	return f, nil
}

// -----------------------------------------------------
// SHARED RESULT SHAPES
// -----------------------------------------------------

// Derived is a transformed variant of an original asset.
type Derived struct {
	ID             string `json:"id"`
	Transformation string `json:"transformation"`
	Format         string `json:"format"`
	Bytes          int64  `json:"bytes"`
	URL            string `json:"url"`
	SecureURL      string `json:"secure_url"`
}

// EagerResult is a derived asset generated at upload or explicit time.
type EagerResult struct {
	Transformation string `json:"transformation"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Bytes          int64  `json:"bytes"`
	Format         string `json:"format"`
	URL            string `json:"url"`
	SecureURL      string `json:"secure_url"`
}

// ResourceContext holds the key/value context attached to an asset.
type ResourceContext struct {
	Custom map[string]string `json:"custom"`
}

// AccessControlRule restricts delivery of an asset to a token or a time window.
type AccessControlRule struct {
	AccessType string `json:"access_type"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
}

// Breakpoints is one entry of responsive_breakpoints in upload results.
type Breakpoints struct {
	Transformation string `json:"transformation"`
	Breakpoints    []struct {
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Bytes     int64  `json:"bytes"`
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
	} `json:"breakpoints"`
}

// RecordResult is the result of operations whose payload has no fixed
// shape; the body stays available through Raw.
type RecordResult struct {
	core.BaseResult
}

// Get returns a raw field by wire or PascalCase name.
func (r *RecordResult) Get(name string) (any, bool) {
	return r.Raw.Lookup(name)
}

// MessageResult is returned by admin operations that only acknowledge.
type MessageResult struct {
	core.BaseResult
	Message string `json:"message"`
}

// -----------------------------------------------------
// HELPERS
// -----------------------------------------------------

func postEndpoint(api core.API, segments ...string) core.Endpoint {
	return core.Endpoint{API: api, Method: http.MethodPost, Path: core.JoinPath(segments...)}
}

func endpoint(method string, segments ...string) core.Endpoint {
	return core.Endpoint{API: core.AdminAPI, Method: method, Path: core.JoinPath(segments...)}
}

// jsonList decodes a list held in a Record field into out. Missing keys leave out untouched.
func jsonList(r core.Record, key string, out any) error {
	raw, ok := r.Lookup(key)
	if !ok || raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
