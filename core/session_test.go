package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestSession(t *testing.T, handler http.HandlerFunc, opts ...func(*Config)) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	config := &Config{CloudName: "demo", ApiKey: "key", ApiSecret: "abcd", ApiBaseAddress: srv.URL}
	for _, opt := range opts {
		opt(config)
	}
	err := config.Validate(
		WithCloudName,
		WithCredentials,
		WithApiBaseAddress(DefaultApiBaseAddress),
		WithUserAgent,
		WithSignatureAlgorithm,
		WithApiVersion(DefaultApiVersion),
		WithTimeout(5*time.Second),
		WithMaxConnections(2),
	)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	session, err := NewSession(config)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type testUploadRequest struct {
	PublicID string
	Tags     []string
	File     *FileData `param:"-"`
	Unsigned bool      `param:"-"`
}

func (p *testUploadRequest) Check() error {
	if p.PublicID == "" && p.File == nil {
		return RequireOneOf("public_id", "file")
	}
	return nil
}

func (p *testUploadRequest) ToParams() Params {
	params := ParamsFromStruct(p)
	if p.File != nil {
		params["file"] = *p.File
	}
	return params
}

func (p *testUploadRequest) IsUnsigned() bool { return p.Unsigned }

func TestSession_UploadIsSignedForm(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1_1/demo/image/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get(HeaderContentType); ct != ContentTypeFormURLEncoded {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get(HeaderAuthorization) != "" {
			t.Error("upload requests must not use basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
			return
		}
		form := r.PostForm
		if diff := cmp.Diff([]string{"a", "b"}, form["tags[]"]); diff != "" {
			t.Errorf("tags[] mismatch (-want +got):\n%s", diff)
		}
		if form.Get("api_key") != "key" || form.Get("api_secret") != "" {
			t.Errorf("unexpected credentials in form: %v", form)
		}
		signed := Params{
			"public_id": form.Get("public_id"),
			"tags":      form["tags[]"],
			"timestamp": form.Get("timestamp"),
		}
		if want := SignParameters(signed, "abcd", SHA1); form.Get("signature") != want {
			t.Errorf("signature = %q, want %q", form.Get("signature"), want)
		}
		writeJSON(w, http.StatusOK, `{"public_id":"sample","version":1312461204}`)
	})

	endpoint := Endpoint{API: UploadAPI, Method: http.MethodPost, Path: "image/upload"}
	result, err := Call[testUploadResult](context.Background(), session, endpoint,
		&testUploadRequest{PublicID: "sample", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.PublicID != "sample" || result.Version != 1312461204 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestSession_UploadFileIsMultipart(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if header.Filename != "cat.jpg" || string(content) != "jpeg-bytes" {
			t.Errorf("unexpected file %q %q", header.Filename, content)
		}
		if r.FormValue("signature") == "" || r.FormValue("timestamp") == "" {
			t.Error("multipart upload must be signed")
		}
		writeJSON(w, http.StatusOK, `{"public_id":"cat"}`)
	})

	endpoint := Endpoint{API: UploadAPI, Method: http.MethodPost, Path: "image/upload"}
	file := &FileData{Filename: "cat.jpg", Content: []byte("jpeg-bytes")}
	result, err := Call[testUploadResult](context.Background(), session, endpoint, &testUploadRequest{File: file})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.PublicID != "cat" {
		t.Errorf("PublicID = %q", result.PublicID)
	}
}

func TestSession_UnsignedUpload(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		for _, key := range []string{"signature", "api_key", "timestamp"} {
			if r.PostForm.Get(key) != "" {
				t.Errorf("unsigned upload carries %s", key)
			}
		}
		writeJSON(w, http.StatusOK, `{"public_id":"sample"}`)
	})
	endpoint := Endpoint{API: UploadAPI, Method: http.MethodPost, Path: "image/upload"}
	if _, err := Call[testUploadResult](context.Background(), session, endpoint,
		&testUploadRequest{PublicID: "sample", Unsigned: true}); err != nil {
		t.Fatal(err)
	}
}

func TestSession_AdminGetUsesQueryAndBasicAuth(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "abcd" {
			t.Errorf("basic auth = %q:%q (%v)", user, pass, ok)
		}
		if r.Method != http.MethodGet || r.URL.Path != "/v1_1/demo/resources/image" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("prefix") != "cats/" || q.Get("max_results") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("signature") != "" || q.Get("timestamp") != "" {
			t.Error("admin requests are not signed")
		}
		if r.Header.Get(HeaderRequestID) == "" {
			t.Error("missing request id header")
		}
		if !strings.HasPrefix(r.Header.Get(HeaderUserAgent), "go-mediacloud-") {
			t.Errorf("User-Agent = %q", r.Header.Get(HeaderUserAgent))
		}
		writeJSON(w, http.StatusOK, `{"resources":[]}`)
	})

	endpoint := Endpoint{API: AdminAPI, Method: http.MethodGet, Path: "resources/image"}
	response, err := session.Do(context.Background(), endpoint, Params{"prefix": "cats/", "max_results": "10"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", response.StatusCode)
	}
}

func TestSession_AdminPostSendsJSON(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get(HeaderContentType); ct != ContentTypeJSON {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		want := map[string]any{
			"tags":           []any{"a", "b"},
			"access_control": []any{map[string]any{"access_type": "anonymous"}},
			"name":           "thumb",
		}
		if diff := cmp.Diff(want, body); diff != "" {
			t.Errorf("body mismatch (-want +got):\n%s", diff)
		}
		writeJSON(w, http.StatusOK, `{"message":"created"}`)
	})

	endpoint := Endpoint{API: AdminAPI, Method: http.MethodPost, Path: "transformations/thumb"}
	params := Params{
		"tags":           []string{"a", "b"},
		"access_control": RawJSON(`[{"access_type":"anonymous"}]`),
		"name":           "thumb",
	}
	if _, err := session.Do(context.Background(), endpoint, params); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestSession_ErrorBodies(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantApiErr bool
		wantRecord Record
	}{
		{
			name:       "json error object",
			status:     http.StatusNotFound,
			body:       `{"error":{"message":"Resource not found"}}`,
			wantRecord: Record{"error": map[string]any{"message": "Resource not found"}},
		},
		{
			name:       "html error page",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantApiErr: true,
		},
		{
			name:       "top level array",
			status:     http.StatusOK,
			body:       `["a","b"]`,
			wantRecord: Record{"@raw": []any{"a", "b"}},
		},
		{
			name:       "empty body",
			status:     http.StatusOK,
			body:       "",
			wantRecord: Record{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			endpoint := Endpoint{API: AdminAPI, Method: http.MethodGet, Path: "ping"}
			response, err := session.Do(context.Background(), endpoint, nil)
			if tt.wantApiErr {
				var apiErr *ApiError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
					t.Fatalf("expected ApiError with status %d, got %v", tt.status, err)
				}
				if !ExpectStatusCodes(err, tt.status) || IgnoreStatusCodes(err, tt.status) != nil {
					t.Error("status code helpers disagree with ApiError")
				}
				return
			}
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if response.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", response.StatusCode, tt.status)
			}
			if diff := cmp.Diff(tt.wantRecord, response.Record); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCall_ValidationHappensBeforeIO(t *testing.T) {
	var hits int32
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusOK, `{}`)
	})
	endpoint := Endpoint{API: UploadAPI, Method: http.MethodPost, Path: "image/upload"}

	if _, err := Call[testUploadResult](context.Background(), session, endpoint, &testUploadRequest{}); !IsValidationErr(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	var nilParams *testUploadRequest
	if _, err := Call[testUploadResult](context.Background(), session, endpoint, nilParams); !IsValidationErr(err) {
		t.Errorf("expected validation error for nil params, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("server was called %d times", n)
	}
}

func TestCall_FillFnIsPerSession(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"public_id":"sample","version":7}`)
	}
	custom := newTestSession(t, handler, func(c *Config) {
		c.FillFn = func(r Record, container any) error {
			if err := DefaultFill(r, container); err != nil {
				return err
			}
			container.(*testUploadResult).PublicID = "custom"
			return nil
		}
	})
	plain := newTestSession(t, handler)
	endpoint := Endpoint{API: UploadAPI, Method: http.MethodPost, Path: "image/upload"}

	got, err := Call[testUploadResult](context.Background(), custom, endpoint, &testUploadRequest{PublicID: "sample"})
	if err != nil {
		t.Fatal(err)
	}
	if got.PublicID != "custom" || got.Version != 7 {
		t.Errorf("custom session result = %+v", got)
	}
	got, err = Call[testUploadResult](context.Background(), plain, endpoint, &testUploadRequest{PublicID: "sample"})
	if err != nil {
		t.Fatal(err)
	}
	if got.PublicID != "sample" {
		t.Errorf("FillFn of another session leaked: %+v", got)
	}
}

func TestSession_Hooks(t *testing.T) {
	t.Run("before request can abort", func(t *testing.T) {
		var hits int32
		session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}, func(c *Config) {
			c.BeforeRequestFn = func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error {
				return errors.New("blocked")
			}
		})
		_, err := session.Do(context.Background(), Endpoint{API: AdminAPI, Method: http.MethodGet, Path: "ping"}, nil)
		if err == nil || err.Error() != "blocked" {
			t.Errorf("expected hook error, got %v", err)
		}
		if hits != 0 {
			t.Error("request must not be sent")
		}
	})

	t.Run("after request can rewrite the record", func(t *testing.T) {
		session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"ok"}`)
		}, func(c *Config) {
			c.AfterRequestFn = func(ctx context.Context, response Record) (Record, error) {
				response["seen"] = true
				return response, nil
			}
		})
		response, err := session.Do(context.Background(), Endpoint{API: AdminAPI, Method: http.MethodGet, Path: "ping"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if response.Record["seen"] != true {
			t.Errorf("hook did not run: %v", response.Record)
		}
	})
}

func TestBuildURL(t *testing.T) {
	config := &Config{CloudName: "demo", ApiBaseAddress: "https://api.mediacloud.io", ApiVersion: "1.1"}
	if got := BuildURL(config, "/image/upload/"); got != "https://api.mediacloud.io/v1_1/demo/image/upload" {
		t.Errorf("BuildURL = %q", got)
	}
}

func TestNewSession_RequiresValidatedConfig(t *testing.T) {
	if _, err := NewSession(&Config{CloudName: "demo"}); err == nil {
		t.Error("expected error for a config without timeout")
	}
}
