package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

type request struct {
	Method string
	Path   string
	Query  string
}

func newTestRest(t *testing.T, status int, body string) (*TypedRest, *[]request) {
	t.Helper()
	var requests []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
		w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	rest, err := NewTypedRest(&core.Config{CloudName: "demo", ApiKey: "key", ApiSecret: "abcd", ApiBaseAddress: srv.URL})
	if err != nil {
		t.Fatalf("NewTypedRest: %v", err)
	}
	return rest, &requests
}

func TestNewTypedRest_Wiring(t *testing.T) {
	rest, _ := newTestRest(t, http.StatusOK, `{}`)

	if rest.GetSession() == nil || rest.Untyped.GetSession() != rest.GetSession() {
		t.Fatal("typed and raw clients must share one session")
	}
	for _, group := range rest.groups() {
		if group == nil {
			t.Fatal("group not wired")
		}
		if group.Session() != rest.GetSession() {
			t.Errorf("%s uses a different session", group)
		}
	}
	if rest.Uploader.API() != core.UploadAPI || rest.Resources.API() != core.AdminAPI {
		t.Error("groups bound to the wrong API")
	}

	names := make([]string, 0, len(rest.Untyped.GetResourceMap()))
	for name := range rest.Untyped.GetResourceMap() {
		names = append(names, name)
	}
	if len(names) != 11 {
		t.Errorf("expected 11 raw resources, got %v", names)
	}
	if _, err := rest.Untyped.Resource("folders"); err != nil {
		t.Error(err)
	}
	if _, err := rest.Untyped.Resource("nope"); err == nil {
		t.Error("expected error for an unknown resource")
	}
}

func TestNewTypedRest_InvalidConfig(t *testing.T) {
	if _, err := NewTypedRest(&core.Config{ApiKey: "key", ApiSecret: "secret"}); err == nil {
		t.Error("missing cloud name must fail")
	}
	if _, err := NewUntypedRest(&core.Config{CloudName: "demo", SignatureAlgorithm: "md5"}); err == nil {
		t.Error("unknown algorithm must fail")
	}
}

func TestTypedRest_SetCtx(t *testing.T) {
	rest, _ := newTestRest(t, http.StatusOK, `{}`)
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	rest.SetCtx(ctx)
	if rest.GetCtx() != ctx {
		t.Error("client context not replaced")
	}
	for _, group := range rest.groups() {
		if group.Ctx() != ctx {
			t.Errorf("%s kept the old context", group)
		}
	}
	for name, res := range rest.Untyped.GetResourceMap() {
		if res.Ctx() != ctx {
			t.Errorf("raw resource %s kept the old context", name)
		}
	}
}

func TestTypedRest_Calls(t *testing.T) {
	rest, requests := newTestRest(t, http.StatusOK, `{"status":"ok","public_id":"x"}`)

	ping, err := rest.Admin.Ping()
	if err != nil || !ping.OK() {
		t.Fatalf("Ping = %+v, %v", ping, err)
	}
	if _, err := rest.Uploader.Upload(&typed.UploadParams{File: typed.FileURL("https://x/f.jpg")}); err != nil {
		t.Fatal(err)
	}
	got := []string{(*requests)[0].Method + " " + (*requests)[0].Path, (*requests)[1].Method + " " + (*requests)[1].Path}
	want := []string{"GET /v1_1/demo/ping", "POST /v1_1/demo/auto/upload"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestRawResource_Request(t *testing.T) {
	rest, requests := newTestRest(t, http.StatusOK, `{"resources":[]}`)
	raw := rest.Untyped

	if _, err := raw.Resources.Get(core.Params{"prefix": "cats/"}, "image", "upload"); err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Upload.Post(core.Params{"public_id": "x"}, "image", "destroy"); err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Folders.DeleteWithContext(context.Background(), nil, "cats"); err != nil {
		t.Fatal(err)
	}

	first := (*requests)[0]
	if first.Method != http.MethodGet || first.Path != "/v1_1/demo/resources/image/upload" || first.Query != "prefix=cats%2F" {
		t.Errorf("unexpected admin request %+v", first)
	}
	if second := (*requests)[1]; second.Path != "/v1_1/demo/image/destroy" {
		t.Errorf("upload resources must not be prefixed, got %+v", second)
	}
	if third := (*requests)[2]; third.Method != http.MethodDelete || third.Path != "/v1_1/demo/folders/cats" {
		t.Errorf("unexpected delete %+v", third)
	}
}

func TestRawResource_ServerError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object error", `{"error":{"message":"Resource not found"}}`},
		{"string error", `{"error":"Resource not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, _ := newTestRest(t, http.StatusNotFound, tt.body)
			record, err := rest.Untyped.Resources.Get(nil, "image", "upload", "missing")
			var sErr *core.ServerError
			if !errors.As(err, &sErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if sErr.StatusCode != http.StatusNotFound || sErr.Message != "Resource not found" {
				t.Errorf("unexpected error %+v", sErr)
			}
			if _, ok := record["error"]; !ok {
				t.Error("record must be returned with the error")
			}
		})
	}
}

func TestRawResource_Iterator(t *testing.T) {
	rest, requests := newTestRest(t, http.StatusOK, `{"tags":["a","b"]}`)

	records, err := rest.Untyped.Tags.Iterator(context.Background(), nil, "tags", 10, "image").All()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("records = %v", records)
	}
	if got := (*requests)[0]; got.Path != "/v1_1/demo/tags/image" || got.Query != "max_results=10" {
		t.Errorf("unexpected request %+v", got)
	}
}

type notAGroup struct {
	Name string
}

func TestNewGroup(t *testing.T) {
	rest, _ := newTestRest(t, http.StatusOK, `{}`)
	folders := newGroup[typed.Folders](rest.Untyped, core.AdminAPI, "folders")
	if folders.Resource == nil || folders.Name() != "folders" {
		t.Errorf("unexpected group %+v", folders)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a type without *core.Resource")
		}
	}()
	newGroup[notAGroup](rest.Untyped, core.AdminAPI, "x")
}
