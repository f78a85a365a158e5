package typed

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mediacloud/go-mediacloud/core"
)

type uploadCall struct {
	Path string
	Form url.Values
}

func uploadCaptureSession(t *testing.T, body string) (*core.Session, *[]uploadCall) {
	t.Helper()
	var calls []uploadCall
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		form, err := parseUploadForm(r)
		if err != nil {
			t.Errorf("parse form: %v", err)
		}
		calls = append(calls, uploadCall{Path: r.URL.Path, Form: form})
		writeJSON(w, http.StatusOK, body)
	})
	return session, &calls
}

func TestUploader_Destroy(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"result":"not found"}`)
	uploader := NewUploader(context.Background(), session)

	result, err := uploader.Destroy(&DestroyParams{PublicID: "cats/tom", ResourceType: core.ResourceTypeVideo, Invalidate: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Result != "not found" {
		t.Errorf("Result = %q", result.Result)
	}
	call := (*calls)[0]
	if call.Path != "/v1_1/demo/video/destroy" || call.Form.Get("public_id") != "cats/tom" || call.Form.Get("invalidate") != "true" {
		t.Errorf("unexpected call %+v", call)
	}
	if call.Form.Get("signature") == "" {
		t.Error("destroy must be signed")
	}
}

func TestUploader_Rename(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"public_id":"cats/thomas"}`)
	uploader := NewUploader(context.Background(), session)

	if _, err := uploader.Rename(&RenameParams{FromPublicID: "cats/tom"}); !core.IsValidationErr(err) {
		t.Errorf("missing target: %v", err)
	}
	result, err := uploader.Rename(&RenameParams{FromPublicID: "cats/tom", ToPublicID: "cats/thomas", Overwrite: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.PublicID != "cats/thomas" {
		t.Errorf("PublicID = %q", result.PublicID)
	}
	call := (*calls)[0]
	if call.Path != "/v1_1/demo/image/rename" || call.Form.Get("to_public_id") != "cats/thomas" || call.Form.Get("overwrite") != "true" {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestUploader_Explicit(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"public_id":"cats/tom","eager":[{"transformation":"h_300,w_400"}]}`)
	uploader := NewUploader(context.Background(), session)

	result, err := uploader.Explicit(&ExplicitParams{
		PublicID: "cats/tom",
		Type:     core.DeliveryTypeUpload,
		UploadMedia: UploadMedia{
			Eager: []*core.Transformation{core.NewTransformation().Width(400).Height(300), core.NewTransformation().Crop("pad")},
		},
		EagerAsync: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	call := (*calls)[0]
	if call.Path != "/v1_1/demo/image/explicit" || call.Form.Get("eager") != "h_300,w_400|c_pad" || call.Form.Get("eager_async") != "true" {
		t.Errorf("unexpected call %+v", call)
	}
	if len(result.Eager) != 1 || result.Eager[0].Transformation != "h_300,w_400" {
		t.Errorf("Eager = %+v", result.Eager)
	}
}

func TestTagParams_Check(t *testing.T) {
	tests := []struct {
		name    string
		params  TagParams
		wantErr bool
	}{
		{"add", TagParams{Command: TagAdd, Tag: "cats", PublicIDs: []string{"a"}}, false},
		{"remove all needs no tag", TagParams{Command: TagRemoveAll, PublicIDs: []string{"a"}}, false},
		{"add without tag", TagParams{Command: TagAdd, PublicIDs: []string{"a"}}, true},
		{"no public ids", TagParams{Command: TagAdd, Tag: "cats"}, true},
		{"unknown command", TagParams{Command: "rename", Tag: "x", PublicIDs: []string{"a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Check(); (err != nil) != tt.wantErr {
				t.Errorf("Check() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUploader_TagsAndContext(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"public_ids":["a","b"]}`)
	uploader := NewUploader(context.Background(), session)

	result, err := uploader.Tags(&TagParams{Command: TagReplace, Tag: "cats", PublicIDs: []string{"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, result.PublicIDs); diff != "" {
		t.Errorf("public ids mismatch (-want +got):\n%s", diff)
	}
	tags := (*calls)[0]
	if tags.Path != "/v1_1/demo/image/tags" || tags.Form.Get("command") != "replace" {
		t.Errorf("unexpected tags call %+v", tags)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags.Form["public_ids[]"]); diff != "" {
		t.Errorf("form public ids mismatch (-want +got):\n%s", diff)
	}

	if _, err := uploader.Context(&ContextParams{Command: ContextAdd, PublicIDs: []string{"a"}}); !core.IsValidationErr(err) {
		t.Errorf("add without context: %v", err)
	}
	_, err = uploader.Context(&ContextParams{
		Command:   ContextAdd,
		Context:   map[string]string{"caption": "a|b", "alt": "x"},
		PublicIDs: []string{"a"},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctxCall := (*calls)[1]
	if ctxCall.Path != "/v1_1/demo/image/context" || ctxCall.Form.Get("context") != `alt=x|caption=a\|b` {
		t.Errorf("unexpected context call %+v", ctxCall)
	}
}

func TestArchiveParams(t *testing.T) {
	err := (&ArchiveParams{}).Check()
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if diff := cmp.Diff([]string{"PublicIds", "Tags", "Prefixes"}, vErr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	p := &ArchiveParams{Tags: []string{"cats"}, TargetFormat: "zip", FlattenFolders: true}
	want := core.Params{"tags": []string{"cats"}, "target_format": "zip", "flatten_folders": "true", "mode": "create"}
	if diff := cmp.Diff(want, p.ToParams()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	p.Mode = ArchiveDownload
	if got := p.ToParams()["mode"]; got != "download" {
		t.Errorf("explicit mode overwritten: %v", got)
	}
}

func TestUploader_CreateArchive(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"secure_url":"https://x/a.zip","file_count":3,"resource_count":3}`)
	uploader := NewUploader(context.Background(), session)

	p := &ArchiveParams{Prefixes: []string{"cats/"}, Mode: ArchiveDownload, ResourceType: core.ResourceTypeRaw}
	result, err := uploader.CreateArchive(p)
	if err != nil {
		t.Fatal(err)
	}
	if result.FileCount != 3 || result.SecureURL != "https://x/a.zip" {
		t.Errorf("unexpected result %+v", result)
	}
	call := (*calls)[0]
	if call.Path != "/v1_1/demo/raw/generate_archive" || call.Form.Get("mode") != "create" {
		t.Errorf("unexpected call %+v", call)
	}
	if p.Mode != ArchiveDownload {
		t.Error("CreateArchive must not modify its input")
	}
}

func TestUploader_Generators(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"public_id":"gen","width":120,"image_infos":{"a":{"width":10,"x":5}}}`)
	uploader := NewUploader(context.Background(), session)

	if _, err := uploader.Sprite(&SpriteParams{Tag: "x", URLs: []string{"u"}}); !core.IsValidationErr(err) {
		t.Errorf("tag and urls together: %v", err)
	}
	if _, err := uploader.Multi(&MultiParams{}); !core.IsValidationErr(err) {
		t.Errorf("multi without source: %v", err)
	}
	if _, err := uploader.Text(&TextParams{}); !core.IsValidationErr(err) {
		t.Errorf("text without content: %v", err)
	}

	text, err := uploader.Text(&TextParams{Text: "Hello", FontFamily: "Arial", FontSize: 12})
	if err != nil {
		t.Fatal(err)
	}
	if text.Width != 120 {
		t.Errorf("text = %+v", text)
	}
	sprite, err := uploader.Sprite(&SpriteParams{Tag: "icons"})
	if err != nil {
		t.Fatal(err)
	}
	if sprite.ImageInfos["a"].X != 5 {
		t.Errorf("sprite = %+v", sprite)
	}
	if _, err := uploader.Multi(&MultiParams{Tag: "frames", Format: "gif"}); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, c := range *calls {
		paths = append(paths, c.Path)
	}
	want := []string{"/v1_1/demo/image/text", "/v1_1/demo/image/sprite", "/v1_1/demo/image/multi"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := (*calls)[0].Form.Get("font_size"); got != "12" {
		t.Errorf("font_size = %q", got)
	}
}

func TestUploader_UpdateMetadata(t *testing.T) {
	session, calls := uploadCaptureSession(t, `{"public_ids":["a"]}`)
	uploader := NewUploader(context.Background(), session)

	if _, err := uploader.UpdateMetadata(&UpdateMetadataParams{PublicIDs: []string{"a"}}); !core.IsValidationErr(err) {
		t.Errorf("missing metadata: %v", err)
	}
	_, err := uploader.UpdateMetadata(&UpdateMetadataParams{Metadata: map[string]string{"color": "red"}, PublicIDs: []string{"a"}})
	if err != nil {
		t.Fatal(err)
	}
	call := (*calls)[0]
	if call.Path != "/v1_1/demo/image/metadata" || call.Form.Get("metadata") != "color=red" {
		t.Errorf("unexpected call %+v", call)
	}
}
