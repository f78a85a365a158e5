package core

import (
	"context"
	"net/http"
	"testing"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"resources", "image", "upload", "cats/tom"}, "resources/image/upload/cats/tom"},
		{[]string{"folders", "/my folder/"}, "folders/my%20folder"},
		{[]string{"transformations", "c_fill,w_100"}, "transformations/c_fill%2Cw_100"},
		{[]string{"resources", "", "image"}, "resources/image"},
		{[]string{"metadata_fields", "a?b"}, "metadata_fields/a%3Fb"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.segments...); got != tt.want {
			t.Errorf("JoinPath(%q) = %q, want %q", tt.segments, got, tt.want)
		}
	}
}

func TestResource(t *testing.T) {
	session := &scriptedSession{responses: []*Response{okResponse(Record{"folders": []any{}})}}
	var unset context.Context
	r := NewResource(unset, session, AdminAPI, "folders")

	if r.Ctx() == nil {
		t.Fatal("Ctx must default to background")
	}
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, 1)
	r.SetCtx(ctx)
	if r.Ctx() != ctx {
		t.Error("SetCtx did not replace the context")
	}
	if r.Name() != "folders" || r.API() != AdminAPI || r.Session() != session {
		t.Errorf("unexpected accessors %s", r)
	}
	if got := r.String(); got != "folders(admin api)" {
		t.Errorf("String() = %q", got)
	}

	ep := r.Endpoint(http.MethodDelete, "folders", "cats/old")
	want := Endpoint{API: AdminAPI, Method: http.MethodDelete, Path: "folders/cats/old"}
	if ep != want {
		t.Errorf("Endpoint = %+v, want %+v", ep, want)
	}

	it := r.GetIteratorWithContext(ctx, "folders/cats", nil, "folders", 0)
	if _, err := it.All(); err != nil {
		t.Fatal(err)
	}
	if session.endpoints[0].Method != http.MethodGet || session.endpoints[0].Path != "folders/cats" {
		t.Errorf("iterator sent %+v", session.endpoints[0])
	}

	unlock := r.Lock(ResourceTypeImage, "cats/tom")
	unlock()
}

func TestTypesOrDefault(t *testing.T) {
	if ResourceType("").OrDefault() != ResourceTypeImage || ResourceTypeVideo.OrDefault() != ResourceTypeVideo {
		t.Error("ResourceType.OrDefault")
	}
	if DeliveryType("").OrDefault() != DeliveryTypeUpload || DeliveryTypePrivate.OrDefault() != DeliveryTypePrivate {
		t.Error("DeliveryType.OrDefault")
	}
	if UploadAPI.String() != "upload" || AdminAPI.String() != "admin" {
		t.Error("API.String")
	}
}
