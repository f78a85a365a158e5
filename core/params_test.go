package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testIdentity struct {
	PublicID       string
	Folder         string `param:"asset_folder"`
	UniqueFilename *bool
}

type testMedia struct {
	Tags   []string
	Format string
}

type testUploadParams struct {
	testIdentity
	testMedia
	Overwrite bool
	Eager     []*Transformation
	Context   map[string]string
	Internal  string `param:"-"`
	Custom    Params `param:"-"`
	hidden    string
}

func TestParamsFromStruct(t *testing.T) {
	p := &testUploadParams{
		testIdentity: testIdentity{PublicID: "sample", Folder: "cats", UniqueFilename: Bool(false)},
		testMedia:    testMedia{Tags: []string{"a", "b"}},
		Overwrite:    true,
		Eager:        []*Transformation{NewTransformation().Width(400).Height(300), NewTransformation().Crop("pad")},
		Context:      map[string]string{"alt": "tom"},
		Internal:     "never sent",
		hidden:       "never sent",
	}
	want := Params{
		"public_id":       "sample",
		"asset_folder":    "cats",
		"unique_filename": "false",
		"tags":            []string{"a", "b"},
		"overwrite":       "true",
		"eager":           "h_300,w_400|c_pad",
		"context":         "alt=tom",
	}
	if diff := cmp.Diff(want, ParamsFromStruct(p)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsFromStruct_NilAndEmpty(t *testing.T) {
	if got := ParamsFromStruct(nil); len(got) != 0 {
		t.Errorf("nil struct gave %v", got)
	}
	var p *testUploadParams
	if got := ParamsFromStruct(p); len(got) != 0 {
		t.Errorf("typed nil gave %v", got)
	}
	if got := ParamsFromStruct(&testUploadParams{}); len(got) != 0 {
		t.Errorf("zero struct gave %v", got)
	}
}

func TestBuildParams_CustomOverrides(t *testing.T) {
	p := &testUploadParams{testIdentity: testIdentity{PublicID: "sample"}}
	got := BuildParams(p, Params{"public_id": "override", "phash": "true"})
	want := Params{"public_id": "override", "phash": "true"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeParams(t *testing.T) {
	got := MergeParams(Params{"a": "1", "b": "1"}, nil, Params{"b": "2"})
	if diff := cmp.Diff(Params{"a": "1", "b": "2"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResourceFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  ResourceFilter
		want    Params
		wantErr bool
	}{
		{"nil", nil, Params{}, true},
		{"tag", ByTag("t1"), Params{"tag": "t1"}, false},
		{"empty tag", ByTag(""), Params{}, true},
		{"prefix", ByPrefix("cats/"), Params{"prefix": "cats/"}, false},
		{"public ids", ByPublicIDs{"a", "b"}, Params{"public_ids": []string{"a", "b"}}, false},
		{"no public ids", ByPublicIDs{}, Params{}, true},
		{"all", AllResources{}, Params{"all": "true"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFilter(tt.filter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFilter error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationErr(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
			if diff := cmp.Diff(tt.want, FilterParams(tt.filter)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"PublicID":                       "public_id",
		"PublicIDs":                      "public_ids",
		"MaxResults":                     "max_results",
		"UseAssetFolderAsPublicIDPrefix": "use_asset_folder_as_public_id_prefix",
		"Phash":                          "phash",
		"Html5":                          "html5",
	}
	for in, want := range tests {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
	if got := ToPascalCase("public_id"); got != "PublicId" {
		t.Errorf("ToPascalCase = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Required("public_id"), "invalid parameter public_id: must be set"},
		{RequireOneOf("public_ids", "tags"), "invalid parameters public_ids, tags: at least one of them must be set"},
		{Conflict("tag", "prefix"), "invalid parameters tag, prefix: are mutually exclusive"},
		{&ValidationError{Reason: "parameters must not be nil"}, "invalid parameters: parameters must not be nil"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
		if !IsValidationErr(tt.err) {
			t.Errorf("IsValidationErr(%v) = false", tt.err)
		}
	}
	if IsValidationErr(&ServerError{StatusCode: 404}) {
		t.Error("ServerError is not a validation error")
	}
	if !IsNotFoundErr(&ServerError{StatusCode: 404, Message: "Resource not found"}) {
		t.Error("IsNotFoundErr should match 404")
	}
}
