package delivery

import (
	"net/url"
	"strings"
	"testing"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(&core.Config{
		CloudName: "demo",
		ApiKey:    "key",
		ApiSecret: "secret",
		Secure:    true,
	})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestNewBuilder_RequiresCloudName(t *testing.T) {
	if _, err := NewBuilder(&core.Config{}); err == nil {
		t.Fatal("expected error for missing cloud name")
	}
	if _, err := NewBuilder(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestBuild(t *testing.T) {
	b := newTestBuilder(t)
	insecure := false
	noForce := false

	tests := []struct {
		name string
		in   URL
		want string
	}{
		{
			name: "plain",
			in:   URL{PublicID: "sample", Format: "jpg"},
			want: "https://res.mediacloud.io/demo/image/upload/sample.jpg",
		},
		{
			name: "transformation and version",
			in: URL{
				PublicID:       "sample",
				Format:         "jpg",
				Version:        1312461204,
				Transformation: core.NewTransformation().Width(100).Height(150).Crop("fill"),
			},
			want: "https://res.mediacloud.io/demo/image/upload/c_fill,h_150,w_100/v1312461204/sample.jpg",
		},
		{
			name: "folder forces version",
			in:   URL{PublicID: "folder/cat", Format: "png"},
			want: "https://res.mediacloud.io/demo/image/upload/v1/folder/cat.png",
		},
		{
			name: "folder without forced version",
			in:   URL{PublicID: "folder/cat", Format: "png", ForceVersion: &noForce},
			want: "https://res.mediacloud.io/demo/image/upload/folder/cat.png",
		},
		{
			name: "format already present",
			in:   URL{PublicID: "sample.jpg", Format: "jpg"},
			want: "https://res.mediacloud.io/demo/image/upload/sample.jpg",
		},
		{
			name: "video over http",
			in:   URL{PublicID: "dog", ResourceType: core.ResourceTypeVideo, Format: "mp4", Secure: &insecure},
			want: "http://res.mediacloud.io/demo/video/upload/dog.mp4",
		},
		{
			name: "signed",
			in: URL{
				PublicID:       "sample",
				Format:         "jpg",
				SignURL:        true,
				Transformation: core.NewTransformation().Width(100).Height(150).Crop("fill"),
			},
			want: "https://res.mediacloud.io/demo/image/upload/s--O8COrg5p--/c_fill,h_150,w_100/sample.jpg",
		},
		{
			name: "signed without transformation",
			in:   URL{PublicID: "sample", Format: "jpg", SignURL: true, Type: core.DeliveryTypeAuthenticated},
			want: "https://res.mediacloud.io/demo/image/authenticated/s--dOz0MdKK--/sample.jpg",
		},
		{
			name: "long signature",
			in:   URL{PublicID: "sample", Format: "jpg", SignURL: true, LongSignature: true},
			want: "https://res.mediacloud.io/demo/image/upload/s--3W2palyUV9GXseRkSNH_25BRW7BYu-WO--/sample.jpg",
		},
		{
			name: "signed folder keeps version out of signature",
			in:   URL{PublicID: "folder/cat", Format: "png", SignURL: true},
			want: "https://res.mediacloud.io/demo/image/upload/s--B1vxSNBz--/v1/folder/cat.png",
		},
		{
			name: "fetch escapes remote url",
			in:   URL{PublicID: "https://example.com/a b.jpg", Type: core.DeliveryTypeFetch},
			want: "https://res.mediacloud.io/demo/image/fetch/" + url.PathEscape("https://example.com/a b.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Build(tt.in)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	b := newTestBuilder(t)
	if _, err := b.Build(URL{}); !core.IsValidationErr(err) {
		t.Errorf("expected validation error for empty public id, got %v", err)
	}

	unsigned, err := NewBuilder(&core.Config{CloudName: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := unsigned.Build(URL{PublicID: "x", SignURL: true}); err == nil {
		t.Error("expected error when signing without a secret")
	}
}

func TestSign_IsDeterministic(t *testing.T) {
	a := Sign("w_100/sample.jpg", "secret", false)
	b := Sign("w_100/sample.jpg", "secret", false)
	if a != b || len(a) != 8 {
		t.Errorf("unexpected signatures %q %q", a, b)
	}
	if Sign("w_100/sample.jpg", "other", false) == a {
		t.Error("signature must depend on the secret")
	}
}

func TestArchiveURL(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.ArchiveURL(&typed.ArchiveParams{})
	if !core.IsValidationErr(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	raw, err := b.ArchiveURL(&typed.ArchiveParams{Tags: []string{"t1"}, TargetFormat: "zip"})
	if err != nil {
		t.Fatalf("ArchiveURL: %v", err)
	}
	if !strings.HasPrefix(raw, "https://api.mediacloud.io/v1_1/demo/image/generate_archive?") {
		t.Fatalf("unexpected prefix: %s", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("mode") != "download" {
		t.Errorf("mode = %q, want download", q.Get("mode"))
	}
	if q.Get("api_key") != "key" || q.Get("signature") == "" || q.Get("timestamp") == "" {
		t.Errorf("missing auth fields in %v", q)
	}
	if q.Get("tags[]") != "t1" {
		t.Errorf("tags[] = %q, want t1", q.Get("tags[]"))
	}
}
