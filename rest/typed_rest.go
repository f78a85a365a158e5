package rest

import (
	"context"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

// TypedRest exposes the upload and admin APIs through typed parameter and
// result structs. Untyped shares the same session.
type TypedRest struct {
	Untyped *UntypedRest

	Uploader          *typed.Uploader
	Admin             *typed.Admin
	Resources         *typed.Resources
	Transformations   *typed.Transformations
	Folders           *typed.Folders
	UploadPresets     *typed.UploadPresets
	StreamingProfiles *typed.StreamingProfiles
	MetadataFields    *typed.MetadataFields
}

// NewTypedRest validates config and creates the typed client.
func NewTypedRest(config *core.Config) (*TypedRest, error) {
	untyped, err := NewUntypedRest(config)
	if err != nil {
		return nil, err
	}
	return newTypedRest(untyped), nil
}

// NewTypedRestWithSession builds the typed client over an existing session.
func NewTypedRestWithSession(config *core.Config, session core.RESTSession) *TypedRest {
	return newTypedRest(NewUntypedRestWithSession(config, session))
}

func newTypedRest(untyped *UntypedRest) *TypedRest {
	rest := &TypedRest{Untyped: untyped}
	rest.Uploader = newGroup[typed.Uploader](untyped, core.UploadAPI, "uploader")
	rest.Admin = newGroup[typed.Admin](untyped, core.AdminAPI, "admin")
	rest.Resources = newGroup[typed.Resources](untyped, core.AdminAPI, "resources")
	rest.Transformations = newGroup[typed.Transformations](untyped, core.AdminAPI, "transformations")
	rest.Folders = newGroup[typed.Folders](untyped, core.AdminAPI, "folders")
	rest.UploadPresets = newGroup[typed.UploadPresets](untyped, core.AdminAPI, "upload_presets")
	rest.StreamingProfiles = newGroup[typed.StreamingProfiles](untyped, core.AdminAPI, "streaming_profiles")
	rest.MetadataFields = newGroup[typed.MetadataFields](untyped, core.AdminAPI, "metadata_fields")
	return rest
}

func (rest *TypedRest) GetSession() core.RESTSession {
	return rest.Untyped.Session
}

func (rest *TypedRest) GetCtx() context.Context {
	return rest.Untyped.ctx
}

// SetCtx replaces the default context of every group, typed and raw.
func (rest *TypedRest) SetCtx(ctx context.Context) {
	rest.Untyped.SetCtx(ctx)
	for _, group := range rest.groups() {
		group.SetCtx(ctx)
	}
}

func (rest *TypedRest) groups() []*core.Resource {
	return []*core.Resource{
		rest.Uploader.Resource,
		rest.Admin.Resource,
		rest.Resources.Resource,
		rest.Transformations.Resource,
		rest.Folders.Resource,
		rest.UploadPresets.Resource,
		rest.StreamingProfiles.Resource,
		rest.MetadataFields.Resource,
	}
}
