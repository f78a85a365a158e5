package typed

import (
	"context"
	"net/http"

	"github.com/mediacloud/go-mediacloud/core"
)

// UploadPresetParams defines a preset. The upload options it stores reuse the
// field groups of UploadParams.
type UploadPresetParams struct {
	Name                           string `param:"name"`
	Unsigned                       *bool
	DisallowPublicID               *bool
	Live                           *bool
	UseAssetFolderAsPublicIDPrefix *bool `param:"use_asset_folder_as_public_id_prefix"`
	UploadIdentity
	UploadMedia
	UploadAnalysis
	Custom core.Params `param:"-"`
}

// ToParams drops the identity fields that make no sense in a preset.
func (p *UploadPresetParams) ToParams() core.Params {
	params := core.BuildParams(p, p.Custom)
	params.Without("public_id")
	return params
}

// CreateUploadPresetParams creates a preset; the server names it when Name is empty.
type CreateUploadPresetParams struct {
	UploadPresetParams
}

func (p *CreateUploadPresetParams) Check() error {
	if p.AutoTagging != nil && (*p.AutoTagging < 0 || *p.AutoTagging > 1) {
		return &core.ValidationError{Fields: []string{"auto_tagging"}, Reason: "must be between 0 and 1"}
	}
	return nil
}

// UpdateUploadPresetParams changes an existing preset.
type UpdateUploadPresetParams struct {
	UploadPresetParams
}

func (p *UpdateUploadPresetParams) Check() error {
	if p.Name == "" {
		return core.Required("name")
	}
	return nil
}

// ToParams omits the name, which travels in the path.
func (p *UpdateUploadPresetParams) ToParams() core.Params {
	params := p.UploadPresetParams.ToParams()
	params.Without("name")
	return params
}

// UploadPresetNameParams names one preset.
type UploadPresetNameParams struct {
	Name       string `param:"-"`
	MaxResults int
}

func (p *UploadPresetNameParams) Check() error {
	if p.Name == "" {
		return core.Required("name")
	}
	return nil
}

func (p *UploadPresetNameParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// ListUploadPresetsParams pages through presets.
type ListUploadPresetsParams struct {
	MaxResults int
	NextCursor string
}

func (p *ListUploadPresetsParams) Check() error { return nil }

func (p *ListUploadPresetsParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// UploadPreset is one stored preset.
type UploadPreset struct {
	Name     string         `json:"name"`
	Unsigned bool           `json:"unsigned"`
	Settings map[string]any `json:"settings"`
}

// ListUploadPresetsResult is one page of presets.
type ListUploadPresetsResult struct {
	core.BaseResult
	Presets    []UploadPreset `json:"presets"`
	NextCursor string         `json:"next_cursor"`
}

// UploadPresetResult is a single preset.
type UploadPresetResult struct {
	core.BaseResult
	UploadPreset
}

// CreateUploadPresetResult acknowledges a new preset and carries its name.
type CreateUploadPresetResult struct {
	core.BaseResult
	Message string `json:"message"`
	Name    string `json:"name"`
}

// UploadPresets groups upload preset operations.
type UploadPresets struct {
	*core.Resource
}

// NewUploadPresets creates the upload presets group.
func NewUploadPresets(ctx context.Context, session core.RESTSession) *UploadPresets {
	return &UploadPresets{Resource: core.NewResource(ctx, session, core.AdminAPI, "upload_presets")}
}

func (u *UploadPresets) List(p *ListUploadPresetsParams) (*ListUploadPresetsResult, error) {
	return u.ListWithContext(u.Ctx(), p)
}

func (u *UploadPresets) ListWithContext(ctx context.Context, p *ListUploadPresetsParams) (*ListUploadPresetsResult, error) {
	if p == nil {
		p = &ListUploadPresetsParams{}
	}
	return core.Call[ListUploadPresetsResult](ctx, u.Session(), endpoint(http.MethodGet, "upload_presets"), p)
}

func (u *UploadPresets) Get(p *UploadPresetNameParams) (*UploadPresetResult, error) {
	return u.GetWithContext(u.Ctx(), p)
}

func (u *UploadPresets) GetWithContext(ctx context.Context, p *UploadPresetNameParams) (*UploadPresetResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[UploadPresetResult](ctx, u.Session(), endpoint(http.MethodGet, "upload_presets", p.Name), p)
}

func (u *UploadPresets) Create(p *CreateUploadPresetParams) (*CreateUploadPresetResult, error) {
	return u.CreateWithContext(u.Ctx(), p)
}

func (u *UploadPresets) CreateWithContext(ctx context.Context, p *CreateUploadPresetParams) (*CreateUploadPresetResult, error) {
	if p == nil {
		p = &CreateUploadPresetParams{}
	}
	return core.Call[CreateUploadPresetResult](ctx, u.Session(), endpoint(http.MethodPost, "upload_presets"), p)
}

func (u *UploadPresets) Update(p *UpdateUploadPresetParams) (*MessageResult, error) {
	return u.UpdateWithContext(u.Ctx(), p)
}

func (u *UploadPresets) UpdateWithContext(ctx context.Context, p *UpdateUploadPresetParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[MessageResult](ctx, u.Session(), endpoint(http.MethodPut, "upload_presets", p.Name), p)
}

func (u *UploadPresets) Delete(p *UploadPresetNameParams) (*MessageResult, error) {
	return u.DeleteWithContext(u.Ctx(), p)
}

func (u *UploadPresets) DeleteWithContext(ctx context.Context, p *UploadPresetNameParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[MessageResult](ctx, u.Session(), endpoint(http.MethodDelete, "upload_presets", p.Name), p)
}
