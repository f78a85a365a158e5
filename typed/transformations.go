package typed

import (
	"context"
	"net/http"

	"github.com/mediacloud/go-mediacloud/core"
)

// ListTransformationsParams pages through stored transformations.
type ListTransformationsParams struct {
	Named      *bool
	MaxResults int
	NextCursor string
}

func (p *ListTransformationsParams) Check() error { return nil }

func (p *ListTransformationsParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// TransformationInfo describes one stored transformation.
type TransformationInfo struct {
	Name    string `json:"name"`
	Allowed bool   `json:"allowed_for_strict"`
	Used    bool   `json:"used"`
	Named   bool   `json:"named"`
}

// ListTransformationsResult is one page of transformations.
type ListTransformationsResult struct {
	core.BaseResult
	Transformations []TransformationInfo `json:"transformations"`
	NextCursor      string               `json:"next_cursor"`
}

// GetTransformationParams names a transformation by its name or its chain.
type GetTransformationParams struct {
	Transformation string `param:"transformation"`
	MaxResults     int
	NextCursor     string
}

func (p *GetTransformationParams) Check() error {
	if p.Transformation == "" {
		return core.Required("transformation")
	}
	return nil
}

func (p *GetTransformationParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// GetTransformationResult lists the derived assets produced by a transformation.
type GetTransformationResult struct {
	core.BaseResult
	TransformationInfo
	Info       []map[string]any `json:"info"`
	Derived    []Derived        `json:"derived"`
	NextCursor string           `json:"next_cursor"`
}

// CreateTransformationParams stores a named transformation.
type CreateTransformationParams struct {
	Name             string               `param:"name"`
	Transformation   *core.Transformation `param:"transformation"`
	AllowedForStrict *bool                `param:"allowed_for_strict"`
}

func (p *CreateTransformationParams) Check() error {
	if p.Name == "" {
		return core.Required("name")
	}
	if p.Transformation == nil || p.Transformation.Empty() {
		return core.Required("transformation")
	}
	return nil
}

func (p *CreateTransformationParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// UpdateTransformationParams changes strict-mode permission or the definition
// of a named transformation.
type UpdateTransformationParams struct {
	Transformation   string               `param:"transformation"`
	AllowedForStrict *bool                `param:"allowed_for_strict"`
	UnsafeUpdate     *core.Transformation `param:"unsafe_update"`
}

func (p *UpdateTransformationParams) Check() error {
	if p.Transformation == "" {
		return core.Required("transformation")
	}
	if p.AllowedForStrict == nil && p.UnsafeUpdate == nil {
		return core.RequireOneOf("allowed_for_strict", "unsafe_update")
	}
	return nil
}

func (p *UpdateTransformationParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// DeleteTransformationParams removes a transformation and optionally its derived assets.
type DeleteTransformationParams struct {
	Transformation string `param:"transformation"`
	Invalidate     bool
}

func (p *DeleteTransformationParams) Check() error {
	if p.Transformation == "" {
		return core.Required("transformation")
	}
	return nil
}

func (p *DeleteTransformationParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// Transformations groups operations on stored transformations.
type Transformations struct {
	*core.Resource
}

// NewTransformations creates the transformations group.
func NewTransformations(ctx context.Context, session core.RESTSession) *Transformations {
	return &Transformations{Resource: core.NewResource(ctx, session, core.AdminAPI, "transformations")}
}

func (t *Transformations) List(p *ListTransformationsParams) (*ListTransformationsResult, error) {
	return t.ListWithContext(t.Ctx(), p)
}

func (t *Transformations) ListWithContext(ctx context.Context, p *ListTransformationsParams) (*ListTransformationsResult, error) {
	if p == nil {
		p = &ListTransformationsParams{}
	}
	return core.Call[ListTransformationsResult](ctx, t.Session(), endpoint(http.MethodGet, "transformations"), p)
}

func (t *Transformations) Get(p *GetTransformationParams) (*GetTransformationResult, error) {
	return t.GetWithContext(t.Ctx(), p)
}

func (t *Transformations) GetWithContext(ctx context.Context, p *GetTransformationParams) (*GetTransformationResult, error) {
	if p == nil {
		return nil, core.Required("transformation")
	}
	return core.Call[GetTransformationResult](ctx, t.Session(), endpoint(http.MethodGet, "transformations"), p)
}

func (t *Transformations) Create(p *CreateTransformationParams) (*MessageResult, error) {
	return t.CreateWithContext(t.Ctx(), p)
}

func (t *Transformations) CreateWithContext(ctx context.Context, p *CreateTransformationParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[MessageResult](ctx, t.Session(), endpoint(http.MethodPost, "transformations"), p)
}

func (t *Transformations) Update(p *UpdateTransformationParams) (*MessageResult, error) {
	return t.UpdateWithContext(t.Ctx(), p)
}

func (t *Transformations) UpdateWithContext(ctx context.Context, p *UpdateTransformationParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("transformation")
	}
	return core.Call[MessageResult](ctx, t.Session(), endpoint(http.MethodPut, "transformations"), p)
}

func (t *Transformations) Delete(p *DeleteTransformationParams) (*MessageResult, error) {
	return t.DeleteWithContext(t.Ctx(), p)
}

func (t *Transformations) DeleteWithContext(ctx context.Context, p *DeleteTransformationParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("transformation")
	}
	return core.Call[MessageResult](ctx, t.Session(), endpoint(http.MethodDelete, "transformations"), p)
}
