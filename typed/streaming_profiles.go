package typed

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mediacloud/go-mediacloud/core"
)

// Representation is one rendition of an adaptive streaming profile.
type Representation struct {
	Transformation *core.Transformation
}

// representations renders the list as the JSON array the service expects.
type representations []Representation

func (r representations) ParamValue() (any, bool) {
	if len(r) == 0 {
		return nil, false
	}
	out := make([]map[string]string, 0, len(r))
	for _, rep := range r {
		out = append(out, map[string]string{"transformation": rep.Transformation.String()})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, false
	}
	return core.RawJSON(b), true
}

// StreamingProfileParams creates or updates a streaming profile.
type StreamingProfileParams struct {
	Name            string `param:"name"`
	DisplayName     string
	Representations []Representation `param:"-"`
}

func (p *StreamingProfileParams) checkRepresentations() error {
	if len(p.Representations) == 0 {
		return &core.ValidationError{Fields: []string{"representations"}, Reason: "must not be empty"}
	}
	for _, rep := range p.Representations {
		if rep.Transformation == nil || rep.Transformation.Empty() {
			return &core.ValidationError{Fields: []string{"representations"}, Reason: "every representation needs a transformation"}
		}
	}
	return nil
}

func (p *StreamingProfileParams) Check() error {
	if p.Name == "" {
		return core.Required("name")
	}
	return p.checkRepresentations()
}

func (p *StreamingProfileParams) ToParams() core.Params {
	params := core.ParamsFromStruct(p)
	if v, ok := representations(p.Representations).ParamValue(); ok {
		params["representations"] = v
	}
	return params
}

// StreamingProfileNameParams names one profile.
type StreamingProfileNameParams struct {
	Name string `param:"-"`
}

func (p *StreamingProfileNameParams) Check() error {
	if p.Name == "" {
		return core.Required("name")
	}
	return nil
}

func (p *StreamingProfileNameParams) ToParams() core.Params { return core.Params{} }

// StreamingProfile describes one profile.
type StreamingProfile struct {
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	Predefined      bool   `json:"predefined"`
	Representations []struct {
		Transformation []map[string]any `json:"transformation"`
	} `json:"representations"`
}

// StreamingProfileResult wraps a single profile.
type StreamingProfileResult struct {
	core.BaseResult
	Message string           `json:"message"`
	Data    StreamingProfile `json:"data"`
}

// ListStreamingProfilesResult lists every profile.
type ListStreamingProfilesResult struct {
	core.BaseResult
	Data []StreamingProfile `json:"data"`
}

// StreamingProfiles groups adaptive streaming profile operations.
type StreamingProfiles struct {
	*core.Resource
}

// NewStreamingProfiles creates the streaming profiles group.
func NewStreamingProfiles(ctx context.Context, session core.RESTSession) *StreamingProfiles {
	return &StreamingProfiles{Resource: core.NewResource(ctx, session, core.AdminAPI, "streaming_profiles")}
}

func (s *StreamingProfiles) List() (*ListStreamingProfilesResult, error) {
	return s.ListWithContext(s.Ctx())
}

func (s *StreamingProfiles) ListWithContext(ctx context.Context) (*ListStreamingProfilesResult, error) {
	return core.Call[ListStreamingProfilesResult](ctx, s.Session(), endpoint(http.MethodGet, "streaming_profiles"), &NoParams{})
}

func (s *StreamingProfiles) Get(p *StreamingProfileNameParams) (*StreamingProfileResult, error) {
	return s.GetWithContext(s.Ctx(), p)
}

func (s *StreamingProfiles) GetWithContext(ctx context.Context, p *StreamingProfileNameParams) (*StreamingProfileResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[StreamingProfileResult](ctx, s.Session(), endpoint(http.MethodGet, "streaming_profiles", p.Name), p)
}

func (s *StreamingProfiles) Create(p *StreamingProfileParams) (*StreamingProfileResult, error) {
	return s.CreateWithContext(s.Ctx(), p)
}

func (s *StreamingProfiles) CreateWithContext(ctx context.Context, p *StreamingProfileParams) (*StreamingProfileResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[StreamingProfileResult](ctx, s.Session(), endpoint(http.MethodPost, "streaming_profiles"), p)
}

// Update replaces the representations of an existing profile.
func (s *StreamingProfiles) Update(p *StreamingProfileParams) (*StreamingProfileResult, error) {
	return s.UpdateWithContext(s.Ctx(), p)
}

func (s *StreamingProfiles) UpdateWithContext(ctx context.Context, p *StreamingProfileParams) (*StreamingProfileResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	update := &streamingProfileUpdate{p}
	return core.Call[StreamingProfileResult](ctx, s.Session(), endpoint(http.MethodPut, "streaming_profiles", p.Name), update)
}

func (s *StreamingProfiles) Delete(p *StreamingProfileNameParams) (*StreamingProfileResult, error) {
	return s.DeleteWithContext(s.Ctx(), p)
}

func (s *StreamingProfiles) DeleteWithContext(ctx context.Context, p *StreamingProfileNameParams) (*StreamingProfileResult, error) {
	if p == nil {
		return nil, core.Required("name")
	}
	return core.Call[StreamingProfileResult](ctx, s.Session(), endpoint(http.MethodDelete, "streaming_profiles", p.Name), p)
}

// streamingProfileUpdate sends a profile without its name, which is in the path.
type streamingProfileUpdate struct {
	*StreamingProfileParams
}

func (u *streamingProfileUpdate) ToParams() core.Params {
	params := u.StreamingProfileParams.ToParams()
	params.Without("name")
	return params
}
