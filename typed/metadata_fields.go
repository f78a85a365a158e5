package typed

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mediacloud/go-mediacloud/core"
)

// MetadataFieldType is the value type of a structured metadata field.
type MetadataFieldType string

const (
	MetadataString  MetadataFieldType = "string"
	MetadataInteger MetadataFieldType = "integer"
	MetadataDate    MetadataFieldType = "date"
	MetadataEnum    MetadataFieldType = "enum"
	MetadataSet     MetadataFieldType = "set"
)

// DatasourceEntry is one allowed value of an enum or set field.
type DatasourceEntry struct {
	ExternalID string `json:"external_id,omitempty"`
	Value      string `json:"value"`
	State      string `json:"state,omitempty"`
}

// Datasource lists the allowed values of an enum or set field.
type Datasource struct {
	Values []DatasourceEntry `json:"values"`
}

// ParamValue embeds the datasource as a JSON object.
func (d *Datasource) ParamValue() (any, bool) {
	if d == nil || len(d.Values) == 0 {
		return nil, false
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, false
	}
	return core.RawJSON(b), true
}

// MetadataFieldParams defines a metadata field.
type MetadataFieldParams struct {
	ExternalID      string            `param:"external_id"`
	Type            MetadataFieldType `param:"type"`
	Label           string
	Mandatory       *bool
	DefaultValue    core.JSONValue `param:"default_value"`
	Validation      core.JSONValue
	Datasource      *Datasource
	Restrictions    core.JSONValue
	DefaultDisabled *bool
}

func (p *MetadataFieldParams) Check() error {
	if p.Label == "" {
		return core.Required("label")
	}
	switch p.Type {
	case MetadataString, MetadataInteger, MetadataDate:
	case MetadataEnum, MetadataSet:
		if p.Datasource == nil || len(p.Datasource.Values) == 0 {
			return &core.ValidationError{Fields: []string{"datasource"}, Reason: "is required for enum and set fields"}
		}
	case "":
		return core.Required("type")
	default:
		return &core.ValidationError{Fields: []string{"type"}, Reason: "unknown metadata field type"}
	}
	return nil
}

func (p *MetadataFieldParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// UpdateMetadataFieldParams changes an existing field; the type is immutable.
type UpdateMetadataFieldParams struct {
	MetadataFieldParams
}

func (p *UpdateMetadataFieldParams) Check() error {
	if p.ExternalID == "" {
		return core.Required("external_id")
	}
	return nil
}

func (p *UpdateMetadataFieldParams) ToParams() core.Params {
	params := p.MetadataFieldParams.ToParams()
	params.Without("type", "external_id")
	return params
}

// MetadataFieldIDParams names one field.
type MetadataFieldIDParams struct {
	ExternalID string `param:"-"`
}

func (p *MetadataFieldIDParams) Check() error {
	if p.ExternalID == "" {
		return core.Required("external_id")
	}
	return nil
}

func (p *MetadataFieldIDParams) ToParams() core.Params { return core.Params{} }

// UpdateDatasourceParams upserts entries of an enum or set datasource.
type UpdateDatasourceParams struct {
	ExternalID string            `param:"-"`
	Values     []DatasourceEntry `param:"-"`
}

func (p *UpdateDatasourceParams) Check() error {
	if p.ExternalID == "" {
		return core.Required("external_id")
	}
	if len(p.Values) == 0 {
		return core.Required("values")
	}
	return nil
}

func (p *UpdateDatasourceParams) ToParams() core.Params {
	b, err := json.Marshal(p.Values)
	if err != nil {
		return core.Params{}
	}
	return core.Params{"values": core.RawJSON(b)}
}

// DeleteDatasourceParams marks datasource entries inactive.
type DeleteDatasourceParams struct {
	ExternalID  string   `param:"-"`
	ExternalIDs []string `param:"external_ids"`
}

func (p *DeleteDatasourceParams) Check() error {
	if p.ExternalID == "" {
		return core.Required("external_id")
	}
	if len(p.ExternalIDs) == 0 {
		return core.Required("external_ids")
	}
	return nil
}

func (p *DeleteDatasourceParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// MetadataField is the stored definition of a field.
type MetadataField struct {
	ExternalID   string            `json:"external_id"`
	Type         MetadataFieldType `json:"type"`
	Label        string            `json:"label"`
	Mandatory    bool              `json:"mandatory"`
	DefaultValue any               `json:"default_value"`
	Validation   map[string]any    `json:"validation"`
	Datasource   *Datasource       `json:"datasource"`
}

// MetadataFieldResult is a single field.
type MetadataFieldResult struct {
	core.BaseResult
	MetadataField
}

// ListMetadataFieldsResult lists every field.
type ListMetadataFieldsResult struct {
	core.BaseResult
	MetadataFields []MetadataField `json:"metadata_fields"`
}

// DatasourceResult is the datasource after an update.
type DatasourceResult struct {
	core.BaseResult
	Values []DatasourceEntry `json:"values"`
}

// MetadataFields groups structured metadata operations.
type MetadataFields struct {
	*core.Resource
}

// NewMetadataFields creates the metadata fields group.
func NewMetadataFields(ctx context.Context, session core.RESTSession) *MetadataFields {
	return &MetadataFields{Resource: core.NewResource(ctx, session, core.AdminAPI, "metadata_fields")}
}

func (m *MetadataFields) List() (*ListMetadataFieldsResult, error) {
	return m.ListWithContext(m.Ctx())
}

func (m *MetadataFields) ListWithContext(ctx context.Context) (*ListMetadataFieldsResult, error) {
	return core.Call[ListMetadataFieldsResult](ctx, m.Session(), endpoint(http.MethodGet, "metadata_fields"), &NoParams{})
}

func (m *MetadataFields) Get(p *MetadataFieldIDParams) (*MetadataFieldResult, error) {
	return m.GetWithContext(m.Ctx(), p)
}

func (m *MetadataFields) GetWithContext(ctx context.Context, p *MetadataFieldIDParams) (*MetadataFieldResult, error) {
	if p == nil {
		return nil, core.Required("external_id")
	}
	return core.Call[MetadataFieldResult](ctx, m.Session(), endpoint(http.MethodGet, "metadata_fields", p.ExternalID), p)
}

func (m *MetadataFields) Create(p *MetadataFieldParams) (*MetadataFieldResult, error) {
	return m.CreateWithContext(m.Ctx(), p)
}

func (m *MetadataFields) CreateWithContext(ctx context.Context, p *MetadataFieldParams) (*MetadataFieldResult, error) {
	if p == nil {
		return nil, core.Required("label")
	}
	return core.Call[MetadataFieldResult](ctx, m.Session(), endpoint(http.MethodPost, "metadata_fields"), p)
}

func (m *MetadataFields) Update(p *UpdateMetadataFieldParams) (*MetadataFieldResult, error) {
	return m.UpdateWithContext(m.Ctx(), p)
}

func (m *MetadataFields) UpdateWithContext(ctx context.Context, p *UpdateMetadataFieldParams) (*MetadataFieldResult, error) {
	if p == nil {
		return nil, core.Required("external_id")
	}
	return core.Call[MetadataFieldResult](ctx, m.Session(), endpoint(http.MethodPut, "metadata_fields", p.ExternalID), p)
}

func (m *MetadataFields) Delete(p *MetadataFieldIDParams) (*MessageResult, error) {
	return m.DeleteWithContext(m.Ctx(), p)
}

func (m *MetadataFields) DeleteWithContext(ctx context.Context, p *MetadataFieldIDParams) (*MessageResult, error) {
	if p == nil {
		return nil, core.Required("external_id")
	}
	return core.Call[MessageResult](ctx, m.Session(), endpoint(http.MethodDelete, "metadata_fields", p.ExternalID), p)
}

// UpdateDatasource adds or renames datasource entries.
func (m *MetadataFields) UpdateDatasource(p *UpdateDatasourceParams) (*DatasourceResult, error) {
	return m.UpdateDatasourceWithContext(m.Ctx(), p)
}

func (m *MetadataFields) UpdateDatasourceWithContext(ctx context.Context, p *UpdateDatasourceParams) (*DatasourceResult, error) {
	if p == nil {
		return nil, core.Required("external_id")
	}
	ep := endpoint(http.MethodPut, "metadata_fields", p.ExternalID, "datasource")
	return core.Call[DatasourceResult](ctx, m.Session(), ep, p)
}

// DeleteDatasourceEntries deactivates datasource entries.
func (m *MetadataFields) DeleteDatasourceEntries(p *DeleteDatasourceParams) (*DatasourceResult, error) {
	return m.DeleteDatasourceEntriesWithContext(m.Ctx(), p)
}

func (m *MetadataFields) DeleteDatasourceEntriesWithContext(ctx context.Context, p *DeleteDatasourceParams) (*DatasourceResult, error) {
	if p == nil {
		return nil, core.Required("external_id")
	}
	ep := endpoint(http.MethodDelete, "metadata_fields", p.ExternalID, "datasource")
	return core.Call[DatasourceResult](ctx, m.Session(), ep, p)
}
