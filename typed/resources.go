package typed

import (
	"context"
	"net/http"
	"time"

	"github.com/mediacloud/go-mediacloud/core"
)

// -----------------------------------------------------
// LIST / GET
// -----------------------------------------------------

// ListResourcesParams lists stored assets. Prefix and Tag are mutually exclusive
// with each other and with PublicIDs.
type ListResourcesParams struct {
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"-"`
	Prefix       string
	Tag          string           `param:"-"`
	PublicIDs    []string         `param:"public_ids"`
	Moderation   string           `param:"-"`
	Status       ModerationStatus `param:"-"`
	StartAt      time.Time
	Direction    string
	MaxResults   int
	NextCursor   string
	Tags         bool
	Context      bool
	Metadata     bool
	Moderations  bool
	Custom       core.Params `param:"-"`
}

func (p *ListResourcesParams) Check() error {
	set := 0
	for _, on := range []bool{p.Prefix != "", p.Tag != "", len(p.PublicIDs) > 0, p.Moderation != ""} {
		if on {
			set++
		}
	}
	if set > 1 {
		return core.Conflict("prefix", "tag", "public_ids", "moderation")
	}
	if p.Moderation != "" && p.Status == "" {
		return core.Required("status")
	}
	if p.MaxResults < 0 || p.MaxResults > 500 {
		return &core.ValidationError{Fields: []string{"max_results"}, Reason: "must be between 1 and 500"}
	}
	return nil
}

func (p *ListResourcesParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// path picks the listing endpoint that matches the selected filter.
func (p *ListResourcesParams) path() []string {
	rt := string(p.ResourceType.OrDefault())
	switch {
	case p.Tag != "":
		return []string{"resources", rt, "tags", p.Tag}
	case p.Moderation != "":
		return []string{"resources", rt, "moderations", p.Moderation, string(p.Status)}
	case p.Type != "", p.Prefix != "", len(p.PublicIDs) > 0:
		return []string{"resources", rt, string(p.Type.OrDefault())}
	}
	return []string{"resources", rt}
}

// Resource is one asset as returned by the admin API.
type Resource struct {
	AssetID       string              `json:"asset_id"`
	PublicID      string              `json:"public_id"`
	Format        string              `json:"format"`
	Version       int64               `json:"version"`
	ResourceType  string              `json:"resource_type"`
	Type          string              `json:"type"`
	CreatedAt     time.Time           `json:"created_at"`
	Bytes         int64               `json:"bytes"`
	Width         int                 `json:"width"`
	Height        int                 `json:"height"`
	AssetFolder   string              `json:"asset_folder"`
	DisplayName   string              `json:"display_name"`
	URL           string              `json:"url"`
	SecureURL     string              `json:"secure_url"`
	AccessMode    string              `json:"access_mode"`
	Backup        bool                `json:"backup"`
	Placeholder   bool                `json:"placeholder"`
	Tags          []string            `json:"tags"`
	Context       ResourceContext     `json:"context"`
	Metadata      map[string]any      `json:"metadata"`
	Moderation    []Moderation        `json:"moderation"`
	Status        string              `json:"status"`
	AccessControl []AccessControlRule `json:"access_control"`
}

// ListResourcesResult is one page of a resource listing.
type ListResourcesResult struct {
	core.BaseResult
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"next_cursor"`
}

// GetResourceParams fetches details of one asset.
type GetResourceParams struct {
	PublicID              string            `param:"-"`
	ResourceType          core.ResourceType `param:"-"`
	Type                  core.DeliveryType `param:"-"`
	Colors                bool
	Faces                 bool
	ImageMetadata         bool
	MediaMetadata         bool
	QualityAnalysis       bool
	AccessibilityAnalysis bool
	Pages                 bool
	Phash                 bool
	Coordinates           bool
	Versions              bool
	MaxResults            int
	DerivedNextCursor     string
	Custom                core.Params `param:"-"`
}

func (p *GetResourceParams) Check() error {
	if p.PublicID == "" {
		return core.Required("public_id")
	}
	return nil
}

func (p *GetResourceParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// GetResourceResult is the full description of one asset. Derived is empty
// when the response carries no "derived" list.
type GetResourceResult struct {
	core.BaseResult
	Resource
	Pages             int                 `json:"pages"`
	Phash             string              `json:"phash"`
	Etag              string              `json:"etag"`
	Derived           []Derived           `json:"derived"`
	DerivedNextCursor string              `json:"derived_next_cursor"`
	Faces             core.Coordinates    `json:"faces"`
	Coordinates       ResourceCoordinates `json:"coordinates"`
	Colors            [][]any             `json:"colors"`
	ImageMetadata     map[string]string   `json:"image_metadata"`
	Versions          []ResourceVersion   `json:"versions"`
}

// ResourceCoordinates groups the regions stored on an asset.
type ResourceCoordinates struct {
	Faces  core.Coordinates `json:"faces"`
	Custom core.Coordinates `json:"custom"`
}

// ResourceVersion is one backed-up version of an asset.
type ResourceVersion struct {
	VersionID  string    `json:"version_id"`
	Version    int64     `json:"version"`
	Format     string    `json:"format"`
	Size       int64     `json:"size"`
	Time       time.Time `json:"time"`
	Restorable bool      `json:"restorable"`
}

// -----------------------------------------------------
// UPDATE
// -----------------------------------------------------

// UpdateResourceParams changes tags, context, metadata, moderation status or
// access settings of one asset.
type UpdateResourceParams struct {
	PublicID          string            `param:"-"`
	ResourceType      core.ResourceType `param:"-"`
	Type              core.DeliveryType `param:"-"`
	Tags              []string
	Context           map[string]string
	Metadata          map[string]string
	FaceCoordinates   core.Coordinates
	CustomCoordinates core.Coordinates
	ModerationStatus  ModerationStatus
	AutoTagging       *float64
	Categorization    string
	Detection         string
	OCR               string `param:"ocr"`
	BackgroundRemoval string
	AccessMode        string
	AccessControl     core.JSONValue
	DisplayName       string
	AssetFolder       string
	NotificationURL   string      `param:"notification_url"`
	Custom            core.Params `param:"-"`
}

func (p *UpdateResourceParams) Check() error {
	if p.PublicID == "" {
		return core.Required("public_id")
	}
	switch p.ModerationStatus {
	case "", ModerationApproved, ModerationRejected, ModerationPending, ModerationOverridden:
		return nil
	}
	return &core.ValidationError{Fields: []string{"moderation_status"}, Reason: "unknown moderation status"}
}

func (p *UpdateResourceParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// DELETE
// -----------------------------------------------------

// DelResParams deletes assets selected by exactly one filter: a tag, a
// public id prefix, a list of public ids, or every asset of the type.
// The setters replace the active filter.
type DelResParams struct {
	ResourceType    core.ResourceType   `param:"-"`
	Type            core.DeliveryType   `param:"-"`
	Filter          core.ResourceFilter `param:"-"`
	KeepOriginal    bool
	Invalidate      bool
	NextCursor      string
	Transformations []*core.Transformation
	Custom          core.Params `param:"-"`
}

// SetTag selects assets carrying tag and clears any other filter.
func (p *DelResParams) SetTag(tag string) *DelResParams {
	p.Filter = core.ByTag(tag)
	return p
}

// SetPrefix selects assets whose public id starts with prefix and clears any other filter.
func (p *DelResParams) SetPrefix(prefix string) *DelResParams {
	p.Filter = core.ByPrefix(prefix)
	return p
}

// SetPublicIDs selects the listed assets and clears any other filter.
func (p *DelResParams) SetPublicIDs(ids ...string) *DelResParams {
	p.Filter = core.ByPublicIDs(ids)
	return p
}

// SetAll selects every asset of the type and clears any other filter.
func (p *DelResParams) SetAll() *DelResParams {
	p.Filter = core.AllResources{}
	return p
}

func (p *DelResParams) Check() error {
	return core.CheckFilter(p.Filter)
}

func (p *DelResParams) ToParams() core.Params {
	return core.MergeParams(core.ParamsFromStruct(p), core.FilterParams(p.Filter), p.Custom)
}

// DelResResult maps each public id to "deleted" or "not_found".
type DelResResult struct {
	core.BaseResult
	Deleted       map[string]string       `json:"deleted"`
	DeletedCounts map[string]DeletedCount `json:"deleted_counts"`
	Partial       bool                    `json:"partial"`
	NextCursor    string                  `json:"next_cursor"`
}

// DeletedCount splits deletions between originals and derived assets.
type DeletedCount struct {
	Original int `json:"original"`
	Derived  int `json:"derived"`
}

// DelDerivedResParams deletes derived assets by id.
type DelDerivedResParams struct {
	DerivedResourceIDs []string    `param:"derived_resource_ids"`
	Custom             core.Params `param:"-"`
}

func (p *DelDerivedResParams) Check() error {
	if len(p.DerivedResourceIDs) == 0 {
		return core.Required("derived_resource_ids")
	}
	return nil
}

func (p *DelDerivedResParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// RESTORE / PUBLISH
// -----------------------------------------------------

// RestoreParams restores deleted assets from backup.
type RestoreParams struct {
	PublicIDs    []string          `param:"public_ids"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	Versions     []string
	Custom       core.Params `param:"-"`
}

func (p *RestoreParams) Check() error {
	if len(p.PublicIDs) == 0 {
		return core.Required("public_ids")
	}
	if len(p.Versions) > 0 && len(p.Versions) != len(p.PublicIDs) {
		return &core.ValidationError{Fields: []string{"versions", "public_ids"}, Reason: "must have the same length"}
	}
	return nil
}

func (p *RestoreParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// RestoreResult is keyed by public id; each entry is either the restored
// resource or an error object.
type RestoreResult struct {
	core.BaseResult
	Restored map[string]core.Record `json:"-"`
}

// PublishParams changes the access mode of assets selected by one filter.
type PublishParams struct {
	ResourceType core.ResourceType   `param:"-"`
	Type         core.DeliveryType   `param:"type"`
	Filter       core.ResourceFilter `param:"-"`
	Overwrite    bool
	Invalidate   bool
	Custom       core.Params `param:"-"`
}

// SetTag selects assets carrying tag and clears any other filter.
func (p *PublishParams) SetTag(tag string) *PublishParams {
	p.Filter = core.ByTag(tag)
	return p
}

// SetPrefix selects assets by public id prefix and clears any other filter.
func (p *PublishParams) SetPrefix(prefix string) *PublishParams {
	p.Filter = core.ByPrefix(prefix)
	return p
}

// SetPublicIDs selects the listed assets and clears any other filter.
func (p *PublishParams) SetPublicIDs(ids ...string) *PublishParams {
	p.Filter = core.ByPublicIDs(ids)
	return p
}

func (p *PublishParams) Check() error {
	if _, all := p.Filter.(core.AllResources); all {
		return &core.ValidationError{Fields: []string{"all"}, Reason: "is not supported by publish"}
	}
	if err := core.CheckFilter(p.Filter); err != nil {
		return core.RequireOneOf("public_ids", "prefix", "tag")
	}
	return nil
}

func (p *PublishParams) ToParams() core.Params {
	return core.MergeParams(core.ParamsFromStruct(p), core.FilterParams(p.Filter), p.Custom)
}

// PublishResult lists what was published and what failed. Entries are
// dictionary shaped; use Record.Lookup to read them by either spelling.
type PublishResult struct {
	core.BaseResult
	Published []core.Record `json:"published"`
	Failed    []core.Record `json:"failed"`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Resources groups the admin API operations on stored assets.
type Resources struct {
	*core.Resource
}

// NewResources creates the resources group.
func NewResources(ctx context.Context, session core.RESTSession) *Resources {
	return &Resources{Resource: core.NewResource(ctx, session, core.AdminAPI, "resources")}
}

// List returns one page of assets.
func (r *Resources) List(p *ListResourcesParams) (*ListResourcesResult, error) {
	return r.ListWithContext(r.Ctx(), p)
}

// ListWithContext returns one page of assets using provided context.
func (r *Resources) ListWithContext(ctx context.Context, p *ListResourcesParams) (*ListResourcesResult, error) {
	if p == nil {
		p = &ListResourcesParams{}
	}
	return core.Call[ListResourcesResult](ctx, r.Session(), endpoint(http.MethodGet, p.path()...), p)
}

// Iterator walks every page of a listing. Records are the raw resource objects.
func (r *Resources) Iterator(ctx context.Context, p *ListResourcesParams) (core.Iterator, error) {
	if p == nil {
		p = &ListResourcesParams{}
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return r.GetIteratorWithContext(ctx, core.JoinPath(p.path()...), p.ToParams(), "resources", p.MaxResults), nil
}

// Get returns details of one asset.
func (r *Resources) Get(p *GetResourceParams) (*GetResourceResult, error) {
	return r.GetWithContext(r.Ctx(), p)
}

// GetWithContext returns details of one asset using provided context.
func (r *Resources) GetWithContext(ctx context.Context, p *GetResourceParams) (*GetResourceResult, error) {
	if p == nil {
		return nil, core.Required("public_id")
	}
	ep := endpoint(http.MethodGet, "resources", string(p.ResourceType.OrDefault()), string(p.Type.OrDefault()), p.PublicID)
	return withDerived(core.Call[GetResourceResult](ctx, r.Session(), ep, p))
}

// Update changes one asset.
func (r *Resources) Update(p *UpdateResourceParams) (*GetResourceResult, error) {
	return r.UpdateWithContext(r.Ctx(), p)
}

// UpdateWithContext changes one asset using provided context.
func (r *Resources) UpdateWithContext(ctx context.Context, p *UpdateResourceParams) (*GetResourceResult, error) {
	if p == nil {
		return nil, core.Required("public_id")
	}
	ep := endpoint(http.MethodPost, "resources", string(p.ResourceType.OrDefault()), string(p.Type.OrDefault()), p.PublicID)
	return withDerived(core.Call[GetResourceResult](ctx, r.Session(), ep, p))
}

// withDerived makes a missing "derived" list an empty one.
func withDerived(result *GetResourceResult, err error) (*GetResourceResult, error) {
	if result != nil && result.Derived == nil {
		result.Derived = []Derived{}
	}
	return result, err
}

// Delete removes the assets selected by the filter.
func (r *Resources) Delete(p *DelResParams) (*DelResResult, error) {
	return r.DeleteWithContext(r.Ctx(), p)
}

// DeleteWithContext removes assets using provided context.
func (r *Resources) DeleteWithContext(ctx context.Context, p *DelResParams) (*DelResResult, error) {
	if p == nil {
		return nil, core.CheckFilter(nil)
	}
	rt := string(p.ResourceType.OrDefault())
	if tag, ok := p.Filter.(core.ByTag); ok && tag != "" {
		if err := p.Check(); err != nil {
			return nil, err
		}
		// The tag is a path segment on this route.
		params := p.ToParams()
		params.Without("tag")
		ep := endpoint(http.MethodDelete, "resources", rt, "tags", string(tag))
		return core.CallWithParams[DelResResult](ctx, r.Session(), ep, params)
	}
	ep := endpoint(http.MethodDelete, "resources", rt, string(p.Type.OrDefault()))
	return core.Call[DelResResult](ctx, r.Session(), ep, p)
}

// DeleteDerived removes derived assets by id.
func (r *Resources) DeleteDerived(p *DelDerivedResParams) (*DelResResult, error) {
	return r.DeleteDerivedWithContext(r.Ctx(), p)
}

// DeleteDerivedWithContext removes derived assets using provided context.
func (r *Resources) DeleteDerivedWithContext(ctx context.Context, p *DelDerivedResParams) (*DelResResult, error) {
	if p == nil {
		return nil, core.Required("derived_resource_ids")
	}
	return core.Call[DelResResult](ctx, r.Session(), endpoint(http.MethodDelete, "derived_resources"), p)
}

// Restore brings deleted assets back from backup.
func (r *Resources) Restore(p *RestoreParams) (*RestoreResult, error) {
	return r.RestoreWithContext(r.Ctx(), p)
}

// RestoreWithContext restores assets using provided context.
func (r *Resources) RestoreWithContext(ctx context.Context, p *RestoreParams) (*RestoreResult, error) {
	if p == nil {
		return nil, core.Required("public_ids")
	}
	ep := endpoint(http.MethodPost, "resources", string(p.ResourceType.OrDefault()), string(p.Type.OrDefault()), "restore")
	result, err := core.Call[RestoreResult](ctx, r.Session(), ep, p)
	if err != nil {
		return nil, err
	}
	result.Restored = make(map[string]core.Record, len(p.PublicIDs))
	for _, id := range p.PublicIDs {
		if entry, ok := result.Raw[id].(map[string]any); ok {
			result.Restored[id] = entry
		}
	}
	return result, nil
}

// Publish changes assets to public access.
func (r *Resources) Publish(p *PublishParams) (*PublishResult, error) {
	return r.PublishWithContext(r.Ctx(), p)
}

// PublishWithContext publishes assets using provided context.
func (r *Resources) PublishWithContext(ctx context.Context, p *PublishParams) (*PublishResult, error) {
	if p == nil {
		return nil, core.RequireOneOf("public_ids", "prefix", "tag")
	}
	ep := endpoint(http.MethodPost, "resources", string(p.ResourceType.OrDefault()), "publish_resources")
	return core.Call[PublishResult](ctx, r.Session(), ep, p)
}
