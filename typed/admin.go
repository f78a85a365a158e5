package typed

import (
	"context"
	"net/http"
	"time"

	"github.com/mediacloud/go-mediacloud/core"
)

// NoParams is used by endpoints that take no input.
type NoParams struct{}

func (p *NoParams) Check() error          { return nil }
func (p *NoParams) ToParams() core.Params { return core.Params{} }

// PingResult is the health check answer.
type PingResult struct {
	core.BaseResult
	Status string `json:"status"`
}

// OK reports whether the service answered "ok".
func (r *PingResult) OK() bool { return r.Status == "ok" }

// UsageParams selects the day to report; zero means the current state.
type UsageParams struct {
	Date time.Time `param:"-"`
}

func (p *UsageParams) Check() error { return nil }

func (p *UsageParams) ToParams() core.Params {
	if p.Date.IsZero() {
		return core.Params{}
	}
	return core.Params{"date": p.Date.Format("02-01-2006")}
}

// UsageCounter is one metered quantity of the account.
type UsageCounter struct {
	Usage       float64 `json:"usage"`
	Limit       float64 `json:"limit"`
	UsedPercent float64 `json:"used_percent"`
	Credits     float64 `json:"credits_usage"`
}

// UsageResult reports the account plan and its consumption.
type UsageResult struct {
	core.BaseResult
	Plan             string       `json:"plan"`
	LastUpdated      string       `json:"last_updated"`
	Transformations  UsageCounter `json:"transformations"`
	Objects          UsageCounter `json:"objects"`
	Bandwidth        UsageCounter `json:"bandwidth"`
	Storage          UsageCounter `json:"storage"`
	Credits          UsageCounter `json:"credits"`
	Requests         int64        `json:"requests"`
	Resources        int64        `json:"resources"`
	DerivedResources int64        `json:"derived_resources"`
	MediaLimits      struct {
		ImageMaxSizeBytes int64 `json:"image_max_size_bytes"`
		VideoMaxSizeBytes int64 `json:"video_max_size_bytes"`
		RawMaxSizeBytes   int64 `json:"raw_max_size_bytes"`
		ImageMaxPx        int64 `json:"image_max_px"`
		AssetMaxTotalPx   int64 `json:"asset_max_total_px"`
	} `json:"media_limits"`
}

// ListTagsParams lists tags of a resource type, optionally by prefix.
type ListTagsParams struct {
	ResourceType core.ResourceType `param:"-"`
	Prefix       string
	MaxResults   int
	NextCursor   string
}

func (p *ListTagsParams) Check() error { return nil }

func (p *ListTagsParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// ListTagsResult is one page of tags.
type ListTagsResult struct {
	core.BaseResult
	Tags       []string `json:"tags"`
	NextCursor string   `json:"next_cursor"`
}

// Admin groups account level operations.
type Admin struct {
	*core.Resource
}

// NewAdmin creates the account operations group.
func NewAdmin(ctx context.Context, session core.RESTSession) *Admin {
	return &Admin{Resource: core.NewResource(ctx, session, core.AdminAPI, "admin")}
}

// Ping checks that the service is reachable and the credentials are accepted.
func (a *Admin) Ping() (*PingResult, error) {
	return a.PingWithContext(a.Ctx())
}

// PingWithContext checks connectivity using provided context.
func (a *Admin) PingWithContext(ctx context.Context) (*PingResult, error) {
	return core.Call[PingResult](ctx, a.Session(), endpoint(http.MethodGet, "ping"), &NoParams{})
}

// Usage reports plan limits and consumption.
func (a *Admin) Usage(p *UsageParams) (*UsageResult, error) {
	return a.UsageWithContext(a.Ctx(), p)
}

// UsageWithContext reports usage using provided context.
func (a *Admin) UsageWithContext(ctx context.Context, p *UsageParams) (*UsageResult, error) {
	if p == nil {
		p = &UsageParams{}
	}
	return core.Call[UsageResult](ctx, a.Session(), endpoint(http.MethodGet, "usage"), p)
}

// ListTags returns one page of tags.
func (a *Admin) ListTags(p *ListTagsParams) (*ListTagsResult, error) {
	return a.ListTagsWithContext(a.Ctx(), p)
}

// ListTagsWithContext returns one page of tags using provided context.
func (a *Admin) ListTagsWithContext(ctx context.Context, p *ListTagsParams) (*ListTagsResult, error) {
	if p == nil {
		p = &ListTagsParams{}
	}
	ep := endpoint(http.MethodGet, "tags", string(p.ResourceType.OrDefault()))
	return core.Call[ListTagsResult](ctx, a.Session(), ep, p)
}

// TagIterator walks every tag page. Records hold the tag under "@raw".
func (a *Admin) TagIterator(ctx context.Context, p *ListTagsParams) core.Iterator {
	if p == nil {
		p = &ListTagsParams{}
	}
	path := core.JoinPath("tags", string(p.ResourceType.OrDefault()))
	return a.GetIteratorWithContext(ctx, path, p.ToParams(), "tags", p.MaxResults)
}
