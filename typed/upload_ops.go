package typed

import (
	"context"
	"net/http"
	"time"

	"github.com/mediacloud/go-mediacloud/core"
)

// -----------------------------------------------------
// DESTROY / RENAME
// -----------------------------------------------------

// DestroyParams deletes a single asset.
type DestroyParams struct {
	PublicID     string            `param:"public_id"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	Invalidate   bool
	Custom       core.Params `param:"-"`
}

func (p *DestroyParams) Check() error {
	if p.PublicID == "" {
		return core.Required("public_id")
	}
	return nil
}

func (p *DestroyParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// DestroyResult reports "ok" or "not found".
type DestroyResult struct {
	core.BaseResult
	Result string `json:"result"`
}

// RenameParams changes the public id of an asset.
type RenameParams struct {
	FromPublicID string            `param:"from_public_id"`
	ToPublicID   string            `param:"to_public_id"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	ToType       core.DeliveryType `param:"to_type"`
	Overwrite    bool
	Invalidate   bool
	Custom       core.Params `param:"-"`
}

func (p *RenameParams) Check() error {
	if p.FromPublicID == "" {
		return core.Required("from_public_id")
	}
	if p.ToPublicID == "" {
		return core.Required("to_public_id")
	}
	return nil
}

func (p *RenameParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// EXPLICIT
// -----------------------------------------------------

// ExplicitParams applies actions (eager transformations, tags, context,
// metadata, moderation) to an already uploaded asset.
type ExplicitParams struct {
	PublicID     string            `param:"public_id"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	UploadMedia
	EagerAsync           bool
	EagerNotificationURL string `param:"eager_notification_url"`
	NotificationURL      string `param:"notification_url"`
	Invalidate           bool
	Overwrite            *bool
	Custom               core.Params `param:"-"`
}

func (p *ExplicitParams) Check() error {
	if p.PublicID == "" {
		return core.Required("public_id")
	}
	return nil
}

func (p *ExplicitParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// TAGS / CONTEXT
// -----------------------------------------------------

// TagCommand is the tag mutation applied by the tags endpoint.
type TagCommand string

const (
	TagAdd       TagCommand = "add"
	TagRemove    TagCommand = "remove"
	TagReplace   TagCommand = "replace"
	TagRemoveAll TagCommand = "remove_all"
)

// TagParams adds, removes or replaces a tag on a list of assets.
type TagParams struct {
	Command      TagCommand        `param:"command"`
	Tag          string            `param:"tag"`
	PublicIDs    []string          `param:"public_ids"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	Custom       core.Params       `param:"-"`
}

func (p *TagParams) Check() error {
	if len(p.PublicIDs) == 0 {
		return core.Required("public_ids")
	}
	switch p.Command {
	case TagAdd, TagRemove, TagReplace:
		if p.Tag == "" {
			return core.Required("tag")
		}
	case TagRemoveAll:
	default:
		return &core.ValidationError{Fields: []string{"command"}, Reason: "must be one of add, remove, replace, remove_all"}
	}
	return nil
}

func (p *TagParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// PublicIDsResult lists the assets an operation touched.
type PublicIDsResult struct {
	core.BaseResult
	PublicIDs []string `json:"public_ids"`
}

// ContextCommand is the context mutation applied by the context endpoint.
type ContextCommand string

const (
	ContextAdd       ContextCommand = "add"
	ContextRemoveAll ContextCommand = "remove_all"
)

// ContextParams sets or clears key/value context on a list of assets.
type ContextParams struct {
	Command      ContextCommand    `param:"command"`
	Context      map[string]string `param:"context"`
	PublicIDs    []string          `param:"public_ids"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	Custom       core.Params       `param:"-"`
}

func (p *ContextParams) Check() error {
	if len(p.PublicIDs) == 0 {
		return core.Required("public_ids")
	}
	switch p.Command {
	case ContextAdd:
		if len(p.Context) == 0 {
			return core.Required("context")
		}
	case ContextRemoveAll:
	default:
		return &core.ValidationError{Fields: []string{"command"}, Reason: "must be one of add, remove_all"}
	}
	return nil
}

func (p *ContextParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// ARCHIVE
// -----------------------------------------------------

// ArchiveMode selects whether the archive is returned or stored.
type ArchiveMode string

const (
	ArchiveDownload ArchiveMode = "download"
	ArchiveCreate   ArchiveMode = "create"
)

// ArchiveParams generates a zip/tgz of assets selected by public ids, tags or
// prefixes. At least one selector must be set.
type ArchiveParams struct {
	ResourceType            core.ResourceType `param:"-"`
	Type                    core.DeliveryType `param:"type"`
	Mode                    ArchiveMode       `param:"mode"`
	TargetFormat            string
	TargetPublicID          string   `param:"target_public_id"`
	PublicIDs               []string `param:"public_ids"`
	Tags                    []string
	Prefixes                []string
	FullyQualifiedPublicIDs []string `param:"fully_qualified_public_ids"`
	Transformations         []*core.Transformation
	FlattenFolders          bool
	FlattenTransformations  bool
	UseOriginalFilename     bool
	KeepDerived             bool
	SkipTransformationName  bool
	AllowMissing            bool
	ExpiresAt               time.Time
	TargetTags              []string
	NotificationURL         string `param:"notification_url"`
	Async                   bool
	Custom                  core.Params `param:"-"`
}

func (p *ArchiveParams) Check() error {
	if len(p.PublicIDs) == 0 && len(p.Tags) == 0 && len(p.Prefixes) == 0 && len(p.FullyQualifiedPublicIDs) == 0 {
		return core.RequireOneOf("PublicIds", "Tags", "Prefixes")
	}
	return nil
}

func (p *ArchiveParams) ToParams() core.Params {
	params := core.BuildParams(p, p.Custom)
	if _, ok := params["mode"]; !ok {
		params["mode"] = string(ArchiveCreate)
	}
	return params
}

// ArchiveResult describes a stored archive.
type ArchiveResult struct {
	core.BaseResult
	URL           string `json:"url"`
	SecureURL     string `json:"secure_url"`
	AssetID       string `json:"asset_id"`
	PublicID      string `json:"public_id"`
	Version       int64  `json:"version"`
	Bytes         int64  `json:"bytes"`
	FileCount     int    `json:"file_count"`
	ResourceCount int    `json:"resource_count"`
	ResourceType  string `json:"resource_type"`
}

// -----------------------------------------------------
// TEXT / SPRITE / MULTI
// -----------------------------------------------------

// TextParams renders text into a new image.
type TextParams struct {
	Text           string `param:"text"`
	PublicID       string `param:"public_id"`
	FontFamily     string
	FontSize       int
	FontColor      string
	FontWeight     string
	FontStyle      string
	Background     string
	Opacity        *int
	TextDecoration string
	TextAlign      string
	LineSpacing    *int
	Custom         core.Params `param:"-"`
}

func (p *TextParams) Check() error {
	if p.Text == "" {
		return core.Required("text")
	}
	return nil
}

func (p *TextParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// TextResult is the generated text image.
type TextResult struct {
	core.BaseResult
	PublicID  string `json:"public_id"`
	Version   int64  `json:"version"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// SpriteParams merges every image carrying Tag (or the listed URLs) into a sprite.
type SpriteParams struct {
	Tag             string   `param:"tag"`
	URLs            []string `param:"urls"`
	Transformation  *core.Transformation
	Format          string
	NotificationURL string `param:"notification_url"`
	Async           bool
	Custom          core.Params `param:"-"`
}

func (p *SpriteParams) Check() error {
	if p.Tag == "" && len(p.URLs) == 0 {
		return core.RequireOneOf("tag", "urls")
	}
	if p.Tag != "" && len(p.URLs) > 0 {
		return core.Conflict("tag", "urls")
	}
	return nil
}

func (p *SpriteParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// SpriteResult locates the generated sprite and its CSS.
type SpriteResult struct {
	core.BaseResult
	CSSURL         string                     `json:"css_url"`
	SecureCSSURL   string                     `json:"secure_css_url"`
	ImageURL       string                     `json:"image_url"`
	SecureImageURL string                     `json:"secure_image_url"`
	JSONURL        string                     `json:"json_url"`
	PublicID       string                     `json:"public_id"`
	Version        int64                      `json:"version"`
	ImageInfos     map[string]SpriteImageInfo `json:"image_infos"`
}

// SpriteImageInfo is the position of one image inside a sprite.
type SpriteImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// MultiParams builds an animated image, video or PDF from tagged images.
type MultiParams struct {
	Tag             string   `param:"tag"`
	URLs            []string `param:"urls"`
	Transformation  *core.Transformation
	Format          string
	NotificationURL string `param:"notification_url"`
	Async           bool
	Custom          core.Params `param:"-"`
}

func (p *MultiParams) Check() error {
	if p.Tag == "" && len(p.URLs) == 0 {
		return core.RequireOneOf("tag", "urls")
	}
	if p.Tag != "" && len(p.URLs) > 0 {
		return core.Conflict("tag", "urls")
	}
	return nil
}

func (p *MultiParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// MultiResult locates the generated file.
type MultiResult struct {
	core.BaseResult
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Version   int64  `json:"version"`
}

// -----------------------------------------------------
// METADATA
// -----------------------------------------------------

// UpdateMetadataParams sets structured metadata values on assets.
type UpdateMetadataParams struct {
	Metadata     map[string]string `param:"metadata"`
	PublicIDs    []string          `param:"public_ids"`
	ResourceType core.ResourceType `param:"-"`
	Type         core.DeliveryType `param:"type"`
	ClearInvalid bool
	Custom       core.Params `param:"-"`
}

func (p *UpdateMetadataParams) Check() error {
	if len(p.PublicIDs) == 0 {
		return core.Required("public_ids")
	}
	if len(p.Metadata) == 0 {
		return core.Required("metadata")
	}
	return nil
}

func (p *UpdateMetadataParams) ToParams() core.Params { return core.BuildParams(p, p.Custom) }

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

func (r *Uploader) action(rt core.ResourceType, action string) core.Endpoint {
	return r.Endpoint(http.MethodPost, string(rt.OrDefault()), action)
}

// Destroy deletes an asset.
func (r *Uploader) Destroy(p *DestroyParams) (*DestroyResult, error) {
	return r.DestroyWithContext(r.Ctx(), p)
}

// DestroyWithContext deletes an asset using provided context.
func (r *Uploader) DestroyWithContext(ctx context.Context, p *DestroyParams) (*DestroyResult, error) {
	if p == nil {
		return nil, core.Required("public_id")
	}
	return core.Call[DestroyResult](ctx, r.Session(), r.action(p.ResourceType, "destroy"), p)
}

// Rename changes the public id of an asset.
func (r *Uploader) Rename(p *RenameParams) (*UploadResult, error) {
	return r.RenameWithContext(r.Ctx(), p)
}

// RenameWithContext renames an asset using provided context.
func (r *Uploader) RenameWithContext(ctx context.Context, p *RenameParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("from_public_id")
	}
	return core.Call[UploadResult](ctx, r.Session(), r.action(p.ResourceType, "rename"), p)
}

// Explicit applies actions to an existing asset.
func (r *Uploader) Explicit(p *ExplicitParams) (*UploadResult, error) {
	return r.ExplicitWithContext(r.Ctx(), p)
}

// ExplicitWithContext applies actions to an existing asset using provided context.
func (r *Uploader) ExplicitWithContext(ctx context.Context, p *ExplicitParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("public_id")
	}
	return core.Call[UploadResult](ctx, r.Session(), r.action(p.ResourceType, "explicit"), p)
}

// Tags mutates tags on a list of assets.
func (r *Uploader) Tags(p *TagParams) (*PublicIDsResult, error) {
	return r.TagsWithContext(r.Ctx(), p)
}

// TagsWithContext mutates tags using provided context.
func (r *Uploader) TagsWithContext(ctx context.Context, p *TagParams) (*PublicIDsResult, error) {
	if p == nil {
		return nil, core.Required("public_ids")
	}
	return core.Call[PublicIDsResult](ctx, r.Session(), r.action(p.ResourceType, "tags"), p)
}

// Context mutates key/value context on a list of assets.
func (r *Uploader) Context(p *ContextParams) (*PublicIDsResult, error) {
	return r.ContextWithContext(r.Ctx(), p)
}

// ContextWithContext mutates context using provided context.
func (r *Uploader) ContextWithContext(ctx context.Context, p *ContextParams) (*PublicIDsResult, error) {
	if p == nil {
		return nil, core.Required("public_ids")
	}
	return core.Call[PublicIDsResult](ctx, r.Session(), r.action(p.ResourceType, "context"), p)
}

// CreateArchive generates and stores an archive.
func (r *Uploader) CreateArchive(p *ArchiveParams) (*ArchiveResult, error) {
	return r.CreateArchiveWithContext(r.Ctx(), p)
}

// CreateArchiveWithContext generates and stores an archive using provided context.
func (r *Uploader) CreateArchiveWithContext(ctx context.Context, p *ArchiveParams) (*ArchiveResult, error) {
	if p == nil {
		return nil, core.RequireOneOf("PublicIds", "Tags", "Prefixes")
	}
	req := *p
	req.Mode = ArchiveCreate
	return core.Call[ArchiveResult](ctx, r.Session(), r.action(p.ResourceType, "generate_archive"), &req)
}

// Text renders text into an image.
func (r *Uploader) Text(p *TextParams) (*TextResult, error) {
	return r.TextWithContext(r.Ctx(), p)
}

// TextWithContext renders text using provided context.
func (r *Uploader) TextWithContext(ctx context.Context, p *TextParams) (*TextResult, error) {
	if p == nil {
		return nil, core.Required("text")
	}
	return core.Call[TextResult](ctx, r.Session(), r.action(core.ResourceTypeImage, "text"), p)
}

// Sprite generates a sprite from tagged images.
func (r *Uploader) Sprite(p *SpriteParams) (*SpriteResult, error) {
	return r.SpriteWithContext(r.Ctx(), p)
}

// SpriteWithContext generates a sprite using provided context.
func (r *Uploader) SpriteWithContext(ctx context.Context, p *SpriteParams) (*SpriteResult, error) {
	if p == nil {
		return nil, core.RequireOneOf("tag", "urls")
	}
	return core.Call[SpriteResult](ctx, r.Session(), r.action(core.ResourceTypeImage, "sprite"), p)
}

// Multi generates an animated file from tagged images.
func (r *Uploader) Multi(p *MultiParams) (*MultiResult, error) {
	return r.MultiWithContext(r.Ctx(), p)
}

// MultiWithContext generates an animated file using provided context.
func (r *Uploader) MultiWithContext(ctx context.Context, p *MultiParams) (*MultiResult, error) {
	if p == nil {
		return nil, core.RequireOneOf("tag", "urls")
	}
	return core.Call[MultiResult](ctx, r.Session(), r.action(core.ResourceTypeImage, "multi"), p)
}

// UpdateMetadata sets structured metadata on assets.
func (r *Uploader) UpdateMetadata(p *UpdateMetadataParams) (*PublicIDsResult, error) {
	return r.UpdateMetadataWithContext(r.Ctx(), p)
}

// UpdateMetadataWithContext sets structured metadata using provided context.
func (r *Uploader) UpdateMetadataWithContext(ctx context.Context, p *UpdateMetadataParams) (*PublicIDsResult, error) {
	if p == nil {
		return nil, core.Required("public_ids")
	}
	return core.Call[PublicIDsResult](ctx, r.Session(), r.action(p.ResourceType, "metadata"), p)
}
