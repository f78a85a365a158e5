package typed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mediacloud/go-mediacloud/core"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------
// UPLOAD FIELD GROUPS
// -----------------------------------------------------

// UploadIdentity names and places the stored asset.
type UploadIdentity struct {
	PublicID                 string `param:"public_id"`
	PublicIDPrefix           string `param:"public_id_prefix"`
	Folder                   string
	AssetFolder              string
	DisplayName              string
	UseFilename              bool
	UseFilenameAsDisplayName bool
	UniqueFilename           *bool
	DiscardOriginalFilename  bool
	Overwrite                *bool
	Type                     core.DeliveryType `param:"type"`
}

// UploadMedia describes the asset and what to generate from it.
type UploadMedia struct {
	Tags                  []string
	Context               map[string]string
	Metadata              map[string]string
	FaceCoordinates       core.Coordinates
	CustomCoordinates     core.Coordinates
	Transformation        *core.Transformation
	Eager                 []*core.Transformation
	Format                string
	AllowedFormats        []string
	Moderation            string
	AccessMode            string
	AccessControl         core.JSONValue
	ResponsiveBreakpoints core.JSONValue
	Proxy                 string
}

// UploadBehavior controls processing and callbacks.
type UploadBehavior struct {
	UploadPreset         string `param:"upload_preset"`
	Async                bool
	Backup               *bool
	Invalidate           bool
	ReturnDeleteToken    bool
	NotificationURL      string `param:"notification_url"`
	EagerAsync           bool
	EagerNotificationURL string `param:"eager_notification_url"`
	Callback             string
	// Unsigned sends the request without a signature. UploadPreset must name
	// an unsigned preset.
	Unsigned bool `param:"-"`
}

// UploadAnalysis requests analysis add-ons.
type UploadAnalysis struct {
	Faces                 bool
	Colors                bool
	ImageMetadata         bool
	MediaMetadata         bool
	Phash                 bool
	QualityAnalysis       bool
	AccessibilityAnalysis bool
	Categorization        string
	Detection             string
	OCR                   string `param:"ocr"`
	BackgroundRemoval     string
	AutoTagging           *float64
	RawConvert            string
}

// -----------------------------------------------------
// UPLOAD PARAMS
// -----------------------------------------------------

// UploadParams uploads any asset. ResourceType selects the endpoint and
// defaults to "auto".
type UploadParams struct {
	File         File              `param:"file"`
	ResourceType core.ResourceType `param:"-"`
	UploadIdentity
	UploadMedia
	UploadBehavior
	UploadAnalysis
	Custom core.Params `param:"-"`
}

func (p *UploadParams) Check() error {
	if !p.File.IsSet() {
		return core.Required("file")
	}
	if p.Unsigned && p.UploadPreset == "" {
		return &core.ValidationError{Fields: []string{"upload_preset"}, Reason: "is required for unsigned uploads"}
	}
	if p.AutoTagging != nil && (*p.AutoTagging < 0 || *p.AutoTagging > 1) {
		return &core.ValidationError{Fields: []string{"auto_tagging"}, Reason: "must be between 0 and 1"}
	}
	return nil
}

func (p *UploadParams) ToParams() core.Params {
	return core.BuildParams(p, p.Custom)
}

func (p *UploadParams) IsUnsigned() bool { return p.Unsigned }

func (p *UploadParams) uploadResourceType() core.ResourceType {
	if p.ResourceType == "" {
		return core.ResourceTypeAuto
	}
	return p.ResourceType
}

// ImageUploadParams narrows an upload to images. Its Type replaces the
// generic one and only accepts stored delivery types.
type ImageUploadParams struct {
	UploadParams
	Type core.DeliveryType `param:"type"`
}

func (p *ImageUploadParams) Check() error {
	if err := p.UploadParams.Check(); err != nil {
		return err
	}
	switch p.Type {
	case "", core.DeliveryTypeUpload, core.DeliveryTypePrivate, core.DeliveryTypeAuthenticated:
		return nil
	}
	return &core.ValidationError{Fields: []string{"type"}, Reason: fmt.Sprintf("%q is not a stored image type", p.Type)}
}

func (p *ImageUploadParams) ToParams() core.Params {
	return core.BuildParams(p, p.Custom)
}

func (p *ImageUploadParams) uploadResourceType() core.ResourceType { return core.ResourceTypeImage }

// VideoUploadParams narrows an upload to video and audio.
type VideoUploadParams struct {
	UploadParams
	AutoChaptering    bool
	AutoTranscription bool
}

func (p *VideoUploadParams) ToParams() core.Params {
	return core.BuildParams(p, p.Custom)
}

func (p *VideoUploadParams) uploadResourceType() core.ResourceType { return core.ResourceTypeVideo }

// RawUploadParams uploads a file stored without any processing.
type RawUploadParams struct {
	UploadParams
}

func (p *RawUploadParams) uploadResourceType() core.ResourceType { return core.ResourceTypeRaw }

// -----------------------------------------------------
// UPLOAD RESULT
// -----------------------------------------------------

// UploadResult is the response of every upload variant.
type UploadResult struct {
	core.BaseResult
	AssetID               string            `json:"asset_id"`
	PublicID              string            `json:"public_id"`
	Version               int64             `json:"version"`
	VersionID             string            `json:"version_id"`
	Signature             string            `json:"signature"`
	Width                 int               `json:"width"`
	Height                int               `json:"height"`
	Format                string            `json:"format"`
	ResourceType          string            `json:"resource_type"`
	Type                  string            `json:"type"`
	CreatedAt             time.Time         `json:"created_at"`
	Tags                  []string          `json:"tags"`
	Pages                 int               `json:"pages"`
	Bytes                 int64             `json:"bytes"`
	Etag                  string            `json:"etag"`
	Placeholder           bool              `json:"placeholder"`
	URL                   string            `json:"url"`
	SecureURL             string            `json:"secure_url"`
	AssetFolder           string            `json:"asset_folder"`
	DisplayName           string            `json:"display_name"`
	AccessMode            string            `json:"access_mode"`
	OriginalFilename      string            `json:"original_filename"`
	Overwritten           bool              `json:"overwritten"`
	Existing              bool              `json:"existing"`
	Status                string            `json:"status"`
	BatchID               string            `json:"batch_id"`
	DeleteToken           string            `json:"delete_token"`
	Phash                 string            `json:"phash"`
	Duration              float64           `json:"duration"`
	Faces                 core.Coordinates  `json:"faces"`
	Colors                [][]any           `json:"colors"`
	Eager                 []EagerResult     `json:"eager"`
	Moderation            []Moderation      `json:"moderation"`
	Context               ResourceContext   `json:"context"`
	Metadata              map[string]any    `json:"metadata"`
	ImageMetadata         map[string]string `json:"image_metadata"`
	ResponsiveBreakpoints []Breakpoints     `json:"responsive_breakpoints"`
	Info                  map[string]any    `json:"info"`
}

// Pending reports whether the upload continues in the background.
func (r *UploadResult) Pending() bool {
	return r.Status == "pending"
}

// VerifySignature checks the signature the service attached to the result.
func (r *UploadResult) VerifySignature(secret string, algo core.SignatureAlgorithm) bool {
	return core.VerifyResponseSignature(r.PublicID, r.Version, r.Signature, secret, algo)
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Uploader groups the signed upload API operations.
type Uploader struct {
	*core.Resource
}

// NewUploader creates the upload API group.
func NewUploader(ctx context.Context, session core.RESTSession) *Uploader {
	return &Uploader{Resource: core.NewResource(ctx, session, core.UploadAPI, "uploader")}
}

func (r *Uploader) upload(ctx context.Context, rt core.ResourceType, p core.RequestParams) (*UploadResult, error) {
	return core.Call[UploadResult](ctx, r.Session(), r.Endpoint(http.MethodPost, string(rt), "upload"), p)
}

// Upload uploads an asset.
func (r *Uploader) Upload(p *UploadParams) (*UploadResult, error) {
	return r.UploadWithContext(r.Ctx(), p)
}

// UploadWithContext uploads an asset using provided context. A local path is
// read before the request is built.
func (r *Uploader) UploadWithContext(ctx context.Context, p *UploadParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("file")
	}
	req := *p
	var err error
	if req.File, err = p.File.Resolve(); err != nil {
		return nil, err
	}
	return r.upload(ctx, req.uploadResourceType(), &req)
}

// UploadImage uploads an image.
func (r *Uploader) UploadImage(p *ImageUploadParams) (*UploadResult, error) {
	return r.UploadImageWithContext(r.Ctx(), p)
}

// UploadImageWithContext uploads an image using provided context.
func (r *Uploader) UploadImageWithContext(ctx context.Context, p *ImageUploadParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("file")
	}
	req := *p
	var err error
	if req.File, err = p.File.Resolve(); err != nil {
		return nil, err
	}
	return r.upload(ctx, req.uploadResourceType(), &req)
}

// UploadVideo uploads a video or audio file.
func (r *Uploader) UploadVideo(p *VideoUploadParams) (*UploadResult, error) {
	return r.UploadVideoWithContext(r.Ctx(), p)
}

// UploadVideoWithContext uploads a video using provided context.
func (r *Uploader) UploadVideoWithContext(ctx context.Context, p *VideoUploadParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("file")
	}
	req := *p
	var err error
	if req.File, err = p.File.Resolve(); err != nil {
		return nil, err
	}
	return r.upload(ctx, req.uploadResourceType(), &req)
}

// UploadRaw uploads a file stored as is.
func (r *Uploader) UploadRaw(p *RawUploadParams) (*UploadResult, error) {
	return r.UploadRawWithContext(r.Ctx(), p)
}

// UploadRawWithContext uploads a raw file using provided context.
func (r *Uploader) UploadRawWithContext(ctx context.Context, p *RawUploadParams) (*UploadResult, error) {
	if p == nil {
		return nil, core.Required("file")
	}
	req := *p
	var err error
	if req.File, err = p.File.Resolve(); err != nil {
		return nil, err
	}
	return r.upload(ctx, req.uploadResourceType(), &req)
}

// UploadAsync submits an upload with async=true and returns a handle that
// can wait for the asset to become available.
func (r *Uploader) UploadAsync(ctx context.Context, admin core.RESTSession, p *UploadParams) (*UploadResult, *core.AsyncResult, error) {
	if p == nil {
		return nil, nil, core.Required("file")
	}
	req := *p
	req.Async = true
	result, err := r.UploadWithContext(ctx, &req)
	if err != nil {
		return nil, nil, err
	}
	if admin == nil {
		admin = r.Session()
	}
	return result, core.MaybeAsyncResultFromRecord(ctx, admin, result.Raw), nil
}

// -----------------------------------------------------
// BATCH UPLOAD
// -----------------------------------------------------

// DefaultBatchConcurrency bounds UploadBatch when no limit is given.
const DefaultBatchConcurrency = 4

// UploadBatch uploads items concurrently with at most concurrency requests in
// flight. Results keep the order of items. The first transport or validation
// error cancels the remaining uploads and is returned together with whatever
// results completed. Server-side failures are not errors: they are reported
// on each result.
//
// Uploads targeting the same public id are serialized.
func (r *Uploader) UploadBatch(ctx context.Context, items []*UploadParams, concurrency int) ([]*UploadResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	results := make([]*UploadResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, item := range items {
		g.Go(func() error {
			if item != nil && item.PublicID != "" {
				defer r.Lock(item.uploadResourceType(), item.PublicID)()
			}
			res, err := r.UploadWithContext(gctx, item)
			if err != nil {
				return fmt.Errorf("upload #%d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
