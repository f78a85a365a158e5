package rest

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/mediacloud/go-mediacloud/core"
)

// RawResource sends dictionaries to one endpoint family and returns raw
// records. It is the escape hatch for fields and endpoints the typed layer
// does not model.
type RawResource struct {
	*core.Resource
}

// UntypedRest exposes every endpoint family of both APIs as a RawResource.
type UntypedRest struct {
	ctx         context.Context
	Session     core.RESTSession
	resourceMap map[string]*RawResource // Map to store resources by name

	// Upload API. Paths are "{resource_type}/{action}".
	Upload *RawResource

	// Admin API.
	Ping              *RawResource
	Usage             *RawResource
	Resources         *RawResource
	DerivedResources  *RawResource
	Tags              *RawResource
	Transformations   *RawResource
	Folders           *RawResource
	UploadPresets     *RawResource
	StreamingProfiles *RawResource
	MetadataFields    *RawResource
}

// Validators applied to every config before a session is created.
func defaultValidators() []core.ConfigFunc {
	return []core.ConfigFunc{
		core.WithCloudName,
		core.WithCredentials,
		core.WithApiBaseAddress(core.DefaultApiBaseAddress),
		core.WithUserAgent,
		core.WithFillFn,
		core.WithSignatureAlgorithm,
		core.WithApiVersion(core.DefaultApiVersion),
		core.WithTimeout(time.Second * 60),
		core.WithMaxConnections(10),
	}
}

// NewUntypedRest validates config and creates the raw client.
func NewUntypedRest(config *core.Config) (*UntypedRest, error) {
	if err := config.Validate(defaultValidators()...); err != nil {
		return nil, err
	}
	session, err := core.NewSession(config)
	if err != nil {
		return nil, err
	}
	return newUntypedRest(config, session), nil
}

// NewUntypedRestWithSession builds the raw client over an existing session,
// for tests and custom transports.
func NewUntypedRestWithSession(config *core.Config, session core.RESTSession) *UntypedRest {
	return newUntypedRest(config, session)
}

func newUntypedRest(config *core.Config, session core.RESTSession) *UntypedRest {
	rest := &UntypedRest{
		Session:     session,
		resourceMap: make(map[string]*RawResource),
	}

	// Set context: use provided context or default to background context
	if config.Context != nil {
		rest.ctx = config.Context
	} else {
		rest.ctx = context.Background()
	}

	rest.Upload = newRawResource(rest, core.UploadAPI, "upload")
	rest.Ping = newRawResource(rest, core.AdminAPI, "ping")
	rest.Usage = newRawResource(rest, core.AdminAPI, "usage")
	rest.Resources = newRawResource(rest, core.AdminAPI, "resources")
	rest.DerivedResources = newRawResource(rest, core.AdminAPI, "derived_resources")
	rest.Tags = newRawResource(rest, core.AdminAPI, "tags")
	rest.Transformations = newRawResource(rest, core.AdminAPI, "transformations")
	rest.Folders = newRawResource(rest, core.AdminAPI, "folders")
	rest.UploadPresets = newRawResource(rest, core.AdminAPI, "upload_presets")
	rest.StreamingProfiles = newRawResource(rest, core.AdminAPI, "streaming_profiles")
	rest.MetadataFields = newRawResource(rest, core.AdminAPI, "metadata_fields")
	return rest
}

func (rest *UntypedRest) GetSession() core.RESTSession {
	return rest.Session
}

// GetResourceMap returns the raw resources by name.
func (rest *UntypedRest) GetResourceMap() map[string]*RawResource {
	return rest.resourceMap
}

func (rest *UntypedRest) GetCtx() context.Context {
	return rest.ctx
}

// SetCtx replaces the default context of the client and of every resource.
func (rest *UntypedRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
	for _, res := range rest.resourceMap {
		res.SetCtx(ctx)
	}
}

// Resource returns a registered resource by name.
func (rest *UntypedRest) Resource(name string) (*RawResource, error) {
	res, ok := rest.resourceMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", name)
	}
	return res, nil
}

func newRawResource(rest *UntypedRest, api core.API, name string) *RawResource {
	res := &RawResource{Resource: core.NewResource(rest.ctx, rest.Session, api, name)}
	rest.resourceMap[name] = res
	return res
}

// -----------------------------------------------------
// RAW OPERATIONS
// -----------------------------------------------------

// path prefixes the resource name for admin endpoints. Upload endpoints are
// addressed by "{resource_type}/{action}" alone.
func (r *RawResource) path(segments ...string) []string {
	if r.API() == core.UploadAPI {
		return segments
	}
	return append([]string{r.Name()}, segments...)
}

// Request sends params to the endpoint under this resource and returns the
// decoded body. A JSON error object in the body is returned both in the record
// and as a *core.ServerError.
func (r *RawResource) Request(ctx context.Context, method string, params core.Params, segments ...string) (core.Record, error) {
	if ctx == nil {
		ctx = r.Ctx()
	}
	response, err := r.Session().Do(ctx, r.Endpoint(method, r.path(segments...)...), params)
	if err != nil {
		return nil, err
	}
	return response.Record, recordError(response)
}

func recordError(response *core.Response) error {
	var message string
	switch e := response.Record["error"].(type) {
	case map[string]any:
		message = fmt.Sprint(e["message"])
	case string:
		message = e
	default:
		return nil
	}
	return &core.ServerError{StatusCode: response.StatusCode, Message: message}
}

func (r *RawResource) Get(params core.Params, segments ...string) (core.Record, error) {
	return r.Request(r.Ctx(), http.MethodGet, params, segments...)
}

func (r *RawResource) GetWithContext(ctx context.Context, params core.Params, segments ...string) (core.Record, error) {
	return r.Request(ctx, http.MethodGet, params, segments...)
}

func (r *RawResource) Post(params core.Params, segments ...string) (core.Record, error) {
	return r.Request(r.Ctx(), http.MethodPost, params, segments...)
}

func (r *RawResource) PostWithContext(ctx context.Context, params core.Params, segments ...string) (core.Record, error) {
	return r.Request(ctx, http.MethodPost, params, segments...)
}

func (r *RawResource) Put(params core.Params, segments ...string) (core.Record, error) {
	return r.Request(r.Ctx(), http.MethodPut, params, segments...)
}

func (r *RawResource) PutWithContext(ctx context.Context, params core.Params, segments ...string) (core.Record, error) {
	return r.Request(ctx, http.MethodPut, params, segments...)
}

func (r *RawResource) Delete(params core.Params, segments ...string) (core.Record, error) {
	return r.Request(r.Ctx(), http.MethodDelete, params, segments...)
}

func (r *RawResource) DeleteWithContext(ctx context.Context, params core.Params, segments ...string) (core.Record, error) {
	return r.Request(ctx, http.MethodDelete, params, segments...)
}

// Iterator pages through a listing under this resource. listKey names the
// array in the response ("resources", "tags", "folders", ...).
func (r *RawResource) Iterator(ctx context.Context, params core.Params, listKey string, pageSize int, segments ...string) core.Iterator {
	return r.GetIteratorWithContext(ctx, core.JoinPath(r.path(segments...)...), params, listKey, pageSize)
}

// -----------------------------------------------------
// GROUP WIRING
// -----------------------------------------------------

var coreResourceType = reflect.TypeOf((*core.Resource)(nil))

// newGroup creates a T and points its embedded *core.Resource at a resource
// bound to the client's session. Every typed group embeds *core.Resource.
func newGroup[T any](rest *UntypedRest, api core.API, name string) *T {
	instance := new(T)
	val := reflect.ValueOf(instance).Elem()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Type() == coreResourceType && field.CanSet() {
			field.Set(reflect.ValueOf(core.NewResource(rest.ctx, rest.Session, api, name)))
			return instance
		}
	}
	panic(fmt.Sprintf("%T does not embed *core.Resource", instance))
}
