package core

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

//  ######################################################
//              API RESOURCE BASE
//  ######################################################

// Resource is embedded by every endpoint group (uploader, resources, tags,
// folders, ...). It binds the group to a session, an API family and a path
// prefix, and provides a keyed lock for callers that must serialize work on
// the same public id.
type Resource struct {
	name    string
	api     API
	session RESTSession
	ctx     context.Context
	mu      *KeyLocker
}

// NewResource creates the shared base of an endpoint group.
func NewResource(ctx context.Context, session RESTSession, api API, name string) *Resource {
	return &Resource{
		name:    name,
		api:     api,
		session: session,
		ctx:     ctx,
		mu:      NewKeyLocker(),
	}
}

// Session returns the session the resource sends requests through.
func (e *Resource) Session() RESTSession {
	return e.session
}

// Name returns the group name, used in log messages and String().
func (e *Resource) Name() string {
	return e.name
}

// API returns the API family of the group.
func (e *Resource) API() API {
	return e.api
}

// Ctx returns the bound context used by methods without a ctx argument.
func (e *Resource) Ctx() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// SetCtx replaces the bound context.
func (e *Resource) SetCtx(ctx context.Context) {
	e.ctx = ctx
}

// Endpoint builds an endpoint of this group's API family. Path segments are
// escaped individually; a public id keeps its folder slashes.
func (e *Resource) Endpoint(method string, segments ...string) Endpoint {
	return Endpoint{API: e.api, Method: method, Path: JoinPath(segments...)}
}

// GetIteratorWithContext returns a cursor iterator over a listing endpoint.
//
// Example usage:
//
//	iter := resource.GetIteratorWithContext(ctx, "resources/image", Params{"prefix": "cats/"}, "resources", 100)
//	for iter.HasNext() {
//	    records, err := iter.Next()
//	    if err != nil {
//	        break
//	    }
//	    // Process records
//	}
func (e *Resource) GetIteratorWithContext(ctx context.Context, path string, params Params, listKey string, pageSize int) Iterator {
	endpoint := Endpoint{API: e.api, Method: http.MethodGet, Path: path}
	return NewCursorIterator(ctx, e.session, endpoint, params, listKey, pageSize)
}

// Lock acquires the keyed mutex and returns a function to release it:
//
//	defer resource.Lock(publicID)()
func (e *Resource) Lock(keys ...any) func() {
	return e.mu.Lock(keys...)
}

func (e *Resource) String() string {
	return fmt.Sprintf("%s(%s api)", e.name, e.api)
}

// JoinPath joins endpoint path segments, escaping each one while keeping the
// '/' separators that live inside a segment (folders in public ids).
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		sub := strings.Split(seg, "/")
		for i, s := range sub {
			sub[i] = url.PathEscape(s)
		}
		parts = append(parts, strings.Join(sub, "/"))
	}
	return strings.Join(parts, "/")
}
