package typed

import (
	"context"
	"net/http"
	"strings"

	"github.com/mediacloud/go-mediacloud/core"
)

// FoldersParams lists folders. An empty Path lists the root folders.
type FoldersParams struct {
	Path       string `param:"-"`
	MaxResults int
	NextCursor string
}

func (p *FoldersParams) Check() error { return nil }

func (p *FoldersParams) ToParams() core.Params { return core.ParamsFromStruct(p) }

// FolderPathParams names one folder.
type FolderPathParams struct {
	Path string `param:"-"`
}

func (p *FolderPathParams) Check() error {
	if strings.Trim(p.Path, "/") == "" {
		return core.Required("path")
	}
	return nil
}

func (p *FolderPathParams) ToParams() core.Params { return core.Params{} }

// Folder is one folder entry.
type Folder struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ExternalID string `json:"external_id"`
}

// FoldersResult is one page of folders.
type FoldersResult struct {
	core.BaseResult
	Folders    []Folder `json:"folders"`
	NextCursor string   `json:"next_cursor"`
	TotalCount int      `json:"total_count"`
}

// CreateFolderResult acknowledges a new folder.
type CreateFolderResult struct {
	core.BaseResult
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Name    string `json:"name"`
}

// DeleteFolderResult lists the folders removed.
type DeleteFolderResult struct {
	core.BaseResult
	Deleted []string `json:"deleted"`
}

// Folders groups folder operations.
type Folders struct {
	*core.Resource
}

// NewFolders creates the folders group.
func NewFolders(ctx context.Context, session core.RESTSession) *Folders {
	return &Folders{Resource: core.NewResource(ctx, session, core.AdminAPI, "folders")}
}

// List returns root folders, or the subfolders of p.Path.
func (f *Folders) List(p *FoldersParams) (*FoldersResult, error) {
	return f.ListWithContext(f.Ctx(), p)
}

// ListWithContext lists folders using provided context.
func (f *Folders) ListWithContext(ctx context.Context, p *FoldersParams) (*FoldersResult, error) {
	if p == nil {
		p = &FoldersParams{}
	}
	return core.Call[FoldersResult](ctx, f.Session(), endpoint(http.MethodGet, "folders", p.Path), p)
}

// Create makes an empty folder; parents are created as needed.
func (f *Folders) Create(p *FolderPathParams) (*CreateFolderResult, error) {
	return f.CreateWithContext(f.Ctx(), p)
}

// CreateWithContext creates a folder using provided context.
func (f *Folders) CreateWithContext(ctx context.Context, p *FolderPathParams) (*CreateFolderResult, error) {
	if p == nil {
		return nil, core.Required("path")
	}
	return core.Call[CreateFolderResult](ctx, f.Session(), endpoint(http.MethodPost, "folders", p.Path), p)
}

// Delete removes an empty folder.
func (f *Folders) Delete(p *FolderPathParams) (*DeleteFolderResult, error) {
	return f.DeleteWithContext(f.Ctx(), p)
}

// DeleteWithContext removes a folder using provided context.
func (f *Folders) DeleteWithContext(ctx context.Context, p *FolderPathParams) (*DeleteFolderResult, error) {
	if p == nil {
		return nil, core.Required("path")
	}
	return core.Call[DeleteFolderResult](ctx, f.Session(), endpoint(http.MethodDelete, "folders", p.Path), p)
}
