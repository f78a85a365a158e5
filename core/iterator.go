package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ######################################################
//              ITERATOR INTERFACES
// ######################################################

// Iterator walks a cursor-paginated admin API listing.
type Iterator interface {
	// Next fetches the next page. It returns an empty RecordSet once the
	// listing is exhausted.
	Next() (RecordSet, error)

	// HasNext returns true until the server stops returning a next_cursor.
	HasNext() bool

	// PageSize returns the max_results value sent with each page (0 means server default).
	PageSize() int

	// Cursor returns the cursor that will be sent with the next page request.
	Cursor() string

	// Reset rewinds the iterator and returns the first page.
	Reset() (RecordSet, error)

	// All fetches every remaining page and returns the records as one RecordSet.
	All() (RecordSet, error)
}

// ######################################################
//              CURSOR ITERATOR IMPLEMENTATION
// ######################################################

// CursorIterator pages through listings that return {"<listKey>": [...], "next_cursor": "..."}.
type CursorIterator struct {
	session      RESTSession
	ctx          context.Context
	endpoint     Endpoint
	initialQuery Params
	listKey      string
	pageSize     int

	current     RecordSet
	nextCursor  string
	currentPage int
	done        bool
}

// NewCursorIterator creates an iterator over the listing served by endpoint.
// listKey names the array in the response envelope ("resources", "tags", ...).
func NewCursorIterator(ctx context.Context, session RESTSession, endpoint Endpoint, params Params, listKey string, pageSize int) *CursorIterator {
	if params == nil {
		params = make(Params)
	}
	params = params.Clone()
	params.Without("next_cursor")
	if pageSize > 0 {
		params["max_results"] = strconv.Itoa(pageSize)
	}
	return &CursorIterator{
		session:      session,
		ctx:          ctx,
		endpoint:     endpoint,
		initialQuery: params,
		listKey:      listKey,
		pageSize:     pageSize,
	}
}

func (it *CursorIterator) fetchPage() error {
	params := it.initialQuery.Clone()
	if it.nextCursor != "" {
		params["next_cursor"] = it.nextCursor
	}
	response, err := it.session.Do(it.ctx, it.endpoint, params)
	if err != nil {
		return err
	}
	if errObj, ok := response.Record["error"].(map[string]any); ok {
		return &ServerError{StatusCode: response.StatusCode, Message: fmt.Sprint(errObj["message"])}
	}
	page, err := extractList(response.Record, it.listKey)
	if err != nil {
		return err
	}
	it.current = page
	it.currentPage++
	it.nextCursor, _ = response.Record["next_cursor"].(string)
	it.done = it.nextCursor == ""
	return nil
}

// extractList converts the array under key into a RecordSet. Scalar items
// (tag names, folder paths) are wrapped as Record{"@raw": item}.
func extractList(envelope Record, key string) (RecordSet, error) {
	raw, ok := envelope[key]
	if !ok || raw == nil {
		return RecordSet{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected type for %s field: %T", key, raw)
	}
	out := make(RecordSet, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		} else {
			out = append(out, Record{customRawKey: item})
		}
	}
	return out, nil
}

// Next fetches the next page.
func (it *CursorIterator) Next() (RecordSet, error) {
	if it.done {
		return RecordSet{}, nil
	}
	if err := it.fetchPage(); err != nil {
		return nil, err
	}
	return it.current, nil
}

// HasNext returns true if there is a next page available.
func (it *CursorIterator) HasNext() bool {
	return !it.done
}

// PageSize returns the current page size.
func (it *CursorIterator) PageSize() int {
	return it.pageSize
}

// Cursor returns the pending cursor.
func (it *CursorIterator) Cursor() string {
	return it.nextCursor
}

// Reset resets the iterator to the first page and returns the first page records.
func (it *CursorIterator) Reset() (RecordSet, error) {
	it.nextCursor = ""
	it.currentPage = 0
	it.done = false
	it.current = nil
	return it.Next()
}

// All fetches all remaining pages and returns all records as a single RecordSet.
// This should be used with caution for large listings.
func (it *CursorIterator) All() (RecordSet, error) {
	var all RecordSet
	for it.HasNext() {
		page, err := it.Next()
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
	}
	if all == nil {
		all = RecordSet{}
	}
	return all, nil
}

// String returns a short description of the iterator position.
func (it *CursorIterator) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CursorIterator{path=%s, page=%d", it.endpoint.Path, it.currentPage)
	if it.pageSize > 0 {
		fmt.Fprintf(&sb, ", max_results=%d", it.pageSize)
	}
	if it.nextCursor != "" {
		fmt.Fprintf(&sb, ", next_cursor=%s", it.nextCursor)
	}
	sb.WriteString("}")
	return sb.String()
}
