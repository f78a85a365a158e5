package core

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// ErrorBody is the error object the service returns alongside (possibly
// partial) result data.
type ErrorBody struct {
	Message string `json:"message"`
}

// RateLimit mirrors the X-FeatureRateLimit-* headers of admin API responses.
type RateLimit struct {
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// BaseResult is embedded in every typed result.
//
// A server-side failure is not a Go error: it is reported through Error and
// StatusCode, and the rest of the result keeps whatever data (often none) the
// server sent.
type BaseResult struct {
	StatusCode int        `json:"-"`
	Error      *ErrorBody `json:"error,omitempty"`
	RateLimit  RateLimit  `json:"-"`
	Raw        Record     `json:"-"`
}

// Failed reports whether the server returned an error object.
func (r *BaseResult) Failed() bool {
	return r.Error != nil && r.Error.Message != ""
}

// Err converts a server error into a *ServerError, or returns nil.
func (r *BaseResult) Err() error {
	if !r.Failed() {
		return nil
	}
	return &ServerError{StatusCode: r.StatusCode, Message: r.Error.Message}
}

// PrettyTable renders the raw response.
func (r *BaseResult) PrettyTable() string {
	return r.Raw.PrettyTable()
}

// PrettyJson renders the raw response as JSON.
func (r *BaseResult) PrettyJson(indent ...string) string {
	return r.Raw.PrettyJson(indent...)
}

func (r *BaseResult) base() *BaseResult { return r }

// Result is satisfied by any struct embedding BaseResult.
type Result interface {
	base() *BaseResult
}

// FillResult decodes record into result and records the response metadata.
func FillResult(result Result, statusCode int, header http.Header, record Record) error {
	return fillResult(DefaultFill, result, statusCode, header, record)
}

func fillResult(fill FillFunc, result Result, statusCode int, header http.Header, record Record) error {
	if record == nil {
		record = Record{}
	}
	if err := record.FillWith(fill, result); err != nil {
		return err
	}
	base := result.base()
	base.StatusCode = statusCode
	base.Raw = record
	base.RateLimit = parseRateLimit(header)
	// An error that arrived as a bare string still populates Error.
	if base.Error == nil {
		if msg, ok := record["error"].(string); ok && msg != "" {
			base.Error = &ErrorBody{Message: msg}
		}
	}
	return nil
}

// ParseResult is FillResult for a raw JSON body, used where a response did not
// come through a Session (webhook payloads, fixtures).
func ParseResult(result Result, statusCode int, body []byte) error {
	var record Record
	if len(body) > 0 {
		if err := json.Unmarshal(body, &record); err != nil {
			return err
		}
	}
	return FillResult(result, statusCode, nil, record)
}

func parseRateLimit(header http.Header) RateLimit {
	var rl RateLimit
	if header == nil {
		return rl
	}
	rl.Limit, _ = strconv.ParseInt(header.Get(HeaderRateLimitLimit), 10, 64)
	rl.Remaining, _ = strconv.ParseInt(header.Get(HeaderRateLimitRemaining), 10, 64)
	if reset := header.Get(HeaderRateLimitReset); reset != "" {
		if t, err := http.ParseTime(reset); err == nil {
			rl.Reset = t
		}
	}
	return rl
}
