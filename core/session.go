package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Endpoint describes where and how one operation is sent.
type Endpoint struct {
	API    API
	Method string
	// Path is relative to "/{version}/{cloud_name}/", e.g. "image/upload" or "resources/image/upload".
	Path string
}

// Response is the decoded outcome of one HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Record     Record
}

// ApiError represents a transport-level failure: the server was unreachable or
// answered with something that is not a JSON document. JSON error bodies are
// not ApiErrors; they populate BaseResult.Error instead.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d"+
			" - response body: %s", e.Method, e.URL, e.StatusCode, e.Body,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

type Session struct {
	config *Config
	client *http.Client
	auth   map[API]Authenticator
}

// NewSession creates a session. The config is expected to be validated already.
func NewSession(config *Config) (*Session, error) {
	if config.Timeout == nil {
		return nil, errors.New("config is not validated: timeout is not set")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = config.MaxConnections
	client := &http.Client{Transport: transport, Timeout: *config.Timeout}
	return NewSessionWithClient(config, client), nil
}

// NewSessionWithClient creates a session around a caller supplied HTTP client.
func NewSessionWithClient(config *Config, client *http.Client) *Session {
	return &Session{
		config: config,
		client: client,
		auth:   createAuthenticators(config),
	}
}

func (s *Session) GetConfig() *Config {
	return s.config
}

// Call validates p, builds its dictionary, sends it and decodes the response
// into a new T. Validation failures return a *ValidationError before any I/O.
func Call[T any, PT interface {
	*T
	Result
}](ctx context.Context, s RESTSession, endpoint Endpoint, p RequestParams) (*T, error) {
	params := Params{}
	if p != nil {
		if rv := reflect.ValueOf(p); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil, &ValidationError{Reason: "parameters must not be nil"}
		}
		if err := p.Check(); err != nil {
			return nil, err
		}
		params = p.ToParams()
		if u, ok := p.(UnsignedRequest); ok && u.IsUnsigned() {
			ctx = withUnsigned(ctx)
		}
	}
	return CallWithParams[T, PT](ctx, s, endpoint, params)
}

// CallWithParams sends an already built dictionary and decodes the response into a new T.
func CallWithParams[T any, PT interface {
	*T
	Result
}](ctx context.Context, s RESTSession, endpoint Endpoint, params Params) (*T, error) {
	response, err := s.Do(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var fill FillFunc
	if config := s.GetConfig(); config != nil {
		fill = config.FillFn
	}
	result := PT(new(T))
	if err := fillResult(fill, result, response.StatusCode, response.Header, response.Record); err != nil {
		return nil, fmt.Errorf("decode %s %s response: %w", endpoint.Method, endpoint.Path, err)
	}
	return (*T)(result), nil
}

type unsignedKey struct{}

func withUnsigned(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, unsignedKey{}, true)
}

func isUnsigned(ctx context.Context) bool {
	v, _ := ctx.Value(unsignedKey{}).(bool)
	return v
}

// BuildURL returns the absolute URL of an endpoint path.
func BuildURL(config *Config, path string) string {
	return strings.Join([]string{
		config.ApiBaseAddress,
		config.ApiVersionSegment(),
		config.CloudName,
		strings.Trim(path, "/"),
	}, "/")
}

// Do sends one request. Upload API requests are signed and form encoded
// (multipart when a file payload is present); admin API requests use basic
// auth with the query string for GET/DELETE and a JSON body otherwise.
func (s *Session) Do(ctx context.Context, endpoint Endpoint, params Params) (*Response, error) {
	if ctx == nil {
		ctx = s.config.Context
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if params == nil {
		params = Params{}
	}
	verb := strings.ToUpper(endpoint.Method)
	if verb == "" {
		verb = http.MethodPost
	}
	authenticator := s.auth[endpoint.API]
	if !isUnsigned(ctx) {
		params = authenticator.prepareParams(params)
	}

	url := BuildURL(s.config, endpoint.Path)
	headers := consolidateHeaders(s, nil)
	body, err := encodeBody(endpoint.API, verb, params, headers)
	if err != nil {
		return nil, err
	}
	if body == nil && len(params) > 0 {
		url += "?" + params.ToQuery()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, url, reader)
	if err != nil {
		return nil, err
	}
	setupHeaders(req, headers)
	authenticator.setAuthHeader(&req.Header)

	var beforeRequestData io.Reader
	if body != nil {
		beforeRequestData = bytes.NewReader(body)
	}
	if err = s.doBeforeRequest(ctx, req, verb, url, beforeRequestData, params); err != nil {
		return nil, err
	}

	response, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %w", verb, url, err)
	}
	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response from %s: %w", verb, url, err)
	}
	record, ok := decodeRecord(response, raw)
	if !ok {
		return nil, &ApiError{
			Method:     verb,
			URL:        url,
			StatusCode: response.StatusCode,
			Body:       string(raw),
		}
	}
	if record, err = s.doAfterRequest(ctx, response.StatusCode, record); err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Record:     record,
	}, nil
}

// encodeBody picks the body encoding and sets the matching Content-Type. A nil
// body means the parameters travel in the query string.
func encodeBody(api API, verb string, params Params, headers http.Header) ([]byte, error) {
	if api == UploadAPI {
		if params.HasFile() {
			multipartData, err := params.ToMultipartFormData()
			if err != nil {
				return nil, fmt.Errorf("failed to create multipart form data: %w", err)
			}
			headers.Set(HeaderContentType, multipartData.ContentType)
			return io.ReadAll(multipartData.Body)
		}
		headers.Set(HeaderContentType, ContentTypeFormURLEncoded)
		return []byte(params.ToQuery()), nil
	}
	if verb == http.MethodGet || verb == http.MethodDelete {
		return nil, nil
	}
	reader, err := params.ToBody()
	if err != nil {
		return nil, err
	}
	headers.Set(HeaderContentType, ContentTypeJSON)
	return io.ReadAll(reader)
}

func consolidateHeaders(s RESTSession, customHeaders []http.Header) http.Header {
	finalHeaders := make(http.Header)

	// Apply custom headers first
	for _, header := range customHeaders {
		for key, values := range header {
			for _, value := range values {
				finalHeaders.Add(key, value)
			}
		}
	}

	// Set default headers only if not already provided
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderUserAgent) == "" {
		finalHeaders.Set(HeaderUserAgent, s.GetConfig().UserAgent)
	}
	if finalHeaders.Get(HeaderRequestID) == "" {
		finalHeaders.Set(HeaderRequestID, uuid.NewString())
	}
	return finalHeaders
}

func setupHeaders(r *http.Request, headers http.Header) {
	for key, values := range headers {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}
}
