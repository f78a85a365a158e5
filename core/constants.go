package core

// HTTP-related constants for REST operations

// HTTP Header Names
const (
	HeaderAccept             = "Accept"
	HeaderAuthorization      = "Authorization"
	HeaderContentType        = "Content-Type"
	HeaderUserAgent          = "User-Agent"
	HeaderRequestID          = "X-Request-Id"
	HeaderRateLimitLimit     = "X-FeatureRateLimit-Limit"
	HeaderRateLimitRemaining = "X-FeatureRateLimit-Remaining"
	HeaderRateLimitReset     = "X-FeatureRateLimit-Reset"
)

// HTTP Content Types
const (
	ContentTypeJSON           = "application/json"
	ContentTypeMultipartForm  = "multipart/form-data"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// HTTP Authentication Types
const (
	AuthTypeBasic = "Basic"
)

// Wire names shared by many operations.
const (
	ParamAPIKey       = "api_key"
	ParamCloudName    = "cloud_name"
	ParamFile         = "file"
	ParamResourceType = "resource_type"
	ParamSignature    = "signature"
	ParamTimestamp    = "timestamp"
	ParamUploadPreset = "upload_preset"
	ParamUnsigned     = "unsigned"
)

// ResourceType is the kind of asset an operation addresses.
type ResourceType string

const (
	ResourceTypeImage ResourceType = "image"
	ResourceTypeVideo ResourceType = "video"
	ResourceTypeRaw   ResourceType = "raw"
	ResourceTypeAuto  ResourceType = "auto"
)

// OrDefault returns rt, or image when rt is empty.
func (rt ResourceType) OrDefault() ResourceType {
	if rt == "" {
		return ResourceTypeImage
	}
	return rt
}

// DeliveryType is the storage/delivery type of an asset ("upload", "private", ...).
type DeliveryType string

const (
	DeliveryTypeUpload        DeliveryType = "upload"
	DeliveryTypePrivate       DeliveryType = "private"
	DeliveryTypeAuthenticated DeliveryType = "authenticated"
	DeliveryTypeFetch         DeliveryType = "fetch"
)

// OrDefault returns t, or upload when t is empty.
func (t DeliveryType) OrDefault() DeliveryType {
	if t == "" {
		return DeliveryTypeUpload
	}
	return t
}

// API selects which remote API family an operation belongs to. The two use
// different authentication and body encodings.
type API int

const (
	UploadAPI API = iota
	AdminAPI
)

func (a API) String() string {
	if a == UploadAPI {
		return "upload"
	}
	return "admin"
}
