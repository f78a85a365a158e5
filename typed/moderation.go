package typed

import (
	"bytes"
	"encoding/json"
	"time"
)

// ModerationStatus is the review state of an asset.
type ModerationStatus string

const (
	ModerationPending    ModerationStatus = "pending"
	ModerationApproved   ModerationStatus = "approved"
	ModerationRejected   ModerationStatus = "rejected"
	ModerationOverridden ModerationStatus = "overridden"
)

// Moderation is one entry of the "moderation" list of a resource.
type Moderation struct {
	Kind      string             `json:"kind"`
	Status    ModerationStatus   `json:"status"`
	Response  ModerationResponse `json:"response"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ModerationLabel is a label reported by an automatic moderation add-on.
type ModerationLabel struct {
	Confidence float64 `json:"confidence"`
	Name       string  `json:"name"`
	ParentName string  `json:"parent_name"`
}

// ModerationDetails is the object form of a moderation response.
type ModerationDetails struct {
	ModerationLabels       []ModerationLabel `json:"moderation_labels"`
	ModerationModelVersion string            `json:"moderation_model_version"`
}

// ModerationResponse is either absent or a ModerationDetails object. It is
// decoded only when the wire token is a JSON object; null, strings, numbers
// and arrays all leave it absent.
type ModerationResponse struct {
	details *ModerationDetails
}

// NewModerationResponse wraps details; nil gives an absent response.
func NewModerationResponse(details *ModerationDetails) ModerationResponse {
	return ModerationResponse{details: details}
}

// Present reports whether an object was received.
func (m ModerationResponse) Present() bool {
	return m.details != nil
}

// Details returns the decoded object, if any.
func (m ModerationResponse) Details() (*ModerationDetails, bool) {
	return m.details, m.details != nil
}

func (m *ModerationResponse) UnmarshalJSON(data []byte) error {
	m.details = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var details ModerationDetails
	if err := json.Unmarshal(trimmed, &details); err != nil {
		// A malformed object is treated like any other unexpected token.
		return nil
	}
	m.details = &details
	return nil
}

func (m ModerationResponse) MarshalJSON() ([]byte, error) {
	if m.details == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m.details)
}
