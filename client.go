package mediacloud

import (
	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/rest"
)

type (
	Config         = core.Config
	Params         = core.Params
	Record         = core.Record
	RecordSet      = core.RecordSet
	Renderable     = core.Renderable
	Transformation = core.Transformation
	TypedRest      = rest.TypedRest
	UntypedRest    = rest.UntypedRest
	RawResource    = rest.RawResource
)

// NewTypedRest creates a client over the typed parameter and result structs.
func NewTypedRest(config *Config) (*TypedRest, error) {
	return rest.NewTypedRest(config)
}

// NewUntypedRest creates a client that sends dictionaries and returns raw records.
func NewUntypedRest(config *Config) (*UntypedRest, error) {
	return rest.NewUntypedRest(config)
}

// NewClientFromEnv reads MEDIACLOUD_URL and creates a typed client.
func NewClientFromEnv() (*TypedRest, error) {
	config, err := core.FromEnv()
	if err != nil {
		return nil, err
	}
	return rest.NewTypedRest(config)
}

// NewTransformation starts a transformation chain.
func NewTransformation() *Transformation {
	return core.NewTransformation()
}
