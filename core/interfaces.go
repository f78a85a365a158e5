package core

import (
	"context"
	"time"
)

// RESTSession sends one operation and returns the decoded response.
type RESTSession interface {
	Do(ctx context.Context, endpoint Endpoint, params Params) (*Response, error)
	GetConfig() *Config
}

// UnsignedRequest is implemented by upload parameters that can be sent without
// a signature (relying on an unsigned upload preset instead).
type UnsignedRequest interface {
	IsUnsigned() bool
}

// Awaitable is implemented by results of operations that finish in the background.
type Awaitable interface {
	WaitWithContext(context.Context, *WaitAPIConditionConfig) (Record, error)
	Wait(time.Duration) (Record, error)
}

var _ Awaitable = (*AsyncResult)(nil)
