package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AsyncResult tracks an upload submitted with async=true (or an explicit
// call with eager_async=true). The service answers immediately with
// status "pending"; Wait polls the admin API until the resource is ready.
//
// Fields:
//   - PublicID, ResourceType, DeliveryType: identify the resource to poll
//   - Session: the session used for polling
//   - Ctx: the context associated with the task operation
//   - Success: true once the resource reached a final, non-failed state
//   - Err: the error that occurred while waiting (nil if successful)
type AsyncResult struct {
	PublicID     string
	ResourceType ResourceType
	DeliveryType DeliveryType
	BatchID      string
	Session      RESTSession
	Ctx          context.Context
	Success      bool
	Err          error
}

// IsFailed returns true if the task failed during execution.
func (ar *AsyncResult) IsFailed() bool {
	return !ar.Success
}

// IsSuccess returns true if the task completed successfully.
func (ar *AsyncResult) IsSuccess() bool {
	return ar.Success
}

// NewAsyncResult creates an AsyncResult for a resource known by public id.
func NewAsyncResult(ctx context.Context, session RESTSession, publicID string, resourceType ResourceType, deliveryType DeliveryType) *AsyncResult {
	return &AsyncResult{
		Ctx:          ctx,
		Session:      session,
		PublicID:     publicID,
		ResourceType: resourceType.OrDefault(),
		DeliveryType: deliveryType.OrDefault(),
	}
}

// MaybeAsyncResultFromRecord returns an AsyncResult when record is a pending
// async response, nil otherwise.
func MaybeAsyncResultFromRecord(ctx context.Context, session RESTSession, record Record) *AsyncResult {
	if record.Empty() {
		return nil
	}
	if !strings.EqualFold(record.GetString("status"), "pending") {
		return nil
	}
	publicID := record.GetString("public_id")
	if publicID == "" {
		return nil
	}
	ar := NewAsyncResult(ctx, session, publicID,
		ResourceType(record.GetString("resource_type")),
		DeliveryType(record.GetString("type")))
	ar.BatchID = record.GetString("batch_id")
	return ar
}

// Wait polls the resource until it exists and is no longer pending.
//
// Resource states handled:
//   - not found (404): the upload is still being processed, keep polling
//   - "pending" or "processing": keep polling
//   - "failed": Success=false, the error carries the server message
//   - anything else: Success=true, the resource record is returned
//
// After calling Wait(), check ar.Success and ar.Err for task execution results.
func (ar *AsyncResult) Wait(timeout time.Duration) (Record, error) {
	ctx := ar.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return ar.WaitWithContext(ctx, &WaitAPIConditionConfig{Timeout: timeout})
}

// WaitWithContext is Wait with an explicit context and polling configuration.
func (ar *AsyncResult) WaitWithContext(ctx context.Context, cfg *WaitAPIConditionConfig) (Record, error) {
	endpoint := Endpoint{
		API:    AdminAPI,
		Method: http.MethodGet,
		Path:   fmt.Sprintf("resources/%s/%s/%s", ar.ResourceType.OrDefault(), ar.DeliveryType.OrDefault(), ar.PublicID),
	}
	record, err := WaitAPICondition(ctx, ar.Session, endpoint, nil, cfg,
		func(status int, record Record) (bool, error) {
			if status == http.StatusNotFound {
				return false, nil
			}
			if errObj, ok := record["error"].(map[string]any); ok {
				return false, fmt.Errorf("resource %s: %v", ar.PublicID, errObj["message"])
			}
			switch strings.ToLower(record.GetString("status")) {
			case "pending", "processing":
				return false, nil
			case "failed":
				return false, fmt.Errorf("resource %s processing failed", ar.PublicID)
			}
			return true, nil
		},
	)

	if err != nil {
		ar.Success = false
		ar.Err = err
	} else {
		ar.Success = true
		ar.Err = nil
	}
	return record, err
}

// WaitAPIConditionConfig defines backoff parameters for polling operations.
//
// Zero values will be replaced with defaults by the normalize() method.
type WaitAPIConditionConfig struct {
	Timeout       time.Duration // Maximum total wait time
	Interval      time.Duration // Current/initial polling interval (mutated by NextInterval)
	MaxInterval   time.Duration // Cap for exponential backoff
	BackoffFactor float64       // Rate of interval increase (0.25 = 25% per iteration)
}

// normalize fills in missing (zero) values: 10m timeout, 500ms interval,
// 30s max interval, 0.25 backoff factor.
func (c *WaitAPIConditionConfig) normalize() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Minute
	}
	if c.Interval == 0 {
		c.Interval = 500 * time.Millisecond
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = 30 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 0.25
	}
}

// NextInterval returns the current interval and grows the stored one by
// BackoffFactor, capped at MaxInterval.
//
// WARNING: This method mutates the config's Interval field. Do not reuse the same
// config instance for multiple concurrent polling operations.
func (c *WaitAPIConditionConfig) NextInterval() time.Duration {
	current := c.Interval
	next := time.Duration(float64(c.Interval) * (1.0 + c.BackoffFactor))
	if next > c.MaxInterval {
		next = c.MaxInterval
	}
	c.Interval = next
	return current
}

// WaitAPICondition calls endpoint until verifyFn reports completion, returns
// an error, or the timeout elapses. verifyFn receives the HTTP status and the
// decoded body of every attempt.
func WaitAPICondition(
	ctx context.Context,
	session RESTSession,
	endpoint Endpoint,
	params Params,
	waitAPIConditionConfig *WaitAPIConditionConfig,
	verifyFn func(int, Record) (bool, error),
) (Record, error) {
	if waitAPIConditionConfig == nil {
		waitAPIConditionConfig = &WaitAPIConditionConfig{}
	}
	waitAPIConditionConfig.normalize()

	timeoutCtx, cancel := context.WithTimeout(ctx, waitAPIConditionConfig.Timeout)
	defer cancel()

	for {
		response, err := session.Do(timeoutCtx, endpoint, params)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("WaitAPICondition cancelled: %w", ctx.Err())
			}
			if timeoutCtx.Err() != nil {
				return nil, fmt.Errorf("WaitAPICondition timeout after %v", waitAPIConditionConfig.Timeout)
			}
			return nil, fmt.Errorf("WaitAPICondition API call failed: %w", err)
		}

		completed, err := verifyFn(response.StatusCode, response.Record)
		if err != nil {
			return nil, fmt.Errorf("WaitAPICondition verification failed: %w", err)
		}
		if completed {
			return response.Record, nil
		}

		timer := time.NewTimer(waitAPIConditionConfig.NextInterval())
		select {
		case <-timeoutCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, fmt.Errorf("WaitAPICondition cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("WaitAPICondition timeout after %v", waitAPIConditionConfig.Timeout)
		case <-timer.C:
		}
	}
}
