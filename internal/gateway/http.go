package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/google/uuid"
)

// HTTPClient implements Client against the hosted work-order backend.
type HTTPClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a gateway client for the configured base URL.
func NewHTTPClient(cfg Config, observer Observer) *HTTPClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *HTTPClient) LoadForEdit(ctx context.Context, workOrderID int64) (*domain.WorkOrder, error) {
	q := url.Values{"workOrderId": {strconv.FormatInt(workOrderID, 10)}}
	env, err := c.call(ctx, "LoadForEdit", workOrderID, http.MethodGet, "/WorkOrder/GetForEdit", nil, q)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RejectionError{Message: env.Message}
	}
	if env.Document == nil {
		return nil, fmt.Errorf("gateway returned no document for work order %d", workOrderID)
	}
	return documentToDomain(env.Document), nil
}

func (c *HTTPClient) SaveAll(ctx context.Context, snap domain.SaveSnapshot) (*SaveResult, error) {
	body := snapshotToWire(snap)
	env, err := c.call(ctx, "SaveAll", snap.WorkOrderID, http.MethodPost, "/WorkOrder/SaveChanges", body, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RejectionError{Message: env.Message}
	}
	return &SaveResult{Message: env.Message, Totals: env.Totals}, nil
}

func (c *HTTPClient) ReorderAreas(ctx context.Context, workOrderID int64, areaIDs []int64) error {
	body := reorderAreasRequest{WorkOrderID: workOrderID, AreaIDs: areaIDs}
	env, err := c.call(ctx, "ReorderAreas", workOrderID, http.MethodPost, "/WorkOrder/ReorderAreas", body, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return &RejectionError{Message: env.Message}
	}
	return nil
}

func (c *HTTPClient) ReorderLineItems(ctx context.Context, workOrderID, areaID int64, lineItemIDs []int64) error {
	body := reorderLineItemsRequest{WorkOrderID: workOrderID, AreaID: areaID, LineItemIDs: lineItemIDs}
	env, err := c.call(ctx, "ReorderLineItems", workOrderID, http.MethodPost, "/WorkOrder/ReorderLineItems", body, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return &RejectionError{Message: env.Message}
	}
	return nil
}

func (c *HTTPClient) UpdateLineItemField(ctx context.Context, workOrderID, lineItemID int64, field domain.Field, value string) (*FieldResult, error) {
	body := updateLineItemRequest{
		WorkOrderID: workOrderID,
		LineItemID:  lineItemID,
		Field:       string(field),
		Value:       value,
	}
	env, err := c.call(ctx, "UpdateLineItemField", workOrderID, http.MethodPost, "/WorkOrder/UpdateLineItem", body, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RejectionError{Message: env.Message}
	}
	res := &FieldResult{AreaID: env.AreaID, Totals: env.Totals}
	if env.Data != nil {
		res.PrepHours = env.Data.PrepHrs
		res.WorkingHours = env.Data.WorkingHrs
		res.TotalHours = env.Data.TotalHrs
		res.Unit = env.Data.Unit
		res.Coats = env.Data.Coats
	}
	return res, nil
}

func (c *HTTPClient) DeleteLineItem(ctx context.Context, workOrderID, lineItemID int64) (*DeleteResult, error) {
	body := deleteLineItemRequest{WorkOrderID: workOrderID, LineItemID: lineItemID}
	env, err := c.call(ctx, "DeleteLineItem", workOrderID, http.MethodPost, "/WorkOrder/DeleteLineItem", body, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RejectionError{Message: env.Message}
	}
	return &DeleteResult{AreaID: env.AreaID, Totals: env.Totals}, nil
}

func (c *HTTPClient) UpdateAreaName(ctx context.Context, workOrderID, areaID int64, name string) error {
	body := updateAreaNameRequest{WorkOrderID: workOrderID, AreaID: areaID, CustomAreaName: name}
	env, err := c.call(ctx, "UpdateAreaName", workOrderID, http.MethodPost, "/WorkOrder/UpdateAreaName", body, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return &RejectionError{Message: env.Message}
	}
	return nil
}

func (c *HTTPClient) GetTotals(ctx context.Context, workOrderID int64, areaID *int64) (*Totals, error) {
	q := url.Values{"workOrderId": {strconv.FormatInt(workOrderID, 10)}}
	if areaID != nil {
		q.Set("areaId", strconv.FormatInt(*areaID, 10))
	}
	env, err := c.call(ctx, "GetTotals", workOrderID, http.MethodGet, "/WorkOrder/GetTotals", nil, q)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RejectionError{Message: env.Message}
	}
	if env.Totals == nil {
		return nil, fmt.Errorf("gateway returned no totals for work order %d", workOrderID)
	}
	return env.Totals, nil
}

// call runs one gateway round trip with timeout, bounded retry on
// transport failures, and observer reporting. Rejections (success=false)
// are not retried; the envelope is returned for the caller to interpret.
func (c *HTTPClient) call(ctx context.Context, op string, workOrderID int64, method, path string, body any, query url.Values) (*wireEnvelope, error) {
	start := time.Now()
	corrID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		env, err := c.doRequest(ctx, method, path, body, query, corrID)
		if err == nil {
			event := CallEvent{
				Operation:     op,
				WorkOrderID:   workOrderID,
				CorrelationID: corrID,
				LatencyMs:     time.Since(start).Milliseconds(),
				Success:       env.Success,
			}
			if !env.Success {
				event.ErrorCode = "REJECTED"
			}
			c.observer.OnCallComplete(event)
			return env, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout.
		if ctx.Err() != nil {
			break
		}
	}

	mapped := mapTransportError(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Operation:     op,
		WorkOrderID:   workOrderID,
		CorrelationID: corrID,
		LatencyMs:     time.Since(start).Milliseconds(),
		Success:       false,
		ErrorCode:     errorCode(mapped),
	})
	return nil, mapped
}

func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body any, query url.Values, corrID string) (*wireEnvelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", corrID)
	httpReq.Header.Set("X-Modified-By", c.actor())
	if c.cfg.Token != "" {
		httpReq.Header.Set("RequestVerificationToken", c.cfg.Token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var env wireEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &env, nil
}

func (c *HTTPClient) actor() string {
	if c.cfg.Actor != "" {
		return c.cfg.Actor
	}
	return DefaultActor
}

func mapTransportError(ctx context.Context, lastErr error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(lastErr) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
