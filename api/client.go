// Package api is the HTTP client for the remote rescue backend. It owns the
// wire contract: bearer auth, one client-wide timeout, strict response
// decoding, and the error envelope. All approval and transition enforcement
// happens server-side; this client only carries payloads the workflow
// package has already validated.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

const defaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the rescue backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient constructs a Client. A zero timeout falls back to the
// client-wide default; there are no per-call overrides.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// ListRequests fetches one page of the request collection.
func (c *Client) ListRequests(ctx context.Context, q Query) (Page, error) {
	var page Page
	path := "/rescue-requests"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return Page{}, err
	}
	if page.Page < 1 || page.Limit < 1 || page.Total < 0 {
		return Page{}, &Error{
			Status:  http.StatusOK,
			Code:    "BAD_RESPONSE",
			Message: "list response does not match the expected schema",
		}
	}
	if page.Items == nil {
		page.Items = []rescue.RequestRecord{}
	}
	return page, nil
}

// GetRequest fetches a single request by identifier.
func (c *Client) GetRequest(ctx context.Context, id string) (rescue.RequestRecord, error) {
	var rec rescue.RequestRecord
	if err := c.do(ctx, http.MethodGet, "/rescue-requests/"+url.PathEscape(id), nil, &rec); err != nil {
		return rescue.RequestRecord{}, err
	}
	return rec, nil
}

// Review issues the review mutation and returns the updated record.
func (c *Client) Review(ctx context.Context, id string, p workflow.ReviewPayload) (rescue.RequestRecord, error) {
	var rec rescue.RequestRecord
	path := "/rescue-requests/" + url.PathEscape(id) + "/review"
	if err := c.do(ctx, http.MethodPatch, path, p, &rec); err != nil {
		return rescue.RequestRecord{}, err
	}
	return rec, nil
}

// Cancel issues the dedicated cancel mutation. This is a different contract
// from review even though both can end in a terminal status.
func (c *Client) Cancel(ctx context.Context, id string, p workflow.CancelPayload) (rescue.RequestRecord, error) {
	var rec rescue.RequestRecord
	path := "/rescue-requests/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, p, &rec); err != nil {
		return rescue.RequestRecord{}, err
	}
	return rec, nil
}

// Assign attaches teams to a request.
func (c *Client) Assign(ctx context.Context, id string, p workflow.AssignPayload) (rescue.RequestRecord, error) {
	var rec rescue.RequestRecord
	path := "/rescue-requests/" + url.PathEscape(id) + "/assign"
	if err := c.do(ctx, http.MethodPost, path, p, &rec); err != nil {
		return rescue.RequestRecord{}, err
	}
	return rec, nil
}

// ActiveTeams fetches the active entries of the team directory.
func (c *Client) ActiveTeams(ctx context.Context, limit int) ([]rescue.Team, error) {
	v := url.Values{}
	v.Set("isActive", "true")
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var list teamList
	if err := c.do(ctx, http.MethodGet, "/teams?"+v.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", ulid.Make().String())
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Status:  resp.StatusCode,
			Code:    "BAD_RESPONSE",
			Message: fmt.Sprintf("decode %s %s: %v", method, path, err),
		}
	}
	return nil
}

// decodeError maps a non-2xx response to an Error, preferring the backend's
// envelope message over the generic fallback.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Code:    "REQUEST_FAILED",
		Message: fmt.Sprintf("backend returned %s", resp.Status),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var envelope errorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
	}
	if apiErr.Code == "" {
		apiErr.Code = "REQUEST_FAILED"
	}
	return apiErr
}
