package api

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
	"strings"
	"time"
)

// APIKeyHeader carries the instance API key on every request.
const APIKeyHeader = "X-Api-Key"

const basePath = "/api/v1"

// Client is the transport adapter: a fixed base URL plus API key over a
// plain *http.Client. It is built once from the session at startup and
// passed to everything that talks to the instance.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// EditorURL points at the instance's web editor page for a workflow.
func (c *Client) EditorURL(workflowID string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/workflow/" + url.PathEscape(workflowID)
}

func (c *Client) endpointFor(path string) (string, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", &Error{Kind: KindUnknown, Message: "missing instance url"}
	}
	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/"))
	if err != nil {
		return "", &Error{Kind: KindUnknown, Message: "invalid instance url", Cause: err}
	}
	p := strings.TrimPrefix(strings.TrimSpace(path), "/")
	u.Path = strings.TrimRight(u.Path, "/") + basePath + "/" + p
	return u.String(), nil
}

// do issues one request and normalizes every failure mode into *Error.
// All typed resource calls funnel through here, so the error taxonomy is
// constructed in exactly one place.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := c.endpointFor(path)
	if err != nil {
		return err
	}
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 30 * time.Second}
	}

	if len(query) > 0 {
		u, err := url.Parse(endpoint)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: "invalid endpoint", Cause: err}
		}
		u.RawQuery = query.Encode()
		endpoint = u.String()
	}

	var r io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return &Error{Kind: KindUnknown, Message: "cannot encode request body", Cause: err}
		}
		r = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: "cannot build request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(c.APIKey) != "" {
		req.Header.Set(APIKeyHeader, c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "response read failed", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, b)
	}

	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &Error{
			Kind:       KindUnknown,
			Message:    fmt.Sprintf("invalid json response (status=%d)", resp.StatusCode),
			StatusCode: resp.StatusCode,
			RawBody:    string(b),
			Cause:      err,
		}
	}
	return nil
}

func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &Error{Kind: KindNetwork, Message: "request failed", Cause: err}
}

func responseError(status int, body []byte) *Error {
	msg := serverMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{
		Kind:       statusKind(status),
		Message:    msg,
		StatusCode: status,
		RawBody:    string(body),
	}
}

// serverMessage pulls a human message out of an error body when the
// instance sent JSON; HTML 404 pages etc. come back empty.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if strings.TrimSpace(payload.Message) != "" {
		return strings.TrimSpace(payload.Message)
	}
	return strings.TrimSpace(payload.Error)
}
