package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a list option leaves Limit at zero.
const DefaultPageSize = 25

func listQuery(limit int, cursor string) url.Values {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if strings.TrimSpace(cursor) != "" {
		q.Set("cursor", cursor)
	}
	return q
}

type WorkflowListOptions struct {
	Limit  int
	Cursor string
	Name   string // free-text match on workflow name
	Active *bool
	Tag    string
}

func (c *Client) ListWorkflows(ctx context.Context, opt WorkflowListOptions) (List[Workflow], error) {
	q := listQuery(opt.Limit, opt.Cursor)
	if strings.TrimSpace(opt.Name) != "" {
		q.Set("name", opt.Name)
	}
	if opt.Active != nil {
		q.Set("active", strconv.FormatBool(*opt.Active))
	}
	if strings.TrimSpace(opt.Tag) != "" {
		q.Set("tag", opt.Tag)
	}
	var out List[Workflow]
	err := c.do(ctx, http.MethodGet, "/workflows", q, nil, &out)
	return out, err
}

func (c *Client) GetWorkflow(ctx context.Context, id string) (Workflow, error) {
	var out Workflow
	err := c.do(ctx, http.MethodGet, "/workflows/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// SetWorkflowActive flips the activation state server-side and returns the
// definitive workflow record.
func (c *Client) SetWorkflowActive(ctx context.Context, id string, active bool) (Workflow, error) {
	action := "deactivate"
	if active {
		action = "activate"
	}
	var out Workflow
	err := c.do(ctx, http.MethodPost, "/workflows/"+url.PathEscape(id)+"/"+action, nil, nil, &out)
	return out, err
}

func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workflows/"+url.PathEscape(id), nil, nil, nil)
}

type ExecutionListOptions struct {
	Limit      int
	Cursor     string
	Status     string
	WorkflowID string
}

func (c *Client) ListExecutions(ctx context.Context, opt ExecutionListOptions) (List[Execution], error) {
	q := listQuery(opt.Limit, opt.Cursor)
	if strings.TrimSpace(opt.Status) != "" {
		q.Set("status", opt.Status)
	}
	if strings.TrimSpace(opt.WorkflowID) != "" {
		q.Set("workflowId", opt.WorkflowID)
	}
	var out List[Execution]
	err := c.do(ctx, http.MethodGet, "/executions", q, nil, &out)
	return out, err
}

func (c *Client) GetExecution(ctx context.Context, id string) (Execution, error) {
	var out Execution
	err := c.do(ctx, http.MethodGet, "/executions/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// RetryExecution re-runs a finished execution. The platform creates a new
// execution record (retryOf = id); the returned entity is that new record.
func (c *Client) RetryExecution(ctx context.Context, id string) (Execution, error) {
	var out Execution
	err := c.do(ctx, http.MethodPost, "/executions/"+url.PathEscape(id)+"/retry", nil, nil, &out)
	return out, err
}

func (c *Client) DeleteExecution(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/executions/"+url.PathEscape(id), nil, nil, nil)
}

type CredentialListOptions struct {
	Limit  int
	Cursor string
}

func (c *Client) ListCredentials(ctx context.Context, opt CredentialListOptions) (List[Credential], error) {
	var out List[Credential]
	err := c.do(ctx, http.MethodGet, "/credentials", listQuery(opt.Limit, opt.Cursor), nil, &out)
	return out, err
}

type TagListOptions struct {
	Limit  int
	Cursor string
}

func (c *Client) ListTags(ctx context.Context, opt TagListOptions) (List[Tag], error) {
	var out List[Tag]
	err := c.do(ctx, http.MethodGet, "/tags", listQuery(opt.Limit, opt.Cursor), nil, &out)
	return out, err
}

// CheckAuth verifies the configured key against the instance with the
// cheapest list call available.
func (c *Client) CheckAuth(ctx context.Context) error {
	_, err := c.ListWorkflows(ctx, WorkflowListOptions{Limit: 1})
	return err
}
