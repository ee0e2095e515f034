package tui

import (
	"context"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

// Filter keys the screens write. They mirror the wire parameters but the
// controllers treat them as opaque.
const (
	filterQuery    = "query"
	filterActive   = "active"
	filterTag      = "tag"
	filterStatus   = "status"
	filterWorkflow = "workflowId"
)

func toPage[T controller.Entity](out api.List[T]) controller.Page[T] {
	return controller.Page[T]{
		Items:      out.Data,
		NextCursor: out.NextCursor,
		TotalCount: out.TotalCount,
	}
}

func workflowFetch(client *api.Client) controller.FetchFunc[api.Workflow] {
	return func(ctx context.Context, req controller.Request) (controller.Page[api.Workflow], error) {
		opt := api.WorkflowListOptions{
			Limit:  req.Limit,
			Cursor: req.Cursor,
			Name:   req.Filters[filterQuery],
			Tag:    req.Filters[filterTag],
		}
		if v, ok := req.Filters[filterActive]; ok {
			active := v == "true"
			opt.Active = &active
		}
		out, err := client.ListWorkflows(ctx, opt)
		if err != nil {
			return controller.Page[api.Workflow]{}, err
		}
		return toPage(out), nil
	}
}

func executionFetch(client *api.Client) controller.FetchFunc[api.Execution] {
	return func(ctx context.Context, req controller.Request) (controller.Page[api.Execution], error) {
		out, err := client.ListExecutions(ctx, api.ExecutionListOptions{
			Limit:      req.Limit,
			Cursor:     req.Cursor,
			Status:     req.Filters[filterStatus],
			WorkflowID: req.Filters[filterWorkflow],
		})
		if err != nil {
			return controller.Page[api.Execution]{}, err
		}
		return toPage(out), nil
	}
}

func credentialFetch(client *api.Client) controller.FetchFunc[api.Credential] {
	return func(ctx context.Context, req controller.Request) (controller.Page[api.Credential], error) {
		out, err := client.ListCredentials(ctx, api.CredentialListOptions{Limit: req.Limit, Cursor: req.Cursor})
		if err != nil {
			return controller.Page[api.Credential]{}, err
		}
		return toPage(out), nil
	}
}

func tagFetch(client *api.Client) controller.FetchFunc[api.Tag] {
	return func(ctx context.Context, req controller.Request) (controller.Page[api.Tag], error) {
		out, err := client.ListTags(ctx, api.TagListOptions{Limit: req.Limit, Cursor: req.Cursor})
		if err != nil {
			return controller.Page[api.Tag]{}, err
		}
		return toPage(out), nil
	}
}
