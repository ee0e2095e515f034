package api

import "time"

// List is the wire envelope every collection endpoint returns. NextCursor is
// opaque: absence means the chain is exhausted. TotalCount is a hint the
// server may omit or report stale.
type List[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
	TotalCount *int   `json:"totalCount,omitempty"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Tags      []Tag     `json:"tags,omitempty"`
	NodeCount int       `json:"nodeCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w Workflow) EntityID() string { return w.ID }

// Execution statuses as reported by the platform.
const (
	ExecutionStatusSuccess  = "success"
	ExecutionStatusError    = "error"
	ExecutionStatusRunning  = "running"
	ExecutionStatusWaiting  = "waiting"
	ExecutionStatusCanceled = "canceled"
)

type Execution struct {
	ID           string     `json:"id"`
	WorkflowID   string     `json:"workflowId"`
	WorkflowName string     `json:"workflowName,omitempty"`
	Status       string     `json:"status"`
	Mode         string     `json:"mode,omitempty"`
	// RetryOf points at the execution this one was retried from. It is a
	// back-reference only; the original may be deleted independently.
	RetryOf   string     `json:"retryOf,omitempty"`
	StartedAt time.Time  `json:"startedAt"`
	StoppedAt *time.Time `json:"stoppedAt,omitempty"`
}

func (e Execution) EntityID() string { return e.ID }

type Credential struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Credential) EntityID() string { return c.ID }

func (t Tag) EntityID() string { return t.ID }
