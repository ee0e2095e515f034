// Package mock is an in-memory workflow platform speaking the same wire
// contract as a real instance. It backs `flowdeck demo` and the api/cli
// tests, including the opaque-cursor pagination the list screens exercise.
package mock

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flowdeck/flowdeck-cli/internal/api"
)

const DefaultAPIKey = "demo-key"

type Server struct {
	APIKey string

	mu          sync.Mutex
	workflows   []api.Workflow
	executions  []api.Execution
	credentials []api.Credential
	tags        []api.Tag
	nextExecID  int
}

// NewSeeded returns a server pre-populated with enough data to exercise
// multiple pages at the default page size.
func NewSeeded() *Server {
	s := &Server{APIKey: DefaultAPIKey, nextExecID: 1}
	s.seed()
	return s
}

func (s *Server) seed() {
	now := time.Now().UTC()
	tagOps := api.Tag{ID: "tag-1", Name: "ops"}
	tagSync := api.Tag{ID: "tag-2", Name: "sync"}
	s.tags = []api.Tag{tagOps, tagSync}

	names := []string{
		"Invoice sync", "Lead enrichment", "Slack digest", "Backup rotation",
		"Order webhook", "Daily report", "CRM cleanup", "Alert relay",
		"Sheet importer", "Churn monitor", "Deploy notifier", "Inbox triage",
	}
	for i, name := range names {
		w := api.Workflow{
			ID:        fmt.Sprintf("wf-%02d", i+1),
			Name:      name,
			Active:    i%3 != 0,
			NodeCount: 3 + i%7,
			CreatedAt: now.Add(-time.Duration(30-i) * 24 * time.Hour),
			UpdatedAt: now.Add(-time.Duration(12-i) * time.Hour),
		}
		if i%2 == 0 {
			w.Tags = []api.Tag{tagOps}
		} else {
			w.Tags = []api.Tag{tagSync}
		}
		s.workflows = append(s.workflows, w)
	}

	statuses := []string{
		api.ExecutionStatusSuccess, api.ExecutionStatusError,
		api.ExecutionStatusSuccess, api.ExecutionStatusRunning,
		api.ExecutionStatusWaiting, api.ExecutionStatusCanceled,
	}
	for i := 0; i < 40; i++ {
		w := s.workflows[i%len(s.workflows)]
		started := now.Add(-time.Duration(i+1) * 37 * time.Minute)
		e := api.Execution{
			ID:           fmt.Sprintf("exec-%03d", s.nextExecID),
			WorkflowID:   w.ID,
			WorkflowName: w.Name,
			Status:       statuses[i%len(statuses)],
			Mode:         "trigger",
			StartedAt:    started,
		}
		s.nextExecID++
		if e.Status != api.ExecutionStatusRunning && e.Status != api.ExecutionStatusWaiting {
			stopped := started.Add(time.Duration(5+i%55) * time.Second)
			e.StoppedAt = &stopped
		}
		// Newest first, matching the platform's execution ordering.
		s.executions = append([]api.Execution{e}, s.executions...)
	}

	s.credentials = []api.Credential{
		{ID: "cred-1", Name: "Postgres prod", Type: "postgres", CreatedAt: now.Add(-90 * 24 * time.Hour), UpdatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "cred-2", Name: "Slack bot", Type: "slackApi", CreatedAt: now.Add(-60 * 24 * time.Hour), UpdatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "cred-3", Name: "SMTP relay", Type: "smtp", CreatedAt: now.Add(-30 * 24 * time.Hour), UpdatedAt: now.Add(-30 * 24 * time.Hour)},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/workflows", s.listWorkflows)
	mux.HandleFunc("GET /api/v1/workflows/{id}", s.getWorkflow)
	mux.HandleFunc("POST /api/v1/workflows/{id}/activate", s.setWorkflowActive(true))
	mux.HandleFunc("POST /api/v1/workflows/{id}/deactivate", s.setWorkflowActive(false))
	mux.HandleFunc("DELETE /api/v1/workflows/{id}", s.deleteWorkflow)
	mux.HandleFunc("GET /api/v1/executions", s.listExecutions)
	mux.HandleFunc("GET /api/v1/executions/{id}", s.getExecution)
	mux.HandleFunc("POST /api/v1/executions/{id}/retry", s.retryExecution)
	mux.HandleFunc("DELETE /api/v1/executions/{id}", s.deleteExecution)
	mux.HandleFunc("GET /api/v1/credentials", s.listCredentials)
	mux.HandleFunc("GET /api/v1/tags", s.listTags)
	return s.requireKey(mux)
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.APIKey != "" && r.Header.Get(api.APIKeyHeader) != s.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// Cursors encode a plain offset, base64-wrapped so clients cannot be
// tempted to compute them.
func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("offset:" + strconv.Itoa(offset)))
}

func decodeCursor(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return 0, err
	}
	rest, ok := strings.CutPrefix(string(b), "offset:")
	if !ok {
		return 0, fmt.Errorf("malformed cursor")
	}
	return strconv.Atoi(rest)
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return api.DefaultPageSize
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// page slices filtered into one response window.
func page[T any](w http.ResponseWriter, r *http.Request, filtered []T) {
	offset, err := decodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cursor")
		return
	}
	limit := parseLimit(r)
	total := len(filtered)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := api.List[T]{Data: filtered[offset:end], TotalCount: &total}
	if end < total {
		out.NextCursor = encodeCursor(end)
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	name := strings.ToLower(strings.TrimSpace(q.Get("name")))
	tag := strings.TrimSpace(q.Get("tag"))
	var active *bool
	if raw := q.Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid active filter")
			return
		}
		active = &v
	}

	filtered := make([]api.Workflow, 0, len(s.workflows))
	for _, wf := range s.workflows {
		if name != "" && !strings.Contains(strings.ToLower(wf.Name), name) {
			continue
		}
		if active != nil && wf.Active != *active {
			continue
		}
		if tag != "" && !hasTag(wf, tag) {
			continue
		}
		filtered = append(filtered, wf)
	}
	page(w, r, filtered)
}

func hasTag(wf api.Workflow, tag string) bool {
	for _, t := range wf.Tags {
		if t.Name == tag || t.ID == tag {
			return true
		}
	}
	return false
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf, _ := s.findWorkflow(r.PathValue("id")); wf != nil {
		writeJSON(w, http.StatusOK, wf)
		return
	}
	writeError(w, http.StatusNotFound, "workflow not found")
}

func (s *Server) setWorkflowActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		wf, _ := s.findWorkflow(r.PathValue("id"))
		if wf == nil {
			writeError(w, http.StatusNotFound, "workflow not found")
			return
		}
		wf.Active = active
		wf.UpdatedAt = time.Now().UTC()
		writeJSON(w, http.StatusOK, wf)
	}
}

func (s *Server) deleteWorkflow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, idx := s.findWorkflow(r.PathValue("id"))
	if wf == nil {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}
	s.workflows = append(s.workflows[:idx], s.workflows[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findWorkflow(id string) (*api.Workflow, int) {
	for i := range s.workflows {
		if s.workflows[i].ID == id {
			return &s.workflows[i], i
		}
	}
	return nil, -1
}

func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("status"))
	workflowID := strings.TrimSpace(q.Get("workflowId"))

	filtered := make([]api.Execution, 0, len(s.executions))
	for _, e := range s.executions {
		if status != "" && e.Status != status {
			continue
		}
		if workflowID != "" && e.WorkflowID != workflowID {
			continue
		}
		filtered = append(filtered, e)
	}
	page(w, r, filtered)
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, _ := s.findExecution(r.PathValue("id")); e != nil {
		writeJSON(w, http.StatusOK, e)
		return
	}
	writeError(w, http.StatusNotFound, "execution not found")
}

func (s *Server) retryExecution(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orig, _ := s.findExecution(r.PathValue("id"))
	if orig == nil {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if orig.Status == api.ExecutionStatusRunning || orig.Status == api.ExecutionStatusWaiting {
		writeError(w, http.StatusBadRequest, "execution is still in progress")
		return
	}
	retry := api.Execution{
		ID:           fmt.Sprintf("exec-%03d", s.nextExecID),
		WorkflowID:   orig.WorkflowID,
		WorkflowName: orig.WorkflowName,
		Status:       api.ExecutionStatusRunning,
		Mode:         "retry",
		RetryOf:      orig.ID,
		StartedAt:    time.Now().UTC(),
	}
	s.nextExecID++
	s.executions = append([]api.Execution{retry}, s.executions...)
	writeJSON(w, http.StatusCreated, retry)
}

func (s *Server) deleteExecution(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, idx := s.findExecution(r.PathValue("id"))
	if e == nil {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	s.executions = append(s.executions[:idx], s.executions[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findExecution(id string) (*api.Execution, int) {
	for i := range s.executions {
		if s.executions[i].ID == id {
			return &s.executions[i], i
		}
	}
	return nil, -1
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page(w, r, s.credentials)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page(w, r, s.tags)
}
