package taskclient

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	return s.task(ctx, http.MethodPost, "/api/tasks", req, http.StatusCreated)
}

func (s *Session) GetTask(ctx context.Context, id string) (*TaskResponse, error) {
	return s.task(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, http.StatusOK)
}

func (s *Session) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*TaskResponse, error) {
	return s.task(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), req, http.StatusOK)
}

func (s *Session) CompleteTask(ctx context.Context, id string) (*TaskResponse, error) {
	return s.task(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/complete", nil, http.StatusOK)
}

func (s *Session) ReopenTask(ctx context.Context, id string) (*TaskResponse, error) {
	return s.task(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/pending", nil, http.StatusOK)
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) ListTasks(ctx context.Context) ([]TaskResponse, error) {
	return s.tasks(ctx, "/api/tasks")
}

func (s *Session) ListTasksByStatus(ctx context.Context, status string) ([]TaskResponse, error) {
	return s.tasks(ctx, "/api/tasks/status/"+url.PathEscape(status))
}

func (s *Session) ListOverdueTasks(ctx context.Context) ([]TaskResponse, error) {
	return s.tasks(ctx, "/api/tasks/overdue")
}

func (s *Session) ListHighPriorityTasks(ctx context.Context) ([]TaskResponse, error) {
	return s.tasks(ctx, "/api/tasks/high-priority")
}

func (s *Session) SearchTasks(ctx context.Context, query string) ([]TaskResponse, error) {
	return s.tasks(ctx, "/api/tasks/search?q="+url.QueryEscape(query))
}

func (s *Session) task(ctx context.Context, method, path string, body any, expected int) (*TaskResponse, error) {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var out TaskResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) tasks(ctx context.Context, path string) ([]TaskResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out []TaskResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
