package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

type TaskHandler struct {
	TaskService *service.TaskService

	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *TaskHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HandleCreate creates a task owned by the caller.
//
//	@Summary		Create task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskclient.CreateTaskRequest		true	"Task"
//	@Success		201		{object}	taskclient.TaskResponse
//	@Failure		400		{object}	taskclient.ValidationErrorResponse
//	@Failure		401		{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks [post].
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.TaskService.Create(r.Context(), owner.ID, service.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(w, r, "", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h.toResponse(task))
}

// HandleGet returns one task.
//
//	@Summary		Get task
//	@Tags			Tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		200	{object}	taskclient.TaskResponse
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/{id} [get].
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	task, err := h.TaskService.Get(r.Context(), owner.ID, id)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.toResponse(task))
}

// HandleUpdate applies a partial update.
//
//	@Summary		Update task
//	@Description	Fields left out are unchanged. Setting completed to true moves the task to DONE.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Task ID"
//	@Param			request	body		taskclient.UpdateTaskRequest	true	"Changes"
//	@Success		200		{object}	taskclient.TaskResponse
//	@Failure		400		{object}	taskclient.ValidationErrorResponse
//	@Failure		404		{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/{id} [put].
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		patch.Priority = &p
	}

	id := r.PathValue("id")
	task, err := h.TaskService.Update(r.Context(), owner.ID, id, patch)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.toResponse(task))
}

// HandleDelete deletes a task.
//
//	@Summary		Delete task
//	@Tags			Tasks
//	@Param			id	path	string	true	"Task ID"
//	@Success		204	"Deleted"
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/{id} [delete].
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.TaskService.Delete(r.Context(), owner.ID, id); err != nil {
		h.writeError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleComplete marks a task done.
//
//	@Summary		Complete task
//	@Tags			Tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		200	{object}	taskclient.TaskResponse
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/{id}/complete [patch].
func (h *TaskHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, true)
}

// HandlePending reopens a task.
//
//	@Summary		Reopen task
//	@Tags			Tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		200	{object}	taskclient.TaskResponse
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/{id}/pending [patch].
func (h *TaskHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, false)
}

func (h *TaskHandler) setCompleted(w http.ResponseWriter, r *http.Request, done bool) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	task, err := h.TaskService.SetCompleted(r.Context(), owner.ID, id, done)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.toResponse(task))
}

// HandleList returns the caller's tasks, newest first.
//
//	@Summary		List tasks
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{array}		taskclient.TaskResponse
//	@Failure		401	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks [get].
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.TaskService.List)
}

// HandleListByStatus returns the caller's tasks in one status.
//
//	@Summary		List tasks by status
//	@Tags			Tasks
//	@Produce		json
//	@Param			status	path		string	true	"TODO, IN_PROGRESS, REVIEW or DONE"
//	@Success		200		{array}		taskclient.TaskResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/status/{status} [get].
func (h *TaskHandler) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseTaskStatus(r.PathValue("status"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "Unknown task status: "+r.PathValue("status"))
		return
	}
	h.list(w, r, func(ctx context.Context, owner string) ([]domain.Task, error) {
		return h.TaskService.ListByStatus(ctx, owner, status)
	})
}

// HandleListOverdue returns incomplete tasks past their due date.
//
//	@Summary		List overdue tasks
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{array}	taskclient.TaskResponse
//	@Security		BearerAuth
//	@Router			/api/tasks/overdue [get].
func (h *TaskHandler) HandleListOverdue(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.TaskService.ListOverdue)
}

// HandleListHighPriority returns pending HIGH and URGENT tasks.
//
//	@Summary		List high priority tasks
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{array}	taskclient.TaskResponse
//	@Security		BearerAuth
//	@Router			/api/tasks/high-priority [get].
func (h *TaskHandler) HandleListHighPriority(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.TaskService.ListHighPriority)
}

// HandleSearch matches q against title and description.
//
//	@Summary		Search tasks
//	@Tags			Tasks
//	@Produce		json
//	@Param			q	query		string	true	"Search text"
//	@Success		200	{array}		taskclient.TaskResponse
//	@Failure		400	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/tasks/search [get].
func (h *TaskHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	h.list(w, r, func(ctx context.Context, owner string) ([]domain.Task, error) {
		return h.TaskService.Search(ctx, owner, q)
	})
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]domain.Task, error)) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := fetch(r.Context(), owner.ID)
	if err != nil {
		h.writeError(w, r, "", err)
		return
	}

	out := make([]taskclient.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, h.toResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *TaskHandler) owner(w http.ResponseWriter, r *http.Request) (*domain.Principal, bool) {
	p, ok := currentPrincipal(r)
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, httpx.MsgAuthenticationRequired)
	}
	return p, ok
}

func (h *TaskHandler) writeError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, r, http.StatusNotFound, "Task not found with ID: "+id)
		return
	}
	slogx.FromContext(r.Context()).Error("task request failed", slog.String("task_id", id), slog.Any("err", err))
	httpx.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
}

func (h *TaskHandler) toResponse(t domain.Task) taskclient.TaskResponse {
	return taskclient.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Completed:   t.Completed,
		Overdue:     t.Overdue(h.now()),
	}
}
