package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/store"
)

// TaskHandler handles task CRUD endpoints. Every route requires an
// authenticated user and only ever touches that user's tasks.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /tasks, creating a task owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, req.Description, req.Completed)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks. Supported query parameters:
//
//	completed=true|false      filter by completion state
//	limit=N, skip=N           pagination
//	sortBy=field:asc|desc     ordering, e.g. sortBy=createdAt:desc
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	opts, err := parseTaskListOptions(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), user.ID, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Get handles GET /tasks/{id}. A malformed ID, a missing task, and another
// user's task all answer 404.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID, user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// taskUpdatableFields is the PATCH allow-list for task updates.
var taskUpdatableFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// Update handles PATCH /tasks/{id} with the same whole-request allow-list
// check as profile updates.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	var updates map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(updates) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidUpdatesMessage)
		return
	}
	for field := range updates {
		if !taskUpdatableFields[field] {
			shared.RespondWithError(w, r, http.StatusBadRequest, invalidUpdatesMessage)
			return
		}
	}

	// Ownership is checked by the fetch: an unowned task 404s here before
	// the allow-listed fields are applied.
	task, err := h.taskService.GetTask(r.Context(), taskID, user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if raw, found := updates["description"]; found {
		if err := json.Unmarshal(raw, &task.Description); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for description")
			return
		}
	}
	if raw, found := updates["completed"]; found {
		if err := json.Unmarshal(raw, &task.Completed); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for completed")
			return
		}
	}

	if err := h.taskService.UpdateTask(r.Context(), task); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, user.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "task deleted"})
}

// parseTaskListOptions reads the listing query parameters. Unknown sort
// fields and non-numeric pagination values are client errors.
func parseTaskListOptions(r *http.Request) (store.TaskListOptions, error) {
	var opts store.TaskListOptions
	q := r.URL.Query()

	if raw := q.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
		opts.Completed = &completed
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, domain.NewValidationError("limit", "must be a non-negative integer", domain.ErrValidation)
		}
		opts.Limit = limit
	}

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return opts, domain.NewValidationError("skip", "must be a non-negative integer", domain.ErrValidation)
		}
		opts.Skip = skip
	}

	if raw := q.Get("sortBy"); raw != "" {
		field, direction, hasDirection := strings.Cut(raw, ":")
		sortField := store.TaskSortField(field)
		if !store.ValidTaskSortField(sortField) {
			return opts, domain.NewValidationError("sortBy", "unknown sort field", domain.ErrValidation)
		}
		opts.SortBy = sortField
		if hasDirection {
			switch direction {
			case "asc":
			case "desc":
				opts.SortDesc = true
			default:
				return opts, domain.NewValidationError("sortBy", "direction must be asc or desc", domain.ErrValidation)
			}
		}
	}

	return opts, nil
}
