package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/api"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/mocks"
	"github.com/taskvault/taskvault-api/internal/store"
)

func newTestTask(t *testing.T, ownerID uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, "buy groceries")
	require.NoError(t, err)
	return task
}

// requestWithTaskID builds an authenticated request carrying a chi URL param.
func requestWithTaskID(method, id string, body string, user *domain.User) (*http.Request, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/tasks/"+id, reader)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	return withAuthedUser(req, user, "tok"), httptest.NewRecorder()
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("creates task for caller", func(t *testing.T) {
		t.Parallel()
		task := newTestTask(t, user.ID)
		svc := &mocks.MockTaskService{
			CreateTaskFn: func(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error) {
				assert.Equal(t, user.ID, ownerID)
				assert.Equal(t, "buy groceries", description)
				assert.False(t, completed)
				return task, nil
			},
		}
		handler := api.NewTaskHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"description":"buy groceries"}`))
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
		assert.Equal(t, user.ID, resp.Owner)
	})

	t.Run("missing description", func(t *testing.T) {
		t.Parallel()
		handler := api.NewTaskHandler(&mocks.MockTaskService{})

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"completed":true}`))
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("parses filters and pagination", func(t *testing.T) {
		t.Parallel()
		var gotOpts store.TaskListOptions
		svc := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error) {
				gotOpts = opts
				return []*domain.Task{newTestTask(t, ownerID)}, nil
			},
		}
		handler := api.NewTaskHandler(svc)

		req := httptest.NewRequest(http.MethodGet,
			"/tasks?completed=true&limit=10&skip=20&sortBy=createdAt:desc", nil)
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotOpts.Completed)
		assert.True(t, *gotOpts.Completed)
		assert.Equal(t, 10, gotOpts.Limit)
		assert.Equal(t, 20, gotOpts.Skip)
		assert.Equal(t, store.TaskSortCreatedAt, gotOpts.SortBy)
		assert.True(t, gotOpts.SortDesc)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		t.Parallel()
		handler := api.NewTaskHandler(&mocks.MockTaskService{})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	tests := []struct {
		name  string
		query string
	}{
		{"bad completed", "?completed=banana"},
		{"negative limit", "?limit=-5"},
		{"non-numeric skip", "?skip=abc"},
		{"unknown sort field", "?sortBy=owner:asc"},
		{"bad sort direction", "?sortBy=createdAt:sideways"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			handler := api.NewTaskHandler(&mocks.MockTaskService{})

			req := httptest.NewRequest(http.MethodGet, "/tasks"+tc.query, nil)
			req = withAuthedUser(req, user, "tok")
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	task := newTestTask(t, user.ID)

	t.Run("returns owned task", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{
			GetTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
				assert.Equal(t, task.ID, id)
				assert.Equal(t, user.ID, ownerID)
				return task, nil
			},
		}
		handler := api.NewTaskHandler(svc)

		req, rec := requestWithTaskID(http.MethodGet, task.ID.String(), "", user)
		handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unowned task is 404", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{
			GetTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		handler := api.NewTaskHandler(svc)

		req, rec := requestWithTaskID(http.MethodGet, task.ID.String(), "", user)
		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 404", func(t *testing.T) {
		t.Parallel()
		handler := api.NewTaskHandler(&mocks.MockTaskService{})

		req, rec := requestWithTaskID(http.MethodGet, "not-a-uuid", "", user)
		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("applies allow-listed fields", func(t *testing.T) {
		t.Parallel()
		task := newTestTask(t, user.ID)
		var updated *domain.Task
		svc := &mocks.MockTaskService{
			GetTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
				return task, nil
			},
			UpdateTaskFn: func(ctx context.Context, tsk *domain.Task) error {
				updated = tsk
				return nil
			},
		}
		handler := api.NewTaskHandler(svc)

		body := `{"description":"walk the dog","completed":true}`
		req, rec := requestWithTaskID(http.MethodPatch, task.ID.String(), body, user)
		handler.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "walk the dog", updated.Description)
		assert.True(t, updated.Completed)
	})

	t.Run("rejects unknown field before any change", func(t *testing.T) {
		t.Parallel()
		task := newTestTask(t, user.ID)
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, tsk *domain.Task) error {
				t.Fatal("update must not be called for rejected patches")
				return nil
			},
		}
		handler := api.NewTaskHandler(svc)

		body := `{"description":"walk the dog","owner":"someone-else"}`
		req, rec := requestWithTaskID(http.MethodPatch, task.ID.String(), body, user)
		handler.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Updates!", decodeError(t, rec).Error)
	})

	t.Run("patching an unowned task is 404", func(t *testing.T) {
		t.Parallel()
		task := newTestTask(t, user.ID)
		svc := &mocks.MockTaskService{
			GetTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		handler := api.NewTaskHandler(svc)

		body := `{"completed":true}`
		req, rec := requestWithTaskID(http.MethodPatch, task.ID.String(), body, user)
		handler.Update(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	task := newTestTask(t, user.ID)

	t.Run("deletes owned task", func(t *testing.T) {
		t.Parallel()
		deleted := false
		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) error {
				assert.Equal(t, task.ID, id)
				assert.Equal(t, user.ID, ownerID)
				deleted = true
				return nil
			},
		}
		handler := api.NewTaskHandler(svc)

		req, rec := requestWithTaskID(http.MethodDelete, task.ID.String(), "", user)
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, deleted)
	})

	t.Run("missing task is 404", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(ctx context.Context, id, ownerID uuid.UUID) error {
				return store.ErrTaskNotFound
			},
		}
		handler := api.NewTaskHandler(svc)

		req, rec := requestWithTaskID(http.MethodDelete, task.ID.String(), "", user)
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
