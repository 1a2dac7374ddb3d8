package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmvuong/todofile/internal/models"
	"github.com/tmvuong/todofile/internal/store"
	"github.com/tmvuong/todofile/internal/todo"
	"github.com/tmvuong/todofile/internal/upload"
)

func newTestRouter(t *testing.T, seed ...models.Todo) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore(seed...)
	uploads, err := upload.NewManager(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	return NewRouter(todo.NewService(st), uploads), st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateTodo(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/todos", map[string]any{
		"title":    "Buy milk",
		"priority": "HIGH",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "high", created.Priority)
	assert.NotEmpty(t, created.ID)

	stored, _ := st.LoadAll(context.Background())
	assert.Len(t, stored, 1)
}

func TestCreateTodoValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/todos", map[string]any{"title": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Details)
}

func TestGetTodo(t *testing.T) {
	r, _ := newTestRouter(t, models.Todo{ID: "abc", Title: "task"})

	w := doJSON(t, r, http.MethodGet, "/api/todos/abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/todos/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTodosPipeline(t *testing.T) {
	r, _ := newTestRouter(t,
		models.Todo{ID: "1", Title: "high task", Priority: "high"},
		models.Todo{ID: "2", Title: "medium task", Priority: "medium"},
		models.Todo{ID: "3", Title: "low task", Priority: "low", Completed: true},
	)

	w := doJSON(t, r, http.MethodGet, "/api/todos?priority=medium", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp todo.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "2", resp.Todos[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/todos?page=1&limit=2", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Todos, 2)
	assert.True(t, resp.Pagination.HasNext)

	w = doJSON(t, r, http.MethodGet, "/api/todos?status=pending&search=task", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Todos, 2)
}

func TestListTodosPaginationBounds(t *testing.T) {
	r, _ := newTestRouter(t,
		models.Todo{ID: "1", Title: "a"},
		models.Todo{ID: "2", Title: "b"},
		models.Todo{ID: "3", Title: "c"},
	)

	// A page far past the end is an empty page, never a panic.
	w := doJSON(t, r, http.MethodGet, "/api/todos?page=1844674407370955162", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp todo.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Todos)
	assert.Equal(t, 3, resp.Pagination.TotalItems)

	w = doJSON(t, r, http.MethodGet, "/api/todos?limit=100000000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/todos?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndToggle(t *testing.T) {
	r, _ := newTestRouter(t, models.Todo{ID: "abc", Title: "old"})

	w := doJSON(t, r, http.MethodPut, "/api/todos/abc", map[string]any{"title": "new"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "new", updated.Title)
	assert.Len(t, updated.EditHistory, 1)

	w = doJSON(t, r, http.MethodPatch, "/api/todos/abc/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)

	w = doJSON(t, r, http.MethodPut, "/api/todos/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTodo(t *testing.T) {
	r, st := newTestRouter(t, models.Todo{ID: "abc", Title: "task"})

	w := doJSON(t, r, http.MethodDelete, "/api/todos/abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todo deleted")

	stored, _ := st.LoadAll(context.Background())
	assert.Empty(t, stored)

	w = doJSON(t, r, http.MethodDelete, "/api/todos/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportTodos(t *testing.T) {
	r, st := newTestRouter(t, models.Todo{ID: "1", Title: "buy milk", Priority: "high"})

	payload := `[{"title":"Buy milk","priority":"High"},{"title":"fresh"}]`
	w := doMultipart(t, r, "/api/todos/import/json", "todos.json", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result todo.ImportResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Result.Imported)
	assert.Equal(t, 1, resp.Result.Duplicated)

	stored, _ := st.LoadAll(context.Background())
	assert.Len(t, stored, 2)
}

func TestImportTodosRejectsNonJSONFile(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doMultipart(t, r, "/api/todos/import/json", "todos.csv", "title\nfoo")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportTodosBadPayload(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doMultipart(t, r, "/api/todos/import/json", "todos.json", `{"foo":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportTodos(t *testing.T) {
	r, _ := newTestRouter(t, models.Todo{ID: "1", Title: "task"})

	w := doJSON(t, r, http.MethodGet, "/api/todos/export/json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "todos.json")

	var todos []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos))
	assert.Len(t, todos, 1)
}

func TestStats(t *testing.T) {
	r, _ := newTestRouter(t,
		models.Todo{ID: "1", Priority: "high"},
		models.Todo{ID: "2", Priority: "low", Completed: true},
	)

	w := doJSON(t, r, http.MethodGet, "/api/todos/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Status.Completed)
}

func TestUploadAttachment(t *testing.T) {
	r, _ := newTestRouter(t, models.Todo{ID: "abc", Title: "task"})

	gif := "GIF89a\x01\x00\x01\x00\x00\x00\x00;"
	w := doMultipart(t, r, "/api/todos/abc/attachments", "pic.gif", gif)
	require.Equal(t, http.StatusCreated, w.Code)

	var updated models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Attachments, 1)
	att := updated.Attachments[0]
	assert.Equal(t, "pic.gif", att.OriginalName)
	assert.Equal(t, "image/gif", att.MimeType)
	assert.NotEmpty(t, att.ID)

	// Remove it again; the descriptor disappears from the record.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/todos/abc/attachments/%s", att.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Empty(t, updated.Attachments)
}

func TestUploadAttachmentRejectsNonImage(t *testing.T) {
	r, _ := newTestRouter(t, models.Todo{ID: "abc", Title: "task"})

	w := doMultipart(t, r, "/api/todos/abc/attachments", "notes.txt", "plain text content here")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/todos", strings.NewReader(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func doMultipart(t *testing.T, r *gin.Engine, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
