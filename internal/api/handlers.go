// Package api exposes the REST surface over the todo service.
package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/logging"
	"github.com/tmvuong/todofile/internal/models"
	"github.com/tmvuong/todofile/internal/todo"
	"github.com/tmvuong/todofile/internal/upload"
)

// Handler handles todo HTTP requests.
type Handler struct {
	svc     *todo.Service
	uploads *upload.Manager
}

// NewHandler creates a Handler over the given service and upload manager.
func NewHandler(svc *todo.Service, uploads *upload.Manager) *Handler {
	return &Handler{svc: svc, uploads: uploads}
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "todofile"})
}

// ListTodos handles GET /api/todos.
func (h *Handler) ListTodos(c *gin.Context) {
	opts := todo.ListOptions{
		Criteria: todo.Criteria{
			Search:   c.Query("search"),
			Priority: c.Query("priority"),
			Status:   c.Query("status"),
		},
		SortBy: c.Query("sortBy"),
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
	}

	result, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTodo handles GET /api/todos/:id.
func (h *Handler) GetTodo(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTodo handles POST /api/todos.
func (h *Handler) CreateTodo(c *gin.Context) {
	var req todo.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateTodo handles PUT /api/todos/:id.
func (h *Handler) UpdateTodo(c *gin.Context) {
	var changes models.TodoChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ToggleTodo handles PATCH /api/todos/:id/toggle.
func (h *Handler) ToggleTodo(c *gin.Context) {
	toggled, err := h.svc.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggled)
}

// DeleteTodo handles DELETE /api/todos/:id. Attachment files orphaned by
// the delete are released after the record is gone.
func (h *Handler) DeleteTodo(c *gin.Context) {
	result, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.uploads.Release(result.Orphaned)

	c.JSON(http.StatusOK, gin.H{"message": "todo deleted", "todo": result.Todo})
}

// UploadAttachment handles POST /api/todos/:id/attachments.
func (h *Handler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer src.Close()

	att, err := h.uploads.Save(file.Filename, src)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.svc.AddAttachment(c.Request.Context(), c.Param("id"), *att)
	if err != nil {
		// The record is missing or the write failed; the stored file has
		// no owner and must not linger.
		h.uploads.Release([]models.Attachment{*att})
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, updated)
}

// RemoveAttachment handles DELETE /api/todos/:id/attachments/:attachmentID.
func (h *Handler) RemoveAttachment(c *gin.Context) {
	updated, removed, err := h.svc.RemoveAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.uploads.Release([]models.Attachment{*removed})

	c.JSON(http.StatusOK, updated)
}

// ExportTodos handles GET /api/todos/export/json.
func (h *Handler) ExportTodos(c *gin.Context) {
	todos, err := h.svc.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="todos.json"`)
	c.JSON(http.StatusOK, todos)
}

// ImportTodos handles POST /api/todos/import/json. The payload arrives as
// an uploaded JSON file.
func (h *Handler) ImportTodos(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	if msgs := todo.ValidateImportFile(file.Filename, file.Size); len(msgs) > 0 {
		h.respondError(c, apperr.Validation(msgs))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer src.Close()

	payload, err := io.ReadAll(io.LimitReader(src, todo.MaxImportSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	result, err := h.svc.Import(c.Request.Context(), payload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "import completed", "result": result})
}

// StatsTodos handles GET /api/todos/stats.
func (h *Handler) StatsTodos(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respondError maps application error codes to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": apperr.FieldsOf(err),
		})
	case apperr.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.MessageOf(err)})
	case apperr.ErrImportFormat:
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MessageOf(err)})
	default:
		logging.Error("request failed", err, map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// intQuery parses an integer query parameter; anything unusable is 0,
// which the service treats as "not supplied".
func intQuery(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
