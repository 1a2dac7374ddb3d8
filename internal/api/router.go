package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tmvuong/todofile/internal/todo"
	"github.com/tmvuong/todofile/internal/upload"
)

// NewRouter builds the gin engine with all routes registered. Uploaded
// attachment files are served statically under /uploads.
func NewRouter(svc *todo.Service, uploads *upload.Manager) *gin.Engine {
	h := NewHandler(svc, uploads)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS())

	r.GET("/api/health", h.Health)

	todos := r.Group("/api/todos")
	{
		todos.GET("", h.ListTodos)
		todos.POST("", h.CreateTodo)
		todos.GET("/stats", h.StatsTodos)
		todos.GET("/export/json", h.ExportTodos)
		todos.POST("/import/json", h.ImportTodos)
		todos.GET("/:id", h.GetTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.PATCH("/:id/toggle", h.ToggleTodo)
		todos.DELETE("/:id", h.DeleteTodo)
		todos.POST("/:id/attachments", h.UploadAttachment)
		todos.DELETE("/:id/attachments/:attachmentID", h.RemoveAttachment)
	}

	r.Static("/uploads", uploads.Dir())

	return r
}
