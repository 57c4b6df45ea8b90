package handlers

import (
	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}

	obj["CurrentPath"] = c.Request.URL.Path
	if _, ok := obj["Title"]; !ok {
		obj["Title"] = "Inkwell"
	}

	c.HTML(code, name, obj)
}

// cloneH shallow-copies a render payload. Cached payloads must never
// reach Render directly: it writes per-request keys into the map.
func cloneH(h gin.H) gin.H {
	out := make(gin.H, len(h)+3)
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
