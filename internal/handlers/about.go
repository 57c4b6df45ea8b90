package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AboutHandler serves the static site pages.
type AboutHandler struct{}

func NewAboutHandler() *AboutHandler {
	return &AboutHandler{}
}

func (h *AboutHandler) Author(c *gin.Context) {
	Render(c, http.StatusOK, "about/author.html", gin.H{
		"Title":  "About the author",
		"Active": "about",
	})
}

func (h *AboutHandler) Tech(c *gin.Context) {
	Render(c, http.StatusOK, "about/tech.html", gin.H{
		"Title":  "Technology",
		"Active": "about",
	})
}
