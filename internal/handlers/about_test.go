package handlers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAboutPages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tmpl := template.New("")
	template.Must(tmpl.New("about/author.html").Parse("author"))
	template.Must(tmpl.New("about/tech.html").Parse("tech"))

	aboutHandler := NewAboutHandler()

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/about/author", aboutHandler.Author)
	r.GET("/about/tech", aboutHandler.Tech)

	for _, path := range []string{"/about/author", "/about/tech"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
