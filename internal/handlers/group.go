package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	feeds *services.FeedService
}

func NewGroupHandler(feeds *services.FeedService) *GroupHandler {
	return &GroupHandler{feeds: feeds}
}

// List shows the group directory.
func (h *GroupHandler) List(c *gin.Context) {
	Render(c, http.StatusOK, "groups/list.html", gin.H{
		"Groups": h.feeds.Groups(),
		"Title":  "Groups",
		"Active": "groups",
	})
}

// Feed shows one group's posts.
func (h *GroupHandler) Feed(c *gin.Context) {
	slug := c.Param("slug")
	page := pageParam(c)

	group, feed, err := h.feeds.GroupFeed(slug, page)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Group not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Loading failed")
		return
	}

	Render(c, http.StatusOK, "groups/feed.html", gin.H{
		"Group":  group,
		"Page":   feed,
		"Groups": h.feeds.Groups(),
		"Title":  group.Title,
		"Active": "groups",
	})
}
