package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	feeds  *services.FeedService
	social *services.SocialService
}

func NewProfileHandler(feeds *services.FeedService, social *services.SocialService) *ProfileHandler {
	return &ProfileHandler{feeds: feeds, social: social}
}

// Show renders an author's posts plus the viewer's follow state.
func (h *ProfileHandler) Show(c *gin.Context) {
	username := c.Param("username")
	page := pageParam(c)

	viewerID := uint(0)
	if user := currentUser(c); user != nil {
		viewerID = user.ID
	}

	author, feed, following, err := h.feeds.ProfileFeed(username, viewerID, page)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "User not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Loading failed")
		return
	}

	Render(c, http.StatusOK, "profile/show.html", gin.H{
		"Author":    author,
		"Page":      feed,
		"Following": following,
		"Title":     author.Username,
	})
}

// Follow subscribes the current user to an author. Following yourself
// or following twice just navigates back to the profile.
func (h *ProfileHandler) Follow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	var author models.User
	if err := db.DB.Where("username = ?", username).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	// ErrSelfFollow is absorbed here: the button should never error.
	h.social.Follow(user.ID, author.ID)

	c.Redirect(http.StatusFound, "/profile/"+username)
}

// Unfollow removes the subscription; a missing edge is a no-op.
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	var author models.User
	if err := db.DB.Where("username = ?", username).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	h.social.Unfollow(user.ID, author.ID)

	c.Redirect(http.StatusFound, "/profile/"+username)
}
