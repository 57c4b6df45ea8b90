package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

// indexCacheTTL is the deliberate staleness window of the home feed:
// a freshly published post only shows up once the cached page expires
// or the cache is cleared.
const indexCacheTTL = 20 * time.Second

type PostHandler struct {
	posts  *services.PostService
	feeds  *services.FeedService
	social *services.SocialService
	media  *services.MediaStore
	cache  *utils.PageCache
}

func NewPostHandler(posts *services.PostService, feeds *services.FeedService, social *services.SocialService, media *services.MediaStore, cache *utils.PageCache) *PostHandler {
	return &PostHandler{
		posts:  posts,
		feeds:  feeds,
		social: social,
		media:  media,
		cache:  cache,
	}
}

func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists && user != nil {
		return user.(*models.User)
	}
	return nil
}

func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func (h *PostHandler) Index(c *gin.Context) {
	page := pageParam(c)

	cacheKey := fmt.Sprintf("posts:index:page:%d", page)
	if cachedData := h.cache.Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "posts/index.html", cloneH(hData))
			return
		}
	}

	feed := h.feeds.HomeFeed(page)

	renderData := gin.H{
		"Page":   feed,
		"Groups": h.feeds.Groups(),
		"Title":  "Latest posts",
		"Active": "home",
	}

	h.cache.Set(cacheKey, renderData, indexCacheTTL)

	Render(c, http.StatusOK, "posts/index.html", cloneH(renderData))
}

func (h *PostHandler) Detail(c *gin.Context) {
	postID := uint(utils.StringToInt(c.Param("id")))

	post, err := h.posts.GetPost(postID)
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	comments, _ := h.posts.Comments(post.ID)

	type renderedComment struct {
		models.Comment
		TextHTML template.HTML
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{
			Comment:  com,
			TextHTML: utils.RenderMarkdown(com.Text),
		}
	}

	liked := false
	if user := currentUser(c); user != nil {
		liked = h.social.HasLikedPost(user.ID, post.ID)
	}

	Render(c, http.StatusOK, "posts/detail.html", gin.H{
		"Post":       post,
		"PostHTML":   utils.RenderMarkdown(post.Text),
		"Comments":   rendered,
		"LikeCount":  h.social.PostLikeCount(post.ID),
		"Liked":      liked,
		"PostsCount": h.posts.AuthorPostCount(post.UserID),
		"Title":      "Post by " + post.User.Username,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "posts/create.html", gin.H{
		"Title":  "New post",
		"Groups": h.feeds.Groups(),
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	text := c.PostForm("text")
	groupID := parseGroupID(c.PostForm("group_id"))

	imagePath := ""
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		imagePath, err = h.media.SavePostImage(file, header)
		if err != nil {
			Render(c, http.StatusBadRequest, "posts/create.html", gin.H{
				"Error":  "Could not save the image",
				"Groups": h.feeds.Groups(),
				"Text":   text,
			})
			return
		}
	}

	if _, err := h.posts.CreatePost(user.ID, text, groupID, imagePath); err != nil {
		status := http.StatusInternalServerError
		message := "Publishing failed"
		if errors.Is(err, services.ErrEmptyText) {
			status = http.StatusBadRequest
			message = "Text must not be empty"
		}
		Render(c, status, "posts/create.html", gin.H{
			"Error":  message,
			"Groups": h.feeds.Groups(),
			"Text":   text,
		})
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username)
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := uint(utils.StringToInt(c.Param("id")))

	post, err := h.posts.GetPost(postID)
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// Non-authors get the detail page instead, without an error message.
	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
		return
	}

	Render(c, http.StatusOK, "posts/edit.html", gin.H{
		"Title":  "Edit post",
		"Post":   post,
		"Groups": h.feeds.Groups(),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := uint(utils.StringToInt(c.Param("id")))

	upd := services.PostUpdate{
		Text:    c.PostForm("text"),
		GroupID: parseGroupID(c.PostForm("group_id")),
	}

	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		path, err := h.media.SavePostImage(file, header)
		if err == nil {
			upd.Image = &path
		}
	}

	post, err := h.posts.UpdatePost(user.ID, postID, upd)
	switch {
	case errors.Is(err, services.ErrNotFound):
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	case errors.Is(err, services.ErrNotAuthor):
		// Silent authorization redirect, nothing was mutated.
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
		return
	case errors.Is(err, services.ErrEmptyText):
		stale, loadErr := h.posts.GetPost(postID)
		if loadErr != nil {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		Render(c, http.StatusBadRequest, "posts/edit.html", gin.H{
			"Error":  "Text must not be empty",
			"Post":   stale,
			"Groups": h.feeds.Groups(),
		})
		return
	case err != nil:
		RenderError(c, http.StatusInternalServerError, "Saving failed")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := uint(utils.StringToInt(c.Param("id")))

	text := c.PostForm("text")
	if _, err := h.posts.AddComment(user.ID, postID, text); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		// Empty comment text: back to the detail page, same as a valid
		// submission, the form simply did not produce a comment.
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
}

// Like marks the post as liked by the current user. Liking your own
// post or liking twice just navigates back to the detail page.
func (h *PostHandler) Like(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := uint(utils.StringToInt(c.Param("id")))

	err := h.social.LikePost(user.ID, postID)
	if errors.Is(err, services.ErrNotFound) {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
}

// Dislike removes the like; a missing like is a no-op.
func (h *PostHandler) Dislike(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := uint(utils.StringToInt(c.Param("id")))

	h.social.UnlikePost(user.ID, postID)

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
}

// FollowFeed lists posts by the authors the current user follows.
func (h *PostHandler) FollowFeed(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	page := pageParam(c)

	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Page":   h.feeds.FollowingFeed(user.ID, page),
		"Groups": h.feeds.Groups(),
		"Title":  "Following",
		"Active": "follow",
	})
}

func parseGroupID(raw string) *uint {
	if raw == "" {
		return nil
	}
	id := utils.StringToInt(raw)
	if id <= 0 {
		return nil
	}
	uID := uint(id)
	return &uID
}
