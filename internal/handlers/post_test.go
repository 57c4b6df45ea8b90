package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.Like{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	// Handlers and middleware reach the store through db.DB.
	db.DB = testDB
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// asUser stands in for the session middleware pair in tests.
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CheckUserKey, user)
		c.Next()
	}
}

func newHandlers(t *testing.T, testDB *gorm.DB) (*PostHandler, *ProfileHandler) {
	t.Helper()

	media, err := services.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	posts := services.NewPostService(testDB)
	feeds := services.NewFeedService(testDB)
	social := services.NewSocialService(testDB)

	return NewPostHandler(posts, feeds, social, media, utils.NewPageCache(16)),
		NewProfileHandler(feeds, social)
}

func TestIndexCacheKeepsViewerOutOfPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)

	media, err := services.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	cache := utils.NewPageCache(16)
	postHandler := NewPostHandler(
		services.NewPostService(testDB),
		services.NewFeedService(testDB),
		services.NewSocialService(testDB),
		media,
		cache,
	)

	author := createUser(t, testDB, "author")
	_, err = services.NewPostService(testDB).CreatePost(author.ID, "hello", nil, "")
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("posts/index.html").Parse("ok")))
	r.GET("/", asUser(author), postHandler.Index)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// The cached payload stays viewer independent; session keys only
	// ever land in a per-request copy.
	cached, ok := cache.Get("posts:index:page:1").(gin.H)
	require.True(t, ok)
	assert.NotContains(t, cached, "CurrentUser")
	assert.NotContains(t, cached, "CurrentPath")

	// Concurrent cache hits must not write into the shared map.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		}()
	}
	wg.Wait()
}

func TestCreateCommentRedirectsToDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)
	postHandler, _ := newHandlers(t, testDB)

	author := createUser(t, testDB, "author")
	commenter := createUser(t, testDB, "commenter")

	post, err := services.NewPostService(testDB).CreatePost(author.ID, "hello", nil, "")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/posts/:id/comment", asUser(commenter), postHandler.CreateComment)

	form := url.Values{"text": {"nice"}}
	req := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/comment", post.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), w.Header().Get("Location"))

	var count int64
	testDB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNonAuthorEditIsSilentRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)
	postHandler, _ := newHandlers(t, testDB)

	author := createUser(t, testDB, "author")
	stranger := createUser(t, testDB, "stranger")

	post, err := services.NewPostService(testDB).CreatePost(author.ID, "original", nil, "")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/posts/:id/edit", asUser(stranger), postHandler.Update)

	form := url.Values{"text": {"hijacked"}}
	req := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/edit", post.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Navigation to the detail page, no error surfaced, no mutation.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), w.Header().Get("Location"))

	var reloaded models.Post
	require.NoError(t, testDB.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Text)
	assert.Equal(t, author.ID, reloaded.UserID)
}

func TestLikeOwnPostIsAbsorbed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)
	postHandler, _ := newHandlers(t, testDB)

	author := createUser(t, testDB, "author")

	post, err := services.NewPostService(testDB).CreatePost(author.ID, "hello", nil, "")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/posts/:id/like", asUser(author), postHandler.Like)

	req := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/like", post.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), w.Header().Get("Location"))

	var count int64
	testDB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSelfFollowIsAbsorbed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB(t)
	_, profileHandler := newHandlers(t, testDB)

	user := createUser(t, testDB, "narcissus")

	r := gin.New()
	r.POST("/profile/:username/follow", asUser(user), profileHandler.Follow)

	req := httptest.NewRequest("POST", "/profile/narcissus/follow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/narcissus", w.Header().Get("Location"))

	var count int64
	testDB.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAnonymousMutationRedirectsToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)

	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("inkwell_session", store))
	r.POST("/create", middleware.AuthRequired(), func(c *gin.Context) {
		t.Fatal("handler must not run for anonymous users")
	})

	req := httptest.NewRequest("POST", "/create", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/create"), w.Header().Get("Location"))
}
