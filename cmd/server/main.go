package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Media storage for post images
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./web/media"
	}
	media, err := services.NewMediaStore(mediaDir)
	if err != nil {
		log.Fatalf("Failed to init media store: %v", err)
	}

	// Shared page cache, one instance per process
	pageCache := utils.NewPageCache(500)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("inkwell_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets & uploaded media
	r.Static("/static", "./web/static")
	r.Static("/media", media.Root())

	// Middleware
	r.Use(middleware.LoadUser())

	// Services
	feedService := services.NewFeedService(db.DB)
	postService := services.NewPostService(db.DB)
	socialService := services.NewSocialService(db.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler()
	aboutHandler := handlers.NewAboutHandler()
	postHandler := handlers.NewPostHandler(postService, feedService, socialService, media, pageCache)
	groupHandler := handlers.NewGroupHandler(feedService)
	profileHandler := handlers.NewProfileHandler(feedService, socialService)

	// Public Routes
	r.GET("/", postHandler.Index)
	r.GET("/group/:slug", groupHandler.Feed)
	r.GET("/groups", groupHandler.List)
	r.GET("/profile/:username", profileHandler.Show)
	r.GET("/posts/:id", postHandler.Detail)
	r.GET("/about/author", aboutHandler.Author)
	r.GET("/about/tech", aboutHandler.Tech)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create", postHandler.ShowCreate)
		authorized.POST("/create", postHandler.Create)
		authorized.GET("/posts/:id/edit", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit", postHandler.Update)
		authorized.POST("/posts/:id/comment", postHandler.CreateComment)
		authorized.POST("/posts/:id/like", postHandler.Like)
		authorized.POST("/posts/:id/dislike", postHandler.Dislike)

		authorized.GET("/follow", postHandler.FollowFeed)
		authorized.POST("/profile/:username/follow", profileHandler.Follow)
		authorized.POST("/profile/:username/unfollow", profileHandler.Unfollow)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Inkwell server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	// FuncMap
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return fmt.Sprintf("%ds ago", seconds)
			} else if seconds < 3600 {
				return fmt.Sprintf("%dm ago", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%dh ago", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%dd ago", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%dmo ago", seconds/2592000)
			}
			return fmt.Sprintf("%dy ago", seconds/31536000)
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"deref": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Manual registration to ensure keys match handler expectation
	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/register.html", funcMap, assemble(templatesDir+"/views/auth/register.html")...)

	// Posts
	r.AddFromFilesFuncs("posts/index.html", funcMap, assemble(templatesDir+"/views/posts/index.html")...)
	r.AddFromFilesFuncs("posts/detail.html", funcMap, assemble(templatesDir+"/views/posts/detail.html")...)
	r.AddFromFilesFuncs("posts/create.html", funcMap, assemble(templatesDir+"/views/posts/create.html")...)
	r.AddFromFilesFuncs("posts/edit.html", funcMap, assemble(templatesDir+"/views/posts/edit.html")...)
	r.AddFromFilesFuncs("posts/follow.html", funcMap, assemble(templatesDir+"/views/posts/follow.html")...)

	// Groups
	r.AddFromFilesFuncs("groups/list.html", funcMap, assemble(templatesDir+"/views/groups/list.html")...)
	r.AddFromFilesFuncs("groups/feed.html", funcMap, assemble(templatesDir+"/views/groups/feed.html")...)

	// Profile
	r.AddFromFilesFuncs("profile/show.html", funcMap, assemble(templatesDir+"/views/profile/show.html")...)

	// About
	r.AddFromFilesFuncs("about/author.html", funcMap, assemble(templatesDir+"/views/about/author.html")...)
	r.AddFromFilesFuncs("about/tech.html", funcMap, assemble(templatesDir+"/views/about/tech.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
