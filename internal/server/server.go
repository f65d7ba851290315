package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"

	"kampusconnect.id/forum/internal/bootstrap"
	"kampusconnect.id/forum/internal/config"
	"kampusconnect.id/forum/internal/handler"
	"kampusconnect.id/forum/internal/middleware"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/internal/repository/gormrepo"
	"kampusconnect.id/forum/internal/repository/localrepo"
	"kampusconnect.id/forum/internal/service"
	"kampusconnect.id/forum/pkg/database"
	"kampusconnect.id/forum/pkg/storage"
)

type Server struct {
	engine  *gin.Engine
	backend repository.Backend
}

// NewServer picks the storage backend once, wires the services and routes,
// and optionally seeds demo content. With DATABASE_URL set the server runs
// against Postgres (plus Redis and Meilisearch when configured); without it
// everything lives in a single JSON file on disk.
func NewServer(cfg *config.Config) (*Server, error) {
	backend, redisClient, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	var imageStorage storage.ImageStorage
	if os.Getenv("CLOUDINARY_URL") != "" {
		imageStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Printf("Cloudinary unavailable, avatar uploads disabled: %v", err)
			imageStorage = nil
		}
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliMasterKey != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	searchSvc := service.NewSearchService(meiliClient)
	notificationSvc := service.NewNotificationService(backend.Notifications(), redisClient)

	authSvc := service.NewAuthService(backend.Users(), backend.Sessions(), cfg.JWTSecret, cfg.JWTTTL)
	profileSvc := service.NewProfileService(backend.Users(), backend.Posts(), imageStorage)
	postSvc := service.NewPostService(backend.Posts(), searchSvc, redisClient, cfg.RateLimitPost)
	commentSvc := service.NewCommentService(backend.Comments(), backend.Posts(), notificationSvc, redisClient, cfg.RateLimitComment)
	voteSvc := service.NewVoteService(backend.Posts())

	authHandler := handler.NewAuthHandler(authSvc, profileSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	postHandler := handler.NewPostHandler(postSvc, profileSvc)
	commentHandler := handler.NewCommentHandler(commentSvc, profileSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)
	searchHandler := handler.NewSearchHandler(searchSvc)

	if cfg.SeedDemo {
		if err := bootstrap.Seed(context.Background(), backend); err != nil {
			log.Printf("Demo seed failed: %v", err)
		}
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.GetByID)
	api.GET("/posts/:id/comments", commentHandler.ListByPost)
	api.GET("/users/:uid", profileHandler.Get)
	api.GET("/users/:uid/posts", profileHandler.Posts)
	api.GET("/search/posts", searchHandler.SearchPosts)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)
		protected.POST("/posts/:id/vote", voteHandler.Toggle)

		protected.POST("/posts/:id/comments", commentHandler.Create)
		protected.PUT("/comments/:commentId", commentHandler.Update)
		protected.DELETE("/comments/:commentId", commentHandler.Delete)

		protected.PUT("/profile", profileHandler.Update)
		protected.PUT("/profile/avatar", profileHandler.UpdateAvatar)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:  router,
		backend: backend,
	}, nil
}

func openBackend(cfg *config.Config) (repository.Backend, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL not set, using local store at %s", cfg.DataFile)
		store, err := localrepo.Open(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Invalid REDIS_URL, live updates degrade to snapshots: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	backend, err := gormrepo.New(db, redisClient)
	if err != nil {
		return nil, nil, err
	}
	return backend, redisClient, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Close() error {
	return s.backend.Close()
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
