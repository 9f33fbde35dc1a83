package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/storyverse/storyverse/config"
	"github.com/storyverse/storyverse/internal/api/handler"
	"github.com/storyverse/storyverse/internal/api/middleware"
	"github.com/storyverse/storyverse/internal/auth"
)

// NewRouter assembles the gin engine: middleware chain, custom binding
// rules, and the v1 route table.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("storygenre", handler.ValidGenre)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("storyverse"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.RateLimit.RPS > 0 {
		r.Use(middleware.RateLimit(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
	}
	r.Use(auth.Identity([]byte(cfg.Auth.JWTSecret)))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/stories", h.ListStories)
		v1.GET("/stories/stats", h.StoriesStats)
		v1.GET("/stories/:id/reviews", h.ListStoryReviews)
		v1.GET("/genres", h.ListGenres)

		v1.GET("/collections", h.ListMyCollections)
		v1.POST("/collections", h.CreateCollection)
		v1.GET("/collections/public", h.ListPublicCollections)
		v1.GET("/collections/:id", h.GetCollection)
		v1.DELETE("/collections/:id", h.DeleteCollection)
		v1.POST("/collections/:id/stories", h.AddStoryToCollection)
	}
	return r
}
