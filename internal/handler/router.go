package handler

import (
	"log/slog"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"playnote/backend/internal/auth"
	"playnote/backend/internal/repository"
	"playnote/backend/internal/validation"
	"playnote/backend/pkg/jwt"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Sessions    repository.Sessions
	Validator   validation.Validator
	Credentials auth.CredentialValidator
	Issuer      *jwt.Issuer
	Policy      *auth.Policy
	Logger      *slog.Logger

	// Sentry enables panic and error reporting through the sentry gin integration.
	Sentry bool
	// Swagger mounts the Swagger UI at /swagger/*any.
	Swagger bool
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), AccessLog(deps.Logger), gin.Recovery())
	if deps.Sentry {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	if deps.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	games := NewGameHandler(deps.Sessions, deps.Logger)
	ratings := NewRatingHandler(deps.Sessions, deps.Validator, deps.Logger)
	authentication := NewAuthHandler(deps.Credentials, deps.Issuer, deps.Logger)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth", authentication.Authenticate)

		// Public game routes
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.OptionalAuthMiddleware(deps.Issuer))
		{
			gameRoutes.GET("", games.GetGames)
			gameRoutes.GET("/:id", games.GetGame)
		}

		// Rating routes: reads are public, writes need a token
		ratingRoutes := apiV1.Group("/games/:id/ratings")
		ratingRoutes.Use(auth.OptionalAuthMiddleware(deps.Issuer))
		{
			ratingRoutes.GET("", ratings.GetRatings)
			ratingRoutes.GET("/:ratingId", ratings.GetRating)
		}

		protected := apiV1.Group("/games/:id/ratings")
		protected.Use(auth.AuthMiddleware(deps.Issuer))
		{
			protected.POST("", ratings.CreateRating)
			protected.PUT("/:ratingId", ratings.UpdateRating)
			protected.PATCH("/:ratingId", ratings.PatchRating)
			protected.DELETE("/:ratingId",
				auth.RequirePermission(deps.Policy, auth.ResourceRatings, auth.ActionDelete),
				ratings.DeleteRating)
		}
	}

	return router
}
