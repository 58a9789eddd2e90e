// Package routing wires the middleware and handlers into the gin engine.
package routing

import (
	"net/http"
	"time"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/handlers"
	"code-atlas/internal/managers"
	"code-atlas/internal/middleware"
	"code-atlas/internal/schemas"
	"code-atlas/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const apiVersion = "v1"

var metadataDto = &schemas.MetadataDTO{
	ApiName:    "Code Atlas",
	ApiVersion: apiVersion,
}

// InitRouter builds the engine with the common middleware and all routes.
func InitRouter(databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr, catalogMgr managers.CatalogMgr,
	metricsMgr managers.MetricsMgr, allowOrigins []string) *gin.Engine {
	router := gin.New()
	// Request cancellation reaches the database calls through the gin context.
	router.ContextWithFallback = true

	setupCommonMiddleware(router, metricsMgr, allowOrigins)
	setupRoutes(router, databaseMgr, jwtMgr, catalogMgr, metricsMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine, metricsMgr managers.MetricsMgr, allowOrigins []string) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
	router.Use(middleware.ObserveRequests(metricsMgr))
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr,
	catalogMgr managers.CatalogMgr, metricsMgr managers.MetricsMgr) {
	router.GET("/", func(c *gin.Context) {
		utils.WriteAndLogResponse(c, metadataDto, http.StatusOK)
	})

	router.GET("/health", func(c *gin.Context) {
		if !managers.Healthy(c, databaseMgr) {
			utils.WriteAndLogError(c, goerrors.DatabaseUnavailable, nil)
			return
		}
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(metricsMgr.Handler()))

	apiRouter := router.Group("/api")
	{
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &metricsMgr)
		authRoutes(apiRouter.Group("/auth"), userHdl)

		userRouter := apiRouter.Group("/user")
		userRouter.Use(jwtMgr.JWTMiddleware())
		favoriteRoutes(userRouter.Group("/favorites"), handlers.NewFavoriteHandler(&databaseMgr, &catalogMgr))
		noteRoutes(userRouter.Group("/notes"), handlers.NewNoteHandler(&databaseMgr, &catalogMgr))

		commentHdl := handlers.NewCommentHandler(&databaseMgr, &catalogMgr, &metricsMgr)
		commentRoutes(apiRouter.Group("/comment"), commentHdl, jwtMgr)

		profileRouter := apiRouter.Group("/profile")
		profileRouter.Use(jwtMgr.JWTMiddleware())
		profileRoutes(profileRouter, handlers.NewProfileHandler(&databaseMgr))

		languageHdl := handlers.NewLanguageHandler(&catalogMgr)
		apiRouter.GET("/languages", languageHdl.GetLanguages)
		apiRouter.GET("/languages/:"+utils.LanguageNameKey, languageHdl.GetLanguage)
	}
}

func authRoutes(authRouter *gin.RouterGroup, userHdl handlers.UserHdl) {
	authRouter.POST("/register", middleware.ValidatePayload[schemas.RegistrationRequest](), userHdl.RegisterUser)
	authRouter.POST("/login", middleware.ValidatePayload[schemas.LoginRequest](), userHdl.LoginUser)
}

func favoriteRoutes(favoriteRouter *gin.RouterGroup, favoriteHdl handlers.FavoriteHdl) {
	favoriteRouter.POST("", middleware.ValidatePayload[schemas.FavoriteRequest](), favoriteHdl.AddFavorite)
	favoriteRouter.GET("", favoriteHdl.GetFavorites)
	favoriteRouter.DELETE("", middleware.ValidatePayload[schemas.FavoriteRequest](), favoriteHdl.RemoveFavorite)
	favoriteRouter.DELETE("/all", favoriteHdl.RemoveAllFavorites)
}

func noteRoutes(noteRouter *gin.RouterGroup, noteHdl handlers.NoteHdl) {
	noteRouter.POST("", middleware.ValidatePayload[schemas.NoteRequest](), noteHdl.UpsertNote)
	noteRouter.GET("", noteHdl.GetNote)
	noteRouter.GET("/all", noteHdl.GetAllNotes)
	noteRouter.DELETE("/all", noteHdl.DeleteAllNotes)
	noteRouter.DELETE("/:"+utils.LanguageIdKey, noteHdl.DeleteNote)
}

func commentRoutes(commentRouter *gin.RouterGroup, commentHdl handlers.CommentHdl, jwtMgr managers.JWTMgr) {
	// Listing is public, the optional token only marks the caller's likes.
	commentRouter.GET("/:"+utils.LanguageIdKey, jwtMgr.OptionalJWTMiddleware(), commentHdl.GetComments)

	authorized := commentRouter.Group("", jwtMgr.JWTMiddleware())
	authorized.POST("", middleware.ValidatePayload[schemas.CreateCommentRequest](), commentHdl.CreateComment)
	authorized.PUT("/:"+utils.CommentIdKey, middleware.ValidatePayload[schemas.UpdateCommentRequest](), commentHdl.UpdateComment)
	authorized.DELETE("/:"+utils.CommentIdKey, commentHdl.DeleteComment)
	authorized.PATCH("/:"+utils.CommentIdKey+"/like", commentHdl.ToggleLike)
}

func profileRoutes(profileRouter *gin.RouterGroup, profileHdl handlers.ProfileHdl) {
	profileRouter.GET("", profileHdl.GetProfile)
	profileRouter.PUT("/email", middleware.ValidatePayload[schemas.ChangeEmailRequest](), profileHdl.ChangeEmail)
	profileRouter.PUT("/newsletter", middleware.ValidatePayload[schemas.ChangeNewsletterRequest](), profileHdl.ChangeNewsletter)
	profileRouter.PUT("/name", middleware.ValidatePayload[schemas.ChangeNameRequest](), profileHdl.ChangeName)
	profileRouter.DELETE("", profileHdl.DeleteAccount)
}
