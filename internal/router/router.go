package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/verify", middleware.RequireAuth(h.Config.AppSecret), h.Verify)
		auth.GET("/profile", middleware.RequireAuth(h.Config.AppSecret), h.Profile)
		auth.PUT("/profile", middleware.RequireAuth(h.Config.AppSecret), h.UpdateProfile)
	}

	// ==================== 电影 ====================
	movies := api.Group("/movies")
	{
		movies.GET("/search", h.SearchMovies)
		movies.GET("/featured", h.FeaturedMovies)
		movies.GET("/top-rated", h.TopRatedMovies)
		movies.GET("/new-releases", h.NewReleaseMovies)
		movies.GET("/:id", h.MovieDetails)

		// 本地片库维护（仅管理员）
		admin := movies.Group("")
		admin.Use(middleware.RequireAuth(h.Config.AppSecret))
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", h.CreateMovie)
			admin.PUT("/:id", h.UpdateMovie)
			admin.DELETE("/:id", h.DeleteMovie)
		}
	}

	// ==================== 影评 ====================
	reviews := api.Group("/reviews")
	{
		reviews.GET("/movie/:id", h.ReviewsByMovie)
		reviews.GET("/user/:userId", h.ReviewsByUser)
		reviews.GET("/recent", h.RecentReviews)
		reviews.GET("/:id", h.ReviewByID)

		authed := reviews.Group("")
		authed.Use(middleware.RequireAuth(h.Config.AppSecret))
		{
			authed.POST("", h.CreateReview)
			authed.GET("/me", h.MyReviews)
			authed.PUT("/:id", h.UpdateReview)
			authed.DELETE("/:id", h.DeleteReview)
			authed.POST("/:id/helpful", h.MarkReviewHelpful)
		}
	}

	// ==================== 想看清单 ====================
	watchlist := api.Group("/watchlist")
	{
		watchlist.GET("/popular", h.PopularWatchlistMovies)

		authed := watchlist.Group("")
		authed.Use(middleware.RequireAuth(h.Config.AppSecret))
		{
			authed.POST("", h.AddToWatchlist)
			authed.GET("", h.MyWatchlist)
			authed.DELETE("", h.ClearWatchlist)
			authed.GET("/stats", h.WatchlistStats)
			authed.GET("/check/:id", h.CheckWatchlist)
			authed.POST("/check-multiple", h.CheckWatchlistMultiple)
			authed.DELETE("/:id", h.RemoveFromWatchlist)
		}
	}
}
