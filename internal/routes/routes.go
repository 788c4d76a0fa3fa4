package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/handler"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/pkg/jwt"
)

// Handlers groups every API handler mounted under /api/v1
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Tweet        *handler.TweetHandler
	Reaction     *handler.ReactionHandler
	Subscription *handler.SubscriptionHandler
	Playlist     *handler.PlaylistHandler
	Dashboard    *handler.DashboardHandler
}

// Setup configures all API routes. reactionLimit guards the reaction toggles and may be nil.
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, reactionLimit gin.HandlerFunc) {
	auth := middleware.JWTAuth(jwtManager)
	optional := middleware.OptionalJWTAuth(jwtManager)
	if reactionLimit == nil {
		reactionLimit = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", h.Auth.Register)
		users.POST("/login", h.Auth.Login)
		users.POST("/refresh-token", h.Auth.RefreshToken)
		users.POST("/logout", auth, h.Auth.Logout)
		users.POST("/change-password", auth, h.Auth.ChangePassword)
		users.GET("/current-user", auth, h.User.CurrentUser)
		users.PATCH("/update-account", auth, h.User.UpdateAccount)
		users.PATCH("/avatar", auth, h.User.UpdateAvatar)
		users.PATCH("/cover-image", auth, h.User.UpdateCoverImage)
		users.GET("/c/:username", optional, h.User.ChannelProfile)
		users.GET("/history", auth, h.User.WatchHistory)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", optional, h.Video.List)
		videos.POST("", auth, h.Video.Publish)
		videos.GET("/:videoId", optional, h.Video.Get)
		videos.PATCH("/:videoId", auth, h.Video.Update)
		videos.DELETE("/:videoId", auth, h.Video.Delete)
		videos.PATCH("/toggle/publish/:videoId", auth, h.Video.TogglePublish)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:videoId", optional, h.Comment.List)
		comments.POST("/:videoId", auth, h.Comment.Add)
		comments.PATCH("/c/:commentId", auth, h.Comment.Update)
		comments.DELETE("/c/:commentId", auth, h.Comment.Delete)
	}

	tweets := api.Group("/tweets")
	{
		tweets.POST("", auth, h.Tweet.Create)
		tweets.GET("/user/:username", h.Tweet.ListByUser)
		tweets.PATCH("/:tweetId", auth, h.Tweet.Update)
		tweets.DELETE("/:tweetId", auth, h.Tweet.Delete)
	}

	reactions := api.Group("/reactions")
	{
		reactions.POST("/:targetType/:targetId", auth, reactionLimit, h.Reaction.Toggle)
		reactions.GET("/:targetType/:targetId", optional, h.Reaction.Status)
	}

	likes := api.Group("/likes")
	{
		likes.POST("/toggle/v/:videoId", auth, reactionLimit, h.Reaction.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", auth, reactionLimit, h.Reaction.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", auth, reactionLimit, h.Reaction.ToggleTweetLike)
		likes.GET("/videos", auth, h.Video.LikedVideos)
	}

	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", auth, h.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.Subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.Subscription.Channels)
	}

	playlists := api.Group("/playlist")
	{
		playlists.POST("", auth, h.Playlist.Create)
		playlists.GET("", optional, h.Playlist.ListByUser)
		playlists.GET("/:playlistId", optional, h.Playlist.Get)
		playlists.PATCH("/:playlistId", auth, h.Playlist.Update)
		playlists.DELETE("/:playlistId", auth, h.Playlist.Delete)
		playlists.PATCH("/add/:playlistId", auth, h.Playlist.AddVideos)
		playlists.PATCH("/remove/:videoId/:playlistId", auth, h.Playlist.RemoveVideo)
	}

	dashboard := api.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "Route not found", common.ErrNotFound)
	})
}
