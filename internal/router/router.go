package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/railbook/railbook/internal/handler"
	"github.com/railbook/railbook/internal/middleware"
	"github.com/railbook/railbook/internal/token"
)

func New(logger *zap.Logger, tokens *token.Service,
	authHandler *handler.AuthHandler, trainHandler *handler.TrainHandler,
	bookingHandler *handler.BookingHandler) *gin.Engine {

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery(), cors.New(corsConfig()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.HandleRegister)
			auth.POST("/login", authHandler.HandleLogin)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.HandleMe)
		}

		trains := v1.Group("/trains")
		{
			trains.GET("", trainHandler.HandleList)
			trains.GET("/search", trainHandler.HandleSearch)
			trains.GET("/:id", trainHandler.HandleGet)
			trains.GET("/:id/availability", trainHandler.HandleGetAvailability)

			admin := trains.Group("", middleware.RequireAuth(tokens), middleware.RequireAdmin())
			{
				admin.POST("", trainHandler.HandleCreate)
				admin.PUT("/:id", trainHandler.HandleUpdate)
			}
		}

		bookings := v1.Group("/bookings", middleware.RequireAuth(tokens))
		{
			bookings.GET("", bookingHandler.HandleList)
			bookings.GET("/:id", bookingHandler.HandleGet)
			bookings.POST("", bookingHandler.HandleCreate)
			bookings.DELETE("/:id", bookingHandler.HandleCancel)
		}
	}

	return r
}

func corsConfig() cors.Config {
	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 10 * time.Minute
	return cfg
}
