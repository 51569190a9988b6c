package main

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/railbook/railbook/config"
	"github.com/railbook/railbook/internal/app"
	"github.com/railbook/railbook/internal/cache"
	"github.com/railbook/railbook/internal/database"
	"github.com/railbook/railbook/internal/handler"
	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/mq"
	"github.com/railbook/railbook/internal/router"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.User{}, &model.Train{}, &model.Booking{}); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	var redisCache *cache.RedisCache
	if cfg.CacheURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.CacheURL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
	} else {
		logger.Warn("CACHE_URL is empty, availability cache disabled")
	}

	var mqConn *amqp.Connection
	if cfg.MQURL != "" {
		mqConn, err = mq.NewMQConn(cfg.MQURL)
		if err != nil {
			logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
	} else {
		logger.Warn("RABBIT_MQ_URL is empty, booking events disabled")
	}

	a := app.New(cfg, db, redisCache, mqConn, logger)
	if err := a.Init(); err != nil {
		logger.Fatal("failed to init app", zap.Error(err))
	}
	defer a.Close()

	r := router.New(logger, a.Tokens,
		handler.NewAuthHandler(a.AuthService),
		handler.NewTrainHandler(a.TrainService),
		handler.NewBookingHandler(a.BookingService),
	)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
