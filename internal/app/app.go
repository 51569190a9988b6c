package app

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/railbook/railbook/config"
	"github.com/railbook/railbook/internal/cache"
	"github.com/railbook/railbook/internal/mq"
	"github.com/railbook/railbook/internal/repository"
	"github.com/railbook/railbook/internal/service/domain"
	"github.com/railbook/railbook/internal/service/workflow"
	"github.com/railbook/railbook/internal/token"
)

type App struct {
	Config *config.Config

	DB     *gorm.DB
	Cache  *cache.RedisCache
	Logger *zap.Logger
	MQConn *amqp.Connection

	UserRepo    repository.UserRepo
	TrainRepo   repository.TrainRepo
	BookingRepo repository.BookingRepo

	Tokens *token.Service

	AuthService    domain.AuthService
	TrainService   domain.TrainService
	BookingService domain.BookingService

	NotificationWorkflow *workflow.NotificationWorkflow
}

// New wires the application. cache and mqConn may be nil when the deployment
// runs without Redis or RabbitMQ; the booking path works the same either way.
func New(config *config.Config, db *gorm.DB, redisCache *cache.RedisCache, mqConn *amqp.Connection, logger *zap.Logger) *App {
	userRepo := repository.NewUserRepoGorm(db)
	trainRepo := repository.NewTrainRepoGorm(db)
	bookingRepo := repository.NewBookingRepoGorm(db)

	tokens := token.New(config.JWTSecret, config.JWTTTL)

	var events *mq.Publisher
	if mqConn != nil {
		events = mq.NewPublisher(mqConn)
	}

	authService := domain.NewAuthService(userRepo, tokens)
	trainService := domain.NewTrainService(db, trainRepo, redisCache, logger)
	bookingService := domain.NewBookingService(db, trainRepo, bookingRepo, redisCache, events, logger)

	notificationWorkflow := workflow.NewNotificationWorkflow(logger)

	return &App{
		Config:               config,
		DB:                   db,
		Cache:                redisCache,
		Logger:               logger,
		MQConn:               mqConn,
		UserRepo:             userRepo,
		TrainRepo:            trainRepo,
		BookingRepo:          bookingRepo,
		Tokens:               tokens,
		AuthService:          authService,
		TrainService:         trainService,
		BookingService:       bookingService,
		NotificationWorkflow: notificationWorkflow,
	}
}

func (app *App) Init() error {
	// warm the availability mirror from the current train rows
	if app.Cache != nil {
		trains, err := app.TrainService.ListTrains(context.Background())
		if err != nil {
			return err
		}
		trainIDSeatsMap := make(map[uint]int, len(trains))
		for _, train := range trains {
			trainIDSeatsMap[train.ID] = train.AvailableSeats
		}
		if err := app.Cache.Init(trainIDSeatsMap); err != nil {
			return err
		}
	}

	if app.MQConn != nil {
		if err := mq.InitQueues(app.MQConn); err != nil {
			return err
		}
		if err := app.NotificationWorkflow.Start(app.MQConn); err != nil {
			return err
		}
	}

	return nil
}

func (app *App) Close() error {
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
