package domain

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/cache"
	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/repository"
)

type CreateTrainInput struct {
	Number        string
	Name          string
	Source        string
	Destination   string
	DepartureTime string
	ArrivalTime   string
	JourneyDate   time.Time
	TotalSeats    int
	Price         float64
}

// UpdateTrainInput covers the administrative fields. Seat counters are owned
// by the allocator and are not updatable here.
type UpdateTrainInput struct {
	Name          *string
	Source        *string
	Destination   *string
	DepartureTime *string
	ArrivalTime   *string
	JourneyDate   *time.Time
	Price         *float64
}

type TrainService interface {
	CreateTrain(ctx context.Context, in CreateTrainInput) (*model.Train, error)
	UpdateTrain(ctx context.Context, id uint, in UpdateTrainInput) (*model.Train, error)
	GetTrainByID(ctx context.Context, id uint) (*model.Train, error)
	ListTrains(ctx context.Context) ([]model.Train, error)
	SearchTrains(ctx context.Context, source, destination string, date time.Time) ([]model.Train, error)
	GetAvailability(ctx context.Context, id uint) (int, error)
}

type trainService struct {
	db     *gorm.DB
	repo   repository.TrainRepo
	seats  *cache.RedisCache
	logger *zap.Logger
}

var _ TrainService = (*trainService)(nil)

func NewTrainService(db *gorm.DB, trainRepo repository.TrainRepo, seats *cache.RedisCache, logger *zap.Logger) *trainService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &trainService{
		db:     db,
		repo:   trainRepo,
		seats:  seats,
		logger: logger,
	}
}

func (s *trainService) CreateTrain(ctx context.Context, in CreateTrainInput) (*model.Train, error) {
	if _, err := s.repo.GetByNumber(in.Number); err == nil {
		return nil, ErrTrainNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	train := &model.Train{
		Number:         in.Number,
		Name:           in.Name,
		Source:         in.Source,
		Destination:    in.Destination,
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		JourneyDate:    in.JourneyDate,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
		Price:          in.Price,
	}
	if err := s.repo.Create(train); err != nil {
		return nil, err
	}

	if s.seats != nil {
		if err := s.seats.SetAvailableSeats(train.ID, train.AvailableSeats); err != nil {
			s.logger.Warn("failed to warm availability cache", zap.Uint("train_id", train.ID), zap.Error(err))
		}
	}

	return train, nil
}

func (s *trainService) UpdateTrain(ctx context.Context, id uint, in UpdateTrainInput) (*model.Train, error) {
	train, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		train.Name = *in.Name
	}
	if in.Source != nil {
		train.Source = *in.Source
	}
	if in.Destination != nil {
		train.Destination = *in.Destination
	}
	if in.DepartureTime != nil {
		train.DepartureTime = *in.DepartureTime
	}
	if in.ArrivalTime != nil {
		train.ArrivalTime = *in.ArrivalTime
	}
	if in.JourneyDate != nil {
		train.JourneyDate = *in.JourneyDate
	}
	if in.Price != nil {
		train.Price = *in.Price
	}

	if err := s.repo.Save(train); err != nil {
		return nil, err
	}
	return train, nil
}

func (s *trainService) GetTrainByID(ctx context.Context, id uint) (*model.Train, error) {
	train, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	return train, nil
}

func (s *trainService) ListTrains(ctx context.Context) ([]model.Train, error) {
	return s.repo.ListAll()
}

func (s *trainService) SearchTrains(ctx context.Context, source, destination string, date time.Time) ([]model.Train, error) {
	return s.repo.Search(source, destination, date)
}

// GetAvailability serves the availability counter from the Redis mirror,
// falling back to the train row on a miss.
func (s *trainService) GetAvailability(ctx context.Context, id uint) (int, error) {
	if s.seats != nil {
		available, err := s.seats.GetAvailableSeats(id)
		if err == nil {
			return available, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("availability cache read failed", zap.Uint("train_id", id), zap.Error(err))
		}
	}

	train, err := s.GetTrainByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if s.seats != nil {
		if err := s.seats.SetAvailableSeats(id, train.AvailableSeats); err != nil {
			s.logger.Warn("failed to refresh availability cache", zap.Uint("train_id", id), zap.Error(err))
		}
	}
	return train.AvailableSeats, nil
}
