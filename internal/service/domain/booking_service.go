package domain

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/cache"
	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/mq"
	"github.com/railbook/railbook/internal/repository"
)

type AllocateSeatInput struct {
	TrainID         uint
	UserID          uint
	PassengerName   string
	PassengerAge    int
	PassengerGender string
}

type AllocationResult struct {
	BookingID      uint
	SeatNumber     int
	AvailableSeats int
}

type BookingDetails struct {
	Booking model.Booking `json:"booking"`
	Train   model.Train   `json:"train"`
}

type BookingService interface {
	AllocateSeat(ctx context.Context, in AllocateSeatInput) (*AllocationResult, error)
	CancelBooking(ctx context.Context, bookingID, userID uint) error
	GetBookingDetails(ctx context.Context, bookingID, userID uint) (*BookingDetails, error)
	GetUserBookings(ctx context.Context, userID uint) ([]BookingDetails, error)
}

type bookingService struct {
	db       *gorm.DB
	trains   repository.TrainRepo
	bookings repository.BookingRepo
	locks    *trainLocks
	seats    *cache.RedisCache
	events   *mq.Publisher
	logger   *zap.Logger
}

var _ BookingService = (*bookingService)(nil)

// NewBookingService builds the seat allocator. seats and events may be nil;
// both are post-commit conveniences, not part of the booking invariant.
func NewBookingService(db *gorm.DB, trainRepo repository.TrainRepo, bookingRepo repository.BookingRepo,
	seats *cache.RedisCache, events *mq.Publisher, logger *zap.Logger) *bookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bookingService{
		db:       db,
		trains:   trainRepo,
		bookings: bookingRepo,
		locks:    newTrainLocks(),
		seats:    seats,
		events:   events,
		logger:   logger,
	}
}

// AllocateSeat reserves exactly one seat on the train or fails cleanly.
//
// The per-train mutex serializes the read-check-write sequence for one train
// while other trains proceed in parallel. Inside the critical section a single
// transaction re-checks existence and availability, issues the next seat
// number as MAX(seat_number)+1, inserts the booking, and decrements the
// counter. Any error rolls the whole unit back: no partial booking, no
// partial decrement. Seat numbers are issued monotonically; cancellation
// frees capacity but never a number.
func (s *bookingService) AllocateSeat(ctx context.Context, in AllocateSeatInput) (*AllocationResult, error) {
	lock := s.locks.get(in.TrainID)
	lock.Lock()
	defer lock.Unlock()

	var result AllocationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trains := s.trains.WithTx(tx)
		bookings := s.bookings.WithTx(tx)

		train, err := trains.GetByID(in.TrainID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTrainNotFound
			}
			return err
		}
		if train.AvailableSeats <= 0 {
			return ErrNoSeatsAvailable
		}

		maxSeat, err := bookings.MaxSeatNumber(in.TrainID)
		if err != nil {
			return err
		}

		booking := &model.Booking{
			UserID:          in.UserID,
			TrainID:         in.TrainID,
			SeatNumber:      maxSeat + 1,
			Status:          model.BookingConfirmed,
			PassengerName:   in.PassengerName,
			PassengerAge:    in.PassengerAge,
			PassengerGender: in.PassengerGender,
		}
		if err := bookings.Create(booking); err != nil {
			return err
		}

		ok, err := trains.DecrementAvailableSeats(in.TrainID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoSeatsAvailable
		}

		result = AllocationResult{
			BookingID:      booking.ID,
			SeatNumber:     booking.SeatNumber,
			AvailableSeats: train.AvailableSeats - 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(in.TrainID, result.AvailableSeats, mq.BookingEventMessage{
		Type:       mq.BookingEventConfirmed,
		BookingID:  result.BookingID,
		TrainID:    in.TrainID,
		UserID:     in.UserID,
		SeatNumber: result.SeatNumber,
	})

	return &result, nil
}

// CancelBooking deletes the caller's booking and returns its seat to the
// train's counter as one atomic unit.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uint) error {
	// Resolve the train first so cancellation takes the same per-train lock
	// as allocation.
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if booking.UserID != userID {
		return ErrNotOwner
	}

	lock := s.locks.get(booking.TrainID)
	lock.Lock()
	defer lock.Unlock()

	var remaining int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trains := s.trains.WithTx(tx)
		bookings := s.bookings.WithTx(tx)

		// Re-check under the lock; a concurrent cancel may have won.
		booking, err := bookings.GetByID(bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.UserID != userID {
			return ErrNotOwner
		}

		if err := bookings.Delete(bookingID); err != nil {
			return err
		}

		ok, err := trains.IncrementAvailableSeats(booking.TrainID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("seat counter already at capacity")
		}

		train, err := trains.GetByID(booking.TrainID)
		if err != nil {
			return err
		}
		remaining = train.AvailableSeats
		return nil
	})
	if err != nil {
		return err
	}

	s.afterCommit(booking.TrainID, remaining, mq.BookingEventMessage{
		Type:       mq.BookingEventCancelled,
		BookingID:  bookingID,
		TrainID:    booking.TrainID,
		UserID:     userID,
		SeatNumber: booking.SeatNumber,
	})

	return nil
}

func (s *bookingService) GetBookingDetails(ctx context.Context, bookingID, userID uint) (*BookingDetails, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}

	train, err := s.trains.GetByID(booking.TrainID)
	if err != nil {
		return nil, err
	}

	return &BookingDetails{Booking: *booking, Train: *train}, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uint) ([]BookingDetails, error) {
	bookings, err := s.bookings.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	trainsByID := make(map[uint]*model.Train)
	details := make([]BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		train, ok := trainsByID[b.TrainID]
		if !ok {
			train, err = s.trains.GetByID(b.TrainID)
			if err != nil {
				return nil, err
			}
			trainsByID[b.TrainID] = train
		}
		details = append(details, BookingDetails{Booking: b, Train: *train})
	}
	return details, nil
}

// afterCommit refreshes the availability mirror and publishes the booking
// event. Both are best effort; the booking is already durable.
func (s *bookingService) afterCommit(trainID uint, available int, event mq.BookingEventMessage) {
	if s.seats != nil {
		if err := s.seats.SetAvailableSeats(trainID, available); err != nil {
			s.logger.Warn("failed to refresh availability cache",
				zap.Uint("train_id", trainID), zap.Error(err))
		}
	}
	if s.events != nil {
		if err := s.events.PublishBookingEvent(event); err != nil {
			s.logger.Warn("failed to publish booking event",
				zap.Uint("booking_id", event.BookingID), zap.Error(err))
		}
	}
}
