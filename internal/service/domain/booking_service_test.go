package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/database"
	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one shared in-memory database per test, single connection so the
	// sqlite file is never contended
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Train{}, &model.Booking{}))
	return db
}

func newBookingService(db *gorm.DB) *bookingService {
	return NewBookingService(db,
		repository.NewTrainRepoGorm(db),
		repository.NewBookingRepoGorm(db),
		nil, nil, nil,
	)
}

func createTestTrain(t *testing.T, db *gorm.DB, totalSeats, availableSeats int) *model.Train {
	t.Helper()
	train := &model.Train{
		Number:         fmt.Sprintf("TR-%s", strings.ReplaceAll(t.Name(), "/", "_")),
		Name:           "Night Express",
		Source:         "Springfield",
		Destination:    "Shelbyville",
		DepartureTime:  "21:40",
		ArrivalTime:    "06:15",
		JourneyDate:    time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		TotalSeats:     totalSeats,
		AvailableSeats: availableSeats,
		Price:          42.50,
	}
	require.NoError(t, db.Create(train).Error)
	return train
}

func allocateInput(trainID uint, userID uint) AllocateSeatInput {
	return AllocateSeatInput{
		TrainID:         trainID,
		UserID:          userID,
		PassengerName:   "Jo Passenger",
		PassengerAge:    34,
		PassengerGender: "female",
	}
}

func fetchTrain(t *testing.T, db *gorm.DB, id uint) *model.Train {
	t.Helper()
	var train model.Train
	require.NoError(t, db.First(&train, id).Error)
	return &train
}

func countBookings(t *testing.T, db *gorm.DB, trainID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Booking{}).Where("train_id = ?", trainID).Count(&n).Error)
	return n
}

func TestAllocateSeat_FirstSeat(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 5, 5)

	result, err := svc.AllocateSeat(context.Background(), allocateInput(train.ID, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SeatNumber)
	assert.NotZero(t, result.BookingID)
	assert.Equal(t, 4, fetchTrain(t, db, train.ID).AvailableSeats)

	var booking model.Booking
	require.NoError(t, db.First(&booking, result.BookingID).Error)
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.Equal(t, "Jo Passenger", booking.PassengerName)
}

func TestAllocateSeat_TrainNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)

	_, err := svc.AllocateSeat(context.Background(), allocateInput(9999, 1))
	assert.ErrorIs(t, err, ErrTrainNotFound)
}

func TestAllocateSeat_NoSeatsAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 5, 0)

	_, err := svc.AllocateSeat(context.Background(), allocateInput(train.ID, 1))
	assert.ErrorIs(t, err, ErrNoSeatsAvailable)

	assert.Equal(t, 0, fetchTrain(t, db, train.ID).AvailableSeats)
	assert.EqualValues(t, 0, countBookings(t, db, train.ID))
}

// n+k concurrent callers against n seats: exactly n succeed, seat numbers are
// pairwise distinct, and the counter lands on zero.
func TestAllocateSeat_ConcurrentNoOversell(t *testing.T) {
	const (
		seats   = 5
		callers = 12
	)

	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, seats, seats)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []int
		soldOut   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			result, err := svc.AllocateSeat(context.Background(), allocateInput(train.ID, userID))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if assert.ErrorIs(t, err, ErrNoSeatsAvailable) {
					soldOut++
				}
				return
			}
			succeeded = append(succeeded, result.SeatNumber)
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Len(t, succeeded, seats)
	assert.Equal(t, callers-seats, soldOut)
	assert.Equal(t, 0, fetchTrain(t, db, train.ID).AvailableSeats)
	assert.EqualValues(t, seats, countBookings(t, db, train.ID))

	seen := make(map[int]bool)
	for _, seat := range succeeded {
		assert.False(t, seen[seat], "seat %d allocated twice", seat)
		seen[seat] = true
		assert.GreaterOrEqual(t, seat, 1)
		assert.LessOrEqual(t, seat, seats)
	}
}

// Two concurrent callers for the last seat: one wins seat 1, the other is
// turned away, and exactly one booking row exists afterwards.
func TestAllocateSeat_LastSeatContention(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 1, 1)

	type outcome struct {
		result *AllocationResult
		err    error
	}
	outcomes := make(chan outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			result, err := svc.AllocateSeat(context.Background(), allocateInput(train.ID, userID))
			outcomes <- outcome{result, err}
		}(uint(i + 1))
	}
	wg.Wait()
	close(outcomes)

	var wins, losses int
	for o := range outcomes {
		if o.err == nil {
			wins++
			assert.Equal(t, 1, o.result.SeatNumber)
		} else {
			losses++
			assert.ErrorIs(t, o.err, ErrNoSeatsAvailable)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, fetchTrain(t, db, train.ID).AvailableSeats)
	assert.EqualValues(t, 1, countBookings(t, db, train.ID))
}

// Cancelling seat 2 of {1,2,3} frees capacity but not the number: the next
// allocation gets seat 4.
func TestAllocateSeat_MonotonicAfterCancellation(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 10, 10)
	ctx := context.Background()

	var bookingIDs []uint
	for seat := 1; seat <= 3; seat++ {
		result, err := svc.AllocateSeat(ctx, allocateInput(train.ID, 1))
		require.NoError(t, err)
		require.Equal(t, seat, result.SeatNumber)
		bookingIDs = append(bookingIDs, result.BookingID)
	}
	require.Equal(t, 7, fetchTrain(t, db, train.ID).AvailableSeats)

	require.NoError(t, svc.CancelBooking(ctx, bookingIDs[1], 1))
	assert.Equal(t, 8, fetchTrain(t, db, train.ID).AvailableSeats)

	result, err := svc.AllocateSeat(ctx, allocateInput(train.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, result.SeatNumber)
}

func TestCancelBooking_Symmetry(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 5, 5)
	ctx := context.Background()

	result, err := svc.AllocateSeat(ctx, allocateInput(train.ID, 7))
	require.NoError(t, err)
	require.Equal(t, 4, fetchTrain(t, db, train.ID).AvailableSeats)

	require.NoError(t, svc.CancelBooking(ctx, result.BookingID, 7))

	assert.Equal(t, 5, fetchTrain(t, db, train.ID).AvailableSeats)
	assert.EqualValues(t, 0, countBookings(t, db, train.ID))

	_, err = svc.GetBookingDetails(ctx, result.BookingID, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBooking_NotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 5, 5)
	ctx := context.Background()

	result, err := svc.AllocateSeat(ctx, allocateInput(train.ID, 7))
	require.NoError(t, err)

	err = svc.CancelBooking(ctx, result.BookingID, 8)
	assert.ErrorIs(t, err, ErrNotOwner)

	// nothing changed
	assert.Equal(t, 4, fetchTrain(t, db, train.ID).AvailableSeats)
	assert.EqualValues(t, 1, countBookings(t, db, train.ID))
}

func TestCancelBooking_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)

	err := svc.CancelBooking(context.Background(), 424242, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// failingTrainRepo simulates a storage failure on the counter decrement,
// after the seat number has been computed and the booking row inserted.
type failingTrainRepo struct {
	repository.TrainRepo
}

func (r *failingTrainRepo) WithTx(tx *gorm.DB) repository.TrainRepo {
	return &failingTrainRepo{TrainRepo: r.TrainRepo.WithTx(tx)}
}

func (r *failingTrainRepo) DecrementAvailableSeats(id uint) (bool, error) {
	return false, errors.New("simulated storage failure")
}

func TestAllocateSeat_RollsBackOnStorageFailure(t *testing.T) {
	db := newTestDB(t)
	train := createTestTrain(t, db, 5, 5)

	svc := NewBookingService(db,
		&failingTrainRepo{TrainRepo: repository.NewTrainRepoGorm(db)},
		repository.NewBookingRepoGorm(db),
		nil, nil, nil,
	)

	_, err := svc.AllocateSeat(context.Background(), allocateInput(train.ID, 1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTrainNotFound)
	assert.NotErrorIs(t, err, ErrNoSeatsAvailable)

	// the whole unit rolled back: no booking row, counter untouched
	assert.EqualValues(t, 0, countBookings(t, db, train.ID))
	assert.Equal(t, 5, fetchTrain(t, db, train.ID).AvailableSeats)
}

// Allocations on different trains proceed independently.
func TestAllocateSeat_IndependentTrains(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	trainA := createTestTrain(t, db, 3, 3)
	trainB := &model.Train{
		Number: "TR-B", Name: "Coast Line",
		Source: "Springfield", Destination: "Ogdenville",
		DepartureTime: "08:00", ArrivalTime: "12:30",
		JourneyDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TotalSeats:  3, AvailableSeats: 3, Price: 18,
	}
	require.NoError(t, db.Create(trainB).Error)

	var wg sync.WaitGroup
	for _, trainID := range []uint{trainA.ID, trainB.ID} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				_, err := svc.AllocateSeat(ctx, allocateInput(id, uint(i+1)))
				assert.NoError(t, err)
			}
		}(trainID)
	}
	wg.Wait()

	assert.Equal(t, 0, fetchTrain(t, db, trainA.ID).AvailableSeats)
	assert.Equal(t, 0, fetchTrain(t, db, trainB.ID).AvailableSeats)
	assert.EqualValues(t, 3, countBookings(t, db, trainA.ID))
	assert.EqualValues(t, 3, countBookings(t, db, trainB.ID))
}

func TestGetUserBookings_JoinsTrainDetails(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	train := createTestTrain(t, db, 5, 5)
	ctx := context.Background()

	first, err := svc.AllocateSeat(ctx, allocateInput(train.ID, 3))
	require.NoError(t, err)
	_, err = svc.AllocateSeat(ctx, allocateInput(train.ID, 4))
	require.NoError(t, err)

	details, err := svc.GetUserBookings(ctx, 3)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, first.BookingID, details[0].Booking.ID)
	assert.Equal(t, train.Number, details[0].Train.Number)
}
