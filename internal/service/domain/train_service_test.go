package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/repository"
)

func newTrainService(db *gorm.DB) *trainService {
	return NewTrainService(db, repository.NewTrainRepoGorm(db), nil, nil)
}

func testCreateInput(number string) CreateTrainInput {
	return CreateTrainInput{
		Number:        number,
		Name:          "Valley Express",
		Source:        "North Haverbrook",
		Destination:   "Capital City",
		DepartureTime: "07:15",
		ArrivalTime:   "11:05",
		JourneyDate:   time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		TotalSeats:    80,
		Price:         25,
	}
}

func TestCreateTrain_StartsFull(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)

	train, err := svc.CreateTrain(context.Background(), testCreateInput("10001"))
	require.NoError(t, err)

	assert.Equal(t, 80, train.TotalSeats)
	assert.Equal(t, 80, train.AvailableSeats)
	assert.NotZero(t, train.ID)
}

func TestCreateTrain_DuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)
	ctx := context.Background()

	_, err := svc.CreateTrain(ctx, testCreateInput("10002"))
	require.NoError(t, err)

	_, err = svc.CreateTrain(ctx, testCreateInput("10002"))
	assert.ErrorIs(t, err, ErrTrainNumberTaken)
}

func TestSearchTrains_FiltersByRouteAndDate(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)
	ctx := context.Background()

	in := testCreateInput("10003")
	_, err := svc.CreateTrain(ctx, in)
	require.NoError(t, err)

	other := testCreateInput("10004")
	other.Destination = "Ogdenville"
	_, err = svc.CreateTrain(ctx, other)
	require.NoError(t, err)

	later := testCreateInput("10005")
	later.JourneyDate = in.JourneyDate.AddDate(0, 0, 1)
	_, err = svc.CreateTrain(ctx, later)
	require.NoError(t, err)

	results, err := svc.SearchTrains(ctx, in.Source, in.Destination, in.JourneyDate)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "10003", results[0].Number)

	// date omitted: both journeys on the route match
	results, err = svc.SearchTrains(ctx, in.Source, in.Destination, time.Time{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestUpdateTrain_NeverTouchesSeatCounters(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)
	ctx := context.Background()

	train, err := svc.CreateTrain(ctx, testCreateInput("10006"))
	require.NoError(t, err)

	newName := "Valley Express (rerouted)"
	newPrice := 31.0
	updated, err := svc.UpdateTrain(ctx, train.ID, UpdateTrainInput{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, train.TotalSeats, updated.TotalSeats)
	assert.Equal(t, train.AvailableSeats, updated.AvailableSeats)
}

func TestUpdateTrain_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)

	name := "Ghost Train"
	_, err := svc.UpdateTrain(context.Background(), 555555, UpdateTrainInput{Name: &name})
	assert.ErrorIs(t, err, ErrTrainNotFound)
}

func TestGetAvailability_FallsBackToDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := newTrainService(db)
	ctx := context.Background()

	train, err := svc.CreateTrain(ctx, testCreateInput("10007"))
	require.NoError(t, err)

	available, err := svc.GetAvailability(ctx, train.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, available)

	_, err = svc.GetAvailability(ctx, 999999)
	assert.ErrorIs(t, err, ErrTrainNotFound)
}
