package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/model"
)

type TrainRepo interface {
	WithTx(tx *gorm.DB) TrainRepo
	Create(train *model.Train) error
	Save(train *model.Train) error
	GetByID(id uint) (*model.Train, error)
	GetByNumber(number string) (*model.Train, error)
	ListAll() ([]model.Train, error)
	Search(source, destination string, date time.Time) ([]model.Train, error)
	DecrementAvailableSeats(id uint) (bool, error)
	IncrementAvailableSeats(id uint) (bool, error)
}

type trainRepoGorm struct {
	db *gorm.DB
}

var _ TrainRepo = (*trainRepoGorm)(nil)

func NewTrainRepoGorm(db *gorm.DB) *trainRepoGorm {
	return &trainRepoGorm{
		db: db,
	}
}

func (r *trainRepoGorm) WithTx(tx *gorm.DB) TrainRepo {
	return &trainRepoGorm{
		db: tx,
	}
}

func (r *trainRepoGorm) Create(train *model.Train) error {
	ctx := context.Background()
	if err := gorm.G[model.Train](r.db).Create(ctx, train); err != nil {
		return err
	}
	return nil
}

func (r *trainRepoGorm) Save(train *model.Train) error {
	return r.db.Save(train).Error
}

func (r *trainRepoGorm) GetByID(id uint) (*model.Train, error) {
	ctx := context.Background()
	train, err := gorm.G[model.Train](r.db).Where(&model.Train{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &train, nil
}

func (r *trainRepoGorm) GetByNumber(number string) (*model.Train, error) {
	ctx := context.Background()
	train, err := gorm.G[model.Train](r.db).Where(&model.Train{Number: number}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &train, nil
}

func (r *trainRepoGorm) ListAll() ([]model.Train, error) {
	ctx := context.Background()
	trains, err := gorm.G[model.Train](r.db).Order("journey_date, departure_time").Find(ctx)
	if err != nil {
		return nil, err
	}
	return trains, nil
}

func (r *trainRepoGorm) Search(source, destination string, date time.Time) ([]model.Train, error) {
	ctx := context.Background()
	q := gorm.G[model.Train](r.db).Where("source = ? AND destination = ?", source, destination)
	if !date.IsZero() {
		q = q.Where("journey_date = ?", date)
	}
	trains, err := q.Order("journey_date, departure_time").Find(ctx)
	if err != nil {
		return nil, err
	}
	return trains, nil
}

// DecrementAvailableSeats takes one seat off the counter, guarded so the
// counter can never go below zero. Reports whether a row was updated.
func (r *trainRepoGorm) DecrementAvailableSeats(id uint) (bool, error) {
	res := r.db.Model(&model.Train{}).
		Where("id = ? AND available_seats > 0", id).
		Update("available_seats", gorm.Expr("available_seats - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementAvailableSeats returns one seat to the counter, guarded so the
// counter can never exceed the train's capacity.
func (r *trainRepoGorm) IncrementAvailableSeats(id uint) (bool, error) {
	res := r.db.Model(&model.Train{}).
		Where("id = ? AND available_seats < total_seats", id).
		Update("available_seats", gorm.Expr("available_seats + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
