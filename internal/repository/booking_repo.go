package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/model"
)

type BookingRepo interface {
	WithTx(tx *gorm.DB) BookingRepo
	Create(booking *model.Booking) error
	GetByID(id uint) (*model.Booking, error)
	GetByUserID(userID uint) ([]model.Booking, error)
	GetByTrainID(trainID uint) ([]model.Booking, error)
	MaxSeatNumber(trainID uint) (int, error)
	Delete(id uint) error
}

type bookingRepoGorm struct {
	db *gorm.DB
}

var _ BookingRepo = (*bookingRepoGorm)(nil)

func NewBookingRepoGorm(db *gorm.DB) *bookingRepoGorm {
	return &bookingRepoGorm{
		db: db,
	}
}

func (r *bookingRepoGorm) WithTx(tx *gorm.DB) BookingRepo {
	return &bookingRepoGorm{
		db: tx,
	}
}

func (r *bookingRepoGorm) Create(booking *model.Booking) error {
	ctx := context.Background()
	if err := gorm.G[model.Booking](r.db).Create(ctx, booking); err != nil {
		return err
	}
	return nil
}

func (r *bookingRepoGorm) GetByID(id uint) (*model.Booking, error) {
	ctx := context.Background()
	booking, err := gorm.G[model.Booking](r.db).Where(&model.Booking{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepoGorm) GetByUserID(userID uint) ([]model.Booking, error) {
	ctx := context.Background()
	bookings, err := gorm.G[model.Booking](r.db).Where(&model.Booking{UserID: userID}).Order("created_at DESC").Find(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepoGorm) GetByTrainID(trainID uint) ([]model.Booking, error) {
	ctx := context.Background()
	bookings, err := gorm.G[model.Booking](r.db).Where(&model.Booking{TrainID: trainID}).Order("seat_number").Find(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// MaxSeatNumber returns the highest seat number issued for the train, or 0
// when the train has no live bookings.
func (r *bookingRepoGorm) MaxSeatNumber(trainID uint) (int, error) {
	var maxSeat int
	err := r.db.Model(&model.Booking{}).
		Where("train_id = ?", trainID).
		Select("COALESCE(MAX(seat_number), 0)").
		Scan(&maxSeat).Error
	if err != nil {
		return 0, err
	}
	return maxSeat, nil
}

func (r *bookingRepoGorm) Delete(id uint) error {
	ctx := context.Background()
	_, err := gorm.G[model.Booking](r.db).Where(&model.Booking{ID: id}).Delete(ctx)
	return err
}
