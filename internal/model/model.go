package model

import (
	"time"
)

type User struct {
	ID             uint     `gorm:"primaryKey"`
	Name           string   `gorm:"size:64;not null;uniqueIndex"`
	HashedPassword string   `gorm:"not null" json:"-"`
	Role           UserRole `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Train is one scheduled run. AvailableSeats is mutated only by the seat
// allocator and must stay within [0, TotalSeats].
type Train struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Number         string    `gorm:"size:16;not null;uniqueIndex" json:"number"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Source         string    `gorm:"size:100;not null;index:idx_trains_route" json:"source"`
	Destination    string    `gorm:"size:100;not null;index:idx_trains_route" json:"destination"`
	DepartureTime  string    `gorm:"size:8;not null" json:"departure_time"`
	ArrivalTime    string    `gorm:"size:8;not null" json:"arrival_time"`
	JourneyDate    time.Time `gorm:"not null;index" json:"journey_date"`
	TotalSeats     int       `gorm:"not null" json:"total_seats"`
	AvailableSeats int       `gorm:"not null;check:available_seats >= 0" json:"available_seats"`
	Price          float64   `gorm:"not null" json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Booking is one passenger's reservation of one seat on one train.
// The composite unique index on (train_id, seat_number) is the schema-level
// backstop for the allocator's uniqueness invariant. Cancellation hard-deletes
// the row, so persisted bookings are always confirmed.
type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;index" json:"user_id"`
	TrainID         uint          `gorm:"not null;uniqueIndex:idx_bookings_train_seat" json:"train_id"`
	SeatNumber      int           `gorm:"not null;uniqueIndex:idx_bookings_train_seat" json:"seat_number"`
	Status          BookingStatus `gorm:"type:varchar(16);not null" json:"status"`
	PassengerName   string        `gorm:"size:100;not null" json:"passenger_name"`
	PassengerAge    int           `gorm:"not null" json:"passenger_age"`
	PassengerGender string        `gorm:"size:16;not null" json:"passenger_gender"`
	CreatedAt       time.Time     `json:"created_at"`
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)
