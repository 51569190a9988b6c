package mq

// Queue names and message definitions

// immediate queue from the booking service to the notification worker;
// one message per committed allocation or cancellation
const (
	BookingEventsQueue = "booking.events"
)

type BookingEventType string

const (
	BookingEventConfirmed BookingEventType = "confirmed"
	BookingEventCancelled BookingEventType = "cancelled"
)

type BookingEventMessage struct {
	Type       BookingEventType `json:"type"`
	BookingID  uint             `json:"booking_id"`
	TrainID    uint             `json:"train_id"`
	UserID     uint             `json:"user_id"`
	SeatNumber int              `json:"seat_number"`
}
