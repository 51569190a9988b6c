package workflow

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/railbook/railbook/internal/mq"
)

// NotificationWorkflow consumes booking events and dispatches passenger
// notifications. The dispatch itself is a structured log line; a deployment
// would hang a mail or push provider off the same hook.
type NotificationWorkflow struct {
	logger *zap.Logger
}

func NewNotificationWorkflow(logger *zap.Logger) *NotificationWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorkflow{
		logger: logger,
	}
}

func (w *NotificationWorkflow) Start(mqConn *amqp.Connection) error {
	if err := w.ConsumeBookingEvents(mqConn); err != nil {
		return err
	}
	return nil
}

func (w *NotificationWorkflow) ConsumeBookingEvents(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.BookingEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleBookingEvent(msg); err != nil {
				w.logger.Error("failed to handle booking event", zap.Error(err))
			}
		}
	}()

	return nil
}

func (w *NotificationWorkflow) handleBookingEvent(msg amqp.Delivery) error {
	var message mq.BookingEventMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	switch message.Type {
	case mq.BookingEventConfirmed:
		w.logger.Info("booking confirmation notification sent",
			zap.Uint("booking_id", message.BookingID),
			zap.Uint("user_id", message.UserID),
			zap.Uint("train_id", message.TrainID),
			zap.Int("seat_number", message.SeatNumber),
		)
	case mq.BookingEventCancelled:
		w.logger.Info("booking cancellation notification sent",
			zap.Uint("booking_id", message.BookingID),
			zap.Uint("user_id", message.UserID),
			zap.Uint("train_id", message.TrainID),
		)
	default:
		w.logger.Warn("unknown booking event type", zap.String("type", string(message.Type)))
	}

	msg.Ack(false)

	return nil
}
