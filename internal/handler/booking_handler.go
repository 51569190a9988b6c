package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/railbook/railbook/internal/service/domain"
)

type BookingHandler struct {
	bookings domain.BookingService
}

func NewBookingHandler(bookings domain.BookingService) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
	}
}

type CreateBookingRequest struct {
	TrainID         uint   `json:"train_id" binding:"required"`
	PassengerName   string `json:"passenger_name" binding:"required"`
	PassengerAge    int    `json:"passenger_age" binding:"required,gt=0,lt=130"`
	PassengerGender string `json:"passenger_gender" binding:"required"`
}

func (h *BookingHandler) HandleCreate(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
			"detail":  err.Error(),
		})
		return
	}

	result, err := h.bookings.AllocateSeat(ctx.Request.Context(), domain.AllocateSeatInput{
		TrainID:         req.TrainID,
		UserID:          ctx.GetUint("user_id"),
		PassengerName:   req.PassengerName,
		PassengerAge:    req.PassengerAge,
		PassengerGender: req.PassengerGender,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTrainNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Train not found",
			})
			return
		}
		if errors.Is(err, domain.ErrNoSeatsAvailable) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "No seats available",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to book seat, please try again later",
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Seat booked successfully",
		"booking_id":  result.BookingID,
		"seat_number": result.SeatNumber,
	})
}

func (h *BookingHandler) HandleCancel(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	err := h.bookings.CancelBooking(ctx.Request.Context(), id, ctx.GetUint("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Booking not found",
			})
			return
		}
		if errors.Is(err, domain.ErrNotOwner) {
			ctx.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You can only cancel your own bookings",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to cancel booking, please try again later",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

func (h *BookingHandler) HandleList(ctx *gin.Context) {
	details, err := h.bookings.GetUserBookings(ctx.Request.Context(), ctx.GetUint("user_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list bookings",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": details,
	})
}

func (h *BookingHandler) HandleGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	details, err := h.bookings.GetBookingDetails(ctx.Request.Context(), id, ctx.GetUint("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Booking not found",
			})
			return
		}
		if errors.Is(err, domain.ErrNotOwner) {
			ctx.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You can only view your own bookings",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load booking",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": details,
	})
}
