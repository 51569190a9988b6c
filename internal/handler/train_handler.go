package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/railbook/railbook/internal/service/domain"
)

const journeyDateLayout = "2006-01-02"

type TrainHandler struct {
	trains domain.TrainService
}

func NewTrainHandler(trains domain.TrainService) *TrainHandler {
	return &TrainHandler{
		trains: trains,
	}
}

type CreateTrainRequest struct {
	Number        string  `json:"number" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Source        string  `json:"source" binding:"required"`
	Destination   string  `json:"destination" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	JourneyDate   string  `json:"journey_date" binding:"required"`
	TotalSeats    int     `json:"total_seats" binding:"required,gt=0"`
	Price         float64 `json:"price" binding:"gte=0"`
}

type UpdateTrainRequest struct {
	Name          *string  `json:"name"`
	Source        *string  `json:"source"`
	Destination   *string  `json:"destination"`
	DepartureTime *string  `json:"departure_time"`
	ArrivalTime   *string  `json:"arrival_time"`
	JourneyDate   *string  `json:"journey_date"`
	Price         *float64 `json:"price"`
}

func (h *TrainHandler) HandleCreate(ctx *gin.Context) {
	var req CreateTrainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
			"detail":  err.Error(),
		})
		return
	}

	journeyDate, err := time.Parse(journeyDateLayout, req.JourneyDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "journey_date must be YYYY-MM-DD",
		})
		return
	}

	train, err := h.trains.CreateTrain(ctx.Request.Context(), domain.CreateTrainInput{
		Number:        req.Number,
		Name:          req.Name,
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		JourneyDate:   journeyDate,
		TotalSeats:    req.TotalSeats,
		Price:         req.Price,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTrainNumberTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Train number already exists",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create train",
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"train":   train,
	})
}

func (h *TrainHandler) HandleUpdate(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req UpdateTrainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
			"detail":  err.Error(),
		})
		return
	}

	in := domain.UpdateTrainInput{
		Name:          req.Name,
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
	}
	if req.JourneyDate != nil {
		journeyDate, err := time.Parse(journeyDateLayout, *req.JourneyDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "journey_date must be YYYY-MM-DD",
			})
			return
		}
		in.JourneyDate = &journeyDate
	}

	train, err := h.trains.UpdateTrain(ctx.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrTrainNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Train not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update train",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"train":   train,
	})
}

func (h *TrainHandler) HandleList(ctx *gin.Context) {
	trains, err := h.trains.ListTrains(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list trains",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"trains":  trains,
	})
}

func (h *TrainHandler) HandleSearch(ctx *gin.Context) {
	source := ctx.Query("source")
	destination := ctx.Query("destination")
	if source == "" || destination == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "source and destination are required",
		})
		return
	}

	var date time.Time
	if v := ctx.Query("date"); v != "" {
		parsed, err := time.Parse(journeyDateLayout, v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "date must be YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	trains, err := h.trains.SearchTrains(ctx.Request.Context(), source, destination, date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to search trains",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"trains":  trains,
	})
}

func (h *TrainHandler) HandleGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	train, err := h.trains.GetTrainByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTrainNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Train not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load train",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"train":   train,
	})
}

func (h *TrainHandler) HandleGetAvailability(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	available, err := h.trains.GetAvailability(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTrainNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Train not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load availability",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":         true,
		"train_id":        id,
		"available_seats": available,
	})
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid id",
		})
		return 0, false
	}
	return uint(id), true
}
