package cache

import (
	"errors"
	"fmt"
)

// key names definition
const (
	TrainAvailableSeatsKey = "train:%d:seats:available" // '%d' is train id
)

func MakeTrainAvailableSeatsKey(trainID uint) string {
	return fmt.Sprintf("train:%d:seats:available", trainID)
}

var ErrCacheMiss = errors.New("key not found in cache")
