package errors

import "errors"

var (
	ErrInvalidLateEvent   = errors.New("invalid late event input")
	ErrInvalidPeriod      = errors.New("invalid statistics period")
	ErrStatisticsNotFound = errors.New("attendance statistics not found")
	ErrConflict           = errors.New("attendance statistics conflict")
)
