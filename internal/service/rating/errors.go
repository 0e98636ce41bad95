package rating

import "errors"

var (
	ErrUserNotFound      = errors.New("rating: user not found")
	ErrRentalNotFound    = errors.New("rating: rental not found")
	ErrRentalNotFinished = errors.New("rating: rental is not finished")
	ErrAlreadyRated      = errors.New("rating: rental already rated")
	ErrInvalidInput      = errors.New("rating: invalid input")
	ErrInternal          = errors.New("rating: internal error")
)
