package entity

import (
	"errors"
)

var (
	ErrSaveNotFound    = errors.New("save not found")
	ErrInvalidPlayerID = errors.New("invalid player id")
)
