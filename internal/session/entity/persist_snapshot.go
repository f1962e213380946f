package entity

import (
	"time"

	"IdleCity/internal/game/state"
)

// PersistSnapshot 交给写库协程。State 是不可变值，可以直接跨协程共享。
type PersistSnapshot struct {
	Version        uint64
	PlayerID       PlayerID
	SelectedCityID string
	SavedAt        time.Time
	State          *state.GameState
}

// SaveDocument 是从存储读回来的存档。
type SaveDocument struct {
	PlayerID       PlayerID
	SelectedCityID string
	SavedAt        time.Time
	State          *state.GameState
}
