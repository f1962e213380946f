package entity

import (
	"time"

	"IdleCity/internal/game/state"
)

type PlayerID int64

// Session 是一个玩家在内存里的全部数据：当前状态和激活城市。
type Session struct {
	playerID PlayerID
	state    *state.GameState
	selected string
	dirty    bool
}

func NewSession(playerID PlayerID, s *state.GameState) *Session {
	return &Session{playerID: playerID, state: s}
}

func (s *Session) ID() PlayerID {
	return s.playerID
}

func (s *Session) State() *state.GameState {
	if s == nil {
		return nil
	}
	return s.state
}

// SelectedCityID 是正在实时模拟的城市，空串表示还没选。
func (s *Session) SelectedCityID() string {
	if s == nil {
		return ""
	}
	return s.selected
}

// Apply 接受一次状态转换。指针没变说明被拒绝或没有变化，不置脏。
func (s *Session) Apply(next *state.GameState) bool {
	if s == nil || next == nil || next == s.state {
		return false
	}
	s.state = next
	s.dirty = true
	return true
}

func (s *Session) Select(cityID string) {
	if s == nil || s.selected == cityID {
		return
	}
	s.selected = cityID
	s.dirty = true
}

func (s *Session) Dirty() bool {
	if s == nil {
		return false
	}
	return s.dirty
}

func (s *Session) ClearDirty() {
	if s == nil {
		return
	}
	s.dirty = false
}

// BuildPersistSnapshot 生成存档快照。正在模拟的城市在快照里打上 savedAt 时间戳，
// 重新加载后从这个时间点开始补算；内存里的状态不受影响。
func (s *Session) BuildPersistSnapshot(version uint64, savedAt time.Time) (*PersistSnapshot, bool) {
	if s == nil || s.state == nil || !s.dirty {
		return nil, false
	}
	st := s.state
	if i := st.CityIndex(s.selected); i >= 0 && st.Cities[i].LastActive == nil {
		n := st.Shallow()
		n.Cities = state.WithCity(n.Cities, i, n.Cities[i].StampedAt(savedAt))
		st = n
	}
	return &PersistSnapshot{
		Version:        version,
		PlayerID:       s.playerID,
		SelectedCityID: s.selected,
		SavedAt:        savedAt,
		State:          st,
	}, true
}
