package session

import (
	"IdleCity/internal/shared/transport/ws"
	"sync"
)

// PushKicked 通知旧连接被同一玩家的新连接顶掉。
const PushKicked = "push.kicked"

// Manager 维护玩家与 ws 连接的一对一绑定。
type Manager interface {
	Bind(playerID int64, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	GetConn(playerID int64) (ws.WSConn, bool)
	GetPlayer(conn ws.WSConn) (int64, bool)
	Len() int
}

type SessMgr struct {
	sync.RWMutex
	pid2conn map[int64]ws.WSConn
	conn2pid map[ws.WSConn]int64
}

func NewSessMgr() Manager {
	return &SessMgr{
		pid2conn: make(map[int64]ws.WSConn),
		conn2pid: make(map[ws.WSConn]int64),
	}
}

func (s *SessMgr) Bind(playerID int64, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	_, watched := s.conn2pid[conn]
	oldConn := s.pid2conn[playerID]
	s.pid2conn[playerID] = conn
	s.conn2pid[conn] = playerID
	s.Unlock()

	// 每条连接只起一个 watcher，连接关闭后自动解绑
	if !watched {
		go s.watchConnDone(conn)
	}
	// 踢掉原来的那个，放在锁外，Close 会触发旧连接的 watcher
	if oldConn != nil && oldConn != conn {
		oldConn.Push(PushKicked, nil)
		oldConn.Close()
	}
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	pid, ok := s.conn2pid[conn]
	if !ok {
		return
	}
	delete(s.conn2pid, conn)
	if s.pid2conn[pid] == conn {
		delete(s.pid2conn, pid)
	}
}

func (s *SessMgr) GetConn(playerID int64) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.pid2conn[playerID]
	return conn, ok
}

func (s *SessMgr) GetPlayer(conn ws.WSConn) (int64, bool) {
	s.RLock()
	defer s.RUnlock()
	pid, ok := s.conn2pid[conn]
	return pid, ok
}

// Len 返回在线连接数。
func (s *SessMgr) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.pid2conn)
}
