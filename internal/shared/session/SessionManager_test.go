package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	pushed []string
	once   sync.Once
	done   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(string, any) {}

func (c *fakeConn) GetProperty(string) any {
	return nil
}

func (c *fakeConn) RemoveProperty(string) {}

func (c *fakeConn) Addr() string {
	return "fake"
}

func (c *fakeConn) Push(name string, _ any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
	return true
}

func (c *fakeConn) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *fakeConn) Done() <-chan struct{} {
	return c.done
}

func (c *fakeConn) pushes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pushed...)
}

func TestSessMgr_新连接顶掉旧连接(t *testing.T) {
	m := NewSessMgr()
	first, second := newFakeConn(), newFakeConn()

	m.Bind(7, first)
	m.Bind(7, second)

	got, ok := m.GetConn(7)
	require.True(t, ok)
	require.Same(t, second, got)
	require.Equal(t, []string{PushKicked}, first.pushes())

	select {
	case <-first.Done():
	default:
		t.Fatal("旧连接应被关闭")
	}
	require.Eventually(t, func() bool {
		_, ok := m.GetPlayer(first)
		return !ok
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, m.Len())
}

func TestSessMgr_连接关闭自动解绑(t *testing.T) {
	m := NewSessMgr()
	conn := newFakeConn()
	m.Bind(8, conn)

	pid, ok := m.GetPlayer(conn)
	require.True(t, ok)
	require.EqualValues(t, 8, pid)

	conn.Close()
	require.Eventually(t, func() bool {
		return m.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSessMgr_忽略空连接(t *testing.T) {
	m := NewSessMgr()
	m.Bind(1, nil)
	require.Zero(t, m.Len())
}
