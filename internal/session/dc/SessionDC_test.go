package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
	"IdleCity/internal/session/entity"
	"IdleCity/internal/session/infra/persistence"
	"IdleCity/internal/session/infra/persistence/memory"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func initial() *state.GameState {
	return state.Initial(catalog.Default())
}

// flakyRepo 前 failures 次 Save 失败，之后记下收到的快照。
type flakyRepo struct {
	mu       sync.Mutex
	failures int
	saved    []*entity.PersistSnapshot
	loadErr  error
	doc      *entity.SaveDocument
}

func (r *flakyRepo) Load(context.Context, entity.PlayerID) (*entity.SaveDocument, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.doc == nil {
		return nil, entity.ErrSaveNotFound
	}
	return r.doc, nil
}

func (r *flakyRepo) Save(_ context.Context, s *entity.PersistSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("db down")
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *flakyRepo) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func TestSessionDC_无存档从新档开始(t *testing.T) {
	d := NewSessionDC(&flakyRepo{}, initial, Options{})
	defer d.Close(context.Background())

	s, err := d.Load(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "city-1", s.State().Cities[0].ID)
	require.False(t, d.IsDirty())
	require.Empty(t, d.PreferredCityID())
}

func TestSessionDC_损坏存档记录错误并从新档开始(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	repo := &flakyRepo{loadErr: errx.ErrCorruptSave.WithCause(errors.New("bad magic"))}
	d := NewSessionDC(repo, initial, Options{Logger: logx.NewZapLogger(zap.New(core))})
	defer d.Close(context.Background())

	s, err := d.Load(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, s.State())
	require.Equal(t, 1, logs.FilterField(zap.String("err_type", "sys")).Len())
}

func TestSessionDC_存储故障加载失败(t *testing.T) {
	d := NewSessionDC(&flakyRepo{loadErr: errors.New("timeout")}, initial, Options{})
	defer d.Close(context.Background())

	_, err := d.Load(context.Background(), 1)
	require.Error(t, err)
}

func TestSessionDC_不脏不写(t *testing.T) {
	repo := &flakyRepo{}
	d := NewSessionDC(repo, initial, Options{})
	_, err := d.Load(context.Background(), 1)
	require.NoError(t, err)

	d.Flush(context.Background())
	require.NoError(t, d.Close(context.Background()))
	require.Zero(t, repo.savedCount())
}

func TestSessionDC_关闭时落盘并给激活城市打时间戳(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &flakyRepo{}
	d := NewSessionDC(repo, initial, Options{Now: func() time.Time { return now }})
	s, err := d.Load(context.Background(), 1)
	require.NoError(t, err)

	s.Select("city-1")
	next := s.State().Shallow()
	next.Tick = 10
	require.True(t, s.Apply(next))

	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, 1, repo.savedCount())

	saved := repo.saved[0]
	require.Equal(t, "city-1", saved.SelectedCityID)
	require.Equal(t, int64(10), saved.State.Tick)
	require.NotNil(t, saved.State.Cities[0].LastActive)
	require.True(t, now.Equal(*saved.State.Cities[0].LastActive))
	// 内存里的城市仍在实时模拟
	require.Nil(t, s.State().Cities[0].LastActive)
	require.False(t, d.IsDirty())
}

func TestSessionDC_写库失败重试(t *testing.T) {
	repo := &flakyRepo{failures: 2}
	d := NewSessionDC(repo, initial, Options{})
	s, err := d.Load(context.Background(), 1)
	require.NoError(t, err)

	next := s.State().Shallow()
	next.Tick = 1
	s.Apply(next)
	d.Flush(context.Background())

	require.Eventually(t, func() bool { return repo.savedCount() == 1 }, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, d.Close(context.Background()))
}

func TestSessionDC_经存档往返恢复激活城市(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSaveRepo(memory.NewSaveStore(), nil)

	d := NewSessionDC(repo, initial, Options{})
	s, err := d.Load(ctx, 8)
	require.NoError(t, err)
	s.Select("city-1")
	require.NoError(t, d.Close(ctx))

	d2 := NewSessionDC(repo, initial, Options{})
	defer d2.Close(ctx)
	s2, err := d2.Load(ctx, 8)
	require.NoError(t, err)
	require.Equal(t, "city-1", d2.PreferredCityID())
	// 新会话还没选城市，等 actor 选中时从时间戳补算
	require.Empty(t, s2.SelectedCityID())
	require.NotNil(t, s2.State().Cities[0].LastActive)
}
