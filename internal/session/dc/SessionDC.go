package dc

import (
	"IdleCity/internal/game/state"
	"IdleCity/internal/session/app/port"
	"IdleCity/internal/session/entity"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type PlayerID = entity.PlayerID

const (
	defaultFlushEvery = 5000 * time.Millisecond
	saveTimeout       = 5 * time.Second
	retryBackoff      = 200 * time.Millisecond
)

// Options 是 SessionDC 的可选依赖，零值可用。
type Options struct {
	FlushEvery time.Duration
	Logger     logx.Logger
	Now        func() time.Time
}

type SessionDC struct {
	repo       port.SaveRepository
	initial    func() *state.GameState
	entity     *entity.Session
	flushEvery time.Duration
	log        logx.Logger
	now        func() time.Time

	// preferred 是存档里记录的激活城市，加载后由 actor 重新选中。
	preferred string

	mu      sync.Mutex
	pending *entity.PersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewSessionDC 创建数据缓存并启动写库协程。initial 在没有可用存档时提供新档。
func NewSessionDC(repo port.SaveRepository, initial func() *state.GameState, opts Options) *SessionDC {
	d := &SessionDC{
		repo:       repo,
		initial:    initial,
		flushEvery: opts.FlushEvery,
		log:        opts.Logger,
		now:        opts.Now,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if d.flushEvery <= 0 {
		d.flushEvery = defaultFlushEvery
	}
	if d.log == nil {
		d.log = logx.Nop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	go d.writerLoop()
	return d
}

// Load 全量加载存档到内存。没有存档或存档损坏时从新档开始，只有存储故障才返回错误。
func (d *SessionDC) Load(ctx context.Context, playerID PlayerID) (*entity.Session, error) {
	doc, err := d.repo.Load(ctx, playerID)
	switch {
	case err == nil:
		d.entity = entity.NewSession(playerID, doc.State)
		d.preferred = doc.SelectedCityID
		return d.entity, nil
	case errors.Is(err, entity.ErrSaveNotFound):
		d.log.Info("new save", zap.Int64("player_id", int64(playerID)))
	case errors.Is(err, errx.ErrCorruptSave):
		logx.ReportSysError(ctx, d.log, logx.NewSysLog("session.load", err), zap.Int64("player_id", int64(playerID)))
	default:
		return nil, err
	}

	d.entity = entity.NewSession(playerID, d.initial())
	d.preferred = ""
	return d.entity, nil
}

// load 是全量加载数据到内存；flush 采用脏检查 + 同步快照 + 异步写库
// 持久化粒度是整份存档，快照里的 GameState 是不可变值，可以直接交给写库协程
// 所有状态修改都经 session actor，同一玩家只有一个写者
func (d *SessionDC) Flush(_ context.Context) {
	if !d.IsDirty() {
		return
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

func (d *SessionDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *SessionDC) Entity() *entity.Session {
	return d.entity
}

func (d *SessionDC) PreferredCityID() string {
	return d.preferred
}

func (d *SessionDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *SessionDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *SessionDC) buildNextSnapshot() (*entity.PersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version, d.now())
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *SessionDC) enqueueLatest(s *entity.PersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *SessionDC) popPending() *entity.PersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 返回 false 表示已关闭，快照被放弃。
func (d *SessionDC) requeueOnError(s *entity.PersistSnapshot) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *SessionDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *SessionDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := d.repo.Save(ctx, s)
		cancel()
		if err == nil {
			continue
		}

		fields := []zap.Field{zap.Int64("player_id", int64(s.PlayerID)), zap.Uint64("version", s.Version)}
		logx.ReportSysError(context.Background(), d.log, logx.NewSysLog("session.save", err), fields...)
		// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
		if !d.requeueOnError(s) {
			d.log.Error("session dc closed, snapshot dropped", fields...)
			return
		}
		time.Sleep(retryBackoff)
	}
}
