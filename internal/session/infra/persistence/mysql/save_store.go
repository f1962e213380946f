package mysql

import (
	"context"
	"errors"
	"time"

	"IdleCity/internal/session/entity"
	"IdleCity/internal/session/errs"
	"IdleCity/internal/session/infra/persistence/model"

	"gorm.io/gorm"
)

const (
	OpMigrate = "repo.save.mysql.Migrate"
	OpGet     = "repo.save.mysql.Get"
	OpPut     = "repo.save.mysql.Put"
)

var errNilDB = errors.New("mysql db is nil")

type SaveStore struct {
	db *gorm.DB
}

func NewSaveStore(db *gorm.DB) *SaveStore {
	return &SaveStore{db: db}
}

func (s *SaveStore) WithTx(tx *gorm.DB) *SaveStore {
	return &SaveStore{
		db: tx,
	}
}

// Migrate 建表或补列。
func (s *SaveStore) Migrate() error {
	if s == nil || s.db == nil {
		return errs.Wrap(OpMigrate, errs.KindInfra, errNilDB, nil)
	}
	if err := s.db.AutoMigrate(&model.SaveSlot{}); err != nil {
		return errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return nil
}

func (s *SaveStore) Get(ctx context.Context, id entity.PlayerID) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, errs.Wrap(OpGet, errs.KindInfra, errNilDB, nil)
	}

	var m model.SaveSlot
	err := s.db.WithContext(ctx).Where("player_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return m.Blob, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrSaveNotFound
	default:
		return nil, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
}

func (s *SaveStore) Put(ctx context.Context, id entity.PlayerID, version uint64, blob []byte) error {
	if s == nil || s.db == nil {
		return errs.Wrap(OpPut, errs.KindInfra, errNilDB, nil)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.WithTx(tx).save(ctx, &model.SaveSlot{
			PlayerID:  int64(id),
			Version:   version,
			Blob:      blob,
			UpdatedAt: time.Now(),
		})
	})
	// 开事务失败时 gorm 返回的是裸错误
	if err != nil && errs.KindOf(err) == errs.KindUnknown {
		return errs.Wrap(OpPut, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
	return err
}

func (s *SaveStore) save(ctx context.Context, m *model.SaveSlot) error {
	err := s.db.WithContext(ctx).Save(m).Error
	if err != nil {
		return errs.Wrap(OpPut, errs.KindInfra, err, map[string]any{"player_id": m.PlayerID, "version": m.Version})
	}
	return nil
}
