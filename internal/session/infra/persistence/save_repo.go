package persistence

import (
	"context"
	"errors"

	"IdleCity/internal/session/app/port"
	"IdleCity/internal/session/codec"
	"IdleCity/internal/session/entity"
	"IdleCity/internal/session/errs"
)

const (
	OpLoad = "repo.save.Load"
	OpSave = "repo.save.Save"
)

// SaveRepo 把编解码和具体存储拼起来。
type SaveRepo struct {
	store port.SaveStore
	codec *codec.Codec
}

var _ port.SaveRepository = (*SaveRepo)(nil)

func NewSaveRepo(store port.SaveStore, c *codec.Codec) *SaveRepo {
	if c == nil {
		c, _ = codec.New("")
	}
	return &SaveRepo{store: store, codec: c}
}

func (r *SaveRepo) Load(ctx context.Context, id entity.PlayerID) (*entity.SaveDocument, error) {
	blob, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrSaveNotFound) {
			return nil, err
		}
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
	// 损坏是数据问题，不包 infra，保持 errx 错误原样上抛
	return r.codec.Decode(id, blob)
}

func (r *SaveRepo) Save(ctx context.Context, s *entity.PersistSnapshot) error {
	if s == nil {
		return nil
	}
	meta := map[string]any{"player_id": int64(s.PlayerID), "version": s.Version}
	blob, err := r.codec.Encode(s)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindUnknown, err, meta)
	}
	if err := r.store.Put(ctx, s.PlayerID, s.Version, blob); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, meta)
	}
	return nil
}
