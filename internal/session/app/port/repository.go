package port

import (
	"IdleCity/internal/session/entity"
	"context"
)

// SaveRepository 是数据缓存层看到的存档接口。
// Load 在没有存档时返回 entity.ErrSaveNotFound，存档损坏时返回 errx.ErrCorruptSave。
type SaveRepository interface {
	Load(ctx context.Context, id entity.PlayerID) (*entity.SaveDocument, error)
	Save(ctx context.Context, s *entity.PersistSnapshot) error
}

// SaveStore 只按玩家存取编码后的字节，编解码由 SaveRepository 负责。
type SaveStore interface {
	Get(ctx context.Context, id entity.PlayerID) ([]byte, error)
	Put(ctx context.Context, id entity.PlayerID, version uint64, blob []byte) error
}
