package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"IdleCity/internal/session/entity"
)

const saveExt = ".sav"

// SaveStore 每个玩家一个文件：<dir>/<playerID>.sav。
// 写入先落临时文件再 rename，崩溃时不会留下半个存档。
type SaveStore struct {
	dir string
}

func NewSaveStore(dir string) (*SaveStore, error) {
	if dir == "" {
		return nil, errors.New("file save store: dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SaveStore{dir: dir}, nil
}

func (s *SaveStore) path(id entity.PlayerID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d%s", int64(id), saveExt))
}

func (s *SaveStore) Get(ctx context.Context, id entity.PlayerID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entity.ErrSaveNotFound
	}
	return blob, err
}

func (s *SaveStore) Put(ctx context.Context, id entity.PlayerID, version uint64, blob []byte) error {
	_ = version
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf("%d-*.tmp", int64(id)))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// rename 成功后临时文件已不存在，这里的错误可以忽略
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path(id))
}
