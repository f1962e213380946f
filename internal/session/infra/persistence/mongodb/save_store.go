package mongodb

import (
	"context"
	"errors"
	"time"

	"IdleCity/internal/session/entity"
	"IdleCity/internal/session/errs"
	"IdleCity/internal/session/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	OpGet = "repo.save.mongo.Get"
	OpPut = "repo.save.mongo.Put"
)

var errNilCollection = errors.New("mongodb save collection is nil")

type SaveStore struct {
	coll *mongo.Collection
}

func NewSaveStore(coll *mongo.Collection) *SaveStore {
	return &SaveStore{coll: coll}
}

func (s *SaveStore) Get(ctx context.Context, id entity.PlayerID) ([]byte, error) {
	if s == nil || s.coll == nil {
		return nil, errs.Wrap(OpGet, errs.KindInfra, errNilCollection, nil)
	}

	var doc model.SaveDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	if err == nil {
		return doc.Blob, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrSaveNotFound
	}
	return nil, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
}

func (s *SaveStore) Put(ctx context.Context, id entity.PlayerID, version uint64, blob []byte) error {
	if s == nil || s.coll == nil {
		return errs.Wrap(OpPut, errs.KindInfra, errNilCollection, nil)
	}

	doc := model.SaveDoc{
		PlayerID:  int64(id),
		Version:   version,
		Blob:      blob,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.PlayerID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errs.Wrap(OpPut, errs.KindInfra, err, map[string]any{"player_id": doc.PlayerID, "version": version})
	}
	return nil
}
