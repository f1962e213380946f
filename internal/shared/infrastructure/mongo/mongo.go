package mongo

import (
	"IdleCity/internal/shared/serverconfig"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var ErrEmptyURI = errors.New("mongodb uri is empty")

// Open 连接 mongodb 并 ping 一次，失败时断开连接。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)
	return client, nil
}

// EnsureSaveIndexes 给存档集合建 updated_at 索引，运维按最近活跃筛玩家时用。重复调用是幂等的。
func EnsureSaveIndexes(ctx context.Context, coll *mongo.Collection) error {
	if coll == nil {
		return errors.New("mongodb collection is nil")
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("idx_updated_at"),
	})
	return err
}

// SaveCollection 返回存档集合。
func SaveCollection(client *mongo.Client, cfg serverconfig.MongoDBConfig) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}
