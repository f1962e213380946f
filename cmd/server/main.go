package main

import (
	"IdleCity/internal/game/catalog"
	sessionactor "IdleCity/internal/session/actor"
	"IdleCity/internal/session/actors"
	"IdleCity/internal/session/app/port"
	"IdleCity/internal/session/codec"
	"IdleCity/internal/session/infra/persistence"
	"IdleCity/internal/session/infra/persistence/file"
	"IdleCity/internal/session/infra/persistence/memory"
	sessionmongo "IdleCity/internal/session/infra/persistence/mongodb"
	sessionmysql "IdleCity/internal/session/infra/persistence/mysql"
	"IdleCity/internal/session/interfaces"
	"IdleCity/internal/shared/infrastructure/db"
	sharedmongo "IdleCity/internal/shared/infrastructure/mongo"
	"IdleCity/internal/shared/logs"
	"IdleCity/internal/shared/security"
	"IdleCity/internal/shared/serverconfig"
	transporthttp "IdleCity/internal/shared/transport/http"
	"IdleCity/internal/shared/utils"
	"IdleCity/modules/kit/logx"
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadDir(dir)
}

// openStore 按 storage.driver 选存档后端，返回的 closer 在退出时调用。
func openStore(ctx context.Context, cfg serverconfig.StorageConfig, logger *zap.Logger) (port.SaveStore, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "memory":
		return memory.NewSaveStore(), noop, nil
	case "file":
		s, err := file.NewSaveStore(cfg.FileDir)
		return s, noop, err
	case "mongo", "mongodb":
		client, err := sharedmongo.Open(ctx, cfg.MongoDB, logger)
		if err != nil {
			return nil, noop, err
		}
		closer := func() {
			_ = client.Disconnect(context.Background())
		}
		coll := sharedmongo.SaveCollection(client, cfg.MongoDB)
		if err := sharedmongo.EnsureSaveIndexes(ctx, coll); err != nil {
			closer()
			return nil, noop, err
		}
		return sessionmongo.NewSaveStore(coll), closer, nil
	case "mysql":
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, noop, err
		}
		s := sessionmysql.NewSaveStore(gdb)
		if err := s.Migrate(); err != nil {
			return nil, noop, err
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return s, closer, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

func main() {
	confPath := flag.String("config", "", "配置文件路径，为空时向上查找 configs/conf.yml")
	flag.Parse()

	if err := serverconfig.Load(*confPath); err != nil {
		panic(err)
	}
	conf := serverconfig.Conf
	if err := logs.Init("idlecity", conf.Log); err != nil {
		panic(err)
	}
	defer func() {
		_ = logs.Sync()
	}()
	logs.Info("conf", zap.Any("game", conf.Game), zap.String("storage", conf.Storage.Driver))

	logger := logs.L()
	appLog := logx.NewZapLogger(logger)

	cat, err := loadCatalog(conf.Game.CatalogDir)
	if err != nil {
		logs.Fatal("load catalog failed", zap.String("dir", conf.Game.CatalogDir), zap.Error(err))
	}

	if err := utils.ConfigureNode(conf.Game.NodeID); err != nil {
		logs.Fatal("invalid node_id", zap.Int64("node_id", conf.Game.NodeID), zap.Error(err))
	}

	security.SetTokenTTL(conf.Security.TokenTTL())

	saveCodec, err := codec.New(conf.Security.SaveKey)
	if err != nil {
		logs.Fatal("invalid save_key", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, conf.Storage, logger)
	if err != nil {
		logs.Fatal("open save store failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	rt := sessionactor.NewRuntime(actors.Deps{
		Repo:            persistence.NewSaveRepo(store, saveCodec),
		Catalog:         cat,
		Logger:          appLog,
		Tick:            conf.Game.TickDuration(),
		FlushEvery:      conf.Game.FlushInterval(),
		IdleTimeout:     conf.Game.IdleTimeout(),
		CatchUpChunk:    conf.Game.CatchUpChunk,
		MaxCatchUpTicks: conf.Game.MaxCatchUpTicks,
	}, conf.Game.RequestTimeout())

	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	server := transporthttp.NewHttpServer(addr, nil, appLog.Named("http"))
	server.Mount("/api", interfaces.New(rt, rt, appLog.Named("api")))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("http server started",
			zap.String("addr", addr),
			zap.Bool("save_encrypted", saveCodec.Encrypted()),
		)
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http shutdown", zap.Error(err))
	}
	// 会话 actor 停止时会把脏数据落盘，必须在关闭存储之前完成
	rt.Shutdown()
	logs.Info("server stopped")
}
