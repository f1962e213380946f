package db

import (
	"IdleCity/internal/shared/serverconfig"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"IdleCity/internal/shared/logs"
)

const slowQueryThreshold = 200 * time.Millisecond

// DSN 拼 mysql 连接串：username:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func DSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
}

func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(level, slowQueryThreshold),
	}

	db, err := gorm.Open(mysql.Open(DSN(cfg)), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}

	logs.Info("open db success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return db, nil
}
