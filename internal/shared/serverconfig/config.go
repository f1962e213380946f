package serverconfig

import (
	"IdleCity/internal/shared/config"
	"os"
)

var Conf Config

// Load 读取服务配置并补默认值。path 为空时向上查找 configs/conf.yml。
func Load(path string) error {
	if err := config.Load(path, &Conf); err != nil {
		return err
	}
	Conf.ApplyDefaults()
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.Security.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Security.JWTSecret)
	}
	return nil
}
