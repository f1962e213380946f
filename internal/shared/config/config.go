package config

import (
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Load 读取配置到 out（out 必须是指针）。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）且文件存在则直接使用；
// 2) 否则从当前目录开始向上查找 cfgName（为空时查找 `configs/conf.yml`）。
func Load(cfgName string, out any) error {
	curDir, err := os.Getwd()
	if err != nil {
		return err
	}
	if cfgName == "" {
		cfgName = DefaultConfigRelPath
	}
	if filepath.IsAbs(cfgName) {
		return load(cfgName, out)
	}
	path, err := findConfigUpward(curDir, cfgName)
	if err != nil {
		return err
	}
	return load(path, out)
}

func findConfigUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{Rel: rel, From: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	Rel  string
	From string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + e.Rel + " from: " + e.From
}
