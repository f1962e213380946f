package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// mu 保护热更新时对 out 的写入；读取方若需要强一致，应在启动后拷贝一份值使用。
var mu sync.Mutex

func load(configPath string, out any) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	mu.Lock()
	err := v.Unmarshal(out)
	mu.Unlock()
	if err != nil {
		return fmt.Errorf("viper unmarshal config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		mu.Lock()
		defer mu.Unlock()
		if err := v.Unmarshal(out); err != nil {
			log.Printf("viper unmarshal change config data: cast exception, err=%v\n", err)
		}
	})
	v.WatchConfig()
	return nil
}

// Decode 用 viper 从任意格式的 reader 里解码，catalog 之类的静态表也走这里。
func Decode(v *viper.Viper, out any) error {
	mu.Lock()
	defer mu.Unlock()
	return v.Unmarshal(out)
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
