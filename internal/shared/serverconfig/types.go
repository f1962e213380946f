package serverconfig

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Security   SecurityConfig   `yaml:"security" mapstructure:"security"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GameConfig struct {
	TickMS           int    `yaml:"tick_ms" mapstructure:"tick_ms"`
	CatchUpChunk     int    `yaml:"catch_up_chunk" mapstructure:"catch_up_chunk"`
	MaxCatchUpTicks  int64  `yaml:"max_catch_up_ticks" mapstructure:"max_catch_up_ticks"` // 0 表示不限
	FlushMS          int    `yaml:"flush_ms" mapstructure:"flush_ms"`
	IdleTimeoutS     int    `yaml:"idle_timeout_s" mapstructure:"idle_timeout_s"` // 0 表示会话不自动下线
	RequestTimeoutMS int    `yaml:"request_timeout_ms" mapstructure:"request_timeout_ms"`
	CatalogDir       string `yaml:"catalog_dir" mapstructure:"catalog_dir"` // 为空时用内置表
	NodeID           int64  `yaml:"node_id" mapstructure:"node_id"`
}

func (g GameConfig) TickDuration() time.Duration {
	return time.Duration(g.TickMS) * time.Millisecond
}

func (g GameConfig) FlushInterval() time.Duration {
	return time.Duration(g.FlushMS) * time.Millisecond
}

func (g GameConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutMS) * time.Millisecond
}

func (s SecurityConfig) TokenTTL() time.Duration {
	return time.Duration(s.TokenTTLH) * time.Hour
}

func (g GameConfig) IdleTimeout() time.Duration {
	return time.Duration(g.IdleTimeoutS) * time.Second
}

type StorageConfig struct {
	Driver  string        `yaml:"driver" mapstructure:"driver"` // memory/file/mongo/mysql
	FileDir string        `yaml:"file_dir" mapstructure:"file_dir"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type SecurityConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTLH int    `yaml:"token_ttl_h" mapstructure:"token_ttl_h"`

	// SaveKey 非空时存档用 AES-CBC 加密，长度必须是 16/24/32。
	SaveKey string `yaml:"save_key" mapstructure:"save_key"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// ApplyDefaults 给未配置的项补默认值。
func (c *Config) ApplyDefaults() {
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.Game.TickMS <= 0 {
		c.Game.TickMS = 1000
	}
	if c.Game.CatchUpChunk <= 0 {
		c.Game.CatchUpChunk = 500
	}
	if c.Game.FlushMS <= 0 {
		c.Game.FlushMS = 5000
	}
	if c.Game.RequestTimeoutMS <= 0 {
		c.Game.RequestTimeoutMS = 3000
	}
	if c.Game.NodeID == 0 {
		c.Game.NodeID = 1
	}
	if c.Game.IdleTimeoutS < 0 {
		c.Game.IdleTimeoutS = 0
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.FileDir == "" {
		c.Storage.FileDir = "data/saves"
	}
	if c.Storage.MongoDB.Collection == "" {
		c.Storage.MongoDB.Collection = "save_slot"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
