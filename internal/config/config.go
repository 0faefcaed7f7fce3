package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Game      GameConfig      `mapstructure:"game"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Heartbeat HeartbeatConfig `mapstructure:"heartbeat"`
}

type AppConfig struct {
	Name       string `mapstructure:"name"`
	LogLevel   string `mapstructure:"log_level"`
	HTTPAddr   string `mapstructure:"http_addr"`
	HealthAddr string `mapstructure:"health_addr"`
}

type GameConfig struct {
	MinPlayers   int           `mapstructure:"min_players"`
	MaxPlayers   int           `mapstructure:"max_players"`
	WinningScore int           `mapstructure:"winning_score"`
	GraceRounds  int           `mapstructure:"grace_rounds"`
	HandSize     int           `mapstructure:"hand_size"`
	CatalogPath  string        `mapstructure:"catalog_path"` // 为空时使用内置卡牌目录
	MaxGames     int           `mapstructure:"max_games"`
	EvictTimeout time.Duration `mapstructure:"evict_timeout"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	WorkerCount   int           `mapstructure:"worker_count"`
	BufferSize    int           `mapstructure:"buffer_size"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN PostgreSQL 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// Addr host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type JWTConfig struct {
	Secret       string        `mapstructure:"secret"`
	AccessExpire time.Duration `mapstructure:"access_expire"`
}

type HeartbeatConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"` // 1-60
}

// Timeout 心跳超时时长
func (c HeartbeatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// setDefaults 默认值，配置文件和环境变量可以覆盖
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "codex-logic")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.http_addr", ":8080")
	v.SetDefault("app.health_addr", ":8081")

	v.SetDefault("game.min_players", 2)
	v.SetDefault("game.max_players", 4)
	v.SetDefault("game.winning_score", 20)
	v.SetDefault("game.grace_rounds", 1)
	v.SetDefault("game.hand_size", 3)
	v.SetDefault("game.catalog_path", "")
	v.SetDefault("game.max_games", 1000)
	v.SetDefault("game.evict_timeout", 30*time.Minute)

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.max_reconnects", -1)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.worker_count", 32)
	v.SetDefault("nats.buffer_size", 1024)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.snapshot_ttl", 24*time.Hour)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "codex")
	v.SetDefault("database.user", "codex")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("jwt.access_expire", 24*time.Hour)

	v.SetDefault("heartbeat.timeout_seconds", 30)
}

// Load 从指定路径加载配置，path 为空时只使用默认值和环境变量
// 环境变量使用 CODEX_ 前缀，例如 CODEX_REDIS_HOST
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.MinPlayers < 2 || g.MaxPlayers > 4 || g.MinPlayers > g.MaxPlayers:
		return fmt.Errorf("game players must satisfy 2 <= min_players <= max_players <= 4, got %d..%d", g.MinPlayers, g.MaxPlayers)
	case g.WinningScore <= 0:
		return fmt.Errorf("game.winning_score must be positive, got %d", g.WinningScore)
	case g.GraceRounds < 0:
		return fmt.Errorf("game.grace_rounds must not be negative, got %d", g.GraceRounds)
	case g.HandSize < 3:
		return fmt.Errorf("game.hand_size must be at least 3, got %d", g.HandSize)
	case c.Heartbeat.TimeoutSeconds < 1 || c.Heartbeat.TimeoutSeconds > 60:
		return fmt.Errorf("heartbeat.timeout_seconds must be in 1..60, got %d", c.Heartbeat.TimeoutSeconds)
	case c.NATS.WorkerCount <= 0:
		return fmt.Errorf("nats.worker_count must be positive, got %d", c.NATS.WorkerCount)
	}
	return nil
}
