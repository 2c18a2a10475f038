package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const configPathEnv = "SHOP_CONFIG"

type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	DbName string `mapstructure:"POSTGRES_DB"`
	DbHost string `mapstructure:"POSTGRES_HOST"`
	DbPort string `mapstructure:"POSTGRES_PORT"`
	DbUser string `mapstructure:"POSTGRES_USER"`
	DbPas  string `mapstructure:"POSTGRES_PASSWORD"`
	// 空字串時改用 AutoMigrate
	MigrationPath string `mapstructure:"MIGRATION_PATH"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CartTTL       time.Duration `mapstructure:"CART_TTL"`

	// 逗號分隔
	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC"`
	KafkaLogTopic   string `mapstructure:"KAFKA_LOG_TOPIC"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RateLimitCapacity  int `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitPerSecond int `mapstructure:"RATE_LIMIT_PER_SECOND"`
	// redis: 多個instance共用；memory: 單機
	RateLimitStore string `mapstructure:"RATE_LIMIT_STORE"`

	// 啟動時匯入的商品/用戶 yaml，空字串不匯入
	SeedPath string `mapstructure:"SEED_PATH"`
}

func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

var defaults = map[string]any{
	"SERVICE_NAME":          "shop",
	"SERVER_PORT":           "8080",
	"POSTGRES_DB":           "shop",
	"POSTGRES_HOST":         "localhost",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"MIGRATION_PATH":        "",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"CART_TTL":              "24h",
	"KAFKA_BROKERS":         "",
	"KAFKA_ORDER_TOPIC":     "shop.order.events",
	"KAFKA_LOG_TOPIC":       "",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"RATE_LIMIT_CAPACITY":   20,
	"RATE_LIMIT_PER_SECOND": 10,
	"RATE_LIMIT_STORE":      "redis",
	"SEED_PATH":             "",
}

/*
把load跟watch分開
Load : 讀檔 + 環境變數，檔案不存在時只用預設值與環境變數
Watch : 檔案變動時重新載入，整份替換
*/
type Loader struct {
	v      *viper.Viper
	mu     sync.RWMutex
	config *Config
	path   string
}

// NewLoader path 為空時使用 SHOP_CONFIG，再沒有就是 ./.env
func NewLoader(path string) *Loader {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		path = ".env"
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	return &Loader{v: v, path: path}
}

func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s failed: %w", l.path, err)
		}
	}

	cf := &Config{}
	if err := l.v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	l.mu.Lock()
	l.config = cf
	l.mu.Unlock()
	return cf, nil
}

// Get 回傳目前的設定快照
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Watch 設定檔變動時重新載入並呼叫 onChange
// 重新載入失敗時保留舊設定
func (l *Loader) Watch(onChange func(cf *Config), onError func(err error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cf, err := l.Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onChange != nil {
			onChange(cf)
		}
	})
	l.v.WatchConfig()
}
