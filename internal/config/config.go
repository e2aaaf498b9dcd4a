package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	JWT        JWTConfig        `yaml:"jwt"`
	Pricing    PricingConfig    `yaml:"pricing"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Storage    StorageConfig    `yaml:"storage"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// AdminConfig — единственная учётка админ-панели. Пароль только из окружения,
// в yaml не кладём.
type AdminConfig struct {
	User     string `yaml:"user" env:"ADMIN_USER" env-default:"admin"`
	Password string `yaml:"-" env:"ADMIN_PASSWORD" env-required:"true"`
}

// DeliveryConfig — общий ключ курьерской компании (заголовок x-api-key)
type DeliveryConfig struct {
	APIKey string `yaml:"-" env:"DELIVERY_API_KEY" env-required:"true"`
}

// JWTConfig настройка jwt для токена админ-панели
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"` // минуты
}

// PricingConfig — серверный пересчёт суммы заказа.
// enforce=false: расхождение с каталогом только логируется (совместимо со старым клиентом),
// enforce=true: заказ с расхождением отклоняется.
type PricingConfig struct {
	Enforce     bool    `yaml:"enforce" env-default:"false"`
	ShippingFee float64 `yaml:"shipping_fee" env-default:"60"`
}

// RateLimitConfig — грубый лимит по адресу клиента
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env-default:"100"`
	Window   time.Duration `yaml:"window" env-default:"15m"`
}

// StorageConfig — внешнее объектное хранилище для чеков об оплате
type StorageConfig struct {
	BaseURL    string `yaml:"base_url"`
	Bucket     string `yaml:"bucket" env-default:"transaction-images"`
	ServiceKey string `yaml:"-" env:"STORAGE_SERVICE_KEY"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
