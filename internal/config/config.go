// config はブログの設定を読み込む。
//
// 優先順位: --config で指定したパス、CONFIG_PATH、./local.yaml、環境変数のみ。
// どの場合も環境変数で上書きされる。
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// 設定不備 (起動時に即時失敗させる)
var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	Log     LogConfig     `yaml:"log"`
	Prismic PrismicConfig `yaml:"prismic"`
	Site    SiteConfig    `yaml:"site"`
	Storage StorageConfig `yaml:"storage"`
	HTTP    HTTPConfig    `yaml:"http"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// コンテンツ API の接続情報
type PrismicConfig struct {
	Endpoint          string        `yaml:"endpoint" env:"PRISMIC_API_ENDPOINT" env-required:"true"`
	AccessToken       string        `yaml:"access_token" env:"PRISMIC_ACCESS_TOKEN" env-required:"true"`
	RequestsPerSecond float64       `yaml:"rps" env:"PRISMIC_RPS" env-default:"10"`
	Timeout           time.Duration `yaml:"timeout" env:"PRISMIC_TIMEOUT" env-default:"10s"`
}

// ページ生成と再検証のポリシー
type SiteConfig struct {
	Title        string        `yaml:"title" env:"SITE_TITLE" env-default:"spacetraveling"`
	Locale       string        `yaml:"locale" env:"SITE_LOCALE" env-default:"pt-BR"`
	Timezone     string        `yaml:"timezone" env:"SITE_TIMEZONE" env-default:"UTC"`
	PageSize     int           `yaml:"page_size" env:"PAGE_SIZE" env-default:"2"`
	Revalidate   time.Duration `yaml:"revalidate" env:"REVALIDATE" env-default:"24h"`
	FallbackWait time.Duration `yaml:"fallback_wait" env:"FALLBACK_WAIT" env-default:"3s"`
}

// 生成ページの保存先 (Bucket があれば S3、なければ OutputDir)
type StorageConfig struct {
	Bucket    string `yaml:"bucket" env:"PAGES_BUCKET"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR" env-default:"public"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// 読み込みに失敗したら panic
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to read config: %v", ErrConfiguration, err)
		}
		return validate(&cfg)
	}

	if path != "" {
		return readFile(path)
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}
	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%w: provide --config, CONFIG_PATH, local.yaml or env vars: %v", ErrConfiguration, err)
	}
	return validate(&cfg)
}

func validate(cfg *Config) (*Config, error) {
	if cfg.Prismic.Endpoint == "" || cfg.Prismic.AccessToken == "" {
		return nil, fmt.Errorf("%w: prismic endpoint and access token are required", ErrConfiguration)
	}
	if cfg.Site.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrConfiguration, cfg.Site.PageSize)
	}
	if cfg.Site.Revalidate < 0 || cfg.Site.FallbackWait < 0 {
		return nil, fmt.Errorf("%w: durations must not be negative", ErrConfiguration)
	}
	if _, err := time.LoadLocation(cfg.Site.Timezone); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrConfiguration, cfg.Site.Timezone)
	}
	return cfg, nil
}

// タイムゾーンを解決 (validate 済みなので失敗時は UTC)
func (s SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
