package core

import (
	"sync/atomic"
	"time"
)

type Config struct {
	Catalog CatalogConfig
	Image   ImageConfig
	Card    CardConfig
	OneBot  OneBotConfig
	Flood   FloodConfig
	Cache   CacheConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type CatalogConfig struct {
	Cookie      string
	BaseURL     string
	MaxResults  int
	TimeoutSecs int
}

type ImageConfig struct {
	BackgroundURL   string
	FontPath        string
	DefaultCoverURL string
	EnableList      bool
}

type CardConfig struct {
	Enable            bool
	PreferNativeShare bool
	APIURL            string
	CoverSize         int
}

type OneBotConfig struct {
	APIURL      string
	AccessToken string
}

type FloodConfig struct {
	PlaysPerMinute int
}

type CacheConfig struct {
	Size    int
	TTLSecs int
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language string
}

func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:     "https://music.163.com",
			MaxResults:  15,
			TimeoutSecs: 15,
		},
		Image: ImageConfig{
			BackgroundURL:   "https://cdn.jsdelivr.net/gh/leopard-1/cloudmusic02@main/default_bg.jpg",
			FontPath:        "simsun.ttc",
			DefaultCoverURL: "https://p2.music.126.net/6y-UfFfE3WcTq964nK1X6Q==/109951163158079773.jpg",
			EnableList:      true,
		},
		Card: CardConfig{
			Enable:            true,
			PreferNativeShare: true,
			APIURL:            "https://oiapi.net/api/QQMusicJSONArk",
			CoverSize:         500,
		},
		OneBot: OneBotConfig{
			APIURL: "http://127.0.0.1:3000",
		},
		Flood: FloodConfig{
			PlaysPerMinute: 6,
		},
		Cache: CacheConfig{
			Size:    256,
			TTLSecs: 300,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language: "zh",
		},
	}
}

// Provider hands out immutable configuration snapshots so settings can be
// hot-reloaded without locking readers. Every operation reads exactly one
// snapshot and never sees a half-applied reload.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(config *Config) *Provider {
	p := &Provider{}
	p.current.Store(config)
	return p
}

// Snapshot returns the active configuration. Callers must not mutate it.
func (p *Provider) Snapshot() *Config {
	return p.current.Load()
}

// Replace swaps in a new configuration snapshot.
func (p *Provider) Replace(config *Config) {
	p.current.Store(config)
}
