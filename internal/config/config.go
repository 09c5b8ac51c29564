package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// GameTTL is how long an idle game is kept before it is reaped.
	GameTTL time.Duration `mapstructure:"game_ttl"`
}

type EngineConfig struct {
	BoardSize   int    `mapstructure:"board_size"`
	SearchDepth int    `mapstructure:"search_depth"`
	Boss        string `mapstructure:"boss"`
	// Seed 0 means seed from the clock.
	Seed      int64 `mapstructure:"seed"`
	AIDelayMS int   `mapstructure:"ai_delay_ms"`
	Terrain   bool  `mapstructure:"terrain"`
	Midas     bool  `mapstructure:"midas"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AIDelay is the cosmetic pause before the enemy move is pushed to clients.
func (e EngineConfig) AIDelay() time.Duration {
	return time.Duration(e.AIDelayMS) * time.Millisecond
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variables
	viper.SetEnvPrefix("ROGUECHESS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.game_ttl", "2h")
	viper.SetDefault("engine.board_size", 8)
	viper.SetDefault("engine.search_depth", 2)
	viper.SetDefault("engine.boss", "none")
	viper.SetDefault("engine.seed", 0)
	viper.SetDefault("engine.ai_delay_ms", 400)
	viper.SetDefault("engine.terrain", true)
	viper.SetDefault("engine.midas", false)
	viper.SetDefault("auth.secret", "")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("development.debug", false)
	viper.SetDefault("development.log_level", "info")

	// Read config; a missing file still honours defaults and environment
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.BoardSize < board.MinSize || c.Engine.BoardSize > board.MaxSize {
		return fmt.Errorf("engine.board_size %d outside [%d, %d]", c.Engine.BoardSize, board.MinSize, board.MaxSize)
	}
	if c.Engine.SearchDepth < 1 {
		return fmt.Errorf("engine.search_depth must be positive, got %d", c.Engine.SearchDepth)
	}
	if _, err := boss.ParseID(c.Engine.Boss); err != nil {
		return fmt.Errorf("engine.boss: %w", err)
	}
	if c.Server.GameTTL <= 0 {
		return fmt.Errorf("server.game_ttl must be positive, got %s", c.Server.GameTTL)
	}
	if c.Engine.AIDelayMS < 0 {
		return fmt.Errorf("engine.ai_delay_ms must not be negative")
	}
	return nil
}

// Defaults mirrors the values Load falls back to.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "localhost",
			Port:    8080,
			GameTTL: 2 * time.Hour,
		},
		Engine: EngineConfig{
			BoardSize:   8,
			SearchDepth: 2,
			Boss:        "none",
			AIDelayMS:   400,
			Terrain:     true,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Development: DevelopmentConfig{
			Debug:    false,
			LogLevel: "info",
		},
	}
}
