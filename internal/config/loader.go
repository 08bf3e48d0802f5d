package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"github.com/swarmhive/orchestrator/pkg/utils/crypto"
)

type Config struct {
	Name      string          `mapstructure:"name"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    logger.Config   `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Advisor   AdvisorConfig   `mapstructure:"advisor"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Security  SecurityConfig  `mapstructure:"security"`
	Colosseum ColosseumConfig `mapstructure:"colosseum"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host                 string        `mapstructure:"host"`
	Port                 int           `mapstructure:"port"`
	ReadTimeout          time.Duration `mapstructure:"read_timeout"`
	WriteTimeout         time.Duration `mapstructure:"write_timeout"`
	IdleTimeout          time.Duration `mapstructure:"idle_timeout"`
	EnableRequestLogging bool          `mapstructure:"enable_request_logging"`
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig controls the optional activity archive. Task and agent
// state is memory-only regardless; only telemetry events are persisted.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type AdvisorConfig struct {
	Provider string        `mapstructure:"provider"` // "openai" or "anthropic"
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	AdminAPIKey    string   `mapstructure:"admin_api_key"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SecurityConfig struct {
	// When set, advisor/colosseum API keys in the config file are expected
	// to be AES-GCM encrypted and are decrypted at load time.
	EncryptionKey string `mapstructure:"encryption_key"`
}

type ColosseumConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// Announce the swarm on the contest forum at startup.
	AnnounceOnStart bool `mapstructure:"announce_on_start"`
}

type TradingConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	SlippageBps int    `mapstructure:"slippage_bps"`
}

type TelemetryConfig struct {
	MaxActivities int           `mapstructure:"max_activities"`
	Retention     time.Duration `mapstructure:"retention"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("SWARM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := decryptSecrets(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func decryptSecrets(cfg *Config) error {
	key := cfg.Security.EncryptionKey
	if key == "" {
		return nil
	}
	if cfg.Advisor.APIKey != "" {
		plain, err := crypto.Decrypt(cfg.Advisor.APIKey, key)
		if err != nil {
			return fmt.Errorf("failed to decrypt advisor api key: %w", err)
		}
		cfg.Advisor.APIKey = plain
	}
	if cfg.Colosseum.APIKey != "" {
		plain, err := crypto.Decrypt(cfg.Colosseum.APIKey, key)
		if err != nil {
			return fmt.Errorf("failed to decrypt colosseum api key: %w", err)
		}
		cfg.Colosseum.APIKey = plain
	}
	return nil
}
