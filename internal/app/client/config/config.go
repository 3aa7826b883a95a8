package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:1337"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".lecturapozos"
	defaultAPIPrefix     = "/api"
)

type Config struct {
	Env                    string `mapstructure:"app_env"`
	ServerAddress          string `mapstructure:"server_address"`
	APIPrefix              string `mapstructure:"api_prefix"`
	LogLevel               string `mapstructure:"log_level"`
	ConfigDir              string `mapstructure:"config_dir"`
	TokenPath              string `mapstructure:"token_path"`
	DataPath               string `mapstructure:"data_path"`
	SyncInterval           int    `mapstructure:"sync_interval_seconds"`
	ProbeInterval          int    `mapstructure:"probe_interval_seconds"`
	HTTPTimeout            int    `mapstructure:"http_timeout_seconds"`
	FollowUpOnMissedSignal bool   `mapstructure:"follow_up_on_missed_signal"`
	EnableTLS              bool   `mapstructure:"enable_tls"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env и переменные окружения
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("API_PREFIX", defaultAPIPrefix)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 60)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 10)
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("FOLLOW_UP_ON_MISSED_SIGNAL", true)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	config := &Config{
		Env:                    viper.GetString("APP_ENV"),
		ServerAddress:          viper.GetString("SERVER_ADDRESS"),
		APIPrefix:              viper.GetString("API_PREFIX"),
		LogLevel:               viper.GetString("LOG_LEVEL"),
		ConfigDir:              configDir,
		TokenPath:              filepath.Join(configDir, "token"),
		DataPath:               filepath.Join(configDir, "data.db"),
		SyncInterval:           viper.GetInt("SYNC_INTERVAL_SECONDS"),
		ProbeInterval:          viper.GetInt("PROBE_INTERVAL_SECONDS"),
		HTTPTimeout:            viper.GetInt("HTTP_TIMEOUT_SECONDS"),
		FollowUpOnMissedSignal: viper.GetBool("FOLLOW_UP_ON_MISSED_SIGNAL"),
		EnableTLS:              viper.GetBool("ENABLE_TLS"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("config_dir не может быть пустым")
	}
	if c.ProbeInterval < 0 || c.SyncInterval < 0 {
		return fmt.Errorf("интервалы не могут быть отрицательными")
	}
	return nil
}

// BaseURL возвращает адрес API с учетом схемы и префикса
func (c *Config) BaseURL() (string, error) {
	addr := strings.TrimRight(strings.TrimSpace(c.ServerAddress), "/")
	if addr == "" {
		return "", fmt.Errorf("server_address не может быть пустым")
	}

	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		scheme := "http://"
		if c.EnableTLS {
			scheme = "https://"
		}
		addr = scheme + addr
	}

	prefix := strings.TrimRight(c.APIPrefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return addr + prefix, nil
}
