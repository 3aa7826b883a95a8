package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath = ".env"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":1337"
	defaultMigrations = "migrations"
	defaultUploadDir  = "uploads"
	defaultLogLevel   = "info"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Upload upload
	Logger logger
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type upload struct {
	Dir      string `env:"UPLOAD_DIR"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad загружает конфигурацию сервера или завершает процесс
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Ошибка загрузки .env файла: %v", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetDefault("app_env", EnvLocal)
	viper.SetDefault("run_address", defaultRunAddress)
	viper.SetDefault("migrations_path", defaultMigrations)
	viper.SetDefault("upload_dir", defaultUploadDir)
	viper.SetDefault("upload_max_bytes", 20<<20)
	viper.SetDefault("log_level", defaultLogLevel)

	config := &Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{RunAddress: viper.GetString("run_address")},
		Upload: upload{
			Dir:      viper.GetString("upload_dir"),
			MaxBytes: viper.GetInt64("upload_max_bytes"),
		},
		Logger: logger{LogLevel: viper.GetString("log_level")},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DB.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI не задан")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR не может быть пустым")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES должен быть положительным")
	}
	return nil
}
