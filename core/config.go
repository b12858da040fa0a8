package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ClientConfig struct {
		BaseURL       string
		Timeout       time.Duration
		ToastDuration time.Duration
		Interactive   bool // ask confirmations on the terminal
	}

	ServerConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine string
		DSN    string // empty: in-memory store
	}

	RedisConfig struct {
		Addr string // empty: redis store disabled
		DB   int
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string

		Client   ClientConfig
		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
	}
)

// NewConfig loads the configuration from the environment (and `config/.env.<env>` when present).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Scuola")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("client_baseURL", "http://localhost:3000")
	v.SetDefault("client_timeout", time.Duration(0))
	v.SetDefault("client_toastDuration", 4*time.Second)
	v.SetDefault("client_interactive", true)
	v.SetDefault("server_host", "localhost")
	v.SetDefault("server_address", ":3000")
	v.SetDefault("server_shutdownTimeout", 5*time.Second)
	v.SetDefault("server_disableReqLogs", false)
	v.SetDefault("database_engine", "postgres")
	v.SetDefault("database_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Client: ClientConfig{
			BaseURL:       strings.TrimRight(v.GetString("client_baseURL"), "/"),
			Timeout:       v.GetDuration("client_timeout"),
			ToastDuration: v.GetDuration("client_toastDuration"),
			Interactive:   v.GetBool("client_interactive"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server_host"),
			Address:         v.GetString("server_address"),
			ShutdownTimeout: v.GetDuration("server_shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server_disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine: v.GetString("database_engine"),
			DSN:    v.GetString("database_dsn"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis_addr"),
			DB:   v.GetInt("redis_db"),
		},
	}
}
