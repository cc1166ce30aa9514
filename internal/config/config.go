package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }

// DBCfg selects the storage backend: "memory" for the non-persistent
// variant, "postgres" for relational persistence.
type DBCfg struct{ Driver, DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	RateLimitPerMin int
}

type Cfg struct {
	App   AppCfg
	DB    DBCfg
	Redis RedisCfg
	Sec   SecurityCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists)
	_ = godotenv.Load()

	// 2) Read from env via viper
	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "dev")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("RATE_LIMIT_PER_MIN", 300)

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		DB: DBCfg{
			Driver: strings.ToLower(strings.TrimSpace(viper.GetString("STORE_DRIVER"))),
			DSN:    viper.GetString("DB_DSN"),
		},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Sec: SecurityCfg{
			RateLimitPerMin: viper.GetInt("RATE_LIMIT_PER_MIN"),
		},
	}

	// 3) Fail fast on required settings
	switch cfg.DB.Driver {
	case "memory":
	case "postgres":
		if cfg.DB.DSN == "" {
			log.Fatal().Msg("DB_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("STORE_DRIVER must be memory or postgres")
	}

	return cfg
}
