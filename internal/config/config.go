package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	PhoneNo      string        `yaml:"phone_no"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type StorageCfg struct {
	// Backend selects the account repository: "memory" (default, resets on
	// restart) or "mongo".
	Backend string `yaml:"backend"`
}

type MongoCfg struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type SessionCfg struct {
	// Store selects session storage: "memory" (default) or "redis".
	Store string `yaml:"store"`
}

type RedisCfg struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TwilioCfg struct {
	AccountSID string `yaml:"accountSID"`
	AuthToken  string `yaml:"authToken"`
	From       string `yaml:"from"`
}

type SecurityCfg struct {
	// PasswordScheme is "plaintext" (the demo default, kept for compatibility
	// with the original portal) or "bcrypt".
	PasswordScheme string `yaml:"password_scheme"`
	BcryptCost     int    `yaml:"bcrypt_cost"`
}

type SeedCfg struct {
	// Participants are the pre-provisioned usernames loaded at startup.
	Participants []string `yaml:"participants"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	Storage  StorageCfg  `yaml:"storage"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Session  SessionCfg  `yaml:"session"`
	Redis    RedisCfg    `yaml:"redis"`
	Twilio   TwilioCfg   `yaml:"twilio"`
	Security SecurityCfg `yaml:"security"`
	Seed     SeedCfg     `yaml:"seed"`
}

// BaseURL is the externally reachable root of the portal, embedded in the
// reset links texted to participants.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.App.Host, c.App.Port)
}

// Load reads the optional YAML config file, then applies environment
// overrides. A missing file is fine: the portal runs entirely on defaults and
// environment variables, like the original demo.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppCfg{
			Env:          "development",
			Host:         "127.0.0.1",
			Port:         1337,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage:  StorageCfg{Backend: "memory"},
		Mongo:    MongoCfg{Database: "participant_portal", Collection: "accounts"},
		Session:  SessionCfg{Store: "memory"},
		Security: SecurityCfg{PasswordScheme: "plaintext"},
		Seed:     SeedCfg{Participants: []string{"p1337"}},
	}

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("HOST", func(v string) { cfg.App.Host = v })
	override("PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("PHONE_NO", func(v string) { cfg.App.PhoneNo = v })
	override("STORAGE_BACKEND", func(v string) { cfg.Storage.Backend = v })
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("SESSION_STORE", func(v string) { cfg.Session.Store = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("REDIS_DB", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	})
	override("TWILIO_ACCOUNT_SID", func(v string) { cfg.Twilio.AccountSID = v })
	override("TWILIO_AUTH_TOKEN", func(v string) { cfg.Twilio.AuthToken = v })
	override("TWILIO_FROM", func(v string) { cfg.Twilio.From = v })
	override("PASSWORD_SCHEME", func(v string) { cfg.Security.PasswordScheme = v })
	override("BCRYPT_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.BcryptCost = n
		}
	})

	if cfg.Storage.Backend == "mongo" && cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required when storage backend is mongo")
	}
	if cfg.Session.Store == "redis" && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when session store is redis")
	}

	return cfg, nil
}
