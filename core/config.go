package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// KV backends
const (
	KVBackendMemory   = "memory"
	KVBackendRedis    = "redis"
	KVBackendPostgres = "postgres"
	KVBackendSQLite   = "sqlite"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string
		Debug            bool
		TestMode         bool
		SecretKey        string
		FrontendBaseURL  string
		APIBaseURL       string // reserved for a real auth backend, unused by the auth core
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string

		Server ServerConfig
		Auth   AuthConfig
		KV     KVConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	AuthConfig struct {
		RestoreDelay    time.Duration
		RestoreTimeout  time.Duration
		PasswordHashing string // plain | bcrypt
		DeviceCookie    string
	}

	KVConfig struct {
		Backend       string
		Prefix        string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		DSN           string
	}
)

// NewConfig loads the configuration for the current ENV (DEV by default).
// Values are read from defaults, then `config/.env.<env>` if it exists, then the environment
// (prefixed with the env name, e.g. DEV_KV_BACKEND).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "SkillXP Nexus")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "q9d$+xv87=kr!(hc2x)mz4&uw_pa0#l*s6(e1j^b$tegn-3yf")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("apiBaseURL", "http://localhost:8000/api")
	v.SetDefault("defaultFromEmail", "SkillXP Nexus <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("auth.restoreDelay", time.Duration(0))
	v.SetDefault("auth.restoreTimeout", 2*time.Second)
	v.SetDefault("auth.passwordHashing", "plain")
	v.SetDefault("auth.deviceCookie", "skillxp_device")

	v.SetDefault("kv.backend", KVBackendMemory)
	v.SetDefault("kv.prefix", "skillxp:")
	v.SetDefault("kv.redisAddr", "localhost:6379")
	v.SetDefault("kv.redisPassword", "")
	v.SetDefault("kv.redisDB", 0)
	v.SetDefault("kv.dsn", "file:skillxp.db?cache=shared")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("server.disableReqLogs", true)
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
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  strings.TrimSuffix(v.GetString("frontendBaseURL"), "/"),
		APIBaseURL:       v.GetString("apiBaseURL"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Auth: AuthConfig{
			RestoreDelay:    v.GetDuration("auth.restoreDelay"),
			RestoreTimeout:  v.GetDuration("auth.restoreTimeout"),
			PasswordHashing: strings.ToLower(v.GetString("auth.passwordHashing")),
			DeviceCookie:    v.GetString("auth.deviceCookie"),
		},
		KV: KVConfig{
			Backend:       strings.ToLower(v.GetString("kv.backend")),
			Prefix:        v.GetString("kv.prefix"),
			RedisAddr:     v.GetString("kv.redisAddr"),
			RedisPassword: v.GetString("kv.redisPassword"),
			RedisDB:       v.GetInt("kv.redisDB"),
			DSN:           v.GetString("kv.dsn"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: in-memory KV, no request logs, no delays.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "SkillXP Nexus",
		Build:            "test",
		Env:              "TEST",
		Debug:            false,
		TestMode:         true,
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:5173",
		defaultFromEmail: "SkillXP Nexus <noreply@localhost>",
		Server: ServerConfig{
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Auth: AuthConfig{
			RestoreTimeout:  time.Second,
			PasswordHashing: "plain",
			DeviceCookie:    "skillxp_device",
		},
		KV: KVConfig{Backend: KVBackendMemory, Prefix: "test:"},
	}
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	return *addr
}
