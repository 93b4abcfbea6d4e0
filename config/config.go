package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
	// JwtExpireMinutes controls access token lifetime.
	JwtExpireMinutes int `yaml:"jwt_expire_minutes" json:"jwt_expire_minutes"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	From     string `yaml:"from" json:"from"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// PushConfig configures the outbound real-time push channel
// (a Pusher-compatible HTTP endpoint).
type PushConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	AppId    string `yaml:"app_id" json:"app_id"`
	Key      string `yaml:"key" json:"key"`
	Secret   string `yaml:"secret" json:"secret"`
}

// StorageConfig points at the external image store's delete endpoint.
// Empty means image releases are skipped.
type StorageConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Smtp     SmtpConfig    `yaml:"smtp" json:"smtp"`
	Push     PushConfig    `yaml:"push" json:"push"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "lash",
		Location: "America/Panama",
		Workdir:  "/var/lash-backend",
		Debug:    true,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/lash-backend/lash.log",
	},
	Web: WebConfig{
		Host:             "0.0.0.0",
		Port:             3000,
		JwtSecret:        "9b6de5cc-lash-0f65-ac38-8e5ca171de19",
		JwtExpireMinutes: 1440,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "lash",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Host: "127.0.0.1",
		Port: 1025,
		From: "noreply@lalalash.com",
	},
	Push: PushConfig{
		Enabled: false,
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads configuration from a YAML file and applies
// LASH_* environment variable overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("LASH_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("LASH_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvValue("LASH_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("LASH_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("LASH_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("LASH_WEB_JWT_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("LASH_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("LASH_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("LASH_DB_PORT", func(v string) { cfg.Database.Port = cast.ToInt(v) })
	setEnvValue("LASH_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("LASH_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("LASH_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("LASH_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("LASH_SMTP_PORT", func(v string) { cfg.Smtp.Port = cast.ToInt(v) })
	setEnvValue("LASH_SMTP_FROM", func(v string) { cfg.Smtp.From = v })
	setEnvValue("LASH_SMTP_USER", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("LASH_SMTP_PWD", func(v string) { cfg.Smtp.Password = v })
	setEnvValue("LASH_PUSH_ENABLED", func(v string) { cfg.Push.Enabled = cast.ToBool(v) })
	setEnvValue("LASH_PUSH_ENDPOINT", func(v string) { cfg.Push.Endpoint = v })
	setEnvValue("LASH_PUSH_APPID", func(v string) { cfg.Push.AppId = v })
	setEnvValue("LASH_PUSH_KEY", func(v string) { cfg.Push.Key = v })
	setEnvValue("LASH_PUSH_SECRET", func(v string) { cfg.Push.Secret = v })
	setEnvValue("LASH_STORAGE_ENDPOINT", func(v string) { cfg.Storage.Endpoint = v })

	return cfg
}

// GetDSN builds the database connection string.
func (c DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Host, c.Port, c.User, c.Passwd, c.Name)
}
