package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

// LogFile 文件落盘 + lumberjack 切割；Filename 为空则只写控制台
type LogFile struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

// Session 会话 cookie 的签名密钥与生存期
type Session struct {
	Secret     string
	Issuer     string
	TTLHours   int
	CookieName string
	Secure     bool
}

type DB struct {
	Driver             string // sqlite（默认）/ mysql / postgres
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // 为空则不启用缓存
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Mail 联络表单外发邮箱（预置凭据）
type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string // 固定收件箱
}

type Features struct {
	About bool // about 页开关，启动时决定是否注册路由
}

type Config struct {
	App      App
	Log      Log
	Session  Session
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Mail     Mail
	Features Features
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// 配置文件缺失时用默认值 + 环境变量跑起来
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			log.Fatalf("read config: %v", err)
		}
		log.Printf("config file %s not found, using defaults + env", path)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "maastricht-cafe-list")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5001)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.filename", "")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)
	v.SetDefault("log.file.compress", true)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.issuer", "maastricht-cafe-list")
	v.SetDefault("session.ttlhours", 72)
	v.SetDefault("session.cookiename", "cafe_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "data/cafes.db")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.addr", "")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("features.about", false)
}
