package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
}

type HTTPConfig struct {
	Host           string        `yaml:"host" env-default:""`
	Port           int           `yaml:"port" env:"PORT" env-default:"5000"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

// GRPCConfig configures the admin listener that serves the gRPC health
// service. Port 0 disables it.
type GRPCConfig struct {
	Host          string        `yaml:"host" env-default:""`
	Port          int           `yaml:"port" env:"GRPC_PORT" env-default:"0"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	ProbeInterval time.Duration `yaml:"probe_interval" env-default:"15s"`
}

// AuthConfig holds the token settings. Booleans must default to false:
// cleanenv applies env-default to any zero value, including a YAML false.
type AuthConfig struct {
	// Disabled makes every route public.
	Disabled       bool          `yaml:"disabled" env:"AUTH_DISABLED"`
	Secret         string        `yaml:"secret" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	TokenTTL       time.Duration `yaml:"token_ttl" env-default:"1h"`
	CookieName     string        `yaml:"cookie_name" env-default:"token"`
	InsecureCookie bool          `yaml:"insecure_cookie" env:"INSECURE_COOKIE"`
	// AccessOverrides maps route keys ("GET /blogs") to "public" or
	// "protected", replacing the entry of the built-in route table.
	AccessOverrides map[string]string `yaml:"access_overrides"`
}

type StorageConfig struct {
	Driver string       `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Mongo  MongoConfig  `yaml:"mongo"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"./storage/chronicles.db"`
}

type MongoConfig struct {
	URI      string        `yaml:"uri" env:"MONGO_URI"`
	User     string        `yaml:"user" env:"DB_USER"`
	Password string        `yaml:"password" env:"DB_PASS"`
	Database string        `yaml:"database" env:"DB_NAME" env-default:"creativeChronicles"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

// MustLoad reads the config path from the --config flag or CONFIG_PATH
// and loads it. It panics on any error.
func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
