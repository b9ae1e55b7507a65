package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Media      MediaConfig
	Cloudinary CloudinaryConfig
	Mongo      MongoConfig
	RateLimit  RateLimitConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string // browser client; empty disables the fallback
}

type DatabaseConfig struct {
	Driver          string // mysql, postgres or sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// MediaConfig selects where uploaded images go.
type MediaConfig struct {
	Backend             string // local, cloudinary or gridfs
	PublicBaseURL       string // prefix for keys served by /media
	LocalDir            string
	Folder              string // cloudinary folder
	StripMetadata       bool
	CompensateOnFailure bool // delete the blob when the row insert fails
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type MongoConfig struct {
	URI      string
	Database string
	Bucket   string
}

type RateLimitConfig struct {
	Requests int // per window per client IP; 0 disables
	Window   time.Duration
}

// LoggingConfig tunes the zap logger. The encoder follows Server.Env; an empty
// Level keeps the encoder's default (info in production, debug otherwise).
type LoggingConfig struct {
	Level string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8099"),
			Env:          getenv("ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			StaticDir:    getenv("STATIC_DIR", "./public"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getenv("DB_DRIVER", "mysql")),
			DSN:             getenv("DB_DSN", "oddmap:oddmap@tcp(localhost:3306)/oddmap?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Media: MediaConfig{
			Backend:             strings.ToLower(getenv("MEDIA_BACKEND", "local")),
			PublicBaseURL:       strings.TrimRight(getenv("MEDIA_PUBLIC_URL", "http://localhost:8099/media"), "/"),
			LocalDir:            getenv("MEDIA_LOCAL_DIR", "./.uploads"),
			Folder:              getenv("MEDIA_FOLDER", "oddmap/locations"),
			StripMetadata:       getBool("MEDIA_STRIP_METADATA", true),
			CompensateOnFailure: getBool("MEDIA_COMPENSATE_ON_FAILURE", false),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Mongo: MongoConfig{
			URI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getenv("MONGO_DB", "oddmap"),
			Bucket:   getenv("MONGO_BUCKET", "media"),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(getenv("LOG_LEVEL", "")),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(key, "")); err == nil {
		return v
	}
	return def
}
