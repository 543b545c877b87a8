package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"crossquote/internal/classifier"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Catalog    CatalogConfig
	Classifier ClassifierConfig
	Tax        TaxConfig
	Logistics  LogisticsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	Environment    string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds quote cache settings.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// S3Config holds AWS S3 settings for catalog snapshots.
type S3Config struct {
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket"`
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	SnapshotKey string `mapstructure:"snapshot_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where lookup data is loaded from.
// A zero RefreshInterval disables the periodic refresh worker.
type CatalogConfig struct {
	Source          string        `mapstructure:"source"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ClassifierConfig holds classification thresholds.
type ClassifierConfig struct {
	ConfidenceFloor float64 `mapstructure:"confidence_floor"`
	FuzzyThreshold  float64 `mapstructure:"fuzzy_threshold"`
	MaxResults      int     `mapstructure:"max_results"`
	MiscCode        string  `mapstructure:"misc_code"`
}

// TaxConfig holds destination-independent tax settings.
type TaxConfig struct {
	DefaultDutyRate string `mapstructure:"default_duty_rate"`
}

// LogisticsConfig holds scoring weights and default package dimensions.
type LogisticsConfig struct {
	VolumetricDivisor float64 `mapstructure:"volumetric_divisor"`
	BaseWeight        float64 `mapstructure:"base_weight"`
	PreferenceBoost   float64 `mapstructure:"preference_boost"`
	DDPBonus          float64 `mapstructure:"ddp_bonus"`
	DefaultLengthCm   float64 `mapstructure:"default_length_cm"`
	DefaultWidthCm    float64 `mapstructure:"default_width_cm"`
	DefaultHeightCm   float64 `mapstructure:"default_height_cm"`
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case "builtin", "s3":
	case "postgres":
		if !c.DB.Enabled {
			return fmt.Errorf("catalog source postgres requires CROSSQUOTE_DB_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown catalog source %q (want builtin, postgres or s3)", c.Catalog.Source)
	}
	if c.Catalog.Source == "s3" && (c.S3.Bucket == "" || c.S3.SnapshotKey == "") {
		return fmt.Errorf("catalog source s3 requires a bucket and snapshot key")
	}
	if c.Classifier.ConfidenceFloor < 0 || c.Classifier.ConfidenceFloor > 1 {
		return fmt.Errorf("classifier confidence floor must be within [0,1], got %v", c.Classifier.ConfidenceFloor)
	}
	if c.Classifier.MiscCode != "" {
		if reason := classifier.FormatReason(c.Classifier.MiscCode); reason != "" {
			return fmt.Errorf("classifier misc code %q: %s", c.Classifier.MiscCode, reason)
		}
	}
	if c.Logistics.VolumetricDivisor <= 0 {
		return fmt.Errorf("volumetric divisor must be positive")
	}
	if c.Logistics.DDPBonus < 0 {
		return fmt.Errorf("ddp bonus must not be negative, got %v", c.Logistics.DDPBonus)
	}
	return nil
}

// Load reads configuration from environment variables with the CROSSQUOTE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CROSSQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "crossquote")
	v.SetDefault("db.password", "crossquote_secret")
	v.SetDefault("db.name", "crossquote_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("redis.key_prefix", "crossquote:quote:")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "crossquote-catalog")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.snapshot_key", "catalog/current.json")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Catalog defaults
	v.SetDefault("catalog.source", "builtin")
	v.SetDefault("catalog.refresh_interval", "0s")

	// Engine defaults
	v.SetDefault("classifier.confidence_floor", 0.5)
	v.SetDefault("classifier.fuzzy_threshold", 0.70)
	v.SetDefault("classifier.max_results", 5)
	v.SetDefault("classifier.misc_code", "9600")
	v.SetDefault("tax.default_duty_rate", "0.05")
	v.SetDefault("logistics.volumetric_divisor", 5000)
	v.SetDefault("logistics.base_weight", 1)
	v.SetDefault("logistics.preference_boost", 2)
	v.SetDefault("logistics.ddp_bonus", 0.15)
	v.SetDefault("logistics.default_length_cm", 30)
	v.SetDefault("logistics.default_width_cm", 20)
	v.SetDefault("logistics.default_height_cm", 15)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "CROSSQUOTE_SERVER_PORT",
		"server.read_timeout":          "CROSSQUOTE_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "CROSSQUOTE_SERVER_WRITE_TIMEOUT",
		"server.request_timeout":       "CROSSQUOTE_SERVER_REQUEST_TIMEOUT",
		"server.max_body_bytes":        "CROSSQUOTE_SERVER_MAX_BODY_BYTES",
		"server.environment":           "CROSSQUOTE_SERVER_ENVIRONMENT",
		"db.enabled":                   "CROSSQUOTE_DB_ENABLED",
		"db.host":                      "CROSSQUOTE_DB_HOST",
		"db.port":                      "CROSSQUOTE_DB_PORT",
		"db.user":                      "CROSSQUOTE_DB_USER",
		"db.password":                  "CROSSQUOTE_DB_PASSWORD",
		"db.name":                      "CROSSQUOTE_DB_NAME",
		"db.sslmode":                   "CROSSQUOTE_DB_SSLMODE",
		"db.max_open":                  "CROSSQUOTE_DB_MAX_OPEN",
		"db.max_idle":                  "CROSSQUOTE_DB_MAX_IDLE",
		"redis.enabled":                "CROSSQUOTE_REDIS_ENABLED",
		"redis.addr":                   "CROSSQUOTE_REDIS_ADDR",
		"redis.password":               "CROSSQUOTE_REDIS_PASSWORD",
		"redis.db":                     "CROSSQUOTE_REDIS_DB",
		"redis.ttl":                    "CROSSQUOTE_REDIS_TTL",
		"redis.key_prefix":             "CROSSQUOTE_REDIS_KEY_PREFIX",
		"s3.region":                    "CROSSQUOTE_S3_REGION",
		"s3.bucket":                    "CROSSQUOTE_S3_BUCKET",
		"s3.endpoint":                  "CROSSQUOTE_S3_ENDPOINT",
		"s3.access_key":                "CROSSQUOTE_S3_ACCESS_KEY",
		"s3.secret_key":                "CROSSQUOTE_S3_SECRET_KEY",
		"s3.snapshot_key":              "CROSSQUOTE_S3_SNAPSHOT_KEY",
		"log.level":                    "CROSSQUOTE_LOG_LEVEL",
		"log.format":                   "CROSSQUOTE_LOG_FORMAT",
		"log.output":                   "CROSSQUOTE_LOG_OUTPUT",
		"cors.allowed_origins":         "CROSSQUOTE_CORS_ALLOWED_ORIGINS",
		"catalog.source":               "CROSSQUOTE_CATALOG_SOURCE",
		"catalog.refresh_interval":     "CROSSQUOTE_CATALOG_REFRESH_INTERVAL",
		"classifier.confidence_floor":  "CROSSQUOTE_CLASSIFIER_CONFIDENCE_FLOOR",
		"classifier.fuzzy_threshold":   "CROSSQUOTE_CLASSIFIER_FUZZY_THRESHOLD",
		"classifier.max_results":       "CROSSQUOTE_CLASSIFIER_MAX_RESULTS",
		"classifier.misc_code":         "CROSSQUOTE_CLASSIFIER_MISC_CODE",
		"tax.default_duty_rate":        "CROSSQUOTE_TAX_DEFAULT_DUTY_RATE",
		"logistics.volumetric_divisor": "CROSSQUOTE_LOGISTICS_VOLUMETRIC_DIVISOR",
		"logistics.base_weight":        "CROSSQUOTE_LOGISTICS_BASE_WEIGHT",
		"logistics.preference_boost":   "CROSSQUOTE_LOGISTICS_PREFERENCE_BOOST",
		"logistics.ddp_bonus":          "CROSSQUOTE_LOGISTICS_DDP_BONUS",
		"logistics.default_length_cm":  "CROSSQUOTE_LOGISTICS_DEFAULT_LENGTH_CM",
		"logistics.default_width_cm":   "CROSSQUOTE_LOGISTICS_DEFAULT_WIDTH_CM",
		"logistics.default_height_cm":  "CROSSQUOTE_LOGISTICS_DEFAULT_HEIGHT_CM",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CROSSQUOTE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CROSSQUOTE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		RequestTimeout: v.GetDuration("server.request_timeout"),
		MaxBodyBytes:   v.GetInt64("server.max_body_bytes"),
		Environment:    v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("redis.enabled"),
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		TTL:       v.GetDuration("redis.ttl"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.S3 = S3Config{
		Region:      v.GetString("s3.region"),
		Bucket:      v.GetString("s3.bucket"),
		Endpoint:    v.GetString("s3.endpoint"),
		AccessKey:   v.GetString("s3.access_key"),
		SecretKey:   v.GetString("s3.secret_key"),
		SnapshotKey: v.GetString("s3.snapshot_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Catalog = CatalogConfig{
		Source:          strings.ToLower(v.GetString("catalog.source")),
		RefreshInterval: v.GetDuration("catalog.refresh_interval"),
	}
	cfg.Classifier = ClassifierConfig{
		ConfidenceFloor: v.GetFloat64("classifier.confidence_floor"),
		FuzzyThreshold:  v.GetFloat64("classifier.fuzzy_threshold"),
		MaxResults:      v.GetInt("classifier.max_results"),
		MiscCode:        v.GetString("classifier.misc_code"),
	}
	cfg.Tax = TaxConfig{
		DefaultDutyRate: v.GetString("tax.default_duty_rate"),
	}
	cfg.Logistics = LogisticsConfig{
		VolumetricDivisor: v.GetFloat64("logistics.volumetric_divisor"),
		BaseWeight:        v.GetFloat64("logistics.base_weight"),
		PreferenceBoost:   v.GetFloat64("logistics.preference_boost"),
		DDPBonus:          v.GetFloat64("logistics.ddp_bonus"),
		DefaultLengthCm:   v.GetFloat64("logistics.default_length_cm"),
		DefaultWidthCm:    v.GetFloat64("logistics.default_width_cm"),
		DefaultHeightCm:   v.GetFloat64("logistics.default_height_cm"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitCSV parses a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
