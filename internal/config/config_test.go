package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossquote/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "builtin", cfg.Catalog.Source)
	assert.Equal(t, time.Duration(0), cfg.Catalog.RefreshInterval)
	assert.Equal(t, 0.5, cfg.Classifier.ConfidenceFloor)
	assert.Equal(t, 0.70, cfg.Classifier.FuzzyThreshold)
	assert.Equal(t, 5, cfg.Classifier.MaxResults)
	assert.Equal(t, "9600", cfg.Classifier.MiscCode)
	assert.Equal(t, "0.05", cfg.Tax.DefaultDutyRate)
	assert.Equal(t, 5000.0, cfg.Logistics.VolumetricDivisor)
	assert.Equal(t, 0.15, cfg.Logistics.DDPBonus)
	assert.False(t, cfg.DB.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CROSSQUOTE_CLASSIFIER_CONFIDENCE_FLOOR", "0.65")
	t.Setenv("CROSSQUOTE_LOGISTICS_DDP_BONUS", "0.3")
	t.Setenv("CROSSQUOTE_CATALOG_REFRESH_INTERVAL", "5m")
	t.Setenv("CROSSQUOTE_CORS_ALLOWED_ORIGINS", "https://shop.example, ,https://admin.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.65, cfg.Classifier.ConfidenceFloor)
	assert.Equal(t, 0.3, cfg.Logistics.DDPBonus)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)

	t.Setenv("CROSSQUOTE_SERVER_PORT", ":7070")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_RejectsPostgresSourceWithoutDB(t *testing.T) {
	t.Setenv("CROSSQUOTE_CATALOG_SOURCE", "postgres")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Catalog:    config.CatalogConfig{Source: "builtin"},
			Classifier: config.ClassifierConfig{ConfidenceFloor: 0.5},
			Logistics:  config.LogisticsConfig{VolumetricDivisor: 5000},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.Source = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Catalog.Source = "s3"
	assert.Error(t, cfg.Validate())
	cfg.S3 = config.S3Config{Bucket: "b", SnapshotKey: "k"}
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Classifier.ConfidenceFloor = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Logistics.VolumetricDivisor = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Logistics.DDPBonus = -0.1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Classifier.MiscCode = "9600"
	assert.NoError(t, cfg.Validate())
	for _, code := range []string{"96X0", "960", "7700"} {
		cfg.Classifier.MiscCode = code
		assert.Error(t, cfg.Validate(), code)
	}
}

func TestLoad_RejectsMalformedMiscCode(t *testing.T) {
	t.Setenv("CROSSQUOTE_CLASSIFIER_MISC_CODE", "misc")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misc code")
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}
