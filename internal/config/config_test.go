package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_ROLE", "STANDARD")
	t.Setenv("PRODUCT_IMAGES_DIR", t.TempDir())
	t.Setenv("MAIL_TRANSPORT", "log")
}

func TestLoadMySQL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_CONNECTION_LIMIT", "7")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg := Load()
	assert.Equal(t, BackendMySQL, cfg.DBType)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 7, cfg.DBConnLimit)
	assert.Equal(t, 1440, cfg.AccessTTLMin)
	assert.Equal(t, "localhost:8080", cfg.PublicHost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, MailLog, cfg.MailTransport)
}

func TestLoadMongo(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_TYPE", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/")

	cfg := Load()
	assert.Equal(t, BackendMongo, cfg.DBType)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Empty(t, cfg.DBUser)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.AMQPURL)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_EXEMPT", "/healthz,/v1/configuration")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.True(t, rl.ExemptPaths["/v1/configuration"])
	assert.True(t, rl.Enabled)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	opts = RedisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.NotNil(t, opts.TLSConfig)
}
