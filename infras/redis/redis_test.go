package redis_test

import (
	"roombook/config"
	"roombook/infras/redis"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enable = false

	assert.Nil(t, redis.New(cfg))
}

func TestNew_UnreachableFallsBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enable = true
	cfg.Cache.Redis.Primary.Host = "127.0.0.1"
	cfg.Cache.Redis.Primary.Port = "1"

	assert.Nil(t, redis.New(cfg))
}
